package application

import (
	"context"
	"errors"
	"io"
	"net/mail"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

var (
	// ErrSubmissionNotFound is returned when no submission matches the given id.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrTemplateNotFound is returned when no report template matches the given id.
	ErrTemplateNotFound = errors.New("report template not found")
	// ErrQuestionNotFound is returned when no question matches the given id.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrDeliveryFailed wraps mailer failures surfaced to callers.
	ErrDeliveryFailed = errors.New("report delivery failed")
	// ErrNoRecipient is returned when a report email is requested for a submission without email.
	ErrNoRecipient = errors.New("submission has no respondent email")
)

// QuestionRepository persists the question bank.
type QuestionRepository interface {
	FindAll(ctx context.Context) ([]domain.Question, error)
	FindActive(ctx context.Context) ([]domain.Question, error)
	FindByID(ctx context.Context, id string) (*domain.Question, error)
	Create(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question) error
	Deactivate(ctx context.Context, id string, at time.Time) error
}

// SubmissionRepository persists completed assessments. Implementations must only
// touch the follow-up fields in UpdateFollowUp and reportSentAt in MarkReportSent.
type SubmissionRepository interface {
	Create(ctx context.Context, submission *domain.Submission) error
	FindByID(ctx context.Context, id string) (*domain.Submission, error)
	Find(ctx context.Context, filter SubmissionFilter, paging Paging) ([]domain.Submission, error)
	UpdateFollowUp(ctx context.Context, id string, status domain.FollowUpStatus, notes string, at time.Time) error
	MarkReportSent(ctx context.Context, id string, at time.Time) error
}

// TemplateRepository persists administrator-edited report templates.
type TemplateRepository interface {
	FindActive(ctx context.Context) (*domain.TemplateOverrides, error)
	FindByID(ctx context.Context, id string) (*domain.TemplateOverrides, error)
	List(ctx context.Context) ([]domain.TemplateOverrides, error)
	Create(ctx context.Context, tmpl *domain.ReportTemplate) error
	Update(ctx context.Context, tmpl *domain.ReportTemplate) error
	Activate(ctx context.Context, id string, at time.Time) error
}

// FailedDeliveryRepository stores report emails and staff notifications that could not be sent.
type FailedDeliveryRepository interface {
	Record(ctx context.Context, delivery *domain.FailedDelivery) error
	ListPending(ctx context.Context, limit int) ([]domain.FailedDelivery, error)
	MarkResolved(ctx context.Context, id string, at time.Time) error
	MarkAttempted(ctx context.Context, id string, lastErr string, at time.Time) error
}

// ReportMailer delivers rendered reports to respondents.
type ReportMailer interface {
	SendReport(ctx context.Context, msg ReportEmail) error
}

// LeadNotifier tells staff that a new assessment was completed.
type LeadNotifier interface {
	NotifyLead(ctx context.Context, submission domain.Submission) error
}

// ReportRenderer turns a submission and a template into a self-contained HTML document.
type ReportRenderer interface {
	Render(submission domain.Submission, tmpl domain.ReportTemplate) (string, error)
}

// ReportEmail is the message handed to a ReportMailer.
type ReportEmail struct {
	To       mail.Address
	FromName string
	ReplyTo  string
	Subject  string
	TextBody string
	HTMLBody string
}

// SubmissionFilter expresses staff search criteria.
type SubmissionFilter struct {
	FollowUpStatus string
	ScoreLevel     string
	Keyword        string
}

// Paging controls pagination.
type Paging struct {
	Page  int
	Limit int
}

// QuestionService describes question bank use-cases.
type QuestionService interface {
	ListActive(ctx context.Context) ([]domain.Question, error)
	ListAll(ctx context.Context) ([]domain.Question, error)
	Create(ctx context.Context, cmd UpsertQuestionCommand) (*domain.Question, error)
	Update(ctx context.Context, id string, cmd UpsertQuestionCommand) (*domain.Question, error)
	Deactivate(ctx context.Context, id string) error
}

// SubmissionService describes the submit, result and staff follow-up use-cases.
type SubmissionService interface {
	Submit(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error)
	Detail(ctx context.Context, id string) (*domain.Submission, error)
	Result(ctx context.Context, id string) (*ResultView, error)
	List(ctx context.Context, filter SubmissionFilter, paging Paging) ([]domain.Submission, error)
	UpdateFollowUp(ctx context.Context, id string, cmd FollowUpCommand) (*domain.Submission, error)
	Export(ctx context.Context, w io.Writer, filter SubmissionFilter) error
}

// TemplateService describes report template resolution and administration.
type TemplateService interface {
	Resolve(ctx context.Context) domain.ReportTemplate
	Default() domain.ReportTemplate
	List(ctx context.Context) ([]domain.ReportTemplate, error)
	Detail(ctx context.Context, id string) (*domain.ReportTemplate, error)
	Create(ctx context.Context, tmpl domain.ReportTemplate) (*domain.ReportTemplate, error)
	Update(ctx context.Context, id string, tmpl domain.ReportTemplate) (*domain.ReportTemplate, error)
	Activate(ctx context.Context, id string) (*domain.ReportTemplate, error)
}

// ReportService describes report generation and delivery.
type ReportService interface {
	Generate(ctx context.Context, submissionID string, sendEmail bool) (*ReportResult, error)
	Deliver(ctx context.Context, submissionID string) error
	Preview(ctx context.Context, submissionID string, tmpl domain.ReportTemplate) (string, error)
}

// AssessmentService runs the whole completion flow: score, persist, notify and send the report.
type AssessmentService interface {
	Complete(ctx context.Context, cmd SubmitCommand) (*Outcome, error)
}

// DeliveryService describes the failed-delivery retry queue.
type DeliveryService interface {
	ListPending(ctx context.Context, limit int) ([]domain.FailedDelivery, error)
	RetryPending(ctx context.Context, limit int) (RetrySummary, error)
}

// SubmitCommand contains the respondent input for one completed assessment.
type SubmitCommand struct {
	Name    string
	Email   string
	Company string
	Phone   string
	Answers map[string]int
}

// SubmitResult is the persisted submission together with the scoring detail.
type SubmitResult struct {
	Submission *domain.Submission
	Score      domain.ScoreResult
	Tier       domain.Tier
	Skipped    []string
}

// ResultView is what a respondent sees on the result screen.
type ResultView struct {
	Submission     domain.Submission
	Tier           domain.Tier
	CategoryScores []domain.CategoryScore
	TopStrength    domain.Category
	TopWeakness    domain.Category
}

// FollowUpCommand carries staff edits. Nil fields are left unchanged.
type FollowUpCommand struct {
	Status *string
	Notes  *string
}

// UpsertQuestionCommand contains inputs for creating/updating questions.
type UpsertQuestionCommand struct {
	QuestionNumber int
	Text           string
	Category       string
	Order          int
	IsActive       bool
}

// ReportResult is the outcome of one report generation.
type ReportResult struct {
	HTML       string
	Submission domain.Submission
	Template   domain.ReportTemplate
	EmailSent  bool
}

// RetrySummary reports what a retry run did.
type RetrySummary struct {
	Attempted int
	Resolved  int
	Failed    int
}
