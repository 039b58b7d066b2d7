package application

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

type reportService struct {
	submissions SubmissionRepository
	templates   TemplateService
	renderer    ReportRenderer
	mailer      ReportMailer
	failures    FailedDeliveryRepository
	logger      *log.Logger
	now         func() time.Time
}

// ReportServiceConfig provides dependencies for the report service.
type ReportServiceConfig struct {
	Submissions SubmissionRepository
	Templates   TemplateService
	Renderer    ReportRenderer
	Mailer      ReportMailer
	Failures    FailedDeliveryRepository
	Logger      *log.Logger
}

func NewReportService(cfg ReportServiceConfig) ReportService {
	return &reportService{
		submissions: cfg.Submissions,
		templates:   cfg.Templates,
		renderer:    cfg.Renderer,
		mailer:      cfg.Mailer,
		failures:    cfg.Failures,
		logger:      cfg.Logger,
		now:         time.Now,
	}
}

// Generate はレポート HTML を生成し、sendEmail が true なら回答者へ送る。
// 送信失敗は再送キューに積んだうえでエラーを返す。提出レコードは変更しない。
func (s *reportService) Generate(ctx context.Context, submissionID string, sendEmail bool) (*ReportResult, error) {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	tmpl := s.templates.Resolve(ctx)
	html, err := s.renderer.Render(*submission, tmpl)
	if err != nil {
		s.logf("レポート生成に失敗 submission=%s: %v", submissionID, err)
		return nil, fmt.Errorf("render report: %w", err)
	}

	result := &ReportResult{HTML: html, Submission: *submission, Template: tmpl}
	if !sendEmail {
		return result, nil
	}
	if !submission.HasEmail() {
		return nil, ErrNoRecipient
	}

	if err := s.send(ctx, *submission, tmpl, html); err != nil {
		s.logf("レポートメールの送信に失敗 submission=%s: %v", submissionID, err)
		s.recordFailure(ctx, *submission, err)
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	sentAt := s.markSent(ctx, submissionID)
	result.Submission.ReportSentAt = &sentAt
	result.EmailSent = true
	return result, nil
}

// Deliver はレポートを再生成して送信する。失敗の記録は呼び出し側が行う。
func (s *reportService) Deliver(ctx context.Context, submissionID string) error {
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if !submission.HasEmail() {
		return ErrNoRecipient
	}
	tmpl := s.templates.Resolve(ctx)
	html, err := s.renderer.Render(*submission, tmpl)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	if err := s.send(ctx, *submission, tmpl, html); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	s.markSent(ctx, submissionID)
	return nil
}

// Preview は保存前のテンプレートで既存の提出をレンダリングする。何も永続化しない。
func (s *reportService) Preview(ctx context.Context, submissionID string, tmpl domain.ReportTemplate) (string, error) {
	if err := Check(tmpl); err != nil {
		return "", err
	}
	if err := tmpl.Validate(); err != nil {
		return "", err
	}
	submission, err := s.submissions.FindByID(ctx, submissionID)
	if err != nil {
		return "", err
	}
	return s.renderer.Render(*submission, tmpl)
}

func (s *reportService) send(ctx context.Context, submission domain.Submission, tmpl domain.ReportTemplate, html string) error {
	if s.mailer == nil {
		return fmt.Errorf("mailer is not configured")
	}
	return s.mailer.SendReport(ctx, BuildReportEmail(submission, tmpl, html))
}

func (s *reportService) markSent(ctx context.Context, submissionID string) time.Time {
	sentAt := s.now().UTC()
	if err := s.submissions.MarkReportSent(ctx, submissionID, sentAt); err != nil {
		s.logf("reportSentAt の更新に失敗 submission=%s: %v", submissionID, err)
	}
	return sentAt
}

func (s *reportService) recordFailure(ctx context.Context, submission domain.Submission, cause error) {
	if s.failures == nil {
		return
	}
	// 送信がリクエストの期限切れで失敗した場合も記録は残す。
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureRecordTimeout)
	defer cancel()
	failure := domain.NewFailedDelivery(domain.DeliveryReportEmail, submission.ID, submission.Contact.Email.String(), cause, 1, s.now().UTC())
	if err := s.failures.Record(recordCtx, failure); err != nil {
		s.logf("failed_deliveries への保存に失敗 submission=%s: %v", submission.ID, err)
	}
}

func (s *reportService) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}

// BuildReportEmail はテンプレートのメール設定からレポートメールを組み立てる。
func BuildReportEmail(submission domain.Submission, tmpl domain.ReportTemplate, html string) ReportEmail {
	def := domain.DefaultTemplate()
	settings := tmpl.EmailSettings

	subject := firstNonBlank(settings.Subject, def.EmailSettings.Subject)
	fromName := firstNonBlank(settings.FromName, tmpl.Branding.CompanyName, def.EmailSettings.FromName)
	replyTo := firstNonBlank(settings.ReplyTo, tmpl.Branding.ContactEmail)

	name := strings.TrimSpace(submission.Contact.Name)
	greeting := "Hello,"
	if name != "" {
		greeting = fmt.Sprintf("Hello %s,", name)
	}

	var text strings.Builder
	text.WriteString(greeting)
	text.WriteString("\n\n")
	if intro := strings.TrimSpace(settings.IntroText); intro != "" {
		text.WriteString(intro)
		text.WriteString("\n\n")
	}
	text.WriteString(fmt.Sprintf("Overall score: %d%% (%s)\n", submission.Percentage, submission.ScoreLevel))
	for _, cs := range submission.CategoryScores {
		text.WriteString(fmt.Sprintf("- %s: %d%%\n", cs.Category.Label(), cs.Percentage))
	}
	if signature := strings.TrimSpace(settings.SignatureText); signature != "" {
		text.WriteString("\n")
		text.WriteString(signature)
		text.WriteString("\n")
	}

	return ReportEmail{
		To:       mail.Address{Name: name, Address: submission.Contact.Email.String()},
		FromName: fromName,
		ReplyTo:  replyTo,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: html,
	}
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
