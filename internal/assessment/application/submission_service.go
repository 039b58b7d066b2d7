package application

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

const maxFollowUpNotesRunes = 5000

type submissionService struct {
	questions   QuestionRepository
	submissions SubmissionRepository
	location    *time.Location
	now         func() time.Time
}

func NewSubmissionService(questions QuestionRepository, submissions SubmissionRepository, loc *time.Location) SubmissionService {
	if loc == nil {
		loc = time.UTC
	}
	return &submissionService{
		questions:   questions,
		submissions: submissions,
		location:    loc,
		now:         time.Now,
	}
}

// Submit は採点 → ティア判定 → 永続化の順で処理する。保存に失敗した場合は何も書き込まれない。
func (s *submissionService) Submit(ctx context.Context, cmd SubmitCommand) (*SubmitResult, error) {
	email, err := domain.NewEmail(cmd.Email)
	if err != nil {
		return nil, domain.NewValidationError("respondentEmail", err.Error())
	}
	contact := domain.Contact{
		Name:    strings.TrimSpace(cmd.Name),
		Email:   email,
		Company: strings.TrimSpace(cmd.Company),
		Phone:   strings.TrimSpace(cmd.Phone),
	}

	questions, err := s.questions.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load question bank: %w", err)
	}

	answers, skipped := domain.CollectAnswers(cmd.Answers, questions)
	score := domain.Score(answers, questions)
	tier := domain.Classify(score.Percentage)

	submission := domain.NewSubmission(contact, answers, score, tier, s.now().UTC())
	if err := s.submissions.Create(ctx, submission); err != nil {
		return nil, fmt.Errorf("persist submission: %w", err)
	}

	return &SubmitResult{
		Submission: submission,
		Score:      score,
		Tier:       tier,
		Skipped:    skipped,
	}, nil
}

func (s *submissionService) Detail(ctx context.Context, id string) (*domain.Submission, error) {
	return s.submissions.FindByID(ctx, id)
}

func (s *submissionService) Result(ctx context.Context, id string) (*ResultView, error) {
	submission, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return buildResultView(*submission), nil
}

func buildResultView(submission domain.Submission) *ResultView {
	scores := make([]domain.CategoryScore, 0, len(submission.CategoryScores))
	for _, cs := range submission.CategoryScores {
		scores = append(scores, domain.DescribeCategoryScore(cs))
	}
	strongest, weakest := domain.Extremes(scores)
	return &ResultView{
		Submission:     submission,
		Tier:           submission.Tier(),
		CategoryScores: scores,
		TopStrength:    strongest,
		TopWeakness:    weakest,
	}
}

func (s *submissionService) List(ctx context.Context, filter SubmissionFilter, paging Paging) ([]domain.Submission, error) {
	return s.submissions.Find(ctx, filter, paging)
}

// UpdateFollowUp はスタッフ用の項目だけを更新する。採点結果には触れない。
func (s *submissionService) UpdateFollowUp(ctx context.Context, id string, cmd FollowUpCommand) (*domain.Submission, error) {
	existing, err := s.submissions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	status := existing.FollowUpStatus
	if cmd.Status != nil {
		parsed, err := domain.NewFollowUpStatus(*cmd.Status)
		if err != nil {
			return nil, domain.NewValidationError("followUpStatus", err.Error())
		}
		status = parsed
	}
	notes := existing.FollowUpNotes
	if cmd.Notes != nil {
		notes = strings.TrimSpace(*cmd.Notes)
		if utf8.RuneCountInString(notes) > maxFollowUpNotesRunes {
			return nil, domain.NewValidationError("followUpNotes", fmt.Sprintf("followUpNotes must be at most %d characters", maxFollowUpNotesRunes))
		}
	}

	now := s.now().UTC()
	if err := s.submissions.UpdateFollowUp(ctx, id, status, notes, now); err != nil {
		return nil, err
	}
	return s.submissions.FindByID(ctx, id)
}

// Export は条件に合う提出を全件 CSV で書き出す。
func (s *submissionService) Export(ctx context.Context, w io.Writer, filter SubmissionFilter) error {
	submissions, err := s.submissions.Find(ctx, filter, Paging{})
	if err != nil {
		return err
	}
	return WriteSubmissionsCSV(w, submissions, s.location)
}
