package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

type questionService struct {
	repo QuestionRepository
	now  func() time.Time
}

func NewQuestionService(repo QuestionRepository) QuestionService {
	return &questionService{repo: repo, now: time.Now}
}

func (s *questionService) ListActive(ctx context.Context) ([]domain.Question, error) {
	questions, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ActiveQuestions(questions), nil
}

func (s *questionService) ListAll(ctx context.Context) ([]domain.Question, error) {
	return s.repo.FindAll(ctx)
}

func (s *questionService) Create(ctx context.Context, cmd UpsertQuestionCommand) (*domain.Question, error) {
	q, err := buildQuestionFromCommand("", cmd)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, "", q.QuestionNumber); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	q.CreatedAt = now
	q.UpdatedAt = now
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *questionService) Update(ctx context.Context, id string, cmd UpsertQuestionCommand) (*domain.Question, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q, err := buildQuestionFromCommand(id, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.ensureUniqueNumber(ctx, existing.ID, q.QuestionNumber); err != nil {
		return nil, err
	}
	q.CreatedAt = existing.CreatedAt
	q.UpdatedAt = s.now().UTC()
	if err := s.repo.Update(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

// Deactivate は設問を回答対象から外す。過去の提出は questionNumber で参照しているので削除はしない。
func (s *questionService) Deactivate(ctx context.Context, id string) error {
	return s.repo.Deactivate(ctx, id, s.now().UTC())
}

func buildQuestionFromCommand(id string, cmd UpsertQuestionCommand) (*domain.Question, error) {
	order := cmd.Order
	if order == 0 {
		order = cmd.QuestionNumber
	}
	q, err := domain.NewQuestion(cmd.QuestionNumber, cmd.Text, cmd.Category, order, cmd.IsActive)
	if err != nil {
		return nil, err
	}
	q.ID = id
	return &q, nil
}

// ensureUniqueNumber は questionNumber が他の設問と重複していないか確認する。
func (s *questionService) ensureUniqueNumber(ctx context.Context, selfID string, number int) error {
	questions, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, q := range questions {
		if q.QuestionNumber == number && q.ID != selfID {
			return DuplicateQuestionNumberError(number)
		}
	}
	return nil
}

// DuplicateQuestionNumberError は設問番号の重複を 400 として扱うためのエラーを返す。
func DuplicateQuestionNumberError(number int) error {
	return domain.NewValidationError("questionNumber", fmt.Sprintf("question number %d is already in use", number))
}
