package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

var errStoreDown = errors.New("store unavailable")

type fakeQuestionRepo struct {
	questions []domain.Question
	err       error
}

func newFakeQuestionRepo() *fakeQuestionRepo {
	bank := domain.DefaultQuestionBank()
	for i := range bank {
		bank[i].ID = fmt.Sprintf("q%d", bank[i].QuestionNumber)
	}
	return &fakeQuestionRepo{questions: bank}
}

func (r *fakeQuestionRepo) FindAll(context.Context) ([]domain.Question, error) {
	if r.err != nil {
		return nil, r.err
	}
	return append([]domain.Question(nil), r.questions...), nil
}

func (r *fakeQuestionRepo) FindActive(ctx context.Context) ([]domain.Question, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return domain.ActiveQuestions(all), nil
}

func (r *fakeQuestionRepo) FindByID(_ context.Context, id string) (*domain.Question, error) {
	for _, q := range r.questions {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, ErrQuestionNotFound
}

func (r *fakeQuestionRepo) Create(_ context.Context, q *domain.Question) error {
	q.ID = fmt.Sprintf("q%d", len(r.questions)+100)
	r.questions = append(r.questions, *q)
	return nil
}

func (r *fakeQuestionRepo) Update(_ context.Context, q *domain.Question) error {
	for i := range r.questions {
		if r.questions[i].ID == q.ID {
			r.questions[i] = *q
			return nil
		}
	}
	return ErrQuestionNotFound
}

func (r *fakeQuestionRepo) Deactivate(_ context.Context, id string, at time.Time) error {
	for i := range r.questions {
		if r.questions[i].ID == id {
			r.questions[i].IsActive = false
			r.questions[i].UpdatedAt = at
			return nil
		}
	}
	return ErrQuestionNotFound
}

type fakeSubmissionRepo struct {
	mu        sync.Mutex
	items     map[string]domain.Submission
	order     []string
	createErr error
	nextID    int
}

func newFakeSubmissionRepo() *fakeSubmissionRepo {
	return &fakeSubmissionRepo{items: map[string]domain.Submission{}}
}

func (r *fakeSubmissionRepo) Create(_ context.Context, s *domain.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.nextID++
	s.ID = fmt.Sprintf("sub-%d", r.nextID)
	r.items[s.ID] = *s
	r.order = append(r.order, s.ID)
	return nil
}

func (r *fakeSubmissionRepo) FindByID(_ context.Context, id string) (*domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return nil, ErrSubmissionNotFound
	}
	s.Answers = s.Answers.Clone()
	s.CategoryScores = append([]domain.CategoryScore(nil), s.CategoryScores...)
	return &s, nil
}

func (r *fakeSubmissionRepo) Find(_ context.Context, filter SubmissionFilter, _ Paging) ([]domain.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Submission, 0, len(r.order))
	for _, id := range r.order {
		s := r.items[id]
		if filter.ScoreLevel != "" && !strings.EqualFold(filter.ScoreLevel, s.ScoreLevel) {
			continue
		}
		if filter.FollowUpStatus != "" && filter.FollowUpStatus != s.FollowUpStatus.String() {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSubmissionRepo) UpdateFollowUp(_ context.Context, id string, status domain.FollowUpStatus, notes string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return ErrSubmissionNotFound
	}
	s.FollowUpStatus = status
	s.FollowUpNotes = notes
	s.UpdatedAt = at
	r.items[id] = s
	return nil
}

func (r *fakeSubmissionRepo) MarkReportSent(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.items[id]
	if !ok {
		return ErrSubmissionNotFound
	}
	s.ReportSentAt = &at
	r.items[id] = s
	return nil
}

type fakeTemplateRepo struct {
	items     map[string]domain.TemplateOverrides
	activeErr error
	nextID    int
}

func newFakeTemplateRepo() *fakeTemplateRepo {
	return &fakeTemplateRepo{items: map[string]domain.TemplateOverrides{}}
}

func (r *fakeTemplateRepo) FindActive(context.Context) (*domain.TemplateOverrides, error) {
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	for _, o := range r.items {
		if o.IsActive {
			o := o
			return &o, nil
		}
	}
	return nil, ErrTemplateNotFound
}

func (r *fakeTemplateRepo) FindByID(_ context.Context, id string) (*domain.TemplateOverrides, error) {
	o, ok := r.items[id]
	if !ok {
		return nil, ErrTemplateNotFound
	}
	return &o, nil
}

func (r *fakeTemplateRepo) List(context.Context) ([]domain.TemplateOverrides, error) {
	ids := make([]string, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]domain.TemplateOverrides, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *fakeTemplateRepo) Create(_ context.Context, t *domain.ReportTemplate) error {
	r.nextID++
	t.ID = fmt.Sprintf("tmpl-%d", r.nextID)
	r.items[t.ID] = t.Overrides()
	return nil
}

func (r *fakeTemplateRepo) Update(_ context.Context, t *domain.ReportTemplate) error {
	if _, ok := r.items[t.ID]; !ok {
		return ErrTemplateNotFound
	}
	r.items[t.ID] = t.Overrides()
	return nil
}

func (r *fakeTemplateRepo) Activate(_ context.Context, id string, at time.Time) error {
	if _, ok := r.items[id]; !ok {
		return ErrTemplateNotFound
	}
	for key, o := range r.items {
		o.IsActive = key == id
		if key == id {
			o.UpdatedAt = at
		}
		r.items[key] = o
	}
	return nil
}

type fakeFailureRepo struct {
	mu       sync.Mutex
	items    []domain.FailedDelivery
	resolved map[string]bool
}

func newFakeFailureRepo() *fakeFailureRepo {
	return &fakeFailureRepo{resolved: map[string]bool{}}
}

func (r *fakeFailureRepo) Record(ctx context.Context, d *domain.FailedDelivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = fmt.Sprintf("fd-%d", len(r.items)+1)
	r.items = append(r.items, *d)
	return nil
}

func (r *fakeFailureRepo) ListPending(_ context.Context, limit int) ([]domain.FailedDelivery, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.FailedDelivery, 0)
	for _, d := range r.items {
		if d.Status == domain.DeliveryPending {
			out = append(out, d)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeFailureRepo) MarkResolved(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Status = domain.DeliveryResolved
			r.items[i].ResolvedAt = &at
		}
	}
	return nil
}

func (r *fakeFailureRepo) MarkAttempted(_ context.Context, id string, lastErr string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.items {
		if r.items[i].ID == id {
			r.items[i].Attempts++
			r.items[i].Error = lastErr
			r.items[i].LastTriedAt = at
		}
	}
	return nil
}

func (r *fakeFailureRepo) snapshot() []domain.FailedDelivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.FailedDelivery(nil), r.items...)
}

type fakeMailer struct {
	mu    sync.Mutex
	err   error
	block bool
	sent  []ReportEmail
}

func (m *fakeMailer) SendReport(ctx context.Context, msg ReportEmail) error {
	if m.block {
		<-ctx.Done()
		return ctx.Err()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeNotifier struct {
	mu    sync.Mutex
	err   error
	calls []string
}

func (n *fakeNotifier) NotifyLead(_ context.Context, s domain.Submission) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, s.ID)
	return n.err
}

// blockingNotifier はゲートウェイが応答しない状況を再現する。
type blockingNotifier struct{}

func (blockingNotifier) NotifyLead(ctx context.Context, _ domain.Submission) error {
	<-ctx.Done()
	return ctx.Err()
}

type failingRenderer struct{}

func (failingRenderer) Render(domain.Submission, domain.ReportTemplate) (string, error) {
	return "", errors.New("template exploded")
}
