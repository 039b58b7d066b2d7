package public

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

type stubQuestions struct {
	application.QuestionService
	items []domain.Question
	err   error
}

func (s *stubQuestions) ListActive(context.Context) ([]domain.Question, error) {
	return s.items, s.err
}

type stubSubmissions struct {
	application.SubmissionService
	views map[string]application.ResultView
}

func (s *stubSubmissions) Result(_ context.Context, id string) (*application.ResultView, error) {
	view, ok := s.views[id]
	if !ok {
		return nil, application.ErrSubmissionNotFound
	}
	return &view, nil
}

type stubReports struct {
	application.ReportService
	result *application.ReportResult
	err    error
	calls  []string
}

func (s *stubReports) Generate(_ context.Context, id string, sendEmail bool) (*application.ReportResult, error) {
	s.calls = append(s.calls, fmt.Sprintf("%s:%t", id, sendEmail))
	return s.result, s.err
}

type stubAssessments struct {
	outcome *application.Outcome
	err     error
	got     application.SubmitCommand
}

func (s *stubAssessments) Complete(_ context.Context, cmd application.SubmitCommand) (*application.Outcome, error) {
	s.got = cmd
	return s.outcome, s.err
}

type fixture struct {
	questions   *stubQuestions
	submissions *stubSubmissions
	reports     *stubReports
	assessments *stubAssessments
	router      chi.Router
}

func newFixture() *fixture {
	f := &fixture{
		questions:   &stubQuestions{items: domain.ActiveQuestions(domain.DefaultQuestionBank())},
		submissions: &stubSubmissions{views: map[string]application.ResultView{}},
		reports:     &stubReports{},
		assessments: &stubAssessments{},
	}
	h := NewHandler(Config{
		Logger:      log.New(io.Discard, "", 0),
		Questions:   f.questions,
		Submissions: f.submissions,
		Reports:     f.reports,
		Assessments: f.assessments,
	})
	r := chi.NewRouter()
	h.Register(r)
	f.router = r
	return f
}

func (f *fixture) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func sampleSubmission() domain.Submission {
	at := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	return domain.Submission{
		ID:         "sub-1",
		Contact:    domain.Contact{Name: "Ada", Email: "ada@example.com"},
		Answers:    domain.AnswerSet{1: 4, 2: 3},
		TotalScore: 7,
		MaxScore:   10,
		Percentage: 70,
		ScoreLevel: "Developing",
		CategoryScores: []domain.CategoryScore{
			{Category: domain.CategoryVision, Score: 7, MaxScore: 10, Percentage: 70},
		},
		FollowUpStatus: domain.FollowUpPending,
		CompletedAt:    at,
		CreatedAt:      at,
		UpdatedAt:      at,
	}
}

func sampleOutcome() *application.Outcome {
	sub := sampleSubmission()
	return &application.Outcome{
		SubmitResult: &application.SubmitResult{
			Submission: &sub,
			Score: domain.ScoreResult{
				TotalScore:     sub.TotalScore,
				MaxScore:       sub.MaxScore,
				Percentage:     sub.Percentage,
				CategoryScores: sub.CategoryScores,
				TopStrength:    domain.CategoryVision,
				TopWeakness:    domain.CategoryVision,
			},
			Tier: domain.Classify(sub.Percentage),
		},
	}
}

func TestQuestionList(t *testing.T) {
	f := newFixture()
	rec := f.do(http.MethodGet, "/quiz/questions", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body questionListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 24, body.QuestionCount)
	assert.Equal(t, 1, body.ScaleMin)
	assert.Equal(t, 5, body.ScaleMax)
	assert.Equal(t, 1, body.Items[0].QuestionNumber)
	assert.NotEmpty(t, body.Items[0].CategoryLabel)
}

func TestQuestionListStoreFailure(t *testing.T) {
	f := newFixture()
	f.questions.err = fmt.Errorf("mongo down")
	rec := f.do(http.MethodGet, "/quiz/questions", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error"`)
}

func TestSubmissionCreate(t *testing.T) {
	f := newFixture()
	outcome := sampleOutcome()
	outcome.Skipped = []string{"99"}
	outcome.Report = &application.ReportResult{EmailSent: true}
	f.assessments.outcome = outcome

	rec := f.do(http.MethodPost, "/quiz/submissions", `{
		"respondentName": "Ada",
		"respondentEmail": "ada@example.com",
		"answers": {"1": 4, "2": "3", "3": "often", "4": 2.5, "99": 5}
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	assert.Equal(t, "Ada", f.assessments.got.Name)
	assert.Equal(t, map[string]int{"1": 4, "2": 3, "99": 5}, f.assessments.got.Answers)

	var body submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sub-1", body.Submission.ID)
	assert.Equal(t, map[string]int{"1": 4, "2": 3}, body.Submission.Answers)
	assert.Equal(t, "Developing", body.Result.ScoreLevel)
	assert.Equal(t, "developing", body.Result.Tier.Key)
	require.Len(t, body.Result.CategoryScores, 1)
	assert.NotEmpty(t, body.Result.CategoryScores[0].Label)
	assert.NotEmpty(t, body.Result.CategoryScores[0].Insight)
	assert.True(t, body.Report.Generated)
	assert.True(t, body.Report.EmailSent)
	assert.Empty(t, body.Report.Error)
	assert.Equal(t, []string{"3", "4", "99"}, body.SkippedAnswers)
}

func TestSubmissionCreateReportFailureStillCreated(t *testing.T) {
	f := newFixture()
	outcome := sampleOutcome()
	outcome.ReportErr = fmt.Errorf("%w: smtp 421", application.ErrDeliveryFailed)
	f.assessments.outcome = outcome

	rec := f.do(http.MethodPost, "/quiz/submissions", `{"respondentEmail":"ada@example.com","answers":{"1":4}}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body submitResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Report.Generated)
	assert.False(t, body.Report.EmailSent)
	assert.NotEmpty(t, body.Report.Error)
	assert.Equal(t, "sub-1", body.Submission.ID)
}

func TestSubmissionCreateRejectsBadInput(t *testing.T) {
	f := newFixture()

	rec := f.do(http.MethodPost, "/quiz/submissions", `{"answers":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodPost, "/quiz/submissions", `{"respondentName":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	f.assessments.err = domain.NewValidationError("respondentEmail", "invalid email")
	rec = f.do(http.MethodPost, "/quiz/submissions", `{"respondentEmail":"nope","answers":{"1":3}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmissionCreatePersistFailure(t *testing.T) {
	f := newFixture()
	f.assessments.err = fmt.Errorf("insert: connection reset")

	rec := f.do(http.MethodPost, "/quiz/submissions", `{"answers":{"1":3}}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestResult(t *testing.T) {
	f := newFixture()
	sub := sampleSubmission()
	f.submissions.views["sub-1"] = application.ResultView{
		Submission:     sub,
		Tier:           domain.Classify(sub.Percentage),
		CategoryScores: []domain.CategoryScore{domain.DescribeCategoryScore(sub.CategoryScores[0])},
		TopStrength:    domain.CategoryVision,
		TopWeakness:    domain.CategoryVision,
	}

	rec := f.do(http.MethodGet, "/quiz/submissions/sub-1/result", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body resultResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "sub-1", body.SubmissionID)
	assert.Equal(t, 70, body.Percentage)
	assert.Equal(t, "vision", body.TopStrength)

	rec = f.do(http.MethodGet, "/quiz/submissions/missing/result", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReport(t *testing.T) {
	f := newFixture()
	tmpl := domain.DefaultTemplate()
	f.reports.result = &application.ReportResult{
		HTML:       "<!DOCTYPE html><html></html>",
		Submission: sampleSubmission(),
		Template:   tmpl,
		EmailSent:  true,
	}

	rec := f.do(http.MethodPost, "/quiz/report", `{"submissionId":" sub-1 ","sendEmail":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sub-1:true"}, f.reports.calls)

	var body reportResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.EmailSent)
	assert.Equal(t, "<!DOCTYPE html><html></html>", body.ReportHTML)
	assert.Equal(t, tmpl.Branding, body.Template.Branding)
	assert.Equal(t, tmpl.EmailSettings, body.Template.EmailSettings)
}

func TestReportErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"missing id", `{"sendEmail":false}`, nil, http.StatusBadRequest},
		{"not found", `{"submissionId":"x"}`, application.ErrSubmissionNotFound, http.StatusNotFound},
		{"no recipient", `{"submissionId":"x","sendEmail":true}`, application.ErrNoRecipient, http.StatusBadRequest},
		{"mail down", `{"submissionId":"x","sendEmail":true}`, fmt.Errorf("%w: 503", application.ErrDeliveryFailed), http.StatusBadGateway},
		{"render", `{"submissionId":"x"}`, fmt.Errorf("template: exec"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			f.reports.err = tc.err
			rec := f.do(http.MethodPost, "/quiz/report", tc.body)
			assert.Equal(t, tc.status, rec.Code)

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
			assert.NotContains(t, body, "success")
		})
	}
}

func TestDecodeAnswers(t *testing.T) {
	answers, skipped := decodeAnswers(map[string]json.RawMessage{
		"1": json.RawMessage(`5`),
		"2": json.RawMessage(`" 2 "`),
		"3": json.RawMessage(`null`),
		"4": json.RawMessage(`[1]`),
		"5": json.RawMessage(`4.0`),
	})
	assert.Equal(t, map[string]int{"1": 5, "2": 2, "5": 4}, answers)
	assert.Equal(t, []string{"3", "4"}, skipped)
}
