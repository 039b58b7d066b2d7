package public

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
)

// Handler wires public quiz endpoints to application services.
type Handler struct {
	logger      *log.Logger
	questions   application.QuestionService
	submissions application.SubmissionService
	reports     application.ReportService
	assessments application.AssessmentService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger      *log.Logger
	Questions   application.QuestionService
	Submissions application.SubmissionService
	Reports     application.ReportService
	Assessments application.AssessmentService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		questions:   cfg.Questions,
		submissions: cfg.Submissions,
		reports:     cfg.Reports,
		assessments: cfg.Assessments,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/quiz/questions", h.questionListHandler())
	r.Post("/quiz/submissions", h.submissionCreateHandler())
	r.Get("/quiz/submissions/{id}/result", h.resultHandler())
	r.Post("/quiz/report", h.reportHandler())
}
