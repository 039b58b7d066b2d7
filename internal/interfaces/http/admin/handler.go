package admin

import (
	"log"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
)

// Handler wires admin HTTP endpoints to application services.
type Handler struct {
	logger      *log.Logger
	questions   application.QuestionService
	submissions application.SubmissionService
	templates   application.TemplateService
	reports     application.ReportService
	deliveries  application.DeliveryService
}

// Config provides dependencies for Handler.
type Config struct {
	Logger      *log.Logger
	Questions   application.QuestionService
	Submissions application.SubmissionService
	Templates   application.TemplateService
	Reports     application.ReportService
	Deliveries  application.DeliveryService
}

// NewHandler constructs an admin HTTP handler set.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		logger:      cfg.Logger,
		questions:   cfg.Questions,
		submissions: cfg.Submissions,
		templates:   cfg.Templates,
		reports:     cfg.Reports,
		deliveries:  cfg.Deliveries,
	}
}

// Register mounts admin routes onto router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/auth/verify", h.authVerifyHandler())

	r.Get("/submissions", h.submissionListHandler())
	r.Get("/submissions/export.csv", h.submissionExportHandler())
	r.Get("/submissions/{id}", h.submissionDetailHandler())
	r.Patch("/submissions/{id}", h.submissionUpdateHandler())
	r.Post("/submissions/{id}/report", h.submissionReportHandler())

	r.Get("/questions", h.questionListHandler())
	r.Post("/questions", h.questionCreateHandler())
	r.Put("/questions/{id}", h.questionUpdateHandler())
	r.Post("/questions/{id}/deactivate", h.questionDeactivateHandler())

	r.Get("/report-templates", h.templateListHandler())
	r.Post("/report-templates", h.templateCreateHandler())
	r.Get("/report-templates/active", h.templateActiveHandler())
	r.Get("/report-templates/default", h.templateDefaultHandler())
	r.Post("/report-templates/preview", h.templatePreviewHandler())
	r.Get("/report-templates/{id}", h.templateDetailHandler())
	r.Put("/report-templates/{id}", h.templateUpdateHandler())
	r.Post("/report-templates/{id}/activate", h.templateActivateHandler())

	r.Get("/deliveries/failed", h.deliveryListHandler())
	r.Post("/deliveries/retry", h.deliveryRetryHandler())
}
