package admin

import (
	"net/http"
	"strings"
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

// writeServiceError はサービス層のエラーをステータスに変換して書き出す。500 系のみ詳細をログに残す。
func (h *Handler) writeServiceError(w http.ResponseWriter, err error, fallback, logFormat string, args ...any) {
	status, message := common.StatusForError(err, fallback)
	if status >= http.StatusInternalServerError {
		h.logger.Printf(logFormat+" err=%v", append(args, err)...)
	}
	common.WriteError(h.logger, w, status, message)
}

func submissionFilterFromQuery(r *http.Request) (application.SubmissionFilter, application.Paging) {
	query := r.URL.Query()
	page, _ := common.ParsePositiveInt(query.Get("page"), 1)
	limit, _ := common.ParsePositiveInt(query.Get("limit"), 50)
	if limit > 200 {
		limit = 200
	}
	filter := application.SubmissionFilter{
		FollowUpStatus: strings.TrimSpace(query.Get("followUpStatus")),
		ScoreLevel:     strings.TrimSpace(query.Get("scoreLevel")),
		Keyword:        strings.TrimSpace(query.Get("keyword")),
	}
	return filter, application.Paging{Page: page, Limit: limit}
}

func questionToResponse(q domain.Question) questionResponse {
	return questionResponse{
		ID:             q.ID,
		QuestionNumber: q.QuestionNumber,
		Text:           q.Text,
		Category:       q.Category.String(),
		CategoryLabel:  q.Category.Label(),
		IsActive:       q.IsActive,
		Order:          q.Order,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func (req questionRequest) toCommand() application.UpsertQuestionCommand {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	return application.UpsertQuestionCommand{
		QuestionNumber: req.QuestionNumber,
		Text:           req.Text,
		Category:       strings.TrimSpace(req.Category),
		Order:          req.Order,
		IsActive:       active,
	}
}

func (req templateRequest) toDomain() domain.ReportTemplate {
	tmpl := domain.MergeOverDefault(domain.TemplateOverrides{
		IsActive:         req.IsActive,
		ExecutiveSummary: req.ExecutiveSummary,
		DetailedSections: req.DetailedSections,
		Recommendations:  req.Recommendations,
		CallToAction:     req.CallToAction,
		Branding:         req.Branding,
		EmailSettings:    req.EmailSettings,
	})
	// 名前は既定値で埋めず、空なら検証で弾く。
	tmpl.Name = req.Name
	return tmpl
}

func templateToResponse(t domain.ReportTemplate) templateResponse {
	return templateResponse{
		ID:               t.ID,
		Name:             t.Name,
		IsActive:         t.IsActive,
		ExecutiveSummary: t.ExecutiveSummary,
		DetailedSections: t.DetailedSections,
		Recommendations:  t.Recommendations,
		CallToAction:     t.CallToAction,
		Branding:         t.Branding,
		EmailSettings:    t.EmailSettings,
		CreatedAt:        timePtr(t.CreatedAt),
		UpdatedAt:        timePtr(t.UpdatedAt),
	}
}

func deliveryToResponse(d domain.FailedDelivery) deliveryResponse {
	return deliveryResponse{
		ID:           d.ID,
		Kind:         string(d.Kind),
		SubmissionID: d.SubmissionID,
		Recipient:    d.Recipient,
		Error:        d.Error,
		Attempts:     d.Attempts,
		Status:       string(d.Status),
		CreatedAt:    d.CreatedAt,
		LastTriedAt:  d.LastTriedAt,
		ResolvedAt:   d.ResolvedAt,
	}
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
