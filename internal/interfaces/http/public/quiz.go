package public

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

func (h *Handler) questionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		questions, err := h.questions.ListActive(ctx)
		if err != nil {
			h.logger.Printf("quiz question list fetch failed: %v", err)
			common.WriteError(h.logger, w, http.StatusInternalServerError, "設問の取得に失敗しました")
			return
		}

		items := make([]questionResponse, 0, len(questions))
		for _, q := range questions {
			items = append(items, questionToResponse(q))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionListResponse{
			Items:         items,
			ScaleMin:      domain.MinScaleValue,
			ScaleMax:      domain.MaxScaleValue,
			QuestionCount: len(items),
		})
	}
}

func (h *Handler) submissionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}
		if err := application.Check(req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		answers, unparsed := decodeAnswers(req.Answers)
		cmd := application.SubmitCommand{
			Name:    req.RespondentName,
			Email:   req.RespondentEmail,
			Company: req.RespondentCompany,
			Phone:   req.RespondentPhone,
			Answers: answers,
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.ReportTimeout)
		defer cancel()

		outcome, err := h.assessments.Complete(ctx, cmd)
		if err != nil {
			status, message := common.StatusForError(err, "回答の保存に失敗しました")
			if status >= http.StatusInternalServerError {
				h.logger.Printf("quiz submission failed: %v", err)
			}
			common.WriteError(h.logger, w, status, message)
			return
		}

		report := reportStatusResponse{}
		if outcome.Report != nil {
			report.Generated = true
			report.EmailSent = outcome.Report.EmailSent
		}
		if outcome.ReportErr != nil {
			_, message := common.StatusForError(outcome.ReportErr, "レポートの生成に失敗しました")
			report.Error = message
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, submitResponse{
			Submission:     common.NewSubmissionResponse(*outcome.Submission),
			Result:         resultViewToResponse(submitResultToView(outcome.SubmitResult)),
			Report:         report,
			SkippedAnswers: mergeSkipped(unparsed, outcome.Skipped),
		})
	}
}

func (h *Handler) resultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "提出IDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		view, err := h.submissions.Result(ctx, idParam)
		if err != nil {
			status, message := common.StatusForError(err, "診断結果の取得に失敗しました")
			if status >= http.StatusInternalServerError {
				h.logger.Printf("quiz result fetch failed id=%s err=%v", idParam, err)
			}
			common.WriteError(h.logger, w, status, message)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, resultViewToResponse(*view))
	}
}

func (h *Handler) reportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}
		if err := application.Check(req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.ReportTimeout)
		defer cancel()

		id := strings.TrimSpace(req.SubmissionID)
		result, err := h.reports.Generate(ctx, id, req.SendEmail)
		if err != nil {
			status, message := common.StatusForError(err, "レポートの生成に失敗しました")
			if status >= http.StatusInternalServerError {
				h.logger.Printf("quiz report failed submission=%s err=%v", id, err)
			}
			common.WriteError(h.logger, w, status, message)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, reportResponse{
			Success:    true,
			ReportHTML: result.HTML,
			EmailSent:  result.EmailSent,
			Submission: common.NewSubmissionResponse(result.Submission),
			Template: reportTemplateResponse{
				EmailSettings: result.Template.EmailSettings,
				Branding:      result.Template.Branding,
			},
		})
	}
}
