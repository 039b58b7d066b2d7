package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

const exportFilenameLayout = "20060102"

func (h *Handler) submissionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, paging := submissionFilterFromQuery(r)

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		submissions, err := h.submissions.List(ctx, filter, paging)
		if err != nil {
			h.writeServiceError(w, err, "提出一覧の取得に失敗しました", "admin submission list fetch failed")
			return
		}

		items := make([]common.SubmissionResponse, 0, len(submissions))
		for _, s := range submissions {
			items = append(items, common.NewSubmissionResponse(s))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, submissionListResponse{Items: items, Page: paging.Page, Limit: paging.Limit})
	}
}

func (h *Handler) submissionExportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter, _ := submissionFilterFromQuery(r)

		ctx, cancel := context.WithTimeout(r.Context(), common.ReportTimeout)
		defer cancel()

		// 途中で失敗したときに JSON エラーを返せるよう、いったんバッファに書き出す。
		var buf bytes.Buffer
		if err := h.submissions.Export(ctx, &buf, filter); err != nil {
			h.writeServiceError(w, err, "CSV の出力に失敗しました", "admin submission export failed")
			return
		}

		filename := "growth-iq-submissions-" + time.Now().UTC().Format(exportFilenameLayout) + ".csv"
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil {
			h.logger.Printf("admin submission export write failed: %v", err)
		}
	}
}

func (h *Handler) submissionDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "提出IDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		submission, err := h.submissions.Detail(ctx, idParam)
		if err != nil {
			h.writeServiceError(w, err, "提出の取得に失敗しました", "admin submission detail fetch failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, common.NewSubmissionResponse(*submission))
	}
}

func (h *Handler) submissionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "提出IDが指定されていません")
			return
		}

		var req submissionUpdateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}
		if err := application.Check(req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}
		if req.FollowUpStatus == nil && req.FollowUpNotes == nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "更新する項目がありません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		updated, err := h.submissions.UpdateFollowUp(ctx, idParam, application.FollowUpCommand{
			Status: req.FollowUpStatus,
			Notes:  req.FollowUpNotes,
		})
		if err != nil {
			h.writeServiceError(w, err, "提出の更新に失敗しました", "admin submission update failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, common.NewSubmissionResponse(*updated))
	}
}

func (h *Handler) submissionReportHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "提出IDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.ReportTimeout)
		defer cancel()

		result, err := h.reports.Generate(ctx, idParam, true)
		if err != nil {
			h.writeServiceError(w, err, "レポートの再送に失敗しました", "admin report resend failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, submissionReportResponse{
			Success:    true,
			EmailSent:  result.EmailSent,
			Submission: common.NewSubmissionResponse(result.Submission),
		})
	}
}
