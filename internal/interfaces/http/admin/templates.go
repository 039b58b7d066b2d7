package admin

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

func (h *Handler) templateListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		templates, err := h.templates.List(ctx)
		if err != nil {
			h.writeServiceError(w, err, "テンプレート一覧の取得に失敗しました", "admin template list fetch failed")
			return
		}

		items := make([]templateResponse, 0, len(templates))
		for _, t := range templates {
			items = append(items, templateToResponse(t))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, templateListResponse{Items: items})
	}
}

// templateActiveHandler は実際にレポート生成で使われるテンプレート（既定値で補完済み）を返す。
func (h *Handler) templateActiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		common.WriteJSON(h.logger, w, http.StatusOK, templateToResponse(h.templates.Resolve(ctx)))
	}
}

func (h *Handler) templateDefaultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		common.WriteJSON(h.logger, w, http.StatusOK, templateToResponse(h.templates.Default()))
	}
}

func (h *Handler) templateDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "テンプレートIDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		tmpl, err := h.templates.Detail(ctx, idParam)
		if err != nil {
			h.writeServiceError(w, err, "テンプレートの取得に失敗しました", "admin template detail fetch failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, templateToResponse(*tmpl))
	}
}

func (h *Handler) templateCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req templateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		created, err := h.templates.Create(ctx, req.toDomain())
		if err != nil {
			h.writeServiceError(w, err, "テンプレートの登録に失敗しました", "admin template create failed name=%s", req.Name)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, templateToResponse(*created))
	}
}

func (h *Handler) templateUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "テンプレートIDが指定されていません")
			return
		}

		var req templateRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		updated, err := h.templates.Update(ctx, idParam, req.toDomain())
		if err != nil {
			h.writeServiceError(w, err, "テンプレートの更新に失敗しました", "admin template update failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, templateToResponse(*updated))
	}
}

func (h *Handler) templateActivateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "テンプレートIDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		activated, err := h.templates.Activate(ctx, idParam)
		if err != nil {
			h.writeServiceError(w, err, "テンプレートの有効化に失敗しました", "admin template activate failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, templateToResponse(*activated))
	}
}

func (h *Handler) templatePreviewHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req templatePreviewRequest
		if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
			return
		}
		if err := application.Check(req); err != nil {
			common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		tmpl := req.Template.toDomain()
		if strings.TrimSpace(tmpl.Name) == "" {
			tmpl.Name = h.templates.Default().Name
		}
		id := strings.TrimSpace(req.SubmissionID)
		html, err := h.reports.Preview(ctx, id, tmpl)
		if err != nil {
			h.writeServiceError(w, err, "プレビューの生成に失敗しました", "admin template preview failed submission=%s", id)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, templatePreviewResponse{ReportHTML: html})
	}
}
