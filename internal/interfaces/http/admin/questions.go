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

func (h *Handler) questionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		questions, err := h.questions.ListAll(ctx)
		if err != nil {
			h.writeServiceError(w, err, "設問一覧の取得に失敗しました", "admin question list fetch failed")
			return
		}

		items := make([]questionResponse, 0, len(questions))
		for _, q := range questions {
			items = append(items, questionToResponse(q))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, questionListResponse{Items: items})
	}
}

func (h *Handler) questionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, ok := h.decodeQuestionRequest(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		created, err := h.questions.Create(ctx, req.toCommand())
		if err != nil {
			h.writeServiceError(w, err, "設問の登録に失敗しました", "admin question create failed number=%d", req.QuestionNumber)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, questionToResponse(*created))
	}
}

func (h *Handler) questionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "設問IDが指定されていません")
			return
		}
		req, ok := h.decodeQuestionRequest(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		updated, err := h.questions.Update(ctx, idParam, req.toCommand())
		if err != nil {
			h.writeServiceError(w, err, "設問の更新に失敗しました", "admin question update failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, questionToResponse(*updated))
	}
}

func (h *Handler) questionDeactivateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idParam := strings.TrimSpace(chi.URLParam(r, "id"))
		if idParam == "" {
			common.WriteError(h.logger, w, http.StatusBadRequest, "設問IDが指定されていません")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.questions.Deactivate(ctx, idParam); err != nil {
			h.writeServiceError(w, err, "設問の無効化に失敗しました", "admin question deactivate failed id=%s", idParam)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, map[string]any{"status": "ok", "id": idParam})
	}
}

func (h *Handler) decodeQuestionRequest(w http.ResponseWriter, r *http.Request) (questionRequest, bool) {
	var req questionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, common.MaxRequestBody)).Decode(&req); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, "リクエストの形式が不正です")
		return req, false
	}
	if err := application.Check(req); err != nil {
		common.WriteError(h.logger, w, http.StatusBadRequest, err.Error())
		return req, false
	}
	return req, true
}
