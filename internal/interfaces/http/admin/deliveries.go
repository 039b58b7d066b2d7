package admin

import (
	"context"
	"net/http"

	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

func (h *Handler) deliveryListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 0)

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		pending, err := h.deliveries.ListPending(ctx, limit)
		if err != nil {
			h.writeServiceError(w, err, "送信失敗一覧の取得に失敗しました", "admin failed delivery list fetch failed")
			return
		}

		items := make([]deliveryResponse, 0, len(pending))
		for _, d := range pending {
			items = append(items, deliveryToResponse(d))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, deliveryListResponse{Items: items})
	}
}

// deliveryRetryHandler は保留中の送信をまとめて再送する。個々の失敗は集計に含めて 200 を返す。
func (h *Handler) deliveryRetryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 0)

		ctx, cancel := context.WithTimeout(r.Context(), 2*common.ReportTimeout)
		defer cancel()

		summary, err := h.deliveries.RetryPending(ctx, limit)
		if err != nil {
			h.writeServiceError(w, err, "再送処理に失敗しました", "admin delivery retry failed")
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, retrySummaryResponse{
			Attempted: summary.Attempted,
			Resolved:  summary.Resolved,
			Failed:    summary.Failed,
		})
	}
}
