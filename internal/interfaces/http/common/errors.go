package common

import (
	"errors"
	"net/http"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
)

// StatusForError はアプリケーション層のエラーを HTTP ステータスと利用者向けメッセージに変換する。
// 500 系の場合 message は汎用文言で、呼び出し側が詳細をログに残す。
func StatusForError(err error, fallback string) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case application.IsValidationError(err):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, application.ErrSubmissionNotFound):
		return http.StatusNotFound, "提出が見つかりません"
	case errors.Is(err, application.ErrTemplateNotFound):
		return http.StatusNotFound, "レポートテンプレートが見つかりません"
	case errors.Is(err, application.ErrQuestionNotFound):
		return http.StatusNotFound, "設問が見つかりません"
	case errors.Is(err, application.ErrNoRecipient):
		return http.StatusBadRequest, "メールアドレスが登録されていないためレポートを送信できません"
	case errors.Is(err, application.ErrDeliveryFailed):
		return http.StatusBadGateway, "レポートメールの送信に失敗しました"
	default:
		return http.StatusInternalServerError, fallback
	}
}
