package domain

import "fmt"

// ValidationError は入力値の単一フィールドに関するエラー。
type ValidationError struct {
	Field   string
	Message string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// TemplateValidationError はレポートテンプレート保存時の不整合。どのセクションのどの帯かを持つ。
type TemplateValidationError struct {
	Section string
	Band    string
	Reason  string
}

func (e *TemplateValidationError) Error() string {
	switch {
	case e.Section != "" && e.Band != "":
		return fmt.Sprintf("detailed section %q: band %q %s", e.Section, e.Band, e.Reason)
	case e.Section != "":
		return fmt.Sprintf("detailed section %q: %s", e.Section, e.Reason)
	default:
		return e.Reason
	}
}
