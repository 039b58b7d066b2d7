package domain

import "time"

// DeliveryKind は失敗した外部送信の種類。
type DeliveryKind string

const (
	DeliveryReportEmail      DeliveryKind = "report_email"
	DeliveryLeadNotification DeliveryKind = "lead_notification"
)

// DeliveryStatus は再送キュー上の状態。
type DeliveryStatus string

const (
	DeliveryPending  DeliveryStatus = "pending"
	DeliveryResolved DeliveryStatus = "resolved"
)

// FailedDelivery はレポートメールやスタッフ通知の送信失敗記録。後から再送できる。
type FailedDelivery struct {
	ID           string
	Kind         DeliveryKind
	SubmissionID string
	Recipient    string
	Error        string
	Attempts     int
	Status       DeliveryStatus
	CreatedAt    time.Time
	LastTriedAt  time.Time
	ResolvedAt   *time.Time
}

// NewFailedDelivery は初回失敗時のレコードを組み立てる。
func NewFailedDelivery(kind DeliveryKind, submissionID, recipient string, cause error, attempts int, now time.Time) *FailedDelivery {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	if attempts < 1 {
		attempts = 1
	}
	return &FailedDelivery{
		Kind:         kind,
		SubmissionID: submissionID,
		Recipient:    recipient,
		Error:        msg,
		Attempts:     attempts,
		Status:       DeliveryPending,
		CreatedAt:    now,
		LastTriedAt:  now,
	}
}
