package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
)

// FollowUpStatus はスタッフによるフォローアップの進捗。
type FollowUpStatus string

const (
	FollowUpPending       FollowUpStatus = "pending"
	FollowUpContacted     FollowUpStatus = "contacted"
	FollowUpScheduled     FollowUpStatus = "scheduled"
	FollowUpCompleted     FollowUpStatus = "completed"
	FollowUpNotInterested FollowUpStatus = "not_interested"
)

var followUpStatuses = []FollowUpStatus{
	FollowUpPending,
	FollowUpContacted,
	FollowUpScheduled,
	FollowUpCompleted,
	FollowUpNotInterested,
}

func NewFollowUpStatus(value string) (FollowUpStatus, error) {
	trimmed := FollowUpStatus(strings.ToLower(strings.TrimSpace(value)))
	if trimmed == "" {
		return "", fmt.Errorf("followUpStatus is required")
	}
	for _, allowed := range followUpStatuses {
		if allowed == trimmed {
			return trimmed, nil
		}
	}
	return "", fmt.Errorf("invalid followUpStatus: %s", value)
}

func (s FollowUpStatus) String() string {
	return string(s)
}

// Contact は回答者の連絡先。メールアドレスがある場合だけレポートを送る。
type Contact struct {
	Name    string
	Email   Email
	Company string
	Phone   string
}

type Email string

func NewEmail(value string) (Email, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", nil
	}
	if len(trimmed) > 254 {
		return "", fmt.Errorf("email too long")
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("invalid email: %w", err)
	}
	return Email(trimmed), nil
}

func (e Email) String() string {
	return string(e)
}

// Submission は完了したアセスメント 1 件。作成後に変更できるのは
// FollowUpStatus / FollowUpNotes / ReportSentAt のみ。
type Submission struct {
	ID             string
	Contact        Contact
	Answers        AnswerSet
	TotalScore     int
	MaxScore       int
	Percentage     int
	ScoreLevel     string
	CategoryScores []CategoryScore
	FollowUpStatus FollowUpStatus
	FollowUpNotes  string
	CompletedAt    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	ReportSentAt   *time.Time
}

// NewSubmission は採点結果と分類結果から提出レコードを組み立てる。
func NewSubmission(contact Contact, answers AnswerSet, result ScoreResult, tier Tier, now time.Time) *Submission {
	scores := append([]CategoryScore(nil), result.CategoryScores...)
	return &Submission{
		Contact:        contact,
		Answers:        answers.Clone(),
		TotalScore:     result.TotalScore,
		MaxScore:       result.MaxScore,
		Percentage:     result.Percentage,
		ScoreLevel:     tier.Level,
		CategoryScores: scores,
		FollowUpStatus: FollowUpPending,
		CompletedAt:    now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Tier は保存済みの ScoreLevel に対応するティアを返す。
func (s Submission) Tier() Tier {
	return TierForLevel(s.ScoreLevel)
}

// CategoryPercentage は該当カテゴリのパーセンテージ。存在しなければ 0。
func (s Submission) CategoryPercentage(c Category) int {
	for _, cs := range s.CategoryScores {
		if cs.Category == c {
			return cs.Percentage
		}
	}
	return 0
}

// HasEmail はレポート送付先があるかどうか。
func (s Submission) HasEmail() bool {
	return strings.TrimSpace(s.Contact.Email.String()) != ""
}

// DescribeCategoryScore は永続化されていない Label / Insight を補う。
func DescribeCategoryScore(cs CategoryScore) CategoryScore {
	if cs.Label == "" {
		cs.Label = cs.Category.Label()
	}
	if cs.Insight == "" {
		cs.Insight = cs.Category.Insight(cs.Percentage)
	}
	return cs
}
