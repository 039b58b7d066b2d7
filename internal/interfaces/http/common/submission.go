package common

import (
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// CategoryScoreResponse はカテゴリ別スコアの JSON 表現。
type CategoryScoreResponse struct {
	Category   string `json:"category"`
	Label      string `json:"label,omitempty"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"maxScore"`
	Percentage int    `json:"percentage"`
	Insight    string `json:"insight,omitempty"`
}

// SubmissionResponse は提出レコードの JSON 表現。公開 API と管理 API で共通。
type SubmissionResponse struct {
	ID                string                  `json:"id"`
	RespondentName    string                  `json:"respondentName,omitempty"`
	RespondentEmail   string                  `json:"respondentEmail,omitempty"`
	RespondentCompany string                  `json:"respondentCompany,omitempty"`
	RespondentPhone   string                  `json:"respondentPhone,omitempty"`
	Answers           map[string]int          `json:"answers"`
	TotalScore        int                     `json:"totalScore"`
	MaxScore          int                     `json:"maxScore"`
	Percentage        int                     `json:"percentage"`
	ScoreLevel        string                  `json:"scoreLevel"`
	CategoryScores    []CategoryScoreResponse `json:"categoryScores"`
	FollowUpStatus    string                  `json:"followUpStatus"`
	FollowUpNotes     string                  `json:"followUpNotes,omitempty"`
	CompletedAt       time.Time               `json:"completedAt"`
	ReportSentAt      *time.Time              `json:"reportSentAt,omitempty"`
	CreatedAt         time.Time               `json:"createdAt"`
	UpdatedAt         time.Time               `json:"updatedAt"`
}

// NewSubmissionResponse converts a domain submission into its JSON form.
func NewSubmissionResponse(s domain.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:                s.ID,
		RespondentName:    s.Contact.Name,
		RespondentEmail:   s.Contact.Email.String(),
		RespondentCompany: s.Contact.Company,
		RespondentPhone:   s.Contact.Phone,
		Answers:           s.Answers.ToWire(),
		TotalScore:        s.TotalScore,
		MaxScore:          s.MaxScore,
		Percentage:        s.Percentage,
		ScoreLevel:        s.ScoreLevel,
		CategoryScores:    NewCategoryScoreResponses(s.CategoryScores),
		FollowUpStatus:    s.FollowUpStatus.String(),
		FollowUpNotes:     s.FollowUpNotes,
		CompletedAt:       s.CompletedAt,
		ReportSentAt:      s.ReportSentAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

func NewCategoryScoreResponses(scores []domain.CategoryScore) []CategoryScoreResponse {
	items := make([]CategoryScoreResponse, 0, len(scores))
	for _, cs := range scores {
		items = append(items, CategoryScoreResponse{
			Category:   cs.Category.String(),
			Label:      cs.Label,
			Score:      cs.Score,
			MaxScore:   cs.MaxScore,
			Percentage: cs.Percentage,
			Insight:    cs.Insight,
		})
	}
	return items
}
