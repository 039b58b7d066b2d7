package admin

import (
	"time"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

type submissionListResponse struct {
	Items []common.SubmissionResponse `json:"items"`
	Page  int                         `json:"page"`
	Limit int                         `json:"limit"`
}

type submissionUpdateRequest struct {
	FollowUpStatus *string `json:"followUpStatus"`
	FollowUpNotes  *string `json:"followUpNotes" validate:"omitempty,max=5000"`
}

type submissionReportResponse struct {
	Success    bool                      `json:"success"`
	EmailSent  bool                      `json:"emailSent"`
	Submission common.SubmissionResponse `json:"submission"`
}

type questionRequest struct {
	QuestionNumber int    `json:"questionNumber" validate:"min=1"`
	Text           string `json:"text" validate:"required,notblank,max=500"`
	Category       string `json:"category" validate:"required"`
	Order          int    `json:"order" validate:"min=0"`
	IsActive       *bool  `json:"isActive"`
}

type questionResponse struct {
	ID             string    `json:"id"`
	QuestionNumber int       `json:"questionNumber"`
	Text           string    `json:"text"`
	Category       string    `json:"category"`
	CategoryLabel  string    `json:"categoryLabel"`
	IsActive       bool      `json:"isActive"`
	Order          int       `json:"order"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type questionListResponse struct {
	Items []questionResponse `json:"items"`
}

// templateRequest は省略されたセクションを既定テンプレートで補う。
type templateRequest struct {
	Name             string                   `json:"name"`
	IsActive         bool                     `json:"isActive"`
	ExecutiveSummary *domain.ExecutiveSummary `json:"executiveSummary"`
	DetailedSections []domain.DetailedSection `json:"detailedSections"`
	Recommendations  *domain.Recommendations  `json:"recommendations"`
	CallToAction     *domain.CallToAction     `json:"callToAction"`
	Branding         *domain.Branding         `json:"branding"`
	EmailSettings    *domain.EmailSettings    `json:"emailSettings"`
}

type templateResponse struct {
	ID               string                   `json:"id,omitempty"`
	Name             string                   `json:"name"`
	IsActive         bool                     `json:"isActive"`
	ExecutiveSummary domain.ExecutiveSummary  `json:"executiveSummary"`
	DetailedSections []domain.DetailedSection `json:"detailedSections"`
	Recommendations  domain.Recommendations   `json:"recommendations"`
	CallToAction     domain.CallToAction      `json:"callToAction"`
	Branding         domain.Branding          `json:"branding"`
	EmailSettings    domain.EmailSettings     `json:"emailSettings"`
	CreatedAt        *time.Time               `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time               `json:"updatedAt,omitempty"`
}

type templateListResponse struct {
	Items []templateResponse `json:"items"`
}

type templatePreviewRequest struct {
	SubmissionID string          `json:"submissionId" validate:"required,notblank"`
	Template     templateRequest `json:"template"`
}

type templatePreviewResponse struct {
	ReportHTML string `json:"reportHTML"`
}

type deliveryResponse struct {
	ID           string     `json:"id"`
	Kind         string     `json:"kind"`
	SubmissionID string     `json:"submissionId"`
	Recipient    string     `json:"recipient,omitempty"`
	Error        string     `json:"error"`
	Attempts     int        `json:"attempts"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastTriedAt  time.Time  `json:"lastTriedAt"`
	ResolvedAt   *time.Time `json:"resolvedAt,omitempty"`
}

type deliveryListResponse struct {
	Items []deliveryResponse `json:"items"`
}

type retrySummaryResponse struct {
	Attempted int `json:"attempted"`
	Resolved  int `json:"resolved"`
	Failed    int `json:"failed"`
}
