package public

import (
	"encoding/json"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

type questionResponse struct {
	ID             string `json:"id"`
	QuestionNumber int    `json:"questionNumber"`
	Text           string `json:"text"`
	Category       string `json:"category"`
	CategoryLabel  string `json:"categoryLabel"`
	Order          int    `json:"order"`
}

type questionListResponse struct {
	Items         []questionResponse `json:"items"`
	ScaleMin      int                `json:"scaleMin"`
	ScaleMax      int                `json:"scaleMax"`
	QuestionCount int                `json:"questionCount"`
}

type submitRequest struct {
	RespondentName    string                     `json:"respondentName" validate:"max=200"`
	RespondentEmail   string                     `json:"respondentEmail" validate:"max=254"`
	RespondentCompany string                     `json:"respondentCompany" validate:"max=200"`
	RespondentPhone   string                     `json:"respondentPhone" validate:"max=50"`
	Answers           map[string]json.RawMessage `json:"answers" validate:"required"`
}

type tierResponse struct {
	Key             string   `json:"key"`
	Level           string   `json:"level"`
	Title           string   `json:"title"`
	Summary         string   `json:"summary"`
	Description     string   `json:"description"`
	Urgency         string   `json:"urgency"`
	Recommendations []string `json:"recommendations"`
}

type resultResponse struct {
	SubmissionID   string                         `json:"submissionId"`
	TotalScore     int                            `json:"totalScore"`
	MaxScore       int                            `json:"maxScore"`
	Percentage     int                            `json:"percentage"`
	ScoreLevel     string                         `json:"scoreLevel"`
	Tier           tierResponse                   `json:"tier"`
	CategoryScores []common.CategoryScoreResponse `json:"categoryScores"`
	TopStrength    string                         `json:"topStrength,omitempty"`
	TopWeakness    string                         `json:"topWeakness,omitempty"`
}

type reportStatusResponse struct {
	Generated bool   `json:"generated"`
	EmailSent bool   `json:"emailSent"`
	Error     string `json:"error,omitempty"`
}

type submitResponse struct {
	Submission     common.SubmissionResponse `json:"submission"`
	Result         resultResponse            `json:"result"`
	Report         reportStatusResponse      `json:"report"`
	SkippedAnswers []string                  `json:"skippedAnswers,omitempty"`
}

type reportRequest struct {
	SubmissionID string `json:"submissionId" validate:"required,notblank"`
	SendEmail    bool   `json:"sendEmail"`
}

type reportTemplateResponse struct {
	EmailSettings domain.EmailSettings `json:"emailSettings"`
	Branding      domain.Branding      `json:"branding"`
}

type reportResponse struct {
	Success    bool                      `json:"success"`
	ReportHTML string                    `json:"reportHTML"`
	EmailSent  bool                      `json:"emailSent"`
	Submission common.SubmissionResponse `json:"submission"`
	Template   reportTemplateResponse    `json:"template"`
}
