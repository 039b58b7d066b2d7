package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// QuestionDocument は設問バンク 1 問分のスキーマ。
type QuestionDocument struct {
	ID             primitive.ObjectID `bson:"_id"`
	QuestionNumber int                `bson:"questionNumber"`
	QuestionText   string             `bson:"questionText"`
	Category       string             `bson:"category"`
	IsActive       bool               `bson:"isActive"`
	Order          int                `bson:"order"`
	CreatedAt      time.Time          `bson:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt"`
}

// CategoryScoreDocument は提出ドキュメントに埋め込むカテゴリ別スコア。
type CategoryScoreDocument struct {
	Category   string `bson:"category"`
	Score      int    `bson:"score"`
	MaxScore   int    `bson:"maxScore"`
	Percentage int    `bson:"percentage"`
}

// SubmissionDocument は完了したアセスメントのスキーマ。answers のキーは設問番号の文字列。
type SubmissionDocument struct {
	ID                primitive.ObjectID      `bson:"_id"`
	RespondentName    string                  `bson:"respondentName,omitempty"`
	RespondentEmail   string                  `bson:"respondentEmail,omitempty"`
	RespondentCompany string                  `bson:"respondentCompany,omitempty"`
	RespondentPhone   string                  `bson:"respondentPhone,omitempty"`
	Answers           map[string]int          `bson:"answers"`
	TotalScore        int                     `bson:"totalScore"`
	MaxScore          int                     `bson:"maxScore"`
	Percentage        int                     `bson:"percentage"`
	ScoreLevel        string                  `bson:"scoreLevel"`
	CategoryScores    []CategoryScoreDocument `bson:"categoryScores"`
	FollowUpStatus    string                  `bson:"followUpStatus"`
	FollowUpNotes     string                  `bson:"followUpNotes,omitempty"`
	ReportSentAt      *time.Time              `bson:"reportSentAt,omitempty"`
	CompletedAt       time.Time               `bson:"completedAt"`
	CreatedAt         time.Time               `bson:"createdAt"`
	UpdatedAt         time.Time               `bson:"updatedAt"`
}

// ReportTemplateDocument はレポートテンプレートのスキーマ。各セクションは省略可能で、
// 読み出し時に既定テンプレートへ重ねる。
type ReportTemplateDocument struct {
	ID               primitive.ObjectID        `bson:"_id"`
	Name             string                    `bson:"name"`
	IsActive         bool                      `bson:"isActive"`
	ExecutiveSummary *ExecutiveSummaryDocument `bson:"executiveSummary,omitempty"`
	DetailedSections []DetailedSectionDocument `bson:"detailedSections,omitempty"`
	Recommendations  *RecommendationsDocument  `bson:"recommendations,omitempty"`
	CallToAction     *CallToActionDocument     `bson:"callToAction,omitempty"`
	Branding         *BrandingDocument         `bson:"branding,omitempty"`
	EmailSettings    *EmailSettingsDocument    `bson:"emailSettings,omitempty"`
	ActivatedAt      *time.Time                `bson:"activatedAt,omitempty"`
	CreatedAt        time.Time                 `bson:"createdAt"`
	UpdatedAt        time.Time                 `bson:"updatedAt"`
}

type ExecutiveSummaryDocument struct {
	Enabled               bool   `bson:"enabled"`
	ShowOverallScore      bool   `bson:"showOverallScore"`
	ShowCategoryBreakdown bool   `bson:"showCategoryBreakdown"`
	ShowStrengthWeakness  bool   `bson:"showStrengthWeakness"`
	CustomIntro           string `bson:"customIntro,omitempty"`
}

type CallToActionDocument struct {
	Enabled     bool   `bson:"enabled"`
	Title       string `bson:"title"`
	Description string `bson:"description,omitempty"`
	ButtonText  string `bson:"buttonText,omitempty"`
	ButtonURL   string `bson:"buttonUrl,omitempty"`
}

type BrandingDocument struct {
	LogoURL        string `bson:"logoUrl,omitempty"`
	PrimaryColor   string `bson:"primaryColor,omitempty"`
	SecondaryColor string `bson:"secondaryColor,omitempty"`
	CompanyName    string `bson:"companyName,omitempty"`
	ContactEmail   string `bson:"contactEmail,omitempty"`
	ContactPhone   string `bson:"contactPhone,omitempty"`
	Website        string `bson:"website,omitempty"`
}

type EmailSettingsDocument struct {
	Subject       string `bson:"subject,omitempty"`
	FromName      string `bson:"fromName,omitempty"`
	ReplyTo       string `bson:"replyTo,omitempty"`
	IntroText     string `bson:"introText,omitempty"`
	SignatureText string `bson:"signatureText,omitempty"`
}

// DetailedSectionDocument はカテゴリ別セクション。scoringCriteria は low / medium / high の 3 帯。
type DetailedSectionDocument struct {
	Category        string                  `bson:"category"`
	Title           string                  `bson:"title"`
	Description     string                  `bson:"description,omitempty"`
	Enabled         bool                    `bson:"enabled"`
	ScoringCriteria ScoringCriteriaDocument `bson:"scoringCriteria"`
}

type ScoringCriteriaDocument struct {
	Low    ScoreBandDocument `bson:"low"`
	Medium ScoreBandDocument `bson:"medium"`
	High   ScoreBandDocument `bson:"high"`
}

type ScoreBandDocument struct {
	Min         int    `bson:"min"`
	Max         int    `bson:"max"`
	Label       string `bson:"label"`
	Description string `bson:"description"`
}

type RecommendationsDocument struct {
	Enabled bool                `bson:"enabled"`
	Title   string              `bson:"title"`
	Tiers   map[string][]string `bson:"tiers"`
}

// FailedDeliveryDocument は送信に失敗したレポートメール・スタッフ通知の記録。
type FailedDeliveryDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	Kind         string             `bson:"kind"`
	SubmissionID string             `bson:"submissionId"`
	Recipient    string             `bson:"recipient,omitempty"`
	Error        string             `bson:"error"`
	Attempts     int                `bson:"attempts"`
	Status       string             `bson:"status"`
	CreatedAt    time.Time          `bson:"createdAt"`
	LastTriedAt  time.Time          `bson:"lastTriedAt"`
	ResolvedAt   *time.Time         `bson:"resolvedAt,omitempty"`
}

func mapQuestionDocument(doc QuestionDocument) domain.Question {
	return domain.Question{
		ID:             doc.ID.Hex(),
		QuestionNumber: doc.QuestionNumber,
		Text:           doc.QuestionText,
		Category:       domain.Category(doc.Category),
		IsActive:       doc.IsActive,
		Order:          doc.Order,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func mapDomainQuestionToDocument(q domain.Question) QuestionDocument {
	return QuestionDocument{
		QuestionNumber: q.QuestionNumber,
		QuestionText:   q.Text,
		Category:       q.Category.String(),
		IsActive:       q.IsActive,
		Order:          q.Order,
		CreatedAt:      q.CreatedAt,
		UpdatedAt:      q.UpdatedAt,
	}
}

func mapSubmissionDocument(doc SubmissionDocument) domain.Submission {
	scores := make([]domain.CategoryScore, 0, len(doc.CategoryScores))
	for _, cs := range doc.CategoryScores {
		scores = append(scores, domain.CategoryScore{
			Category:   domain.Category(cs.Category),
			Score:      cs.Score,
			MaxScore:   cs.MaxScore,
			Percentage: cs.Percentage,
		})
	}
	status := domain.FollowUpStatus(doc.FollowUpStatus)
	if status == "" {
		status = domain.FollowUpPending
	}
	return domain.Submission{
		ID: doc.ID.Hex(),
		Contact: domain.Contact{
			Name:    doc.RespondentName,
			Email:   domain.Email(doc.RespondentEmail),
			Company: doc.RespondentCompany,
			Phone:   doc.RespondentPhone,
		},
		Answers:        domain.AnswerSetFromWire(doc.Answers),
		TotalScore:     doc.TotalScore,
		MaxScore:       doc.MaxScore,
		Percentage:     doc.Percentage,
		ScoreLevel:     doc.ScoreLevel,
		CategoryScores: scores,
		FollowUpStatus: status,
		FollowUpNotes:  doc.FollowUpNotes,
		ReportSentAt:   doc.ReportSentAt,
		CompletedAt:    doc.CompletedAt,
		CreatedAt:      doc.CreatedAt,
		UpdatedAt:      doc.UpdatedAt,
	}
}

func mapDomainSubmissionToDocument(s domain.Submission) SubmissionDocument {
	scores := make([]CategoryScoreDocument, 0, len(s.CategoryScores))
	for _, cs := range s.CategoryScores {
		scores = append(scores, CategoryScoreDocument{
			Category:   cs.Category.String(),
			Score:      cs.Score,
			MaxScore:   cs.MaxScore,
			Percentage: cs.Percentage,
		})
	}
	return SubmissionDocument{
		RespondentName:    s.Contact.Name,
		RespondentEmail:   s.Contact.Email.String(),
		RespondentCompany: s.Contact.Company,
		RespondentPhone:   s.Contact.Phone,
		Answers:           s.Answers.ToWire(),
		TotalScore:        s.TotalScore,
		MaxScore:          s.MaxScore,
		Percentage:        s.Percentage,
		ScoreLevel:        s.ScoreLevel,
		CategoryScores:    scores,
		FollowUpStatus:    s.FollowUpStatus.String(),
		FollowUpNotes:     s.FollowUpNotes,
		ReportSentAt:      s.ReportSentAt,
		CompletedAt:       s.CompletedAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// mapTemplateDocument は保存済みの部分テンプレートを返す。既定値との合成は application 層で行う。
func mapTemplateDocument(doc ReportTemplateDocument) domain.TemplateOverrides {
	o := domain.TemplateOverrides{
		ID:        doc.ID.Hex(),
		Name:      doc.Name,
		IsActive:  doc.IsActive,
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
	}
	if e := doc.ExecutiveSummary; e != nil {
		o.ExecutiveSummary = &domain.ExecutiveSummary{
			Enabled:               e.Enabled,
			ShowOverallScore:      e.ShowOverallScore,
			ShowCategoryBreakdown: e.ShowCategoryBreakdown,
			ShowStrengthWeakness:  e.ShowStrengthWeakness,
			CustomIntro:           e.CustomIntro,
		}
	}
	if c := doc.CallToAction; c != nil {
		o.CallToAction = &domain.CallToAction{
			Enabled:     c.Enabled,
			Title:       c.Title,
			Description: c.Description,
			ButtonText:  c.ButtonText,
			ButtonURL:   c.ButtonURL,
		}
	}
	if b := doc.Branding; b != nil {
		brand := domain.Branding(*b)
		o.Branding = &brand
	}
	if m := doc.EmailSettings; m != nil {
		mail := domain.EmailSettings(*m)
		o.EmailSettings = &mail
	}
	for _, section := range doc.DetailedSections {
		o.DetailedSections = append(o.DetailedSections, domain.DetailedSection{
			Category:    domain.Category(section.Category),
			Title:       section.Title,
			Description: section.Description,
			Enabled:     section.Enabled,
			ScoringCriteria: domain.ScoringCriteria{
				Low:    mapBandDocument(section.ScoringCriteria.Low),
				Medium: mapBandDocument(section.ScoringCriteria.Medium),
				High:   mapBandDocument(section.ScoringCriteria.High),
			},
		})
	}
	if doc.Recommendations != nil {
		tiers := doc.Recommendations.Tiers
		o.Recommendations = &domain.Recommendations{
			Enabled: doc.Recommendations.Enabled,
			Title:   doc.Recommendations.Title,
			Tiers: domain.RecommendationTiers{
				Critical:    tiers[string(domain.TierCritical)],
				Vulnerable:  tiers[string(domain.TierVulnerable)],
				Developing:  tiers[string(domain.TierDeveloping)],
				LegacyReady: tiers[string(domain.TierLegacyReady)],
			},
		}
	}
	return o
}

func mapDomainTemplateToDocument(t domain.ReportTemplate) ReportTemplateDocument {
	brand := BrandingDocument(t.Branding)
	mail := EmailSettingsDocument(t.EmailSettings)
	doc := ReportTemplateDocument{
		Name:     t.Name,
		IsActive: t.IsActive,
		ExecutiveSummary: &ExecutiveSummaryDocument{
			Enabled:               t.ExecutiveSummary.Enabled,
			ShowOverallScore:      t.ExecutiveSummary.ShowOverallScore,
			ShowCategoryBreakdown: t.ExecutiveSummary.ShowCategoryBreakdown,
			ShowStrengthWeakness:  t.ExecutiveSummary.ShowStrengthWeakness,
			CustomIntro:           t.ExecutiveSummary.CustomIntro,
		},
		CallToAction: &CallToActionDocument{
			Enabled:     t.CallToAction.Enabled,
			Title:       t.CallToAction.Title,
			Description: t.CallToAction.Description,
			ButtonText:  t.CallToAction.ButtonText,
			ButtonURL:   t.CallToAction.ButtonURL,
		},
		Branding:      &brand,
		EmailSettings: &mail,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		Recommendations: &RecommendationsDocument{
			Enabled: t.Recommendations.Enabled,
			Title:   t.Recommendations.Title,
			Tiers: map[string][]string{
				string(domain.TierCritical):    t.Recommendations.Tiers.Critical,
				string(domain.TierVulnerable):  t.Recommendations.Tiers.Vulnerable,
				string(domain.TierDeveloping):  t.Recommendations.Tiers.Developing,
				string(domain.TierLegacyReady): t.Recommendations.Tiers.LegacyReady,
			},
		},
	}
	for _, section := range t.DetailedSections {
		doc.DetailedSections = append(doc.DetailedSections, DetailedSectionDocument{
			Category:    section.Category.String(),
			Title:       section.Title,
			Description: section.Description,
			Enabled:     section.Enabled,
			ScoringCriteria: ScoringCriteriaDocument{
				Low:    mapDomainBandToDocument(section.ScoringCriteria.Low),
				Medium: mapDomainBandToDocument(section.ScoringCriteria.Medium),
				High:   mapDomainBandToDocument(section.ScoringCriteria.High),
			},
		})
	}
	return doc
}

func mapBandDocument(doc ScoreBandDocument) domain.ScoreBand {
	return domain.ScoreBand{Min: doc.Min, Max: doc.Max, Label: doc.Label, Description: doc.Description}
}

func mapDomainBandToDocument(b domain.ScoreBand) ScoreBandDocument {
	return ScoreBandDocument{Min: b.Min, Max: b.Max, Label: b.Label, Description: b.Description}
}

func mapFailedDeliveryDocument(doc FailedDeliveryDocument) domain.FailedDelivery {
	return domain.FailedDelivery{
		ID:           doc.ID.Hex(),
		Kind:         domain.DeliveryKind(doc.Kind),
		SubmissionID: doc.SubmissionID,
		Recipient:    doc.Recipient,
		Error:        doc.Error,
		Attempts:     doc.Attempts,
		Status:       domain.DeliveryStatus(doc.Status),
		CreatedAt:    doc.CreatedAt,
		LastTriedAt:  doc.LastTriedAt,
		ResolvedAt:   doc.ResolvedAt,
	}
}
