package domain

import (
	"fmt"
	"time"
)

// Band は詳細セクションの採点帯。
type Band string

const (
	BandLow    Band = "low"
	BandMedium Band = "medium"
	BandHigh   Band = "high"
)

// 既定の帯境界（0–39 / 40–69 / 70–100）。
const (
	defaultLowMax    = 39
	defaultMediumMax = 69
)

// BandFor は既定の帯境界でパーセンテージを分類する。
func BandFor(percentage int) Band {
	p := clampPercentage(percentage)
	switch {
	case p <= defaultLowMax:
		return BandLow
	case p <= defaultMediumMax:
		return BandMedium
	default:
		return BandHigh
	}
}

type ScoreBand struct {
	Min         int    `json:"min"`
	Max         int    `json:"max"`
	Label       string `json:"label" validate:"required"`
	Description string `json:"description"`
}

type ScoringCriteria struct {
	Low    ScoreBand `json:"low"`
	Medium ScoreBand `json:"medium"`
	High   ScoreBand `json:"high"`
}

// Select はパーセンテージに該当する帯を返す。Validate 済みの基準であれば必ずどれか 1 つに入る。
func (c ScoringCriteria) Select(percentage int) (Band, ScoreBand) {
	p := clampPercentage(percentage)
	switch {
	case p <= c.Low.Max:
		return BandLow, c.Low
	case p <= c.Medium.Max:
		return BandMedium, c.Medium
	default:
		return BandHigh, c.High
	}
}

// validate は帯が [0,100] を隙間・重なりなく分割しているか検査する。
func (c ScoringCriteria) validate(section string) error {
	bands := []struct {
		name Band
		band ScoreBand
	}{
		{BandLow, c.Low},
		{BandMedium, c.Medium},
		{BandHigh, c.High},
	}
	for _, b := range bands {
		if b.band.Min > b.band.Max {
			return &TemplateValidationError{Section: section, Band: string(b.name), Reason: fmt.Sprintf("has min %d greater than max %d", b.band.Min, b.band.Max)}
		}
	}
	if c.Low.Min != 0 {
		return &TemplateValidationError{Section: section, Band: string(BandLow), Reason: fmt.Sprintf("must start at 0 (got %d)", c.Low.Min)}
	}
	if c.Medium.Min != c.Low.Max+1 {
		return &TemplateValidationError{Section: section, Band: string(BandMedium), Reason: fmt.Sprintf("must start at %d (got %d)", c.Low.Max+1, c.Medium.Min)}
	}
	if c.High.Min != c.Medium.Max+1 {
		return &TemplateValidationError{Section: section, Band: string(BandHigh), Reason: fmt.Sprintf("must start at %d (got %d)", c.Medium.Max+1, c.High.Min)}
	}
	if c.High.Max != 100 {
		return &TemplateValidationError{Section: section, Band: string(BandHigh), Reason: fmt.Sprintf("must end at 100 (got %d)", c.High.Max)}
	}
	return nil
}

type DetailedSection struct {
	Category        Category        `json:"category"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Enabled         bool            `json:"enabled"`
	ScoringCriteria ScoringCriteria `json:"scoringCriteria"`
}

type ExecutiveSummary struct {
	Enabled               bool   `json:"enabled"`
	ShowOverallScore      bool   `json:"showOverallScore"`
	ShowCategoryBreakdown bool   `json:"showCategoryBreakdown"`
	ShowStrengthWeakness  bool   `json:"showStrengthWeakness"`
	CustomIntro           string `json:"customIntro"`
}

// RecommendationTiers はティアキーごとの推奨アクション。
type RecommendationTiers struct {
	Critical    []string `json:"critical"`
	Vulnerable  []string `json:"vulnerable"`
	Developing  []string `json:"developing"`
	LegacyReady []string `json:"legacyReady"`
}

// For はキーに対応するリストを返す。
func (r RecommendationTiers) For(key TierKey) []string {
	switch key {
	case TierCritical:
		return r.Critical
	case TierVulnerable:
		return r.Vulnerable
	case TierLegacyReady:
		return r.LegacyReady
	default:
		return r.Developing
	}
}

type Recommendations struct {
	Enabled bool                `json:"enabled"`
	Title   string              `json:"title"`
	Tiers   RecommendationTiers `json:"tiers"`
}

type CallToAction struct {
	Enabled     bool   `json:"enabled"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ButtonText  string `json:"buttonText"`
	ButtonURL   string `json:"buttonUrl" validate:"omitempty,url"`
}

type Branding struct {
	LogoURL        string `json:"logoUrl" validate:"omitempty,url"`
	PrimaryColor   string `json:"primaryColor" validate:"omitempty,hexcolor"`
	SecondaryColor string `json:"secondaryColor" validate:"omitempty,hexcolor"`
	CompanyName    string `json:"companyName"`
	ContactEmail   string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone   string `json:"contactPhone"`
	Website        string `json:"website" validate:"omitempty,url"`
}

type EmailSettings struct {
	Subject       string `json:"subject"`
	FromName      string `json:"fromName"`
	ReplyTo       string `json:"replyTo" validate:"omitempty,email"`
	IntroText     string `json:"introText"`
	SignatureText string `json:"signatureText"`
}

// ReportTemplate は管理者が編集できるレポート構成。有効（IsActive）なものは同時に 1 件まで。
type ReportTemplate struct {
	ID               string
	Name             string
	IsActive         bool
	ExecutiveSummary ExecutiveSummary
	DetailedSections []DetailedSection `validate:"dive"`
	Recommendations  Recommendations
	CallToAction     CallToAction
	Branding         Branding
	EmailSettings    EmailSettings
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Validate は構造上の不変条件（帯の分割・セクションのカテゴリ）を検査する。
func (t ReportTemplate) Validate() error {
	seen := make(map[Category]struct{}, len(t.DetailedSections))
	for i, section := range t.DetailedSections {
		name := section.Category.String()
		if name == "" {
			name = fmt.Sprintf("#%d", i+1)
		}
		if !section.Category.IsKnown() {
			return &TemplateValidationError{Section: name, Reason: "is bound to an unknown category"}
		}
		if _, dup := seen[section.Category]; dup {
			return &TemplateValidationError{Section: name, Reason: "is defined more than once"}
		}
		seen[section.Category] = struct{}{}
		if err := section.ScoringCriteria.validate(name); err != nil {
			return err
		}
	}
	return nil
}

// RecommendationsFor は scoreLevel に対応する推奨アクションを返す。
// テンプレートに該当ティアが無ければ developing、それも空なら組み込みティアの一覧を使う。
func (t ReportTemplate) RecommendationsFor(level string) []string {
	key := NormalizeTierKey(level)
	if list := nonEmpty(t.Recommendations.Tiers.For(key)); len(list) > 0 {
		return list
	}
	if list := nonEmpty(t.Recommendations.Tiers.Developing); len(list) > 0 {
		return list
	}
	return TierByKey(key).Recommendations
}

// Section はカテゴリに紐づく詳細セクションを返す。
func (t ReportTemplate) Section(c Category) (DetailedSection, bool) {
	for _, s := range t.DetailedSections {
		if s.Category == c {
			return s, true
		}
	}
	return DetailedSection{}, false
}

// TemplateOverrides は保存済みテンプレートの部分指定。nil / 空のセクションは既定値を使う。
type TemplateOverrides struct {
	ID               string
	Name             string
	IsActive         bool
	ExecutiveSummary *ExecutiveSummary
	DetailedSections []DetailedSection
	Recommendations  *Recommendations
	CallToAction     *CallToAction
	Branding         *Branding
	EmailSettings    *EmailSettings
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// MergeOverDefault は保存済みテンプレートを既定テンプレートの上にトップレベル単位で重ねる（浅いマージ）。
func MergeOverDefault(o TemplateOverrides) ReportTemplate {
	t := DefaultTemplate()
	t.ID = o.ID
	if o.Name != "" {
		t.Name = o.Name
	}
	t.IsActive = o.IsActive
	t.CreatedAt = o.CreatedAt
	t.UpdatedAt = o.UpdatedAt
	if o.ExecutiveSummary != nil {
		t.ExecutiveSummary = *o.ExecutiveSummary
	}
	if len(o.DetailedSections) > 0 {
		t.DetailedSections = append([]DetailedSection(nil), o.DetailedSections...)
	}
	if o.Recommendations != nil {
		t.Recommendations = *o.Recommendations
	}
	if o.CallToAction != nil {
		t.CallToAction = *o.CallToAction
	}
	if o.Branding != nil {
		t.Branding = *o.Branding
	}
	if o.EmailSettings != nil {
		t.EmailSettings = *o.EmailSettings
	}
	return t
}

// Overrides は全セクションを明示したオーバーライドへ変換する（保存用）。
func (t ReportTemplate) Overrides() TemplateOverrides {
	exec := t.ExecutiveSummary
	recs := t.Recommendations
	cta := t.CallToAction
	brand := t.Branding
	mail := t.EmailSettings
	return TemplateOverrides{
		ID:               t.ID,
		Name:             t.Name,
		IsActive:         t.IsActive,
		ExecutiveSummary: &exec,
		DetailedSections: append([]DetailedSection(nil), t.DetailedSections...),
		Recommendations:  &recs,
		CallToAction:     &cta,
		Branding:         &brand,
		EmailSettings:    &mail,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

func nonEmpty(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
