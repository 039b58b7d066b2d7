package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
)

// NotProvided is written in place of respondent fields that are empty.
const NotProvided = "Not provided"

//go:embed templates/report.gohtml
var templateFS embed.FS

var (
	hexColorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

	reportTemplate = template.Must(template.New("report.gohtml").ParseFS(templateFS, "templates/report.gohtml"))
)

// Renderer は提出とテンプレートから自己完結した HTML レポートを生成する。
// 時刻やマップ順序に依存しないため、同じ入力からは常に同じバイト列が得られる。
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{tmpl: reportTemplate}
}

func (r *Renderer) Render(submission domain.Submission, tmpl domain.ReportTemplate) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, buildView(submission, tmpl)); err != nil {
		return "", fmt.Errorf("execute report template: %w", err)
	}
	return buf.String(), nil
}

type reportView struct {
	Title     string
	Primary   template.CSS
	Secondary template.CSS
	Brand     brandView
	Person    personView
	Overall   overallView
	Summary   summaryView
	Sections  []sectionView
	Actions   actionsView
	CTA       ctaView
}

type brandView struct {
	CompanyName  string
	LogoURL      string
	ContactEmail string
	ContactPhone string
	Website      string
}

type personView struct {
	Name      string
	Email     string
	Company   string
	Phone     string
	Completed string
}

type overallView struct {
	TotalScore  int
	MaxScore    int
	Percentage  int
	Level       string
	Title       string
	Summary     string
	Description string
	Urgency     string
}

type summaryView struct {
	Enabled          bool
	Intro            string
	ShowOverall      bool
	ShowBreakdown    bool
	ShowExtremes     bool
	Categories       []categoryView
	StrengthLabel    string
	StrengthInsight  string
	WeaknessLabel    string
	WeaknessInsight  string
	HasCategoryScore bool
}

type categoryView struct {
	Label      string
	Score      int
	MaxScore   int
	Percentage int
}

type sectionView struct {
	Title           string
	Description     string
	Percentage      int
	Band            string
	BandLabel       string
	BandDescription string
}

type actionsView struct {
	Enabled bool
	Title   string
	Items   []string
}

type ctaView struct {
	Enabled     bool
	Title       string
	Description string
	ButtonText  string
	ButtonURL   string
}

func buildView(submission domain.Submission, tmpl domain.ReportTemplate) reportView {
	brand := tmpl.Branding
	tier := submission.Tier()

	view := reportView{
		Primary:   safeColor(brand.PrimaryColor, domain.DefaultPrimaryColor),
		Secondary: safeColor(brand.SecondaryColor, domain.DefaultSecondaryColor),
		Brand: brandView{
			CompanyName:  strings.TrimSpace(brand.CompanyName),
			LogoURL:      strings.TrimSpace(brand.LogoURL),
			ContactEmail: strings.TrimSpace(brand.ContactEmail),
			ContactPhone: strings.TrimSpace(brand.ContactPhone),
			Website:      strings.TrimSpace(brand.Website),
		},
		Person: personView{
			Name:      orNotProvided(submission.Contact.Name),
			Email:     orNotProvided(submission.Contact.Email.String()),
			Company:   orNotProvided(submission.Contact.Company),
			Phone:     orNotProvided(submission.Contact.Phone),
			Completed: formatCompleted(submission),
		},
		Overall: overallView{
			TotalScore:  submission.TotalScore,
			MaxScore:    submission.MaxScore,
			Percentage:  submission.Percentage,
			Level:       orNotProvided(submission.ScoreLevel),
			Title:       tier.Title,
			Summary:     tier.Summary,
			Description: tier.Description,
			Urgency:     string(tier.Urgency),
		},
	}
	view.Title = "Legacy Growth IQ Report"
	if view.Brand.CompanyName != "" {
		view.Title = view.Brand.CompanyName + " | Legacy Growth IQ Report"
	}

	view.Summary = buildSummary(submission, tmpl.ExecutiveSummary)
	view.Sections = buildSections(submission, tmpl.DetailedSections)

	if tmpl.Recommendations.Enabled {
		view.Actions = actionsView{
			Enabled: true,
			Title:   firstNonBlank(tmpl.Recommendations.Title, "Recommendations"),
			Items:   tmpl.RecommendationsFor(submission.ScoreLevel),
		}
	}

	cta := tmpl.CallToAction
	if cta.Enabled {
		view.CTA = ctaView{
			Enabled:     true,
			Title:       strings.TrimSpace(cta.Title),
			Description: strings.TrimSpace(cta.Description),
			ButtonText:  strings.TrimSpace(cta.ButtonText),
			ButtonURL:   strings.TrimSpace(cta.ButtonURL),
		}
	}
	return view
}

func buildSummary(submission domain.Submission, exec domain.ExecutiveSummary) summaryView {
	if !exec.Enabled {
		return summaryView{}
	}
	described := make([]domain.CategoryScore, 0, len(submission.CategoryScores))
	categories := make([]categoryView, 0, len(submission.CategoryScores))
	for _, cs := range submission.CategoryScores {
		cs = domain.DescribeCategoryScore(cs)
		described = append(described, cs)
		categories = append(categories, categoryView{
			Label:      cs.Label,
			Score:      cs.Score,
			MaxScore:   cs.MaxScore,
			Percentage: cs.Percentage,
		})
	}

	summary := summaryView{
		Enabled:          true,
		Intro:            strings.TrimSpace(exec.CustomIntro),
		ShowOverall:      exec.ShowOverallScore,
		ShowBreakdown:    exec.ShowCategoryBreakdown && len(categories) > 0,
		ShowExtremes:     exec.ShowStrengthWeakness && len(described) > 0,
		Categories:       categories,
		HasCategoryScore: len(categories) > 0,
	}
	strongest, weakest := domain.Extremes(described)
	for _, cs := range described {
		if cs.Category == strongest && summary.StrengthLabel == "" {
			summary.StrengthLabel = cs.Label
			summary.StrengthInsight = cs.Insight
		}
		if cs.Category == weakest && summary.WeaknessLabel == "" {
			summary.WeaknessLabel = cs.Label
			summary.WeaknessInsight = cs.Insight
		}
	}
	return summary
}

func buildSections(submission domain.Submission, sections []domain.DetailedSection) []sectionView {
	out := make([]sectionView, 0, len(sections))
	for _, section := range sections {
		if !section.Enabled {
			continue
		}
		pct := submission.CategoryPercentage(section.Category)
		band, criteria := section.ScoringCriteria.Select(pct)
		out = append(out, sectionView{
			Title:           firstNonBlank(section.Title, section.Category.Label()),
			Description:     strings.TrimSpace(section.Description),
			Percentage:      pct,
			Band:            string(band),
			BandLabel:       strings.TrimSpace(criteria.Label),
			BandDescription: strings.TrimSpace(criteria.Description),
		})
	}
	return out
}

// safeColor は 16 進カラーのみを CSS として通す。それ以外は既定色にする。
func safeColor(value, fallback string) template.CSS {
	trimmed := strings.TrimSpace(value)
	if hexColorPattern.MatchString(trimmed) {
		return template.CSS(trimmed)
	}
	return template.CSS(fallback)
}

func formatCompleted(submission domain.Submission) string {
	completed := submission.CompletedAt
	if completed.IsZero() {
		completed = submission.CreatedAt
	}
	if completed.IsZero() {
		return NotProvided
	}
	return completed.UTC().Format("January 2, 2006")
}

func orNotProvided(value string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return NotProvided
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
