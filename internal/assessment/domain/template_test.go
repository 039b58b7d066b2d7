package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTemplateShape(t *testing.T) {
	tmpl := DefaultTemplate()

	require.NoError(t, tmpl.Validate())
	require.Len(t, tmpl.DetailedSections, 6)
	for i, section := range tmpl.DetailedSections {
		assert.Equal(t, CanonicalCategories[i], section.Category)
		assert.True(t, section.Enabled)
		assert.Equal(t, ScoreBand{Min: 0, Max: 39, Label: section.ScoringCriteria.Low.Label, Description: section.ScoringCriteria.Low.Description}, section.ScoringCriteria.Low)
		assert.Equal(t, 40, section.ScoringCriteria.Medium.Min)
		assert.Equal(t, 69, section.ScoringCriteria.Medium.Max)
		assert.Equal(t, 70, section.ScoringCriteria.High.Min)
		assert.Equal(t, 100, section.ScoringCriteria.High.Max)
	}
	for _, key := range []TierKey{TierCritical, TierVulnerable, TierDeveloping, TierLegacyReady} {
		assert.Len(t, tmpl.Recommendations.Tiers.For(key), 5, string(key))
	}
	assert.NotEmpty(t, tmpl.CallToAction.Title)
	assert.NotEmpty(t, tmpl.CallToAction.ButtonText)
	assert.Regexp(t, `^#[0-9a-fA-F]{6}$`, tmpl.Branding.PrimaryColor)
	assert.Regexp(t, `^#[0-9a-fA-F]{6}$`, tmpl.Branding.SecondaryColor)
	assert.NotEmpty(t, tmpl.Branding.ContactEmail)
	assert.NotEmpty(t, tmpl.Branding.ContactPhone)
}

func TestDefaultTemplateIsFreshCopy(t *testing.T) {
	first := DefaultTemplate()
	first.DetailedSections[0].Title = "changed"
	first.Recommendations.Tiers.Critical[0] = "changed"

	second := DefaultTemplate()
	assert.NotEqual(t, "changed", second.DetailedSections[0].Title)
	assert.NotEqual(t, "changed", second.Recommendations.Tiers.Critical[0])
}

func TestValidateRejectsBandGaps(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *ScoringCriteria)
		band    string
		wantMsg string
	}{
		{
			name:    "gap at 40",
			mutate:  func(c *ScoringCriteria) { c.Medium.Min = 41 },
			band:    "medium",
			wantMsg: `detailed section "vision": band "medium" must start at 40 (got 41)`,
		},
		{
			name:   "overlap",
			mutate: func(c *ScoringCriteria) { c.High.Min = 60 },
			band:   "high",
		},
		{
			name:   "low does not start at zero",
			mutate: func(c *ScoringCriteria) { c.Low.Min = 1 },
			band:   "low",
		},
		{
			name:   "high does not reach 100",
			mutate: func(c *ScoringCriteria) { c.High.Max = 99 },
			band:   "high",
		},
		{
			name:   "inverted band",
			mutate: func(c *ScoringCriteria) { c.Medium.Min, c.Medium.Max = 69, 40 },
			band:   "medium",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpl := DefaultTemplate()
			tt.mutate(&tmpl.DetailedSections[0].ScoringCriteria)

			err := tmpl.Validate()
			require.Error(t, err)
			var verr *TemplateValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "vision", verr.Section)
			assert.Equal(t, tt.band, verr.Band)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}
}

func TestValidateRejectsUnknownAndDuplicateSections(t *testing.T) {
	tmpl := DefaultTemplate()
	tmpl.DetailedSections[1].Category = "marketing"
	err := tmpl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marketing")

	tmpl = DefaultTemplate()
	tmpl.DetailedSections[1].Category = CategoryVision
	err = tmpl.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestScoringCriteriaSelect(t *testing.T) {
	criteria := DefaultTemplate().DetailedSections[0].ScoringCriteria
	tests := []struct {
		percentage int
		want       Band
	}{
		{0, BandLow}, {39, BandLow}, {40, BandMedium}, {69, BandMedium}, {70, BandHigh}, {100, BandHigh},
	}
	for _, tt := range tests {
		band, _ := criteria.Select(tt.percentage)
		assert.Equal(t, tt.want, band, "percentage %d", tt.percentage)
	}
}

func TestMergeOverDefault(t *testing.T) {
	cta := CallToAction{Enabled: false, Title: "Custom"}
	merged := MergeOverDefault(TemplateOverrides{
		ID:           "abc",
		Name:         "Spring campaign",
		IsActive:     true,
		CallToAction: &cta,
	})

	def := DefaultTemplate()
	assert.Equal(t, "abc", merged.ID)
	assert.Equal(t, "Spring campaign", merged.Name)
	assert.True(t, merged.IsActive)
	assert.Equal(t, cta, merged.CallToAction)
	assert.Equal(t, def.DetailedSections, merged.DetailedSections)
	assert.Equal(t, def.Branding, merged.Branding)
	assert.Equal(t, def.Recommendations, merged.Recommendations)
	assert.Equal(t, def.EmailSettings, merged.EmailSettings)
}

func TestOverridesRoundTrip(t *testing.T) {
	tmpl := DefaultTemplate()
	tmpl.ID = "x"
	tmpl.Branding.CompanyName = "Acme"
	assert.Equal(t, tmpl, MergeOverDefault(tmpl.Overrides()))
}

func TestRecommendationsFor(t *testing.T) {
	tmpl := DefaultTemplate()
	assert.Equal(t, tmpl.Recommendations.Tiers.LegacyReady, tmpl.RecommendationsFor("Legacy-Ready"))
	assert.Equal(t, tmpl.Recommendations.Tiers.Critical, tmpl.RecommendationsFor("critical"))

	tmpl.Recommendations.Tiers.Vulnerable = nil
	assert.Equal(t, tmpl.Recommendations.Tiers.Developing, tmpl.RecommendationsFor("Vulnerable"))

	tmpl.Recommendations.Tiers = RecommendationTiers{}
	assert.Equal(t, TierByKey(TierCritical).Recommendations, tmpl.RecommendationsFor("Critical"))
}
