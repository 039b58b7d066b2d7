package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyIsTotal(t *testing.T) {
	for p := 0; p <= 100; p++ {
		matches := 0
		for _, tier := range Tiers() {
			if p >= tier.Min && p <= tier.Max {
				matches++
			}
		}
		require.Equal(t, 1, matches, "percentage %d must fall in exactly one tier", p)

		tier := Classify(p)
		assert.NotEmpty(t, tier.Level, "percentage %d", p)
		assert.NotEmpty(t, tier.Recommendations, "percentage %d", p)
		assert.True(t, p >= tier.Min && p <= tier.Max, "percentage %d classified as %s", p, tier.Level)
	}
}

func TestClassifyBoundaries(t *testing.T) {
	tests := []struct {
		percentage int
		level      string
		urgency    Urgency
	}{
		{0, "Critical", UrgencyCritical},
		{39, "Critical", UrgencyCritical},
		{40, "Vulnerable", UrgencyHigh},
		{59, "Vulnerable", UrgencyHigh},
		{60, "Developing", UrgencyModerate},
		{79, "Developing", UrgencyModerate},
		{80, "Legacy-Ready", UrgencyLow},
		{100, "Legacy-Ready", UrgencyLow},
		{-5, "Critical", UrgencyCritical},
		{140, "Legacy-Ready", UrgencyLow},
	}
	for _, tt := range tests {
		tier := Classify(tt.percentage)
		assert.Equal(t, tt.level, tier.Level, "percentage %d", tt.percentage)
		assert.Equal(t, tt.urgency, tier.Urgency, "percentage %d", tt.percentage)
	}
}

func TestTiersHaveFiveRecommendations(t *testing.T) {
	for _, tier := range Tiers() {
		assert.Len(t, tier.Recommendations, 5, tier.Level)
	}
}

func TestClassifyReturnsCopies(t *testing.T) {
	tier := Classify(10)
	tier.Recommendations[0] = "mutated"
	assert.NotEqual(t, "mutated", Classify(10).Recommendations[0])
}

func TestNormalizeTierKey(t *testing.T) {
	tests := map[string]TierKey{
		"Legacy-Ready":  TierLegacyReady,
		"legacy-ready":  TierLegacyReady,
		"legacy_ready":  TierLegacyReady,
		"LEGACY READY":  TierLegacyReady,
		"legacyReady":   TierLegacyReady,
		"Critical":      TierCritical,
		" vulnerable ":  TierVulnerable,
		"Developing":    TierDeveloping,
		"":              TierDeveloping,
		"something-new": TierDeveloping,
	}
	for input, want := range tests {
		assert.Equal(t, want, NormalizeTierKey(input), "input %q", input)
	}
}
