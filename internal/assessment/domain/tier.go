package domain

import "strings"

// Urgency はティアごとの対応緊急度。
type Urgency string

const (
	UrgencyLow      Urgency = "low"
	UrgencyModerate Urgency = "moderate"
	UrgencyHigh     Urgency = "high"
	UrgencyCritical Urgency = "critical"
)

// TierKey はテンプレート側で使うティアのキー（critical / vulnerable / developing / legacyReady）。
type TierKey string

const (
	TierCritical    TierKey = "critical"
	TierVulnerable  TierKey = "vulnerable"
	TierDeveloping  TierKey = "developing"
	TierLegacyReady TierKey = "legacyReady"
)

// Tier は総合パーセンテージから導かれる診断結果。
type Tier struct {
	Key             TierKey
	Level           string
	Title           string
	Summary         string
	Description     string
	Urgency         Urgency
	Min             int
	Max             int
	Recommendations []string
}

// tiers は低い帯から順に並べる。Min/Max は [0,100] を隙間なく覆うこと。
var tiers = []Tier{
	{
		Key:         TierCritical,
		Level:       "Critical",
		Title:       "Critical: The Business Depends Entirely on You",
		Summary:     "Your business is at serious risk if anything happens to you.",
		Description: "Most of the value in your company is tied to you personally. Without immediate work on independence, leadership and succession, an unplanned exit could erase much of what you have built.",
		Urgency:     UrgencyCritical,
		Min:         0,
		Max:         39,
		Recommendations: []string{
			"Document the ten decisions only you make today and delegate the first three within 30 days.",
			"Put an emergency continuity plan in writing: who signs, who leads, who calls key clients.",
			"Identify one person who could become your second-in-command and start weekly coaching.",
			"Review key-person insurance and buy-sell agreements with your advisor.",
			"Schedule a strategy session to build a 12-month legacy roadmap.",
		},
	},
	{
		Key:         TierVulnerable,
		Level:       "Vulnerable",
		Title:       "Vulnerable: Foundations Exist but Gaps Are Costly",
		Summary:     "Parts of the business can stand on their own, but key gaps remain.",
		Description: "You have started building a business that can run without you, yet critical areas still depend on your presence. Closing those gaps now protects both value and family wealth.",
		Urgency:     UrgencyHigh,
		Min:         40,
		Max:         59,
		Recommendations: []string{
			"Pick your weakest category and set one measurable 90-day improvement goal.",
			"Write down the three core processes that generate most of your revenue.",
			"Give your leadership team ownership of a budget and a scorecard.",
			"Start a written succession outline with candidate successors and a timeline.",
			"Book a quarterly review with an advisor to track progress.",
		},
	},
	{
		Key:         TierDeveloping,
		Level:       "Developing",
		Title:       "Developing: Building Real Transferable Value",
		Summary:     "Your business is on its way to running without you.",
		Description: "Much of the groundwork is in place. Focused effort on the remaining weak spots will turn a good business into a transferable, legacy-ready one.",
		Urgency:     UrgencyModerate,
		Min:         60,
		Max:         79,
		Recommendations: []string{
			"Turn your documented vision into annual goals owned by named leaders.",
			"Test your independence: take a two-week break and measure what stalls.",
			"Formalise leadership development with individual growth plans.",
			"Fund and date your succession plan, then share it with key stakeholders.",
			"Define the values and governance that should outlast your tenure.",
		},
	},
	{
		Key:         TierLegacyReady,
		Level:       "Legacy-Ready",
		Title:       "Legacy-Ready: A Business Built to Last",
		Summary:     "Your business can thrive beyond you.",
		Description: "You have built strong systems, leadership and plans. The next step is to protect and grow that position while preparing for your chosen transition.",
		Urgency:     UrgencyLow,
		Min:         80,
		Max:         100,
		Recommendations: []string{
			"Stress-test your succession plan annually against real scenarios.",
			"Mentor your successor on strategic relationships and board-level decisions.",
			"Review valuation drivers and tax strategy ahead of any transition.",
			"Capture your story and values in a written legacy charter.",
			"Explore philanthropic or family-governance structures that extend your impact.",
		},
	},
}

// Classify はパーセンテージをティアへ写像する。範囲外は [0,100] に丸めてから判定する全域関数。
func Classify(percentage int) Tier {
	p := clampPercentage(percentage)
	for _, t := range tiers {
		if p >= t.Min && p <= t.Max {
			return t.clone()
		}
	}
	// tiers が [0,100] を覆う限り到達しない
	return TierByKey(TierDeveloping)
}

// Tiers は全ティアを低い帯から順に返す。
func Tiers() []Tier {
	out := make([]Tier, 0, len(tiers))
	for _, t := range tiers {
		out = append(out, t.clone())
	}
	return out
}

// TierByKey はキーに対応するティアを返す。未知のキーは developing。
func TierByKey(key TierKey) Tier {
	for _, t := range tiers {
		if t.Key == key {
			return t.clone()
		}
	}
	for _, t := range tiers {
		if t.Key == TierDeveloping {
			return t.clone()
		}
	}
	return Tier{}
}

// TierForLevel は保存済みの scoreLevel 文字列からティアを引く。
func TierForLevel(level string) Tier {
	return TierByKey(NormalizeTierKey(level))
}

// NormalizeTierKey は "Legacy-Ready" / "legacy_ready" / "LEGACY READY" などの表記揺れを
// テンプレートのキー（legacyReady など）へ揃える。未知の値は developing。
func NormalizeTierKey(level string) TierKey {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', ' ', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(level)))

	switch compact {
	case "critical":
		return TierCritical
	case "vulnerable":
		return TierVulnerable
	case "developing":
		return TierDeveloping
	case "legacyready":
		return TierLegacyReady
	}
	return TierDeveloping
}

func (t Tier) clone() Tier {
	t.Recommendations = append([]string(nil), t.Recommendations...)
	return t
}
