package domain

const (
	DefaultPrimaryColor   = "#1e3a5f"
	DefaultSecondaryColor = "#c9a227"
)

var defaultSectionCopy = map[Category]struct {
	title       string
	description string
	bands       [3][2]string // label, description (low, medium, high)
}{
	CategoryVision: {
		title:       "Vision & Strategy",
		description: "How clearly your long-term direction is defined, documented and shared.",
		bands: [3][2]string{
			{"Unclear Direction", "Strategy lives in your head. The team reacts instead of executing a plan."},
			{"Emerging Vision", "Direction exists but is not yet translated into goals others own."},
			{"Clear Vision", "A documented vision drives goals, budgets and decisions across the business."},
		},
	},
	CategoryIndependence: {
		title:       "Owner Independence",
		description: "How well the business operates when you are not there.",
		bands: [3][2]string{
			{"Owner-Dependent", "Revenue, relationships and approvals all depend on you personally."},
			{"Partially Independent", "Routine work runs without you, but key moments still need you."},
			{"Owner-Independent", "The business performs for extended periods without your involvement."},
		},
	},
	CategoryLeadership: {
		title:       "Leadership Team",
		description: "The depth and readiness of the people who lead alongside you.",
		bands: [3][2]string{
			{"Thin Bench", "Key leadership roles are missing or filled by you."},
			{"Growing Team", "Leaders are in place but need authority and development."},
			{"Strong Bench", "An accountable leadership team owns results and grows talent."},
		},
	},
	CategoryOperations: {
		title:       "Systems & Operations",
		description: "Whether results come from repeatable systems rather than heroics.",
		bands: [3][2]string{
			{"Ad Hoc", "Processes are undocumented and results vary with who is working."},
			{"Partly Systemised", "Core processes exist but are unevenly documented or measured."},
			{"Systemised", "Documented, measured processes make performance repeatable."},
		},
	},
	CategorySuccession: {
		title:       "Succession Planning",
		description: "How prepared the business is for your eventual transition.",
		bands: [3][2]string{
			{"No Plan", "There is no written plan for leadership or ownership transition."},
			{"Plan in Progress", "Succession has been discussed but lacks candidates, dates or funding."},
			{"Plan in Place", "A funded, dated succession plan names successors and milestones."},
		},
	},
	CategoryLegacy: {
		title:       "Legacy & Impact",
		description: "How well your values and intended impact are built to outlast you.",
		bands: [3][2]string{
			{"Undefined Legacy", "The legacy you want to leave has not been articulated."},
			{"Forming Legacy", "Your intended legacy is known but not yet embedded in culture."},
			{"Lasting Legacy", "Values, culture and governance already carry your legacy forward."},
		},
	},
}

// DefaultTemplate は組み込みの既定テンプレートを毎回新しいコピーで返す。
func DefaultTemplate() ReportTemplate {
	sections := make([]DetailedSection, 0, len(CanonicalCategories))
	for _, cat := range CanonicalCategories {
		copyText := defaultSectionCopy[cat]
		sections = append(sections, DetailedSection{
			Category:    cat,
			Title:       copyText.title,
			Description: copyText.description,
			Enabled:     true,
			ScoringCriteria: ScoringCriteria{
				Low:    ScoreBand{Min: 0, Max: defaultLowMax, Label: copyText.bands[0][0], Description: copyText.bands[0][1]},
				Medium: ScoreBand{Min: defaultLowMax + 1, Max: defaultMediumMax, Label: copyText.bands[1][0], Description: copyText.bands[1][1]},
				High:   ScoreBand{Min: defaultMediumMax + 1, Max: 100, Label: copyText.bands[2][0], Description: copyText.bands[2][1]},
			},
		})
	}

	return ReportTemplate{
		Name: "Default Legacy Growth IQ Report",
		ExecutiveSummary: ExecutiveSummary{
			Enabled:               true,
			ShowOverallScore:      true,
			ShowCategoryBreakdown: true,
			ShowStrengthWeakness:  true,
			CustomIntro:           "Thank you for completing the Legacy Growth IQ assessment. This report shows how ready your business is to thrive beyond you, where you are strongest, and where focused work will create the most value.",
		},
		DetailedSections: sections,
		Recommendations: Recommendations{
			Enabled: true,
			Title:   "Your Recommended Next Steps",
			Tiers: RecommendationTiers{
				Critical:    TierByKey(TierCritical).Recommendations,
				Vulnerable:  TierByKey(TierVulnerable).Recommendations,
				Developing:  TierByKey(TierDeveloping).Recommendations,
				LegacyReady: TierByKey(TierLegacyReady).Recommendations,
			},
		},
		CallToAction: CallToAction{
			Enabled:     true,
			Title:       "Ready to Build Your Legacy?",
			Description: "Book a complimentary strategy session to walk through your results and build a personalised legacy roadmap.",
			ButtonText:  "Schedule Your Strategy Session",
			ButtonURL:   "https://legacygrowth.example.com/strategy-session",
		},
		Branding: Branding{
			LogoURL:        "",
			PrimaryColor:   DefaultPrimaryColor,
			SecondaryColor: DefaultSecondaryColor,
			CompanyName:    "Legacy Growth Partners",
			ContactEmail:   "hello@legacygrowth.example.com",
			ContactPhone:   "(555) 010-2030",
			Website:        "https://legacygrowth.example.com",
		},
		EmailSettings: EmailSettings{
			Subject:       "Your Legacy Growth IQ Report",
			FromName:      "Legacy Growth Partners",
			ReplyTo:       "hello@legacygrowth.example.com",
			IntroText:     "Thank you for taking the Legacy Growth IQ assessment. Your personalised report is below.",
			SignatureText: "To your legacy,\nThe Legacy Growth Partners Team",
		},
	}
}
