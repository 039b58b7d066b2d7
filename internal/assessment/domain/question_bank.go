package domain

var defaultQuestionTexts = map[Category][4]string{
	CategoryVision: {
		"I have a written three-to-five year vision for the business.",
		"My leadership team could explain our strategy without me in the room.",
		"Annual goals and budgets are derived from our long-term vision.",
		"I review progress against our strategic plan at least quarterly.",
	},
	CategoryIndependence: {
		"The business could run for a month without me and keep its results.",
		"Key customer relationships are held by people other than me.",
		"Day-to-day decisions are made without needing my approval.",
		"I spend most of my time working on the business rather than in it.",
	},
	CategoryLeadership: {
		"Every key function has a capable leader other than me.",
		"Leaders are accountable to clear, measurable outcomes.",
		"We actively develop the next generation of leaders.",
		"My team would stay and perform through a leadership transition.",
	},
	CategoryOperations: {
		"Our core processes are documented and followed consistently.",
		"We track key performance indicators on a regular cadence.",
		"New employees can become productive using our systems and training.",
		"Financial reporting is timely, accurate and reviewed monthly.",
	},
	CategorySuccession: {
		"I have a written succession plan for leadership and ownership.",
		"Potential successors have been identified and are being prepared.",
		"The financial side of my transition is planned and funded.",
		"My family and key stakeholders understand the succession plan.",
	},
	CategoryLegacy: {
		"I have defined the legacy I want the business to leave.",
		"Our values are written down and guide everyday decisions.",
		"Governance structures will protect our values after I step back.",
		"The business contributes to causes and communities I care about.",
	},
}

// DefaultQuestionBank は 6 カテゴリ × 4 問の初期設問を返す。シードとテストで使う。
func DefaultQuestionBank() []Question {
	questions := make([]Question, 0, len(CanonicalCategories)*4)
	number := 1
	for _, cat := range CanonicalCategories {
		for _, text := range defaultQuestionTexts[cat] {
			questions = append(questions, Question{
				QuestionNumber: number,
				Text:           text,
				Category:       cat,
				IsActive:       true,
				Order:          number,
			})
			number++
		}
	}
	return questions
}
