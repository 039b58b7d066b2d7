package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformAnswers(questions []Question, value int) AnswerSet {
	answers := make(AnswerSet, len(questions))
	for _, q := range questions {
		answers[q.QuestionNumber] = value
	}
	return answers
}

func TestScoreAllThrees(t *testing.T) {
	bank := DefaultQuestionBank()
	result := Score(uniformAnswers(bank, 3), bank)

	require.Len(t, result.CategoryScores, 6)
	for i, cs := range result.CategoryScores {
		assert.Equal(t, CanonicalCategories[i], cs.Category)
		assert.Equal(t, 12, cs.Score)
		assert.Equal(t, 20, cs.MaxScore)
		assert.Equal(t, 60, cs.Percentage)
		assert.Equal(t, cs.Category.Label(), cs.Label)
		assert.NotEmpty(t, cs.Insight)
	}
	assert.Equal(t, 72, result.TotalScore)
	assert.Equal(t, 120, result.MaxScore)
	assert.Equal(t, 60, result.Percentage)
	assert.Equal(t, CategoryVision, result.TopStrength)
	assert.Equal(t, CategoryVision, result.TopWeakness)
	assert.Equal(t, "Developing", Classify(result.Percentage).Level)
}

func TestScoreMissingAnswersCountAsZero(t *testing.T) {
	bank := DefaultQuestionBank()
	full := Score(uniformAnswers(bank, 3), bank)

	partial := make(AnswerSet)
	for _, q := range bank[:12] {
		partial[q.QuestionNumber] = 3
	}
	result := Score(partial, bank)

	assert.Equal(t, 120, result.MaxScore)
	assert.Equal(t, 36, result.TotalScore)
	assert.Equal(t, 30, result.Percentage)
	assert.Less(t, result.Percentage, full.Percentage)
	assert.Equal(t, CategoryVision, result.TopStrength)
	assert.Equal(t, CategoryOperations, result.TopWeakness)
}

func TestScoreEmptyAnswers(t *testing.T) {
	bank := DefaultQuestionBank()
	result := Score(AnswerSet{}, bank)

	assert.Equal(t, 0, result.TotalScore)
	assert.Equal(t, 120, result.MaxScore)
	assert.Equal(t, 0, result.Percentage)
	assert.Equal(t, "Critical", Classify(result.Percentage).Level)
}

func TestScoreOmitsCategoriesWithoutActiveQuestions(t *testing.T) {
	bank := DefaultQuestionBank()
	for i := range bank {
		if bank[i].Category == CategoryVision {
			bank[i].IsActive = false
		}
	}
	result := Score(uniformAnswers(bank, 5), bank)

	require.Len(t, result.CategoryScores, 5)
	for _, cs := range result.CategoryScores {
		assert.NotEqual(t, CategoryVision, cs.Category)
	}
	assert.Equal(t, 100, result.MaxScore)
	assert.Equal(t, 100, result.Percentage)
	assert.Equal(t, CategoryIndependence, result.TopStrength)
}

func TestScoreNoQuestions(t *testing.T) {
	result := Score(AnswerSet{1: 5}, nil)
	assert.Empty(t, result.CategoryScores)
	assert.Equal(t, 0, result.MaxScore)
	assert.Equal(t, 0, result.Percentage)
	assert.Equal(t, Category(""), result.TopStrength)
}

func TestScoreClampsOutOfRangeValues(t *testing.T) {
	bank := DefaultQuestionBank()
	answers := uniformAnswers(bank, 3)
	answers[1] = 99
	answers[2] = -7

	result := Score(answers, bank)
	for _, cs := range result.CategoryScores {
		assert.GreaterOrEqual(t, cs.Score, 0)
		assert.LessOrEqual(t, cs.Score, cs.MaxScore)
		assert.GreaterOrEqual(t, cs.Percentage, 0)
		assert.LessOrEqual(t, cs.Percentage, 100)
	}
	// vision: 5 + 0 + 3 + 3
	assert.Equal(t, 11, result.CategoryScores[0].Score)
}

func TestScoreStrengthAndWeakness(t *testing.T) {
	bank := DefaultQuestionBank()
	answers := uniformAnswers(bank, 3)
	for _, q := range bank {
		switch q.Category {
		case CategoryLeadership, CategoryLegacy:
			answers[q.QuestionNumber] = 5
		case CategoryOperations, CategorySuccession:
			answers[q.QuestionNumber] = 1
		}
	}

	result := Score(answers, bank)
	assert.Equal(t, CategoryLeadership, result.TopStrength)
	assert.Equal(t, CategoryOperations, result.TopWeakness)
}

func TestScoreIsDeterministic(t *testing.T) {
	bank := DefaultQuestionBank()
	answers := AnswerSet{}
	for i, q := range bank {
		answers[q.QuestionNumber] = (i % 5) + 1
	}

	first := Score(answers, bank)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, Score(answers, bank))
	}
}

func TestScoreRangeInvariant(t *testing.T) {
	bank := DefaultQuestionBank()
	for value := 0; value <= MaxScaleValue; value++ {
		result := Score(uniformAnswers(bank, value), bank)
		assert.GreaterOrEqual(t, result.Percentage, 0)
		assert.LessOrEqual(t, result.Percentage, 100)
		for _, cs := range result.CategoryScores {
			assert.GreaterOrEqual(t, cs.Percentage, 0)
			assert.LessOrEqual(t, cs.Percentage, 100)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		score, max, want int
	}{
		{0, 20, 0},
		{13, 20, 65},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13},
		{20, 20, 100},
		{30, 20, 100},
		{5, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.score, tt.max), "Percent(%d,%d)", tt.score, tt.max)
	}
}

func TestActiveQuestionsSortedByOrder(t *testing.T) {
	questions := []Question{
		{QuestionNumber: 3, Order: 2, IsActive: true},
		{QuestionNumber: 1, Order: 5, IsActive: true},
		{QuestionNumber: 2, Order: 1, IsActive: false},
		{QuestionNumber: 4, Order: 2, IsActive: true},
	}
	active := ActiveQuestions(questions)
	require.Len(t, active, 3)
	assert.Equal(t, []int{3, 4, 1}, []int{active[0].QuestionNumber, active[1].QuestionNumber, active[2].QuestionNumber})
}
