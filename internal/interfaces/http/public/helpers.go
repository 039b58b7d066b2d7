package public

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sngm3741/growth-iq/api/internal/assessment/application"
	"github.com/sngm3741/growth-iq/api/internal/assessment/domain"
	"github.com/sngm3741/growth-iq/api/internal/interfaces/http/common"
)

// decodeAnswers は回答値を整数に揃える。数値・整数文字列以外のものはスキップ扱いにする。
func decodeAnswers(raw map[string]json.RawMessage) (map[string]int, []string) {
	answers := make(map[string]int, len(raw))
	var skipped []string
	for key, value := range raw {
		if n, ok := answerValue(value); ok {
			answers[key] = n
			continue
		}
		skipped = append(skipped, key)
	}
	sort.Strings(skipped)
	return answers, skipped
}

func answerValue(raw json.RawMessage) (int, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if f != math.Trunc(f) {
			return 0, false
		}
		return int(f), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

func mergeSkipped(a, b []string) []string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(a)+len(b))
	merged := make([]string, 0, len(a)+len(b))
	for _, key := range append(append([]string{}, a...), b...) {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		merged = append(merged, key)
	}
	sort.Strings(merged)
	return merged
}

func questionToResponse(q domain.Question) questionResponse {
	return questionResponse{
		ID:             q.ID,
		QuestionNumber: q.QuestionNumber,
		Text:           q.Text,
		Category:       q.Category.String(),
		CategoryLabel:  q.Category.Label(),
		Order:          q.Order,
	}
}

func tierToResponse(t domain.Tier) tierResponse {
	return tierResponse{
		Key:             string(t.Key),
		Level:           t.Level,
		Title:           t.Title,
		Summary:         t.Summary,
		Description:     t.Description,
		Urgency:         string(t.Urgency),
		Recommendations: t.Recommendations,
	}
}

func resultViewToResponse(view application.ResultView) resultResponse {
	s := view.Submission
	return resultResponse{
		SubmissionID:   s.ID,
		TotalScore:     s.TotalScore,
		MaxScore:       s.MaxScore,
		Percentage:     s.Percentage,
		ScoreLevel:     s.ScoreLevel,
		Tier:           tierToResponse(view.Tier),
		CategoryScores: common.NewCategoryScoreResponses(view.CategoryScores),
		TopStrength:    view.TopStrength.String(),
		TopWeakness:    view.TopWeakness.String(),
	}
}

// submitResultToView は採点直後の結果を結果画面と同じ形へ揃える。
func submitResultToView(result *application.SubmitResult) application.ResultView {
	scores := make([]domain.CategoryScore, 0, len(result.Score.CategoryScores))
	for _, cs := range result.Score.CategoryScores {
		scores = append(scores, domain.DescribeCategoryScore(cs))
	}
	return application.ResultView{
		Submission:     *result.Submission,
		Tier:           result.Tier,
		CategoryScores: scores,
		TopStrength:    result.Score.TopStrength,
		TopWeakness:    result.Score.TopWeakness,
	}
}
