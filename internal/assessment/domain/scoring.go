package domain

import "math"

// CategoryScore はカテゴリ単位の集計結果。
type CategoryScore struct {
	Category   Category
	Score      int
	MaxScore   int
	Percentage int
	Label      string
	Insight    string
}

// ScoreResult は Score の出力。TopStrength / TopWeakness は CategoryScores が空のとき空文字。
type ScoreResult struct {
	TotalScore     int
	MaxScore       int
	Percentage     int
	CategoryScores []CategoryScore
	TopStrength    Category
	TopWeakness    Category
}

// Score は回答と設問バンクから総合点・カテゴリ別スコアを算出する純粋関数。
// 未回答は 0 点、尺度外の値は [0, MaxScaleValue] に丸める。
func Score(answers AnswerSet, questions []Question) ScoreResult {
	active := ActiveQuestions(questions)

	type bucket struct {
		score int
		count int
	}
	buckets := make(map[Category]*bucket)
	order := make([]Category, 0, len(CanonicalCategories))
	for _, q := range active {
		b, ok := buckets[q.Category]
		if !ok {
			b = &bucket{}
			buckets[q.Category] = b
			order = append(order, q.Category)
		}
		b.score += clampAnswer(answers[q.QuestionNumber])
		b.count++
	}

	result := ScoreResult{CategoryScores: make([]CategoryScore, 0, len(buckets))}
	for _, cat := range orderCategories(order) {
		b := buckets[cat]
		maxScore := b.count * MaxScaleValue
		if maxScore == 0 {
			continue
		}
		pct := Percent(b.score, maxScore)
		result.CategoryScores = append(result.CategoryScores, CategoryScore{
			Category:   cat,
			Score:      b.score,
			MaxScore:   maxScore,
			Percentage: pct,
			Label:      cat.Label(),
			Insight:    cat.Insight(pct),
		})
		result.TotalScore += b.score
		result.MaxScore += maxScore
	}

	result.Percentage = Percent(result.TotalScore, result.MaxScore)
	result.TopStrength, result.TopWeakness = Extremes(result.CategoryScores)
	return result
}

// Extremes は最高・最低パーセンテージのカテゴリを返す。同点は先に現れた方を採る。
func Extremes(scores []CategoryScore) (strongest, weakest Category) {
	if len(scores) == 0 {
		return "", ""
	}
	best, worst := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s.Percentage > best.Percentage {
			best = s
		}
		if s.Percentage < worst.Percentage {
			worst = s
		}
	}
	return best.Category, worst.Category
}

// Percent は round(score/max*100) を [0,100] に収めて返す。max <= 0 は 0。
func Percent(score, max int) int {
	if max <= 0 {
		return 0
	}
	pct := int(math.Round(float64(score) / float64(max) * 100))
	return clampPercentage(pct)
}

func clampAnswer(v int) int {
	if v < 0 {
		return 0
	}
	if v > MaxScaleValue {
		return MaxScaleValue
	}
	return v
}

func clampPercentage(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// orderCategories は既知カテゴリを正規順に、未知カテゴリを出現順で後ろに並べる。
func orderCategories(seen []Category) []Category {
	present := make(map[Category]bool, len(seen))
	for _, c := range seen {
		present[c] = true
	}
	out := make([]Category, 0, len(seen))
	for _, c := range CanonicalCategories {
		if present[c] {
			out = append(out, c)
		}
	}
	for _, c := range seen {
		if canonicalIndex(c) == len(CanonicalCategories) {
			out = append(out, c)
		}
	}
	return out
}
