package domain

import (
	"sort"
	"strings"
	"time"
)

// Question はアセスメントの設問 1 件。回答は QuestionNumber で参照されるため、
// 設問の編集や無効化があっても過去の提出は有効なまま残る。
type Question struct {
	ID             string
	QuestionNumber int
	Text           string
	Category       Category
	IsActive       bool
	Order          int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewQuestion は管理画面からの入力を検証して Question を組み立てる。
func NewQuestion(number int, text, category string, order int, active bool) (Question, error) {
	if number < 1 {
		return Question{}, NewValidationError("questionNumber", "questionNumber must be >= 1")
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Question{}, NewValidationError("text", "question text is required")
	}
	cat, err := NewCategory(category)
	if err != nil {
		return Question{}, NewValidationError("category", err.Error())
	}
	return Question{
		QuestionNumber: number,
		Text:           trimmed,
		Category:       cat,
		IsActive:       active,
		Order:          order,
	}, nil
}

// ActiveQuestions は有効な設問だけを Order 昇順（同値は QuestionNumber 昇順）で返す。
func ActiveQuestions(questions []Question) []Question {
	active := make([]Question, 0, len(questions))
	for _, q := range questions {
		if q.IsActive {
			active = append(active, q)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].Order == active[j].Order {
			return active[i].QuestionNumber < active[j].QuestionNumber
		}
		return active[i].Order < active[j].Order
	})
	return active
}
