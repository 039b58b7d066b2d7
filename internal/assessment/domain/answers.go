package domain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	// MinScaleValue is the lowest answer a respondent can pick.
	MinScaleValue = 1
	// MaxScaleValue is the highest answer a respondent can pick.
	MaxScaleValue = 5
)

// AnswerSet は questionNumber → 回答値 のスナップショット。
type AnswerSet map[int]int

// Record は 1 問分の回答を記録する。尺度外の値は拒否する。
func (a AnswerSet) Record(q Question, value int) error {
	if value < MinScaleValue || value > MaxScaleValue {
		return fmt.Errorf("answer for question %d must be between %d and %d", q.QuestionNumber, MinScaleValue, MaxScaleValue)
	}
	a[q.QuestionNumber] = value
	return nil
}

// Clone はスナップショット用のコピーを返す。
func (a AnswerSet) Clone() AnswerSet {
	out := make(AnswerSet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// CollectAnswers はワイヤ形式の回答 ({"1": 3, ...}) を AnswerSet に変換する。
// 不正なキーや未知の設問、尺度外の値は取り除き skipped に載せる（エラーにはしない）。
func CollectAnswers(raw map[string]int, questions []Question) (AnswerSet, []string) {
	byNumber := make(map[int]Question, len(questions))
	for _, q := range ActiveQuestions(questions) {
		byNumber[q.QuestionNumber] = q
	}

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	answers := make(AnswerSet, len(raw))
	skipped := make([]string, 0)
	for _, key := range keys {
		number, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			skipped = append(skipped, key)
			continue
		}
		q, ok := byNumber[number]
		if !ok {
			skipped = append(skipped, key)
			continue
		}
		if err := answers.Record(q, raw[key]); err != nil {
			skipped = append(skipped, key)
		}
	}
	return answers, skipped
}

// ToWire は永続化や JSON 出力のため文字列キーへ変換する。
func (a AnswerSet) ToWire() map[string]int {
	out := make(map[string]int, len(a))
	for k, v := range a {
		out[strconv.Itoa(k)] = v
	}
	return out
}

// AnswerSetFromWire は ToWire の逆変換。数値化できないキーは無視する。
func AnswerSetFromWire(raw map[string]int) AnswerSet {
	out := make(AnswerSet, len(raw))
	for k, v := range raw {
		number, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		out[number] = v
	}
	return out
}
