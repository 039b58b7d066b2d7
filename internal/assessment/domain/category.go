package domain

import (
	"fmt"
	"strings"
)

// Category はアセスメント設問の評価軸。並び順は CanonicalCategories が正。
type Category string

const (
	CategoryVision       Category = "vision"
	CategoryIndependence Category = "independence"
	CategoryLeadership   Category = "leadership"
	CategoryOperations   Category = "operations"
	CategorySuccession   Category = "succession"
	CategoryLegacy       Category = "legacy"
)

// CanonicalCategories はスコア出力・レポート・同点時の判定で使う正規順。
var CanonicalCategories = []Category{
	CategoryVision,
	CategoryIndependence,
	CategoryLeadership,
	CategoryOperations,
	CategorySuccession,
	CategoryLegacy,
}

type categoryCopy struct {
	label    string
	insights [3]string // low, medium, high
}

var categoryCatalog = map[Category]categoryCopy{
	CategoryVision: {
		label: "Vision & Strategy",
		insights: [3]string{
			"Your long-term direction lives mostly in your head. Writing it down is the first unlock.",
			"A direction exists, but the team cannot yet repeat it back or plan against it.",
			"Your vision is clear, documented and guiding day-to-day decisions.",
		},
	},
	CategoryIndependence: {
		label: "Owner Independence",
		insights: [3]string{
			"The business stops when you stop. Every key decision still routes through you.",
			"Some work runs without you, but critical relationships and approvals do not.",
			"The business runs for weeks without you. That independence is real enterprise value.",
		},
	},
	CategoryLeadership: {
		label: "Leadership Team",
		insights: [3]string{
			"There is no leadership bench yet. Key roles are either vacant or owner-filled.",
			"Leaders are in place but still need authority, accountability and coaching.",
			"A capable leadership team owns outcomes and develops its own people.",
		},
	},
	CategoryOperations: {
		label: "Systems & Operations",
		insights: [3]string{
			"Processes are tribal knowledge. Results depend on who shows up that day.",
			"Core processes exist but are inconsistently documented or followed.",
			"Documented, measured systems make results repeatable and transferable.",
		},
	},
	CategorySuccession: {
		label: "Succession Planning",
		insights: [3]string{
			"No succession plan exists. An unplanned exit would put the business at risk.",
			"Succession has been discussed but lacks timelines, candidates or funding.",
			"A written, funded succession plan with named successors is in place.",
		},
	},
	CategoryLegacy: {
		label: "Legacy & Impact",
		insights: [3]string{
			"What the business should stand for after you has not been defined.",
			"You know the legacy you want, but it is not yet built into culture or governance.",
			"Values, culture and governance already carry your legacy beyond you.",
		},
	},
}

// NewCategory は入力文字列を既知のカテゴリへ正規化する。
func NewCategory(value string) (Category, error) {
	normalized := Category(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", fmt.Errorf("category is required")
	}
	if _, ok := categoryCatalog[normalized]; !ok {
		return "", fmt.Errorf("invalid category: %s", value)
	}
	return normalized, nil
}

// IsKnown は固定カテゴリに含まれるか判定する。
func (c Category) IsKnown() bool {
	_, ok := categoryCatalog[c]
	return ok
}

// Label は表示用のカテゴリ名を返す。未知のカテゴリはキーをそのまま返す。
func (c Category) Label() string {
	if entry, ok := categoryCatalog[c]; ok {
		return entry.label
	}
	return string(c)
}

// Insight はパーセンテージ帯に応じた短い所見を返す。
func (c Category) Insight(percentage int) string {
	entry, ok := categoryCatalog[c]
	if !ok {
		return ""
	}
	switch BandFor(percentage) {
	case BandLow:
		return entry.insights[0]
	case BandMedium:
		return entry.insights[1]
	default:
		return entry.insights[2]
	}
}

func (c Category) String() string {
	return string(c)
}

func canonicalIndex(c Category) int {
	for i, known := range CanonicalCategories {
		if known == c {
			return i
		}
	}
	return len(CanonicalCategories)
}
