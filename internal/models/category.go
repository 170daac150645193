package models

import "strings"

type TweakCategory string

const (
	CategoryBugFix       TweakCategory = "bug_fix"
	CategoryUI           TweakCategory = "ui"
	CategoryOptimization TweakCategory = "optimization"
	CategoryFeature      TweakCategory = "feature"
	CategoryRefactoring  TweakCategory = "refactoring"
	CategoryOther        TweakCategory = "other"
)

// TweakCategories lists the closed category set in display order.
var TweakCategories = []TweakCategory{
	CategoryBugFix,
	CategoryUI,
	CategoryOptimization,
	CategoryFeature,
	CategoryRefactoring,
	CategoryOther,
}

var categoryLabels = map[TweakCategory]string{
	CategoryBugFix:       "Bug fix",
	CategoryUI:           "UI improvement",
	CategoryOptimization: "Optimization",
	CategoryFeature:      "New feature",
	CategoryRefactoring:  "Refactoring",
	CategoryOther:        "Other",
}

func (c TweakCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the human label, or the raw value when the category is unknown.
func (c TweakCategory) Label() (string, bool) {
	if label, ok := categoryLabels[c]; ok {
		return label, true
	}
	return string(c), false
}

// TweakCategoryOrOther normalizes free text to a known category.
func TweakCategoryOrOther(raw string) TweakCategory {
	c := TweakCategory(strings.ToLower(strings.TrimSpace(raw)))
	if c.Valid() {
		return c
	}
	return CategoryOther
}

type techIcon struct {
	keys []string
	icon string
}

// Order matters for substring matches.
var techIcons = []techIcon{
	{keys: []string{"frontend"}, icon: "frontend"},
	{keys: []string{"backend"}, icon: "backend"},
	{keys: []string{"database", "база данных"}, icon: "database"},
	{keys: []string{"mobile", "мобильный"}, icon: "mobile"},
	{keys: []string{"devops"}, icon: "devops"},
	{keys: []string{"design", "дизайн"}, icon: "design"},
	{keys: []string{"testing", "тестирование"}, icon: "testing"},
	{keys: []string{"cloud", "облако"}, icon: "cloud"},
	{keys: []string{"api"}, icon: "api"},
}

// TechIcon returns the static path of the icon for a tech stack category,
// or "" when none matches.
func TechIcon(category string) string {
	name := strings.ToLower(strings.TrimSpace(category))
	if name == "" {
		return ""
	}
	for _, ti := range techIcons {
		for _, k := range ti.keys {
			if name == k {
				return "icons/" + ti.icon + ".svg"
			}
		}
	}
	for _, ti := range techIcons {
		for _, k := range ti.keys {
			if strings.Contains(name, k) {
				return "icons/" + ti.icon + ".svg"
			}
		}
	}
	return ""
}
