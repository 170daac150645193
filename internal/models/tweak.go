package models

import (
	"database/sql"
	"strings"
	"time"
)

type Tweak struct {
	ID          int64
	Title       string
	Description string
	Category    TweakCategory
	ProjectName sql.NullString
	TimeSpent   sql.NullString
	GithubURL   sql.NullString
	CreatedAt   time.Time
}

type TweakInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required"`
	Category    string `json:"category" validate:"required,max=50,tweak_category"`
	ProjectName string `json:"project_name" validate:"max=200"`
	TimeSpent   string `json:"time_spent" validate:"max=100"`
	GithubURL   string `json:"github_url" validate:"max=500"`
}

// TweakDraft is a generated proposal used to pre-fill the tweak form.
type TweakDraft struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    TweakCategory `json:"category"`
	ProjectName string        `json:"project_name"`
	TimeSpent   string        `json:"time_spent"`
}

func (in TweakInput) Apply(t *Tweak) {
	t.Title = in.Title
	t.Description = in.Description
	t.Category = TweakCategory(in.Category)
	t.ProjectName = OptionalText(in.ProjectName)
	t.TimeSpent = OptionalText(in.TimeSpent)
	t.GithubURL = OptionalText(in.GithubURL)
}

// OptionalText maps blank or whitespace-only text to NULL.
func OptionalText(raw string) sql.NullString {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: trimmed, Valid: true}
}

// NullText is the inverse of OptionalText for rendering.
func NullText(v sql.NullString) string {
	if !v.Valid {
		return ""
	}
	return v.String
}
