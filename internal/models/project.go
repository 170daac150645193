package models

import (
	"database/sql"
	"time"
)

type Project struct {
	ID        int64
	Title     string
	Industry  string
	Results   Results
	Timeline  string
	Budget    string
	Benefits  string
	TechStack TechStack
	Images    Images
	GithubURL sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectInput is the full set of writable project fields.
type ProjectInput struct {
	Title     string            `json:"title" validate:"required,max=200"`
	Industry  string            `json:"industry" validate:"required,max=200"`
	Results   []string          `json:"results" validate:"min=1,dive,required"`
	Timeline  string            `json:"timeline" validate:"required,max=100"`
	Budget    string            `json:"budget" validate:"required,max=100"`
	Benefits  string            `json:"benefits" validate:"required"`
	TechStack map[string]string `json:"tech_stack" validate:"dive,keys,required,endkeys,required"`
	GithubURL string            `json:"github_url" validate:"omitempty,max=500"`

	// Images already attached to the project that should be kept on update.
	Images []string
}

// ProjectDraft is a generated proposal used to pre-fill the project form.
type ProjectDraft struct {
	Title     string            `json:"title"`
	Industry  string            `json:"industry"`
	Results   []string          `json:"results"`
	Timeline  string            `json:"timeline"`
	Budget    string            `json:"budget"`
	Benefits  string            `json:"benefits"`
	TechStack map[string]string `json:"tech_stack"`
	GithubURL string            `json:"github_url,omitempty"`
}

// Apply copies the input onto p, leaving identity and timestamps untouched.
func (in ProjectInput) Apply(p *Project) {
	p.Title = in.Title
	p.Industry = in.Industry
	p.Results = Results(in.Results)
	p.Timeline = in.Timeline
	p.Budget = in.Budget
	p.Benefits = in.Benefits
	p.TechStack = TechStack(in.TechStack)
	p.GithubURL = OptionalText(in.GithubURL)
}
