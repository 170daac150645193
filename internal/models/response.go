package models

import "time"

type ProjectResponse struct {
	ID        int64             `json:"id"`
	Title     string            `json:"title"`
	Industry  string            `json:"industry"`
	Results   []string          `json:"results"`
	Timeline  string            `json:"timeline"`
	Budget    string            `json:"budget"`
	Benefits  string            `json:"benefits"`
	TechStack map[string]string `json:"tech_stack"`
	Images    []string          `json:"images"`
	GithubURL *string           `json:"github_url"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

type TweakResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	ProjectName *string   `json:"project_name"`
	TimeSpent   *string   `json:"time_spent"`
	GithubURL   *string   `json:"github_url"`
	CreatedAt   time.Time `json:"created_at"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

func NewProjectResponse(p Project) ProjectResponse {
	results := []string(p.Results)
	if results == nil {
		results = []string{}
	}
	techStack := map[string]string(p.TechStack)
	if techStack == nil {
		techStack = map[string]string{}
	}
	images := []string(p.Images)
	if images == nil {
		images = []string{}
	}
	return ProjectResponse{
		ID:        p.ID,
		Title:     p.Title,
		Industry:  p.Industry,
		Results:   results,
		Timeline:  p.Timeline,
		Budget:    p.Budget,
		Benefits:  p.Benefits,
		TechStack: techStack,
		Images:    images,
		GithubURL: nullablePtr(p.GithubURL.String, p.GithubURL.Valid),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewTweakResponse(t Tweak) TweakResponse {
	return TweakResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Category:    string(t.Category),
		ProjectName: nullablePtr(t.ProjectName.String, t.ProjectName.Valid),
		TimeSpent:   nullablePtr(t.TimeSpent.String, t.TimeSpent.Valid),
		GithubURL:   nullablePtr(t.GithubURL.String, t.GithubURL.Valid),
		CreatedAt:   t.CreatedAt,
	}
}

func nullablePtr(s string, valid bool) *string {
	if !valid {
		return nil
	}
	return &s
}
