package handlers

import (
	"errors"
	"net/http"
	"sort"

	"github.com/darkClaw921/main-site-templats/internal/forms"
	"github.com/darkClaw921/main-site-templats/internal/middleware"
	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/gin-gonic/gin"
)

// blank tech stack rows appended to every project form
const spareTechRows = 2

type Page struct {
	PageTitle string
	Admin     bool
}

type indexView struct {
	Page
	Projects []models.Project
	Tweaks   []models.Tweak
}

type loginView struct {
	Page
	Error string
}

type dashboardView struct {
	Page
	Projects []models.Project
	Tweaks   []models.Tweak
}

type errorView struct {
	Page
	Status  int
	Message string
}

type techRow struct {
	Category string
	Value    string
}

type projectFields struct {
	Title     string
	Industry  string
	Results   string
	Timeline  string
	Budget    string
	Benefits  string
	TechStack []techRow
	GithubURL string
	Images    []string
}

type projectFormView struct {
	Page
	IsEdit        bool
	Generated     bool
	Action        string
	Error         string
	Fields        map[string]string
	Description   string
	RepositoryURL string
	Project       projectFields
}

type tweakFields struct {
	Title       string
	Description string
	Category    string
	ProjectName string
	TimeSpent   string
	GithubURL   string
}

type tweakFormView struct {
	Page
	IsEdit      bool
	Generated   bool
	Action      string
	Error       string
	Fields      map[string]string
	Description string
	Categories  []models.TweakCategory
	Tweak       tweakFields
}

func techRows(stack map[string]string) []techRow {
	keys := make([]string, 0, len(stack))
	for k := range stack {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	rows := make([]techRow, 0, len(keys)+spareTechRows)
	for _, k := range keys {
		rows = append(rows, techRow{Category: k, Value: stack[k]})
	}
	for range spareTechRows {
		rows = append(rows, techRow{})
	}
	return rows
}

func projectFieldsFromRecord(p *models.Project) projectFields {
	return projectFields{
		Title:     p.Title,
		Industry:  p.Industry,
		Results:   forms.ResultsText(p.Results),
		Timeline:  p.Timeline,
		Budget:    p.Budget,
		Benefits:  p.Benefits,
		TechStack: techRows(p.TechStack),
		GithubURL: models.NullText(p.GithubURL),
		Images:    p.Images,
	}
}

func projectFieldsFromDraft(d *models.ProjectDraft) projectFields {
	return projectFields{
		Title:     d.Title,
		Industry:  d.Industry,
		Results:   forms.ResultsText(d.Results),
		Timeline:  d.Timeline,
		Budget:    d.Budget,
		Benefits:  d.Benefits,
		TechStack: techRows(d.TechStack),
		GithubURL: d.GithubURL,
	}
}

// projectFieldsFromInput redisplays a rejected submission.
func projectFieldsFromInput(in models.ProjectInput) projectFields {
	return projectFields{
		Title:     in.Title,
		Industry:  in.Industry,
		Results:   forms.ResultsText(in.Results),
		Timeline:  in.Timeline,
		Budget:    in.Budget,
		Benefits:  in.Benefits,
		TechStack: techRows(in.TechStack),
		GithubURL: in.GithubURL,
		Images:    in.Images,
	}
}

func tweakFieldsFromRecord(t *models.Tweak) tweakFields {
	return tweakFields{
		Title:       t.Title,
		Description: t.Description,
		Category:    string(t.Category),
		ProjectName: models.NullText(t.ProjectName),
		TimeSpent:   models.NullText(t.TimeSpent),
		GithubURL:   models.NullText(t.GithubURL),
	}
}

func tweakFieldsFromDraft(d *models.TweakDraft) tweakFields {
	return tweakFields{
		Title:       d.Title,
		Description: d.Description,
		Category:    string(d.Category),
		ProjectName: d.ProjectName,
		TimeSpent:   d.TimeSpent,
	}
}

func tweakFieldsFromInput(in models.TweakInput) tweakFields {
	return tweakFields{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		ProjectName: in.ProjectName,
		TimeSpent:   in.TimeSpent,
		GithubURL:   in.GithubURL,
	}
}

// formFailure maps a service error to the status and message shown above a
// re-rendered form. ok is false for errors the form cannot explain.
func formFailure(err error) (status int, message string, fields map[string]string, ok bool) {
	var verr *models.ValidationError
	var extErr *models.ExternalServiceError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "Please correct the highlighted fields.", verr.Fields, true
	case errors.Is(err, models.ErrNotConfigured):
		return http.StatusServiceUnavailable, err.Error(), nil, true
	case errors.Is(err, models.ErrRepositoryUnavailable):
		return http.StatusBadGateway, err.Error(), nil, true
	case errors.As(err, &extErr):
		return http.StatusBadGateway, "Draft generation failed, try again.", nil, true
	}
	return 0, "", nil, false
}

func renderError(c *gin.Context, status int, message string) {
	_, admin := c.Get(middleware.AdminKey)
	c.HTML(status, "error.html", errorView{
		Page:    Page{PageTitle: http.StatusText(status), Admin: admin},
		Status:  status,
		Message: message,
	})
}
