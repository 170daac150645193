package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/darkClaw921/main-site-templats/internal/forms"
	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/gin-gonic/gin"
)

const uploadField = "images"

func newProjectView() projectFormView {
	return projectFormView{
		Page:    Page{PageTitle: "New project", Admin: true},
		Action:  "/admin/projects",
		Project: projectFields{TechStack: techRows(nil)},
	}
}

func editProjectView(id int64) projectFormView {
	return projectFormView{
		Page:   Page{PageTitle: "Edit project", Admin: true},
		IsEdit: true,
		Action: fmt.Sprintf("/admin/projects/%d", id),
	}
}

func (h *AdminHandler) NewProject(c *gin.Context) {
	c.HTML(http.StatusOK, "project_form.html", newProjectView())
}

func (h *AdminHandler) GenerateProject(c *gin.Context) {
	var f forms.DescriptionForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	view := newProjectView()
	view.Description = f.Description

	draft, err := h.drafts.ProjectFromText(c.Request.Context(), f.Description)
	if err != nil {
		h.projectFormFailure(c, view, err)
		return
	}
	view.Generated = true
	view.Project = projectFieldsFromDraft(draft)
	c.HTML(http.StatusOK, "project_form.html", view)
}

func (h *AdminHandler) GenerateProjectFromGitHub(c *gin.Context) {
	var f forms.RepositoryForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	view := newProjectView()
	view.RepositoryURL = f.GithubURL

	draft, err := h.drafts.ProjectFromRepository(c.Request.Context(), f.GithubURL)
	if err != nil {
		h.projectFormFailure(c, view, err)
		return
	}
	view.Generated = true
	view.Project = projectFieldsFromDraft(draft)
	c.HTML(http.StatusOK, "project_form.html", view)
}

func (h *AdminHandler) CreateProject(c *gin.Context) {
	var f forms.ProjectForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	in := f.Input()

	if _, err := h.projects.Create(c.Request.Context(), in, uploadedFiles(c)); err != nil {
		view := newProjectView()
		view.Project = projectFieldsFromInput(in)
		view.Project.Images = nil
		h.projectFormFailure(c, view, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) EditProject(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	p, err := h.projects.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	view := editProjectView(id)
	view.Project = projectFieldsFromRecord(p)
	c.HTML(http.StatusOK, "project_form.html", view)
}

func (h *AdminHandler) UpdateProject(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var f forms.ProjectForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	in := f.Input()

	if _, err := h.projects.Update(c.Request.Context(), id, in, uploadedFiles(c)); err != nil {
		view := editProjectView(id)
		view.Project = projectFieldsFromInput(in)
		h.projectFormFailure(c, view, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) DeleteProject(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) projectFormFailure(c *gin.Context, view projectFormView, err error) {
	if errors.Is(err, models.ErrNotFound) {
		h.fail(c, err)
		return
	}
	status, message, fields, ok := formFailure(err)
	switch {
	case !ok:
		h.logger.ErrorContext(c.Request.Context(), "project form failed", "path", c.Request.URL.Path, "error", err)
		status, message = http.StatusInternalServerError, "Could not save the project, try again."
	case status >= http.StatusInternalServerError:
		h.logger.WarnContext(c.Request.Context(), "project draft failed", "path", c.Request.URL.Path, "error", err)
	}
	view.Error = message
	view.Fields = fields
	c.HTML(status, "project_form.html", view)
}

// uploadedFiles returns the files of a multipart submission, or nil for a
// plain urlencoded form.
func uploadedFiles(c *gin.Context) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[uploadField]
}
