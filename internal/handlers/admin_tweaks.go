package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/darkClaw921/main-site-templats/internal/forms"
	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/gin-gonic/gin"
)

func newTweakView() tweakFormView {
	return tweakFormView{
		Page:       Page{PageTitle: "New tweak", Admin: true},
		Action:     "/admin/tweaks",
		Categories: models.TweakCategories,
	}
}

func editTweakView(id int64) tweakFormView {
	return tweakFormView{
		Page:       Page{PageTitle: "Edit tweak", Admin: true},
		IsEdit:     true,
		Action:     fmt.Sprintf("/admin/tweaks/%d", id),
		Categories: models.TweakCategories,
	}
}

func (h *AdminHandler) NewTweak(c *gin.Context) {
	c.HTML(http.StatusOK, "tweak_form.html", newTweakView())
}

func (h *AdminHandler) GenerateTweak(c *gin.Context) {
	var f forms.DescriptionForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}

	view := newTweakView()
	view.Description = f.Description

	draft, err := h.drafts.TweakFromText(c.Request.Context(), f.Description)
	if err != nil {
		h.tweakFormFailure(c, view, err)
		return
	}
	view.Generated = true
	view.Tweak = tweakFieldsFromDraft(draft)
	c.HTML(http.StatusOK, "tweak_form.html", view)
}

func (h *AdminHandler) CreateTweak(c *gin.Context) {
	var f forms.TweakForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	in := f.Input()

	if _, err := h.tweaks.Create(c.Request.Context(), in); err != nil {
		view := newTweakView()
		view.Tweak = tweakFieldsFromInput(in)
		h.tweakFormFailure(c, view, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) EditTweak(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	t, err := h.tweaks.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}

	view := editTweakView(id)
	view.Tweak = tweakFieldsFromRecord(t)
	c.HTML(http.StatusOK, "tweak_form.html", view)
}

func (h *AdminHandler) UpdateTweak(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	var f forms.TweakForm
	if err := c.ShouldBind(&f); err != nil {
		renderError(c, http.StatusBadRequest, "Malformed form submission.")
		return
	}
	in := f.Input()

	if _, err := h.tweaks.Update(c.Request.Context(), id, in); err != nil {
		view := editTweakView(id)
		view.Tweak = tweakFieldsFromInput(in)
		h.tweakFormFailure(c, view, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) DeleteTweak(c *gin.Context) {
	id, ok := recordID(c)
	if !ok {
		return
	}
	if err := h.tweaks.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) tweakFormFailure(c *gin.Context, view tweakFormView, err error) {
	if errors.Is(err, models.ErrNotFound) {
		h.fail(c, err)
		return
	}
	status, message, fields, ok := formFailure(err)
	switch {
	case !ok:
		h.logger.ErrorContext(c.Request.Context(), "tweak form failed", "path", c.Request.URL.Path, "error", err)
		status, message = http.StatusInternalServerError, "Could not save the tweak, try again."
	case status >= http.StatusInternalServerError:
		h.logger.WarnContext(c.Request.Context(), "tweak draft failed", "path", c.Request.URL.Path, "error", err)
	}
	view.Error = message
	view.Fields = fields
	c.HTML(status, "tweak_form.html", view)
}
