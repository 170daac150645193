package handlers

import (
	"log/slog"
	"net/http"

	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/darkClaw921/main-site-templats/internal/services"
	"github.com/gin-gonic/gin"
)

type PublicHandler struct {
	projects *services.ProjectService
	tweaks   *services.TweakService
	logger   *slog.Logger
}

func NewPublicHandler(projects *services.ProjectService, tweaks *services.TweakService, logger *slog.Logger) *PublicHandler {
	return &PublicHandler{projects: projects, tweaks: tweaks, logger: logger}
}

// Index renders the landing page with every project and tweak, newest first.
func (h *PublicHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	projects, err := h.projects.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list projects", "error", err)
		renderError(c, http.StatusInternalServerError, "Projects are temporarily unavailable.")
		return
	}
	tweaks, err := h.tweaks.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list tweaks", "error", err)
		renderError(c, http.StatusInternalServerError, "Projects are temporarily unavailable.")
		return
	}

	c.HTML(http.StatusOK, "index.html", indexView{
		Page:     Page{PageTitle: "Portfolio"},
		Projects: projects,
		Tweaks:   tweaks,
	})
}

func (h *PublicHandler) ListProjects(c *gin.Context) {
	projects, err := h.projects.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to list projects", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list projects"})
		return
	}

	response := make([]models.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		response = append(response, models.NewProjectResponse(p))
	}
	c.JSON(http.StatusOK, response)
}

func (h *PublicHandler) ListTweaks(c *gin.Context) {
	tweaks, err := h.tweaks.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "failed to list tweaks", "error", err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "failed to list tweaks"})
		return
	}

	response := make([]models.TweakResponse, 0, len(tweaks))
	for _, t := range tweaks {
		response = append(response, models.NewTweakResponse(t))
	}
	c.JSON(http.StatusOK, response)
}
