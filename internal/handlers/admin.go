package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/darkClaw921/main-site-templats/internal/middleware"
	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/darkClaw921/main-site-templats/internal/services"
	"github.com/gin-gonic/gin"
)

const dashboardPath = "/admin/dashboard"

type AdminHandler struct {
	auth     *middleware.AdminAuth
	projects *services.ProjectService
	tweaks   *services.TweakService
	drafts   *services.DraftService
	logger   *slog.Logger
}

func NewAdminHandler(auth *middleware.AdminAuth, projects *services.ProjectService, tweaks *services.TweakService, drafts *services.DraftService, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		auth:     auth,
		projects: projects,
		tweaks:   tweaks,
		drafts:   drafts,
		logger:   logger,
	}
}

func (h *AdminHandler) LoginPage(c *gin.Context) {
	if h.auth.Authenticated(c) {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	c.HTML(http.StatusOK, "login.html", loginView{Page: Page{PageTitle: "Admin login"}})
}

func (h *AdminHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", loginView{
			Page:  Page{PageTitle: "Admin login"},
			Error: "Password is required",
		})
		return
	}

	token, err := h.auth.Login(req.Password)
	if err != nil {
		status, message := http.StatusInternalServerError, "Login failed, try again"
		if errors.Is(err, middleware.ErrInvalidPassword) {
			status, message = http.StatusUnauthorized, "Invalid password"
		}
		h.logger.WarnContext(c.Request.Context(), "admin login rejected", "client_ip", c.ClientIP(), "error", err)
		c.HTML(status, "login.html", loginView{
			Page:  Page{PageTitle: "Admin login"},
			Error: message,
		})
		return
	}

	h.auth.SetSessionCookie(c, token)
	h.logger.InfoContext(c.Request.Context(), "admin logged in", "client_ip", c.ClientIP())
	c.Redirect(http.StatusFound, dashboardPath)
}

func (h *AdminHandler) Logout(c *gin.Context) {
	h.auth.ClearSessionCookie(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	projects, err := h.projects.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}
	tweaks, err := h.tweaks.List(ctx)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", dashboardView{
		Page:     Page{PageTitle: "Dashboard", Admin: true},
		Projects: projects,
		Tweaks:   tweaks,
	})
}

// fail renders the error page for errors no form can explain.
func (h *AdminHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, models.ErrNotFound) {
		renderError(c, http.StatusNotFound, "Record not found.")
		return
	}
	h.logger.ErrorContext(c.Request.Context(), "admin request failed", "path", c.Request.URL.Path, "error", err)
	renderError(c, http.StatusInternalServerError, "Something went wrong.")
}

func recordID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		renderError(c, http.StatusNotFound, "Record not found.")
		return 0, false
	}
	return id, true
}
