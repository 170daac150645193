package handlers

import (
	"fmt"
	"log/slog"

	"github.com/darkClaw921/main-site-templats/internal/middleware"
	"github.com/darkClaw921/main-site-templats/internal/services"
	"github.com/darkClaw921/main-site-templats/internal/storage"
	"github.com/darkClaw921/main-site-templats/internal/web"
	"github.com/gin-gonic/gin"
)

const maxMultipartMemory = 32 << 20

type Deps struct {
	Projects    *services.ProjectService
	Tweaks      *services.TweakService
	Drafts      *services.DraftService
	Auth        *middleware.AdminAuth
	Images      storage.ImageStore
	DB          Pinger
	StaticDir   string
	CORSOrigins []string
	Logger      *slog.Logger
}

func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := web.Templates(d.Images)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(d.Logger))
	router.Use(middleware.CORS(d.CORSOrigins))
	router.SetHTMLTemplate(tmpl)
	router.MaxMultipartMemory = maxMultipartMemory

	if d.StaticDir != "" {
		router.Static("/static", d.StaticDir)
	}

	health := NewHealthHandler(d.DB, d.Logger)
	public := NewPublicHandler(d.Projects, d.Tweaks, d.Logger)
	admin := NewAdminHandler(d.Auth, d.Projects, d.Tweaks, d.Drafts, d.Logger)

	router.GET("/health", health.Health)
	router.GET("/", public.Index)
	router.GET("/api/projects", public.ListProjects)
	router.GET("/api/tweaks", public.ListTweaks)

	router.GET("/admin/login", admin.LoginPage)
	router.POST("/admin/login", admin.Login)
	router.GET("/admin/logout", admin.Logout)

	protected := router.Group("/admin")
	protected.Use(d.Auth.RequireAdmin())

	protected.GET("/dashboard", admin.Dashboard)

	protected.GET("/projects/new", admin.NewProject)
	protected.POST("/projects/generate", admin.GenerateProject)
	protected.POST("/projects/generate-from-github", admin.GenerateProjectFromGitHub)
	protected.POST("/projects", admin.CreateProject)
	protected.GET("/projects/:id/edit", admin.EditProject)
	protected.POST("/projects/:id", admin.UpdateProject)
	protected.POST("/projects/:id/delete", admin.DeleteProject)

	protected.GET("/tweaks/new", admin.NewTweak)
	protected.POST("/tweaks/generate", admin.GenerateTweak)
	protected.POST("/tweaks", admin.CreateTweak)
	protected.GET("/tweaks/:id/edit", admin.EditTweak)
	protected.POST("/tweaks/:id", admin.UpdateTweak)
	protected.POST("/tweaks/:id/delete", admin.DeleteTweak)

	return router, nil
}
