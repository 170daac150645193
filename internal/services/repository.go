package services

import (
	"context"

	"github.com/darkClaw921/main-site-templats/internal/models"
)

type ProjectRepository interface {
	CreateProject(ctx context.Context, p models.Project) (*models.Project, error)
	GetProject(ctx context.Context, id int64) (*models.Project, error)
	ListProjects(ctx context.Context) ([]models.Project, error)
	UpdateProject(ctx context.Context, p models.Project) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) (models.Images, error)
}

type TweakRepository interface {
	CreateTweak(ctx context.Context, t models.Tweak) (*models.Tweak, error)
	GetTweak(ctx context.Context, id int64) (*models.Tweak, error)
	ListTweaks(ctx context.Context) ([]models.Tweak, error)
	UpdateTweak(ctx context.Context, t models.Tweak) (*models.Tweak, error)
	DeleteTweak(ctx context.Context, id int64) error
}
