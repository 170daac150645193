package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/darkClaw921/main-site-templats/internal/models"
)

type Generator interface {
	Configured() bool
	GenerateProjectDraft(ctx context.Context, description string) (*models.ProjectDraft, error)
	GenerateTweakDraft(ctx context.Context, description string) (*models.TweakDraft, error)
}

type RepositoryDescriber interface {
	Describe(ctx context.Context, repoURL string) (string, bool)
}

// DraftService produces form pre-fills. Drafts are never stored.
type DraftService struct {
	generator Generator
	repos     RepositoryDescriber
	logger    *slog.Logger
}

func NewDraftService(generator Generator, repos RepositoryDescriber, logger *slog.Logger) *DraftService {
	return &DraftService{
		generator: generator,
		repos:     repos,
		logger:    logger,
	}
}

func (s *DraftService) Configured() bool {
	return s.generator != nil && s.generator.Configured()
}

func (s *DraftService) ProjectFromText(ctx context.Context, description string) (*models.ProjectDraft, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, models.NewValidationError("description", "is required")
	}
	if !s.Configured() {
		return nil, models.ErrNotConfigured
	}
	return s.generator.GenerateProjectDraft(ctx, description)
}

// ProjectFromRepository describes a GitHub repository and drafts a project from it.
func (s *DraftService) ProjectFromRepository(ctx context.Context, repoURL string) (*models.ProjectDraft, error) {
	repoURL = strings.TrimSpace(repoURL)
	if repoURL == "" {
		return nil, models.NewValidationError("github_url", "is required")
	}
	if !s.Configured() {
		return nil, models.ErrNotConfigured
	}

	info, ok := s.repos.Describe(ctx, repoURL)
	if !ok {
		return nil, models.ErrRepositoryUnavailable
	}

	draft, err := s.generator.GenerateProjectDraft(ctx, info)
	if err != nil {
		return nil, err
	}
	draft.GithubURL = repoURL
	s.logger.InfoContext(ctx, "project drafted from repository", "url", repoURL)
	return draft, nil
}

func (s *DraftService) TweakFromText(ctx context.Context, description string) (*models.TweakDraft, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, models.NewValidationError("description", "is required")
	}
	if !s.Configured() {
		return nil, models.ErrNotConfigured
	}
	return s.generator.GenerateTweakDraft(ctx, description)
}
