package services

import (
	"context"
	"log/slog"

	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/go-playground/validator/v10"
)

type TweakService struct {
	repo     TweakRepository
	validate *validator.Validate
	logger   *slog.Logger
}

func NewTweakService(repo TweakRepository, logger *slog.Logger) *TweakService {
	return &TweakService{
		repo:     repo,
		validate: models.NewValidator(),
		logger:   logger,
	}
}

func (s *TweakService) List(ctx context.Context) ([]models.Tweak, error) {
	return s.repo.ListTweaks(ctx)
}

func (s *TweakService) Get(ctx context.Context, id int64) (*models.Tweak, error) {
	return s.repo.GetTweak(ctx, id)
}

func (s *TweakService) Create(ctx context.Context, in models.TweakInput) (*models.Tweak, error) {
	if err := models.Validate(s.validate, in); err != nil {
		return nil, err
	}

	var t models.Tweak
	in.Apply(&t)
	created, err := s.repo.CreateTweak(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tweak created", "tweak_id", created.ID, "category", created.Category)
	return created, nil
}

func (s *TweakService) Update(ctx context.Context, id int64, in models.TweakInput) (*models.Tweak, error) {
	if err := models.Validate(s.validate, in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetTweak(ctx, id)
	if err != nil {
		return nil, err
	}

	t := *existing
	in.Apply(&t)
	updated, err := s.repo.UpdateTweak(ctx, t)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "tweak updated", "tweak_id", id)
	return updated, nil
}

func (s *TweakService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.DeleteTweak(ctx, id); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "tweak deleted", "tweak_id", id)
	return nil
}
