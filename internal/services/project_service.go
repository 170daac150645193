package services

import (
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"slices"

	"github.com/darkClaw921/main-site-templats/internal/forms"
	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/darkClaw921/main-site-templats/internal/storage"
	"github.com/go-playground/validator/v10"
)

type ProjectService struct {
	repo     ProjectRepository
	images   storage.ImageStore
	validate *validator.Validate
	logger   *slog.Logger
}

func NewProjectService(repo ProjectRepository, images storage.ImageStore, logger *slog.Logger) *ProjectService {
	return &ProjectService{
		repo:     repo,
		images:   images,
		validate: models.NewValidator(),
		logger:   logger,
	}
}

func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	return s.repo.ListProjects(ctx)
}

func (s *ProjectService) Get(ctx context.Context, id int64) (*models.Project, error) {
	return s.repo.GetProject(ctx, id)
}

// Create validates the input before touching storage. Uploaded files are
// removed again if the record cannot be written.
func (s *ProjectService) Create(ctx context.Context, in models.ProjectInput, files []*multipart.FileHeader) (*models.Project, error) {
	if err := models.Validate(s.validate, in); err != nil {
		return nil, err
	}

	uploaded, err := forms.StoreUploadedImages(ctx, s.images, files)
	if err != nil {
		return nil, fmt.Errorf("failed to store images: %w", err)
	}

	var p models.Project
	in.Apply(&p)
	p.Images = uploaded

	created, err := s.repo.CreateProject(ctx, p)
	if err != nil {
		forms.RemoveImages(ctx, s.images, uploaded)
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created", "project_id", created.ID, "images", len(uploaded))
	return created, nil
}

// Update replaces every field. Images are the kept existing ones followed by
// new uploads; files dropped from the list are deleted.
func (s *ProjectService) Update(ctx context.Context, id int64, in models.ProjectInput, files []*multipart.FileHeader) (*models.Project, error) {
	if err := models.Validate(s.validate, in); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}

	// only paths that already belong to this project may be kept
	kept := make([]string, 0, len(in.Images))
	for _, img := range in.Images {
		if slices.Contains(existing.Images, img) && !slices.Contains(kept, img) {
			kept = append(kept, img)
		}
	}

	uploaded, err := forms.StoreUploadedImages(ctx, s.images, files)
	if err != nil {
		return nil, fmt.Errorf("failed to store images: %w", err)
	}

	p := *existing
	in.Apply(&p)
	p.Images = append(kept, uploaded...)

	updated, err := s.repo.UpdateProject(ctx, p)
	if err != nil {
		forms.RemoveImages(ctx, s.images, uploaded)
		return nil, err
	}

	for _, img := range existing.Images {
		if !slices.Contains(kept, img) {
			s.removeImage(ctx, id, img)
		}
	}

	s.logger.InfoContext(ctx, "project updated", "project_id", id)
	return updated, nil
}

// Delete removes the record, then its image files. File errors are logged only.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	images, err := s.repo.DeleteProject(ctx, id)
	if err != nil {
		return err
	}
	for _, img := range images {
		s.removeImage(ctx, id, img)
	}

	s.logger.InfoContext(ctx, "project deleted", "project_id", id, "images", len(images))
	return nil
}

func (s *ProjectService) removeImage(ctx context.Context, projectID int64, path string) {
	if err := s.images.Remove(ctx, path); err != nil {
		s.logger.WarnContext(ctx, "failed to remove project image", "project_id", projectID, "path", path, "error", err)
	}
}
