package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/storage"
)

type UploadLister interface {
	ListUploads(ctx context.Context) ([]storage.StoredFile, error)
}

// OrphanSweeper deletes uploaded files that no project references. Files
// younger than the grace period are kept so an in-flight save is not raced.
type OrphanSweeper struct {
	projects ProjectRepository
	files    UploadLister
	images   storage.ImageStore
	grace    time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrphanSweeper(projects ProjectRepository, files UploadLister, images storage.ImageStore, grace time.Duration, logger *slog.Logger) *OrphanSweeper {
	return &OrphanSweeper{
		projects: projects,
		files:    files,
		images:   images,
		grace:    grace,
		logger:   logger,
		now:      time.Now,
	}
}

// Sweep returns the number of files removed.
func (s *OrphanSweeper) Sweep(ctx context.Context) (int, error) {
	files, err := s.files.ListUploads(ctx)
	if err != nil {
		return 0, err
	}
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list projects: %w", err)
	}

	referenced := make(map[string]struct{})
	for _, p := range projects {
		for _, img := range p.Images {
			referenced[img] = struct{}{}
		}
	}

	cutoff := s.now().Add(-s.grace)
	removed := 0
	for _, f := range files {
		if _, ok := referenced[f.Path]; ok || f.ModTime.After(cutoff) {
			continue
		}
		if err := s.images.Remove(ctx, f.Path); err != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned upload", "path", f.Path, "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.InfoContext(ctx, "orphaned uploads removed", "count", removed)
	}
	return removed, nil
}
