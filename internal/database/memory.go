package database

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/models"
)

// MemoryStore keeps records in process memory. It backs local development
// without DATABASE_URL and follows the same contract as Store.
type MemoryStore struct {
	mu          sync.RWMutex
	projects    map[int64]models.Project
	tweaks      map[int64]models.Tweak
	nextProject int64
	nextTweak   int64
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		projects: make(map[int64]models.Project),
		tweaks:   make(map[int64]models.Tweak),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) CreateProject(_ context.Context, p models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextProject++
	now := s.now()
	p.ID = s.nextProject
	p.CreatedAt = now
	p.UpdatedAt = now
	p = cloneProject(p)
	s.projects[p.ID] = p

	out := cloneProject(p)
	return &out, nil
}

func (s *MemoryStore) GetProject(_ context.Context, id int64) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("failed to get project %d: %w", id, models.ErrNotFound)
	}
	out := cloneProject(p)
	return &out, nil
}

func (s *MemoryStore) ListProjects(context.Context) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	projects := make([]models.Project, 0, len(s.projects))
	for _, p := range s.projects {
		projects = append(projects, cloneProject(p))
	}
	slices.SortFunc(projects, func(a, b models.Project) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return projects, nil
}

func (s *MemoryStore) UpdateProject(_ context.Context, p models.Project) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.projects[p.ID]
	if !ok {
		return nil, fmt.Errorf("failed to update project %d: %w", p.ID, models.ErrNotFound)
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.now()
	p = cloneProject(p)
	s.projects[p.ID] = p

	out := cloneProject(p)
	return &out, nil
}

func (s *MemoryStore) DeleteProject(_ context.Context, id int64) (models.Images, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("failed to delete project %d: %w", id, models.ErrNotFound)
	}
	delete(s.projects, id)
	return slices.Clone(p.Images), nil
}

func (s *MemoryStore) CreateTweak(_ context.Context, t models.Tweak) (*models.Tweak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextTweak++
	t.ID = s.nextTweak
	t.CreatedAt = s.now()
	s.tweaks[t.ID] = t

	out := t
	return &out, nil
}

func (s *MemoryStore) GetTweak(_ context.Context, id int64) (*models.Tweak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tweaks[id]
	if !ok {
		return nil, fmt.Errorf("failed to get tweak %d: %w", id, models.ErrNotFound)
	}
	return &t, nil
}

func (s *MemoryStore) ListTweaks(context.Context) ([]models.Tweak, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tweaks := make([]models.Tweak, 0, len(s.tweaks))
	for _, t := range s.tweaks {
		tweaks = append(tweaks, t)
	}
	slices.SortFunc(tweaks, func(a, b models.Tweak) int {
		return newestFirst(a.CreatedAt, b.CreatedAt, a.ID, b.ID)
	})
	return tweaks, nil
}

func (s *MemoryStore) UpdateTweak(_ context.Context, t models.Tweak) (*models.Tweak, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.tweaks[t.ID]
	if !ok {
		return nil, fmt.Errorf("failed to update tweak %d: %w", t.ID, models.ErrNotFound)
	}
	t.CreatedAt = existing.CreatedAt
	s.tweaks[t.ID] = t

	out := t
	return &out, nil
}

func (s *MemoryStore) DeleteTweak(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tweaks[id]; !ok {
		return fmt.Errorf("failed to delete tweak %d: %w", id, models.ErrNotFound)
	}
	delete(s.tweaks, id)
	return nil
}

func newestFirst(at, bt time.Time, aid, bid int64) int {
	if c := bt.Compare(at); c != 0 {
		return c
	}
	switch {
	case aid > bid:
		return -1
	case aid < bid:
		return 1
	}
	return 0
}

func cloneProject(p models.Project) models.Project {
	p.Results = slices.Clone(p.Results)
	p.Images = slices.Clone(p.Images)
	if p.TechStack != nil {
		ts := make(models.TechStack, len(p.TechStack))
		for k, v := range p.TechStack {
			ts[k] = v
		}
		p.TechStack = ts
	}
	return p
}
