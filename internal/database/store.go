package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/models"
	_ "github.com/lib/pq"
)

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Store keeps projects and tweaks in PostgreSQL.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProject(row scanner) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID, &p.Title, &p.Industry, &p.Results, &p.Timeline, &p.Budget,
		&p.Benefits, &p.TechStack, &p.Images, &p.GithubURL, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanTweak(row scanner) (*models.Tweak, error) {
	var t models.Tweak
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Category,
		&t.ProjectName, &t.TimeSpent, &t.GithubURL, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	return err
}

func (s *Store) CreateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, insertProjectQuery,
		p.Title, p.Industry, p.Results, p.Timeline, p.Budget,
		p.Benefits, p.TechStack, p.Images, p.GithubURL,
	)
	created, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	return created, nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	p, err := scanProject(s.db.QueryRowContext(ctx, selectProjectQuery, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get project %d: %w", id, notFound(err))
	}
	return p, nil
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	rows, err := s.db.QueryContext(ctx, listProjectsQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	projects := []models.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	return projects, nil
}

// UpdateProject overwrites every writable field and refreshes updated_at.
func (s *Store) UpdateProject(ctx context.Context, p models.Project) (*models.Project, error) {
	row := s.db.QueryRowContext(ctx, updateProjectQuery,
		p.ID, p.Title, p.Industry, p.Results, p.Timeline, p.Budget,
		p.Benefits, p.TechStack, p.Images, p.GithubURL,
	)
	updated, err := scanProject(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update project %d: %w", p.ID, notFound(err))
	}
	return updated, nil
}

// DeleteProject removes the row and returns the images it referenced.
func (s *Store) DeleteProject(ctx context.Context, id int64) (models.Images, error) {
	var images models.Images
	if err := s.db.QueryRowContext(ctx, deleteProjectQuery, id).Scan(&images); err != nil {
		return nil, fmt.Errorf("failed to delete project %d: %w", id, notFound(err))
	}
	return images, nil
}

func (s *Store) CreateTweak(ctx context.Context, t models.Tweak) (*models.Tweak, error) {
	row := s.db.QueryRowContext(ctx, insertTweakQuery,
		t.Title, t.Description, string(t.Category), t.ProjectName, t.TimeSpent, t.GithubURL,
	)
	created, err := scanTweak(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create tweak: %w", err)
	}
	return created, nil
}

func (s *Store) GetTweak(ctx context.Context, id int64) (*models.Tweak, error) {
	t, err := scanTweak(s.db.QueryRowContext(ctx, selectTweakQuery, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get tweak %d: %w", id, notFound(err))
	}
	return t, nil
}

func (s *Store) ListTweaks(ctx context.Context) ([]models.Tweak, error) {
	rows, err := s.db.QueryContext(ctx, listTweaksQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to list tweaks: %w", err)
	}
	defer rows.Close()

	tweaks := []models.Tweak{}
	for rows.Next() {
		t, err := scanTweak(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tweak: %w", err)
		}
		tweaks = append(tweaks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tweaks: %w", err)
	}

	return tweaks, nil
}

func (s *Store) UpdateTweak(ctx context.Context, t models.Tweak) (*models.Tweak, error) {
	row := s.db.QueryRowContext(ctx, updateTweakQuery,
		t.ID, t.Title, t.Description, string(t.Category), t.ProjectName, t.TimeSpent, t.GithubURL,
	)
	updated, err := scanTweak(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update tweak %d: %w", t.ID, notFound(err))
	}
	return updated, nil
}

func (s *Store) DeleteTweak(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, deleteTweakQuery, id)
	if err != nil {
		return fmt.Errorf("failed to delete tweak %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete tweak %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("failed to delete tweak %d: %w", id, models.ErrNotFound)
	}
	return nil
}
