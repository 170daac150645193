package database

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrator_RunSkipsApplied(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("001_create_projects.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("002_create_tweaks.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS tweaks`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("002_create_tweaks.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("003_add_github_url.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`ALTER TABLE projects ADD COLUMN IF NOT EXISTS github_url`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO schema_migrations`).WithArgs("003_add_github_url.sql").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	m := NewMigrator(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, m.Run(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrator_RollsBackFailedMigration(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS schema_migrations`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM schema_migrations`).
		WithArgs("001_create_projects.sql").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS projects`).WillReturnError(assert.AnError)
	mock.ExpectRollback()

	m := NewMigrator(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	err = m.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_create_projects.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
