// Package db wires the server's PostgreSQL connection, embedded goose
// migrations and repositories behind a single manager.
package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"memoirvault/internal/server/migrations"
	"memoirvault/internal/server/repositories/recordings"
	"memoirvault/internal/server/repositories/tasks"
	"memoirvault/internal/server/repositories/uploads"
	"memoirvault/internal/server/repositories/users"
)

type PostgresRepositoryManager struct {
	db         *sql.DB
	users      users.Repository
	uploads    uploads.Repository
	tasks      tasks.Repository
	recordings recordings.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Uploads() uploads.Repository {
	return m.uploads
}

func (m *PostgresRepositoryManager) Tasks() tasks.Repository {
	return m.tasks
}

func (m *PostgresRepositoryManager) Recordings() recordings.Repository {
	return m.recordings
}

func (m *PostgresRepositoryManager) Close() error {
	return m.db.Close()
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, m.db, ".")
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:         db,
		users:      users.NewPostgresRepository(db),
		uploads:    uploads.NewPostgresRepository(db),
		tasks:      tasks.NewPostgresRepository(db),
		recordings: recordings.NewPostgresRepository(db),
	}

	if err := m.RunMigrations(context.Background()); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
