// Package store bootstraps the client's local SQLite database: opening the
// file, applying embedded goose migrations, and wiring repositories.
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"

	"memoirvault/internal/client/migrations"
	"memoirvault/internal/client/repositories/chapters"
	"memoirvault/internal/client/repositories/recordings"

	_ "modernc.org/sqlite"
)

// Repositories bundles the client-side repositories over one database.
type Repositories struct {
	Recordings recordings.Repository
	Chapters   chapters.Repository
	DB         *sql.DB
}

// RunMigrations applies the embedded migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// Open opens (creating if needed) the SQLite database at dsn, migrates it,
// and returns the repositories.
func Open(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Recordings: recordings.NewSQLiteRepository(db),
		Chapters:   chapters.NewSQLiteRepository(db),
		DB:         db,
	}, nil
}

// Close closes the underlying database.
func (r *Repositories) Close() error {
	return r.DB.Close()
}
