package db

import (
	"context"
	"database/sql"

	"memoirvault/internal/server/repositories/recordings"
	"memoirvault/internal/server/repositories/tasks"
	"memoirvault/internal/server/repositories/uploads"
	"memoirvault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Uploads() uploads.Repository
	Tasks() tasks.Repository
	Recordings() recordings.Repository
	Close() error
}
