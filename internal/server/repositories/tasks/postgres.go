// Package tasks provides the PostgreSQL-backed repository for background
// processing tasks.
package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"memoirvault/internal/common"
	"memoirvault/internal/dbx"
	"memoirvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {

	query :=
		`INSERT INTO tasks (kind, user_id, subject_id, status)
         VALUES ($1, $2, $3, $4)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Kind, task.UserID, task.SubjectID, task.Status).Scan(&task.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.Task, error) {
	query :=
		`SELECT id, kind, user_id, subject_id, status, progress, result, error_message
		 FROM tasks
		 WHERE id = $1 AND user_id = $2
		 `

	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&task.ID, &task.Kind, &task.UserID, &task.SubjectID, &task.Status,
		&task.Progress, &task.Result, &task.ErrorMessage)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) SetProcessing(ctx context.Context, id string, progress int) error {
	query :=
		`UPDATE tasks SET status = $2, progress = $3, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, models.TaskProcessing, progress)
}

func (r *PostgresRepository) SetCompleted(ctx context.Context, id string, result []byte) error {
	query :=
		`UPDATE tasks SET status = $2, progress = 100, result = $3, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, models.TaskCompleted, result)
}

func (r *PostgresRepository) SetFailed(ctx context.Context, id, message string) error {
	query :=
		`UPDATE tasks SET status = $2, error_message = $3, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, models.TaskFailed, message)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}
