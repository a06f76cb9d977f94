// Package uploads provides the PostgreSQL-backed repository for chunked
// upload sessions.
package uploads

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

func (r *PostgresRepository) Create(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error) {

	query :=
		`INSERT INTO upload_sessions (user_id, chapter_id, file_name, file_size, chunk_size)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		session.UserID, session.ChapterID, session.FileName, session.FileSize, session.ChunkSize).Scan(&session.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return session, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id, userID string) (*models.UploadSession, error) {
	query :=
		`SELECT id, user_id, chapter_id, file_name, file_size, chunk_size, received_bytes, chunk_count, completed
		 FROM upload_sessions
		 WHERE id = $1 AND user_id = $2
		 `

	s := &models.UploadSession{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&s.ID, &s.UserID, &s.ChapterID, &s.FileName, &s.FileSize, &s.ChunkSize,
		&s.ReceivedBytes, &s.ChunkCount, &s.Completed)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrUploadNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return s, nil
}

func (r *PostgresRepository) RecordChunk(ctx context.Context, id string, size int64) error {
	query :=
		`UPDATE upload_sessions
		 SET received_bytes = received_bytes + $2, chunk_count = chunk_count + 1
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, size)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrUploadNotFound
	}
	return nil
}

func (r *PostgresRepository) MarkCompleted(ctx context.Context, id string) error {
	query := `UPDATE upload_sessions SET completed = TRUE WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrUploadNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM upload_sessions WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
