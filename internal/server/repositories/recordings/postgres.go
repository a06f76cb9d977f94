// Package recordings provides the PostgreSQL-backed repository for
// server-side recording rows.
package recordings

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

func (r *PostgresRepository) Create(ctx context.Context, rec *models.Recording) (*models.Recording, error) {

	query :=
		`INSERT INTO recordings (user_id, chapter_id, title, audio_key, status)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.UserID, rec.ChapterID, rec.Title, rec.AudioKey, rec.Status).Scan(&rec.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Recording, error) {
	query :=
		`SELECT id, user_id, chapter_id, title, audio_key, duration, transcription, status
		 FROM recordings
		 WHERE id = $1
		 `

	rec := &models.Recording{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&rec.ID, &rec.UserID, &rec.ChapterID, &rec.Title, &rec.AudioKey,
		&rec.Duration, &rec.Transcription, &rec.Status)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) SetStatus(ctx context.Context, id string, status models.TaskStatus) error {
	query := `UPDATE recordings SET status = $2, updated_at = now() WHERE id = $1`
	return r.exec(ctx, query, id, status)
}

func (r *PostgresRepository) SetTranscription(ctx context.Context, id, transcription string, duration float64) error {
	query :=
		`UPDATE recordings
		 SET transcription = $2, duration = $3, status = $4, updated_at = now()
		 WHERE id = $1
		 `
	return r.exec(ctx, query, id, transcription, duration, models.TaskCompleted)
}

func (r *PostgresRepository) ListByChapter(ctx context.Context, userID, chapterID string) ([]*models.Recording, error) {
	query :=
		`SELECT id, user_id, chapter_id, title, audio_key, duration, transcription, status
		 FROM recordings
		 WHERE user_id = $1 AND chapter_id = $2
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query, userID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	var result []*models.Recording
	for rows.Next() {
		var item models.Recording
		if err := rows.Scan(
			&item.ID, &item.UserID, &item.ChapterID, &item.Title, &item.AudioKey,
			&item.Duration, &item.Transcription, &item.Status,
		); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
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
