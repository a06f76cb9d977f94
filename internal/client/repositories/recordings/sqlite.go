package recordings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"memoirvault/internal/client/models"
	"memoirvault/internal/common"
	"memoirvault/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordingColumns = `id, title, duration, chapter_id, user_id, audio_url, transcription, processing_status, task_id, created_at, updated_at`

func (r *SQLiteRepository) Create(ctx context.Context, rec *models.Recording) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	status := rec.ProcessingStatus
	if status == "" {
		status = models.StatusPending
	}

	query := `INSERT INTO recordings (` + recordingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		id, rec.Title, rec.Duration, rec.ChapterID, rec.UserID,
		rec.AudioURL, rec.Transcription, status, rec.TaskID, now, now)
	if err != nil {
		return "", fmt.Errorf("failed to insert recording: %w", err)
	}

	rec.ID = id
	rec.ProcessingStatus = status
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return id, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	rec, err := scanRecording(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select recording: %w", err)
	}
	return rec, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id string, patch Patch) error {
	set := make([]string, 0, 7)
	args := make([]any, 0, 8)

	appendSet := func(column string, value any) {
		set = append(set, column+" = ?")
		args = append(args, value)
	}

	if patch.Title != nil {
		appendSet("title", *patch.Title)
	}
	if patch.Duration != nil {
		appendSet("duration", *patch.Duration)
	}
	if patch.AudioURL != nil {
		appendSet("audio_url", *patch.AudioURL)
	}
	if patch.Transcription != nil {
		appendSet("transcription", *patch.Transcription)
	}
	if patch.ProcessingStatus != nil {
		if !patch.ProcessingStatus.Valid() {
			return fmt.Errorf("invalid processing status %q", *patch.ProcessingStatus)
		}
		appendSet("processing_status", string(*patch.ProcessingStatus))
	}
	if patch.TaskID != nil {
		appendSet("task_id", *patch.TaskID)
	}
	if len(set) == 0 {
		return nil
	}

	appendSet("updated_at", time.Now().UTC())
	args = append(args, id)

	query := `UPDATE recordings SET ` + strings.Join(set, ", ") + ` WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update recording: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListByChapter(ctx context.Context, chapterID string) ([]*models.Recording, error) {
	query := `SELECT ` + recordingColumns + ` FROM recordings
		WHERE chapter_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, chapterID)
	if err != nil {
		return nil, fmt.Errorf("failed to select recordings: %w", err)
	}
	defer rows.Close()

	var result []*models.Recording
	for rows.Next() {
		rec, err := scanRecording(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanRecording(scan func(dest ...any) error) (*models.Recording, error) {
	rec := &models.Recording{}
	var status string
	err := scan(&rec.ID, &rec.Title, &rec.Duration, &rec.ChapterID, &rec.UserID,
		&rec.AudioURL, &rec.Transcription, &status, &rec.TaskID, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rec.ProcessingStatus = models.ProcessingStatus(status)
	return rec, nil
}
