package chapters

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
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

func (r *SQLiteRepository) Create(ctx context.Context, c *models.Chapter) (string, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	query := `INSERT INTO chapters (id, title, description, created_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, id, c.Title, c.Description, now); err != nil {
		return "", fmt.Errorf("failed to insert chapter: %w", err)
	}

	c.ID = id
	c.CreatedAt = now
	return id, nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Chapter, error) {
	query := `SELECT id, title, description, created_at FROM chapters WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	c := &models.Chapter{}
	err := row.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select chapter: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.Chapter, error) {
	query := `SELECT id, title, description, created_at FROM chapters ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select chapters: %w", err)
	}
	defer rows.Close()

	var result []*models.Chapter
	for rows.Next() {
		c := &models.Chapter{}
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM chapters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
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
