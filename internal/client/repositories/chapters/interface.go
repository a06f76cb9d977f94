// Package chapters persists the client's local chapter list.
package chapters

import (
	"context"

	"memoirvault/internal/client/models"
)

// Repository describes CRUD operations for Chapter records.
type Repository interface {
	// Create inserts a new chapter and returns its generated ID.
	Create(ctx context.Context, c *models.Chapter) (string, error)

	// GetByID returns one chapter, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Chapter, error)

	// List returns all chapters, oldest first.
	List(ctx context.Context) ([]*models.Chapter, error)

	// Delete removes the chapter.
	Delete(ctx context.Context, id string) error
}
