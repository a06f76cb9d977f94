package recordings

import (
	"context"

	"memoirvault/internal/client/models"
)

// Patch is a field-scoped partial update. Nil fields are left untouched, so
// concurrent writers touching disjoint fields do not clobber each other.
// There is no optimistic-concurrency token; a concurrent edit of the same
// field last-writes-wins.
type Patch struct {
	Title            *string
	Duration         *float64
	AudioURL         *string
	Transcription    *string
	ProcessingStatus *models.ProcessingStatus
	TaskID           *string
}

// Repository describes CRUD operations for Recording records.
// Implementations are typically backed by a local SQLite database.
type Repository interface {
	// Create inserts a new recording and returns its generated ID.
	// CreatedAt/UpdatedAt are set by the repository.
	Create(ctx context.Context, r *models.Recording) (string, error)

	// GetByID returns one recording, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Recording, error)

	// Update applies a partial update and bumps UpdatedAt.
	Update(ctx context.Context, id string, patch Patch) error

	// Delete removes the recording, regardless of its processing state.
	Delete(ctx context.Context, id string) error

	// ListByChapter returns the chapter's recordings, newest first.
	ListByChapter(ctx context.Context, chapterID string) ([]*models.Recording, error)
}
