package recordings

import (
	"context"

	"memoirvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.Recording) (*models.Recording, error)
	Get(ctx context.Context, id string) (*models.Recording, error)
	SetStatus(ctx context.Context, id string, status models.TaskStatus) error
	SetTranscription(ctx context.Context, id, transcription string, duration float64) error
	ListByChapter(ctx context.Context, userID, chapterID string) ([]*models.Recording, error)
}
