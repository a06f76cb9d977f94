package uploads

import (
	"context"

	"memoirvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, session *models.UploadSession) (*models.UploadSession, error)
	Get(ctx context.Context, id, userID string) (*models.UploadSession, error)
	RecordChunk(ctx context.Context, id string, size int64) error
	MarkCompleted(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}
