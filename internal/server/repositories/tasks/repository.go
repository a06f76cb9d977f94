package tasks

import (
	"context"

	"memoirvault/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	Get(ctx context.Context, id, userID string) (*models.Task, error)
	SetProcessing(ctx context.Context, id string, progress int) error
	SetCompleted(ctx context.Context, id string, result []byte) error
	SetFailed(ctx context.Context, id, message string) error
}
