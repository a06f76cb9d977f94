package services

import (
	"context"
	"fmt"
	"time"

	"memoirvault/internal/client/api"
	"memoirvault/internal/client/models"
	"memoirvault/internal/client/poll"
	"memoirvault/internal/client/repositories/chapters"
	"memoirvault/internal/logging"
)

// ChapterService manages local chapters and drives server-side chapter
// compilation.
type ChapterService interface {
	Add(ctx context.Context, title, description string) (string, error)
	List(ctx context.Context) ([]*models.Chapter, error)
	Delete(ctx context.Context, id string) error

	// Compile asks the server to weave the chapter's transcriptions into a
	// story and blocks until the compilation task reaches a terminal state.
	// onUpdate, if non-nil, receives every status snapshot along the way.
	Compile(ctx context.Context, chapterID string, onUpdate func(status models.ProcessingStatus, progress *int)) (*models.CompileResult, error)
}

type chapterService struct {
	client api.Client
	repo   chapters.Repository
	logger logging.Logger

	pollInterval time.Duration
	sleep        poll.Sleeper
}

func NewChapterService(client api.Client, repo chapters.Repository, logger logging.Logger, opts ...ChapterOption) ChapterService {
	s := &chapterService{
		client:       client,
		repo:         repo,
		logger:       logger.With("component", "chapter_service"),
		pollInterval: poll.DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ChapterOption tweaks the service.
type ChapterOption func(*chapterService)

// WithCompilePollInterval overrides the fixed delay between compile polls.
func WithCompilePollInterval(d time.Duration) ChapterOption {
	return func(s *chapterService) { s.pollInterval = d }
}

// WithCompileSleeper overrides the poll delay mechanism, for tests.
func WithCompileSleeper(sleep poll.Sleeper) ChapterOption {
	return func(s *chapterService) { s.sleep = sleep }
}

func (s *chapterService) Add(ctx context.Context, title, description string) (string, error) {
	id, err := s.repo.Create(ctx, &models.Chapter{Title: title, Description: description})
	if err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}
	return id, nil
}

func (s *chapterService) List(ctx context.Context) ([]*models.Chapter, error) {
	result, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing chapters: %w", err)
	}
	return result, nil
}

func (s *chapterService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting chapter: %w", err)
	}
	return nil
}

func (s *chapterService) Compile(ctx context.Context, chapterID string, onUpdate func(status models.ProcessingStatus, progress *int)) (*models.CompileResult, error) {
	started, err := s.client.CompileChapter(ctx, chapterID)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "compilation started", "chapter_id", chapterID, "task_id", started.TaskID)

	opts := []poll.Option[models.CompileResult]{
		poll.WithInterval[models.CompileResult](s.pollInterval),
	}
	if s.sleep != nil {
		opts = append(opts, poll.WithSleeper[models.CompileResult](s.sleep))
	}

	p := poll.New(func(ctx context.Context) (models.TaskState, error) {
		return s.client.GetCompileStatus(ctx, started.TaskID)
	}, opts...)

	var (
		result  *models.CompileResult
		pollErr error
	)
	p.Run(ctx, poll.Callbacks[models.CompileResult]{
		OnStatusUpdate: onUpdate,
		OnComplete: func(r models.CompileResult) {
			result = &r
		},
		OnError: func(message string) {
			pollErr = fmt.Errorf("compilation failed: %s", message)
		},
	})
	if pollErr != nil {
		return nil, pollErr
	}
	if result == nil {
		// polling ended without a terminal callback, i.e. ctx cancelled
		return nil, ctx.Err()
	}
	return result, nil
}
