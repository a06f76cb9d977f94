package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"memoirvault/internal/client/api"
	"memoirvault/internal/client/models"
	"memoirvault/internal/client/poll"
	"memoirvault/internal/client/repositories/recordings"
	"memoirvault/internal/client/upload"
	"memoirvault/internal/logging"
)

// RecordingService coordinates a recording's lifecycle: create the local
// record, push the audio through the chunked upload, then reconcile the
// server's processing outcome back into the store.
type RecordingService interface {
	// UploadRecordingWithAudio persists a pending recording, uploads the
	// audio, flips the record to processing, and starts background polling.
	// It returns the recording ID as soon as the upload completes; the
	// caller does not wait for processing.
	UploadRecordingWithAudio(ctx context.Context, audio upload.Audio, title string, duration float64, chapterID, userID string, onProgress upload.ProgressFunc) (string, error)

	// CreateRecording is the legacy direct path for pre-uploaded audio: it
	// persists a completed recording, trusting the supplied URL and
	// duration with no validation and no deduplication.
	CreateRecording(ctx context.Context, title, audioURL string, duration float64, chapterID, userID string) (string, error)

	// Get returns one recording.
	Get(ctx context.Context, id string) (*models.Recording, error)

	// UpdateTitle renames a recording. Title is user-editable independently
	// of the processing flow.
	UpdateTitle(ctx context.Context, id, title string) error

	// Delete removes a recording regardless of its processing state.
	Delete(ctx context.Context, id string) error

	// ListByChapter returns the chapter's recordings, newest first.
	ListByChapter(ctx context.Context, chapterID string) ([]*models.Recording, error)

	// Wait blocks until all detached polling tasks have finished. Intended
	// for graceful shutdown and tests; abandoning them by exiting the
	// process is also fine, the server is never notified either way.
	Wait()
}

type recordingService struct {
	client   api.Client
	uploader *upload.Uploader
	repo     recordings.Repository
	logger   logging.Logger

	pollInterval time.Duration
	sleep        poll.Sleeper

	bg sync.WaitGroup
}

// Option tweaks the service.
type Option func(*recordingService)

// WithPollInterval overrides the fixed delay between status polls.
func WithPollInterval(d time.Duration) Option {
	return func(s *recordingService) { s.pollInterval = d }
}

// WithSleeper overrides the poll delay mechanism, for tests.
func WithSleeper(sleep poll.Sleeper) Option {
	return func(s *recordingService) { s.sleep = sleep }
}

func NewRecordingService(client api.Client, repo recordings.Repository, logger logging.Logger, opts ...Option) RecordingService {
	s := &recordingService{
		client:       client,
		uploader:     upload.NewUploader(client, logger),
		repo:         repo,
		logger:       logger.With("component", "recording_service"),
		pollInterval: poll.DefaultInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *recordingService) UploadRecordingWithAudio(ctx context.Context, audio upload.Audio, title string, duration float64, chapterID, userID string, onProgress upload.ProgressFunc) (string, error) {
	rec := &models.Recording{
		Title:            title,
		Duration:         duration,
		ChapterID:        chapterID,
		UserID:           userID,
		ProcessingStatus: models.StatusPending,
	}
	recordingID, err := s.repo.Create(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}

	// Per-attempt unique filename.
	filename := fmt.Sprintf("recording_%s_%d.webm", recordingID, time.Now().UnixMilli())

	result, err := s.uploader.Upload(ctx, audio, chapterID, filename, onProgress)
	if err != nil {
		return "", err
	}

	status := models.StatusProcessing
	err = s.repo.Update(ctx, recordingID, recordings.Patch{
		TaskID:           &result.TaskID,
		ProcessingStatus: &status,
	})
	if err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}

	// Polling is detached from the caller: its outcome lands on the stored
	// recording, never on this call's error path.
	s.bg.Add(1)
	go s.pollTask(context.WithoutCancel(ctx), result.TaskID, recordingID, duration)

	return recordingID, nil
}

func (s *recordingService) pollTask(ctx context.Context, taskID, recordingID string, originalDuration float64) {
	defer s.bg.Done()

	logger := s.logger.With("recording_id", recordingID, "task_id", taskID)

	opts := []poll.Option[models.TranscriptionResult]{
		poll.WithInterval[models.TranscriptionResult](s.pollInterval),
	}
	if s.sleep != nil {
		opts = append(opts, poll.WithSleeper[models.TranscriptionResult](s.sleep))
	}

	p := poll.New(func(ctx context.Context) (models.TaskState, error) {
		return s.client.GetUploadStatus(ctx, taskID)
	}, opts...)

	p.Run(ctx, poll.Callbacks[models.TranscriptionResult]{
		OnStatusUpdate: func(status models.ProcessingStatus, progress *int) {
			st := status
			if err := s.repo.Update(ctx, recordingID, recordings.Patch{ProcessingStatus: &st}); err != nil {
				logger.Error(ctx, "failed to persist status update", "status", status, "error", err)
			}
		},
		OnComplete: func(result models.TranscriptionResult) {
			duration := originalDuration
			if result.Duration > 0 {
				duration = result.Duration
			}
			status := models.StatusCompleted
			err := s.repo.Update(ctx, recordingID, recordings.Patch{
				ProcessingStatus: &status,
				Transcription:    &result.Transcription,
				Duration:         &duration,
			})
			if err != nil {
				logger.Error(ctx, "failed to persist processing result", "error", err)
				return
			}
			logger.Info(ctx, "processing completed", "duration", duration)
		},
		OnError: func(message string) {
			status := models.StatusFailed
			if err := s.repo.Update(ctx, recordingID, recordings.Patch{ProcessingStatus: &status}); err != nil {
				logger.Error(ctx, "failed to persist failure status", "error", err)
			}
			logger.Error(ctx, "processing failed", "reason", message)
		},
	})
}

func (s *recordingService) CreateRecording(ctx context.Context, title, audioURL string, duration float64, chapterID, userID string) (string, error) {
	rec := &models.Recording{
		Title:            title,
		AudioURL:         audioURL,
		Duration:         duration,
		ChapterID:        chapterID,
		UserID:           userID,
		ProcessingStatus: models.StatusCompleted,
	}
	id, err := s.repo.Create(ctx, rec)
	if err != nil {
		return "", fmt.Errorf("saving error: %w", err)
	}
	return id, nil
}

func (s *recordingService) Get(ctx context.Context, id string) (*models.Recording, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error retrieving recording: %w", err)
	}
	return rec, nil
}

func (s *recordingService) UpdateTitle(ctx context.Context, id, title string) error {
	if err := s.repo.Update(ctx, id, recordings.Patch{Title: &title}); err != nil {
		return fmt.Errorf("error updating recording: %w", err)
	}
	return nil
}

func (s *recordingService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("error deleting recording: %w", err)
	}
	return nil
}

func (s *recordingService) ListByChapter(ctx context.Context, chapterID string) ([]*models.Recording, error) {
	result, err := s.repo.ListByChapter(ctx, chapterID)
	if err != nil {
		return nil, fmt.Errorf("error listing recordings: %w", err)
	}
	return result, nil
}

func (s *recordingService) Wait() {
	s.bg.Wait()
}
