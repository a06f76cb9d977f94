// Package worker drains processing jobs from the queue: it transcribes
// uploaded audio via the STT service and compiles chapter stories from
// stored transcriptions, recording progress and results on the task rows.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"memoirvault/internal/logging"
	"memoirvault/internal/server/models"
	"memoirvault/internal/server/queue"
	"memoirvault/internal/server/repositories/recordings"
	"memoirvault/internal/server/repositories/tasks"
	"memoirvault/internal/server/storage"
)

// CompileResult is the payload stored on a completed compile task.
type CompileResult struct {
	CompiledText string   `json:"compiledText"`
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"keyPoints"`
}

const summaryLimit = 200

// Processor executes one job at a time. It is shared by all workers in the
// pool and must stay goroutine-safe: all state lives in the repositories.
type Processor struct {
	tasks       tasks.Repository
	recordings  recordings.Repository
	store       storage.ObjectStore
	transcriber Transcriber
	logger      logging.Logger
}

func NewProcessor(
	tasksRepo tasks.Repository,
	recordingsRepo recordings.Repository,
	store storage.ObjectStore,
	transcriber Transcriber,
	logger logging.Logger,
) *Processor {
	return &Processor{
		tasks:       tasksRepo,
		recordings:  recordingsRepo,
		store:       store,
		transcriber: transcriber,
		logger:      logger.With("component", "worker"),
	}
}

// Process runs the job to completion, marking the task row completed or
// failed. The returned error is for logging only; the job is never retried.
func (p *Processor) Process(ctx context.Context, job queue.Job) error {
	var err error
	switch job.Kind {
	case string(models.TaskKindTranscription):
		err = p.processTranscription(ctx, job)
	case string(models.TaskKindCompile):
		err = p.processCompile(ctx, job)
	default:
		err = fmt.Errorf("unknown job kind: %s", job.Kind)
		p.failTask(ctx, job.TaskID, err.Error())
	}

	if err != nil {
		p.logger.Error(ctx, "job failed", "task_id", job.TaskID, "kind", job.Kind, "error", err)
	}
	return err
}

func (p *Processor) processTranscription(ctx context.Context, job queue.Job) error {
	if err := p.tasks.SetProcessing(ctx, job.TaskID, 10); err != nil {
		return fmt.Errorf("failed to mark task processing: %w", err)
	}

	audio, err := p.store.Get(ctx, job.AudioKey)
	if err != nil {
		p.failTranscription(ctx, job, "could not fetch audio")
		return fmt.Errorf("failed to fetch audio %s: %w", job.AudioKey, err)
	}
	defer audio.Close()

	if err := p.tasks.SetProcessing(ctx, job.TaskID, 50); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	result, err := p.transcriber.Transcribe(ctx, audio, storage.ContentTypeForName(job.AudioKey))
	if err != nil {
		p.failTranscription(ctx, job, "transcription failed")
		return fmt.Errorf("stt failed for task %s: %w", job.TaskID, err)
	}

	if err := p.tasks.SetProcessing(ctx, job.TaskID, 90); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	payload, err := json.Marshal(result)
	if err != nil {
		p.failTranscription(ctx, job, "transcription failed")
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := p.recordings.SetTranscription(ctx, job.SubjectID, result.Transcription, result.Duration); err != nil {
		p.failTranscription(ctx, job, "transcription failed")
		return fmt.Errorf("failed to store transcription: %w", err)
	}

	if err := p.tasks.SetCompleted(ctx, job.TaskID, payload); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	p.logger.Info(ctx, "transcription finished", "task_id", job.TaskID, "recording_id", job.SubjectID)
	return nil
}

func (p *Processor) processCompile(ctx context.Context, job queue.Job) error {
	if err := p.tasks.SetProcessing(ctx, job.TaskID, 10); err != nil {
		return fmt.Errorf("failed to mark task processing: %w", err)
	}

	recs, err := p.recordings.ListByChapter(ctx, job.UserID, job.ChapterID)
	if err != nil {
		p.failTask(ctx, job.TaskID, "could not load chapter recordings")
		return fmt.Errorf("failed to list recordings: %w", err)
	}

	var transcriptions []string
	for _, r := range recs {
		if r.Status == models.TaskCompleted && r.Transcription != "" {
			transcriptions = append(transcriptions, r.Transcription)
		}
	}
	if len(transcriptions) == 0 {
		p.failTask(ctx, job.TaskID, "chapter has no transcribed recordings")
		return fmt.Errorf("no transcriptions in chapter %s", job.ChapterID)
	}

	if err := p.tasks.SetProcessing(ctx, job.TaskID, 60); err != nil {
		return fmt.Errorf("failed to update progress: %w", err)
	}

	result := composeChapter(transcriptions)
	payload, err := json.Marshal(result)
	if err != nil {
		p.failTask(ctx, job.TaskID, "compilation failed")
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	if err := p.tasks.SetCompleted(ctx, job.TaskID, payload); err != nil {
		return fmt.Errorf("failed to complete task: %w", err)
	}

	p.logger.Info(ctx, "compilation finished", "task_id", job.TaskID, "chapter_id", job.ChapterID)
	return nil
}

// composeChapter joins the chapter's transcriptions into one narrative.
// Real story generation is delegated elsewhere; the server's composition is a
// deterministic join with a leading summary and one key point per recording.
func composeChapter(transcriptions []string) *CompileResult {
	compiled := strings.Join(transcriptions, "\n\n")

	summary := compiled
	if runes := []rune(summary); len(runes) > summaryLimit {
		summary = string(runes[:summaryLimit]) + "..."
	}

	keyPoints := make([]string, 0, len(transcriptions))
	for _, t := range transcriptions {
		keyPoints = append(keyPoints, firstSentence(t))
	}

	return &CompileResult{
		CompiledText: compiled,
		Summary:      summary,
		KeyPoints:    keyPoints,
	}
}

func firstSentence(s string) string {
	s = strings.TrimSpace(s)
	for _, sep := range []string{". ", "! ", "? ", "\n"} {
		if i := strings.Index(s, sep); i >= 0 {
			return strings.TrimSpace(s[:i+1])
		}
	}
	return s
}

func (p *Processor) failTranscription(ctx context.Context, job queue.Job, message string) {
	p.failTask(ctx, job.TaskID, message)
	if job.SubjectID != "" {
		if err := p.recordings.SetStatus(ctx, job.SubjectID, models.TaskFailed); err != nil {
			p.logger.Error(ctx, "failed to mark recording failed", "recording_id", job.SubjectID, "error", err)
		}
	}
}

func (p *Processor) failTask(ctx context.Context, taskID, message string) {
	if err := p.tasks.SetFailed(ctx, taskID, message); err != nil {
		p.logger.Error(ctx, "failed to mark task failed", "task_id", taskID, "error", err)
	}
}
