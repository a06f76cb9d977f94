// Package upload implements the client side of the chunked upload protocol:
// slicing a binary audio payload into server-advised chunks, transmitting
// them strictly in order, and completing the session.
package upload

import (
	"context"
	"math"

	"memoirvault/internal/client/api"
	"memoirvault/internal/logging"
)

// DefaultChunkSize is used when the server advises no chunk size.
const DefaultChunkSize = 5 * 1024 * 1024

// DefaultContentType is assumed for payloads that declare no MIME type.
const DefaultContentType = "audio/webm"

// Audio is a binary payload with its declared MIME type.
type Audio struct {
	Data        []byte
	ContentType string // defaults to DefaultContentType when empty
}

func (a Audio) contentType() string {
	if a.ContentType == "" {
		return DefaultContentType
	}
	return a.ContentType
}

// Progress is reported to the caller after every chunk and on phase
// transitions. Err is non-empty exactly once, when the upload aborts.
type Progress struct {
	UploadProgress int
	IsUploading    bool
	IsProcessing   bool
	Err            string
}

// ProgressFunc receives progress updates. May be nil.
type ProgressFunc func(Progress)

// SessionClient is the slice of the API surface the uploader needs.
type SessionClient interface {
	InitiateUpload(ctx context.Context, filename string, fileSize int64, chapterID string) (*api.InitiateResult, error)
	UploadChunk(ctx context.Context, uploadID string, index int, data []byte) error
	CompleteUpload(ctx context.Context, uploadID string) (*api.CompleteResult, error)
}

// Uploader drives one upload session per call. Stateless; safe for
// concurrent use across independent uploads.
type Uploader struct {
	client SessionClient
	logger logging.Logger
}

func NewUploader(client SessionClient, logger logging.Logger) *Uploader {
	return &Uploader{client: client, logger: logger.With("component", "uploader")}
}

// Upload pushes the payload under the given chapter and filename.
//
// Chunks are sent sequentially in increasing index order; each transmission
// must succeed before the next one starts. Any failure aborts the whole
// attempt: the error is surfaced through onProgress.Err and returned. There
// is no chunk-level retry and no resumption across invocations.
func (u *Uploader) Upload(ctx context.Context, audio Audio, chapterID, filename string, onProgress ProgressFunc) (*api.CompleteResult, error) {
	report := func(p Progress) {
		if onProgress != nil {
			onProgress(p)
		}
	}

	result, err := u.upload(ctx, audio, chapterID, filename, report)
	if err != nil {
		report(Progress{UploadProgress: 0, Err: err.Error()})
		return nil, err
	}
	return result, nil
}

func (u *Uploader) upload(ctx context.Context, audio Audio, chapterID, filename string, report ProgressFunc) (*api.CompleteResult, error) {
	fileSize := int64(len(audio.Data))

	report(Progress{UploadProgress: 0, IsUploading: true})
	u.logger.Debug(ctx, "initiating upload",
		"filename", filename, "size", fileSize, "content_type", audio.contentType())

	session, err := u.client.InitiateUpload(ctx, filename, fileSize, chapterID)
	if err != nil {
		return nil, err
	}

	chunkSize := session.ChunkSize
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	totalChunks := int((fileSize + chunkSize - 1) / chunkSize)

	for i := 0; i < totalChunks; i++ {
		start := int64(i) * chunkSize
		end := min(start+chunkSize, fileSize)

		if err := u.client.UploadChunk(ctx, session.UploadID, i, audio.Data[start:end]); err != nil {
			return nil, err
		}

		progress := int(math.Round(float64(i+1) / float64(totalChunks) * 100))
		report(Progress{UploadProgress: progress, IsUploading: true})
	}

	result, err := u.client.CompleteUpload(ctx, session.UploadID)
	if err != nil {
		return nil, err
	}

	report(Progress{UploadProgress: 100, IsProcessing: true})
	u.logger.Info(ctx, "upload complete",
		"upload_id", session.UploadID, "task_id", result.TaskID, "chunks", totalChunks)

	return result, nil
}
