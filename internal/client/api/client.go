package api

import (
	"context"

	"memoirvault/internal/client/models"
)

// TokenProvider supplies a bearer credential for the active identity
// session. Implementations must return the token fresh on every call;
// the API client never caches it beyond the scope of one request.
//
// An implementation returns common.ErrNotAuthenticated when no session is
// active, which is a fatal precondition failure for all authenticated
// operations.
type TokenProvider interface {
	Token(ctx context.Context) (string, error)
}

// InitiateResult is returned by InitiateUpload.
type InitiateResult struct {
	UploadID string `json:"uploadId"`
	// ChunkSize is the server-advised chunk size in bytes. Zero or negative
	// means no advice; callers fall back to upload.DefaultChunkSize.
	ChunkSize int64 `json:"chunkSize"`
}

// CompleteResult is returned by CompleteUpload once the server has accepted
// all chunks and scheduled processing.
type CompleteResult struct {
	TaskID      string `json:"taskId"`
	RecordingID string `json:"recordingId"`
	Status      string `json:"status"`
}

// CompileStarted is returned by CompileChapter.
type CompileStarted struct {
	TaskID string `json:"taskId"`
	Status string `json:"status"`
}

// LoginResult is returned by Login.
type LoginResult struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// Client is the transport surface over the upload/processing API. Every
// authenticated operation fetches a fresh bearer token from the injected
// TokenProvider and fails fast when no session is active.
type Client interface {
	// Health reports whether the backend is reachable and healthy.
	Health(ctx context.Context) error

	// Register creates an account. Unauthenticated.
	Register(ctx context.Context, username, password string) error

	// Login authenticates and returns a bearer token plus the user ID.
	// Unauthenticated.
	Login(ctx context.Context, username, password string) (*LoginResult, error)

	// InitiateUpload opens an upload session for a file of the given size,
	// grouped under chapterID.
	InitiateUpload(ctx context.Context, filename string, fileSize int64, chapterID string) (*InitiateResult, error)

	// UploadChunk transmits one chunk of raw bytes at the given index.
	UploadChunk(ctx context.Context, uploadID string, index int, data []byte) error

	// CompleteUpload closes the session and returns the processing task.
	CompleteUpload(ctx context.Context, uploadID string) (*CompleteResult, error)

	// GetUploadStatus returns a snapshot of the transcription task state.
	GetUploadStatus(ctx context.Context, taskID string) (models.TaskState, error)

	// CompileChapter asks the server to compile the chapter's completed
	// transcriptions into a story.
	CompileChapter(ctx context.Context, chapterID string) (*CompileStarted, error)

	// GetCompileStatus returns a snapshot of the compilation task state.
	GetCompileStatus(ctx context.Context, taskID string) (models.TaskState, error)
}
