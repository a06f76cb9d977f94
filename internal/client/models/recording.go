package models

import "time"

// ProcessingStatus tracks where a recording is in the upload/processing
// pipeline. Transitions are forward-only; completed and failed are terminal.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusCompleted  ProcessingStatus = "completed"
	StatusFailed     ProcessingStatus = "failed"
)

// Valid reports whether s is one of the four known statuses.
func (s ProcessingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// Terminal reports whether no further transitions occur once s is reached.
func (s ProcessingStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Recording is the durable entity representing one captured audio clip and
// its derived artifacts.
//
// Transcription is set only when ProcessingStatus is StatusCompleted.
// TaskID links to the server-side processing task while an upload is in
// flight; exactly one task is associated at a time per active upload.
type Recording struct {
	ID               string
	Title            string
	Duration         float64 // seconds, may be corrected post-processing
	ChapterID        string
	UserID           string
	CreatedAt        time.Time
	UpdatedAt        time.Time
	AudioURL         string // legacy direct-storage URL, optional
	Transcription    string
	ProcessingStatus ProcessingStatus
	TaskID           string
}

// Chapter groups recordings into a story arc. Chapters are a purely local
// organizational unit; the server treats the chapter ID as opaque.
type Chapter struct {
	ID          string
	Title       string
	Description string
	CreatedAt   time.Time
}
