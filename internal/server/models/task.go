package models

import "time"

// TaskKind discriminates what a processing task produces.
type TaskKind string

const (
	TaskKindTranscription TaskKind = "transcription"
	TaskKindCompile       TaskKind = "compile"
)

// TaskStatus is the lifecycle tag of a processing task.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskProcessing TaskStatus = "processing"
	TaskCompleted  TaskStatus = "completed"
	TaskFailed     TaskStatus = "failed"
)

// Task is one unit of background processing. Result holds the JSON-encoded
// payload once the task completes; ErrorMessage is set only on failure.
// Progress is advisory, 0-100, and NULL until the worker first reports it.
type Task struct {
	ID           string
	Kind         TaskKind
	UserID       string
	SubjectID    string
	Status       TaskStatus
	Progress     *int
	Result       []byte
	ErrorMessage string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
