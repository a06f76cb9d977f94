// Package queue moves processing jobs from the HTTP layer to the worker
// over Kafka.
package queue

// Job is one unit of background work published after an upload completes or
// a compilation is requested. Kind mirrors the task row's kind.
type Job struct {
	TaskID    string `json:"taskId"`
	Kind      string `json:"kind"`
	UserID    string `json:"userId"`
	SubjectID string `json:"subjectId"`
	AudioKey  string `json:"audioKey,omitempty"`
	ChapterID string `json:"chapterId,omitempty"`
}
