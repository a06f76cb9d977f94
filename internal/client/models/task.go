package models

// TaskState is the decoded state of a server-side processing task. Exactly
// one variant exists per status, so invalid combinations (a result on a
// failed task, an error on a completed one) cannot be represented.
//
// Consumers type-switch on the concrete variant:
//
//	switch st := state.(type) {
//	case models.TaskCompleted[models.TranscriptionResult]:
//	    use(st.Result)
//	case models.TaskFailed:
//	    fail(st.Message)
//	}
type TaskState interface {
	// ProcessingStatus returns the status tag for this variant.
	ProcessingStatus() ProcessingStatus
}

// TaskPending means the task is queued and has not started yet.
type TaskPending struct {
	// Progress is advisory, 0–100, and may be absent.
	Progress *int
}

// TaskProcessing means the task is being worked on.
type TaskProcessing struct {
	// Progress is advisory, 0–100, and may be absent. No monotonicity is
	// guaranteed.
	Progress *int
}

// TaskCompleted carries the task result. R is the result shape of the
// endpoint being polled.
type TaskCompleted[R any] struct {
	Result R
}

// TaskFailed carries the server-reported failure message, possibly empty.
type TaskFailed struct {
	Message string
}

func (TaskPending) ProcessingStatus() ProcessingStatus      { return StatusPending }
func (TaskProcessing) ProcessingStatus() ProcessingStatus   { return StatusProcessing }
func (TaskCompleted[R]) ProcessingStatus() ProcessingStatus { return StatusCompleted }
func (TaskFailed) ProcessingStatus() ProcessingStatus       { return StatusFailed }

// AdvisoryProgress extracts the optional progress value from a non-terminal
// state. The second return is false when the state carries none.
func AdvisoryProgress(s TaskState) (int, bool) {
	var p *int
	switch st := s.(type) {
	case TaskPending:
		p = st.Progress
	case TaskProcessing:
		p = st.Progress
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

// TranscriptionResult is produced by a completed audio-processing task.
type TranscriptionResult struct {
	Transcription string  `json:"transcription"`
	Duration      float64 `json:"duration"`
}

// CompileResult is produced by a completed chapter-compilation task.
type CompileResult struct {
	CompiledText string   `json:"compiledText"`
	Summary      string   `json:"summary"`
	KeyPoints    []string `json:"keyPoints"`
}
