// Package poll implements status polling for server-side processing tasks
// as an explicit loop with a clear exit condition on terminal states.
package poll

import (
	"context"
	"time"

	"memoirvault/internal/client/models"
)

// DefaultInterval is the fixed delay between consecutive status queries.
const DefaultInterval = 2 * time.Second

// DefaultFailureMessage is reported when a failed task carries no message.
const DefaultFailureMessage = "Processing failed"

// StatusFunc fetches one snapshot of the task's state. The task identity is
// bound by the caller, typically with a closure over the API client.
type StatusFunc func(ctx context.Context) (models.TaskState, error)

// Callbacks receive poll outcomes. Any of them may be nil.
//
// OnStatusUpdate fires unconditionally on every snapshot, terminal or not.
// OnComplete fires exactly once when the task completes; OnError fires
// exactly once when the task fails or the status query itself errors.
// OnComplete and OnError are mutually exclusive for one Run.
type Callbacks[R any] struct {
	OnStatusUpdate func(status models.ProcessingStatus, progress *int)
	OnComplete     func(result R)
	OnError        func(message string)
}

// Sleeper waits for d or until ctx is done, returning ctx.Err() in the
// latter case. Tests inject a fake to avoid real delays.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Poller repeatedly queries a task's status until a terminal state is
// observed. Polls for one task are strictly ordered and never overlap;
// independent Pollers share no state and may run concurrently.
type Poller[R any] struct {
	fetch    StatusFunc
	interval time.Duration
	sleep    Sleeper
}

// Option tweaks a Poller.
type Option[R any] func(*Poller[R])

// WithInterval overrides DefaultInterval.
func WithInterval[R any](d time.Duration) Option[R] {
	return func(p *Poller[R]) { p.interval = d }
}

// WithSleeper overrides the delay mechanism, for tests.
func WithSleeper[R any](s Sleeper) Option[R] {
	return func(p *Poller[R]) { p.sleep = s }
}

func New[R any](fetch StatusFunc, opts ...Option[R]) *Poller[R] {
	p := &Poller[R]{fetch: fetch, interval: DefaultInterval, sleep: sleepWithContext}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run polls until the task reaches a terminal state, the status query fails,
// or ctx is cancelled. There is no maximum retry count and no overall
// timeout; cancellation is the only external way to stop a task that never
// terminates.
//
// A transport failure of the status query is terminal: OnError fires with
// the error message and polling stops without retrying.
func (p *Poller[R]) Run(ctx context.Context, cb Callbacks[R]) {
	for {
		state, err := p.fetch(ctx)
		if err != nil {
			if cb.OnError != nil {
				cb.OnError(err.Error())
			}
			return
		}

		if cb.OnStatusUpdate != nil {
			progress, _ := advisoryProgress(state)
			cb.OnStatusUpdate(state.ProcessingStatus(), progress)
		}

		switch st := state.(type) {
		case models.TaskCompleted[R]:
			if cb.OnComplete != nil {
				cb.OnComplete(st.Result)
			}
			return
		case models.TaskFailed:
			if cb.OnError != nil {
				msg := st.Message
				if msg == "" {
					msg = DefaultFailureMessage
				}
				cb.OnError(msg)
			}
			return
		}

		if err := p.sleep(ctx, p.interval); err != nil {
			return
		}
	}
}

func advisoryProgress(s models.TaskState) (*int, bool) {
	if v, ok := models.AdvisoryProgress(s); ok {
		return &v, true
	}
	return nil, false
}
