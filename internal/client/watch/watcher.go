// Package watch turns a local folder into an upload inbox: audio files
// dropped into it are picked up once they stop growing and handed to the
// recording pipeline.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"memoirvault/internal/logging"
)

// DefaultSettle is how long a file must stay unchanged before it is
// considered fully written.
const DefaultSettle = 500 * time.Millisecond

var audioExts = map[string]bool{
	".webm": true,
	".wav":  true,
	".mp3":  true,
	".ogg":  true,
}

// IsAudioFile reports whether name carries a supported audio extension.
func IsAudioFile(name string) bool {
	return audioExts[strings.ToLower(filepath.Ext(name))]
}

// HandleFunc receives the absolute path of a settled audio file. A non-nil
// error is logged; the watcher keeps running either way.
type HandleFunc func(ctx context.Context, path string) error

// Watcher observes one directory for new audio files. Writers rarely produce
// a file in a single operation, so the watcher debounces events and only
// reports a file after it has been quiet for the settle window.
type Watcher struct {
	dir    string
	settle time.Duration
	handle HandleFunc
	logger logging.Logger
}

// Option tweaks a Watcher.
type Option func(*Watcher)

// WithSettle overrides DefaultSettle.
func WithSettle(d time.Duration) Option {
	return func(w *Watcher) { w.settle = d }
}

func New(dir string, handle HandleFunc, logger logging.Logger, opts ...Option) *Watcher {
	w := &Watcher{
		dir:    dir,
		settle: DefaultSettle,
		handle: handle,
		logger: logger.With("component", "watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directory until ctx is cancelled. Files already present
// when Run starts are not reported; only files created or modified
// afterwards are.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(w.dir); err != nil {
		return fmt.Errorf("error watching %s: %w", w.dir, err)
	}
	w.logger.Info(ctx, "watching folder", "dir", w.dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(w.settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if !IsAudioFile(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn(ctx, "watch error", "error", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.settle {
					continue
				}
				delete(pending, path)
				w.dispatch(ctx, path)
			}
		}
	}
}

func (w *Watcher) dispatch(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	w.logger.Info(ctx, "new audio file", "path", path, "size", info.Size())
	if err := w.handle(ctx, path); err != nil {
		w.logger.Error(ctx, "upload from watch folder failed", "path", path, "error", err)
	}
}
