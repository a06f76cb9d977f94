package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"memoirvault/internal/client/watch"
)

// Watch observes a folder and uploads every new audio file dropped into it
// to the chapter chosen up front. The command blocks until interrupted with
// an empty Enter press in a future session or ctx cancellation; in practice
// it runs until the user stops the program.
func (a *App) Watch(ctx context.Context) error {
	dir := a.config.WatchDir
	if dir == "" {
		var err error
		dir, err = getSimpleText(a.reader, "Enter folder to watch", os.Stdout)
		if err != nil {
			return err
		}
	}

	chapterID, err := a.pickChapter(ctx)
	if err != nil {
		return err
	}

	w := watch.New(dir, func(ctx context.Context, path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		title := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return a.uploadAudio(ctx, data, contentTypeForPath(path), title, chapterID)
	}, a.logger)

	fmt.Printf("Watching %s; press Ctrl+C to stop\n", dir)
	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return nil
}
