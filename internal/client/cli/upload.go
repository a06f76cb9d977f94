package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"memoirvault/internal/client/upload"
)

var contentTypes = map[string]string{
	".webm": "audio/webm",
	".wav":  "audio/wav",
	".mp3":  "audio/mpeg",
	".ogg":  "audio/ogg",
}

func contentTypeForPath(path string) string {
	if ct, ok := contentTypes[strings.ToLower(filepath.Ext(path))]; ok {
		return ct
	}
	return upload.DefaultContentType
}

// Upload prompts for an audio file path, a title and a chapter, then pushes
// the file through the chunked upload pipeline. The call returns as soon as
// the upload completes; transcription progress is tracked in the background
// and lands in the local catalog.
func (a *App) Upload(ctx context.Context) error {
	path, err := getSimpleText(a.reader, "Enter audio file path", os.Stdout)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Error reading file: %s", err.Error())
		return err
	}

	title, err := getSimpleText(a.reader, "Enter title (empty for file name)", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	chapterID, err := a.pickChapter(ctx)
	if err != nil {
		return err
	}

	return a.uploadAudio(ctx, data, contentTypeForPath(path), title, chapterID)
}

func (a *App) uploadAudio(ctx context.Context, data []byte, contentType, title, chapterID string) error {
	audio := upload.Audio{Data: data, ContentType: contentType}

	id, err := a.recordingService.UploadRecordingWithAudio(ctx, audio, title, 0,
		chapterID, a.authService.UserID(), func(p upload.Progress) {
			if p.Err != "" {
				return
			}
			if p.IsProcessing {
				fmt.Println("Upload complete, processing started")
				return
			}
			fmt.Printf("Uploading... %d%%\n", p.UploadProgress)
		})
	if err != nil {
		log.Printf("Upload failed: %s", err.Error())
		return err
	}

	fmt.Printf("Recording %s saved; transcription will appear when ready\n", id)
	return nil
}

func (a *App) pickChapter(ctx context.Context) (string, error) {
	list, err := a.chapterService.List(ctx)
	if err != nil {
		return "", err
	}
	for _, c := range list {
		fmt.Printf("%s  %s\n", c.ID, c.Title)
	}
	return getSimpleText(a.reader, "Enter chapter id", os.Stdout)
}
