package cli

import (
	"context"
	"fmt"
	"log"
	"os"
)

// List prints the recordings of one chapter, newest first.
func (a *App) List(ctx context.Context) error {
	chapterID, err := a.pickChapter(ctx)
	if err != nil {
		return err
	}

	list, err := a.recordingService.ListByChapter(ctx, chapterID)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, r := range list {
		fmt.Printf("%s  [%s]  %s\n", r.ID, r.ProcessingStatus, r.Title)
	}
	return nil
}

// Show prints one recording including its transcription, if ready.
func (a *App) Show(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter recording id to show", os.Stdout)
	if err != nil {
		return err
	}

	rec, err := a.recordingService.Get(ctx, id)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println(rec.Title)
	fmt.Printf("Status: %s\n", rec.ProcessingStatus)
	if rec.Duration > 0 {
		fmt.Printf("Duration: %.1fs\n", rec.Duration)
	}
	if rec.AudioURL != "" {
		fmt.Printf("Audio: %s\n", rec.AudioURL)
	}
	if rec.Transcription != "" {
		fmt.Println(rec.Transcription)
	}
	return nil
}

// Retitle renames a recording.
func (a *App) Retitle(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter recording id to rename", os.Stdout)
	if err != nil {
		return err
	}

	title, err := getSimpleText(a.reader, "Enter new title", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.recordingService.UpdateTitle(ctx, id, title); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return nil
}

// Delete removes a recording from the local catalog.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter recording id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.recordingService.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return nil
}
