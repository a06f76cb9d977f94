package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"memoirvault/internal/client/models"
)

// Chapters lists all chapters.
func (a *App) Chapters(ctx context.Context) error {
	list, err := a.chapterService.List(ctx)
	if err != nil {
		log.Println(err.Error())
		return err
	}

	for _, c := range list {
		fmt.Printf("%s  %s\n", c.ID, c.Title)
		if c.Description != "" {
			fmt.Printf("    %s\n", c.Description)
		}
	}
	return nil
}

// AddChapter creates a new chapter.
func (a *App) AddChapter(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter chapter title", os.Stdout)
	if err != nil {
		return err
	}

	description, err := getSimpleText(a.reader, "Enter description (optional)", os.Stdout)
	if err != nil {
		return err
	}

	id, err := a.chapterService.Add(ctx, title, description)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Chapter %s created\n", id)
	return nil
}

// DeleteChapter removes a chapter from the local catalog.
func (a *App) DeleteChapter(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter chapter id to delete", os.Stdout)
	if err != nil {
		return err
	}

	if err := a.chapterService.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	return nil
}

// Compile asks the server to weave a chapter's transcriptions into a story
// and blocks until the result is ready, reporting progress along the way.
func (a *App) Compile(ctx context.Context) error {
	chapterID, err := a.pickChapter(ctx)
	if err != nil {
		return err
	}

	result, err := a.chapterService.Compile(ctx, chapterID,
		func(status models.ProcessingStatus, progress *int) {
			if progress != nil {
				fmt.Printf("Compiling... %s (%d%%)\n", status, *progress)
				return
			}
			fmt.Printf("Compiling... %s\n", status)
		})
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Println(result.CompiledText)
	if result.Summary != "" {
		fmt.Printf("Summary: %s\n", result.Summary)
	}
	for _, p := range result.KeyPoints {
		fmt.Printf("- %s\n", p)
	}
	return nil
}
