package models

import "time"

// Recording is the server-side record of an uploaded memoir recording.
type Recording struct {
	ID            string
	UserID        string
	ChapterID     string
	Title         string
	AudioKey      string
	Duration      float64
	Transcription string
	Status        TaskStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
