package models

import "time"

// UploadSession is one chunked upload in flight. Chunks are staged on disk
// until completion; the row tracks what the client declared at initiation
// and how much has arrived so far.
type UploadSession struct {
	ID            string
	UserID        string
	ChapterID     string
	FileName      string
	FileSize      int64
	ChunkSize     int64
	ReceivedBytes int64
	ChunkCount    int
	Completed     bool
	CreatedAt     time.Time
}
