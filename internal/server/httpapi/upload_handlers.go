package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"memoirvault/internal/common"
	"memoirvault/internal/server/models"
	"memoirvault/internal/server/queue"
	"memoirvault/internal/server/storage"
)

// maxChunkBytes caps a single chunk body. Clients honor the advised chunk
// size, but the limit protects against misbehaving ones.
const maxChunkBytes = 32 * 1024 * 1024

type initiateUploadRequest struct {
	Filename  string `json:"filename" binding:"required"`
	FileSize  int64  `json:"fileSize" binding:"required"`
	ChapterID string `json:"chapterId" binding:"required"`
}

func (s *Server) initiateUploadHandler(c *gin.Context) {
	var req initiateUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.FileSize <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fileSize must be positive"})
		return
	}

	session, err := s.uploads.Create(c.Request.Context(), &models.UploadSession{
		UserID:    currentUserID(c),
		ChapterID: req.ChapterID,
		FileName:  filepath.Base(req.Filename),
		FileSize:  req.FileSize,
		ChunkSize: s.config.ChunkSize,
	})
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to create upload session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to initiate upload"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"uploadId": session.ID, "chunkSize": session.ChunkSize})
}

func (s *Server) uploadChunkHandler(c *gin.Context) {
	uploadID := c.Param("uploadId")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil || index < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chunk index"})
		return
	}

	session, err := s.uploads.Get(c.Request.Context(), uploadID, currentUserID(c))
	if err != nil {
		s.respondUploadError(c, err)
		return
	}
	if session.Completed {
		s.respondUploadError(c, common.ErrUploadCompleted)
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxChunkBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read chunk"})
		return
	}
	if len(data) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty chunk"})
		return
	}
	if int64(len(data)) > maxChunkBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "chunk too large"})
		return
	}

	if err := s.staging.WriteChunk(uploadID, index, data); err != nil {
		s.logger.Error(c.Request.Context(), "failed to stage chunk", "upload_id", uploadID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store chunk"})
		return
	}
	if err := s.uploads.RecordChunk(c.Request.Context(), uploadID, int64(len(data))); err != nil {
		s.respondUploadError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": len(data)})
}

func (s *Server) completeUploadHandler(c *gin.Context) {
	ctx := c.Request.Context()
	uploadID := c.Param("uploadId")

	session, err := s.uploads.Get(ctx, uploadID, currentUserID(c))
	if err != nil {
		s.respondUploadError(c, err)
		return
	}
	if session.Completed {
		s.respondUploadError(c, common.ErrUploadCompleted)
		return
	}

	var assembled bytes.Buffer
	if err := s.staging.Assemble(uploadID, session.FileSize, &assembled); err != nil {
		s.respondUploadError(c, err)
		return
	}

	key := storage.AudioKey(session.UserID, session.ID, session.FileName)
	if err := s.store.Put(ctx, key, storage.ContentTypeForName(session.FileName), &assembled); err != nil {
		s.logger.Error(ctx, "failed to store audio", "upload_id", uploadID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store audio"})
		return
	}

	title := strings.TrimSuffix(session.FileName, filepath.Ext(session.FileName))
	rec, err := s.recordings.Create(ctx, &models.Recording{
		UserID:    session.UserID,
		ChapterID: session.ChapterID,
		Title:     title,
		AudioKey:  key,
		Status:    models.TaskPending,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create recording", "upload_id", uploadID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create recording"})
		return
	}

	task, err := s.tasks.Create(ctx, &models.Task{
		Kind:      models.TaskKindTranscription,
		UserID:    session.UserID,
		SubjectID: rec.ID,
		Status:    models.TaskPending,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create task", "upload_id", uploadID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	if err := s.uploads.MarkCompleted(ctx, uploadID); err != nil {
		s.respondUploadError(c, err)
		return
	}

	if err := s.jobs.Publish(ctx, queue.Job{
		TaskID:    task.ID,
		Kind:      string(models.TaskKindTranscription),
		UserID:    session.UserID,
		SubjectID: rec.ID,
		AudioKey:  key,
	}); err != nil {
		s.logger.Error(ctx, "failed to publish job", "task_id", task.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule processing"})
		return
	}

	if err := s.staging.Cleanup(uploadID); err != nil {
		s.logger.Warn(ctx, "failed to clean staging", "upload_id", uploadID, "error", err)
	}

	c.JSON(http.StatusOK, gin.H{
		"taskId":      task.ID,
		"recordingId": rec.ID,
		"status":      string(models.TaskPending),
	})
}

func (s *Server) respondUploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrUploadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "upload not found"})
	case errors.Is(err, common.ErrUploadCompleted):
		c.JSON(http.StatusConflict, gin.H{"error": "upload already completed"})
	case errors.Is(err, common.ErrIncompleteUpload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload is missing chunks"})
	case errors.Is(err, common.ErrSizeMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "assembled size does not match declared size"})
	default:
		s.logger.Error(c.Request.Context(), "upload error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
