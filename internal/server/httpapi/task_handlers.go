package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"memoirvault/internal/common"
	"memoirvault/internal/server/models"
	"memoirvault/internal/server/queue"
)

// taskStatusHandler serves both /upload/status/:taskId and
// /compile/status/:taskId; the stored task row already knows its kind and
// result shape. A result is attached only on completed, an error message
// only on failed.
func (s *Server) taskStatusHandler(c *gin.Context) {
	task, err := s.tasks.Get(c.Request.Context(), c.Param("taskId"), currentUserID(c))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		s.logger.Error(c.Request.Context(), "failed to load task", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	resp := gin.H{"status": string(task.Status)}
	switch task.Status {
	case models.TaskPending, models.TaskProcessing:
		if task.Progress != nil {
			resp["progress"] = *task.Progress
		}
	case models.TaskCompleted:
		resp["result"] = json.RawMessage(task.Result)
	case models.TaskFailed:
		if task.ErrorMessage != "" {
			resp["error"] = task.ErrorMessage
		}
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) compileChapterHandler(c *gin.Context) {
	ctx := c.Request.Context()
	chapterID := c.Param("chapterId")
	userID := currentUserID(c)

	recs, err := s.recordings.ListByChapter(ctx, userID, chapterID)
	if err != nil {
		s.logger.Error(ctx, "failed to list recordings", "chapter_id", chapterID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	transcribed := 0
	for _, r := range recs {
		if r.Status == models.TaskCompleted {
			transcribed++
		}
	}
	if transcribed == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "chapter has no transcribed recordings"})
		return
	}

	task, err := s.tasks.Create(ctx, &models.Task{
		Kind:      models.TaskKindCompile,
		UserID:    userID,
		SubjectID: chapterID,
		Status:    models.TaskPending,
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create compile task", "chapter_id", chapterID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create task"})
		return
	}

	if err := s.jobs.Publish(ctx, queue.Job{
		TaskID:    task.ID,
		Kind:      string(models.TaskKindCompile),
		UserID:    userID,
		SubjectID: chapterID,
		ChapterID: chapterID,
	}); err != nil {
		s.logger.Error(ctx, "failed to publish compile job", "task_id", task.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to schedule compilation"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"taskId": task.ID, "status": string(models.TaskPending)})
}

func (s *Server) listRecordingsHandler(c *gin.Context) {
	recs, err := s.recordings.ListByChapter(c.Request.Context(), currentUserID(c), c.Param("chapterId"))
	if err != nil {
		s.logger.Error(c.Request.Context(), "failed to list recordings", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	out := make([]gin.H, 0, len(recs))
	for _, r := range recs {
		item := gin.H{
			"id":            r.ID,
			"title":         r.Title,
			"duration":      r.Duration,
			"transcription": r.Transcription,
			"status":        string(r.Status),
		}
		if r.AudioKey != "" {
			if url, err := s.store.PresignGetURL(c.Request.Context(), r.AudioKey); err == nil {
				item["audioUrl"] = url
			}
		}
		out = append(out, item)
	}

	c.JSON(http.StatusOK, gin.H{"recordings": out})
}
