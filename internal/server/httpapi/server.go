// Package httpapi exposes the MemoirVault REST API: account registration,
// JWT login, chunked audio uploads, task status polling and chapter
// compilation.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"memoirvault/internal/logging"
	"memoirvault/internal/server/config"
	"memoirvault/internal/server/queue"
	"memoirvault/internal/server/repositories/recordings"
	"memoirvault/internal/server/repositories/tasks"
	"memoirvault/internal/server/repositories/uploads"
	"memoirvault/internal/server/repositories/users"
	"memoirvault/internal/server/storage"
)

// JobPublisher sends processing jobs to the worker. Satisfied by
// queue.Producer; tests substitute a fake.
type JobPublisher interface {
	Publish(ctx context.Context, job queue.Job) error
}

// Server holds the API's dependencies and builds the gin router.
type Server struct {
	config     *config.Config
	logger     logging.Logger
	users      users.Repository
	uploads    uploads.Repository
	tasks      tasks.Repository
	recordings recordings.Repository
	staging    *storage.Staging
	store      storage.ObjectStore
	jobs       JobPublisher
}

func NewServer(
	cfg *config.Config,
	logger logging.Logger,
	usersRepo users.Repository,
	uploadsRepo uploads.Repository,
	tasksRepo tasks.Repository,
	recordingsRepo recordings.Repository,
	staging *storage.Staging,
	store storage.ObjectStore,
	jobs JobPublisher,
) *Server {
	return &Server{
		config:     cfg,
		logger:     logger.With("component", "httpapi"),
		users:      usersRepo,
		uploads:    uploadsRepo,
		tasks:      tasksRepo,
		recordings: recordingsRepo,
		staging:    staging,
		store:      store,
		jobs:       jobs,
	}
}

// Router builds the gin engine with all routes mounted under /api/v1.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	v1.GET("/health", s.healthHandler)
	v1.POST("/auth/register", s.registerHandler)
	v1.POST("/auth/login", s.loginHandler)

	authGroup := v1.Group("")
	authGroup.Use(jwtAuthMiddleware([]byte(s.config.SecretKey)))
	authGroup.POST("/upload/initiate", s.initiateUploadHandler)
	authGroup.PUT("/upload/chunk/:uploadId/:index", s.uploadChunkHandler)
	authGroup.POST("/upload/complete/:uploadId", s.completeUploadHandler)
	authGroup.GET("/upload/status/:taskId", s.taskStatusHandler)
	authGroup.POST("/chapters/:chapterId/compile", s.compileChapterHandler)
	authGroup.GET("/compile/status/:taskId", s.taskStatusHandler)
	authGroup.GET("/recordings/:chapterId", s.listRecordingsHandler)

	return r
}

// Run serves the API until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.config.EndpointAddrHTTP,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info(ctx, "http server started", "addr", s.config.EndpointAddrHTTP)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
