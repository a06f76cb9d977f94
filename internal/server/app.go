// Package server initializes and runs the MemoirVault API server: database
// and migrations, object storage, the Kafka producer, and the HTTP endpoint,
// with graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"memoirvault/internal/logging"
	"memoirvault/internal/server/config"
	"memoirvault/internal/server/db"
	"memoirvault/internal/server/httpapi"
	"memoirvault/internal/server/queue"
	"memoirvault/internal/server/storage"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    db.RepositoryManager
	producer *queue.Producer
	server   *httpapi.Server
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	store, err := storage.NewS3Store(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	producer := queue.NewProducer(c.KafkaBrokers, c.KafkaTopic, logger)

	server := httpapi.NewServer(c, logger,
		repos.Users(), repos.Uploads(), repos.Tasks(), repos.Recordings(),
		storage.NewStaging(c.StagingDir), store, producer)

	return &App{
		config:   c,
		logger:   logger,
		repos:    repos,
		producer: producer,
		server:   server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, "http server error", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.producer.Close(); err != nil {
		app.logger.Error(ctx, "producer close error", "error", err)
	}
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
