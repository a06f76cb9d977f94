package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"memoirvault/internal/logging"
	"memoirvault/internal/server/config"
	"memoirvault/internal/server/db"
	"memoirvault/internal/server/queue"
	"memoirvault/internal/server/storage"
)

const defaultPoolSize = 3

// App ties the Kafka consumer to the worker pool. It shares the server's
// config, database and object storage but runs as its own process.
type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    db.RepositoryManager
	consumer *queue.Consumer
	pool     *Pool
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

	processor := NewProcessor(repos.Tasks(), repos.Recordings(), store,
		NewHTTPTranscriber(c.STTEndpoint), logger)

	return &App{
		config:   c,
		logger:   logger,
		repos:    repos,
		consumer: queue.NewConsumer(c.KafkaBrokers, c.KafkaTopic, logger),
		pool:     NewPool(defaultPoolSize, processor, logger),
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

	app.logger.Info(ctx, "Starting worker...")

	app.initSignalHandler(cancelFunc)

	app.pool.Start(ctx)

	if err := app.consumer.Start(ctx, app.pool.Jobs); err != nil {
		app.logger.Error(ctx, "consumer error", "error", err)
		cancelFunc()
	}

	app.pool.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
