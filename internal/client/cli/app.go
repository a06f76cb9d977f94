package cli

import (
	"bufio"
	"context"
	"os"

	"memoirvault/internal/client/api"
	"memoirvault/internal/client/config"
	"memoirvault/internal/client/identity"
	"memoirvault/internal/client/services"
	"memoirvault/internal/client/store"
	"memoirvault/internal/logging"
)

// App wires configuration, the local catalog, API services and the
// interactive REPL together.
type App struct {
	config           *config.Config
	session          *identity.Session
	authService      services.AuthService
	recordingService services.RecordingService
	chapterService   services.ChapterService
	logger           logging.Logger
	reader           *bufio.Reader
	repos            *store.Repositories
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	repos, err := store.Open(ctx, c.DatabasePath)
	if err != nil {
		logger.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	session := &identity.Session{}
	apiClient := api.NewHTTPClient(c.APIBaseURL, session)

	as := services.NewAuthService(apiClient, session, logger)
	rs := services.NewRecordingService(apiClient, repos.Recordings, logger,
		services.WithPollInterval(c.PollInterval))
	cs := services.NewChapterService(apiClient, repos.Chapters, logger,
		services.WithCompilePollInterval(c.PollInterval))

	return &App{
		config:           c,
		session:          session,
		authService:      as,
		recordingService: rs,
		chapterService:   cs,
		logger:           logger,
		reader:           bufio.NewReader(os.Stdin),
		repos:            repos,
	}, nil
}

// Run starts the REPL and blocks until the user exits. Detached uploads are
// drained before returning so the local catalog ends up consistent.
func (a *App) Run(ctx context.Context) {
	defer a.repos.Close()
	defer a.recordingService.Wait()

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

func (a *App) getStatus() string {
	if a.isLoggedIn() {
		return a.authService.UserID()
	}
	return "guest"
}
