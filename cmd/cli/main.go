package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"memoirvault/internal/buildinfo"
	"memoirvault/internal/client/cli"
	"memoirvault/internal/client/config"
	"memoirvault/internal/logging"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// the REPL owns stdout; keep structured logs out of the prompt
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
