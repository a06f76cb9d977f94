package main

import (
	"context"
	"log"

	"memoirvault/internal/server/config"
	"memoirvault/internal/server/worker"
)

func main() {
	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := worker.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
