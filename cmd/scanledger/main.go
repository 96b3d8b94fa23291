package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"scanledger/internal/buildinfo"
	"scanledger/internal/cli"
	"scanledger/internal/config"
	"scanledger/internal/logging"
)

func main() {

	buildinfo.Print()

	cfg := config.LoadConfig()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
