package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/pixelyear/pixelyear/internal/app"
	"github.com/pixelyear/pixelyear/internal/buildinfo"
	"github.com/pixelyear/pixelyear/internal/config"
	"github.com/pixelyear/pixelyear/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	// The data dir must exist before the file logger can live in it.
	if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
		log.Fatalf("%v", err)
		return
	}
	logger := logging.NewFileLogger(cfg.LogFile, slog.LevelInfo)

	a, err := app.NewApp(ctx, cfg, logger)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	a.Run(ctx)

}
