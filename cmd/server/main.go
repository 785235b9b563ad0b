package main

import (
	"context"
	"log/slog"
	"os"

	"go-calc-auth/internal/app"
	"go-calc-auth/internal/config"
	"go-calc-auth/internal/logger"
)

func main() {
	// Until config is loaded, log with colors at info level.
	slog.SetDefault(logger.New(os.Stdout, "INFO", false))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.IsProd()))
	slog.Info("configuration loaded", "mode", cfg.Mode())

	application, err := app.New(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		slog.Error("application run failed", "error", err)
		os.Exit(1)
	}
}
