package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/templui/tasbih/internal/app"
	"github.com/templui/tasbih/internal/config"
	"github.com/templui/tasbih/internal/logger"
	"github.com/templui/tasbih/internal/server"
)

func main() {
	cfg := config.Load()

	logger.Init(logger.Options{
		Dev:       cfg.IsDevelopment(),
		Level:     cfg.LogLevel,
		SentryDSN: cfg.SentryDSN,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	err = server.Run(ctx, app)
	if err != nil {
		slog.Error("server failed", "error", err)
		stop()
		app.Close()
		os.Exit(1)
	}
}
