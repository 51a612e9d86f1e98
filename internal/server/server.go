package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/tasbih/internal/app"
	"github.com/templui/tasbih/internal/routes"
)

const shutdownTimeout = 10 * time.Second

// Run starts the app's background tasks and serves the HTTP API until ctx is
// cancelled, then drains in-flight requests.
func Run(ctx context.Context, a *app.App) error {
	a.Start(ctx)

	srv := &http.Server{
		Addr:              ":" + a.Cfg.Port,
		Handler:           routes.SetupRoutes(a),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", a.Cfg.Port, "env", a.Cfg.AppEnv, "url", "http://localhost:"+a.Cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
