package routes

import (
	"net/http"

	"github.com/templui/tasbih/internal/app"
	"github.com/templui/tasbih/internal/handler"
	"github.com/templui/tasbih/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	system := handler.NewSystemHandler(app.DB, app.Clock, app.BackupService, app.Feed)
	goal := handler.NewGoalHandler(app.GoalService, app.BoardService, app.CounterService, app.Feed)
	notification := handler.NewNotificationHandler(app.Feed)

	mux := http.NewServeMux()

	// ============================================================================
	// SYSTEM
	// ============================================================================

	mux.HandleFunc("GET /healthz", system.Healthz)
	mux.HandleFunc("GET /api/today", system.Today)
	mux.HandleFunc("GET /api/export", system.Export)

	// ============================================================================
	// GOALS
	// ============================================================================

	// Increments are rate limited per client and goal
	rateLimiter := middleware.RateLimitIncrement(app.Cfg.IncrementRateLimit, app.Cfg.IncrementRateWindow)

	mux.HandleFunc("GET /api/goals", goal.Board)
	mux.HandleFunc("POST /api/goals", goal.Create)
	mux.HandleFunc("GET /api/goals/{id}", goal.Show)
	mux.HandleFunc("DELETE /api/goals/{id}", goal.Delete)
	mux.HandleFunc("POST /api/goals/{id}/increment", rateLimiter(goal.Increment))

	// ============================================================================
	// NOTIFICATIONS
	// ============================================================================

	mux.HandleFunc("GET /api/notifications", notification.List)

	// ============================================================================
	// FALLBACK
	// ============================================================================

	// 404
	mux.HandleFunc("/{path...}", system.NotFound)

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RequestID, // Request id must be set before logging reads it
		middleware.RequestLogging,
	)

	return handler
}
