package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/templui/tasbih/internal/dayclock"
	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/service"
)

type SystemHandler struct {
	db            *sqlx.DB
	clock         *dayclock.Clock
	backupService *service.BackupService
	notifier      notify.Notifier
}

func NewSystemHandler(
	db *sqlx.DB,
	clock *dayclock.Clock,
	backupService *service.BackupService,
	notifier notify.Notifier,
) *SystemHandler {
	return &SystemHandler{
		db:            db,
		clock:         clock,
		backupService: backupService,
		notifier:      notifier,
	}
}

func (h *SystemHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	err := h.db.PingContext(r.Context())
	if err != nil {
		slog.Error("health check failed", "error", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type todayResponse struct {
	Day          string    `json:"day"`
	NextMidnight time.Time `json:"next_midnight"`
}

func (h *SystemHandler) Today(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	writeJSON(w, http.StatusOK, todayResponse{
		Day:          dayclock.Key(now),
		NextMidnight: h.clock.NextMidnight(now),
	})
}

// Export streams every goal and every daily count as a JSON attachment.
func (h *SystemHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.backupService.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=tasbih-%s.json", snapshot.Day))
	writeJSON(w, http.StatusOK, snapshot)
}

func (h *SystemHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
}
