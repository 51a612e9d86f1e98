package handler

import (
	"net/http"

	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/repository"
	"github.com/templui/tasbih/internal/service"
)

type GoalHandler struct {
	goalService    *service.GoalService
	boardService   *service.BoardService
	counterService *service.CounterService
	notifier       notify.Notifier
}

func NewGoalHandler(
	goalService *service.GoalService,
	boardService *service.BoardService,
	counterService *service.CounterService,
	notifier notify.Notifier,
) *GoalHandler {
	return &GoalHandler{
		goalService:    goalService,
		boardService:   boardService,
		counterService: counterService,
		notifier:       notifier,
	}
}

type createGoalRequest struct {
	Name       string `json:"name"`
	Text       string `json:"text"`
	DailyLimit int    `json:"daily_limit"`
}

// Board lists every goal with today's progress.
func (h *GoalHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.boardService.View(r.Context())
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	writeJSON(w, http.StatusOK, board)
}

func (h *GoalHandler) Show(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	board, err := h.boardService.View(r.Context())
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	entry := board.Goal(goalID)
	if entry == nil {
		writeError(w, r, h.notifier, repository.ErrGoalNotFound)
		return
	}

	writeJSON(w, http.StatusOK, entry)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	err := decodeJSON(w, r, &req)
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	goal, err := h.goalService.Create(r.Context(), req.Name, req.Text, req.DailyLimit)
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	err := h.goalService.Delete(r.Context(), goalID)
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Increment(w http.ResponseWriter, r *http.Request) {
	goalID := r.PathValue("id")

	result, err := h.counterService.Increment(r.Context(), goalID)
	if err != nil {
		writeError(w, r, h.notifier, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
