package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/tasbih/internal/ctxkeys"
	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps an error kind to a status code, publishes it as an error
// notification and writes it as JSON. Storage failures are logged with
// their cause but reported to the client generically.
func writeError(w http.ResponseWriter, r *http.Request, notifier notify.Notifier, err error) {
	status, message := describe(err)

	if status == http.StatusInternalServerError {
		slog.Error("request failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", ctxkeys.RequestID(r.Context()),
		)
	}

	if notifier != nil {
		notifier.Notify(r.Context(), model.NotificationError, message)
	}
	writeJSON(w, status, errorResponse{Error: message})
}

func describe(err error) (int, string) {
	var validationErr *errs.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Message
	case errs.IsValidation(err):
		return http.StatusBadRequest, err.Error()
	case errs.IsNotFound(err):
		return http.StatusNotFound, "Adhkar not found."
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if err != nil {
		return errs.Validation("body", "request body must be a JSON object")
	}
	return nil
}
