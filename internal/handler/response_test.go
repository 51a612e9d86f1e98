package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/repository"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", errs.Validation("name", "name is required"), http.StatusBadRequest, "name is required"},
		{"wrapped validation", fmt.Errorf("create: %w", errs.Validation("daily_limit", "too small")), http.StatusBadRequest, "too small"},
		{"not found", repository.ErrGoalNotFound, http.StatusNotFound, "Adhkar not found."},
		{"storage", errs.Storage("insert goal", errors.New("disk full")), http.StatusInternalServerError, "Something went wrong. Please try again."},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "Something went wrong. Please try again."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, message := describe(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestWriteErrorNotifies(t *testing.T) {
	feed := notify.NewFeed(10)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/goals/x/increment", nil)

	writeError(rec, req, feed, errs.Storage("upsert count", errors.New("locked")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Something went wrong. Please try again.", body.Error)
	assert.NotContains(t, rec.Body.String(), "locked")

	items := feed.Since(0)
	require.Len(t, items, 1)
	assert.Equal(t, model.NotificationError, items[0].Kind)
}
