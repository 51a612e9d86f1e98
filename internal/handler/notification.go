package handler

import (
	"net/http"
	"strconv"

	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
)

type NotificationHandler struct {
	feed *notify.Feed
}

func NewNotificationHandler(feed *notify.Feed) *NotificationHandler {
	return &NotificationHandler{
		feed: feed,
	}
}

type notificationsResponse struct {
	Notifications []model.Notification `json:"notifications"`
	Last          uint64               `json:"last"`
}

// List returns notifications newer than ?after=N. Clients pass back "last"
// from the previous response to poll for new toasts.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	var after uint64
	if raw := r.URL.Query().Get("after"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			writeError(w, r, nil, errs.Validation("after", "after must be a non-negative integer"))
			return
		}
		after = n
	}

	writeJSON(w, http.StatusOK, notificationsResponse{
		Notifications: h.feed.Since(after),
		Last:          h.feed.Last(),
	})
}
