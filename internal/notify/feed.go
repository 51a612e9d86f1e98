package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/templui/tasbih/internal/model"
)

const DefaultCapacity = 50

// Notifier publishes transient user-facing messages.
type Notifier interface {
	Notify(ctx context.Context, kind, message string)
}

// Feed keeps the most recent notifications in memory so a client can poll
// for anything newer than the last sequence number it saw.
type Feed struct {
	mu       sync.RWMutex
	items    []model.Notification
	capacity int
	seq      uint64
	now      func() time.Time
}

func NewFeed(capacity int) *Feed {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Feed{
		items:    make([]model.Notification, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Notify appends a notification, dropping the oldest once full.
func (f *Feed) Notify(ctx context.Context, kind, message string) {
	f.mu.Lock()
	f.seq++
	n := model.Notification{
		Seq:       f.seq,
		Kind:      kind,
		Message:   message,
		CreatedAt: f.now().UTC(),
	}
	if len(f.items) == f.capacity {
		copy(f.items, f.items[1:])
		f.items = f.items[:len(f.items)-1]
	}
	f.items = append(f.items, n)
	f.mu.Unlock()

	level := slog.LevelInfo
	if kind == model.NotificationError {
		level = slog.LevelWarn
	}
	slog.Log(ctx, level, "notification", "kind", kind, "message", message, "seq", n.Seq)
}

// Since returns notifications with a sequence number greater than after,
// oldest first.
func (f *Feed) Since(after uint64) []model.Notification {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []model.Notification{}
	for _, n := range f.items {
		if n.Seq > after {
			out = append(out, n)
		}
	}
	return out
}

// Last returns the newest sequence number issued.
func (f *Feed) Last() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.seq
}
