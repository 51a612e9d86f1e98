// Package dayclock decides which local calendar day it is and signals when
// that day rolls over.
//
// The day key is always recomputed from wall-clock time; the midnight
// callback is only a refresh trigger and is never the source of truth.
package dayclock

import (
	"context"
	"log/slog"
	"time"

	"github.com/templui/tasbih/internal/model"
)

const DefaultPollInterval = time.Minute

type Clock struct {
	loc  *time.Location
	now  func() time.Time
	poll time.Duration

	// after is time.After, swapped in tests.
	after func(time.Duration) <-chan time.Time
}

type Option func(*Clock)

// WithNow replaces the wall-clock source.
func WithNow(now func() time.Time) Option {
	return func(c *Clock) {
		c.now = now
	}
}

// WithPollInterval caps how long the midnight task sleeps before re-reading
// the wall clock. Monotonic timers can stall while the machine is
// suspended, so the cap bounds how late a rollover is noticed after resume.
func WithPollInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.poll = d
		}
	}
}

func withAfter(after func(time.Duration) <-chan time.Time) Option {
	return func(c *Clock) {
		c.after = after
	}
}

// New returns a clock for loc. A nil loc means time.Local.
func New(loc *time.Location, opts ...Option) *Clock {
	if loc == nil {
		loc = time.Local
	}
	c := &Clock{
		loc:   loc,
		now:   time.Now,
		poll:  DefaultPollInterval,
		after: time.After,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Clock) Location() *time.Location {
	return c.loc
}

// Now returns the current wall-clock time in the clock's location.
func (c *Clock) Now() time.Time {
	return c.now().In(c.loc)
}

// TodayKey returns the local calendar day as YYYY-MM-DD.
func (c *Clock) TodayKey() string {
	return Key(c.Now())
}

// Key formats t's calendar fields, in t's own location, as a day key.
func Key(t time.Time) string {
	return t.Format(model.DayKeyLayout)
}

// ParseKey parses a day key into local midnight of that day.
func (c *Clock) ParseKey(key string) (time.Time, error) {
	return time.ParseInLocation(model.DayKeyLayout, key, c.loc)
}

// NextMidnight returns the start of the local day after t. Normalising
// through time.Date keeps it right across DST changes, where a day is not
// 24 hours long.
func (c *Clock) NextMidnight(t time.Time) time.Time {
	t = t.In(c.loc)
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, c.loc)
}

// UntilMidnight returns the time left in the current local day.
func (c *Clock) UntilMidnight() time.Duration {
	now := c.Now()
	return c.NextMidnight(now).Sub(now)
}

// OnMidnight calls fn once every time the local day changes, until ctx is
// done. The wait is recomputed from the wall clock after every wake, so a
// process that sleeps through one or more midnights gets a single call on
// resume rather than a burst or nothing.
func (c *Clock) OnMidnight(ctx context.Context, fn func()) {
	go c.run(ctx, fn)
}

func (c *Clock) run(ctx context.Context, fn func()) {
	last := c.TodayKey()

	for {
		wait := c.UntilMidnight()
		if wait > c.poll {
			wait = c.poll
		}
		if wait <= 0 {
			// Exactly at the boundary; give the clock a moment to pass it.
			wait = time.Millisecond
		}

		select {
		case <-ctx.Done():
			return
		case <-c.after(wait):
		}

		today := c.TodayKey()
		if today == last {
			continue
		}

		slog.Info("day rolled over", "from", last, "to", today)
		last = today
		fn()
	}
}
