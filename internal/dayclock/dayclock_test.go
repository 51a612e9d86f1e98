package dayclock

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func fired(t time.Time) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- t
	return ch
}

func TestTodayKey_UsesLocalCalendar(t *testing.T) {
	plus3 := time.FixedZone("UTC+3", 3*60*60)
	utcEvening := time.Date(2026, 3, 1, 22, 30, 0, 0, time.UTC)

	clock := New(plus3, WithNow(func() time.Time { return utcEvening }))
	assert.Equal(t, "2026-03-02", clock.TodayKey())

	utcClock := New(time.UTC, WithNow(func() time.Time { return utcEvening }))
	assert.Equal(t, "2026-03-01", utcClock.TodayKey())
}

func TestTodayKey_StableWithinDayAndChangesAtMidnight(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	fc := &fakeClock{t: time.Date(2026, 6, 10, 0, 0, 0, 0, loc)}
	clock := New(loc, WithNow(fc.Now))

	first := clock.TodayKey()
	changes := 0
	prev := first
	// Walk two full days in 7 minute steps.
	for i := 0; i < 2*24*60/7; i++ {
		fc.Advance(7 * time.Minute)
		key := clock.TodayKey()
		if key != prev {
			changes++
			prev = key
		}
	}
	assert.Equal(t, "2026-06-10", first)
	assert.Equal(t, 1, changes)
	assert.Equal(t, "2026-06-11", prev)

	fc.Advance(24 * time.Hour)
	assert.Equal(t, "2026-06-12", clock.TodayKey())
	assert.Equal(t, clock.TodayKey(), clock.TodayKey())
}

func TestNextMidnight_AcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	clock := New(loc)

	// Clocks spring forward on 2026-03-08, making it a 23 hour day.
	start := time.Date(2026, 3, 8, 0, 0, 0, 0, loc)
	next := clock.NextMidnight(start.Add(time.Hour))
	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, loc), next)
	assert.Equal(t, 23*time.Hour, next.Sub(start))
}

func TestParseKey(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	clock := New(loc)

	day, err := clock.ParseKey("2026-03-02")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 2, 0, 0, 0, 0, loc), day)
	assert.Equal(t, "2026-03-02", Key(day))

	_, err = clock.ParseKey("02/03/2026")
	assert.Error(t, err)
}

func TestOnMidnight_FiresOncePerDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	start := time.Date(2026, 3, 1, 23, 59, 30, 0, loc)
	end := start.Add(72 * time.Hour)
	fc := &fakeClock{t: start}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var waits []time.Duration
	after := func(d time.Duration) <-chan time.Time {
		waits = append(waits, d)
		fc.Advance(d)
		if !fc.Now().Before(end) {
			cancel()
			return nil
		}
		return fired(fc.Now())
	}

	clock := New(loc, WithNow(fc.Now), WithPollInterval(time.Minute), withAfter(after))

	var days []string
	clock.run(ctx, func() {
		days = append(days, clock.TodayKey())
	})

	assert.Equal(t, []string{"2026-03-02", "2026-03-03", "2026-03-04"}, days)
	require.NotEmpty(t, waits)
	assert.Equal(t, 30*time.Second, waits[0])
	for _, w := range waits {
		assert.LessOrEqual(t, w, time.Minute)
	}
}

func TestOnMidnight_SleepPastSeveralMidnights(t *testing.T) {
	loc := time.UTC
	fc := &fakeClock{t: time.Date(2026, 3, 1, 20, 0, 0, 0, loc)}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	after := func(d time.Duration) <-chan time.Time {
		if calls > 0 {
			cancel()
			return nil
		}
		// Suspended for two and a half days instead of the requested wait.
		fc.Advance(60 * time.Hour)
		return fired(fc.Now())
	}

	clock := New(loc, WithNow(fc.Now), WithPollInterval(time.Hour), withAfter(after))

	var keys []string
	clock.run(ctx, func() {
		calls++
		keys = append(keys, clock.TodayKey())
	})

	assert.Equal(t, 1, calls)
	assert.Equal(t, []string{"2026-03-04"}, keys)
}

func TestOnMidnight_StopsOnCancel(t *testing.T) {
	clock := New(time.UTC, WithPollInterval(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		clock.run(ctx, func() {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("midnight task did not stop after cancel")
	}
}
