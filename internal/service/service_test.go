package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/tasbih/internal/dayclock"
	"github.com/templui/tasbih/internal/db/dbtest"
	"github.com/templui/tasbih/internal/markdown"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/repository"
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

type fixture struct {
	db      *sqlx.DB
	clock   *fakeClock
	day     *dayclock.Clock
	feed    *notify.Feed
	goals   repository.GoalRepository
	counts  repository.DailyCountRepository
	board   *BoardService
	counter *CounterService
	goalSvc *GoalService
	backup  *BackupService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	loc := time.FixedZone("UTC+3", 3*60*60)
	fc := &fakeClock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, loc)}
	day := dayclock.New(loc, dayclock.WithNow(fc.Now))

	database := dbtest.New(t)
	goals := repository.NewGoalRepository(database)
	counts := repository.NewDailyCountRepository(database)
	feed := notify.NewFeed(100)
	parser := markdown.NewParser()
	board := NewBoardService(goals, counts, day, parser)

	return &fixture{
		db:      database,
		clock:   fc,
		day:     day,
		feed:    feed,
		goals:   goals,
		counts:  counts,
		board:   board,
		counter: NewCounterService(goals, counts, day, board, feed),
		goalSvc: NewGoalService(goals, board, feed, parser),
		backup:  NewBackupService(goals, counts, day, nil, 0),
	}
}

func (f *fixture) createGoal(t *testing.T, name string, limit int) *model.Goal {
	t.Helper()
	goal, err := f.goalSvc.Create(context.Background(), name, "", limit)
	require.NoError(t, err)
	return goal
}

func (f *fixture) messages() []string {
	var out []string
	for _, n := range f.feed.Since(0) {
		out = append(out, n.Message)
	}
	return out
}
