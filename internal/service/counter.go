package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/tasbih/internal/dayclock"
	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/repository"
)

// maxSwapAttempts bounds retries when another process sharing the database
// changes the row between our read and our conditional write.
const maxSwapAttempts = 5

var ErrCountContention = errors.New("daily count kept changing during increment")

// IncrementResult is the outcome of one Increment call. Completed is true
// only on the call that moved the goal from below target to at target.
type IncrementResult struct {
	NewCount  int  `json:"new_count"`
	Capped    bool `json:"capped"`
	Completed bool `json:"completed"`
}

// CounterService is the only writer of daily counts.
type CounterService struct {
	goals    repository.GoalRepository
	counts   repository.DailyCountRepository
	clock    *dayclock.Clock
	board    Invalidator
	notifier notify.Notifier
	locks    *keyLock
}

func NewCounterService(
	goals repository.GoalRepository,
	counts repository.DailyCountRepository,
	clock *dayclock.Clock,
	board Invalidator,
	notifier notify.Notifier,
) *CounterService {
	return &CounterService{
		goals:    goals,
		counts:   counts,
		clock:    clock,
		board:    board,
		notifier: notifier,
		locks:    newKeyLock(),
	}
}

// GetTodayCount returns today's count for goalID, 0 when nothing was counted.
func (s *CounterService) GetTodayCount(ctx context.Context, goalID string) (int, error) {
	count, err := s.countFor(ctx, goalID, s.clock.TodayKey())
	if err != nil {
		return 0, s.fail(err)
	}
	return count, nil
}

// Increment adds one to today's count unless the daily limit is reached, in
// which case storage is left alone and Capped is set.
func (s *CounterService) Increment(ctx context.Context, goalID string) (IncrementResult, error) {
	goal, err := s.goals.ByID(ctx, goalID)
	if err != nil {
		return IncrementResult{}, s.fail(err)
	}

	day := s.clock.TodayKey()
	unlock := s.locks.Lock(goalID + "|" + day)
	defer unlock()

	for attempt := 1; attempt <= maxSwapAttempts; attempt++ {
		current, err := s.countFor(ctx, goalID, day)
		if err != nil {
			return IncrementResult{}, s.fail(err)
		}

		if current >= goal.DailyLimit {
			s.notifier.Notify(ctx, model.NotificationInfo, "Daily target already completed!")
			return IncrementResult{NewCount: current, Capped: true}, nil
		}

		next := current + 1
		swapped, err := s.counts.CompareAndSwap(ctx, goalID, day, current, next)
		if err != nil {
			return IncrementResult{}, s.fail(err)
		}
		if !swapped {
			slog.Debug("daily count changed concurrently, retrying",
				"goal_id", goalID, "day", day, "attempt", attempt)
			continue
		}

		s.board.Invalidate()

		result := IncrementResult{NewCount: next, Completed: next == goal.DailyLimit}
		if result.Completed {
			s.notifier.Notify(ctx, model.NotificationSuccess,
				fmt.Sprintf("Target completed for %s!", goal.Name))
		}
		return result, nil
	}

	s.board.Invalidate()
	return IncrementResult{}, errs.Storage("increment", ErrCountContention)
}

// RemainingFor returns how many repetitions are left today, never negative.
func (s *CounterService) RemainingFor(ctx context.Context, goalID string) (int, error) {
	goal, count, err := s.goalAndCount(ctx, goalID)
	if err != nil {
		return 0, err
	}
	return Remaining(goal.DailyLimit, count), nil
}

// ProgressFraction returns today's progress in [0, 1].
func (s *CounterService) ProgressFraction(ctx context.Context, goalID string) (float64, error) {
	goal, count, err := s.goalAndCount(ctx, goalID)
	if err != nil {
		return 0, err
	}
	return ProgressFraction(goal.DailyLimit, count), nil
}

func (s *CounterService) goalAndCount(ctx context.Context, goalID string) (*model.Goal, int, error) {
	goal, err := s.goals.ByID(ctx, goalID)
	if err != nil {
		return nil, 0, s.fail(err)
	}

	count, err := s.countFor(ctx, goalID, s.clock.TodayKey())
	if err != nil {
		return nil, 0, s.fail(err)
	}

	return goal, count, nil
}

func (s *CounterService) countFor(ctx context.Context, goalID, day string) (int, error) {
	row, err := s.counts.Find(ctx, goalID, day)
	if errors.Is(err, repository.ErrDailyCountNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}

// fail drops the board cache after storage errors so the next read reloads.
func (s *CounterService) fail(err error) error {
	if errs.IsStorage(err) {
		s.board.Invalidate()
	}
	return err
}

func Remaining(dailyLimit, count int) int {
	return max(0, dailyLimit-count)
}

func ProgressFraction(dailyLimit, count int) float64 {
	if dailyLimit <= 0 {
		return 1
	}
	return min(1, float64(count)/float64(dailyLimit))
}
