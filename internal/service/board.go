package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/templui/tasbih/internal/dayclock"
	"github.com/templui/tasbih/internal/markdown"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/repository"
)

// Invalidator drops derived state after the store changed.
type Invalidator interface {
	Invalidate()
}

// BoardService serves the goal list with today's counts from a read-through
// cache. The store stays the source of truth: the cache is dropped after
// every mutation, on day change and after storage errors, and is rebuilt on
// the next read.
type BoardService struct {
	goals  repository.GoalRepository
	counts repository.DailyCountRepository
	clock  *dayclock.Clock
	parser *markdown.Parser

	mu     sync.Mutex
	cached *model.Board
}

func NewBoardService(
	goals repository.GoalRepository,
	counts repository.DailyCountRepository,
	clock *dayclock.Clock,
	parser *markdown.Parser,
) *BoardService {
	return &BoardService{
		goals:  goals,
		counts: counts,
		clock:  clock,
		parser: parser,
	}
}

// View returns today's board. The result is shared and must not be modified.
func (s *BoardService) View(ctx context.Context) (*model.Board, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	day := s.clock.TodayKey()
	if s.cached != nil && s.cached.Day == day {
		return s.cached, nil
	}

	board, err := s.load(ctx, day)
	if err != nil {
		s.cached = nil
		return nil, err
	}

	s.cached = board
	return board, nil
}

func (s *BoardService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *BoardService) load(ctx context.Context, day string) (*model.Board, error) {
	goals, err := s.goals.Goals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load goals: %w", err)
	}

	counts, err := s.counts.ByDate(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to load today's counts: %w", err)
	}

	today := make(map[string]int, len(counts))
	for _, c := range counts {
		today[c.GoalID] = c.Count
	}

	board := &model.Board{
		Day:   day,
		Goals: make([]*model.GoalProgress, 0, len(goals)),
	}
	for _, goal := range goals {
		board.Goals = append(board.Goals, s.progress(goal, today[goal.ID]))
	}

	slog.Debug("board rebuilt", "day", day, "goals", len(goals))
	return board, nil
}

func (s *BoardService) progress(goal *model.Goal, count int) *model.GoalProgress {
	html, err := s.parser.RenderString(goal.Text)
	if err != nil {
		slog.Warn("failed to render goal text", "error", err, "goal_id", goal.ID)
	}

	return &model.GoalProgress{
		Goal:      goal,
		TextHTML:  html,
		Count:     count,
		Remaining: Remaining(goal.DailyLimit, count),
		Progress:  ProgressFraction(goal.DailyLimit, count),
		Completed: count >= goal.DailyLimit,
	}
}
