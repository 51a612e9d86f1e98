package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/markdown"
	"github.com/templui/tasbih/internal/model"
	"github.com/templui/tasbih/internal/notify"
	"github.com/templui/tasbih/internal/repository"
	"github.com/templui/tasbih/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type GoalService struct {
	repo     repository.GoalRepository
	board    Invalidator
	notifier notify.Notifier
	parser   *markdown.Parser
}

func NewGoalService(
	repo repository.GoalRepository,
	board Invalidator,
	notifier notify.Notifier,
	parser *markdown.Parser,
) *GoalService {
	return &GoalService{
		repo:     repo,
		board:    board,
		notifier: notifier,
		parser:   parser,
	}
}

func (s *GoalService) Create(ctx context.Context, name, text string, dailyLimit int) (*model.Goal, error) {
	err := validation.ValidateGoal(name, text, dailyLimit)
	if err != nil {
		return nil, err
	}

	goal := &model.Goal{
		Name:       validation.NormalizeName(name),
		Text:       validation.NormalizeText(text),
		DailyLimit: dailyLimit,
	}

	err = s.repo.Create(ctx, goal)
	if err != nil {
		return nil, s.fail(fmt.Errorf("failed to create goal: %w", err))
	}

	s.board.Invalidate()
	s.notifier.Notify(ctx, model.NotificationSuccess, "Adhkar added successfully!")
	slog.Info("goal created", "goal_id", goal.ID, "name", goal.Name, "daily_limit", goal.DailyLimit)

	return goal, nil
}

func (s *GoalService) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, goalID)
	if err != nil {
		return nil, s.fail(err)
	}
	return goal, nil
}

// Goals lists goals in creation order.
func (s *GoalService) Goals(ctx context.Context) ([]*model.Goal, error) {
	goals, err := s.repo.Goals(ctx)
	if err != nil {
		return nil, s.fail(err)
	}
	return goals, nil
}

// Delete removes a goal and its whole count history. Deleting an unknown
// goal is reported as repository.ErrGoalNotFound.
func (s *GoalService) Delete(ctx context.Context, goalID string) error {
	err := s.repo.Delete(ctx, goalID)
	if err != nil {
		return s.fail(err)
	}

	s.board.Invalidate()
	s.notifier.Notify(ctx, model.NotificationSuccess, "Adhkar deleted successfully.")
	slog.Info("goal deleted", "goal_id", goalID)

	return nil
}

// ImportResult summarises an ImportDir run.
type ImportResult struct {
	Created []*model.Goal
	Skipped []string
}

type goalSeed struct {
	Name       string `yaml:"name"`
	DailyLimit int    `yaml:"daily_limit"`
}

// ImportDir creates goals from markdown files in dir. Each file carries the
// goal's name and daily_limit in its frontmatter and the goal text in its
// body; a missing name falls back to the title-cased file name. Files that
// fail validation or whose name already exists are skipped.
func (s *GoalService) ImportDir(ctx context.Context, dir string) (*ImportResult, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)

	result := &ImportResult{}
	for _, file := range files {
		goal, err := s.importFile(ctx, file)
		if err != nil {
			if errs.IsStorage(err) {
				return result, err
			}
			slog.Warn("skipping goal seed", "file", file, "error", err)
			result.Skipped = append(result.Skipped, filepath.Base(file))
			continue
		}
		result.Created = append(result.Created, goal)
	}

	return result, nil
}

var errSeedExists = errors.New("goal with this name already exists")

func (s *GoalService) importFile(ctx context.Context, path string) (*model.Goal, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var seed goalSeed
	_, found, err := s.parser.ParseWithFrontmatter(source, &seed)
	if err != nil {
		return nil, fmt.Errorf("invalid frontmatter: %w", err)
	}
	if !found {
		return nil, errs.Validation("frontmatter", "frontmatter with daily_limit is required")
	}

	name := seed.Name
	if strings.TrimSpace(name) == "" {
		slug := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		name = cases.Title(language.Und).String(strings.ReplaceAll(slug, "-", " "))
	}

	_, err = s.repo.ByName(ctx, validation.NormalizeName(name))
	if err == nil {
		return nil, errSeedExists
	}
	if !errors.Is(err, repository.ErrGoalNotFound) {
		return nil, s.fail(err)
	}

	return s.Create(ctx, name, string(markdown.Body(source)), seed.DailyLimit)
}

func (s *GoalService) fail(err error) error {
	if errs.IsStorage(err) {
		s.board.Invalidate()
	}
	return err
}
