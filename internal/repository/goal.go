package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/templui/tasbih/internal/errs"
	"github.com/templui/tasbih/internal/model"
)

var (
	ErrGoalNotFound = fmt.Errorf("goal %w", errs.ErrNotFound)
)

// GoalRepository persists goals. It is the only place goal identifiers and
// creation timestamps are assigned: Create fills ID with a random UUID and
// CreatedAt with the current UTC time, and neither changes afterwards.
type GoalRepository interface {
	Create(ctx context.Context, goal *model.Goal) error
	ByID(ctx context.Context, goalID string) (*model.Goal, error)
	ByName(ctx context.Context, name string) (*model.Goal, error)
	Goals(ctx context.Context) ([]*model.Goal, error)
	Delete(ctx context.Context, goalID string) error
}

type goalRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db, now: time.Now}
}

func (r *goalRepository) Create(ctx context.Context, goal *model.Goal) error {
	goal.ID = uuid.New().String()
	goal.CreatedAt = r.now().UTC()

	query := `INSERT INTO goals (id, name, text, daily_limit, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query,
		goal.ID,
		goal.Name,
		goal.Text,
		goal.DailyLimit,
		goal.CreatedAt,
	)
	if err != nil {
		return errs.Storage("create goal", err)
	}

	return nil
}

func (r *goalRepository) ByID(ctx context.Context, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT id, name, text, daily_limit, created_at FROM goals WHERE id = $1`

	err := r.db.GetContext(ctx, goal, query, goalID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, errs.Storage("get goal", err)
	}

	return goal, nil
}

func (r *goalRepository) ByName(ctx context.Context, name string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT id, name, text, daily_limit, created_at FROM goals WHERE name = $1
	          ORDER BY created_at ASC, id ASC LIMIT 1`

	err := r.db.GetContext(ctx, goal, query, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, errs.Storage("get goal by name", err)
	}

	return goal, nil
}

// Goals returns every goal in creation order.
func (r *goalRepository) Goals(ctx context.Context) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT id, name, text, daily_limit, created_at FROM goals ORDER BY created_at ASC, id ASC`

	err := r.db.SelectContext(ctx, &goals, query)
	if err != nil {
		return nil, errs.Storage("list goals", err)
	}

	return goals, nil
}

// Delete removes the goal and all of its daily counts in one transaction.
func (r *goalRepository) Delete(ctx context.Context, goalID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errs.Storage("begin delete goal", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM daily_counts WHERE goal_id = $1`, goalID)
	if err != nil {
		return errs.Storage("delete daily counts", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return errs.Storage("delete goal", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errs.Storage("delete goal", err)
	}

	if rows == 0 {
		return ErrGoalNotFound
	}

	err = tx.Commit()
	if err != nil {
		return errs.Storage("commit delete goal", err)
	}

	return nil
}
