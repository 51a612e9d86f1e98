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
	ErrDailyCountNotFound = fmt.Errorf("daily count %w", errs.ErrNotFound)
)

const dailyCountColumns = `id, goal_id, date, count, updated_at`

// DailyCountRepository persists per-day tallies. The (goal_id, date) pair is
// unique in the schema; every write goes through a single upsert statement so
// the find-then-write step never creates a second row.
type DailyCountRepository interface {
	Find(ctx context.Context, goalID, date string) (*model.DailyCount, error)
	Upsert(ctx context.Context, goalID, date string, count int) error
	CompareAndSwap(ctx context.Context, goalID, date string, expected, next int) (bool, error)
	ByDate(ctx context.Context, date string) ([]*model.DailyCount, error)
	ByGoal(ctx context.Context, goalID string) ([]*model.DailyCount, error)
	All(ctx context.Context) ([]*model.DailyCount, error)
}

type dailyCountRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewDailyCountRepository(db *sqlx.DB) DailyCountRepository {
	return &dailyCountRepository{db: db, now: time.Now}
}

func (r *dailyCountRepository) Find(ctx context.Context, goalID, date string) (*model.DailyCount, error) {
	count := &model.DailyCount{}
	query := `SELECT ` + dailyCountColumns + ` FROM daily_counts WHERE goal_id = $1 AND date = $2`

	err := r.db.GetContext(ctx, count, query, goalID, date)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDailyCountNotFound
	}
	if err != nil {
		return nil, errs.Storage("find daily count", err)
	}

	return count, nil
}

// Upsert creates the row for (goalID, date) or overwrites its count.
func (r *dailyCountRepository) Upsert(ctx context.Context, goalID, date string, count int) error {
	if count < 0 {
		return errs.Validation("count", "count must not be negative")
	}

	query := `INSERT INTO daily_counts (id, goal_id, date, count, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          ON CONFLICT (goal_id, date) DO UPDATE
	          SET count = excluded.count, updated_at = excluded.updated_at`

	_, err := r.db.ExecContext(ctx, query, uuid.New().String(), goalID, date, count, r.now().UTC())
	if err != nil {
		return errs.Storage("upsert daily count", err)
	}

	return nil
}

// CompareAndSwap writes next only if the stored count still equals expected.
// A missing row counts as zero, so expected == 0 may create the row. It
// reports false when another writer got there first.
func (r *dailyCountRepository) CompareAndSwap(ctx context.Context, goalID, date string, expected, next int) (bool, error) {
	if next < 0 {
		return false, errs.Validation("count", "count must not be negative")
	}

	var (
		result sql.Result
		err    error
	)

	now := r.now().UTC()
	if expected == 0 {
		query := `INSERT INTO daily_counts (id, goal_id, date, count, updated_at)
		          VALUES ($1, $2, $3, $4, $5)
		          ON CONFLICT (goal_id, date) DO UPDATE
		          SET count = excluded.count, updated_at = excluded.updated_at
		          WHERE daily_counts.count = 0`
		result, err = r.db.ExecContext(ctx, query, uuid.New().String(), goalID, date, next, now)
	} else {
		query := `UPDATE daily_counts SET count = $1, updated_at = $2
		          WHERE goal_id = $3 AND date = $4 AND count = $5`
		result, err = r.db.ExecContext(ctx, query, next, now, goalID, date, expected)
	}
	if err != nil {
		return false, errs.Storage("swap daily count", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, errs.Storage("swap daily count", err)
	}

	return rows == 1, nil
}

func (r *dailyCountRepository) ByDate(ctx context.Context, date string) ([]*model.DailyCount, error) {
	counts := []*model.DailyCount{}
	query := `SELECT ` + dailyCountColumns + ` FROM daily_counts WHERE date = $1 ORDER BY goal_id ASC`

	err := r.db.SelectContext(ctx, &counts, query, date)
	if err != nil {
		return nil, errs.Storage("list daily counts", err)
	}

	return counts, nil
}

func (r *dailyCountRepository) ByGoal(ctx context.Context, goalID string) ([]*model.DailyCount, error) {
	counts := []*model.DailyCount{}
	query := `SELECT ` + dailyCountColumns + ` FROM daily_counts WHERE goal_id = $1 ORDER BY date ASC`

	err := r.db.SelectContext(ctx, &counts, query, goalID)
	if err != nil {
		return nil, errs.Storage("list goal daily counts", err)
	}

	return counts, nil
}

func (r *dailyCountRepository) All(ctx context.Context) ([]*model.DailyCount, error) {
	counts := []*model.DailyCount{}
	query := `SELECT ` + dailyCountColumns + ` FROM daily_counts ORDER BY date ASC, goal_id ASC`

	err := r.db.SelectContext(ctx, &counts, query)
	if err != nil {
		return nil, errs.Storage("list all daily counts", err)
	}

	return counts, nil
}
