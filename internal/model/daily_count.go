package model

import (
	"time"
)

// DayKeyLayout formats a local calendar day as YYYY-MM-DD.
const DayKeyLayout = "2006-01-02"

// DailyCount is the progress record for one goal on one calendar day.
// At most one row exists per (GoalID, Date).
type DailyCount struct {
	ID        string    `db:"id" json:"id"`
	GoalID    string    `db:"goal_id" json:"goal_id"`
	Date      string    `db:"date" json:"date"`
	Count     int       `db:"count" json:"count"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
