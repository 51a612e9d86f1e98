package model

import (
	"time"
)

// Goal is a named recurring task with a daily repetition target.
type Goal struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Text       string    `db:"text" json:"text"`
	DailyLimit int       `db:"daily_limit" json:"daily_limit"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
