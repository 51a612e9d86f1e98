package model

import (
	"time"
)

// Snapshot is a full export of the local store.
type Snapshot struct {
	ExportedAt  time.Time     `json:"exported_at"`
	Day         string        `json:"day"`
	Goals       []*Goal       `json:"goals"`
	DailyCounts []*DailyCount `json:"daily_counts"`
}
