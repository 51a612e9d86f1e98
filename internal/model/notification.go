package model

import (
	"time"
)

const (
	NotificationSuccess = "success"
	NotificationInfo    = "info"
	NotificationError   = "error"
)

// Notification is a transient message for the presentation layer.
type Notification struct {
	Seq       uint64    `json:"seq"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
