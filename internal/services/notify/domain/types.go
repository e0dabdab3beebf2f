// Package domain holds notification log types and ports
package domain

import (
	"context"
	"time"
)

// Row is one persisted notification
type Row struct {
	Digest    string    `json:"digest"`
	Result    bool      `json:"result"`
	Outcome   string    `json:"outcome"`
	EmittedAt time.Time `json:"emitted_at"`
}

// RecentInput pages the notification log from the newest entry backwards
type RecentInput struct {
	Limit int `json:"limit,omitempty" validate:"omitempty,min=1,max=500" example:"50"`
}

// ReaderPort lists recent notifications
type ReaderPort interface {
	Recent(ctx context.Context, limit int) ([]Row, error)
}
