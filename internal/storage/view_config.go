package storage

import (
	"context"
	"time"
)

// ViewConfig is the persisted per-user state of one report view.
type ViewConfig struct {
	UserID    string         `json:"user_id"`
	ViewKey   string         `json:"view_key"`
	Version   int            `json:"version"`
	Hidden    []string       `json:"hidden"`
	Filters   map[string]any `json:"filters"`
	Sort      Sort           `json:"sort"`
	Limit     int            `json:"limit"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type ViewConfigStore interface {
	LoadViewConfig(ctx context.Context, userID, viewKey string) (*ViewConfig, error)
	SaveViewConfig(ctx context.Context, cfg *ViewConfig) error
	DeleteViewConfig(ctx context.Context, userID, viewKey string) error
}
