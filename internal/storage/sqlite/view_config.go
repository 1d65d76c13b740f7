package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type viewConfigRow struct {
	bun.BaseModel `bun:"table:view_configs"`

	UserID        string    `bun:"user_id,pk"`
	ViewKey       string    `bun:"view_key,pk"`
	Version       int       `bun:"version,notnull"`
	Hidden        string    `bun:"hidden,notnull"`
	Filters       string    `bun:"filters,notnull"`
	SortAccessor  string    `bun:"sort_accessor,notnull"`
	SortDirection string    `bun:"sort_direction,notnull"`
	PageLimit     int       `bun:"page_limit,notnull"`
	UpdatedAt     time.Time `bun:"updated_at,notnull"`
}

func (s *Storage) LoadViewConfig(ctx context.Context, userID, viewKey string) (*storage.ViewConfig, error) {
	const op = "storage.sqlite.LoadViewConfig"

	var row viewConfigRow
	err := s.r.NewSelect().
		Model(&row).
		Where("user_id = ?", userID).
		Where("view_key = ?", viewKey).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: select: %w", op, err)
	}

	cfg := &storage.ViewConfig{
		UserID:    row.UserID,
		ViewKey:   row.ViewKey,
		Version:   row.Version,
		Sort:      storage.Sort{Accessor: row.SortAccessor, Direction: row.SortDirection},
		Limit:     row.PageLimit,
		UpdatedAt: row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.Hidden), &cfg.Hidden); err != nil {
		return nil, fmt.Errorf("%s: decode hidden: %w", op, err)
	}
	if err := json.Unmarshal([]byte(row.Filters), &cfg.Filters); err != nil {
		return nil, fmt.Errorf("%s: decode filters: %w", op, err)
	}
	return cfg, nil
}

// SaveViewConfig inserts or replaces the config of one user and view.
func (s *Storage) SaveViewConfig(ctx context.Context, cfg *storage.ViewConfig) error {
	const op = "storage.sqlite.SaveViewConfig"

	hidden := cfg.Hidden
	if hidden == nil {
		hidden = []string{}
	}
	hiddenJSON, err := json.Marshal(hidden)
	if err != nil {
		return fmt.Errorf("%s: encode hidden: %w", op, err)
	}
	filters := cfg.Filters
	if filters == nil {
		filters = map[string]any{}
	}
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("%s: encode filters: %w", op, err)
	}

	updated := cfg.UpdatedAt
	if updated.IsZero() {
		updated = time.Now().UTC()
	}
	row := &viewConfigRow{
		UserID:        cfg.UserID,
		ViewKey:       cfg.ViewKey,
		Version:       cfg.Version,
		Hidden:        string(hiddenJSON),
		Filters:       string(filtersJSON),
		SortAccessor:  cfg.Sort.Accessor,
		SortDirection: cfg.Sort.Direction,
		PageLimit:     cfg.Limit,
		UpdatedAt:     updated,
	}

	err = s.withWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewInsert().
			Model(row).
			On("CONFLICT (user_id, view_key) DO UPDATE").
			Set("version = EXCLUDED.version").
			Set("hidden = EXCLUDED.hidden").
			Set("filters = EXCLUDED.filters").
			Set("sort_accessor = EXCLUDED.sort_accessor").
			Set("sort_direction = EXCLUDED.sort_direction").
			Set("page_limit = EXCLUDED.page_limit").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: upsert: %w", op, err)
	}
	return nil
}

// DeleteViewConfig drops the stored config so the next mount starts from
// defaults.
func (s *Storage) DeleteViewConfig(ctx context.Context, userID, viewKey string) error {
	const op = "storage.sqlite.DeleteViewConfig"

	err := s.withWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().
			Model((*viewConfigRow)(nil)).
			Where("user_id = ?", userID).
			Where("view_key = ?", viewKey).
			Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
