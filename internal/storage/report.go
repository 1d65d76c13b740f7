package storage

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("duplicate name")
)

// Row is one record of a report view. Its shape is decided by the view.
type Row map[string]any

const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

type Sort struct {
	Accessor  string `json:"accessor"`
	Direction string `json:"direction"`
}

// Query is everything a list fetch sends to the data source.
type Query struct {
	View    string         `json:"view"`
	TeamID  string         `json:"team_id"`
	Page    int            `json:"page"`
	Limit   int            `json:"limit"`
	Sort    Sort           `json:"sort"`
	Filters map[string]any `json:"filters"`
}

// Offset of the first row of the requested page.
func (q Query) Offset() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// DateRange is an inclusive day range filter. A nil bound is open.
type DateRange struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

func (r DateRange) IsZero() bool {
	return r.From == nil && r.To == nil
}

// Page is one fetched page. Count is the total across all pages; Columns
// carries the source column order when known.
type Page struct {
	Data    []Row    `json:"data"`
	Count   int      `json:"count"`
	Columns []string `json:"columns,omitempty"`
}

// Source answers paginated, filtered, sorted list reads for a view.
type Source interface {
	Fetch(ctx context.Context, q Query) (Page, error)
}
