package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// ErrStale is returned for a response overtaken by a newer fetch. Its data
// is discarded.
var ErrStale = errors.New("stale response discarded")

type State struct {
	Page         int          `json:"page"`
	Limit        int          `json:"limit"`
	TotalRecords int          `json:"total_records"`
	HasMore      bool         `json:"has_more"`
	Sort         storage.Sort `json:"sort"`
	Loading      bool         `json:"loading"`
}

// Controller turns page, sort and filter state into source fetches and keeps
// the last good result.
type Controller struct {
	source storage.Source
	view   string
	teamID string
	log    *slog.Logger

	mu       sync.Mutex
	gen      uint64
	inflight int
	page     int
	limit    int
	sort     storage.Sort
	filters  map[string]any
	rows     []storage.Row
	columns  []string
	count    int
}

func NewController(log *slog.Logger, source storage.Source, view, teamID string, limit int, sort storage.Sort) *Controller {
	if limit <= 0 {
		limit = 10
	}
	return &Controller{
		source:  source,
		view:    view,
		teamID:  teamID,
		log:     log,
		page:    1,
		limit:   limit,
		sort:    normalizeSort(sort),
		filters: map[string]any{},
	}
}

// SetFilters replaces the filter values and resets the page to 1.
func (c *Controller) SetFilters(filters map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filters = filters
	c.page = 1
}

// SetSort replaces the active sort and resets the page to 1.
func (c *Controller) SetSort(sort storage.Sort) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sort = normalizeSort(sort)
	c.page = 1
}

// SetLimit changes the page size and resets the page to 1.
func (c *Controller) SetLimit(limit int) {
	if limit <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.limit = limit
	c.page = 1
}

// SetTeam switches the active team.
func (c *Controller) SetTeam(teamID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.teamID != teamID {
		c.teamID = teamID
		c.page = 1
	}
}

// Fetch loads page and replaces the buffered rows. On failure the previous
// rows are kept.
func (c *Controller) Fetch(ctx context.Context, page int) (storage.Page, error) {
	return c.run(ctx, page, false)
}

// Refetch reloads the current page.
func (c *Controller) Refetch(ctx context.Context) (storage.Page, error) {
	c.mu.Lock()
	page := c.page
	c.mu.Unlock()
	return c.run(ctx, page, false)
}

// FetchMore appends the next page to the buffered rows. It is a no-op when
// the total count says nothing is left.
func (c *Controller) FetchMore(ctx context.Context) (storage.Page, error) {
	c.mu.Lock()
	if !c.hasMoreLocked() {
		out := storage.Page{Data: cloneRows(c.rows), Count: c.count, Columns: c.columns}
		c.mu.Unlock()
		return out, nil
	}
	next := c.page + 1
	c.mu.Unlock()
	return c.run(ctx, next, true)
}

func (c *Controller) run(ctx context.Context, page int, appendRows bool) (storage.Page, error) {
	const op = "service.fetch.Controller.run"

	if page < 1 {
		page = 1
	}

	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.inflight++
	q := storage.Query{
		View:    c.view,
		TeamID:  c.teamID,
		Page:    page,
		Limit:   c.limit,
		Sort:    c.sort,
		Filters: c.filters,
	}
	c.mu.Unlock()

	res, err := c.source.Fetch(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if gen != c.gen {
		c.log.Debug("discarding stale page",
			slog.String("op", op),
			slog.String("view", c.view),
			slog.Int("page", page),
		)
		return storage.Page{}, ErrStale
	}
	if err != nil {
		return storage.Page{}, fmt.Errorf("%s: fetch %s page %d: %w", op, c.view, page, err)
	}

	if appendRows {
		c.rows = append(c.rows, res.Data...)
	} else {
		c.rows = cloneRows(res.Data)
	}
	if len(res.Columns) > 0 {
		c.columns = res.Columns
	}
	c.page = page
	c.count = res.Count

	return storage.Page{Data: cloneRows(c.rows), Count: c.count, Columns: c.columns}, nil
}

func (c *Controller) hasMoreLocked() bool {
	return c.page*c.limit < c.count
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{
		Page:         c.page,
		Limit:        c.limit,
		TotalRecords: c.count,
		HasMore:      c.hasMoreLocked(),
		Sort:         c.sort,
		Loading:      c.inflight > 0,
	}
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight > 0
}

// Rows returns the buffered rows and source column order.
func (c *Controller) Rows() ([]storage.Row, []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneRows(c.rows), c.columns
}

// Query is the query the next Refetch would send.
func (c *Controller) Query() storage.Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return storage.Query{
		View:    c.view,
		TeamID:  c.teamID,
		Page:    c.page,
		Limit:   c.limit,
		Sort:    c.sort,
		Filters: c.filters,
	}
}

func normalizeSort(s storage.Sort) storage.Sort {
	s.Direction = strings.ToLower(s.Direction)
	if s.Direction != storage.SortAsc {
		s.Direction = storage.SortDesc
	}
	return s
}

func cloneRows(rows []storage.Row) []storage.Row {
	if rows == nil {
		return nil
	}
	out := make([]storage.Row, len(rows))
	copy(out, rows)
	return out
}
