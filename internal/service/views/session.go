package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/export"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/fetch"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/filters"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/visibility"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

var (
	ErrUnknownView   = errors.New("unknown view")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNotSortable   = errors.New("column is not sortable")
)

// LinkKey is the row key carrying the detail page path.
const LinkKey = "_link"

// Table is what a report screen renders.
type Table struct {
	View    string               `json:"view"`
	Columns []columns.Descriptor `json:"columns"`
	Rows    []map[string]string  `json:"rows"`
	fetch.State
	Filters filters.Values `json:"filters"`
	Staged  filters.Values `json:"staged,omitempty"`
}

// Session is the state of one report view for one user.
type Session struct {
	def    Definition
	userID string
	log    *slog.Logger
	store  storage.ViewConfigStore
	source storage.Source

	form    *filters.Form
	ctrl    *fetch.Controller
	deriver *columns.Deriver
	hidden  *visibility.Store

	mu         sync.Mutex
	teamName   string
	group      storage.SecurityGroup
	hiddenInit bool
}

func newSession(log *slog.Logger, def Definition, req Request, group storage.SecurityGroup, cfg *storage.ViewConfig, source storage.Source, store storage.ViewConfigStore) *Session {
	s := &Session{
		def:      def,
		userID:   req.UserID,
		log:      log.With(slog.String("view", def.Key), slog.String("user_id", req.UserID)),
		store:    store,
		source:   source,
		deriver:  columns.NewDeriver(def.Registry, def.Excluded, def.Prefixes),
		teamName: req.TeamName,
		group:    group,
	}

	sort := def.DefaultSort
	limit := def.DefaultLimit
	var persisted filters.Values
	var hidden []string
	if cfg != nil {
		persisted = cfg.Filters
		hidden = cfg.Hidden
		s.hiddenInit = true
		if cfg.Sort.Accessor != "" {
			sort = cfg.Sort
		}
		if cfg.Limit > 0 {
			limit = cfg.Limit
		}
	}

	s.hidden = visibility.New(def.ColumnKey(), hidden)
	s.ctrl = fetch.NewController(log, source, def.Key, req.TeamID, limit, sort)
	s.form = filters.NewForm(def.Filters, persisted, s.onFilterChange)
	s.applyFilters(s.form.Values())
	return s
}

// onFilterChange is the form hook: reset to page 1 with the new values and
// persist them. The refetch itself is issued by the caller.
func (s *Session) onFilterChange(applied filters.Values) {
	s.applyFilters(applied)
	s.persist(context.Background())
}

func (s *Session) applyFilters(applied filters.Values) {
	if n, ok := applied[FilterLimit].(int); ok && n > 0 {
		s.ctrl.SetLimit(n)
	}
	s.mu.Lock()
	group := s.group
	s.mu.Unlock()
	s.ctrl.SetFilters(sourceFilters(s.form, group))
}

func sourceFilters(form *filters.Form, group storage.SecurityGroup) map[string]any {
	eff := form.Effective(group)
	out := make(map[string]any, len(eff))
	for k, v := range eff {
		if k == FilterLimit || !filters.IsActive(v) {
			continue
		}
		out[k] = v
	}
	return out
}

// bind refreshes the team and security group the session reads under.
func (s *Session) bind(req Request, group storage.SecurityGroup) {
	s.mu.Lock()
	s.teamName = req.TeamName
	s.group = group
	s.mu.Unlock()

	s.ctrl.SetTeam(req.TeamID)
	next := sourceFilters(s.form, group)
	if !sameFilters(s.ctrl.Query().Filters, next) {
		s.ctrl.SetFilters(next)
	}
}

func sameFilters(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !filters.Equal(av, bv) {
			return false
		}
	}
	return true
}

// Table fetches page and renders it. On a fetch error the previous rows stay
// buffered and the error is returned.
func (s *Session) Table(ctx context.Context, page int) (*Table, error) {
	_, err := s.ctrl.Fetch(ctx, page)
	if err != nil && !errors.Is(err, fetch.ErrStale) {
		return nil, err
	}
	return s.render(ctx), nil
}

// More appends the next page (infinite scroll).
func (s *Session) More(ctx context.Context) (*Table, error) {
	_, err := s.ctrl.FetchMore(ctx)
	if err != nil && !errors.Is(err, fetch.ErrStale) {
		return nil, err
	}
	return s.render(ctx), nil
}

// SetFilter stages or applies one filter value. A real change refetches
// page 1; otherwise the buffered table is returned.
func (s *Session) SetFilter(ctx context.Context, key string, value any) (*Table, bool, error) {
	changed, err := s.form.Set(key, value)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return s.render(ctx), false, nil
	}
	t, err := s.Table(ctx, 1)
	return t, true, err
}

// SubmitFilters applies staged values (search submit, dropdown close).
func (s *Session) SubmitFilters(ctx context.Context) (*Table, []string, error) {
	changed := s.form.Submit()
	if len(changed) == 0 {
		return s.render(ctx), nil, nil
	}
	t, err := s.Table(ctx, 1)
	return t, changed, err
}

// SetSort switches the sort column and reloads page 1.
func (s *Session) SetSort(ctx context.Context, sort storage.Sort) (*Table, error) {
	if cols := s.deriver.Last(); len(cols) > 0 {
		found := false
		for _, c := range cols {
			if c.Accessor != sort.Accessor {
				continue
			}
			if !c.Sortable {
				return nil, fmt.Errorf("%w: %s", ErrNotSortable, sort.Accessor)
			}
			found = true
		}
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, sort.Accessor)
		}
	}
	s.ctrl.SetSort(sort)
	s.persist(ctx)
	return s.Table(ctx, 1)
}

// ToggleColumn flips one column's visibility and reports the new state.
func (s *Session) ToggleColumn(ctx context.Context, accessor string) (bool, error) {
	if cols := s.deriver.Last(); len(cols) > 0 && !hasColumn(cols, accessor) {
		return false, fmt.Errorf("%w: %s", ErrUnknownColumn, accessor)
	}
	hidden := s.hidden.Toggle(accessor)
	s.persist(ctx)
	return hidden, nil
}

// Columns returns the last derived columns with their hidden flags.
func (s *Session) Columns() []columns.Descriptor {
	return s.hidden.Apply(s.deriver.Last())
}

// Export reads every page under the current filters and flattens the
// visible columns.
func (s *Session) Export(ctx context.Context, pageSize, concurrency int, ext string) (export.Table, string, error) {
	q := s.ctrl.Query()
	q.Limit = pageSize

	rows, order, err := export.CollectAll(ctx, s.source, q, concurrency)
	if err != nil {
		return export.Table{}, "", err
	}

	cols := s.deriver.Last()
	if len(cols) == 0 && len(rows) > 0 {
		cols = s.deriver.Derive(rows[0], order)
		s.initHidden(ctx, cols)
	}
	table := export.Format(s.hidden.Apply(cols), rows)

	s.mu.Lock()
	group := s.group
	s.mu.Unlock()

	eff := s.form.Effective(group)
	segment := make(map[string]any, len(eff))
	var segOrder []string
	for _, k := range s.form.Order() {
		if k == FilterLimit || !filters.IsActive(eff[k]) {
			continue
		}
		segment[k] = eff[k]
		segOrder = append(segOrder, k)
	}
	return table, export.FileName(s.def.Key, segment, segOrder, ext), nil
}

func (s *Session) render(ctx context.Context) *Table {
	rows, order := s.ctrl.Rows()

	var sample storage.Row
	if len(rows) > 0 {
		sample = rows[0]
	}
	cols := s.deriver.Derive(sample, order)
	s.initHidden(ctx, cols)
	cols = s.hidden.Apply(cols)

	s.mu.Lock()
	teamName := s.teamName
	s.mu.Unlock()

	out := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		cells := make(map[string]string, len(cols)+1)
		for _, c := range cols {
			if !c.Hidden {
				cells[c.Accessor] = c.Render(row)
			}
		}
		if s.def.DetailKind != "" {
			if id := columns.Text(row[s.def.DetailIDKey]); id != "" {
				cells[LinkKey] = DetailLink(teamName, s.def.DetailKind, id)
			}
		}
		out = append(out, cells)
	}

	return &Table{
		View:    s.def.Key,
		Columns: cols,
		Rows:    out,
		State:   s.ctrl.State(),
		Filters: s.form.Values(),
		Staged:  s.form.Staged(),
	}
}

// initHidden seeds the hidden set once, the first time columns are known.
func (s *Session) initHidden(ctx context.Context, cols []columns.Descriptor) {
	if len(cols) == 0 {
		return
	}
	s.mu.Lock()
	if s.hiddenInit {
		s.mu.Unlock()
		return
	}
	s.hiddenInit = true
	s.mu.Unlock()

	for _, a := range visibility.Defaults(cols, s.def.AlwaysVisible) {
		s.hidden.SetHidden(a, true)
	}
	s.persist(ctx)
}

func (s *Session) persist(ctx context.Context) {
	const op = "service.views.Session.persist"

	if s.store == nil {
		return
	}
	st := s.ctrl.State()
	cfg := &storage.ViewConfig{
		UserID:    s.userID,
		ViewKey:   s.def.Key,
		Version:   s.def.Version,
		Hidden:    s.hidden.Hidden(),
		Filters:   s.form.Values(),
		Sort:      st.Sort,
		Limit:     st.Limit,
		UpdatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveViewConfig(ctx, cfg); err != nil {
		s.log.Error("failed to persist view config", slog.String("op", op), slog.String("error", err.Error()))
	}
}

func hasColumn(cols []columns.Descriptor, accessor string) bool {
	for _, c := range cols {
		if c.Accessor == accessor {
			return true
		}
	}
	return false
}
