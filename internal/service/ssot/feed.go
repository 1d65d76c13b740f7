package ssot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/constants"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/fetch"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// Version of the persisted SSOT view state.
const Version = 1

const (
	recordKey = "_record"
	tablesKey = "tables"
)

var (
	ErrUnknownTable  = errors.New("unknown ssot table")
	ErrUnknownColumn = errors.New("unknown ssot column")
)

// pageSource exposes SSOT pages to the fetch controller, one record per row.
type pageSource struct {
	src storage.SSOTSource
}

func (p pageSource) Fetch(ctx context.Context, q storage.Query) (storage.Page, error) {
	search, _ := q.Filters[constants.FilterSearch].(string)
	res, err := p.src.ListSSOT(ctx, storage.SSOTQuery{
		TeamID:    q.TeamID,
		Page:      q.Page,
		Limit:     q.Limit,
		Search:    search,
		Direction: q.Sort.Direction,
	})
	if err != nil {
		return storage.Page{}, err
	}
	rows := make([]storage.Row, 0, len(res.Data))
	for _, rec := range res.Data {
		rows = append(rows, storage.Row{recordKey: rec})
	}
	return storage.Page{Data: rows, Count: res.Count}, nil
}

type Request struct {
	TeamID string
	UserID string
}

// View is one rendering of the SSOT spreadsheet.
type View struct {
	Columns []columns.Descriptor `json:"columns"`
	Rows    []NestedRow          `json:"rows"`
	Tables  map[string]bool      `json:"tables"`
	Search  string               `json:"search"`
	fetch.State
}

// Feed is the infinite-scroll state of one user.
type Feed struct {
	userID   string
	log      *slog.Logger
	store    storage.ViewConfigStore
	ctrl     *fetch.Controller
	renderer *Renderer

	mu      sync.Mutex
	search  string
	visible map[string]bool
}

// Manager keeps one feed per user.
type Manager struct {
	log    *slog.Logger
	source storage.SSOTSource
	store  storage.ViewConfigStore
	limit  int

	mu    sync.Mutex
	feeds map[string]*Feed
}

func NewManager(log *slog.Logger, source storage.SSOTSource, store storage.ViewConfigStore, limit int) *Manager {
	if limit <= 0 {
		limit = 10
	}
	return &Manager{
		log:    log,
		source: source,
		store:  store,
		limit:  limit,
		feeds:  make(map[string]*Feed),
	}
}

func (m *Manager) feed(ctx context.Context, req Request) (*Feed, error) {
	const op = "service.ssot.Manager.feed"

	m.mu.Lock()
	f, ok := m.feeds[req.UserID]
	m.mu.Unlock()
	if ok {
		f.ctrl.SetTeam(req.TeamID)
		return f, nil
	}

	state, hidden, err := m.load(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	f = &Feed{
		userID:   req.UserID,
		log:      m.log.With(slog.String("view", constants.ViewSSOT), slog.String("user_id", req.UserID)),
		store:    m.store,
		ctrl:     fetch.NewController(m.log, pageSource{src: m.source}, constants.ViewSSOT, req.TeamID, m.limit, storage.Sort{Accessor: AccessorDateCreated, Direction: storage.SortDesc}),
		renderer: NewRenderer(hidden),
		visible:  map[string]bool{},
	}
	if state != nil {
		f.search, _ = state.Filters[constants.FilterSearch].(string)
		for _, name := range stringList(state.Filters[tablesKey]) {
			if isChildTable(name) {
				f.visible[name] = true
			}
		}
	} else {
		for _, t := range constants.SSOTChildOrder {
			f.visible[t] = true
		}
	}
	f.ctrl.SetFilters(f.filters())

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.feeds[req.UserID]; ok {
		return existing, nil
	}
	m.feeds[req.UserID] = f
	return f, nil
}

// load reads the feed state and the hidden columns of every table at once.
func (m *Manager) load(ctx context.Context, userID string) (*storage.ViewConfig, map[string][]string, error) {
	if m.store == nil {
		return nil, nil, nil
	}

	tables := append([]string{RootTable}, constants.SSOTChildOrder...)
	hidden := make([]*storage.ViewConfig, len(tables))
	var state *storage.ViewConfig

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg, err := m.loadOne(gCtx, userID, constants.ViewSSOT)
		state = cfg
		return err
	})
	for i, t := range tables {
		i, t := i, t
		g.Go(func() error {
			cfg, err := m.loadOne(gCtx, userID, VisibilityKey(t))
			hidden[i] = cfg
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	out := make(map[string][]string)
	for i, cfg := range hidden {
		if cfg != nil {
			out[tables[i]] = cfg.Hidden
		}
	}
	return state, out, nil
}

func (m *Manager) loadOne(ctx context.Context, userID, key string) (*storage.ViewConfig, error) {
	cfg, err := m.store.LoadViewConfig(ctx, userID, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.Version != Version {
		m.log.Warn("resetting ssot config of another version", slog.String("key", key), slog.Int("stored_version", cfg.Version))
		return nil, nil
	}
	return cfg, nil
}

// Page loads the first page for search. An unchanged search with a buffered
// page re-renders without fetching.
func (m *Manager) Page(ctx context.Context, req Request, search string) (*View, error) {
	return m.page(ctx, req, &search)
}

// Reload fetches the first page under the persisted search.
func (m *Manager) Reload(ctx context.Context, req Request) (*View, error) {
	return m.page(ctx, req, nil)
}

func (m *Manager) page(ctx context.Context, req Request, search *string) (*View, error) {
	f, err := m.feed(ctx, req)
	if err != nil {
		return nil, err
	}

	changed := false
	if search != nil {
		f.mu.Lock()
		changed = f.search != *search
		f.search = *search
		f.mu.Unlock()
	}

	if changed {
		f.ctrl.SetFilters(f.filters())
		f.persistState(ctx)
	}
	if _, err := f.ctrl.Fetch(ctx, 1); err != nil && !errors.Is(err, fetch.ErrStale) {
		return nil, err
	}
	return f.render(), nil
}

// More appends the next page.
func (m *Manager) More(ctx context.Context, req Request) (*View, error) {
	f, err := m.feed(ctx, req)
	if err != nil {
		return nil, err
	}
	if _, err := f.ctrl.FetchMore(ctx); err != nil && !errors.Is(err, fetch.ErrStale) {
		return nil, err
	}
	return f.render(), nil
}

// ToggleTable shows or hides a child table and reports whether it is now
// visible.
func (m *Manager) ToggleTable(ctx context.Context, req Request, table string) (bool, error) {
	if !isChildTable(table) {
		return false, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	f, err := m.feed(ctx, req)
	if err != nil {
		return false, err
	}

	f.mu.Lock()
	f.visible[table] = !f.visible[table]
	now := f.visible[table]
	f.mu.Unlock()

	f.persistState(ctx)
	return now, nil
}

// ToggleColumn flips a column of one table and reports whether it is now
// hidden.
func (m *Manager) ToggleColumn(ctx context.Context, req Request, table, accessor string) (bool, error) {
	if table != RootTable && !isChildTable(table) {
		return false, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if !isRecordAccessor(accessor) {
		return false, fmt.Errorf("%w: %s", ErrUnknownColumn, accessor)
	}
	f, err := m.feed(ctx, req)
	if err != nil {
		return false, err
	}

	s := f.renderer.Store(table)
	hidden := s.Toggle(accessor)
	f.save(ctx, &storage.ViewConfig{
		UserID:    f.userID,
		ViewKey:   s.Key(),
		Version:   Version,
		Hidden:    s.Hidden(),
		UpdatedAt: time.Now().UTC(),
	})
	return hidden, nil
}

func (f *Feed) filters() map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.search == "" {
		return map[string]any{}
	}
	return map[string]any{constants.FilterSearch: f.search}
}

func (f *Feed) visibleTables() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.visible))
	for t, ok := range f.visible {
		if ok {
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return out
}

func (f *Feed) render() *View {
	rows, _ := f.ctrl.Rows()
	records := make([]storage.SSOTRecord, 0, len(rows))
	for _, r := range rows {
		if rec, ok := r[recordKey].(storage.SSOTRecord); ok {
			records = append(records, rec)
		}
	}

	f.mu.Lock()
	visible := make(map[string]bool, len(f.visible))
	for k, v := range f.visible {
		visible[k] = v
	}
	search := f.search
	f.mu.Unlock()

	return &View{
		Columns: f.renderer.Store(RootTable).Apply(f.renderer.columns),
		Rows:    f.renderer.Render(records, visible),
		Tables:  visible,
		Search:  search,
		State:   f.ctrl.State(),
	}
}

func (f *Feed) persistState(ctx context.Context) {
	f.mu.Lock()
	search := f.search
	f.mu.Unlock()

	f.save(ctx, &storage.ViewConfig{
		UserID:    f.userID,
		ViewKey:   constants.ViewSSOT,
		Version:   Version,
		Filters:   map[string]any{constants.FilterSearch: search, tablesKey: f.visibleTables()},
		UpdatedAt: time.Now().UTC(),
	})
}

func (f *Feed) save(ctx context.Context, cfg *storage.ViewConfig) {
	const op = "service.ssot.Feed.save"

	if f.store == nil {
		return
	}
	if err := f.store.SaveViewConfig(ctx, cfg); err != nil {
		f.log.Error("failed to persist ssot config", slog.String("op", op), slog.String("error", err.Error()))
	}
}

// stringList reads a list stored as []string or decoded from JSON.
func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func isChildTable(name string) bool {
	for _, t := range constants.SSOTChildOrder {
		if t == name {
			return true
		}
	}
	return false
}

func isRecordAccessor(accessor string) bool {
	for _, a := range recordAccessors {
		if a == accessor {
			return true
		}
	}
	return false
}
