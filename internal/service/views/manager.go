package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/export"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// Request identifies who is looking at which view.
type Request struct {
	View     string
	TeamID   string
	TeamName string
	UserID   string
}

type GroupLoader interface {
	GetSecurityGroup(ctx context.Context, teamID, userID string) (storage.SecurityGroup, error)
}

type Options struct {
	ExportPageSize    int
	ExportConcurrency int
}

// Manager keeps one session per user and view.
type Manager struct {
	log    *slog.Logger
	source storage.Source
	store  storage.ViewConfigStore
	groups GroupLoader
	defs   map[string]Definition
	opts   Options

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(log *slog.Logger, source storage.Source, store storage.ViewConfigStore, groups GroupLoader, defs map[string]Definition, opts Options) *Manager {
	if opts.ExportPageSize <= 0 {
		opts.ExportPageSize = 500
	}
	if opts.ExportConcurrency <= 0 {
		opts.ExportConcurrency = 4
	}
	return &Manager{
		log:      log,
		source:   source,
		store:    store,
		groups:   groups,
		defs:     defs,
		opts:     opts,
		sessions: make(map[string]*Session),
	}
}

// Definitions lists the known views.
func (m *Manager) Definitions() map[string]Definition {
	return m.defs
}

// Title of a view for messages, or the key when the view is unknown.
func (m *Manager) Title(view string) string {
	if d, ok := m.defs[view]; ok {
		return d.Title
	}
	return view
}

func (m *Manager) session(ctx context.Context, req Request) (*Session, error) {
	const op = "service.views.Manager.session"

	def, ok := m.defs[req.View]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownView, req.View)
	}

	group, err := m.groups.GetSecurityGroup(ctx, req.TeamID, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: security group: %w", op, err)
	}

	key := req.UserID + "|" + req.View

	m.mu.Lock()
	s, ok := m.sessions[key]
	m.mu.Unlock()
	if ok {
		s.bind(req, group)
		return s, nil
	}

	cfg, err := m.loadConfig(ctx, def, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[key]; ok {
		s.bind(req, group)
		return s, nil
	}
	s = newSession(m.log, def, req, group, cfg, m.source, m.store)
	m.sessions[key] = s
	return s, nil
}

// loadConfig returns the persisted config, or nil when there is none or it
// was written by another version of the view.
func (m *Manager) loadConfig(ctx context.Context, def Definition, userID string) (*storage.ViewConfig, error) {
	if m.store == nil {
		return nil, nil
	}
	cfg, err := m.store.LoadViewConfig(ctx, userID, def.Key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if cfg.Version != def.Version {
		m.log.Warn("resetting view config of another version",
			slog.String("view", def.Key),
			slog.Int("stored_version", cfg.Version),
			slog.Int("version", def.Version),
		)
		return nil, nil
	}
	return cfg, nil
}

// Reset forgets the user's state of a view. The next call mounts it from
// defaults.
func (m *Manager) Reset(ctx context.Context, req Request) error {
	const op = "service.views.Manager.Reset"

	if _, ok := m.defs[req.View]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownView, req.View)
	}

	m.mu.Lock()
	delete(m.sessions, req.UserID+"|"+req.View)
	m.mu.Unlock()

	if m.store == nil {
		return nil
	}
	if err := m.store.DeleteViewConfig(ctx, req.UserID, req.View); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Manager) Table(ctx context.Context, req Request, page int) (*Table, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Table(ctx, page)
}

func (m *Manager) More(ctx context.Context, req Request) (*Table, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.More(ctx)
}

func (m *Manager) Columns(ctx context.Context, req Request) ([]columns.Descriptor, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Columns(), nil
}

func (m *Manager) SetFilter(ctx context.Context, req Request, key string, value any) (*Table, bool, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return nil, false, err
	}
	return s.SetFilter(ctx, key, value)
}

func (m *Manager) SubmitFilters(ctx context.Context, req Request) (*Table, []string, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return nil, nil, err
	}
	return s.SubmitFilters(ctx)
}

func (m *Manager) SetSort(ctx context.Context, req Request, sort storage.Sort) (*Table, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.SetSort(ctx, sort)
}

func (m *Manager) ToggleColumn(ctx context.Context, req Request, accessor string) (bool, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return false, err
	}
	return s.ToggleColumn(ctx, accessor)
}

// Export returns the flattened table and its download file name.
func (m *Manager) Export(ctx context.Context, req Request, ext string) (export.Table, string, error) {
	s, err := m.session(ctx, req)
	if err != nil {
		return export.Table{}, "", err
	}
	return s.Export(ctx, m.opts.ExportPageSize, m.opts.ExportConcurrency, ext)
}
