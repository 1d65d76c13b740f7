package visibility

import (
	"sort"
	"sync"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
)

// Store is the set of hidden column accessors of one view table.
// An accessor missing from the set is visible.
type Store struct {
	key string

	mu     sync.RWMutex
	hidden map[string]struct{}
}

func New(key string, hidden []string) *Store {
	s := &Store{key: key, hidden: make(map[string]struct{}, len(hidden))}
	for _, a := range hidden {
		s.hidden[a] = struct{}{}
	}
	return s
}

// Key is the persistence key of the view table.
func (s *Store) Key() string {
	return s.key
}

func (s *Store) IsHidden(accessor string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hidden[accessor]
	return ok
}

// Toggle flips the accessor and reports whether it is now hidden.
func (s *Store) Toggle(accessor string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.hidden[accessor]; ok {
		delete(s.hidden, accessor)
		return false
	}
	s.hidden[accessor] = struct{}{}
	return true
}

func (s *Store) SetHidden(accessor string, hidden bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if hidden {
		s.hidden[accessor] = struct{}{}
		return
	}
	delete(s.hidden, accessor)
}

// Hidden returns the hidden accessors sorted.
func (s *Store) Hidden() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.hidden))
	for a := range s.hidden {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Apply copies cols with the Hidden flag set from the store.
func (s *Store) Apply(cols []columns.Descriptor) []columns.Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]columns.Descriptor, len(cols))
	for i, c := range cols {
		_, c.Hidden = s.hidden[c.Accessor]
		out[i] = c
	}
	return out
}

// Visible filters cols down to the ones not hidden.
func (s *Store) Visible(cols []columns.Descriptor) []columns.Descriptor {
	out := make([]columns.Descriptor, 0, len(cols))
	for _, c := range s.Apply(cols) {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// Defaults returns the accessors hidden on first mount: every column whose
// title is not listed in alwaysVisible.
func Defaults(cols []columns.Descriptor, alwaysVisible []string) []string {
	keep := make(map[string]bool, len(alwaysVisible))
	for _, t := range alwaysVisible {
		keep[t] = true
	}

	var hidden []string
	seen := make(map[string]bool, len(cols))
	for _, c := range cols {
		if keep[c.Title] || seen[c.Accessor] {
			continue
		}
		seen[c.Accessor] = true
		hidden = append(hidden, c.Accessor)
	}
	return hidden
}
