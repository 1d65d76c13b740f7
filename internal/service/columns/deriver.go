package columns

import (
	"sort"
	"sync"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// Descriptor is the display metadata of one table column.
type Descriptor struct {
	Accessor string `json:"accessor"`
	Title    string `json:"title"`
	Sortable bool   `json:"sortable"`
	Hidden   bool   `json:"hidden"`
	Width    int    `json:"width,omitempty"`
	Kind     Kind   `json:"kind,omitempty"`
}

// Render formats the descriptor's field of row for display.
func (d Descriptor) Render(row storage.Row) string {
	return Format(d.Kind, d.Accessor, row[d.Accessor])
}

// Deriver builds column descriptors from sample rows or declared lists and
// remembers the last derived set.
type Deriver struct {
	registry Registry
	excluded map[string]bool
	prefixes []string

	mu   sync.Mutex
	last []Descriptor
}

func NewDeriver(registry Registry, excluded map[string]bool, prefixes []string) *Deriver {
	if registry == nil {
		registry = Registry{}
	}
	if excluded == nil {
		excluded = map[string]bool{}
	}
	return &Deriver{
		registry: registry,
		excluded: excluded,
		prefixes: prefixes,
	}
}

// Derive produces descriptors for the keys of sample. order, when given, is
// the source column order; otherwise keys are sorted. An empty sample yields
// the previously derived columns.
func (d *Deriver) Derive(sample storage.Row, order []string) []Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(sample) == 0 {
		return clone(d.last)
	}

	keys := orderedKeys(sample, order)
	out := make([]Descriptor, 0, len(keys))
	for _, key := range keys {
		if d.excluded[key] {
			continue
		}
		out = append(out, d.describe(key, sample[key]))
	}

	d.last = out
	return clone(out)
}

// FromList produces descriptors for a declared column list.
func (d *Deriver) FromList(accessors []string) []Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Descriptor, 0, len(accessors))
	seen := make(map[string]bool, len(accessors))
	for _, key := range accessors {
		if d.excluded[key] || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d.describe(key, nil))
	}

	d.last = out
	return clone(out)
}

// Last returns the most recently derived columns.
func (d *Deriver) Last() []Descriptor {
	d.mu.Lock()
	defer d.mu.Unlock()
	return clone(d.last)
}

func (d *Deriver) describe(key string, sample any) Descriptor {
	if f, ok := d.registry.Lookup(key); ok {
		title := f.Title
		if title == "" {
			title = DeriveTitle(key, d.prefixes...)
		}
		return Descriptor{
			Accessor: key,
			Title:    title,
			Sortable: f.Sortable,
			Width:    f.Width,
			Kind:     f.Kind,
		}
	}

	return Descriptor{
		Accessor: key,
		Title:    DeriveTitle(key, d.prefixes...),
		Sortable: isScalar(sample),
	}
}

func orderedKeys(sample storage.Row, order []string) []string {
	keys := make([]string, 0, len(sample))
	seen := make(map[string]bool, len(sample))
	for _, k := range order {
		if _, ok := sample[k]; ok && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	var rest []string
	for k := range sample {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	return append(keys, rest...)
}

func isScalar(v any) bool {
	switch v.(type) {
	case []any, []storage.Row, []string, map[string]any:
		return false
	}
	return true
}

func clone(in []Descriptor) []Descriptor {
	if in == nil {
		return nil
	}
	out := make([]Descriptor, len(in))
	copy(out, in)
	return out
}
