package filters

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

var (
	ErrUnknownFilter = errors.New("unknown filter")
	ErrInvalidValue  = errors.New("invalid filter value")
)

type Kind string

const (
	// Text search, applied on submit only.
	KindText Kind = "text"
	// Multi-select, applied when the dropdown closes (submit).
	KindMulti Kind = "multi"
	// Date range, applied on close/submit.
	KindDateRange Kind = "daterange"
	// Single select, applied immediately.
	KindSelect Kind = "select"
	// Switch, applied immediately.
	KindToggle Kind = "toggle"
	// Numeric page-size style value, applied immediately.
	KindLimit Kind = "limit"
)

// Deferred reports whether a change of this kind waits for Submit.
func (k Kind) Deferred() bool {
	return k == KindText || k == KindMulti || k == KindDateRange
}

type Definition struct {
	Key     string `json:"key"`
	Kind    Kind   `json:"kind"`
	Default any    `json:"default"`
}

// Values maps a filter key to its value: string, []string, bool,
// time.Time, storage.DateRange, int or nil.
type Values map[string]any

func (v Values) Clone() Values {
	out := make(Values, len(v))
	for k, val := range v {
		if s, ok := val.([]string); ok {
			val = append([]string(nil), s...)
		}
		out[k] = val
	}
	return out
}

// Form holds applied and staged filter values of one view.
type Form struct {
	defs  map[string]Definition
	order []string

	mu       sync.Mutex
	applied  Values
	staged   Values
	onChange func(applied Values)
}

// NewForm starts from the definitions' defaults overlaid with persisted
// values. Persisted values that don't fit their definition are dropped.
// onChange runs after every real change with a copy of the applied values.
func NewForm(defs []Definition, persisted Values, onChange func(applied Values)) *Form {
	f := &Form{
		defs:     make(map[string]Definition, len(defs)),
		applied:  Values{},
		staged:   Values{},
		onChange: onChange,
	}
	for _, d := range defs {
		f.defs[d.Key] = d
		f.order = append(f.order, d.Key)
		v, err := Normalize(d.Kind, d.Default)
		if err != nil {
			v = nil
		}
		f.applied[d.Key] = v
	}
	for k, raw := range persisted {
		d, ok := f.defs[k]
		if !ok {
			continue
		}
		v, err := Normalize(d.Kind, raw)
		if err != nil {
			continue
		}
		f.applied[k] = v
	}
	return f
}

// Order is the declaration order of the filter keys.
func (f *Form) Order() []string {
	return append([]string(nil), f.order...)
}

func (f *Form) Definitions() []Definition {
	out := make([]Definition, 0, len(f.order))
	for _, k := range f.order {
		out = append(out, f.defs[k])
	}
	return out
}

// Set stages a value. Immediate kinds are applied at once; the result
// reports whether the applied values changed.
func (f *Form) Set(key string, raw any) (bool, error) {
	d, ok := f.defs[key]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownFilter, key)
	}
	v, err := Normalize(d.Kind, raw)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}

	f.mu.Lock()
	if d.Kind.Deferred() {
		f.staged[key] = v
		f.mu.Unlock()
		return false, nil
	}
	changed := f.applyLocked(key, v)
	applied := f.applied.Clone()
	f.mu.Unlock()

	if changed && f.onChange != nil {
		f.onChange(applied)
	}
	return changed, nil
}

// Submit applies every staged value and returns the keys that changed.
func (f *Form) Submit() []string {
	f.mu.Lock()
	var changed []string
	for _, k := range f.order {
		v, ok := f.staged[k]
		if !ok {
			continue
		}
		if f.applyLocked(k, v) {
			changed = append(changed, k)
		}
	}
	f.staged = Values{}
	applied := f.applied.Clone()
	f.mu.Unlock()

	if len(changed) > 0 && f.onChange != nil {
		f.onChange(applied)
	}
	return changed
}

func (f *Form) applyLocked(key string, v any) bool {
	if Equal(f.applied[key], v) {
		return false
	}
	f.applied[key] = v
	return true
}

// Values returns a copy of the applied values.
func (f *Form) Values() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.applied.Clone()
}

// Staged returns a copy of the values waiting for Submit.
func (f *Form) Staged() Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.staged.Clone()
}

// Effective returns the values to send to a fetch. A non-empty security
// group restriction replaces the user's value for that dimension.
func (f *Form) Effective(group storage.SecurityGroup) Values {
	out := f.Values()
	for k := range out {
		if r := group.Restriction(k); len(r) > 0 {
			out[k] = append([]string(nil), r...)
		}
	}
	return out
}

// Active returns the applied values that narrow the result, keyed in
// declaration order.
func (f *Form) Active() ([]string, Values) {
	vals := f.Values()
	var keys []string
	for _, k := range f.order {
		if IsActive(vals[k]) {
			keys = append(keys, k)
		}
	}
	return keys, vals
}

// IsActive reports whether a filter value narrows a query.
func IsActive(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	case []string:
		return len(val) > 0
	case bool:
		return val
	case time.Time:
		return !val.IsZero()
	case storage.DateRange:
		return !val.IsZero()
	case int:
		return val != 0
	}
	return true
}

// Equal is the shallow comparison used to detect a real change.
func Equal(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case []string:
		bv, ok := b.([]string)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if av[i] != bv[i] {
				return false
			}
		}
		return true
	case time.Time:
		bv, ok := b.(time.Time)
		return ok && av.Equal(bv)
	case storage.DateRange:
		bv, ok := b.(storage.DateRange)
		return ok && timePtrEqual(av.From, bv.From) && timePtrEqual(av.To, bv.To)
	case string, bool, int:
		return a == b
	}
	return false
}

func timePtrEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// Normalize converts decoded JSON (or persisted) input into the value type
// of the filter kind. Empty input becomes nil.
func Normalize(kind Kind, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch kind {
	case KindText, KindSelect:
		s, ok := raw.(string)
		if !ok {
			return nil, ErrInvalidValue
		}
		if s = strings.TrimSpace(s); s == "" {
			return nil, nil
		}
		return s, nil

	case KindMulti:
		var out []string
		switch v := raw.(type) {
		case []string:
			out = append(out, v...)
		case []any:
			for _, item := range v {
				s, ok := item.(string)
				if !ok {
					return nil, ErrInvalidValue
				}
				out = append(out, s)
			}
		case string:
			if v != "" {
				out = strings.Split(v, ",")
			}
		default:
			return nil, ErrInvalidValue
		}
		if len(out) == 0 {
			return nil, nil
		}
		return out, nil

	case KindToggle:
		switch v := raw.(type) {
		case bool:
			return v, nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return nil, ErrInvalidValue
			}
			return b, nil
		}
		return nil, ErrInvalidValue

	case KindLimit:
		switch v := raw.(type) {
		case int:
			return v, nil
		case float64:
			return int(v), nil
		case string:
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, ErrInvalidValue
			}
			return n, nil
		}
		return nil, ErrInvalidValue

	case KindDateRange:
		return normalizeRange(raw)
	}
	return nil, ErrInvalidValue
}

func normalizeRange(raw any) (any, error) {
	var from, to any
	switch v := raw.(type) {
	case storage.DateRange:
		if v.IsZero() {
			return nil, nil
		}
		return v, nil
	case map[string]any:
		from, to = v["from"], v["to"]
	case []any:
		if len(v) != 2 {
			return nil, ErrInvalidValue
		}
		from, to = v[0], v[1]
	default:
		return nil, ErrInvalidValue
	}

	var r storage.DateRange
	var err error
	if r.From, err = parseTime(from); err != nil {
		return nil, err
	}
	if r.To, err = parseTime(to); err != nil {
		return nil, err
	}
	if r.IsZero() {
		return nil, nil
	}
	if r.From != nil && r.To != nil && r.To.Before(*r.From) {
		return nil, ErrInvalidValue
	}
	return r, nil
}

func parseTime(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		return &t, nil
	case string:
		if t == "" {
			return nil, nil
		}
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if parsed, err := time.Parse(layout, t); err == nil {
				return &parsed, nil
			}
		}
	}
	return nil, ErrInvalidValue
}

// SortedKeys is a helper for callers without a declared order.
func SortedKeys(v Values) []string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
