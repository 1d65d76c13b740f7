package export

import (
	"sort"
	"strings"
	"time"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

type Header struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

// Table is a flat, download-ready rendition of a report.
type Table struct {
	Headers []Header         `json:"headers"`
	Records []map[string]any `json:"records"`
}

const (
	firstNameSuffix = "_first_name"
	lastNameSuffix  = "_last_name"
)

// Format flattens the visible columns of rows. Currency columns are
// formatted, assignee lists become name lists and first/last name column
// pairs are joined into one name column.
func Format(cols []columns.Descriptor, rows []storage.Row) Table {
	accessors := make(map[string]bool, len(cols))
	for _, c := range cols {
		accessors[c.Accessor] = true
	}

	var t Table
	joined := make(map[string]string) // first-name accessor -> output key
	for _, c := range cols {
		if c.Hidden {
			continue
		}
		if base, ok := strings.CutSuffix(c.Accessor, lastNameSuffix); ok && accessors[base+firstNameSuffix] {
			continue
		}
		if base, ok := strings.CutSuffix(c.Accessor, firstNameSuffix); ok && accessors[base+lastNameSuffix] {
			key := base + "_name"
			joined[c.Accessor] = key
			t.Headers = append(t.Headers, Header{Label: columns.DeriveTitle(key), Key: key})
			continue
		}
		t.Headers = append(t.Headers, Header{Label: c.Title, Key: c.Accessor})
	}

	for _, row := range rows {
		rec := make(map[string]any, len(t.Headers))
		for _, c := range cols {
			if c.Hidden {
				continue
			}
			if key, ok := joined[c.Accessor]; ok {
				base := strings.TrimSuffix(c.Accessor, firstNameSuffix)
				rec[key] = joinName(row[c.Accessor], row[base+lastNameSuffix])
				continue
			}
			if _, ok := rec[c.Accessor]; ok {
				continue
			}
			rec[c.Accessor] = cell(c, row)
		}
		t.Records = append(t.Records, rec)
	}
	return t
}

func cell(c columns.Descriptor, row storage.Row) any {
	v := row[c.Accessor]
	if strings.Contains(c.Accessor, "assignee") {
		if names, ok := flattenNames(v); ok {
			return names
		}
	}
	kind := c.Kind
	if kind == columns.KindAuto {
		kind = columns.InferKind(c.Accessor, v)
	}
	if kind == columns.KindCurrency {
		return columns.FormatCurrency(v)
	}
	return columns.Format(kind, c.Accessor, v)
}

func flattenNames(v any) ([]string, bool) {
	switch list := v.(type) {
	case []string:
		return list, true
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, nameOf(item))
		}
		return out, true
	case []storage.Row:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, nameOf(map[string]any(item)))
		}
		return out, true
	}
	return nil, false
}

func nameOf(v any) string {
	switch m := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if base, ok := strings.CutSuffix(k, firstNameSuffix); ok {
				return joinName(m[k], m[base+lastNameSuffix])
			}
		}
		if n, ok := m["name"]; ok {
			return columns.Text(n)
		}
	case storage.Row:
		return nameOf(map[string]any(m))
	}
	return columns.Text(v)
}

func joinName(first, last any) string {
	return strings.TrimSpace(columns.Text(first) + " " + columns.Text(last))
}

// FilterSegment renders active filters as KEY_VALUE pairs joined by "_".
// List values are joined by "-". Keys follow order, or sorted order when
// order is nil.
func FilterSegment(filters map[string]any, order []string) string {
	if order == nil {
		for k := range filters {
			order = append(order, k)
		}
		sort.Strings(order)
	}

	var parts []string
	for _, k := range order {
		v, ok := segmentValue(filters[k])
		if !ok {
			continue
		}
		parts = append(parts, strings.ToUpper(k)+"_"+strings.ToUpper(v))
	}
	return strings.Join(parts, "_")
}

func segmentValue(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "", false
	case string:
		val = strings.TrimSpace(val)
		return val, val != ""
	case []string:
		return strings.Join(val, "-"), len(val) > 0
	case bool:
		return "TRUE", val
	case time.Time:
		return val.Format("2006-01-02"), !val.IsZero()
	case storage.DateRange:
		var from, to string
		if val.From != nil {
			from = val.From.Format("2006-01-02")
		}
		if val.To != nil {
			to = val.To.Format("2006-01-02")
		}
		return from + "-" + to, !val.IsZero()
	}
	s := columns.Text(v)
	return s, s != ""
}

// FileName builds the download name of a view export.
func FileName(view string, filters map[string]any, order []string, ext string) string {
	name := strings.ToUpper(strings.ReplaceAll(view, "-", "_"))
	if seg := FilterSegment(filters, order); seg != "" {
		name += "_" + seg
	}
	return name + "." + ext
}
