package mysql

import (
	"database/sql"
	"encoding/json"
	"sort"
	"strings"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/storage"
)

// scanRows reads rows of unknown shape. Text comes back as string and
// columns ending in _list holding JSON arrays are decoded.
func scanRows(rows *sql.Rows) ([]storage.Row, []string, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, err
	}

	var out []storage.Row
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, nil, err
		}

		row := make(storage.Row, len(cols))
		for i, c := range cols {
			row[c] = cellValue(c, vals[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return out, cols, nil
}

func cellValue(col string, v any) any {
	b, ok := v.([]byte)
	if !ok {
		return v
	}
	s := string(b)
	if strings.HasSuffix(col, "_list") && strings.HasPrefix(strings.TrimSpace(s), "[") {
		var list []any
		if err := json.Unmarshal(b, &list); err == nil {
			return list
		}
	}
	return s
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

func anyStrings(list []string) []any {
	out := make([]any, len(list))
	for i, s := range list {
		out[i] = s
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
