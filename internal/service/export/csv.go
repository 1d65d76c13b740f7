package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/IvorG24/formsly-inventory-test-sub000/internal/service/columns"
)

// WriteCSV streams t as CSV with a header row of labels.
func WriteCSV(w io.Writer, t Table) error {
	const op = "service.export.WriteCSV"

	cw := csv.NewWriter(w)

	header := make([]string, len(t.Headers))
	for i, h := range t.Headers {
		header[i] = h.Label
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("%s: header: %w", op, err)
	}

	line := make([]string, len(t.Headers))
	for _, rec := range t.Records {
		for i, h := range t.Headers {
			line[i] = cellText(rec[h.Key])
		}
		if err := cw.Write(line); err != nil {
			return fmt.Errorf("%s: row: %w", op, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func cellText(v any) string {
	if list, ok := v.([]string); ok {
		return strings.Join(list, ", ")
	}
	return columns.Text(v)
}
