package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteExcel renders t as an xlsx workbook with a bold frozen header row.
func WriteExcel(t Table, sheet string) ([]byte, error) {
	const op = "service.export.WriteExcel"

	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Report"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})
	if err != nil {
		return nil, fmt.Errorf("%s: header style: %w", op, err)
	}

	for i, h := range t.Headers {
		if err := f.SetCellValue(sheet, cellName(i+1, 1), h.Label); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	if len(t.Headers) > 0 {
		if err := f.SetCellStyle(sheet, "A1", cellName(len(t.Headers), 1), headerStyle); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	for rowIdx, rec := range t.Records {
		for colIdx, h := range t.Headers {
			if err := f.SetCellValue(sheet, cellName(colIdx+1, rowIdx+2), cellText(rec[h.Key])); err != nil {
				return nil, fmt.Errorf("%s: %w", op, err)
			}
		}
	}

	err = f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
	if err != nil {
		return nil, fmt.Errorf("%s: panes: %w", op, err)
	}

	if len(t.Headers) > 0 {
		last, _ := excelize.ColumnNumberToName(len(t.Headers))
		if err := f.SetColWidth(sheet, "A", last, 20); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return buf.Bytes(), nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
