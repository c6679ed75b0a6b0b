package table

import (
	"fmt"
	"io"
	"strings"

	"github.com/diewo77/salescrm/internal/catalog"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes rows as one sheet with a bold header of column labels.
// Booleans are written as yes/no, dates as YYYY-MM-DD.
func WriteXLSX(w io.Writer, sheet string, cols []PlacedColumn, rows []catalog.Row, yes, no string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	for i, c := range cols {
		if err := setCell(f, sheet, i+1, 1, c.Label); err != nil {
			return err
		}
		name, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, name, name, 18)
	}
	if len(cols) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(cols), 1)
		if err := f.SetCellStyle(sheet, "A1", last, header); err != nil {
			return fmt.Errorf("header style: %w", err)
		}
	}

	for r, row := range rows {
		for i, c := range cols {
			v := row.Value(c.Key)
			var cell any
			switch {
			case v.Null():
				continue
			case v.Bool != nil:
				cell = no
				if *v.Bool {
					cell = yes
				}
			case v.Time != nil:
				cell = v.Time.Format(catalog.DateLayout)
			default:
				cell = v.Any()
			}
			if err := setCell(f, sheet, i+1, r+2, cell); err != nil {
				return err
			}
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return fmt.Errorf("freeze header: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, name, v); err != nil {
		return fmt.Errorf("set %s: %w", name, err)
	}
	return nil
}

// ReadXLSX reads the first sheet of an XLSX file into records keyed by
// column key. Header cells may hold the column key or its label; unknown
// headers are ignored. Cells are parsed with the column's type. Blank cells
// are left out of the record wherever they sit in the row.
func ReadXLSX(r io.Reader, spec *catalog.Spec) ([]map[string]any, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("open xlsx: no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	keys := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		keys[i] = headerKey(spec, h)
	}
	var out []map[string]any
	for n, row := range rows[1:] {
		rec := map[string]any{}
		for i, raw := range row {
			if i >= len(keys) || keys[i] == "" || strings.TrimSpace(raw) == "" {
				continue
			}
			col, _ := spec.Column(keys[i])
			if col.Kind == catalog.KindBool {
				rec[col.Key] = parseYesNo(raw)
				continue
			}
			v, err := col.Parse(raw)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", n+2, err)
			}
			rec[col.Key] = v
		}
		if len(rec) > 0 {
			out = append(out, rec)
		}
	}
	return out, nil
}

func headerKey(spec *catalog.Spec, h string) string {
	h = strings.TrimSpace(h)
	if spec.Has(h) {
		return h
	}
	for _, c := range spec.Columns {
		if strings.EqualFold(c.Label, h) {
			return c.Key
		}
	}
	return ""
}

// parseYesNo accepts the spreadsheet spellings of a boolean. Blank is nil.
func parseYesNo(raw string) any {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return nil
	case "1", "true", "si", "sí", "yes", "x", "vendido", "sold":
		return true
	}
	return false
}
