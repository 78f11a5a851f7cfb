package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"datafusion/core/table"
)

// Format identifies an output format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// Extension returns the file extension for the format, dot included.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// Exporter writes tables in the configured output formats.
type Exporter struct {
	cfg Config
}

// New returns an exporter using the given configuration.
func New(cfg Config) *Exporter {
	return &Exporter{cfg: cfg}
}

// Write renders the table in the requested format. Formats that are
// unknown or disabled in the configuration are rejected.
func (e *Exporter) Write(w io.Writer, format Format, t *table.Table) error {
	if !e.cfg.Enabled(format) {
		return fmt.Errorf("%w: format %q not enabled", ErrExport, format)
	}
	switch format {
	case FormatCSV:
		return WriteCSV(w, t)
	case FormatXLSX:
		return WriteXLSX(w, t)
	case FormatJSON:
		return WriteJSON(w, t)
	default:
		return fmt.Errorf("%w: unknown format %q", ErrExport, format)
	}
}

// WriteCSV renders the table as CSV with a header row. Missing values
// become empty fields.
func WriteCSV(w io.Writer, t *table.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Names()); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	for row := 0; row < t.NumRows(); row++ {
		record := make([]string, t.NumCols())
		for col := 0; col < t.NumCols(); col++ {
			record[col] = t.ColumnAt(col).Values[row].String()
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

// WriteJSON renders the table as a row-oriented array of objects.
// Missing values become null and datetimes use RFC 3339.
func WriteJSON(w io.Writer, t *table.Table) error {
	rows := make([]map[string]any, t.NumRows())
	names := t.Names()
	for row := 0; row < t.NumRows(); row++ {
		obj := make(map[string]any, len(names))
		for col, name := range names {
			obj[name] = jsonValue(t.ColumnAt(col).Values[row])
		}
		rows[row] = obj
	}
	enc := json.NewEncoder(w)
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

func jsonValue(v table.Value) any {
	switch v.Kind() {
	case table.KindNumber:
		f, _ := v.Number()
		return f
	case table.KindBool:
		b, _ := v.Bool()
		return b
	case table.KindTime:
		ts, _ := v.Time()
		return ts.Format(time.RFC3339)
	case table.KindText:
		return v.String()
	default:
		return nil
	}
}

const xlsxSheet = "Data"

// WriteXLSX renders the table as a single-sheet workbook with a bold
// header row and column widths fitted to the content.
func WriteXLSX(w io.Writer, t *table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	names := t.Names()
	widths := make([]int, len(names))
	for col, name := range names {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		if err := f.SetCellValue(xlsxSheet, cell, name); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		widths[col] = len(name)
	}

	for row := 0; row < t.NumRows(); row++ {
		for col := 0; col < len(names); col++ {
			v := t.ColumnAt(col).Values[row]
			if v.IsMissing() {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrExport, err)
			}
			if err := f.SetCellValue(xlsxSheet, cell, cellValue(v)); err != nil {
				return fmt.Errorf("%w: %v", ErrExport, err)
			}
			if n := len(v.String()); n > widths[col] {
				widths[col] = n
			}
		}
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	last, err := excelize.CoordinatesToCellName(len(names), 1)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := f.SetCellStyle(xlsxSheet, "A1", last, style); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}

	for col := range names {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
		// Small padding, capped so one long cell cannot blow up the
		// sheet layout.
		width := float64(widths[col]) + 2
		if width > 60 {
			width = 60
		}
		if err := f.SetColWidth(xlsxSheet, name, name, width); err != nil {
			return fmt.Errorf("%w: %v", ErrExport, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("%w: %v", ErrExport, err)
	}
	return nil
}

func cellValue(v table.Value) any {
	switch v.Kind() {
	case table.KindNumber:
		f, _ := v.Number()
		return f
	case table.KindBool:
		b, _ := v.Bool()
		return b
	case table.KindTime:
		ts, _ := v.Time()
		return ts
	default:
		return v.String()
	}
}
