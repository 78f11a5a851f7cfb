package models

import (
	"time"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// FileSummary describes one loaded file.
type FileSummary struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

// FilesResponse lists the files loaded in a session.
type FilesResponse struct {
	SessionID string        `json:"session_id"`
	Files     []FileSummary `json:"files"`
}

// TablePreview is a bounded view of a table for API responses.
type TablePreview struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	NumRows int      `json:"num_rows"`
	NumCols int      `json:"num_cols"`
}

// PreviewRows caps the number of rows included in a preview.
const PreviewRows = 20

// NewTablePreview builds a preview with at most PreviewRows rows.
func NewTablePreview(t *table.Table) TablePreview {
	p := TablePreview{
		Columns: t.Names(),
		NumRows: t.NumRows(),
		NumCols: t.NumCols(),
	}
	head := t.Head(PreviewRows)
	p.Rows = make([][]any, head.NumRows())
	for row := 0; row < head.NumRows(); row++ {
		cells := make([]any, head.NumCols())
		for col := 0; col < head.NumCols(); col++ {
			cells[col] = cellJSON(head.ColumnAt(col).Values[row])
		}
		p.Rows[row] = cells
	}
	return p
}

func cellJSON(v table.Value) any {
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

// MergeResponse reports the outcome of a merge.
type MergeResponse struct {
	Method            string       `json:"method"`
	Key               string       `json:"key,omitempty"`
	DuplicatesDropped int          `json:"duplicates_dropped"`
	Preview           TablePreview `json:"preview"`
}

// ColumnSource names one contributing column of a canonical column.
type ColumnSource struct {
	FileID string `json:"file_id"`
	Column string `json:"column"`
}

// ColumnReport describes one reconciled column across the loaded
// files.
type ColumnReport struct {
	Name    string         `json:"name"`
	InAll   bool           `json:"in_all"`
	Sources []ColumnSource `json:"sources"`
}

// StepInfo is one applied transformation for listing purposes.
type StepInfo struct {
	Index       int            `json:"index"`
	Description string         `json:"description"`
	Step        transform.Step `json:"step"`
}

// StepsResponse reports the pipeline state after a step change.
type StepsResponse struct {
	Steps   []StepInfo   `json:"steps"`
	Preview TablePreview `json:"preview"`
}

// TransformerInfo describes one registered plugin transformer.
type TransformerInfo struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Params      []transform.Param `json:"params"`
}
