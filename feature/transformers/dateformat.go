package transformers

import (
	"fmt"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// DateFormat parses a column as datetimes and reformats it.
type DateFormat struct{}

// Name returns the transformer identifier.
func (DateFormat) Name() string { return "date_format" }

// Description returns the human-readable summary.
func (DateFormat) Description() string {
	return "Parse a column as dates (optionally with an explicit layout) and reformat it"
}

// Params declares the accepted parameters. Layouts use Go reference
// time notation, e.g. 02.01.2006.
func (DateFormat) Params() []transform.Param {
	return []transform.Param{
		{Name: "column", Type: transform.ParamSelect, Label: "Column", Required: true, Columns: true},
		{Name: "input_layout", Type: transform.ParamString, Label: "Input layout (blank = auto-detect)"},
		{Name: "output_layout", Type: transform.ParamString, Label: "Output layout", Default: "2006-01-02"},
	}
}

// Transform reformats the column as text in the output layout. Cells
// that cannot be parsed become missing.
func (d DateFormat) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := d.Params()
	column := transform.StringParam(declared, params, "column")
	inputLayout := transform.StringParam(declared, params, "input_layout")
	outputLayout := transform.StringParam(declared, params, "output_layout")
	if outputLayout == "" {
		outputLayout = "2006-01-02"
	}

	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, column)
	}

	formatted := make([]table.Value, len(values))
	for i, v := range values {
		if v.IsMissing() {
			formatted[i] = table.Missing()
			continue
		}
		if ts, ok := v.Time(); ok {
			formatted[i] = table.Text(ts.Format(outputLayout))
			continue
		}
		ts, ok := table.ParseTime(v.String(), inputLayout)
		if !ok {
			formatted[i] = table.Missing()
			continue
		}
		formatted[i] = table.Text(ts.Format(outputLayout))
	}

	result := t.Clone()
	if err := result.SetColumn(column, formatted); err != nil {
		return nil, err
	}
	return result, nil
}
