package transformers

import (
	"fmt"
	"time"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// DateExtract pulls one component out of a date column into a new
// column.
type DateExtract struct{}

// Name returns the transformer identifier.
func (DateExtract) Name() string { return "date_extract" }

// Description returns the human-readable summary.
func (DateExtract) Description() string {
	return "Extract a date component (year, month, day name, quarter, ...) into a new column"
}

// Params declares the accepted parameters.
func (DateExtract) Params() []transform.Param {
	return []transform.Param{
		{Name: "column", Type: transform.ParamSelect, Label: "Date column", Required: true, Columns: true},
		{Name: "component", Type: transform.ParamSelect, Label: "Component",
			Options: []string{
				"year", "month", "month_name", "day", "day_of_week",
				"day_name", "quarter", "week", "hour", "minute", "second",
			},
			Default: "year"},
		{Name: "target_column", Type: transform.ParamString, Label: "Target column", Required: true},
	}
}

// Transform writes the extracted component into the target column.
// Cells that cannot be read as dates become missing.
func (e DateExtract) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := e.Params()
	column := transform.StringParam(declared, params, "column")
	component := transform.StringParam(declared, params, "component")
	if component == "" {
		component = "year"
	}
	target := transform.StringParam(declared, params, "target_column")
	if target == "" {
		return nil, fmt.Errorf("%w: target column name is empty", transform.ErrInvalidStep)
	}

	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, column)
	}

	extracted := make([]table.Value, len(values))
	for i, v := range values {
		ts, ok := cellTime(v)
		if !ok {
			extracted[i] = table.Missing()
			continue
		}
		val, err := extractComponent(ts, component)
		if err != nil {
			return nil, err
		}
		extracted[i] = val
	}

	result := t.Clone()
	if err := putColumn(result, target, extracted); err != nil {
		return nil, err
	}
	return result, nil
}

func extractComponent(ts time.Time, component string) (table.Value, error) {
	switch component {
	case "year":
		return table.Number(float64(ts.Year())), nil
	case "month":
		return table.Number(float64(ts.Month())), nil
	case "month_name":
		return table.Text(ts.Month().String()), nil
	case "day":
		return table.Number(float64(ts.Day())), nil
	case "day_of_week":
		// Monday is 1, Sunday is 7.
		d := int(ts.Weekday())
		if d == 0 {
			d = 7
		}
		return table.Number(float64(d)), nil
	case "day_name":
		return table.Text(ts.Weekday().String()), nil
	case "quarter":
		return table.Number(float64((int(ts.Month())-1)/3 + 1)), nil
	case "week":
		_, week := ts.ISOWeek()
		return table.Number(float64(week)), nil
	case "hour":
		return table.Number(float64(ts.Hour())), nil
	case "minute":
		return table.Number(float64(ts.Minute())), nil
	case "second":
		return table.Number(float64(ts.Second())), nil
	default:
		return table.Value{}, fmt.Errorf("%w: unknown component %q", transform.ErrInvalidStep, component)
	}
}

// cellTime reads a cell as a datetime, auto-detecting the layout for
// text cells.
func cellTime(v table.Value) (time.Time, bool) {
	if v.IsMissing() {
		return time.Time{}, false
	}
	if ts, ok := v.Time(); ok {
		return ts, true
	}
	return table.ParseTime(v.String(), "")
}

// putColumn replaces the column when it already exists and appends it
// otherwise.
func putColumn(t *table.Table, name string, values []table.Value) error {
	if t.HasColumn(name) {
		return t.SetColumn(name, values)
	}
	return t.AddColumn(name, values)
}
