package transformers

import (
	"fmt"
	"math"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// DateDiff computes the elapsed time between two date columns.
type DateDiff struct{}

// Name returns the transformer identifier.
func (DateDiff) Name() string { return "date_difference" }

// Description returns the human-readable summary.
func (DateDiff) Description() string {
	return "Calculate the difference between two date columns in a chosen unit"
}

// Params declares the accepted parameters. Month and year units use
// average lengths (30.44 and 365.25 days).
func (DateDiff) Params() []transform.Param {
	return []transform.Param{
		{Name: "start_column", Type: transform.ParamSelect, Label: "Start column", Required: true, Columns: true},
		{Name: "end_column", Type: transform.ParamSelect, Label: "End column", Required: true, Columns: true},
		{Name: "target_column", Type: transform.ParamString, Label: "Target column", Default: "date_difference"},
		{Name: "unit", Type: transform.ParamSelect, Label: "Unit",
			Options: []string{"days", "hours", "minutes", "seconds", "weeks", "months", "years"},
			Default: "days"},
		{Name: "absolute", Type: transform.ParamBoolean, Label: "Absolute value"},
	}
}

// Transform writes end minus start, rounded to two decimals, into the
// target column. Rows where either side cannot be read as a date
// become missing.
func (d DateDiff) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := d.Params()
	startCol := transform.StringParam(declared, params, "start_column")
	endCol := transform.StringParam(declared, params, "end_column")
	target := transform.StringParam(declared, params, "target_column")
	if target == "" {
		target = "date_difference"
	}
	unit := transform.StringParam(declared, params, "unit")
	if unit == "" {
		unit = "days"
	}
	absolute := transform.BoolParam(declared, params, "absolute")

	perUnit, ok := unitSeconds(unit)
	if !ok {
		return nil, fmt.Errorf("%w: unknown unit %q", transform.ErrInvalidStep, unit)
	}
	starts, ok := t.Column(startCol)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, startCol)
	}
	ends, ok := t.Column(endCol)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, endCol)
	}

	diffs := make([]table.Value, len(starts))
	for i := range starts {
		start, okS := cellTime(starts[i])
		end, okE := cellTime(ends[i])
		if !okS || !okE {
			diffs[i] = table.Missing()
			continue
		}
		val := end.Sub(start).Seconds() / perUnit
		if absolute {
			val = math.Abs(val)
		}
		diffs[i] = table.Number(math.Round(val*100) / 100)
	}

	result := t.Clone()
	if err := putColumn(result, target, diffs); err != nil {
		return nil, err
	}
	return result, nil
}

func unitSeconds(unit string) (float64, bool) {
	switch unit {
	case "seconds":
		return 1, true
	case "minutes":
		return 60, true
	case "hours":
		return 60 * 60, true
	case "days":
		return 60 * 60 * 24, true
	case "weeks":
		return 60 * 60 * 24 * 7, true
	case "months":
		return 60 * 60 * 24 * 30.44, true
	case "years":
		return 60 * 60 * 24 * 365.25, true
	default:
		return 0, false
	}
}
