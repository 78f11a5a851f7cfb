package transformers

import (
	"fmt"
	"math"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// Scaling normalizes a numeric column.
type Scaling struct{}

// Name returns the transformer identifier.
func (Scaling) Name() string { return "numeric_scaling" }

// Description returns the human-readable summary.
func (Scaling) Description() string {
	return "Scale a numeric column (min-max, z-score, max-abs, or a custom range)"
}

// Params declares the accepted parameters.
func (Scaling) Params() []transform.Param {
	return []transform.Param{
		{Name: "column", Type: transform.ParamSelect, Label: "Column", Required: true, Columns: true},
		{Name: "method", Type: transform.ParamSelect, Label: "Method",
			Options: []string{"min_max", "z_score", "max_abs", "custom_range"},
			Default: "min_max"},
		{Name: "range_min", Type: transform.ParamNumber, Label: "Range minimum", Default: 0.0},
		{Name: "range_max", Type: transform.ParamNumber, Label: "Range maximum", Default: 1.0},
	}
}

// Transform scales the column. Cells without a numeric reading become
// missing.
func (s Scaling) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := s.Params()
	column := transform.StringParam(declared, params, "column")
	method := transform.StringParam(declared, params, "method")
	if method == "" {
		method = "min_max"
	}

	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, column)
	}

	nums := make([]float64, 0, len(values))
	for _, v := range values {
		if f, ok := v.Number(); ok {
			nums = append(nums, f)
		}
	}
	if len(nums) == 0 {
		return nil, fmt.Errorf("%w: column %q has no numeric values", transform.ErrInvalidStep, column)
	}

	min, max := nums[0], nums[0]
	var sum, maxAbs float64
	for _, f := range nums {
		if f < min {
			min = f
		}
		if f > max {
			max = f
		}
		if math.Abs(f) > maxAbs {
			maxAbs = math.Abs(f)
		}
		sum += f
	}
	mean := sum / float64(len(nums))
	var variance float64
	for _, f := range nums {
		variance += (f - mean) * (f - mean)
	}
	std := math.Sqrt(variance / float64(len(nums)))

	lo, _ := transform.NumberParam(declared, params, "range_min")
	hi, _ := transform.NumberParam(declared, params, "range_max")

	scale := func(f float64) (float64, bool) {
		switch method {
		case "min_max":
			if max == min {
				return 0, true
			}
			return (f - min) / (max - min), true
		case "z_score":
			if std == 0 {
				return 0, true
			}
			return (f - mean) / std, true
		case "max_abs":
			if maxAbs == 0 {
				return 0, true
			}
			return f / maxAbs, true
		case "custom_range":
			if max == min {
				return lo, true
			}
			return lo + (f-min)/(max-min)*(hi-lo), true
		default:
			return 0, false
		}
	}

	scaled := make([]table.Value, len(values))
	for i, v := range values {
		f, ok := v.Number()
		if !ok {
			scaled[i] = table.Missing()
			continue
		}
		out, ok := scale(f)
		if !ok {
			return nil, fmt.Errorf("%w: unknown scaling method %q", transform.ErrInvalidStep, method)
		}
		scaled[i] = table.Number(out)
	}

	result := t.Clone()
	if err := result.SetColumn(column, scaled); err != nil {
		return nil, err
	}
	return result, nil
}
