package transformers

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// Binning buckets a numeric column into labelled intervals.
type Binning struct{}

// Name returns the transformer identifier.
func (Binning) Name() string { return "numeric_binning" }

// Description returns the human-readable summary.
func (Binning) Description() string {
	return "Bucket a numeric column into intervals (equal width, quantile, or custom edges)"
}

// Params declares the accepted parameters.
func (Binning) Params() []transform.Param {
	return []transform.Param{
		{Name: "column", Type: transform.ParamSelect, Label: "Column", Required: true, Columns: true},
		{Name: "method", Type: transform.ParamSelect, Label: "Method",
			Options: []string{"equal_width", "quantile", "custom"},
			Default: "equal_width"},
		{Name: "bins", Type: transform.ParamNumber, Label: "Number of bins", Default: 5.0},
		{Name: "edges", Type: transform.ParamString, Label: "Custom edges (comma-separated)"},
	}
}

// Transform replaces the column with interval labels. Cells without a
// numeric reading become missing.
func (b Binning) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := b.Params()
	column := transform.StringParam(declared, params, "column")
	method := transform.StringParam(declared, params, "method")
	if method == "" {
		method = "equal_width"
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

	edges, err := b.edges(method, nums, declared, params)
	if err != nil {
		return nil, err
	}

	binned := make([]table.Value, len(values))
	for i, v := range values {
		f, ok := v.Number()
		if !ok {
			binned[i] = table.Missing()
			continue
		}
		binned[i] = table.Text(binLabel(edges, f))
	}

	result := t.Clone()
	if err := result.SetColumn(column, binned); err != nil {
		return nil, err
	}
	return result, nil
}

func (b Binning) edges(method string, nums []float64, declared []transform.Param, params map[string]any) ([]float64, error) {
	switch method {
	case "equal_width":
		n := binCount(declared, params)
		sorted := append([]float64{}, nums...)
		sort.Float64s(sorted)
		min, max := sorted[0], sorted[len(sorted)-1]
		edges := make([]float64, n+1)
		for i := 0; i <= n; i++ {
			edges[i] = min + (max-min)*float64(i)/float64(n)
		}
		return edges, nil
	case "quantile":
		n := binCount(declared, params)
		sorted := append([]float64{}, nums...)
		sort.Float64s(sorted)
		edges := make([]float64, n+1)
		for i := 0; i <= n; i++ {
			pos := float64(i) / float64(n) * float64(len(sorted)-1)
			edges[i] = sorted[int(pos)]
		}
		return edges, nil
	case "custom":
		raw := transform.StringParam(declared, params, "edges")
		parts := strings.Split(raw, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: custom binning needs at least two edges", transform.ErrInvalidStep)
		}
		edges := make([]float64, len(parts))
		for i, p := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: bad edge %q", transform.ErrInvalidStep, p)
			}
			edges[i] = f
		}
		if !sort.Float64sAreSorted(edges) {
			return nil, fmt.Errorf("%w: edges must be ascending", transform.ErrInvalidStep)
		}
		return edges, nil
	default:
		return nil, fmt.Errorf("%w: unknown binning method %q", transform.ErrInvalidStep, method)
	}
}

func binCount(declared []transform.Param, params map[string]any) int {
	n, ok := transform.NumberParam(declared, params, "bins")
	if !ok || n < 1 {
		return 5
	}
	return int(n)
}

// binLabel returns the interval label for f. Intervals are
// half-open, the last one closed; values outside the edges clamp to
// the first or last bin.
func binLabel(edges []float64, f float64) string {
	last := len(edges) - 2
	idx := last
	for i := 0; i < last; i++ {
		if f < edges[i+1] {
			idx = i
			break
		}
	}
	if idx < 0 {
		idx = 0
	}
	return fmt.Sprintf("%s - %s", formatEdge(edges[idx]), formatEdge(edges[idx+1]))
}

func formatEdge(f float64) string {
	return strconv.FormatFloat(f, 'g', 4, 64)
}
