package transformers

import (
	"fmt"
	"regexp"

	"datafusion/core/table"
	"datafusion/core/transform"
)

// PatternExtract copies the first regex match of each cell into a new
// column.
type PatternExtract struct{}

// Name returns the transformer identifier.
func (PatternExtract) Name() string { return "pattern_extract" }

// Description returns the human-readable summary.
func (PatternExtract) Description() string {
	return "Extract the first regular-expression match from a column into a new column"
}

// Params declares the accepted parameters.
func (PatternExtract) Params() []transform.Param {
	return []transform.Param{
		{Name: "column", Type: transform.ParamSelect, Label: "Source column", Required: true, Columns: true},
		{Name: "target_column", Type: transform.ParamString, Label: "Target column", Required: true},
		{Name: "pattern", Type: transform.ParamString, Label: "Pattern", Default: `(\d+)`},
		{Name: "no_match", Type: transform.ParamString, Label: "Value for non-matches", Default: ""},
	}
}

// Transform writes the whole match (not a capture group) for each
// cell; cells without a match get the no_match value. Missing cells
// stay missing.
func (p PatternExtract) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := p.Params()
	column := transform.StringParam(declared, params, "column")
	target := transform.StringParam(declared, params, "target_column")
	if target == "" {
		return nil, fmt.Errorf("%w: target column name is empty", transform.ErrInvalidStep)
	}
	pattern := transform.StringParam(declared, params, "pattern")
	if pattern == "" {
		return nil, fmt.Errorf("%w: pattern is empty", transform.ErrInvalidStep)
	}
	noMatch := transform.StringParam(declared, params, "no_match")

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid pattern: %v", transform.ErrInvalidStep, err)
	}
	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, column)
	}

	extracted := make([]table.Value, len(values))
	for i, v := range values {
		if v.IsMissing() {
			extracted[i] = table.Missing()
			continue
		}
		s := v.String()
		if loc := re.FindStringIndex(s); loc != nil {
			extracted[i] = table.Text(s[loc[0]:loc[1]])
			continue
		}
		extracted[i] = table.Text(noMatch)
	}

	result := t.Clone()
	if err := putColumn(result, target, extracted); err != nil {
		return nil, err
	}
	return result, nil
}
