package transformers

import (
	"fmt"
	"strings"

	"datafusion/core/table"
	"datafusion/core/transform"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TextOps applies a string operation to a column.
type TextOps struct{}

// Name returns the transformer identifier.
func (TextOps) Name() string { return "text_operations" }

// Description returns the human-readable summary.
func (TextOps) Description() string {
	return "Apply a text operation to a column (case change, trim, find & replace)"
}

// Params declares the accepted parameters.
func (TextOps) Params() []transform.Param {
	return []transform.Param{
		{Name: "column", Type: transform.ParamSelect, Label: "Column", Required: true, Columns: true},
		{Name: "operation", Type: transform.ParamSelect, Label: "Operation",
			Options: []string{"upper", "lower", "title", "trim", "replace"},
			Default: "trim"},
		{Name: "find", Type: transform.ParamString, Label: "Find (replace only)"},
		{Name: "replace", Type: transform.ParamString, Label: "Replace with"},
	}
}

// Transform rewrites the column as text. Missing cells stay missing.
func (o TextOps) Transform(t *table.Table, params map[string]any) (*table.Table, error) {
	declared := o.Params()
	column := transform.StringParam(declared, params, "column")
	operation := transform.StringParam(declared, params, "operation")
	if operation == "" {
		operation = "trim"
	}
	find := transform.StringParam(declared, params, "find")
	replace := transform.StringParam(declared, params, "replace")

	values, ok := t.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", transform.ErrInvalidStep, column)
	}

	var apply func(string) string
	switch operation {
	case "upper":
		apply = strings.ToUpper
	case "lower":
		apply = strings.ToLower
	case "title":
		titled := cases.Title(language.Und)
		apply = titled.String
	case "trim":
		apply = strings.TrimSpace
	case "replace":
		if find == "" {
			return nil, fmt.Errorf("%w: replace needs a non-empty find string", transform.ErrInvalidStep)
		}
		apply = func(s string) string { return strings.ReplaceAll(s, find, replace) }
	default:
		return nil, fmt.Errorf("%w: unknown text operation %q", transform.ErrInvalidStep, operation)
	}

	rewritten := make([]table.Value, len(values))
	for i, v := range values {
		if v.IsMissing() {
			rewritten[i] = table.Missing()
			continue
		}
		rewritten[i] = table.Text(apply(v.String()))
	}

	result := t.Clone()
	if err := result.SetColumn(column, rewritten); err != nil {
		return nil, err
	}
	return result, nil
}
