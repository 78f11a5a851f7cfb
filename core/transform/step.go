package transform

import (
	"fmt"
	"strings"

	"datafusion/core/expr"
	"datafusion/core/table"
)

// Kind identifies the type of a transformation step.
type Kind string

const (
	KindCalculated Kind = "calculated_column"
	KindConvert    Kind = "type_conversion"
	KindReplace    Kind = "value_replacement"
	KindFilter     Kind = "row_filter"
	KindPlugin     Kind = "plugin"
)

// Target types for a type-conversion step.
const (
	TypeText     = "text"
	TypeNumber   = "number"
	TypeDatetime = "datetime"
	TypeBoolean  = "boolean"
)

// Filter operators for a row-filter step.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not_equals"
	OpContains    = "contains"
	OpGreaterThan = "greater_than"
	OpLessThan    = "less_than"
)

// Step is one transformation in the pipeline. Kind selects which of
// the remaining fields apply; the struct is flat so it round-trips
// through JSON request bodies without custom marshalling.
type Step struct {
	Kind Kind `json:"kind"`

	// Column is the target column: the new column name for
	// calculated steps, the existing column for the others.
	Column string `json:"column,omitempty"`

	// Expression is the calculated-column source.
	Expression string `json:"expression,omitempty"`

	// TargetType is the type-conversion destination.
	TargetType string `json:"target_type,omitempty"`
	// Layout is an optional datetime parse layout for conversions.
	Layout string `json:"layout,omitempty"`

	// Find and Replace drive value replacement.
	Find    string `json:"find,omitempty"`
	Replace string `json:"replace,omitempty"`

	// Operator and Operand drive row filtering.
	Operator string `json:"operator,omitempty"`
	Operand  string `json:"operand,omitempty"`

	// Transformer and Params drive plugin steps.
	Transformer string         `json:"transformer,omitempty"`
	Params      map[string]any `json:"params,omitempty"`
}

// Validate checks the step's structure. Plugin steps are checked
// against the registry's declared parameters; calculated expressions
// are compiled, so a syntax error is caught before the step enters
// the pipeline.
func (s Step) Validate(reg *Registry) error {
	switch s.Kind {
	case KindCalculated:
		if strings.TrimSpace(s.Column) == "" {
			return fmt.Errorf("%w: calculated column needs a name", ErrInvalidStep)
		}
		if _, err := expr.Compile(s.Expression); err != nil {
			return err
		}
	case KindConvert:
		if s.Column == "" {
			return fmt.Errorf("%w: type conversion needs a column", ErrInvalidStep)
		}
		switch s.TargetType {
		case TypeText, TypeNumber, TypeDatetime, TypeBoolean:
		default:
			return fmt.Errorf("%w: unknown target type %q", ErrInvalidStep, s.TargetType)
		}
	case KindReplace:
		if s.Column == "" {
			return fmt.Errorf("%w: value replacement needs a column", ErrInvalidStep)
		}
	case KindFilter:
		if s.Column == "" {
			return fmt.Errorf("%w: row filter needs a column", ErrInvalidStep)
		}
		switch s.Operator {
		case OpEquals, OpNotEquals, OpContains, OpGreaterThan, OpLessThan:
		default:
			return fmt.Errorf("%w: unknown filter operator %q", ErrInvalidStep, s.Operator)
		}
	case KindPlugin:
		if reg == nil {
			return fmt.Errorf("%w: no transformer registry", ErrInvalidStep)
		}
		tr, ok := reg.Lookup(s.Transformer)
		if !ok {
			return fmt.Errorf("%w: unknown transformer %q", ErrInvalidStep, s.Transformer)
		}
		if err := ValidateParams(tr.Params(), s.Params); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown step kind %q", ErrInvalidStep, s.Kind)
	}
	return nil
}

// Describe returns a short human-readable summary of the step.
func (s Step) Describe() string {
	switch s.Kind {
	case KindCalculated:
		return fmt.Sprintf("calculated column %q = %s", s.Column, s.Expression)
	case KindConvert:
		return fmt.Sprintf("convert %q to %s", s.Column, s.TargetType)
	case KindReplace:
		return fmt.Sprintf("replace %q with %q in %q", s.Find, s.Replace, s.Column)
	case KindFilter:
		return fmt.Sprintf("keep rows where %q %s %q", s.Column, s.Operator, s.Operand)
	case KindPlugin:
		return fmt.Sprintf("transformer %q", s.Transformer)
	default:
		return string(s.Kind)
	}
}

// apply runs the step against t and returns a new table. The input is
// never mutated.
func (s Step) apply(t *table.Table, reg *Registry) (*table.Table, error) {
	switch s.Kind {
	case KindCalculated:
		return applyCalculated(t, s)
	case KindConvert:
		return applyConvert(t, s)
	case KindReplace:
		return applyReplace(t, s)
	case KindFilter:
		return applyFilter(t, s)
	case KindPlugin:
		tr, ok := reg.Lookup(s.Transformer)
		if !ok {
			return nil, fmt.Errorf("%w: unknown transformer %q", ErrInvalidStep, s.Transformer)
		}
		return tr.Transform(t, s.Params)
	default:
		return nil, fmt.Errorf("%w: unknown step kind %q", ErrInvalidStep, s.Kind)
	}
}

func applyCalculated(t *table.Table, s Step) (*table.Table, error) {
	c, err := expr.Compile(s.Expression)
	if err != nil {
		return nil, err
	}
	values, err := c.Eval(t)
	if err != nil {
		return nil, err
	}
	out := t.Clone()
	if out.HasColumn(s.Column) {
		if err := out.SetColumn(s.Column, values); err != nil {
			return nil, err
		}
		return out, nil
	}
	if err := out.AddColumn(s.Column, values); err != nil {
		return nil, err
	}
	return out, nil
}

func applyConvert(t *table.Table, s Step) (*table.Table, error) {
	values, ok := t.Column(s.Column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidStep, s.Column)
	}
	converted := make([]table.Value, len(values))
	for i, v := range values {
		converted[i] = convertValue(v, s.TargetType, s.Layout)
	}
	out := t.Clone()
	if err := out.SetColumn(s.Column, converted); err != nil {
		return nil, err
	}
	return out, nil
}

// convertValue coerces one cell. Ill-formed input degrades to the
// missing marker instead of failing the step.
func convertValue(v table.Value, target, layout string) table.Value {
	if v.IsMissing() {
		return v
	}
	switch target {
	case TypeText:
		return table.Text(v.String())
	case TypeNumber:
		if f, ok := v.Number(); ok {
			return table.Number(f)
		}
	case TypeDatetime:
		if ts, ok := v.Time(); ok {
			return table.Time(ts)
		}
		if ts, ok := table.ParseTime(v.String(), layout); ok {
			return table.Time(ts)
		}
	case TypeBoolean:
		if b, ok := v.Bool(); ok {
			return table.Bool(b)
		}
		switch strings.ToLower(strings.TrimSpace(v.String())) {
		case "true", "yes", "1":
			return table.Bool(true)
		case "false", "no", "0":
			return table.Bool(false)
		}
	}
	return table.Missing()
}

func applyReplace(t *table.Table, s Step) (*table.Table, error) {
	values, ok := t.Column(s.Column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidStep, s.Column)
	}
	replaced := make([]table.Value, len(values))
	for i, v := range values {
		if !v.IsMissing() && v.String() == s.Find {
			replaced[i] = table.Parse(s.Replace)
		} else {
			replaced[i] = v
		}
	}
	out := t.Clone()
	if err := out.SetColumn(s.Column, replaced); err != nil {
		return nil, err
	}
	return out, nil
}

func applyFilter(t *table.Table, s Step) (*table.Table, error) {
	values, ok := t.Column(s.Column)
	if !ok {
		return nil, fmt.Errorf("%w: no column %q", ErrInvalidStep, s.Column)
	}
	var keep []int
	for i, v := range values {
		if filterMatch(v, s.Operator, s.Operand) {
			keep = append(keep, i)
		}
	}
	return t.SelectRows(keep), nil
}

// filterMatch compares numerically when both the cell and the operand
// have a numeric reading, lexically otherwise. Missing cells never
// match.
func filterMatch(v table.Value, op, operand string) bool {
	if v.IsMissing() {
		return false
	}
	switch op {
	case OpEquals, OpNotEquals:
		eq := v.String() == operand
		if f, ok := v.Number(); ok {
			if g, ok := table.Text(operand).Number(); ok {
				eq = f == g
			}
		}
		if op == OpEquals {
			return eq
		}
		return !eq
	case OpContains:
		return strings.Contains(v.String(), operand)
	case OpGreaterThan, OpLessThan:
		if f, ok := v.Number(); ok {
			if g, ok := table.Text(operand).Number(); ok {
				if op == OpGreaterThan {
					return f > g
				}
				return f < g
			}
		}
		if op == OpGreaterThan {
			return v.String() > operand
		}
		return v.String() < operand
	default:
		return false
	}
}
