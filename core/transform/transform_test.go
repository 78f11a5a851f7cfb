package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datafusion/core/expr"
	"datafusion/core/table"
)

func salesTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromColumns([]table.Column{
		{Name: "price", Values: []table.Value{table.Number(10), table.Missing(), table.Number(4)}},
		{Name: "quantity", Values: []table.Value{table.Number(2), table.Number(3), table.Number(5)}},
		{Name: "city", Values: []table.Value{table.Text("Berlin"), table.Text("Paris"), table.Text("Berlin")}},
	})
	require.NoError(t, err)
	return tbl
}

func TestCalculatedColumn(t *testing.T) {
	tbl := salesTable(t)

	out, err := Apply(tbl, Step{
		Kind:       KindCalculated,
		Column:     "total",
		Expression: "price * quantity",
	}, nil)
	require.NoError(t, err)

	col, ok := out.Column("total")
	require.True(t, ok)
	assert.Equal(t, table.Number(20), col[0])
	assert.True(t, col[1].IsMissing())
	assert.Equal(t, table.Number(20), col[2])

	assert.False(t, tbl.HasColumn("total"), "input table must not be mutated")
}

func TestCalculatedColumnBadExpression(t *testing.T) {
	tbl := salesTable(t)

	_, err := Apply(tbl, Step{
		Kind:       KindCalculated,
		Column:     "total",
		Expression: "price +",
	}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, expr.ErrExpression)
}

func TestTypeConversion(t *testing.T) {
	tbl, err := table.FromColumns([]table.Column{
		{Name: "raw", Values: []table.Value{table.Text("12.5"), table.Text("oops"), table.Missing()}},
	})
	require.NoError(t, err)

	out, err := Apply(tbl, Step{Kind: KindConvert, Column: "raw", TargetType: TypeNumber}, nil)
	require.NoError(t, err)

	col, _ := out.Column("raw")
	assert.Equal(t, table.Number(12.5), col[0])
	assert.True(t, col[1].IsMissing(), "ill-formed cell degrades to missing")
	assert.True(t, col[2].IsMissing())
}

func TestTypeConversionDatetimeLayout(t *testing.T) {
	tbl, err := table.FromColumns([]table.Column{
		{Name: "when", Values: []table.Value{table.Text("31-12-2024")}},
	})
	require.NoError(t, err)

	out, err := Apply(tbl, Step{
		Kind:       KindConvert,
		Column:     "when",
		TargetType: TypeDatetime,
		Layout:     "02-01-2006",
	}, nil)
	require.NoError(t, err)

	col, _ := out.Column("when")
	ts, ok := col[0].Time()
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 31, ts.Day())
}

func TestValueReplacement(t *testing.T) {
	tbl := salesTable(t)

	out, err := Apply(tbl, Step{
		Kind:    KindReplace,
		Column:  "city",
		Find:    "Berlin",
		Replace: "Hamburg",
	}, nil)
	require.NoError(t, err)

	col, _ := out.Column("city")
	assert.Equal(t, table.Text("Hamburg"), col[0])
	assert.Equal(t, table.Text("Paris"), col[1])
	assert.Equal(t, table.Text("Hamburg"), col[2])
}

func TestRowFilter(t *testing.T) {
	tbl, err := table.FromColumns([]table.Column{
		{Name: "v", Values: []table.Value{table.Number(5), table.Number(15), table.Number(25)}},
	})
	require.NoError(t, err)

	out, err := Apply(tbl, Step{Kind: KindFilter, Column: "v", Operator: OpGreaterThan, Operand: "10"}, nil)
	require.NoError(t, err)

	require.Equal(t, 2, out.NumRows())
	col, _ := out.Column("v")
	assert.Equal(t, table.Number(15), col[0])
	assert.Equal(t, table.Number(25), col[1])
}

func TestRowFilterOperators(t *testing.T) {
	tbl, err := table.FromColumns([]table.Column{
		{Name: "name", Values: []table.Value{table.Text("alpha"), table.Text("beta"), table.Missing()}},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		operator string
		operand  string
		wantRows int
	}{
		{name: "equals", operator: OpEquals, operand: "beta", wantRows: 1},
		{name: "not equals skips missing", operator: OpNotEquals, operand: "beta", wantRows: 1},
		{name: "contains", operator: OpContains, operand: "a", wantRows: 2},
		{name: "lexical less than", operator: OpLessThan, operand: "b", wantRows: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Apply(tbl, Step{Kind: KindFilter, Column: "name", Operator: tt.operator, Operand: tt.operand}, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRows, out.NumRows())
		})
	}
}

func TestReplayAndReset(t *testing.T) {
	original := salesTable(t)

	steps := []Step{
		{Kind: KindCalculated, Column: "total", Expression: "price * quantity"},
		{Kind: KindFilter, Column: "city", Operator: OpEquals, Operand: "Berlin"},
	}
	out, err := Replay(original, steps, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, out.NumRows())
	assert.True(t, out.HasColumn("total"))

	// Removing the steps restores exactly the original.
	reset, err := Replay(original, nil, nil)
	require.NoError(t, err)
	assert.True(t, reset.Equal(original))
	assert.False(t, reset == original, "reset must be a copy")
}

func TestReplayStepPositionInError(t *testing.T) {
	original := salesTable(t)

	_, err := Replay(original, []Step{
		{Kind: KindCalculated, Column: "total", Expression: "price * quantity"},
		{Kind: KindFilter, Column: "ghost", Operator: OpEquals, Operand: "x"},
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "step 2")
}

func TestStepValidation(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTransformer{name: "noop"}))

	tests := []struct {
		name string
		step Step
		ok   bool
	}{
		{name: "calculated", step: Step{Kind: KindCalculated, Column: "c", Expression: "1 + 1"}, ok: true},
		{name: "calculated without name", step: Step{Kind: KindCalculated, Expression: "1"}, ok: false},
		{name: "calculated bad expression", step: Step{Kind: KindCalculated, Column: "c", Expression: "+"}, ok: false},
		{name: "convert", step: Step{Kind: KindConvert, Column: "c", TargetType: TypeText}, ok: true},
		{name: "convert bad type", step: Step{Kind: KindConvert, Column: "c", TargetType: "blob"}, ok: false},
		{name: "filter", step: Step{Kind: KindFilter, Column: "c", Operator: OpContains, Operand: "x"}, ok: true},
		{name: "filter bad operator", step: Step{Kind: KindFilter, Column: "c", Operator: "near"}, ok: false},
		{name: "plugin", step: Step{Kind: KindPlugin, Transformer: "noop"}, ok: true},
		{name: "plugin unknown", step: Step{Kind: KindPlugin, Transformer: "ghost"}, ok: false},
		{name: "unknown kind", step: Step{Kind: "warp"}, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.step.Validate(reg)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTransformer{name: "b"}))
	require.NoError(t, reg.Register(&fakeTransformer{name: "a"}))

	err := reg.Register(&fakeTransformer{name: "a"})
	require.Error(t, err)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Name(), "registration order is preserved")
	assert.Equal(t, "a", list[1].Name())
}

func TestValidateParams(t *testing.T) {
	declared := []Param{
		{Name: "column", Type: ParamSelect, Required: true, Columns: true},
		{Name: "mode", Type: ParamSelect, Options: []string{"fast", "slow"}, Default: "fast"},
	}

	assert.NoError(t, ValidateParams(declared, map[string]any{"column": "price"}))
	assert.Error(t, ValidateParams(declared, map[string]any{}), "required parameter missing")
	assert.Error(t, ValidateParams(declared, map[string]any{"column": "price", "mode": "warp"}))
	assert.Error(t, ValidateParams(declared, map[string]any{"column": "price", "typo": true}))
}

func TestPluginStepRunsThroughPipeline(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTransformer{name: "drop_first"}))

	tbl := salesTable(t)
	out, err := Replay(tbl, []Step{{Kind: KindPlugin, Transformer: "drop_first"}}, reg)
	require.NoError(t, err)
	assert.Equal(t, tbl.NumRows()-1, out.NumRows())
}

type fakeTransformer struct {
	name string
}

func (f *fakeTransformer) Name() string        { return f.name }
func (f *fakeTransformer) Description() string { return "test transformer" }
func (f *fakeTransformer) Params() []Param     { return nil }

func (f *fakeTransformer) Transform(t *table.Table, _ map[string]any) (*table.Table, error) {
	if f.name == "drop_first" {
		rows := make([]int, 0, t.NumRows())
		for i := 1; i < t.NumRows(); i++ {
			rows = append(rows, i)
		}
		return t.SelectRows(rows), nil
	}
	return t.Clone(), nil
}
