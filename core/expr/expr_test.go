package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datafusion/core/table"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.FromColumns([]table.Column{
		{Name: "price", Values: []table.Value{table.Number(10), table.Missing(), table.Number(4)}},
		{Name: "quantity", Values: []table.Value{table.Number(2), table.Number(3), table.Number(0)}},
		{Name: "name", Values: []table.Value{table.Text("ada"), table.Text("Grace"), table.Text("linus")}},
	})
	require.NoError(t, err)
	return tbl
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{name: "empty", src: "   "},
		{name: "unterminated string", src: "'abc"},
		{name: "unexpected character", src: "price @ 2"},
		{name: "trailing token", src: "price + 1 2"},
		{name: "unclosed paren", src: "(price + 1"},
		{name: "unknown function", src: "exec('rm')"},
		{name: "wrong arity", src: "pow(2)"},
		{name: "variadic min arity", src: "min()"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.src)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrExpression)
		})
	}
}

func TestEvalArithmetic(t *testing.T) {
	tbl := testTable(t)

	c, err := Compile("price * quantity")
	require.NoError(t, err)

	got, err := c.Eval(tbl)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, table.Number(20), got[0])
	assert.True(t, got[1].IsMissing(), "missing operand must yield missing")
	assert.Equal(t, table.Number(0), got[2])
}

func TestEvalDivisionByZero(t *testing.T) {
	tbl := testTable(t)

	c, err := Compile("price / quantity")
	require.NoError(t, err)

	got, err := c.Eval(tbl)
	require.NoError(t, err)
	assert.Equal(t, table.Number(5), got[0])
	assert.True(t, got[1].IsMissing())
	assert.True(t, got[2].IsMissing(), "division by zero must yield missing, not an error")
}

func TestEvalScalars(t *testing.T) {
	tbl, err := table.FromColumns([]table.Column{
		{Name: "x", Values: []table.Value{table.Number(2)}},
	})
	require.NoError(t, err)

	tests := []struct {
		src  string
		want table.Value
	}{
		{src: "1 + 2 * 3", want: table.Number(7)},
		{src: "(1 + 2) * 3", want: table.Number(9)},
		{src: "-x + 10", want: table.Number(8)},
		{src: "10 % 3", want: table.Number(1)},
		{src: "pow(x, 3)", want: table.Number(8)},
		{src: "sqrt(16)", want: table.Number(4)},
		{src: "sqrt(-1)", want: table.Missing()},
		{src: "min(3, x, 9)", want: table.Number(2)},
		{src: "max(3, x, 9)", want: table.Number(9)},
		{src: "abs(-5)", want: table.Number(5)},
		{src: "round(2.5)", want: table.Number(3)},
		{src: "floor(2.9)", want: table.Number(2)},
		{src: "ceil(2.1)", want: table.Number(3)},
		{src: "upper('abc')", want: table.Text("ABC")},
		{src: "lower('ABC')", want: table.Text("abc")},
		{src: "len('héllo')", want: table.Number(5)},
		{src: "'a' + 'b'", want: table.Text("ab")},
		{src: "if(x > 1, 'big', 'small')", want: table.Text("big")},
		{src: "x == 2 && x < 3", want: table.Bool(true)},
		{src: "x == 2 and not (x > 5)", want: table.Bool(true)},
		{src: "x != 2 or x >= 2", want: table.Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			c, err := Compile(tt.src)
			require.NoError(t, err)
			got, err := c.Eval(tbl)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

func TestEvalTextComparison(t *testing.T) {
	tbl := testTable(t)

	c, err := Compile("name == 'Grace'")
	require.NoError(t, err)
	got, err := c.Eval(tbl)
	require.NoError(t, err)
	assert.Equal(t, table.Bool(false), got[0])
	assert.Equal(t, table.Bool(true), got[1])

	c, err = Compile("name < 'm'")
	require.NoError(t, err)
	got, err = c.Eval(tbl)
	require.NoError(t, err)
	assert.Equal(t, table.Bool(true), got[0])
	assert.Equal(t, table.Bool(true), got[2])
}

func TestEvalUnknownColumn(t *testing.T) {
	tbl := testTable(t)

	c, err := Compile("price * tax_rate")
	require.NoError(t, err)

	_, err = c.Eval(tbl)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExpression)
	assert.Contains(t, err.Error(), "tax_rate")
}

func TestIdentifiers(t *testing.T) {
	c, err := Compile("price * quantity + price")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"price", "quantity"}, c.Identifiers())
}
