package table_test

import (
	"testing"
	"time"

	"datafusion/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want table.Kind
	}{
		{"Empty", "", table.KindMissing},
		{"Whitespace", "   ", table.KindMissing},
		{"Integer", "42", table.KindNumber},
		{"Float", "3.14", table.KindNumber},
		{"Negative", "-7", table.KindNumber},
		{"BoolTrue", "true", table.KindBool},
		{"BoolFalseMixedCase", "False", table.KindBool},
		{"ISODate", "2023-05-01", table.KindTime},
		{"RFC3339", "2023-05-01T10:30:00Z", table.KindTime},
		{"PlainText", "hello world", table.KindText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, table.Parse(tt.in).Kind())
		})
	}
}

func TestValue_Number(t *testing.T) {
	f, ok := table.Text("12.5").Number()
	assert.True(t, ok)
	assert.Equal(t, 12.5, f)

	_, ok = table.Text("not a number").Number()
	assert.False(t, ok)

	f, ok = table.Bool(true).Number()
	assert.True(t, ok)
	assert.Equal(t, 1.0, f)

	_, ok = table.Missing().Number()
	assert.False(t, ok)
}

func TestValue_String(t *testing.T) {
	assert.Equal(t, "", table.Missing().String())
	assert.Equal(t, "10", table.Number(10).String())
	assert.Equal(t, "10.5", table.Number(10.5).String())
	assert.Equal(t, "true", table.Bool(true).String())

	ts := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "2023-05-01T00:00:00Z", table.Time(ts).String())
}

func TestTable_ColumnLengthInvariant(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("a", []table.Value{table.Number(1), table.Number(2)}))

	err := tbl.AddColumn("b", []table.Value{table.Number(1)})
	assert.Error(t, err)

	err = tbl.AddColumn("a", []table.Value{table.Number(1), table.Number(2)})
	assert.Error(t, err, "duplicate column name must be rejected")

	assert.Equal(t, 2, tbl.NumRows())
	assert.Equal(t, 1, tbl.NumCols())
}

func TestTable_RowRoundTrip(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("id", []table.Value{table.Number(1)}))
	require.NoError(t, tbl.AddColumn("name", []table.Value{table.Text("ada")}))

	require.NoError(t, tbl.AppendRow([]table.Value{table.Number(2), table.Text("grace")}))
	assert.Error(t, tbl.AppendRow([]table.Value{table.Number(3)}))

	row := tbl.Row(1)
	assert.Equal(t, "2", row[0].String())
	assert.Equal(t, "grace", row[1].String())
}

func TestTable_CloneIsIndependent(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("a", []table.Value{table.Number(1)}))

	clone := tbl.Clone()
	require.NoError(t, clone.AppendRow([]table.Value{table.Number(2)}))

	assert.Equal(t, 1, tbl.NumRows())
	assert.Equal(t, 2, clone.NumRows())
	assert.True(t, tbl.Equal(tbl.Clone()))
	assert.False(t, tbl.Equal(clone))
}

func TestTable_DeduplicateIdempotent(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("a", []table.Value{
		table.Number(1), table.Number(2), table.Number(1), table.Number(2),
	}))
	require.NoError(t, tbl.AddColumn("b", []table.Value{
		table.Text("x"), table.Text("y"), table.Text("x"), table.Text("z"),
	}))

	once := tbl.Deduplicate()
	assert.Equal(t, 3, once.NumRows(), "only the exact duplicate row drops")

	twice := once.Deduplicate()
	assert.True(t, once.Equal(twice))
}

func TestTable_InferKind(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("mostly_numbers", []table.Value{
		table.Number(1), table.Missing(), table.Number(3), table.Text("n/a"),
	}))
	require.NoError(t, tbl.AddColumn("all_missing", []table.Value{
		table.Missing(), table.Missing(), table.Missing(), table.Missing(),
	}))

	assert.Equal(t, table.KindNumber, tbl.InferKind("mostly_numbers"))
	assert.Equal(t, table.KindMissing, tbl.InferKind("all_missing"))
	assert.Equal(t, table.KindMissing, tbl.InferKind("no_such_column"))
}

func TestTable_RenameColumn(t *testing.T) {
	tbl := table.New()
	require.NoError(t, tbl.AddColumn("a", []table.Value{table.Number(1)}))
	require.NoError(t, tbl.AddColumn("b", []table.Value{table.Number(2)}))

	require.NoError(t, tbl.RenameColumn("a", "c"))
	assert.Equal(t, []string{"c", "b"}, tbl.Names())

	assert.Error(t, tbl.RenameColumn("missing", "x"))
	assert.Error(t, tbl.RenameColumn("c", "b"))
}
