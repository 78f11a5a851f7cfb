package schema_test

import (
	"testing"

	"datafusion/core/schema"
	"datafusion/core/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T, cols ...string) *table.Table {
	t.Helper()
	tbl := table.New()
	for _, c := range cols {
		require.NoError(t, tbl.AddColumn(c, []table.Value{table.Number(1)}))
	}
	return tbl
}

func fileSet(t *testing.T, files map[string][]string, order ...string) *table.FileSet {
	t.Helper()
	fs := table.NewFileSet()
	for _, id := range order {
		require.NoError(t, fs.Add(id, mustTable(t, files[id]...)))
	}
	return fs
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, schema.Similarity("name", "Name"))
	assert.Equal(t, 1.0, schema.Similarity("", ""))
	assert.Greater(t, schema.Similarity("customer_id", "customer_ID"), 0.9)
	assert.Less(t, schema.Similarity("price", "quantity"), 0.5)
}

func TestReconcile_ExactCaseInsensitive(t *testing.T) {
	fs := fileSet(t, map[string][]string{
		"a.csv": {"ID", "Name"},
		"b.csv": {"id", "name", "score"},
	}, "a.csv", "b.csv")

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: true})

	assert.Equal(t, []string{"id", "name", "score"}, m.Columns())
	assert.True(t, m.InAll("id"))
	assert.False(t, m.InAll("score"))
	assert.Equal(t, "ID", m.SourceIn("id", "a.csv"))
	assert.Equal(t, "id", m.SourceIn("id", "b.csv"))
}

func TestReconcile_CaseSensitiveKeepsSeparate(t *testing.T) {
	fs := fileSet(t, map[string][]string{
		"a.csv": {"ID"},
		"b.csv": {"id"},
	}, "a.csv", "b.csv")

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: false})
	assert.Equal(t, []string{"ID", "id"}, m.Columns())
}

func TestReconcile_Fuzzy(t *testing.T) {
	fs := fileSet(t, map[string][]string{
		"a.csv": {"customer_id", "amount"},
		"b.csv": {"customer_iD", "amout"},
	}, "a.csv", "b.csv")

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: true, Fuzzy: true, Threshold: 0.8})

	assert.Equal(t, []string{"customer_id", "amount"}, m.Columns())
	assert.Equal(t, "customer_iD", m.SourceIn("customer_id", "b.csv"))
	assert.Equal(t, "amout", m.SourceIn("amount", "b.csv"))
}

func TestReconcile_FuzzyBelowThresholdStaysSeparate(t *testing.T) {
	fs := fileSet(t, map[string][]string{
		"a.csv": {"price"},
		"b.csv": {"quantity"},
	}, "a.csv", "b.csv")

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: true, Fuzzy: true})
	assert.Equal(t, []string{"price", "quantity"}, m.Columns())
}

func TestReconcile_SameFileNeverGrouped(t *testing.T) {
	fs := fileSet(t, map[string][]string{
		"a.csv": {"value", "valuee"},
	}, "a.csv")

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: true, Fuzzy: true})
	assert.Len(t, m.Columns(), 2, "columns of one file must stay distinct")
}

func TestMapping_ResolveAndSuggest(t *testing.T) {
	fs := fileSet(t, map[string][]string{
		"a.csv": {"customer_id", "order_date", "total"},
	}, "a.csv")

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: true})

	got, ok := m.Resolve("Customer_ID")
	assert.True(t, ok)
	assert.Equal(t, "customer_id", got)

	_, ok = m.Resolve("no_such_column")
	assert.False(t, ok)

	suggestions := m.Suggest("customer_idd", 3)
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "customer_id", suggestions[0])
}

func TestMapping_Align(t *testing.T) {
	fs := table.NewFileSet()
	a := table.New()
	require.NoError(t, a.AddColumn("ID", []table.Value{table.Number(1)}))
	require.NoError(t, fs.Add("a.csv", a))
	b := table.New()
	require.NoError(t, b.AddColumn("id", []table.Value{table.Number(2)}))
	require.NoError(t, fs.Add("b.csv", b))

	m := schema.Reconcile(fs, schema.Options{IgnoreCase: true})
	aligned := m.Align(fs)

	require.Len(t, aligned, 2)
	assert.Equal(t, []string{"id"}, aligned[0].Names())
	assert.Equal(t, []string{"id"}, aligned[1].Names())
	assert.Equal(t, []string{"ID"}, a.Names(), "source tables stay untouched")
}
