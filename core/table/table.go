package table

import (
	"fmt"
)

// Column is a named, ordered sequence of values.
type Column struct {
	Name   string
	Values []Value
}

// Table is an ordered sequence of equal-length columns.
type Table struct {
	cols  []Column
	index map[string]int
}

// New creates an empty table.
func New() *Table {
	return &Table{index: make(map[string]int)}
}

// FromColumns builds a table from the given columns. All columns must
// have the same length and distinct names.
func FromColumns(cols []Column) (*Table, error) {
	t := New()
	for _, c := range cols {
		if err := t.AddColumn(c.Name, c.Values); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// NumRows returns the number of rows.
func (t *Table) NumRows() int {
	if len(t.cols) == 0 {
		return 0
	}
	return len(t.cols[0].Values)
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int {
	return len(t.cols)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.cols))
	for i, c := range t.cols {
		names[i] = c.Name
	}
	return names
}

// HasColumn reports whether a column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Column returns the values of a named column.
func (t *Table) Column(name string) ([]Value, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.cols[i].Values, true
}

// ColumnAt returns the column at position i.
func (t *Table) ColumnAt(i int) Column {
	return t.cols[i]
}

// Value returns the cell at the given row of a named column. Unknown
// columns and out-of-range rows read as missing.
func (t *Table) Value(row int, name string) Value {
	i, ok := t.index[name]
	if !ok {
		return Missing()
	}
	if row < 0 || row >= len(t.cols[i].Values) {
		return Missing()
	}
	return t.cols[i].Values[row]
}

// AddColumn appends a column. The length must match existing columns
// and the name must be unused.
func (t *Table) AddColumn(name string, values []Value) error {
	if _, exists := t.index[name]; exists {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(t.cols) > 0 && len(values) != t.NumRows() {
		return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.NumRows())
	}
	t.index[name] = len(t.cols)
	t.cols = append(t.cols, Column{Name: name, Values: values})
	return nil
}

// SetColumn replaces the values of an existing column or appends a new
// one when the name is unknown.
func (t *Table) SetColumn(name string, values []Value) error {
	if i, ok := t.index[name]; ok {
		if len(t.cols) > 1 && len(values) != t.NumRows() {
			return fmt.Errorf("column %q has %d values, table has %d rows", name, len(values), t.NumRows())
		}
		t.cols[i].Values = values
		return nil
	}
	return t.AddColumn(name, values)
}

// RenameColumn changes a column's name in place.
func (t *Table) RenameColumn(from, to string) error {
	i, ok := t.index[from]
	if !ok {
		return fmt.Errorf("column %q not found", from)
	}
	if from == to {
		return nil
	}
	if _, exists := t.index[to]; exists {
		return fmt.Errorf("column %q already exists", to)
	}
	delete(t.index, from)
	t.index[to] = i
	t.cols[i].Name = to
	return nil
}

// Row returns the values of row i in column order.
func (t *Table) Row(i int) []Value {
	row := make([]Value, len(t.cols))
	for c := range t.cols {
		row[c] = t.cols[c].Values[i]
	}
	return row
}

// AppendRow adds one row. The value count must match the column count.
func (t *Table) AppendRow(row []Value) error {
	if len(row) != len(t.cols) {
		return fmt.Errorf("row has %d values, table has %d columns", len(row), len(t.cols))
	}
	for i := range t.cols {
		t.cols[i].Values = append(t.cols[i].Values, row[i])
	}
	return nil
}

// SelectRows returns a new table containing the given rows in order.
func (t *Table) SelectRows(rows []int) *Table {
	out := New()
	for _, c := range t.cols {
		values := make([]Value, 0, len(rows))
		for _, r := range rows {
			values = append(values, c.Values[r])
		}
		// Names are already unique in the source table.
		_ = out.AddColumn(c.Name, values)
	}
	return out
}

// Clone returns a deep copy.
func (t *Table) Clone() *Table {
	out := New()
	for _, c := range t.cols {
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		_ = out.AddColumn(c.Name, values)
	}
	return out
}

// Equal reports value-for-value equality including column order.
func (t *Table) Equal(o *Table) bool {
	if t.NumCols() != o.NumCols() || t.NumRows() != o.NumRows() {
		return false
	}
	for i, c := range t.cols {
		oc := o.cols[i]
		if c.Name != oc.Name {
			return false
		}
		for j := range c.Values {
			if !c.Values[j].Equal(oc.Values[j]) {
				return false
			}
		}
	}
	return true
}

// Head returns the first n rows (or all rows when fewer).
func (t *Table) Head(n int) *Table {
	if n > t.NumRows() {
		n = t.NumRows()
	}
	rows := make([]int, n)
	for i := range rows {
		rows[i] = i
	}
	return t.SelectRows(rows)
}

// rowKey renders an entire row for exact duplicate detection.
func (t *Table) rowKey(i int) string {
	key := ""
	for _, c := range t.cols {
		key += c.Values[i].Key() + "\x1f"
	}
	return key
}

// Deduplicate removes rows that are exact copies of an earlier row,
// keeping first occurrences. The operation is idempotent.
func (t *Table) Deduplicate() *Table {
	seen := make(map[string]struct{}, t.NumRows())
	keep := make([]int, 0, t.NumRows())
	for i := 0; i < t.NumRows(); i++ {
		k := t.rowKey(i)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, i)
	}
	return t.SelectRows(keep)
}

// InferKind returns the dominant non-missing kind of a column, used to
// pick a fill strategy. Missing cells do not vote; an empty or
// all-missing column reports KindMissing.
func (t *Table) InferKind(name string) Kind {
	values, ok := t.Column(name)
	if !ok {
		return KindMissing
	}
	counts := make(map[Kind]int)
	for _, v := range values {
		if !v.IsMissing() {
			counts[v.Kind()]++
		}
	}
	best, bestCount := KindMissing, 0
	for _, k := range []Kind{KindNumber, KindText, KindBool, KindTime} {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
