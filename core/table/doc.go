// Package table defines the in-memory tabular data model shared by the
// reader, merge engine, transformation pipeline and exporters.
//
// A Table is an ordered sequence of named columns; every column holds
// the same number of typed values. The supported cell kinds are text,
// number (float64), boolean and datetime, plus a dedicated missing
// marker. The zero Value is missing, so freshly allocated cells behave
// like NaN cells rather than empty strings.
//
// # Invariants
//
//   - All columns of a Table have equal length; AddColumn and AppendRow
//     enforce this.
//   - Column names are unique within a Table.
//   - Operations that derive new tables (SelectRows, Clone, Head,
//     Deduplicate) never mutate the receiver.
//
// # Type inference
//
// Parse turns raw text into a typed Value (number, boolean, common date
// formats, otherwise text; empty input is missing). FromAny does the
// same for decoded JSON content. InferKind reports the dominant kind of
// a column so fill strategies can be selected per type.
package table
