package merge

import (
	"datafusion/core/table"
)

// joinPair performs a relational join of two aligned tables on the key
// column. Non-key columns of the right table that collide with a left
// column name get the suffix appended, mirroring how spreadsheet and
// dataframe tools disambiguate.
//
// Missing keys never match anything, including other missing keys.
func joinPair(left, right *table.Table, key string, how JoinType, suffix string) *table.Table {
	leftKey, _ := left.Column(key)
	rightKey, _ := right.Column(key)

	// Index right rows by key.
	rightIndex := make(map[string][]int, len(rightKey))
	for i, v := range rightKey {
		if v.IsMissing() {
			continue
		}
		rightIndex[v.Key()] = append(rightIndex[v.Key()], i)
	}

	// Output column layout: all left columns, then right columns
	// except the key, suffixed on collision.
	type rightCol struct {
		src string
		out string
	}
	var rightCols []rightCol
	for i := 0; i < right.NumCols(); i++ {
		name := right.ColumnAt(i).Name
		if name == key {
			continue
		}
		out := name
		if left.HasColumn(out) {
			out = name + suffix
		}
		rightCols = append(rightCols, rightCol{src: name, out: out})
	}

	out := table.New()
	for i := 0; i < left.NumCols(); i++ {
		_ = out.AddColumn(left.ColumnAt(i).Name, nil)
	}
	for _, rc := range rightCols {
		_ = out.AddColumn(rc.out, nil)
	}

	appendJoined := func(leftRow, rightRow int) {
		row := make([]table.Value, 0, out.NumCols())
		if leftRow >= 0 {
			row = append(row, left.Row(leftRow)...)
		} else {
			for i := 0; i < left.NumCols(); i++ {
				row = append(row, table.Missing())
			}
			// Right-only rows still carry their key value.
			row[leftKeyPos(left, key)] = rightKey[rightRow]
		}
		for _, rc := range rightCols {
			if rightRow >= 0 {
				row = append(row, right.Value(rightRow, rc.src))
			} else {
				row = append(row, table.Missing())
			}
		}
		_ = out.AppendRow(row)
	}

	matchedRight := make(map[int]struct{})
	for i, v := range leftKey {
		var matches []int
		if !v.IsMissing() {
			matches = rightIndex[v.Key()]
		}
		if len(matches) == 0 {
			if how == JoinOuter || how == JoinLeft {
				appendJoined(i, -1)
			}
			continue
		}
		for _, r := range matches {
			matchedRight[r] = struct{}{}
			appendJoined(i, r)
		}
	}

	if how == JoinOuter {
		for r := 0; r < right.NumRows(); r++ {
			if _, ok := matchedRight[r]; ok {
				continue
			}
			appendJoined(-1, r)
		}
	}
	return out
}

func leftKeyPos(left *table.Table, key string) int {
	for i := 0; i < left.NumCols(); i++ {
		if left.ColumnAt(i).Name == key {
			return i
		}
	}
	return 0
}
