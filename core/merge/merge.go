package merge

import (
	"fmt"
	"strings"

	"datafusion/core/schema"
	"datafusion/core/table"
)

// Result is the outcome of a merge, including what the engine
// actually did (relevant for smart merge).
type Result struct {
	// Table is the merged table.
	Table *table.Table
	// Mapping is the reconciled column mapping used for alignment.
	Mapping *schema.Mapping
	// Method is the strategy effectively applied.
	Method Method
	// Key is the join key used, when Method is join.
	Key string
	// DuplicatesDropped counts rows removed by duplicate cleanup.
	DuplicatesDropped int
}

// Merge combines all tables of the file set according to the spec.
// The input tables are never mutated.
func Merge(fs *table.FileSet, spec Spec) (*Result, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if fs.Len() == 0 {
		return nil, fmt.Errorf("%w: no files loaded", ErrInvalidSpec)
	}

	mapping := schema.Reconcile(fs, schema.Options{
		IgnoreCase: spec.CaseInsensitive(),
		Fuzzy:      spec.MatchColumns,
		Threshold:  spec.MatchThreshold,
	})
	aligned := mapping.Align(fs)

	res := &Result{Mapping: mapping}
	var err error
	switch spec.Method {
	case MethodJoin:
		res.Method = MethodJoin
		res.Table, res.Key, err = joinAll(aligned, mapping, spec)
	case MethodSmart:
		res.Table, res.Method, res.Key, err = smartMerge(aligned, mapping, spec)
	default:
		res.Method = MethodAppend
		res.Table = appendAll(aligned, mapping)
	}
	if err != nil {
		return nil, err
	}

	if spec.DropDuplicates {
		before := res.Table.NumRows()
		res.Table = res.Table.Deduplicate()
		res.DuplicatesDropped = before - res.Table.NumRows()
	}
	if spec.Fill.Enabled {
		res.Table = Fill(res.Table, spec.Fill)
	}
	return res, nil
}

// appendAll stacks all tables vertically. Columns are unioned by
// canonical name; cells absent from a source fill with the missing
// marker.
func appendAll(aligned []*table.Table, mapping *schema.Mapping) *table.Table {
	out := table.New()
	for _, canonical := range mapping.Columns() {
		var values []table.Value
		for _, t := range aligned {
			col, ok := t.Column(canonical)
			if !ok {
				for i := 0; i < t.NumRows(); i++ {
					values = append(values, table.Missing())
				}
				continue
			}
			values = append(values, col...)
		}
		// Canonical names are unique by construction.
		_ = out.AddColumn(canonical, values)
	}
	return out
}

// joinAll joins the tables pairwise, anchored on the first-loaded
// file, in upload order.
func joinAll(aligned []*table.Table, mapping *schema.Mapping, spec Spec) (*table.Table, string, error) {
	key, ok := mapping.Resolve(spec.Key)
	if !ok || !mapping.InAll(key) {
		msg := fmt.Sprintf("%q not present in every file", spec.Key)
		if suggestions := mapping.Suggest(spec.Key, 3); len(suggestions) > 0 {
			msg += fmt.Sprintf(" (similar columns: %s)", strings.Join(suggestions, ", "))
		}
		return nil, "", fmt.Errorf("%w: %s", ErrMissingKeyColumn, msg)
	}

	how := spec.Join
	if how == "" {
		how = JoinOuter
	}

	merged := aligned[0]
	for i, t := range aligned[1:] {
		merged = joinPair(merged, t, key, how, fmt.Sprintf("_%d", i+1))
	}
	return merged, key, nil
}

// smartMerge inspects the column overlap across tables and either
// joins on the best key candidate or falls back to append.
func smartMerge(aligned []*table.Table, mapping *schema.Mapping, spec Spec) (*table.Table, Method, string, error) {
	if len(aligned) == 1 {
		return aligned[0], MethodAppend, "", nil
	}

	var common []string
	for _, canonical := range mapping.Columns() {
		if mapping.InAll(canonical) {
			common = append(common, canonical)
		}
	}

	widest := 0
	for _, t := range aligned {
		if t.NumCols() > widest {
			widest = t.NumCols()
		}
	}
	overlap := float64(len(common)) / float64(widest)
	if overlap < spec.smartThreshold() {
		return appendAll(aligned, mapping), MethodAppend, "", nil
	}

	key := pickKeyCandidate(aligned, common)
	if key == "" {
		// Enough overlap but no usable key; ambiguity favors append.
		return appendAll(aligned, mapping), MethodAppend, "", nil
	}

	merged := aligned[0]
	for i, t := range aligned[1:] {
		merged = joinPair(merged, t, key, JoinOuter, fmt.Sprintf("_%d", i+1))
	}
	return merged, MethodJoin, key, nil
}

// pickKeyCandidate returns the first common column whose non-missing
// values are unique within every table, or "" when none qualifies.
func pickKeyCandidate(aligned []*table.Table, common []string) string {
	for _, canonical := range common {
		unique := true
		for _, t := range aligned {
			values, ok := t.Column(canonical)
			if !ok {
				unique = false
				break
			}
			seen := make(map[string]struct{}, len(values))
			for _, v := range values {
				if v.IsMissing() {
					continue
				}
				k := v.Key()
				if _, dup := seen[k]; dup {
					unique = false
					break
				}
				seen[k] = struct{}{}
			}
			if !unique {
				break
			}
		}
		if unique {
			return canonical
		}
	}
	return ""
}
