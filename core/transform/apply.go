package transform

import (
	"fmt"

	"datafusion/core/table"
)

// Apply runs one validated step against t, returning a new table.
func Apply(t *table.Table, s Step, reg *Registry) (*table.Table, error) {
	out, err := s.apply(t, reg)
	if err != nil {
		return nil, fmt.Errorf("step %s: %w", s.Describe(), err)
	}
	return out, nil
}

// Replay applies the whole step list, in order, to a clone of the
// original table. Editing or removing a step re-runs the list from
// scratch, so the result is always a pure function of (original,
// steps); an empty list returns an exact copy of the original.
func Replay(original *table.Table, steps []Step, reg *Registry) (*table.Table, error) {
	current := original.Clone()
	for i, s := range steps {
		next, err := Apply(current, s, reg)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		current = next
	}
	return current, nil
}
