package schema

import (
	"sort"
	"strings"

	"datafusion/core/table"

	"github.com/agnivade/levenshtein"
)

// Options control how column names are matched across files.
type Options struct {
	// IgnoreCase folds column names to lower case before matching.
	IgnoreCase bool
	// Fuzzy enables similarity grouping of close-but-unequal names.
	Fuzzy bool
	// Threshold is the minimum similarity (0..1) for a fuzzy group.
	// Zero means the default of 0.8.
	Threshold float64
}

// DefaultThreshold is the fuzzy similarity cutoff used when none is
// configured.
const DefaultThreshold = 0.8

func (o Options) threshold() float64 {
	if o.Threshold <= 0 {
		return DefaultThreshold
	}
	return o.Threshold
}

// Source identifies one original column in one file.
type Source struct {
	FileID string `json:"file_id"`
	Column string `json:"column"`
}

// Mapping groups equivalent columns across files under a canonical
// name, in first-seen order.
type Mapping struct {
	opts      Options
	fileCount int
	order     []string
	groups    map[string][]Source
}

// Similarity returns a normalized similarity ratio between two column
// names, 1 meaning equal. It is case-insensitive.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(strings.TrimSpace(a)), strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// Reconcile builds the canonical column mapping for a file set.
//
// Exact matches (case-folded when IgnoreCase) are grouped first; with
// Fuzzy enabled, a new name joins the existing group with the highest
// similarity at or above the threshold. Ties keep the first-seen
// group. Two columns of the same file never share a group.
func Reconcile(fs *table.FileSet, opts Options) *Mapping {
	m := &Mapping{
		opts:      opts,
		fileCount: fs.Len(),
		groups:    make(map[string][]Source),
	}

	for _, id := range fs.IDs() {
		tbl, _ := fs.Table(id)
		for _, name := range tbl.Names() {
			canonical := m.matchGroup(id, name)
			if canonical == "" {
				canonical = m.normalize(name)
				// A fresh canonical can still collide with an existing
				// group that this file is already part of; suffix it.
				if _, taken := m.groups[canonical]; taken {
					canonical = canonical + "_" + id
				}
				m.order = append(m.order, canonical)
			}
			m.groups[canonical] = append(m.groups[canonical], Source{FileID: id, Column: name})
		}
	}
	return m
}

func (m *Mapping) normalize(name string) string {
	name = strings.TrimSpace(name)
	if m.opts.IgnoreCase {
		return strings.ToLower(name)
	}
	return name
}

// matchGroup finds the canonical group a column should join, or ""
// when a new group is needed.
func (m *Mapping) matchGroup(fileID, name string) string {
	norm := m.normalize(name)

	for _, canonical := range m.order {
		if canonical == norm && !m.hasFile(canonical, fileID) {
			return canonical
		}
	}
	if !m.opts.Fuzzy {
		return ""
	}

	best, bestScore := "", m.opts.threshold()
	for _, canonical := range m.order {
		if m.hasFile(canonical, fileID) {
			continue
		}
		if score := Similarity(norm, canonical); score > bestScore {
			best, bestScore = canonical, score
		}
	}
	return best
}

func (m *Mapping) hasFile(canonical, fileID string) bool {
	for _, s := range m.groups[canonical] {
		if s.FileID == fileID {
			return true
		}
	}
	return false
}

// Columns returns the canonical names in first-seen order.
func (m *Mapping) Columns() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Sources returns the grouped columns for a canonical name.
func (m *Mapping) Sources(canonical string) []Source {
	return m.groups[canonical]
}

// SourceIn returns the original column name of a canonical group
// within one file, or "" when that file has no member.
func (m *Mapping) SourceIn(canonical, fileID string) string {
	for _, s := range m.groups[canonical] {
		if s.FileID == fileID {
			return s.Column
		}
	}
	return ""
}

// InAll reports whether the canonical column has a member in every
// file of the reconciled set.
func (m *Mapping) InAll(canonical string) bool {
	files := make(map[string]struct{})
	for _, s := range m.groups[canonical] {
		files[s.FileID] = struct{}{}
	}
	return len(files) == m.fileCount
}

// Resolve maps a user-supplied column name to its canonical group.
func (m *Mapping) Resolve(name string) (string, bool) {
	norm := m.normalize(name)
	if _, ok := m.groups[norm]; ok {
		return norm, true
	}
	return "", false
}

// Suggest returns up to limit canonical names most similar to the
// given name, best first. Used to enrich missing-key errors.
func (m *Mapping) Suggest(name string, limit int) []string {
	type scored struct {
		name  string
		score float64
	}
	candidates := make([]scored, 0, len(m.order))
	for _, canonical := range m.order {
		if score := Similarity(name, canonical); score >= 0.5 {
			candidates = append(candidates, scored{canonical, score})
		}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// Align returns clones of the set's tables, in upload order, with
// columns renamed to their canonical names. The merge engine works on
// aligned tables only.
func (m *Mapping) Align(fs *table.FileSet) []*table.Table {
	out := make([]*table.Table, 0, fs.Len())
	for _, id := range fs.IDs() {
		tbl, _ := fs.Table(id)
		clone := tbl.Clone()
		// Two passes so a rename cannot collide with a yet-unrenamed
		// original (e.g. "Name" -> "name" while "name" still exists).
		for _, canonical := range m.order {
			if original := m.SourceIn(canonical, id); original != "" && original != canonical {
				_ = clone.RenameColumn(original, "\x00"+canonical)
			}
		}
		for _, canonical := range m.order {
			if clone.HasColumn("\x00" + canonical) {
				_ = clone.RenameColumn("\x00"+canonical, canonical)
			}
		}
		out = append(out, clone)
	}
	return out
}
