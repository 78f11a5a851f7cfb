// Package schema reconciles column names across a set of loaded files.
//
// Given a table.FileSet it produces a Mapping from canonical column
// name to the (file, original column) pairs treated as equivalent.
// Matching runs exact-first (optionally case-insensitive), then — when
// fuzzy matching is enabled — by normalized Levenshtein similarity
// against the existing groups, ties keeping the first-seen group.
//
// The mapping serves two consumers: join-key resolution (Resolve,
// InAll, Suggest) and column alignment for merging (Align, which
// renames every table's columns to their canonical names).
package schema
