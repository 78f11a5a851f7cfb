// Package merge combines a set of loaded tables into one.
//
// Three strategies are supported:
//
//   - Append: rows of all files stacked vertically; columns unioned by
//     reconciled name, gaps filled with the missing marker.
//   - Join: relational join on a key column that must exist in every
//     file after reconciliation (outer, inner, or left, anchored on
//     the first-loaded file). Colliding non-key columns from later
//     files get a positional suffix.
//   - Smart: measures the reconciled column overlap across files; at
//     or above the threshold it outer-joins on the first common column
//     whose values are unique in every file, otherwise it appends.
//     Ambiguous cases always favor append.
//
// Column reconciliation is delegated to core/schema; the engine works
// on aligned clones, so the loaded tables are never mutated.
//
// Post-merge cleanup covers exact duplicate-row removal and per-type
// missing-value filling (numeric mean/median/mode/zero/custom, text
// mode/custom/empty, datetime forward/backward fill).
package merge
