// Package transform implements the transformation pipeline that runs
// after a merge: calculated columns, type conversions, value
// replacements, row filters, and registered plugin transformers.
//
// Steps are pure: every application returns a new table and the step
// list is replayed in order from the retained original, so removing
// or editing a step never leaves residue from a previous run.
//
// Plugin transformers implement the Transformer interface and are
// registered explicitly via Registry.Register; there is no discovery
// mechanism. Declared parameters are validated before a plugin step
// is accepted into the pipeline.
package transform
