// Package transformers provides the built-in plugin transformers:
// numeric scaling and binning, date formatting, date component
// extraction, date differences, text operations, and regex pattern
// extraction.
//
// Each transformer implements transform.Transformer and declares its
// parameters, so the pipeline can validate a plugin step before
// running it and clients can render parameter forms from the
// /fusion/transformers listing. RegisterBuiltins wires them into a
// registry at startup.
package transformers
