// Package reader parses uploaded file content into tables.
//
// Supported formats are CSV, XLSX/XLS (via excelize) and JSON. The
// format is derived from the file extension; the first row (CSV/Excel)
// or the object keys (JSON) become column names, and every cell goes
// through type inference (see core/table).
//
// # CSV handling
//
//   - The delimiter is sniffed from a sample over {comma, semicolon,
//     tab, pipe} unless explicitly overridden.
//   - Non-UTF-8 encodings are decoded through x/text (htmlindex), so
//     encodings like latin1 or windows-1252 can be named per upload.
//   - A UTF-8 BOM is stripped.
//
// # JSON handling
//
// Accepted shapes: an array of objects, an object whose first
// array-valued field holds the records, or a flat object (one row).
// Column order follows first appearance in the document.
//
// # Errors
//
// ErrSizeLimit (checked before parsing), ErrUnsupportedFormat and
// ErrParse are sentinel errors; callers match them with errors.Is and
// surface the wrapped human-readable message.
package reader
