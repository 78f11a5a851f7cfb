// Package export renders tables to CSV, XLSX and JSON.
//
// CSV writes missing values as empty fields. JSON produces a
// row-oriented array of objects with null for missing cells and
// RFC 3339 datetimes. XLSX writes a single "Data" sheet with a bold
// header row and column widths fitted to the content.
package export
