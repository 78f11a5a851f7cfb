package reader

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"path"
	"strings"

	"datafusion/core/table"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/htmlindex"
)

// Format identifies a supported file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatJSON Format = "json"
)

// FormatFromName derives the format from a file name's extension.
func FormatFromName(name string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	switch ext {
	case "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	case "xls":
		return FormatXLS, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: csv, xlsx, xls, json)", ErrUnsupportedFormat, ext)
	}
}

// Options are per-file parse overrides.
type Options struct {
	// Delimiter overrides CSV delimiter sniffing when non-zero.
	Delimiter rune
	// Encoding overrides the configured CSV text encoding.
	Encoding string
}

// Reader parses uploaded file content into tables.
type Reader struct {
	cfg Config
}

// New creates a Reader with the given configuration.
func New(cfg Config) *Reader {
	return &Reader{cfg: cfg}
}

// Read parses raw bytes into a table. The format is derived from the
// file name; the size limit is enforced before any parsing happens.
func (r *Reader) Read(name string, data []byte, opts Options) (*table.Table, error) {
	if max := r.cfg.MaxBytes(); max > 0 && int64(len(data)) > max {
		return nil, fmt.Errorf("%w: %q is %d bytes, limit is %d MB", ErrSizeLimit, name, len(data), r.cfg.MaxFileSizeMB)
	}

	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}

	var tbl *table.Table
	switch format {
	case FormatCSV:
		tbl, err = r.readCSV(data, opts)
	case FormatXLSX, FormatXLS:
		tbl, err = readExcel(data)
	case FormatJSON:
		tbl, err = readJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("reading %q: %w", name, err)
	}

	if tbl.NumCols() == 0 || tbl.NumRows() == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrParse, name)
	}
	return tbl, nil
}

// sniffDelimiter picks the most frequent candidate delimiter in a
// sample of the content. A winner must show up at least once per
// sample line, so a small file still sniffs correctly while stray
// punctuation inside a single-column file does not.
func sniffDelimiter(sample []byte, fallback rune) rune {
	candidates := []rune{',', ';', '\t', '|'}
	best, bestCount := fallback, 0
	for _, c := range candidates {
		n := bytes.Count(sample, []byte(string(c)))
		if n > bestCount {
			best, bestCount = c, n
		}
	}
	lines := bytes.Count(bytes.TrimRight(sample, "\n"), []byte{'\n'}) + 1
	if bestCount < lines {
		return fallback
	}
	return best
}

func (r *Reader) readCSV(data []byte, opts Options) (*table.Table, error) {
	encName := opts.Encoding
	if encName == "" {
		encName = r.cfg.Encoding
	}
	if encName != "" && !strings.EqualFold(encName, "utf-8") {
		enc, err := htmlindex.Get(encName)
		if err != nil {
			return nil, fmt.Errorf("%w: unknown encoding %q", ErrParse, encName)
		}
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding as %s: %v", ErrParse, encName, err)
		}
		data = decoded
	}
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	delim := opts.Delimiter
	if delim == 0 {
		fallback := ','
		if r.cfg.Delimiter != "" {
			fallback = []rune(r.cfg.Delimiter)[0]
		}
		sample := data
		if len(sample) > 4096 {
			sample = sample[:4096]
		}
		delim = sniffDelimiter(sample, fallback)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = delim
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: need a header row and at least one data row", ErrParse)
	}
	return fromRecords(records[0], records[1:])
}

func readExcel(data []byte) (*table.Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrParse)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: sheet %q needs a header row and at least one data row", ErrParse, sheets[0])
	}

	header := rows[0]
	// excelize drops trailing empty cells, so pad data rows out to the
	// header width.
	body := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		for len(row) < len(header) {
			row = append(row, "")
		}
		body = append(body, row[:len(header)])
	}
	return fromRecords(header, body)
}

func readJSON(data []byte) (*table.Table, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	var records []map[string]any
	switch v := doc.(type) {
	case []any:
		records = collectRecords(v)
	case map[string]any:
		// Either a container whose first array-valued field holds the
		// records, or a flat object treated as a single row. Document
		// key order keeps the pick deterministic.
		for _, k := range jsonKeyOrder(data) {
			if arr, ok := v[k].([]any); ok {
				records = collectRecords(arr)
				break
			}
		}
		if records == nil {
			records = []map[string]any{v}
		}
	default:
		return nil, fmt.Errorf("%w: unsupported JSON structure", ErrParse)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records found", ErrParse)
	}

	// jsonKeyOrder reports every key in document order, including
	// nested ones; keep only keys that exist on at least one record.
	recordKeys := make(map[string]struct{})
	for _, rec := range records {
		for k := range rec {
			recordKeys[k] = struct{}{}
		}
	}
	var columns []string
	seen := make(map[string]struct{}, len(recordKeys))
	for _, k := range jsonKeyOrder(data) {
		if _, ok := recordKeys[k]; ok {
			seen[k] = struct{}{}
			columns = append(columns, k)
		}
	}
	for k := range recordKeys {
		if _, ok := seen[k]; !ok {
			columns = append(columns, k)
		}
	}

	tbl := table.New()
	for _, col := range columns {
		values := make([]table.Value, len(records))
		for i, rec := range records {
			raw, ok := rec[col]
			if !ok {
				values[i] = table.Missing()
				continue
			}
			values[i] = table.FromAny(raw)
		}
		if err := tbl.AddColumn(col, values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	return tbl, nil
}

func collectRecords(arr []any) []map[string]any {
	records := make([]map[string]any, 0, len(arr))
	for _, item := range arr {
		if obj, ok := item.(map[string]any); ok {
			records = append(records, obj)
		}
	}
	return records
}

// jsonKeyOrder walks the document tokens and returns object keys in
// the order they first appear, so column order follows the source
// document instead of Go's randomized map iteration.
func jsonKeyOrder(data []byte) []string {
	dec := json.NewDecoder(bytes.NewReader(data))
	var keys []string
	seen := make(map[string]struct{})

	// Each frame tracks whether we are inside an object and whether
	// the next string token is a key rather than a value.
	type frame struct {
		object    bool
		expectKey bool
	}
	var stack []frame
	finishValue := func() {
		if n := len(stack); n > 0 && stack[n-1].object {
			stack[n-1].expectKey = true
		}
	}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case json.Delim:
			switch t {
			case '{':
				stack = append(stack, frame{object: true, expectKey: true})
			case '[':
				stack = append(stack, frame{})
			case '}', ']':
				if len(stack) > 0 {
					stack = stack[:len(stack)-1]
				}
				finishValue()
			}
		case string:
			if n := len(stack); n > 0 && stack[n-1].object && stack[n-1].expectKey {
				if _, ok := seen[t]; !ok {
					seen[t] = struct{}{}
					keys = append(keys, t)
				}
				stack[n-1].expectKey = false
			} else {
				finishValue()
			}
		default:
			finishValue()
		}
	}
	return keys
}

func fromRecords(header []string, rows [][]string) (*table.Table, error) {
	names := make([]string, len(header))
	used := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		// Disambiguate repeated header names the way spreadsheet
		// tools do. Generated names are reserved too, so a header
		// like "a,a,a_1" never collides with its own rename.
		if n, dup := used[name]; dup {
			candidate := fmt.Sprintf("%s_%d", name, n)
			for used[candidate] > 0 {
				n++
				candidate = fmt.Sprintf("%s_%d", name, n)
			}
			used[name] = n + 1
			used[candidate] = 1
			name = candidate
		} else {
			used[name] = 1
		}
		names[i] = name
	}

	tbl := table.New()
	for i, name := range names {
		values := make([]table.Value, len(rows))
		for r, row := range rows {
			if i < len(row) {
				values[r] = table.Parse(row[i])
			} else {
				values[r] = table.Missing()
			}
		}
		if err := tbl.AddColumn(name, values); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
	}
	return tbl, nil
}
