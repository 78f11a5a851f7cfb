package table

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a cell value.
type Kind int

const (
	// KindMissing is the missing-value marker. It is the zero value,
	// so an uninitialized Value is missing.
	KindMissing Kind = iota
	// KindText is a string value.
	KindText
	// KindNumber is a float64 value.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindTime is a datetime value.
	KindTime
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindTime:
		return "datetime"
	default:
		return "missing"
	}
}

// Value is a single typed cell. The zero Value is the missing marker.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
	t    time.Time
}

// Missing returns the missing-value marker.
func Missing() Value {
	return Value{}
}

// Text returns a text value.
func Text(s string) Value {
	return Value{kind: KindText, str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Bool returns a boolean value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Time returns a datetime value.
func Time(t time.Time) Value {
	return Value{kind: KindTime, t: t}
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsMissing reports whether the value is the missing marker.
func (v Value) IsMissing() bool {
	return v.kind == KindMissing
}

// Number returns the numeric content. For text values it attempts a
// parse, so "12.5" can participate in numeric operations the way the
// merge and filter paths expect.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindBool:
		if v.b {
			return 1, true
		}
		return 0, true
	case KindText:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Bool returns the boolean content.
func (v Value) Bool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.b, true
}

// Time returns the datetime content.
func (v Value) Time() (time.Time, bool) {
	if v.kind != KindTime {
		return time.Time{}, false
	}
	return v.t, true
}

// String renders the value for display and CSV export. Missing values
// render as the empty string.
func (v Value) String() string {
	switch v.kind {
	case KindText:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindTime:
		return v.t.Format(time.RFC3339)
	default:
		return ""
	}
}

// Equal reports exact equality of kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.str == o.str
	case KindNumber:
		return v.num == o.num
	case KindBool:
		return v.b == o.b
	case KindTime:
		return v.t.Equal(o.t)
	default:
		return true
	}
}

// Key returns a string that identifies the value for hashing purposes
// (duplicate detection, join keys). Distinct kinds with the same
// rendering are kept distinct.
func (v Value) Key() string {
	switch v.kind {
	case KindText:
		return "t:" + v.str
	case KindNumber:
		return "n:" + strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindBool:
		return "b:" + strconv.FormatBool(v.b)
	case KindTime:
		return "d:" + v.t.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// dateLayouts are the formats tried during inference and conversion,
// most specific first.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"02.01.2006",
}

// Parse infers a typed value from raw text. Empty strings become the
// missing marker; numbers, booleans and common date formats are
// recognized, everything else stays text.
func Parse(s string) Value {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Missing()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(f)
	}
	switch strings.ToLower(trimmed) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Time(t)
		}
	}
	return Text(s)
}

// ParseTime attempts to parse raw text as a datetime using the known
// layouts, or the given layout when non-empty.
func ParseTime(s, layout string) (time.Time, bool) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return time.Time{}, false
	}
	if layout != "" {
		t, err := time.Parse(layout, trimmed)
		return t, err == nil
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, trimmed); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FromAny converts arbitrary decoded JSON content into a Value.
func FromAny(raw any) Value {
	switch v := raw.(type) {
	case nil:
		return Missing()
	case string:
		return Parse(v)
	case float64:
		return Number(v)
	case int:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case bool:
		return Bool(v)
	case time.Time:
		return Time(v)
	default:
		// Nested objects and arrays keep their JSON rendering.
		b, err := json.Marshal(v)
		if err != nil {
			return Missing()
		}
		return Text(string(b))
	}
}
