package merge

import "fmt"

// Method selects the merge strategy.
type Method string

const (
	// MethodAppend stacks rows of all files vertically.
	MethodAppend Method = "append"
	// MethodJoin merges files horizontally on a key column.
	MethodJoin Method = "join"
	// MethodSmart picks join or append based on column overlap.
	MethodSmart Method = "smart"
)

// JoinType selects which rows a join keeps.
type JoinType string

const (
	// JoinOuter keeps all keys, filling gaps with missing markers.
	JoinOuter JoinType = "outer"
	// JoinInner keeps only keys present in every file.
	JoinInner JoinType = "inner"
	// JoinLeft anchors on the first-loaded file.
	JoinLeft JoinType = "left"
)

// FillMethod selects a missing-value repair strategy.
type FillMethod string

const (
	FillNone     FillMethod = "none"
	FillZero     FillMethod = "zero"
	FillMean     FillMethod = "mean"
	FillMedian   FillMethod = "median"
	FillMode     FillMethod = "mode"
	FillEmpty    FillMethod = "empty"
	FillForward  FillMethod = "ffill"
	FillBackward FillMethod = "bfill"
	FillCustom   FillMethod = "custom"
)

// FillSpec selects the fill method per missing-value category.
type FillSpec struct {
	// Enabled turns post-merge missing-value filling on.
	Enabled bool `json:"enabled"`
	// Numeric is applied to number columns: mean|median|mode|zero|custom.
	Numeric FillMethod `json:"numeric,omitempty"`
	// Text is applied to text and boolean columns: mode|custom|empty.
	Text FillMethod `json:"text,omitempty"`
	// Datetime is applied to datetime columns: ffill|bfill.
	Datetime FillMethod `json:"datetime,omitempty"`
	// CustomValue backs the custom fill methods.
	CustomValue string `json:"custom_value,omitempty"`
}

// Spec describes one merge operation.
type Spec struct {
	// Method is the merge strategy; empty means append.
	Method Method `json:"method"`
	// Key is the join key column (required for MethodJoin).
	Key string `json:"key,omitempty"`
	// Join is the join type; empty means outer.
	Join JoinType `json:"join,omitempty"`
	// IgnoreCase folds column names before matching. Nil means
	// "not specified" so the configured default can apply.
	IgnoreCase *bool `json:"ignore_case,omitempty"`
	// MatchColumns enables fuzzy grouping of similar column names.
	MatchColumns bool `json:"match_columns"`
	// MatchThreshold is the fuzzy similarity cutoff (0 = default 0.8).
	MatchThreshold float64 `json:"match_threshold,omitempty"`
	// SmartThreshold is the column-overlap ratio above which smart
	// merge joins instead of appending (0 = default 0.8).
	SmartThreshold float64 `json:"smart_threshold,omitempty"`
	// DropDuplicates removes exact duplicate rows after merging.
	DropDuplicates bool `json:"drop_duplicates"`
	// Fill configures post-merge missing-value filling.
	Fill FillSpec `json:"fill"`
}

// CaseInsensitive reports whether column names are folded before
// matching. An unset flag means false.
func (s Spec) CaseInsensitive() bool {
	return s.IgnoreCase != nil && *s.IgnoreCase
}

// DefaultSmartThreshold is the overlap cutoff used when none is set.
const DefaultSmartThreshold = 0.8

func (s Spec) smartThreshold() float64 {
	if s.SmartThreshold <= 0 {
		return DefaultSmartThreshold
	}
	return s.SmartThreshold
}

// Validate checks the spec for structural problems before any table
// work starts.
func (s Spec) Validate() error {
	switch s.Method {
	case MethodAppend, MethodSmart, "":
	case MethodJoin:
		if s.Key == "" {
			return fmt.Errorf("%w: join requires a key column", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unknown method %q", ErrInvalidSpec, s.Method)
	}

	switch s.Join {
	case JoinOuter, JoinInner, JoinLeft, "":
	default:
		return fmt.Errorf("%w: unknown join type %q", ErrInvalidSpec, s.Join)
	}

	if s.MatchThreshold < 0 || s.MatchThreshold > 1 {
		return fmt.Errorf("%w: match threshold must be within [0,1]", ErrInvalidSpec)
	}
	if s.SmartThreshold < 0 || s.SmartThreshold > 1 {
		return fmt.Errorf("%w: smart threshold must be within [0,1]", ErrInvalidSpec)
	}

	if s.Fill.Enabled {
		if err := s.Fill.validate(); err != nil {
			return err
		}
	}
	return nil
}

func (f FillSpec) validate() error {
	switch f.Numeric {
	case FillMean, FillMedian, FillMode, FillZero, FillCustom, FillNone, "":
	default:
		return fmt.Errorf("%w: numeric fill %q not supported", ErrInvalidSpec, f.Numeric)
	}
	switch f.Text {
	case FillMode, FillCustom, FillEmpty, FillNone, "":
	default:
		return fmt.Errorf("%w: text fill %q not supported", ErrInvalidSpec, f.Text)
	}
	switch f.Datetime {
	case FillForward, FillBackward, FillNone, "":
	default:
		return fmt.Errorf("%w: datetime fill %q not supported", ErrInvalidSpec, f.Datetime)
	}
	if (f.Numeric == FillCustom || f.Text == FillCustom) && f.CustomValue == "" {
		return fmt.Errorf("%w: custom fill requires a value", ErrInvalidSpec)
	}
	return nil
}
