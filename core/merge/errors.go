package merge

import "errors"

var (
	// ErrMissingKeyColumn is returned when the join key does not
	// exist in every loaded file after reconciliation.
	ErrMissingKeyColumn = errors.New("key column missing")

	// ErrInvalidSpec is returned for malformed merge specifications.
	ErrInvalidSpec = errors.New("invalid merge spec")
)
