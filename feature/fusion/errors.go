package fusion

import "errors"

// ErrState reports an operation that does not match the session's
// current state, e.g. exporting before any merge happened.
var ErrState = errors.New("invalid session state")
