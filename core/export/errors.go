package export

import "errors"

// ErrExport wraps rendering and I/O failures, and requests for
// formats that are unknown or disabled.
var ErrExport = errors.New("export failed")
