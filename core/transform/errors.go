package transform

import "errors"

// ErrInvalidStep reports a step that fails validation: unknown kind,
// missing target column, unregistered transformer, or parameters that
// do not match the transformer's declared parameter list.
var ErrInvalidStep = errors.New("invalid transformation step")
