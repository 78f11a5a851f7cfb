package expr

import "errors"

// ErrExpression reports a structural problem with an expression:
// syntax errors, unknown functions, wrong argument counts, or column
// references that do not exist in the target table.
var ErrExpression = errors.New("invalid expression")
