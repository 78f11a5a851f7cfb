// Package expr compiles and evaluates the restricted expression
// language used for calculated columns and row filters.
//
// # Language
//
// Expressions combine column references, number/string/boolean
// literals, arithmetic (+ - * / %), comparisons (== != > >= < <=),
// boolean logic (&& || !, with and/or/not as word forms), and a fixed
// allow-list of functions (abs, round, floor, ceil, sqrt, pow, min,
// max, len, upper, lower, if). There is no assignment, indexing, or
// attribute access, and unknown functions are rejected at compile
// time.
//
// # Failure model
//
// Structural problems (syntax, unknown function or column, arity)
// surface as ErrExpression from Compile or Eval. Per-row domain
// failures, such as division by zero or arithmetic on a missing
// operand, never fail the evaluation: the affected row yields the
// missing marker and the remaining rows are unaffected.
package expr
