package expr

import (
	"fmt"
	"math"
	"strings"

	"datafusion/core/table"
)

// value aliases the table cell type; the missing marker doubles as
// the result of any per-row domain failure.
type value = table.Value

func numberValue(f float64) value { return table.Number(f) }
func textValue(s string) value    { return table.Text(s) }
func boolValue(b bool) value      { return table.Bool(b) }

// Eval computes the expression for every row of the table. Unresolved
// column names abort with ErrExpression; per-row domain failures
// (missing operands, division by zero, sqrt of a negative) yield the
// missing marker for that row only.
func (c *Compiled) Eval(t *table.Table) ([]table.Value, error) {
	for _, name := range c.Identifiers() {
		if !t.HasColumn(name) {
			return nil, fmt.Errorf("%w: unknown column %q", ErrExpression, name)
		}
	}
	out := make([]table.Value, t.NumRows())
	for row := 0; row < t.NumRows(); row++ {
		lookup := func(name string) value {
			return t.Value(row, name)
		}
		out[row] = c.root.eval(lookup)
	}
	return out, nil
}

type literalNode struct {
	val value
}

func (n *literalNode) eval(func(string) value) value     { return n.val }
func (n *literalNode) collectIdents(map[string]struct{}) {}

type identNode struct {
	name string
}

func (n *identNode) eval(lookup func(string) value) value {
	return lookup(n.name)
}

func (n *identNode) collectIdents(set map[string]struct{}) {
	set[n.name] = struct{}{}
}

type unaryNode struct {
	op      string
	operand node
}

func (n *unaryNode) eval(lookup func(string) value) value {
	v := n.operand.eval(lookup)
	if v.IsMissing() {
		return table.Missing()
	}
	switch n.op {
	case "-":
		if f, ok := v.Number(); ok {
			return numberValue(-f)
		}
	case "!":
		if b, ok := v.Bool(); ok {
			return boolValue(!b)
		}
	}
	return table.Missing()
}

func (n *unaryNode) collectIdents(set map[string]struct{}) {
	n.operand.collectIdents(set)
}

type binaryNode struct {
	op          string
	left, right node
}

func (n *binaryNode) collectIdents(set map[string]struct{}) {
	n.left.collectIdents(set)
	n.right.collectIdents(set)
}

func (n *binaryNode) eval(lookup func(string) value) value {
	l := n.left.eval(lookup)
	r := n.right.eval(lookup)
	if l.IsMissing() || r.IsMissing() {
		return table.Missing()
	}

	switch n.op {
	case "&&", "||":
		lb, lok := l.Bool()
		rb, rok := r.Bool()
		if !lok || !rok {
			return table.Missing()
		}
		if n.op == "&&" {
			return boolValue(lb && rb)
		}
		return boolValue(lb || rb)

	case "==":
		return boolValue(equalValues(l, r))
	case "!=":
		return boolValue(!equalValues(l, r))

	case ">", ">=", "<", "<=":
		cmp, ok := compareValues(l, r)
		if !ok {
			return table.Missing()
		}
		switch n.op {
		case ">":
			return boolValue(cmp > 0)
		case ">=":
			return boolValue(cmp >= 0)
		case "<":
			return boolValue(cmp < 0)
		default:
			return boolValue(cmp <= 0)
		}

	case "+":
		// Text concatenation when either side is text and numeric
		// interpretation is not possible for both.
		if lf, lok := l.Number(); lok {
			if rf, rok := r.Number(); rok {
				return numberValue(lf + rf)
			}
		}
		if l.Kind() == table.KindText || r.Kind() == table.KindText {
			return textValue(l.String() + r.String())
		}
		return table.Missing()

	case "-", "*", "/", "%":
		lf, lok := l.Number()
		rf, rok := r.Number()
		if !lok || !rok {
			return table.Missing()
		}
		switch n.op {
		case "-":
			return numberValue(lf - rf)
		case "*":
			return numberValue(lf * rf)
		case "/":
			if rf == 0 {
				return table.Missing()
			}
			return numberValue(lf / rf)
		default:
			if rf == 0 {
				return table.Missing()
			}
			return numberValue(math.Mod(lf, rf))
		}
	}
	return table.Missing()
}

// equalValues compares across kinds: numbers compare numerically even
// when one side is numeric text, everything else by exact value.
func equalValues(l, r value) bool {
	if lf, lok := l.Number(); lok {
		if rf, rok := r.Number(); rok {
			return lf == rf
		}
	}
	return l.Equal(r)
}

// compareValues orders two values: numerically when both sides have a
// numeric reading, datetime when both are datetimes, lexically for
// text.
func compareValues(l, r value) (int, bool) {
	if lf, lok := l.Number(); lok {
		if rf, rok := r.Number(); rok {
			switch {
			case lf < rf:
				return -1, true
			case lf > rf:
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if lt, lok := l.Time(); lok {
		if rt, rok := r.Time(); rok {
			switch {
			case lt.Before(rt):
				return -1, true
			case lt.After(rt):
				return 1, true
			default:
				return 0, true
			}
		}
	}
	if l.Kind() == table.KindText && r.Kind() == table.KindText {
		return strings.Compare(l.String(), r.String()), true
	}
	return 0, false
}

type function struct {
	// arity is the exact argument count, -1 for variadic.
	arity    int
	minArity int
	apply    func(args []value) value
}

type callNode struct {
	name string
	fn   function
	args []node
}

func (n *callNode) collectIdents(set map[string]struct{}) {
	for _, a := range n.args {
		a.collectIdents(set)
	}
}

func (n *callNode) eval(lookup func(string) value) value {
	args := make([]value, len(n.args))
	for i, a := range n.args {
		args[i] = a.eval(lookup)
	}
	return n.fn.apply(args)
}

func numeric1(f func(float64) (float64, bool)) func([]value) value {
	return func(args []value) value {
		v, ok := args[0].Number()
		if !ok {
			return table.Missing()
		}
		out, ok := f(v)
		if !ok {
			return table.Missing()
		}
		return numberValue(out)
	}
}

// functions is the fixed allow-list callable from expressions.
var functions = map[string]function{
	"abs": {arity: 1, apply: numeric1(func(f float64) (float64, bool) {
		return math.Abs(f), true
	})},
	"round": {arity: 1, apply: numeric1(func(f float64) (float64, bool) {
		return math.Round(f), true
	})},
	"floor": {arity: 1, apply: numeric1(func(f float64) (float64, bool) {
		return math.Floor(f), true
	})},
	"ceil": {arity: 1, apply: numeric1(func(f float64) (float64, bool) {
		return math.Ceil(f), true
	})},
	"sqrt": {arity: 1, apply: numeric1(func(f float64) (float64, bool) {
		if f < 0 {
			return 0, false
		}
		return math.Sqrt(f), true
	})},
	"pow": {arity: 2, apply: func(args []value) value {
		base, ok1 := args[0].Number()
		exp, ok2 := args[1].Number()
		if !ok1 || !ok2 {
			return table.Missing()
		}
		return numberValue(math.Pow(base, exp))
	}},
	"min": {arity: -1, minArity: 1, apply: fold(math.Min)},
	"max": {arity: -1, minArity: 1, apply: fold(math.Max)},
	"len": {arity: 1, apply: func(args []value) value {
		if args[0].IsMissing() {
			return table.Missing()
		}
		return numberValue(float64(len([]rune(args[0].String()))))
	}},
	"upper": {arity: 1, apply: text1(strings.ToUpper)},
	"lower": {arity: 1, apply: text1(strings.ToLower)},
	"if": {arity: 3, apply: func(args []value) value {
		cond, ok := args[0].Bool()
		if !ok {
			return table.Missing()
		}
		if cond {
			return args[1]
		}
		return args[2]
	}},
}

func fold(f func(float64, float64) float64) func([]value) value {
	return func(args []value) value {
		acc, ok := args[0].Number()
		if !ok {
			return table.Missing()
		}
		for _, a := range args[1:] {
			v, ok := a.Number()
			if !ok {
				return table.Missing()
			}
			acc = f(acc, v)
		}
		return numberValue(acc)
	}
}

func text1(f func(string) string) func([]value) value {
	return func(args []value) value {
		if args[0].IsMissing() {
			return table.Missing()
		}
		return textValue(f(args[0].String()))
	}
}
