package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// node is one AST node, evaluated per row against a value lookup.
type node interface {
	eval(lookup func(name string) value) value
	collectIdents(set map[string]struct{})
}

// Compiled is a parsed, validated expression ready for evaluation.
type Compiled struct {
	src  string
	root node
}

// Compile parses the expression source into an AST. Syntax errors and
// unknown function names report ErrExpression.
func Compile(src string) (*Compiled, error) {
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: empty expression", ErrExpression)
	}
	tokens, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{tokens: tokens}
	root, err := p.parseExpr(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokenEOF {
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrExpression, tok.text, tok.pos)
	}
	return &Compiled{src: src, root: root}, nil
}

// Identifiers returns the distinct column names the expression reads.
func (c *Compiled) Identifiers() []string {
	set := make(map[string]struct{})
	c.root.collectIdents(set)
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	return out
}

// String returns the original source of the expression.
func (c *Compiled) String() string {
	return c.src
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.kind != tokenEOF {
		p.pos++
	}
	return t
}

// binding powers, higher binds tighter.
var precedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3, ">": 3, ">=": 3, "<": 3, "<=": 3,
	"+": 4, "-": 4,
	"*": 5, "/": 5, "%": 5,
}

func (p *parser) parseExpr(minPrec int) (node, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokenOp {
			break
		}
		prec, ok := precedence[tok.text]
		if !ok || prec < minPrec {
			break
		}
		p.next()
		right, err := p.parseExpr(prec + 1)
		if err != nil {
			return nil, err
		}
		left = &binaryNode{op: tok.text, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (node, error) {
	tok := p.peek()
	if tok.kind == tokenOp {
		switch tok.text {
		case "-":
			p.next()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &unaryNode{op: "-", operand: operand}, nil
		case "!":
			p.next()
			operand, err := p.parseUnary()
			if err != nil {
				return nil, err
			}
			return &unaryNode{op: "!", operand: operand}, nil
		}
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokenNumber:
		f, err := strconv.ParseFloat(tok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad number %q", ErrExpression, tok.text)
		}
		return &literalNode{val: numberValue(f)}, nil
	case tokenString:
		return &literalNode{val: textValue(tok.text)}, nil
	case tokenLParen:
		inner, err := p.parseExpr(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokenRParen {
			return nil, fmt.Errorf("%w: expected closing parenthesis at position %d", ErrExpression, closing.pos)
		}
		return inner, nil
	case tokenIdent:
		switch strings.ToLower(tok.text) {
		case "true":
			return &literalNode{val: boolValue(true)}, nil
		case "false":
			return &literalNode{val: boolValue(false)}, nil
		}
		if p.peek().kind == tokenLParen {
			return p.parseCall(tok)
		}
		return &identNode{name: tok.text}, nil
	default:
		return nil, fmt.Errorf("%w: unexpected %q at position %d", ErrExpression, tok.text, tok.pos)
	}
}

func (p *parser) parseCall(name token) (node, error) {
	fnName := strings.ToLower(name.text)
	fn, ok := functions[fnName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown function %q", ErrExpression, name.text)
	}
	p.next() // consume '('

	var args []node
	if p.peek().kind != tokenRParen {
		for {
			arg, err := p.parseExpr(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().kind == tokenComma {
				p.next()
				continue
			}
			break
		}
	}
	if closing := p.next(); closing.kind != tokenRParen {
		return nil, fmt.Errorf("%w: expected closing parenthesis after %q arguments", ErrExpression, name.text)
	}
	if fn.arity >= 0 && len(args) != fn.arity {
		return nil, fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrExpression, fnName, fn.arity, len(args))
	}
	if fn.minArity > 0 && len(args) < fn.minArity {
		return nil, fmt.Errorf("%w: %s expects at least %d argument(s)", ErrExpression, fnName, fn.minArity)
	}
	return &callNode{name: fnName, fn: fn, args: args}, nil
}
