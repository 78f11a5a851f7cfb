package expr

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokenEOF tokenKind = iota
	tokenNumber
	tokenString
	tokenIdent
	tokenOp
	tokenLParen
	tokenRParen
	tokenComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

// operators recognized by the lexer, longest first so that ">=" is not
// consumed as ">" "=".
var operators = []string{
	"==", "!=", ">=", "<=", "&&", "||",
	"+", "-", "*", "/", "%", ">", "<", "!",
}

func lex(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	i := 0
	for i < len(runes) {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokenLParen, text: "(", pos: i})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokenRParen, text: ")", pos: i})
			i++
		case r == ',':
			tokens = append(tokens, token{kind: tokenComma, text: ",", pos: i})
			i++
		case r == '\'' || r == '"':
			quote := r
			j := i + 1
			for j < len(runes) && runes[j] != quote {
				j++
			}
			if j >= len(runes) {
				return nil, fmt.Errorf("%w: unterminated string at position %d", ErrExpression, i)
			}
			tokens = append(tokens, token{kind: tokenString, text: string(runes[i+1 : j]), pos: i})
			i = j + 1
		case unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])):
			j := i
			for j < len(runes) && (unicode.IsDigit(runes[j]) || runes[j] == '.') {
				j++
			}
			tokens = append(tokens, token{kind: tokenNumber, text: string(runes[i:j]), pos: i})
			i = j
		case unicode.IsLetter(r) || r == '_':
			j := i
			for j < len(runes) && (unicode.IsLetter(runes[j]) || unicode.IsDigit(runes[j]) || runes[j] == '_') {
				j++
			}
			word := string(runes[i:j])
			// Word operators normalize to their symbol form.
			switch strings.ToLower(word) {
			case "and":
				tokens = append(tokens, token{kind: tokenOp, text: "&&", pos: i})
			case "or":
				tokens = append(tokens, token{kind: tokenOp, text: "||", pos: i})
			case "not":
				tokens = append(tokens, token{kind: tokenOp, text: "!", pos: i})
			default:
				tokens = append(tokens, token{kind: tokenIdent, text: word, pos: i})
			}
			i = j
		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(string(runes[i:]), op) {
					tokens = append(tokens, token{kind: tokenOp, text: op, pos: i})
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				return nil, fmt.Errorf("%w: unexpected character %q at position %d", ErrExpression, string(r), i)
			}
		}
	}
	tokens = append(tokens, token{kind: tokenEOF, pos: len(runes)})
	return tokens, nil
}
