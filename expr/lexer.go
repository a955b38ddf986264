package expr

import (
	"strings"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNumber
	tokIdentifier
	tokLParen
	tokRParen
	tokAdd
	tokSub
	tokMul
	tokDiv
	tokRem
)

var punctuation = map[byte]tokenKind{
	'(': tokLParen,
	')': tokRParen,
	'+': tokAdd,
	'-': tokSub,
	'*': tokMul,
	'/': tokDiv,
	'%': tokRem,
}

type token struct {
	kind  tokenKind
	start int
	end   int
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentRest(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

// tokenize splits text into tokens, always terminated by an EOF token.
func tokenize(text string) ([]token, error) {
	var tokens []token

	for i := 0; i < len(text); {
		c := text[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c):
			start := i
			if c == '0' && i+1 < len(text) && (text[i+1] == 'x' || text[i+1] == 'X') {
				i += 2
				for i < len(text) && isHexDigit(text[i]) {
					i++
				}
				if i == start+2 {
					return nil, &SyntaxError{Text: text, Offset: start, Msg: "malformed hex literal"}
				}
			} else {
				for i < len(text) && isDigit(text[i]) {
					i++
				}
			}
			if i < len(text) && isIdentStart(text[i]) {
				return nil, &SyntaxError{Text: text, Offset: i, Msg: "malformed number"}
			}
			tokens = append(tokens, token{tokNumber, start, i})
		case isIdentStart(c):
			start := i
			for i < len(text) && isIdentRest(text[i]) {
				i++
			}
			if strings.HasSuffix(text[start:i], ".") {
				return nil, &SyntaxError{Text: text, Offset: i - 1, Msg: "malformed identifier"}
			}
			tokens = append(tokens, token{tokIdentifier, start, i})
		default:
			kind, ok := punctuation[c]
			if !ok {
				return nil, &SyntaxError{Text: text, Offset: i, Msg: "unknown text encountered"}
			}
			tokens = append(tokens, token{kind, i, i + 1})
			i++
		}
	}

	return append(tokens, token{tokEOF, len(text), len(text)}), nil
}
