package expr

import (
	"strconv"
)

// parser is a recursive-descent parser over the usual precedence levels:
//
//	expression := term (('+' | '-') term)*
//	term       := unary (('*' | '/' | '%') unary)*
//	unary      := '-' unary | primary
//	primary    := NUMBER | IDENTIFIER | '(' expression ')'
type parser struct {
	text   string
	tokens []token
	index  int
	ctx    Context
}

func (p *parser) parseExpression() (node, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}

	for p.follows(tokAdd, tokSub) {
		op := p.next().kind
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = &binary{op: op, left: lhs, right: rhs}
	}

	return lhs, nil
}

func (p *parser) parseTerm() (node, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for p.follows(tokMul, tokDiv, tokRem) {
		op := p.next().kind
		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		lhs = &binary{op: op, left: lhs, right: rhs}
	}

	return lhs, nil
}

func (p *parser) parseUnary() (node, error) {
	if p.follows(tokSub) {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		if n, ok := operand.(number); ok {
			return -n, nil
		}
		return &negate{operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.lookahead()

	switch tok.kind {
	case tokNumber:
		p.next()
		v, err := strconv.ParseInt(p.text[tok.start:tok.end], 0, 64)
		if err != nil {
			return nil, p.errorAt(tok, "number out of range")
		}
		return number(v), nil
	case tokIdentifier:
		p.next()
		name := p.text[tok.start:tok.end]
		if p.ctx == nil || !p.ctx.Has(name) {
			return nil, p.errorAt(tok, "unknown reference "+strconv.Quote(name))
		}
		return reference(name), nil
	case tokLParen:
		p.next()
		inner, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if !p.follows(tokRParen) {
			return nil, p.errorAt(p.lookahead(), "expected ')'")
		}
		p.next()
		return inner, nil
	case tokEOF:
		return nil, p.errorAt(tok, "unexpected end of expression")
	}

	return nil, p.errorAt(tok, "unknown expression")
}

func (p *parser) lookahead() token {
	return p.tokens[p.index]
}

func (p *parser) next() token {
	tok := p.tokens[p.index]
	if tok.kind != tokEOF {
		p.index++
	}
	return tok
}

func (p *parser) follows(kinds ...tokenKind) bool {
	next := p.lookahead().kind
	for _, k := range kinds {
		if next == k {
			return true
		}
	}
	return false
}

func (p *parser) errorAt(tok token, msg string) *SyntaxError {
	return &SyntaxError{Text: p.text, Offset: tok.start, Msg: msg}
}
