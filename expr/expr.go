// Package expr implements the small arithmetic language used for late-bound
// sizes, such as the maximum count of a repeating bit counter. Expressions
// are compiled once against a Context naming the values they may refer to,
// and evaluated later against a Resolver providing those values.
package expr

import (
	"errors"
	"fmt"
)

var (
	ErrDivisionByZero = errors.New("division by zero")
	ErrUnresolved     = errors.New("unresolved reference")
	ErrOverflow       = errors.New("integer overflow")
)

// Context decides which names an expression is allowed to reference.
type Context interface {
	Has(name string) bool
}

// ContextFunc adapts a function to the Context interface.
type ContextFunc func(name string) bool

func (f ContextFunc) Has(name string) bool {
	return f(name)
}

// Resolver provides the values of references at evaluation time.
type Resolver interface {
	Get(name string) (int64, error)
}

// MapResolver resolves references from a fixed set of values.
type MapResolver map[string]int64

func (m MapResolver) Get(name string) (int64, error) {
	v, ok := m[name]
	if !ok {
		return 0, fmt.Errorf("%w: %v", ErrUnresolved, name)
	}
	return v, nil
}

func (m MapResolver) Has(name string) bool {
	_, ok := m[name]
	return ok
}

// Expression is a compiled expression.
type Expression interface {
	Eval(r Resolver) (int64, error)
	// IsConstant reports whether the expression has no references.
	IsConstant() bool
	// References returns the referenced names, in order of first appearance.
	References() []string
	String() string
}

// SyntaxError reports malformed expression text.
type SyntaxError struct {
	Text   string
	Offset int
	Msg    string
}

func (err *SyntaxError) Error() string {
	return fmt.Sprintf("invalid expression %q at offset %d: %v", err.Text, err.Offset, err.Msg)
}

// Compile parses text into an Expression. References are checked against ctx;
// a nil ctx only admits constant expressions.
func Compile(ctx Context, text string) (Expression, error) {
	tokens, err := tokenize(text)
	if err != nil {
		return nil, err
	}

	p := &parser{text: text, tokens: tokens, ctx: ctx}
	node, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if tok := p.lookahead(); tok.kind != tokEOF {
		return nil, p.errorAt(tok, "unexpected token")
	}

	return &compiled{root: node, refs: collectRefs(node, nil)}, nil
}

type compiled struct {
	root node
	refs []string
}

func (c *compiled) Eval(r Resolver) (int64, error) {
	return c.root.eval(r)
}

func (c *compiled) IsConstant() bool {
	return len(c.refs) == 0
}

func (c *compiled) References() []string {
	return append([]string(nil), c.refs...)
}

func (c *compiled) String() string {
	return c.root.String()
}

func collectRefs(n node, refs []string) []string {
	switch n := n.(type) {
	case reference:
		for _, r := range refs {
			if r == string(n) {
				return refs
			}
		}
		return append(refs, string(n))
	case *negate:
		return collectRefs(n.operand, refs)
	case *binary:
		refs = collectRefs(n.left, refs)
		return collectRefs(n.right, refs)
	}
	return refs
}
