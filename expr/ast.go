package expr

import (
	"fmt"
	"math"
	"strconv"
)

type node interface {
	eval(r Resolver) (int64, error)
	String() string
}

type number int64

func (n number) eval(Resolver) (int64, error) {
	return int64(n), nil
}

func (n number) String() string {
	return strconv.FormatInt(int64(n), 10)
}

type reference string

func (ref reference) eval(r Resolver) (int64, error) {
	if r == nil {
		return 0, fmt.Errorf("%w: %v", ErrUnresolved, string(ref))
	}
	return r.Get(string(ref))
}

func (ref reference) String() string {
	return string(ref)
}

type negate struct {
	operand node
}

func (n *negate) eval(r Resolver) (int64, error) {
	v, err := n.operand.eval(r)
	if err != nil {
		return 0, err
	}
	if v == math.MinInt64 {
		return 0, fmt.Errorf("%w: %v", ErrOverflow, n)
	}
	return -v, nil
}

func (n *negate) String() string {
	return "-" + n.operand.String()
}

type binary struct {
	op    tokenKind
	left  node
	right node
}

var operators = map[tokenKind]string{
	tokAdd: "+",
	tokSub: "-",
	tokMul: "*",
	tokDiv: "/",
	tokRem: "%",
}

func (b *binary) eval(r Resolver) (int64, error) {
	lhs, err := b.left.eval(r)
	if err != nil {
		return 0, err
	}
	rhs, err := b.right.eval(r)
	if err != nil {
		return 0, err
	}

	switch b.op {
	case tokAdd:
		v := lhs + rhs
		if (v > lhs) != (rhs > 0) {
			return 0, fmt.Errorf("%w: %v", ErrOverflow, b)
		}
		return v, nil
	case tokSub:
		v := lhs - rhs
		if (v < lhs) != (rhs > 0) {
			return 0, fmt.Errorf("%w: %v", ErrOverflow, b)
		}
		return v, nil
	case tokMul:
		if lhs == 0 || rhs == 0 {
			return 0, nil
		}
		v := lhs * rhs
		if v/rhs != lhs || (lhs == -1 && rhs == math.MinInt64) || (rhs == -1 && lhs == math.MinInt64) {
			return 0, fmt.Errorf("%w: %v", ErrOverflow, b)
		}
		return v, nil
	case tokDiv:
		if rhs == 0 {
			return 0, ErrDivisionByZero
		}
		if lhs == math.MinInt64 && rhs == -1 {
			return 0, fmt.Errorf("%w: %v", ErrOverflow, b)
		}
		return lhs / rhs, nil
	case tokRem:
		if rhs == 0 {
			return 0, ErrDivisionByZero
		}
		if rhs == -1 {
			return 0, nil
		}
		return lhs % rhs, nil
	}

	panic("unreachable")
}

func (b *binary) String() string {
	return fmt.Sprintf("(%v %v %v)", b.left, operators[b.op], b.right)
}
