package codec

import (
	"fmt"
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/expr"
	"github.com/jumpkick/preon/shared"
	"reflect"
	"strings"
)

const NumberKind Kind = "number"

// NumberConfig declares a fixed-width integer field, stored big-endian.
type NumberConfig struct {
	// Size is an expression giving the width in bits, 1 to 64.
	Size string

	// Signed values are stored in two's complement.
	Signed bool
}

func (NumberConfig) Kind() Kind {
	return NumberKind
}

// NumberFactory builds Number codecs for the builtin integer types. It
// requires metadata, since there is no default width.
type NumberFactory struct{}

func (NumberFactory) Create(metadata Metadata, typ reflect.Type, ctx expr.Context) (Codec, bool, error) {
	var cfg NumberConfig

	switch m := metadata.(type) {
	case NumberConfig:
		cfg = m
	case *NumberConfig:
		if m == nil {
			return nil, false, nil
		}
		cfg = *m
	default:
		return nil, false, nil
	}

	if !isInteger(typ) {
		return nil, false, nil
	}

	c, err := NewNumber(cfg, typ, ctx)
	if err != nil {
		return nil, false, err
	}

	return c, true, nil
}

func isInteger(typ reflect.Type) bool {
	if typ == nil {
		return false
	}
	switch typ.Kind() {
	case reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func isSignedKind(k reflect.Kind) bool {
	return k >= reflect.Int && k <= reflect.Int64
}

// Number is a fixed-width integer codec.
type Number struct {
	size   expr.Expression
	signed bool
	typ    reflect.Type
}

func NewNumber(cfg NumberConfig, typ reflect.Type, ctx expr.Context) (*Number, error) {
	if strings.TrimSpace(cfg.Size) == "" {
		return nil, &ConfigError{Kind: NumberKind, Option: "size", Err: ErrInvalidSize}
	}

	size, err := expr.Compile(ctx, cfg.Size)
	if err != nil {
		return nil, &ConfigError{Kind: NumberKind, Option: "size", Err: err}
	}

	if size.IsConstant() {
		if _, err := checkWidth(size, nil); err != nil {
			return nil, &ConfigError{Kind: NumberKind, Option: "size", Err: err}
		}
	}

	return &Number{size: size, signed: cfg.Signed, typ: typ}, nil
}

func checkWidth(size expr.Expression, resolver expr.Resolver) (uint8, error) {
	n, err := size.Eval(resolver)
	if err != nil {
		return 0, fmt.Errorf("size %v: %w", size, err)
	}
	if n < 1 || n > 64 {
		return 0, fmt.Errorf("%w: %d bits, expected: 1 to 64", ErrInvalidSize, n)
	}
	return uint8(n), nil
}

func (c *Number) Decode(cursor bitstream.Cursor, resolver expr.Resolver, builder Builder) (any, error) {
	width, err := checkWidth(c.size, resolver)
	if err != nil {
		return nil, err
	}

	raw, err := cursor.ReadBits(width)
	if err != nil {
		return nil, err
	}

	if builder == nil {
		builder = DefaultBuilder{}
	}
	v, err := builder.New(c.typ)
	if err != nil {
		return nil, err
	}

	if isSignedKind(c.typ.Kind()) {
		x := int64(raw)
		if c.signed && width < 64 && raw&(1<<(width-1)) != 0 {
			x = int64(raw | ^uint64(0)<<width)
		}
		if (!c.signed && width == 64 && x < 0) || v.OverflowInt(x) {
			return nil, fmt.Errorf("%w: %d doesn't fit %v", ErrOutOfRange, raw, c.typ)
		}
		v.SetInt(x)
	} else {
		if c.signed && raw&(1<<(width-1)) != 0 {
			return nil, fmt.Errorf("%w: negative value doesn't fit %v", ErrOutOfRange, c.typ)
		}
		if v.OverflowUint(raw) {
			return nil, fmt.Errorf("%w: %d doesn't fit %v", ErrOutOfRange, raw, c.typ)
		}
		v.SetUint(raw)
	}

	return v.Interface(), nil
}

func (c *Number) Encode(value any, channel bitstream.Channel, resolver expr.Resolver) error {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Type() != c.typ {
		return fmt.Errorf("%w: %T, expected: %v", ErrInvalidValue, value, c.typ)
	}

	width, err := checkWidth(c.size, resolver)
	if err != nil {
		return err
	}

	var raw uint64
	if isSignedKind(v.Kind()) {
		x := v.Int()
		if !fitsSigned(x, width, c.signed) {
			return fmt.Errorf("%w: %d in %d bits", ErrUnencodable, x, width)
		}
		raw = uint64(x)
	} else {
		x := v.Uint()
		if !fitsUnsigned(x, width, c.signed) {
			return fmt.Errorf("%w: %d in %d bits", ErrUnencodable, x, width)
		}
		raw = x
	}
	if width < 64 {
		raw &= 1<<width - 1
	}

	return channel.WriteBits(raw, width)
}

func fitsSigned(x int64, width uint8, signed bool) bool {
	if !signed {
		return x >= 0 && fitsUnsigned(uint64(x), width, false)
	}
	if width == 64 {
		return true
	}
	limit := int64(1) << (width - 1)
	return x >= -limit && x < limit
}

func fitsUnsigned(x uint64, width uint8, signed bool) bool {
	if signed {
		width--
	}
	if width == 0 {
		return x == 0
	}
	return shared.NumBits(x) <= width
}

func (c *Number) Size() expr.Expression {
	return c.size
}

func (c *Number) Type() reflect.Type {
	return c.typ
}

func (c *Number) Descriptor() Descriptor {
	sign := "unsigned"
	if c.signed {
		sign = "signed"
	}
	return descriptor{
		noun:    fmt.Sprintf("%v integer of %v bits", sign, c.size),
		summary: fmt.Sprintf("a big-endian %v integer, %v bits wide", sign, c.size),
	}
}

var _ Codec = (*Number)(nil)
