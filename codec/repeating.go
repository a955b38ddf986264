package codec

import (
	"fmt"
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/expr"
	"math"
	"reflect"
	"strings"
)

const RepeatingBitCounterKind Kind = "repeating-bit-counter"

// countCeiling is the largest count a decode may produce.
var countCeiling int64 = math.MaxInt32

const repeatingBitCounterSummary = "a bit counter that increments until a terminator bit is encountered " +
	"or the configured maximum is reached, i.e. 110|11111 -> 3 when the terminator bit is 0 and no maximum is set"

// RepeatingBitCounterConfig declares a repeating bit counter field.
type RepeatingBitCounterConfig struct {
	// MaxCount is an expression bounding the count. Empty means unbounded.
	//
	// Reaching the bound stops reading without an error, even if the
	// terminator bit was never seen.
	MaxCount string

	// TerminateBit is the bit value ending the count, 0 or 1.
	TerminateBit uint8
}

func (RepeatingBitCounterConfig) Kind() Kind {
	return RepeatingBitCounterKind
}

// RepeatingBitCounterFactory builds repeating bit counters for int32 targets,
// either from a RepeatingBitCounterConfig or, without metadata, with the
// default configuration.
type RepeatingBitCounterFactory struct{}

func (RepeatingBitCounterFactory) Create(metadata Metadata, typ reflect.Type, ctx expr.Context) (Codec, bool, error) {
	var cfg RepeatingBitCounterConfig

	switch m := metadata.(type) {
	case nil:
	case RepeatingBitCounterConfig:
		cfg = m
	case *RepeatingBitCounterConfig:
		if m != nil {
			cfg = *m
		}
	default:
		return nil, false, nil
	}

	if typ != Int32Type {
		return nil, false, nil
	}

	c, err := NewRepeatingBitCounter(cfg, ctx)
	if err != nil {
		return nil, false, err
	}

	return c, true, nil
}

// RepeatingBitCounter is a variable-length field whose value is the number of
// bits scanned until the terminator bit, inclusive, or until the maximum
// count is reached.
type RepeatingBitCounter struct {
	terminator bitstream.Bit
	maxCount   expr.Expression
}

// Result is the outcome of a single DecodeCount call.
type Result struct {
	Count int32

	// HitBound is set when reading stopped at the maximum count without
	// seeing the terminator bit.
	HitBound bool
}

// NewRepeatingBitCounter compiles cfg against ctx.
func NewRepeatingBitCounter(cfg RepeatingBitCounterConfig, ctx expr.Context) (*RepeatingBitCounter, error) {
	if cfg.TerminateBit > 1 {
		return nil, &ConfigError{
			Kind:   RepeatingBitCounterKind,
			Option: "terminate-bit",
			Err:    fmt.Errorf("expected: 0 or 1, given: %d", cfg.TerminateBit),
		}
	}

	c := &RepeatingBitCounter{terminator: bitstream.BitFromUint(uint64(cfg.TerminateBit))}

	if strings.TrimSpace(cfg.MaxCount) != "" {
		e, err := expr.Compile(ctx, cfg.MaxCount)
		if err != nil {
			return nil, &ConfigError{Kind: RepeatingBitCounterKind, Option: "max-count", Err: err}
		}
		c.maxCount = e
	}

	return c, nil
}

// TerminateBit returns the bit value ending the count.
func (c *RepeatingBitCounter) TerminateBit() bitstream.Bit {
	return c.terminator
}

// bound evaluates the maximum count. Zero means unbounded; bounds above the
// int32 range are clamped to it.
func (c *RepeatingBitCounter) bound(resolver expr.Resolver) (int64, error) {
	if c.maxCount == nil {
		return 0, nil
	}

	limit, err := c.maxCount.Eval(resolver)
	if err != nil {
		return 0, fmt.Errorf("max count %v: %w", c.maxCount, err)
	}
	if limit <= 0 {
		return 0, nil
	}
	if limit > countCeiling {
		return countCeiling, nil
	}

	return limit, nil
}

// DecodeCount reads one bit at a time until the terminator bit is read or the
// maximum count is reached. Cursor failures are returned as is.
func (c *RepeatingBitCounter) DecodeCount(cursor bitstream.Cursor, resolver expr.Resolver) (Result, error) {
	limit, err := c.bound(resolver)
	if err != nil {
		return Result{}, err
	}

	var count int32
	for {
		bit, err := cursor.ReadBits(1)
		if err != nil {
			return Result{}, err
		}
		count++

		if bitstream.BitFromUint(bit) == c.terminator {
			return Result{Count: count}, nil
		}
		if limit > 0 && int64(count) == limit {
			return Result{Count: count, HitBound: true}, nil
		}
		if int64(count) == countCeiling {
			return Result{}, fmt.Errorf("%w: no terminator within %d bits", ErrCountOverflow, count)
		}
	}
}

// Decode returns the count as an int32.
func (c *RepeatingBitCounter) Decode(cursor bitstream.Cursor, resolver expr.Resolver, _ Builder) (any, error) {
	res, err := c.DecodeCount(cursor, resolver)
	if err != nil {
		return nil, err
	}
	return res.Count, nil
}

// EncodeCount writes count-1 non-terminator bits followed by the terminator.
func (c *RepeatingBitCounter) EncodeCount(count int32, channel bitstream.Channel, resolver expr.Resolver) error {
	if count < 1 {
		return fmt.Errorf("%w: count %d, expected: >= 1", ErrUnencodable, count)
	}

	limit, err := c.bound(resolver)
	if err != nil {
		return err
	}
	if limit > 0 && int64(count) > limit {
		return fmt.Errorf("%w: count %d exceeds the maximum count %d", ErrUnencodable, count, limit)
	}

	for remaining := count - 1; remaining > 0; {
		n := remaining
		if n > 64 {
			n = 64
		}
		var filler uint64
		if c.terminator == bitstream.Zero {
			filler = math.MaxUint64 >> (64 - n)
		}
		if err := channel.WriteBits(filler, uint8(n)); err != nil {
			return err
		}
		remaining -= n
	}

	return channel.WriteBit(c.terminator)
}

func (c *RepeatingBitCounter) Encode(value any, channel bitstream.Channel, resolver expr.Resolver) error {
	count, ok := value.(int32)
	if !ok {
		return fmt.Errorf("%w: %T, expected: int32", ErrInvalidValue, value)
	}
	return c.EncodeCount(count, channel, resolver)
}

// Size returns the maximum count expression, or nil when unbounded.
func (c *RepeatingBitCounter) Size() expr.Expression {
	return c.maxCount
}

func (c *RepeatingBitCounter) Type() reflect.Type {
	return Int32Type
}

func (c *RepeatingBitCounter) Descriptor() Descriptor {
	return descriptor{noun: "repeating bit counter", summary: repeatingBitCounterSummary}
}

func (c *RepeatingBitCounter) String() string {
	bound := "unbounded"
	if c.maxCount != nil {
		bound = "max " + c.maxCount.String()
	}
	return fmt.Sprintf("repeating bit counter (terminator %v, %v)", c.terminator, bound)
}

var _ Codec = (*RepeatingBitCounter)(nil)
