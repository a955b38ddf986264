// Package codec defines the contract between the binding framework and the
// field codecs translating between bits and values, together with the
// registry used to build codecs from declarative field metadata.
package codec

import (
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/expr"
	"reflect"
)

var (
	Int32Type = reflect.TypeOf(int32(0))
	Int64Type = reflect.TypeOf(int64(0))
)

// Codec decodes values of a single type from a bit cursor, and encodes them
// back to a bit channel. Implementations hold no per-call state and can be
// shared between concurrent calls on different streams.
type Codec interface {
	Decode(cursor bitstream.Cursor, resolver expr.Resolver, builder Builder) (any, error)
	Encode(value any, channel bitstream.Channel, resolver expr.Resolver) error

	// Size returns the declared size of the encoded value, or nil when it
	// can't be expressed up front.
	Size() expr.Expression
	Type() reflect.Type
	Descriptor() Descriptor
}

// Builder constructs the values codecs decode into.
type Builder interface {
	New(typ reflect.Type) (reflect.Value, error)
}

// DefaultBuilder allocates zero values.
type DefaultBuilder struct{}

func (DefaultBuilder) New(typ reflect.Type) (reflect.Value, error) {
	return reflect.New(typ).Elem(), nil
}
