// Package binding assembles codecs for a flat sequence of named fields, and
// decodes or encodes whole records with them. Expressions in a field's
// configuration may refer to any field declared before it.
package binding

import (
	"fmt"
	"github.com/jumpkick/preon/codec"
	"reflect"
)

// Field is the declarative description of a single field.
type Field struct {
	Name string `mapstructure:"name"`

	// Kind selects the codec family; empty picks the default codec for Type.
	Kind string `mapstructure:"kind"`

	// Type is the Go integer type name of the value, int32 when empty.
	Type string `mapstructure:"type"`

	// Repeating bit counter options.
	MaxCount     string `mapstructure:"max-count"`
	TerminateBit int64  `mapstructure:"terminate-bit"`

	// Number options.
	Size   string `mapstructure:"size"`
	Signed bool   `mapstructure:"signed"`
}

type Schema struct {
	Name   string  `mapstructure:"name"`
	Fields []Field `mapstructure:"fields"`
}

var types = map[string]reflect.Type{
	"int8":   reflect.TypeOf(int8(0)),
	"int16":  reflect.TypeOf(int16(0)),
	"int32":  reflect.TypeOf(int32(0)),
	"int64":  reflect.TypeOf(int64(0)),
	"uint8":  reflect.TypeOf(uint8(0)),
	"uint16": reflect.TypeOf(uint16(0)),
	"uint32": reflect.TypeOf(uint32(0)),
	"uint64": reflect.TypeOf(uint64(0)),
}

// ValueType returns the Go type of the field value.
func (f Field) ValueType() (reflect.Type, error) {
	if f.Type == "" {
		return codec.Int32Type, nil
	}
	typ, ok := types[f.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, f.Type)
	}
	return typ, nil
}

func (f Field) validate() error {
	if codec.Kind(f.Kind) == codec.RepeatingBitCounterKind && (f.TerminateBit < 0 || f.TerminateBit > 1) {
		return &codec.ConfigError{
			Kind:   codec.RepeatingBitCounterKind,
			Option: "terminate-bit",
			Err:    fmt.Errorf("expected: 0 or 1, given: %d", f.TerminateBit),
		}
	}
	return nil
}

// Metadata returns the codec configuration of the field, or nil when no kind
// is set. The field must have been validated.
func (f Field) Metadata() codec.Metadata {
	switch codec.Kind(f.Kind) {
	case "":
		return nil
	case codec.RepeatingBitCounterKind:
		return codec.RepeatingBitCounterConfig{MaxCount: f.MaxCount, TerminateBit: uint8(f.TerminateBit)}
	case codec.NumberKind:
		return codec.NumberConfig{Size: f.Size, Signed: f.Signed}
	}
	return customMetadata(f.Kind)
}

// customMetadata carries kinds registered by users of the package.
type customMetadata string

func (m customMetadata) Kind() codec.Kind {
	return codec.Kind(m)
}
