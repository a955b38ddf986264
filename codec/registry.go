package codec

import (
	"fmt"
	"github.com/jumpkick/preon/expr"
	"reflect"
)

// Kind tags a family of codecs.
type Kind string

// Metadata is the declarative configuration of a single field.
type Metadata interface {
	Kind() Kind
}

// Factory builds codecs. A factory which does not handle the given metadata
// or target type returns ok == false and a nil error.
type Factory interface {
	Create(metadata Metadata, typ reflect.Type, ctx expr.Context) (c Codec, ok bool, err error)
}

// FactoryFunc adapts a function to the Factory interface.
type FactoryFunc func(metadata Metadata, typ reflect.Type, ctx expr.Context) (Codec, bool, error)

func (f FactoryFunc) Create(metadata Metadata, typ reflect.Type, ctx expr.Context) (Codec, bool, error) {
	return f(metadata, typ, ctx)
}

// Registry maps kinds to factories.
type Registry struct {
	kinds     []Kind
	factories map[Kind]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[Kind]Factory)}
}

// DefaultRegistry returns a registry with every codec of this package.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(RepeatingBitCounterKind, RepeatingBitCounterFactory{})
	_ = r.Register(NumberKind, NumberFactory{})
	return r
}

func (r *Registry) Register(kind Kind, f Factory) error {
	if f == nil {
		return ErrMissingFactory
	}
	if _, ok := r.factories[kind]; ok {
		return fmt.Errorf("%w: %v", ErrDuplicateKind, kind)
	}
	r.kinds = append(r.kinds, kind)
	r.factories[kind] = f
	return nil
}

// Kinds returns the registered kinds, in registration order.
func (r *Registry) Kinds() []Kind {
	return append([]Kind(nil), r.kinds...)
}

// Create dispatches to the factory registered for the metadata kind. Without
// metadata, factories are tried in registration order and the first one
// applicable to typ wins.
func (r *Registry) Create(metadata Metadata, typ reflect.Type, ctx expr.Context) (Codec, bool, error) {
	if metadata != nil && !isNilMetadata(metadata) {
		f, ok := r.factories[metadata.Kind()]
		if !ok {
			return nil, false, nil
		}
		return f.Create(metadata, typ, ctx)
	}

	for _, kind := range r.kinds {
		c, ok, err := r.factories[kind].Create(nil, typ, ctx)
		if err != nil || ok {
			return c, ok, err
		}
	}

	return nil, false, nil
}

func isNilMetadata(metadata Metadata) bool {
	v := reflect.ValueOf(metadata)
	return v.Kind() == reflect.Ptr && v.IsNil()
}
