package binding

import (
	"fmt"
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/codec"
	"github.com/jumpkick/preon/expr"
	"github.com/jumpkick/preon/shared"
	"reflect"
)

type boundField struct {
	name  string
	codec codec.Codec
}

// Binder decodes and encodes records of a schema. It is safe for concurrent
// use on different streams.
type Binder struct {
	schema Schema
	fields []boundField
	logger shared.Logger
}

// FieldDescription is the documentation of a bound field.
type FieldDescription struct {
	Name      string
	Type      string
	Size      string
	Reference string
	Summary   string
}

// NewBinder builds the codecs of every field, in order.
func NewBinder(schema Schema, registry *codec.Registry, logger shared.Logger) (*Binder, error) {
	if len(schema.Fields) == 0 {
		return nil, shared.ErrSchemaEmpty
	}
	if registry == nil {
		registry = codec.DefaultRegistry()
	}
	if logger == nil {
		logger = shared.DisabledLogger{}
	}

	b := &Binder{schema: schema, logger: logger}
	declared := make(map[string]bool)
	ctx := expr.ContextFunc(func(name string) bool { return declared[name] })

	for i, f := range schema.Fields {
		if f.Name == "" {
			return nil, fmt.Errorf("%w at index %d", ErrUnnamedField, i)
		}
		if declared[f.Name] {
			return nil, &FieldError{Field: f.Name, Err: ErrDuplicateField}
		}

		if err := f.validate(); err != nil {
			return nil, &FieldError{Field: f.Name, Err: err}
		}

		typ, err := f.ValueType()
		if err != nil {
			return nil, &FieldError{Field: f.Name, Err: err}
		}

		c, ok, err := registry.Create(f.Metadata(), typ, ctx)
		if err != nil {
			return nil, &FieldError{Field: f.Name, Err: err}
		}
		if !ok {
			return nil, &FieldError{Field: f.Name, Err: fmt.Errorf("%w: kind %q, type %v, registered kinds: %v", ErrNoCodec, f.Kind, typ, registry.Kinds())}
		}

		b.logger.Debug("binding: schema %v, field %v bound to %v", schema.Name, f.Name, c.Descriptor().Reference(codec.A))
		b.fields = append(b.fields, boundField{name: f.Name, codec: c})
		declared[f.Name] = true
	}

	return b, nil
}

func (b *Binder) Schema() Schema {
	return b.schema
}

// Decode reads one record from the cursor.
func (b *Binder) Decode(cursor bitstream.Cursor) (*Record, error) {
	rec := NewRecord()
	builder := codec.DefaultBuilder{}

	for _, f := range b.fields {
		offset := cursor.Position()
		v, err := f.codec.Decode(cursor, rec, builder)
		if err != nil {
			return nil, &FieldError{Field: f.name, Err: err}
		}

		n, err := toInt64(v)
		if err != nil {
			return nil, &FieldError{Field: f.name, Err: err}
		}
		rec.Put(Entry{Name: f.name, Value: n, Offset: offset, Bits: cursor.Position() - offset})
	}

	b.logger.Debug("binding: decoded %v record, %v fields, %v bits", b.schema.Name, rec.Len(), rec.Bits())
	return rec, nil
}

// Encode writes every field of rec to the channel.
func (b *Binder) Encode(rec *Record, channel bitstream.Channel) error {
	for _, f := range b.fields {
		n, err := rec.Get(f.name)
		if err != nil {
			return &FieldError{Field: f.name, Err: ErrMissingValue}
		}

		v, err := fromInt64(n, f.codec.Type())
		if err != nil {
			return &FieldError{Field: f.name, Err: err}
		}

		if err := f.codec.Encode(v, channel, rec); err != nil {
			return &FieldError{Field: f.name, Err: err}
		}
	}

	return nil
}

// Describe documents every bound field.
func (b *Binder) Describe() []FieldDescription {
	descs := make([]FieldDescription, len(b.fields))
	for i, f := range b.fields {
		size := "unbounded"
		if s := f.codec.Size(); s != nil {
			size = s.String()
		}
		d := f.codec.Descriptor()
		descs[i] = FieldDescription{
			Name:      f.name,
			Type:      f.codec.Type().String(),
			Size:      size,
			Reference: d.Reference(codec.A),
			Summary:   d.Summary(),
		}
	}
	return descs
}

func toInt64(v any) (int64, error) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > 1<<63-1 {
			return 0, fmt.Errorf("%w: %d", codec.ErrOutOfRange, u)
		}
		return int64(u), nil
	}
	return 0, fmt.Errorf("%w: %T", codec.ErrInvalidValue, v)
}

func fromInt64(n int64, typ reflect.Type) (any, error) {
	v := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if v.OverflowInt(n) {
			return nil, fmt.Errorf("%w: %d doesn't fit %v", codec.ErrOutOfRange, n, typ)
		}
		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n < 0 || v.OverflowUint(uint64(n)) {
			return nil, fmt.Errorf("%w: %d doesn't fit %v", codec.ErrOutOfRange, n, typ)
		}
		v.SetUint(uint64(n))
	default:
		return nil, fmt.Errorf("%w: %v", codec.ErrInvalidValue, typ)
	}
	return v.Interface(), nil
}
