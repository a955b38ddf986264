package codec

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidValue   = errors.New("invalid value type")
	ErrUnencodable    = errors.New("value can't be encoded")
	ErrCountOverflow  = errors.New("count overflow")
	ErrInvalidSize    = errors.New("invalid size")
	ErrOutOfRange     = errors.New("value out of range")
	ErrDuplicateKind  = errors.New("kind already registered")
	ErrMissingFactory = errors.New("nil factory")
)

// ConfigError reports invalid declarative configuration, detected while
// constructing a codec.
type ConfigError struct {
	Kind   Kind
	Option string
	Err    error
}

func (err *ConfigError) Error() string {
	return fmt.Sprintf("invalid `%v` configuration, option `%v`: %v", err.Kind, err.Option, err.Err)
}

func (err *ConfigError) Unwrap() error {
	return err.Err
}
