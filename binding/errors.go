package binding

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownType    = errors.New("unknown value type")
	ErrNoCodec        = errors.New("no codec applicable")
	ErrDuplicateField = errors.New("duplicate field")
	ErrUnnamedField   = errors.New("unnamed field")
	ErrMissingValue   = errors.New("missing value")
)

// FieldError ties a failure to the field it occurred on.
type FieldError struct {
	Field string
	Err   error
}

func (err *FieldError) Error() string {
	return fmt.Sprintf("field `%v`: %v", err.Field, err.Err)
}

func (err *FieldError) Unwrap() error {
	return err.Err
}
