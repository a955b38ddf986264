package shared

import (
	"errors"
	"fmt"
)

var (
	ErrSchemaEmpty     = errors.New("schema has no fields")
	ErrRecordNotExist  = errors.New("record doesn't exist")
	ErrInvalidHexInput = errors.New("invalid hex input")
)

type ConfigMismatchError struct {
	Param    string
	Expected string
	Found    string
}

func (err ConfigMismatchError) Error() string {
	return fmt.Sprintf("`%v` config mismatch; expected: %v, found: %v",
		err.Param, err.Expected, err.Found)
}
