package bitstream

import (
	"errors"
	"fmt"
)

var (
	ErrBudgetExceeded = errors.New("bit budget exceeded")
	ErrInvalidWidth   = errors.New("invalid bit width")
)

// DecodingError is returned by BitReader when a read can't be satisfied,
// either because the stream ran dry or because the bit budget was exhausted.
type DecodingError struct {
	Position uint64
	NumBits  uint8
	Err      error
}

func (err *DecodingError) Error() string {
	return fmt.Sprintf("decoding failure at bit %d, reading %d bit(s): %v", err.Position, err.NumBits, err.Err)
}

func (err *DecodingError) Unwrap() error {
	return err.Err
}
