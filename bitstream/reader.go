package bitstream

import (
	"bytes"
	"github.com/icza/bitio"
	"io"
)

// BitReader reads bits from an io.Reader.
type BitReader struct {
	stream  *bitio.Reader
	pos     uint64
	budget  uint64
	bounded bool
}

type ReaderOption func(*BitReader)

// WithBudget limits the number of bits which can be read from the stream.
func WithBudget(numBits uint64) ReaderOption {
	return func(br *BitReader) {
		br.budget = numBits
		br.bounded = true
	}
}

// NewReader returns a new instance of BitReader.
func NewReader(r io.Reader, opts ...ReaderOption) *BitReader {
	br := new(BitReader)
	br.stream = bitio.NewReader(r)
	for _, opt := range opts {
		opt(br)
	}
	return br
}

// NewBytesReader returns a BitReader over data, with a budget of its length in
// bits unless a different one is given.
func NewBytesReader(data []byte, opts ...ReaderOption) *BitReader {
	opts = append([]ReaderOption{WithBudget(uint64(len(data)) * 8)}, opts...)
	return NewReader(bytes.NewReader(data), opts...)
}

// ReadBits reads the next numBits from the stream as uint64, most-significant
// bit first. Reading zero bits is a no-op.
func (br *BitReader) ReadBits(numBits uint8) (uint64, error) {
	if numBits == 0 {
		return 0, nil
	}
	if numBits > 64 {
		return 0, &DecodingError{Position: br.pos, NumBits: numBits, Err: ErrInvalidWidth}
	}
	if br.bounded && br.pos+uint64(numBits) > br.budget {
		return 0, &DecodingError{Position: br.pos, NumBits: numBits, Err: ErrBudgetExceeded}
	}

	val, err := br.stream.ReadBits(numBits)
	if err != nil {
		return 0, &DecodingError{Position: br.pos, NumBits: numBits, Err: err}
	}
	br.pos += uint64(numBits)

	return val, nil
}

// ReadBit reads the next single bit from the stream.
func (br *BitReader) ReadBit() (Bit, error) {
	val, err := br.ReadBits(1)
	if err != nil {
		return Zero, err
	}
	return BitFromUint(val), nil
}

// ReadByte reads the next 8 bits, regardless of the alignment.
func (br *BitReader) ReadByte() (byte, error) {
	val, err := br.ReadBits(8)
	return byte(val), err
}

// Position returns the number of bits consumed so far.
func (br *BitReader) Position() uint64 {
	return br.pos
}

// Remaining returns the number of bits left in the budget. The second return
// value is false if the reader is unbounded.
func (br *BitReader) Remaining() (uint64, bool) {
	if !br.bounded {
		return 0, false
	}
	return br.budget - br.pos, true
}
