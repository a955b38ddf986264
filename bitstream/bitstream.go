// Package bitstream provides wrappers for io.Writer and io.Reader to allow
// bit-granularity access to the stream, following the MSB pattern, where
// most-significant bits of every byte are written/read first.
//
// The BitReader is the cursor the codecs decode from, and the BitWriter is the
// channel they encode to. Both keep track of their bit position.
package bitstream

type Bit bool

const (
	Zero Bit = false
	One  Bit = true
)

// BitFromUint returns One for any non-zero value.
func BitFromUint(v uint64) Bit {
	return v != 0
}

// Uint returns 0 or 1.
func (b Bit) Uint() uint64 {
	if b {
		return 1
	}
	return 0
}

func (b Bit) String() string {
	if b {
		return "1"
	}
	return "0"
}

// Cursor is a position-advancing source of bits.
type Cursor interface {
	// ReadBits reads the next numBits (at most 64) as an unsigned integer,
	// most-significant bit first.
	ReadBits(numBits uint8) (uint64, error)
	Position() uint64
}

// Channel is a sink of bits.
type Channel interface {
	WriteBit(bit Bit) error
	WriteBits(val uint64, numBits uint8) error
	Position() uint64
}
