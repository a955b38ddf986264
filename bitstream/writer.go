package bitstream

import (
	"github.com/icza/bitio"
	"io"
)

// byteWriter makes every completed byte reach the destination immediately,
// so write failures surface on the call which completed the byte.
type byteWriter struct {
	io.Writer
	buf [1]byte
}

func (w *byteWriter) WriteByte(b byte) error {
	w.buf[0] = b
	n, err := w.Write(w.buf[:])
	if err != nil {
		return err
	}
	if n != 1 {
		return io.ErrShortWrite
	}
	return nil
}

// BitWriter writes bits to an io.Writer.
type BitWriter struct {
	stream *bitio.Writer
	pos    uint64
}

// NewWriter returns a new instance of BitWriter.
func NewWriter(w io.Writer) *BitWriter {
	bw := new(BitWriter)
	bw.stream = bitio.NewWriter(&byteWriter{Writer: w})
	return bw
}

// WriteBits writes the numBits LS bits of val, most-significant bit first,
// regardless of the alignment.
func (bw *BitWriter) WriteBits(val uint64, numBits uint8) error {
	if numBits == 0 {
		return nil
	}
	if numBits > 64 {
		return ErrInvalidWidth
	}
	if numBits < 64 {
		val &= 1<<numBits - 1
	}
	if err := bw.stream.WriteBits(val, numBits); err != nil {
		return err
	}
	bw.pos += uint64(numBits)
	return nil
}

// WriteByte writes a single byte to the stream, regardless of the alignment.
func (bw *BitWriter) WriteByte(b byte) error {
	return bw.WriteBits(uint64(b), 8)
}

// WriteBit writes a single bit to the stream.
func (bw *BitWriter) WriteBit(bit Bit) error {
	if err := bw.stream.WriteBool(bool(bit)); err != nil {
		return err
	}
	bw.pos++
	return nil
}

// Flush flushes the currently pending byte to the stream by filling it with bit.
func (bw *BitWriter) Flush(bit Bit) error {
	for bw.pos%8 != 0 {
		if err := bw.WriteBit(bit); err != nil {
			return err
		}
	}

	return nil
}

// Position returns the number of bits written so far.
func (bw *BitWriter) Position() uint64 {
	return bw.pos
}
