package shared

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"strings"
)

// NumBits returns the number of bits needed to represent val, at least 1.
func NumBits(val uint64) uint8 {
	if val == 0 {
		return 1
	}
	return uint8(bits.Len64(val))
}

// ParseHex decodes hex text, ignoring whitespace and an optional 0x prefix.
func ParseHex(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")

	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHexInput, err)
	}
	return data, nil
}

// FormatHex encodes data as upper-case hex bytes separated by spaces.
func FormatHex(data []byte) string {
	parts := make([]string, len(data))
	for i, b := range data {
		parts[i] = fmt.Sprintf("%02X", b)
	}
	return strings.Join(parts, " ")
}
