package codec_test

import (
	"bytes"
	"encoding/hex"
	"errors"
	"github.com/jumpkick/preon/bitstream"
	"github.com/jumpkick/preon/codec"
	"github.com/jumpkick/preon/expr"
	"github.com/stretchr/testify/require"
	"math/rand"
	"strings"
	"sync"
	"testing"
)

func toBytes(t *testing.T, s string) []byte {
	data, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	require.NoError(t, err)
	return data
}

func newCounter(t *testing.T, cfg codec.Metadata, ctx expr.Context) *codec.RepeatingBitCounter {
	c, ok, err := codec.RepeatingBitCounterFactory{}.Create(cfg, codec.Int32Type, ctx)
	require.NoError(t, err)
	require.True(t, ok)
	return c.(*codec.RepeatingBitCounter)
}

func TestTerminateBit1(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, codec.RepeatingBitCounterConfig{TerminateBit: 1}, nil)

	// xxT0 0001, 0000 0000, 0000 0000, 1111 1111
	v, err := c.Decode(bitstream.NewBytesReader(toBytes(t, "21 00 00 FF")), nil, codec.DefaultBuilder{})
	req.NoError(err)
	req.Equal(int32(3), v)
}

func TestMaxCount5(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, &codec.RepeatingBitCounterConfig{MaxCount: "5"}, nil)

	cursor := bitstream.NewBytesReader(toBytes(t, "FF FF"))
	res, err := c.DecodeCount(cursor, nil)
	req.NoError(err)
	req.Equal(int32(5), res.Count)
	req.True(res.HitBound)
	req.Equal(uint64(5), cursor.Position())
}

func TestDecode(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, codec.RepeatingBitCounterConfig{}, nil)

	cases := []struct {
		data string
		want int32
	}{
		{"04 01 FF", 1},       // T000 0100
		{"84 01 FF", 2},       // xT00 0100
		{"C4 01 02 03 FF", 3}, // xxT0 0100
		{"E4 01 02 03 FF", 4}, // xxxT 0100
		{"81 00 02 03 FF", 2}, // xT00 0001
		{"81 02 03 FF", 2},
		{"43 FF", 1},
		{"FF FF FE", 24},
	}

	for _, tc := range cases {
		cursor := bitstream.NewBytesReader(toBytes(t, tc.data))
		v, err := c.Decode(cursor, nil, nil)
		req.NoError(err, tc.data)
		req.Equal(tc.want, v, tc.data)
		req.Equal(uint64(tc.want), cursor.Position(), tc.data)
	}
}

func TestTerminatorAtBound(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, codec.RepeatingBitCounterConfig{MaxCount: "3"}, nil)

	res, err := c.DecodeCount(bitstream.NewBytesReader([]byte{0xC0}), nil) // 110
	req.NoError(err)
	req.Equal(codec.Result{Count: 3}, res)

	res, err = c.DecodeCount(bitstream.NewBytesReader([]byte{0xE0}), nil) // 111
	req.NoError(err)
	req.Equal(codec.Result{Count: 3, HitBound: true}, res)
}

func TestNonPositiveBoundIsUnbounded(t *testing.T) {
	req := require.New(t)

	values := expr.MapResolver{"limit": 4}
	for _, maxCount := range []string{"0", "limit - 10"} {
		c := newCounter(t, codec.RepeatingBitCounterConfig{MaxCount: maxCount}, values)
		req.NotNil(c.Size())

		res, err := c.DecodeCount(bitstream.NewBytesReader([]byte{0xFF, 0xF0}), values)
		req.NoError(err, maxCount)
		req.Equal(codec.Result{Count: 13}, res, maxCount)
	}
}

func TestBoundFromContext(t *testing.T) {
	req := require.New(t)

	ctx := expr.ContextFunc(func(name string) bool { return name == "limit" })
	c := newCounter(t, codec.RepeatingBitCounterConfig{MaxCount: "limit * 2"}, ctx)
	req.Equal("(limit * 2)", c.Size().String())

	for limit := int64(1); limit <= 8; limit++ {
		res, err := c.DecodeCount(bitstream.NewBytesReader([]byte{0xFF, 0xFF, 0xFF}), expr.MapResolver{"limit": limit})
		req.NoError(err)
		req.Equal(int32(limit*2), res.Count)
		req.True(res.HitBound)
	}

	_, err := c.DecodeCount(bitstream.NewBytesReader([]byte{0xFF}), expr.MapResolver{})
	req.True(errors.Is(err, expr.ErrUnresolved))
}

func TestStreamExhausted(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, nil, nil)

	_, err := c.Decode(bitstream.NewBytesReader([]byte{0xFF, 0xFF}), nil, nil)
	req.Error(err)
	req.True(errors.Is(err, bitstream.ErrBudgetExceeded))

	var decErr *bitstream.DecodingError
	req.True(errors.As(err, &decErr))
	req.Equal(uint64(16), decErr.Position)

	// A bound beyond the stream doesn't mask the failure.
	c = newCounter(t, codec.RepeatingBitCounterConfig{MaxCount: "100"}, nil)
	_, err = c.Decode(bitstream.NewReader(bytes.NewReader([]byte{0xFF})), nil, nil)
	req.Error(err)
	req.True(errors.As(err, &decErr))
}

// The count is the 1-based index of the first terminator bit.
func TestFirstTerminatorIndex(t *testing.T) {
	req := require.New(t)
	rnd := rand.New(rand.NewSource(1))

	for _, term := range []uint8{0, 1} {
		c := newCounter(t, codec.RepeatingBitCounterConfig{TerminateBit: term}, nil)
		bounded := newCounter(t, codec.RepeatingBitCounterConfig{TerminateBit: term, MaxCount: "7"}, nil)

		for i := 0; i < 500; i++ {
			data := make([]byte, 4)
			rnd.Read(data)

			want := 0
			for idx := 0; idx < len(data)*8; idx++ {
				if (data[idx/8]>>(7-idx%8))&1 == term {
					want = idx + 1
					break
				}
			}

			res, err := c.DecodeCount(bitstream.NewBytesReader(data), nil)
			if want == 0 {
				req.Error(err)
			} else {
				req.NoError(err)
				req.Equal(int32(want), res.Count)
				req.False(res.HitBound)
			}

			res, err = bounded.DecodeCount(bitstream.NewBytesReader(data), nil)
			req.NoError(err)
			req.True(res.Count <= 7)
			if want != 0 && want <= 7 {
				req.Equal(int32(want), res.Count)
				req.False(res.HitBound)
			} else {
				req.Equal(int32(7), res.Count)
				req.True(res.HitBound)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	req := require.New(t)

	for _, term := range []uint8{0, 1} {
		c := newCounter(t, codec.RepeatingBitCounterConfig{TerminateBit: term}, nil)

		for n := int32(1); n <= 300; n++ {
			buf := bytes.NewBuffer(nil)
			w := bitstream.NewWriter(buf)
			req.NoError(c.Encode(n, w, nil))
			req.Equal(uint64(n), w.Position())
			req.NoError(w.Flush(bitstream.Zero))

			v, err := c.Decode(bitstream.NewBytesReader(buf.Bytes()), nil, nil)
			req.NoError(err)
			req.Equal(n, v)
		}
	}
}

func TestRoundTripBounded(t *testing.T) {
	req := require.New(t)

	values := expr.MapResolver{"limit": 10}
	c := newCounter(t, codec.RepeatingBitCounterConfig{MaxCount: "limit"}, values)

	for n := int32(1); n <= 10; n++ {
		buf := bytes.NewBuffer(nil)
		w := bitstream.NewWriter(buf)
		req.NoError(c.Encode(n, w, values))
		req.NoError(w.Flush(bitstream.One))

		v, err := c.Decode(bitstream.NewBytesReader(buf.Bytes()), values, nil)
		req.NoError(err)
		req.Equal(n, v)
	}

	err := c.Encode(int32(11), bitstream.NewWriter(bytes.NewBuffer(nil)), values)
	req.True(errors.Is(err, codec.ErrUnencodable))
}

func TestEncodeExact(t *testing.T) {
	req := require.New(t)

	// 110 with terminator 0, padded with 1s.
	buf := bytes.NewBuffer(nil)
	w := bitstream.NewWriter(buf)
	req.NoError(newCounter(t, nil, nil).Encode(int32(3), w, nil))
	req.NoError(w.Flush(bitstream.One))
	req.Equal([]byte{0xDF}, buf.Bytes())

	// 0001 with terminator 1, padded with 0s.
	buf.Reset()
	w = bitstream.NewWriter(buf)
	req.NoError(newCounter(t, codec.RepeatingBitCounterConfig{TerminateBit: 1}, nil).Encode(int32(4), w, nil))
	req.NoError(w.Flush(bitstream.Zero))
	req.Equal([]byte{0x10}, buf.Bytes())
}

func TestEncodeErrors(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, nil, nil)
	w := bitstream.NewWriter(bytes.NewBuffer(nil))

	err := c.Encode(int32(0), w, nil)
	req.True(errors.Is(err, codec.ErrUnencodable))
	err = c.Encode(int32(-4), w, nil)
	req.True(errors.Is(err, codec.ErrUnencodable))
	err = c.Encode(int64(4), w, nil)
	req.True(errors.Is(err, codec.ErrInvalidValue))
	err = c.Encode(nil, w, nil)
	req.True(errors.Is(err, codec.ErrInvalidValue))
	req.Zero(w.Position())

	err = c.Encode(int32(9), bitstream.NewWriter(&badWriter{}), nil)
	req.Equal(errBadWriter, err)
}

func TestConcurrentDecode(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, codec.RepeatingBitCounterConfig{}, nil)
	inputs := [][]byte{{0x04}, {0x84}, {0xC4}, {0xE4}, {0xF0}, {0xF8}, {0xFC}, {0xFE}}

	var wg sync.WaitGroup
	results := make([][]int32, len(inputs))
	for i := range inputs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				v, err := c.Decode(bitstream.NewBytesReader(inputs[i]), nil, nil)
				if err != nil {
					return
				}
				results[i] = append(results[i], v.(int32))
			}
		}(i)
	}
	wg.Wait()

	for i, res := range results {
		req.Len(res, 200)
		for _, v := range res {
			req.Equal(int32(i+1), v)
		}
	}
}

func TestFactoryApplicability(t *testing.T) {
	req := require.New(t)
	f := codec.RepeatingBitCounterFactory{}

	// Defaults without metadata.
	c, ok, err := f.Create(nil, codec.Int32Type, nil)
	req.NoError(err)
	req.True(ok)
	counter := c.(*codec.RepeatingBitCounter)
	req.Equal(bitstream.Zero, counter.TerminateBit())
	req.Nil(counter.Size())

	// A nil config pointer behaves like no metadata.
	var nilCfg *codec.RepeatingBitCounterConfig
	_, ok, err = f.Create(nilCfg, codec.Int32Type, nil)
	req.NoError(err)
	req.True(ok)

	// Wrong target type.
	c, ok, err = f.Create(codec.RepeatingBitCounterConfig{}, codec.Int64Type, nil)
	req.NoError(err)
	req.False(ok)
	req.Nil(c)

	// Other metadata.
	c, ok, err = f.Create(codec.NumberConfig{Size: "8"}, codec.Int32Type, nil)
	req.NoError(err)
	req.False(ok)
	req.Nil(c)
}

func TestFactoryConfigErrors(t *testing.T) {
	req := require.New(t)
	f := codec.RepeatingBitCounterFactory{}

	_, ok, err := f.Create(codec.RepeatingBitCounterConfig{MaxCount: "5 +"}, codec.Int32Type, nil)
	req.False(ok)
	var cfgErr *codec.ConfigError
	req.True(errors.As(err, &cfgErr))
	req.Equal("max-count", cfgErr.Option)
	var syntaxErr *expr.SyntaxError
	req.True(errors.As(err, &syntaxErr))

	_, _, err = f.Create(codec.RepeatingBitCounterConfig{MaxCount: "missing"}, codec.Int32Type, expr.MapResolver{})
	req.True(errors.As(err, &syntaxErr))

	_, _, err = f.Create(codec.RepeatingBitCounterConfig{TerminateBit: 2}, codec.Int32Type, nil)
	req.True(errors.As(err, &cfgErr))
	req.Equal("terminate-bit", cfgErr.Option)

	// Blank expressions mean unbounded.
	c, ok, err := f.Create(codec.RepeatingBitCounterConfig{MaxCount: "  "}, codec.Int32Type, nil)
	req.NoError(err)
	req.True(ok)
	req.Nil(c.Size())
}

func TestRepeatingBitCounterDescriptor(t *testing.T) {
	req := require.New(t)

	c := newCounter(t, codec.RepeatingBitCounterConfig{MaxCount: "5", TerminateBit: 1}, nil)
	req.Equal(codec.Int32Type, c.Type())
	req.Equal("5", c.Size().String())

	d := c.Descriptor()
	req.Equal("a repeating bit counter", d.Reference(codec.A))
	req.Equal("the repeating bit counter", d.Reference(codec.The))
	req.Contains(d.Summary(), "a bit counter that increments until a terminator bit is encountered")
	req.False(d.RequiresDedicatedSection())
	req.Empty(d.Title())
	req.Equal("repeating bit counter (terminator 1, max 5)", c.String())
	req.Equal("repeating bit counter (terminator 0, unbounded)", newCounter(t, nil, nil).String())
}

type badWriter struct{}

var errBadWriter = errors.New("bad writer")

func (w *badWriter) Write(p []byte) (n int, err error) {
	return 0, errBadWriter
}
