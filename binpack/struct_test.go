package binpack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrofmt/gamerec/errs"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		size    int
		numVals int
	}{
		{"single scalar", "I", 4, 1},
		{"marker only prefix", "<I", 4, 1},
		{"mixed", "<I16s6s", 26, 3},
		{"repeat scalar", ">4H", 8, 1},
		{"padding", "<I4xB", 9, 2},
		{"pascal", "<8p", 8, 1},
		{"all widths", "<bBhHiIlLfd?c", 1 + 1 + 2 + 2 + 4 + 4 + 8 + 8 + 4 + 8 + 1 + 1, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(tt.format)
			require.NoError(t, err)
			require.Equal(t, tt.size, s.Size())
			require.Equal(t, tt.numVals, s.NumValues())
			require.Equal(t, tt.format, s.Format())
		})
	}
}

func TestNewErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   error
	}{
		{"unknown tag", "<Iz", errs.ErrUnknownType},
		{"trailing count", "<I16", errs.ErrBadFormat},
		{"zero scalar repeat", "<0I", errs.ErrBadFormat},
		{"zero-width string", "<0s", errs.ErrBadFormat},
		{"zero-width padding", "<0x", errs.ErrBadFormat},
		{"empty pascal", "<0p", errs.ErrBadFormat},
		{"marker mid-format", "<I<H", errs.ErrUnknownType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.format)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCalcSize(t *testing.T) {
	size, err := CalcSize("16s")
	require.NoError(t, err)
	require.Equal(t, 16, size)

	size, err = CalcSize("4I")
	require.NoError(t, err)
	require.Equal(t, 16, size)

	_, err = CalcSize("4q")
	require.ErrorIs(t, err, errs.ErrUnknownType)
}

func TestPackUnpackScalars(t *testing.T) {
	s, err := New("<bBhHiIlLfd?c")
	require.NoError(t, err)

	in := []any{
		int8(-5), uint8(250), int16(-1234), uint16(54321),
		int32(-123456), uint32(0xDEADBEEF), int64(-1 << 40), uint64(1) << 60,
		float32(1.5), 2.25, true, byte('A'),
	}

	packed, err := s.Pack(in)
	require.NoError(t, err)
	require.Len(t, packed, s.Size())

	out, err := s.Unpack(packed)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestPackUnpackByteOrder(t *testing.T) {
	little, err := New("<IH")
	require.NoError(t, err)
	big, err := New(">IH")
	require.NoError(t, err)

	vals := []any{uint32(0x01020304), uint16(0x0506)}

	lb, err := little.Pack(vals)
	require.NoError(t, err)
	bb, err := big.Pack(vals)
	require.NoError(t, err)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0x06, 0x05}, lb)
	require.Equal(t, []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06}, bb)
	require.NotEqual(t, lb, bb)

	// Each buffer decodes correctly only under its own byte order.
	fromLittle, err := little.Unpack(lb)
	require.NoError(t, err)
	require.Equal(t, vals, fromLittle)

	crossed, err := big.Unpack(lb)
	require.NoError(t, err)
	require.NotEqual(t, vals, crossed)
}

func TestPackUnpackRepeats(t *testing.T) {
	s, err := New("<4H2d3?")
	require.NoError(t, err)

	in := []any{
		[]uint16{1, 2, 3, 65535},
		[]float64{0.5, -0.5},
		[]bool{true, false, true},
	}

	packed, err := s.Pack(in)
	require.NoError(t, err)

	out, err := s.Unpack(packed)
	require.NoError(t, err)
	require.Equal(t, in, out)
}

func TestPackUnpackStrings(t *testing.T) {
	s, err := New("<8s8p4c")
	require.NoError(t, err)

	packed, err := s.Pack([]any{[]byte("abc"), []byte("hello"), []byte("WXYZ")})
	require.NoError(t, err)
	require.Equal(t, []byte("abc\x00\x00\x00\x00\x00\x05hello\x00\x00WXYZ"), packed)

	out, err := s.Unpack(packed)
	require.NoError(t, err)
	// Fixed-width strings come back zero-padded; pascal strings do not.
	require.Equal(t, []byte("abc\x00\x00\x00\x00\x00"), out[0])
	require.Equal(t, []byte("hello"), out[1])
	require.Equal(t, []byte("WXYZ"), out[2])
}

func TestPackStringAcceptsGoString(t *testing.T) {
	s, err := New("<4s")
	require.NoError(t, err)

	packed, err := s.Pack([]any{"hi"})
	require.NoError(t, err)
	require.Equal(t, []byte("hi\x00\x00"), packed)
}

func TestPackWidthErrors(t *testing.T) {
	s, err := New("<4s6p")
	require.NoError(t, err)

	_, err = s.Pack([]any{[]byte("too long"), []byte("ok")})
	require.ErrorIs(t, err, errs.ErrWidthMismatch)

	_, err = s.Pack([]any{[]byte("ok"), []byte("toolong")})
	require.ErrorIs(t, err, errs.ErrWidthMismatch)
}

func TestPackValueTypeErrors(t *testing.T) {
	s, err := New("<I")
	require.NoError(t, err)

	_, err = s.Pack([]any{"not a number"})
	require.ErrorIs(t, err, errs.ErrBadValueType)

	_, err = s.Pack([]any{-1})
	require.ErrorIs(t, err, errs.ErrBadValueType)

	_, err = s.Pack([]any{uint32(1), uint32(2)})
	require.ErrorIs(t, err, errs.ErrBadValueType)
}

func TestPackIntConvenience(t *testing.T) {
	s, err := New("<IhB")
	require.NoError(t, err)

	packed, err := s.Pack([]any{42, -3, 200})
	require.NoError(t, err)

	out, err := s.Unpack(packed)
	require.NoError(t, err)
	require.Equal(t, []any{uint32(42), int16(-3), uint8(200)}, out)
}

func TestPackRangeChecks(t *testing.T) {
	s, err := New("<B")
	require.NoError(t, err)
	_, err = s.Pack([]any{256})
	require.ErrorIs(t, err, errs.ErrBadValueType)

	s, err = New("<h")
	require.NoError(t, err)
	_, err = s.Pack([]any{40000})
	require.ErrorIs(t, err, errs.ErrBadValueType)
	_, err = s.Pack([]any{-32768})
	require.NoError(t, err)
	_, err = s.Pack([]any{-32769})
	require.ErrorIs(t, err, errs.ErrBadValueType)
}

func TestUnpackLengthMismatch(t *testing.T) {
	s, err := New("<I16s")
	require.NoError(t, err)

	_, err = s.Unpack(make([]byte, s.Size()-1))
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	_, err = s.Unpack(make([]byte, s.Size()+1))
	require.ErrorIs(t, err, errs.ErrLengthMismatch)

	_, err = s.Unpack(nil)
	require.ErrorIs(t, err, errs.ErrLengthMismatch)
}

func TestPaddingProducesNoValues(t *testing.T) {
	s, err := New("<B6xB")
	require.NoError(t, err)
	require.Equal(t, 8, s.Size())
	require.Equal(t, 2, s.NumValues())

	packed, err := s.Pack([]any{uint8(1), uint8(2)})
	require.NoError(t, err)
	require.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 2}, packed)

	out, err := s.Unpack(packed)
	require.NoError(t, err)
	require.Equal(t, []any{uint8(1), uint8(2)}, out)
}

func TestBufferRoundTrip(t *testing.T) {
	// pack(unpack(b)) == b for arbitrary buffers of the right length.
	s, err := New("<I16s2H8p3x?")
	require.NoError(t, err)

	buf := make([]byte, s.Size())
	for i := range buf {
		buf[i] = byte(i * 7)
	}
	// Keep the pascal length byte consistent with its field width, the
	// padding bytes zero, and the bool canonical: all are normalized
	// representations.
	buf[24] = 5
	buf[30] = 0 // pascal bytes past the stored length
	buf[31] = 0
	buf[s.Size()-4] = 0
	buf[s.Size()-3] = 0
	buf[s.Size()-2] = 0
	buf[s.Size()-1] = 1

	vals, err := s.Unpack(buf)
	require.NoError(t, err)

	repacked, err := s.Pack(vals)
	require.NoError(t, err)
	assert.Equal(t, buf, repacked)
}

func TestUnpackDoesNotAliasInput(t *testing.T) {
	s, err := New("<4s")
	require.NoError(t, err)

	buf := []byte("abcd")
	vals, err := s.Unpack(buf)
	require.NoError(t, err)

	buf[0] = 'X'
	require.Equal(t, []byte("abcd"), vals[0])
}

func TestEngineMatchesMarker(t *testing.T) {
	s, err := New("!H")
	require.NoError(t, err)
	require.Equal(t, byte('!'), s.Marker())

	packed, err := s.Pack([]any{uint16(0x0102)})
	require.NoError(t, err)
	require.Equal(t, []byte{0x01, 0x02}, packed)
}
