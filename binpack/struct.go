package binpack

import (
	"fmt"
	"math"

	"github.com/retrofmt/gamerec/endian"
	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
)

// element is one parsed format fragment: a repeat count and an element tag.
type element struct {
	count int
	tag   format.Tag
}

// size returns the total byte width of the element.
func (e element) size() int {
	return e.count * e.tag.UnitSize()
}

// Struct is a compiled format string bound to a byte order. It packs and
// unpacks a fixed-length byte buffer to and from one value per non-padding
// element.
//
// A Struct is immutable after New and safe for concurrent use.
type Struct struct {
	format   string
	marker   byte
	engine   endian.EndianEngine
	elements []element
	size     int
	numVals  int
}

// New parses a format string and returns a Struct bound to its byte order.
//
// The format may start with a byte-order marker ('@', '=', '<', '>', '!');
// without one the host byte order is used.
//
// Returns:
//   - *Struct: Compiled format ready for Pack/Unpack
//   - error: errs.ErrBadFormat, errs.ErrUnknownType or errs.ErrBadByteOrder
//     on malformed input
func New(fmtStr string) (*Struct, error) {
	s := &Struct{
		format: fmtStr,
		marker: format.OrderNative,
	}

	rest := fmtStr
	if len(rest) > 0 && format.ValidOrder(rest[0]) {
		s.marker = rest[0]
		rest = rest[1:]
	}

	engine, err := endian.EngineForMarker(s.marker)
	if err != nil {
		return nil, err
	}
	s.engine = engine

	for i := 0; i < len(rest); {
		count := 1
		hasCount := false
		start := i
		for i < len(rest) && rest[i] >= '0' && rest[i] <= '9' {
			i++
		}
		if i > start {
			hasCount = true
			count = 0
			for _, c := range []byte(rest[start:i]) {
				count = count*10 + int(c-'0')
				if count > math.MaxInt32 {
					return nil, fmt.Errorf("%w: count overflow in %q", errs.ErrBadFormat, fmtStr)
				}
			}
		}
		if i >= len(rest) {
			return nil, fmt.Errorf("%w: trailing count in %q", errs.ErrBadFormat, fmtStr)
		}

		tag := format.Tag(rest[i])
		i++
		if !tag.Valid() {
			return nil, fmt.Errorf("%w: %q in format %q", errs.ErrUnknownType, string(tag), fmtStr)
		}
		// Zero-width elements would let two layout fields occupy the same
		// offset; reject them outright.
		if hasCount && count == 0 {
			return nil, fmt.Errorf("%w: zero repeat count in %q", errs.ErrBadFormat, fmtStr)
		}

		s.elements = append(s.elements, element{count: count, tag: tag})
		s.size += count * tag.UnitSize()
		if tag != format.TagPadding {
			s.numVals++
		}
	}

	return s, nil
}

// CalcSize returns the total byte size of a format string.
func CalcSize(fmtStr string) (int, error) {
	s, err := New(fmtStr)
	if err != nil {
		return 0, err
	}

	return s.Size(), nil
}

// Format returns the original format string.
func (s *Struct) Format() string { return s.format }

// Marker returns the byte-order marker the Struct is bound to.
func (s *Struct) Marker() byte { return s.marker }

// Engine returns the endian engine the Struct encodes with.
func (s *Struct) Engine() endian.EndianEngine { return s.engine }

// Size returns the total byte length of a packed buffer.
func (s *Struct) Size() int { return s.size }

// NumValues returns the number of values Unpack produces and Pack consumes.
// Padding elements carry no value.
func (s *Struct) NumValues() int { return s.numVals }

// Unpack decodes data into one value per non-padding element, in format
// order.
//
// Value types are determined by the element tag: sized integers, float32,
// float64, bool, byte for char, and []byte for string kinds. Scalar
// elements with a repeat count decode to a slice of that length.
//
// Returns:
//   - []any: Decoded values, newly allocated, never aliasing data
//   - error: errs.ErrLengthMismatch if len(data) != Size()
func (s *Struct) Unpack(data []byte) ([]any, error) {
	if len(data) != s.size {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", errs.ErrLengthMismatch, len(data), s.size)
	}

	vals := make([]any, 0, s.numVals)
	off := 0
	for _, e := range s.elements {
		if e.tag == format.TagPadding {
			off += e.count
			continue
		}

		v, n := s.decode(e, data[off:])
		vals = append(vals, v)
		off += n
	}

	return vals, nil
}

// decode reads one element's value from buf and returns it with the number
// of bytes consumed.
func (s *Struct) decode(e element, buf []byte) (any, int) {
	width := e.size()

	switch e.tag {
	case format.TagBytes:
		v := make([]byte, e.count)
		copy(v, buf[:e.count])

		return v, width
	case format.TagPascal:
		n := int(buf[0])
		if n > e.count-1 {
			n = e.count - 1
		}
		v := make([]byte, n)
		copy(v, buf[1:1+n])

		return v, width
	case format.TagChar:
		if e.count == 1 {
			return buf[0], width
		}
		v := make([]byte, e.count)
		copy(v, buf[:e.count])

		return v, width
	}

	if e.count == 1 {
		return s.decodeScalar(e.tag, buf), width
	}

	unit := e.tag.UnitSize()
	switch e.tag {
	case format.TagUint8:
		v := make([]uint8, e.count)
		copy(v, buf[:e.count])

		return v, width
	case format.TagInt8:
		v := make([]int8, e.count)
		for i := range v {
			v[i] = int8(buf[i])
		}

		return v, width
	case format.TagUint16:
		v := make([]uint16, e.count)
		for i := range v {
			v[i] = s.engine.Uint16(buf[i*unit:])
		}

		return v, width
	case format.TagInt16:
		v := make([]int16, e.count)
		for i := range v {
			v[i] = int16(s.engine.Uint16(buf[i*unit:]))
		}

		return v, width
	case format.TagUint32:
		v := make([]uint32, e.count)
		for i := range v {
			v[i] = s.engine.Uint32(buf[i*unit:])
		}

		return v, width
	case format.TagInt32:
		v := make([]int32, e.count)
		for i := range v {
			v[i] = int32(s.engine.Uint32(buf[i*unit:]))
		}

		return v, width
	case format.TagUint64:
		v := make([]uint64, e.count)
		for i := range v {
			v[i] = s.engine.Uint64(buf[i*unit:])
		}

		return v, width
	case format.TagInt64:
		v := make([]int64, e.count)
		for i := range v {
			v[i] = int64(s.engine.Uint64(buf[i*unit:]))
		}

		return v, width
	case format.TagFloat:
		v := make([]float32, e.count)
		for i := range v {
			v[i] = math.Float32frombits(s.engine.Uint32(buf[i*unit:]))
		}

		return v, width
	case format.TagDouble:
		v := make([]float64, e.count)
		for i := range v {
			v[i] = math.Float64frombits(s.engine.Uint64(buf[i*unit:]))
		}

		return v, width
	case format.TagBool:
		v := make([]bool, e.count)
		for i := range v {
			v[i] = buf[i] != 0
		}

		return v, width
	}

	return nil, width
}

func (s *Struct) decodeScalar(tag format.Tag, buf []byte) any {
	switch tag {
	case format.TagUint8:
		return buf[0]
	case format.TagInt8:
		return int8(buf[0])
	case format.TagUint16:
		return s.engine.Uint16(buf)
	case format.TagInt16:
		return int16(s.engine.Uint16(buf))
	case format.TagUint32:
		return s.engine.Uint32(buf)
	case format.TagInt32:
		return int32(s.engine.Uint32(buf))
	case format.TagUint64:
		return s.engine.Uint64(buf)
	case format.TagInt64:
		return int64(s.engine.Uint64(buf))
	case format.TagFloat:
		return math.Float32frombits(s.engine.Uint32(buf))
	case format.TagDouble:
		return math.Float64frombits(s.engine.Uint64(buf))
	case format.TagBool:
		return buf[0] != 0
	default:
		return nil
	}
}

// Pack encodes one value per non-padding element into a fixed-length
// buffer.
//
// Integer elements accept their exact sized type plus int or uint values in
// range. Byte string elements accept []byte or string; values shorter than
// the declared width are zero-padded, longer ones fail.
//
// Returns:
//   - []byte: Packed buffer of exactly Size() bytes
//   - error: errs.ErrBadValueType, errs.ErrWidthMismatch, or a count
//     mismatch wrapping errs.ErrMissingField semantics at the caller level
func (s *Struct) Pack(values []any) ([]byte, error) {
	if len(values) != s.numVals {
		return nil, fmt.Errorf("%w: got %d values, want %d", errs.ErrBadValueType, len(values), s.numVals)
	}

	buf := make([]byte, 0, s.size)
	vi := 0
	for i, e := range s.elements {
		if e.tag == format.TagPadding {
			buf = append(buf, make([]byte, e.count)...)
			continue
		}

		var err error
		buf, err = s.encode(buf, e, values[vi])
		if err != nil {
			return nil, fmt.Errorf("element %d (%s): %w", i, e.tag, err)
		}
		vi++
	}

	return buf, nil
}

// encode appends one element's value and returns the extended buffer.
func (s *Struct) encode(buf []byte, e element, value any) ([]byte, error) {
	switch e.tag {
	case format.TagBytes:
		b, err := asBytes(value)
		if err != nil {
			return nil, err
		}
		if len(b) > e.count {
			return nil, fmt.Errorf("%w: %d bytes into %d", errs.ErrWidthMismatch, len(b), e.count)
		}
		buf = append(buf, b...)

		return append(buf, make([]byte, e.count-len(b))...), nil
	case format.TagPascal:
		b, err := asBytes(value)
		if err != nil {
			return nil, err
		}
		if len(b) > e.count-1 || len(b) > 255 {
			return nil, fmt.Errorf("%w: %d bytes into pascal_string[%d]", errs.ErrWidthMismatch, len(b), e.count)
		}
		buf = append(buf, byte(len(b)))
		buf = append(buf, b...)

		return append(buf, make([]byte, e.count-1-len(b))...), nil
	case format.TagChar:
		if e.count == 1 {
			switch v := value.(type) {
			case byte:
				return append(buf, v), nil
			case []byte:
				if len(v) != 1 {
					return nil, fmt.Errorf("%w: %d bytes into char", errs.ErrWidthMismatch, len(v))
				}

				return append(buf, v[0]), nil
			default:
				return nil, fmt.Errorf("%w: %T for char", errs.ErrBadValueType, value)
			}
		}
		b, err := asBytes(value)
		if err != nil {
			return nil, err
		}
		if len(b) != e.count {
			return nil, fmt.Errorf("%w: %d bytes into char[%d]", errs.ErrWidthMismatch, len(b), e.count)
		}

		return append(buf, b...), nil
	}

	if e.count == 1 {
		return s.encodeScalar(buf, e.tag, value)
	}

	return s.encodeSlice(buf, e, value)
}

func (s *Struct) encodeScalar(buf []byte, tag format.Tag, value any) ([]byte, error) {
	switch tag {
	case format.TagUint8, format.TagInt8, format.TagUint16, format.TagInt16,
		format.TagUint32, format.TagInt32, format.TagUint64, format.TagInt64:
		u, err := asUint64(tag, value)
		if err != nil {
			return nil, err
		}
		switch tag.UnitSize() {
		case 1:
			return append(buf, byte(u)), nil
		case 2:
			return s.engine.AppendUint16(buf, uint16(u)), nil
		case 4:
			return s.engine.AppendUint32(buf, uint32(u)), nil
		default:
			return s.engine.AppendUint64(buf, u), nil
		}
	case format.TagFloat:
		switch v := value.(type) {
		case float32:
			return s.engine.AppendUint32(buf, math.Float32bits(v)), nil
		case float64:
			return s.engine.AppendUint32(buf, math.Float32bits(float32(v))), nil
		default:
			return nil, fmt.Errorf("%w: %T for float", errs.ErrBadValueType, value)
		}
	case format.TagDouble:
		v, ok := value.(float64)
		if !ok {
			return nil, fmt.Errorf("%w: %T for double", errs.ErrBadValueType, value)
		}

		return s.engine.AppendUint64(buf, math.Float64bits(v)), nil
	case format.TagBool:
		v, ok := value.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: %T for bool", errs.ErrBadValueType, value)
		}
		if v {
			return append(buf, 1), nil
		}

		return append(buf, 0), nil
	default:
		return nil, fmt.Errorf("%w: %T for %s", errs.ErrBadValueType, value, tag)
	}
}

// encodeSlice encodes a repeated scalar element. The value must be a slice
// of the element's exact Go type, or []any with coercible elements.
func (s *Struct) encodeSlice(buf []byte, e element, value any) ([]byte, error) {
	if vs, ok := value.([]any); ok {
		if len(vs) != e.count {
			return nil, fmt.Errorf("%w: %d elements into %d", errs.ErrWidthMismatch, len(vs), e.count)
		}
		var err error
		for _, v := range vs {
			if buf, err = s.encodeScalar(buf, e.tag, v); err != nil {
				return nil, err
			}
		}

		return buf, nil
	}

	n, elem := sliceElems(value)
	if n < 0 {
		return nil, fmt.Errorf("%w: %T for %s[%d]", errs.ErrBadValueType, value, e.tag, e.count)
	}
	if n != e.count {
		return nil, fmt.Errorf("%w: %d elements into %d", errs.ErrWidthMismatch, n, e.count)
	}
	var err error
	for i := 0; i < n; i++ {
		if buf, err = s.encodeScalar(buf, e.tag, elem(i)); err != nil {
			return nil, err
		}
	}

	return buf, nil
}

// sliceElems returns the length of a supported typed slice and an accessor
// for its elements, or -1 when the value is not a supported slice.
func sliceElems(value any) (int, func(int) any) {
	switch v := value.(type) {
	case []uint8:
		return len(v), func(i int) any { return v[i] }
	case []int8:
		return len(v), func(i int) any { return v[i] }
	case []uint16:
		return len(v), func(i int) any { return v[i] }
	case []int16:
		return len(v), func(i int) any { return v[i] }
	case []uint32:
		return len(v), func(i int) any { return v[i] }
	case []int32:
		return len(v), func(i int) any { return v[i] }
	case []uint64:
		return len(v), func(i int) any { return v[i] }
	case []int64:
		return len(v), func(i int) any { return v[i] }
	case []int:
		return len(v), func(i int) any { return v[i] }
	case []float32:
		return len(v), func(i int) any { return v[i] }
	case []float64:
		return len(v), func(i int) any { return v[i] }
	case []bool:
		return len(v), func(i int) any { return v[i] }
	default:
		return -1, nil
	}
}

func asBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("%w: %T for byte string", errs.ErrBadValueType, value)
	}
}

// asUint64 coerces an integer value into the two's-complement bit pattern
// for the given tag, range-checking against the tag's width and signedness.
func asUint64(tag format.Tag, value any) (uint64, error) {
	var (
		u      uint64
		neg    bool
		signed bool
	)

	switch tag {
	case format.TagInt8, format.TagInt16, format.TagInt32, format.TagInt64:
		signed = true
	}

	switch v := value.(type) {
	case uint8:
		u = uint64(v)
	case uint16:
		u = uint64(v)
	case uint32:
		u = uint64(v)
	case uint64:
		u = v
	case uint:
		u = uint64(v)
	case int8:
		u, neg = fromInt64(int64(v))
	case int16:
		u, neg = fromInt64(int64(v))
	case int32:
		u, neg = fromInt64(int64(v))
	case int64:
		u, neg = fromInt64(v)
	case int:
		u, neg = fromInt64(int64(v))
	default:
		return 0, fmt.Errorf("%w: %T for %s", errs.ErrBadValueType, value, tag)
	}

	bits := uint(tag.UnitSize() * 8)
	if signed {
		max := uint64(1)<<(bits-1) - 1
		if neg {
			// Minimum magnitude is max+1 for two's complement.
			if u-1 > max {
				return 0, fmt.Errorf("%w: %v out of range for %s", errs.ErrBadValueType, value, tag)
			}
		} else if u > max {
			return 0, fmt.Errorf("%w: %v out of range for %s", errs.ErrBadValueType, value, tag)
		}
	} else {
		if neg {
			return 0, fmt.Errorf("%w: negative value for %s", errs.ErrBadValueType, tag)
		}
		if bits < 64 && u > uint64(1)<<bits-1 {
			return 0, fmt.Errorf("%w: %v out of range for %s", errs.ErrBadValueType, value, tag)
		}
	}

	if neg {
		u = -u
	}
	if bits < 64 {
		u &= uint64(1)<<bits - 1
	}

	return u, nil
}

// fromInt64 splits a signed value into magnitude and sign.
func fromInt64(v int64) (uint64, bool) {
	if v < 0 {
		return uint64(-v), true
	}

	return uint64(v), false
}
