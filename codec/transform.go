package codec

// Transform converts one field's value between its raw decoded form and a
// caller-friendly representation.
//
// Decode receives the raw value produced by the scalar unpack (for opaque
// fields, the raw byte slice of the field's exact width) and returns the
// replacement value. Encode is the inverse: it receives the caller's value
// and must return something the scalar pack accepts; for opaque fields the
// result must be exactly the field's width.
//
// A *Codec is a Transform, which nests one record layout inside an opaque
// field of another.
type Transform interface {
	Decode(raw any) (any, error)
	Encode(value any) (any, error)
}

// DecodeFunc and EncodeFunc are the two halves of a function-based
// Transform.
type (
	DecodeFunc func(raw any) (any, error)
	EncodeFunc func(value any) (any, error)
)

type funcTransform struct {
	decode DecodeFunc
	encode EncodeFunc
}

func (t funcTransform) Decode(raw any) (any, error) {
	if t.decode == nil {
		return raw, nil
	}

	return t.decode(raw)
}

func (t funcTransform) Encode(value any) (any, error) {
	if t.encode == nil {
		return value, nil
	}

	return t.encode(value)
}

// Funcs builds a Transform from a decode/encode function pair. Either
// function may be nil, in which case that direction passes the value
// through unchanged.
func Funcs(decode DecodeFunc, encode EncodeFunc) Transform {
	return funcTransform{decode: decode, encode: encode}
}
