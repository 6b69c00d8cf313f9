package codec

import (
	"fmt"

	"github.com/Velocidex/ordereddict"

	"github.com/retrofmt/gamerec/binpack"
	"github.com/retrofmt/gamerec/compress"
	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
	"github.com/retrofmt/gamerec/internal/options"
	"github.com/retrofmt/gamerec/schema"
)

// Codec packs and unpacks fixed-length binary records described by a
// compiled Layout.
//
// The Codec is immutable after construction and safe for concurrent use:
// Pack and Unpack hold no per-call state and never mutate the layout. A
// failed call leaves the Codec unchanged.
type Codec struct {
	layout     *schema.Layout
	strct      *binpack.Struct
	transforms map[string]Transform
	widths     map[string]int
	comp       compress.Codec
}

var _ Transform = (*Codec)(nil)

// New compiles plain-grammar layout text and binds a Codec to it.
//
// Returns:
//   - *Codec: Codec bound to the compiled layout
//   - error: Layout compilation errors, or option errors
func New(layoutText string, opts ...Option) (*Codec, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	layout, err := schema.Compile(layoutText)
	if err != nil {
		return nil, err
	}

	return build(layout, cfg)
}

// NewFromOffsets compiles offset-grammar layout text and binds a Codec to
// it. Gaps between declared offsets become synthetic "unknown" fields; see
// schema.LowerOffsets.
func NewFromOffsets(layoutText string, opts ...Option) (*Codec, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	layout, err := schema.CompileOffsets(layoutText)
	if err != nil {
		return nil, err
	}

	return build(layout, cfg)
}

// NewFromFields binds a Codec to a pre-built ordered field list, the
// programmatic alternative to layout text.
func NewFromFields(order byte, fields []schema.Field, opts ...Option) (*Codec, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	layout, err := schema.FromFields(order, fields)
	if err != nil {
		return nil, err
	}

	return build(layout, cfg)
}

func build(layout *schema.Layout, cfg *config) (*Codec, error) {
	if cfg.order != 0 && cfg.order != layout.ByteOrder() {
		relaid, err := schema.FromFields(cfg.order, layout.Fields())
		if err != nil {
			return nil, err
		}
		layout = relaid
	}

	strct, err := binpack.New(layout.Format())
	if err != nil {
		return nil, err
	}

	c := &Codec{
		layout:     layout,
		strct:      strct,
		transforms: make(map[string]Transform),
		widths:     make(map[string]int),
	}

	for _, f := range layout.Fields() {
		width, err := binpack.CalcSize(f.SizeAndType)
		if err != nil {
			return nil, err
		}
		c.widths[f.Name] = width

		if t, ok := cfg.fields[f.Name]; ok {
			c.transforms[f.Name] = t
			continue
		}
		if f.CustomType != "" {
			if t, ok := cfg.types[f.CustomType]; ok {
				c.transforms[f.Name] = t
			}
			// Unregistered user-defined types keep their raw bytes.
		}
	}

	if cfg.compression != format.CompressionNone {
		comp, err := compress.CreateCodec(cfg.compression, "record")
		if err != nil {
			return nil, err
		}
		c.comp = comp
	}

	return c, nil
}

// Layout returns the compiled layout the Codec is bound to.
func (c *Codec) Layout() *schema.Layout { return c.layout }

// Size returns the record's total byte length (before compression).
func (c *Codec) Size() int { return c.strct.Size() }

// Format returns the elementary format string, byte-order marker included.
func (c *Codec) Format() string { return c.layout.Format() }

// Unpack decodes a record buffer into an ordered field-name-to-value
// mapping.
//
// The buffer must be exactly Size() bytes (after decompression when the
// Codec was built with compression). Padding fields are consumed but not
// surfaced. Fields with a registered transform carry the transform's
// decoded value instead of the raw one.
//
// Returns:
//   - *ordereddict.Dict: Decoded record, iteration follows field order
//   - error: errs.ErrLengthMismatch on a wrong-sized buffer,
//     decompression errors, or transform errors annotated with the field
func (c *Codec) Unpack(data []byte) (*ordereddict.Dict, error) {
	if c.comp != nil {
		decompressed, err := c.comp.Decompress(data)
		if err != nil {
			return nil, err
		}
		data = decompressed
	}

	vals, err := c.strct.Unpack(data)
	if err != nil {
		return nil, err
	}

	rec := ordereddict.NewDict()
	vi := 0
	for _, f := range c.layout.Fields() {
		if f.Tag() == format.TagPadding {
			continue
		}
		v := vals[vi]
		vi++

		if f.IsPadding() {
			continue
		}

		if t, ok := c.transforms[f.Name]; ok {
			v, err = t.Decode(v)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
		}
		rec.Set(f.Name, v)
	}

	return rec, nil
}

// Pack encodes a field-name-to-value mapping into a fixed-length record
// buffer.
//
// Every non-padding field must be present in rec; extra keys are ignored.
// Fields with a registered transform are encoded through it first, and for
// opaque (byte string) fields the encoded result must be exactly the
// field's declared width.
//
// Returns:
//   - []byte: Packed record of exactly Size() bytes (then compressed when
//     the Codec was built with compression)
//   - error: errs.ErrMissingField, errs.ErrWidthMismatch,
//     errs.ErrBadValueType, or transform errors annotated with the field
func (c *Codec) Pack(rec *ordereddict.Dict) ([]byte, error) {
	vals := make([]any, 0, c.strct.NumValues())

	for _, f := range c.layout.Fields() {
		if f.Tag() == format.TagPadding {
			continue
		}
		if f.IsPadding() {
			// Padding-named fields of a non-padding type still occupy a
			// value slot; they are filled with zeroes, never taken from
			// the caller.
			vals = append(vals, zeroValue(f))
			continue
		}

		v, ok := rec.Get(f.Name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", errs.ErrMissingField, f.Name)
		}

		if t, reg := c.transforms[f.Name]; reg {
			encoded, err := t.Encode(v)
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", f.Name, err)
			}
			if f.Tag() == format.TagBytes {
				b, ok := encoded.([]byte)
				if !ok {
					if s, isStr := encoded.(string); isStr {
						b = []byte(s)
					} else {
						return nil, fmt.Errorf("field %q: %w: transform returned %T, want bytes",
							f.Name, errs.ErrBadValueType, encoded)
					}
				}
				if len(b) != c.widths[f.Name] {
					return nil, fmt.Errorf("field %q: %w: transform returned %d bytes, want %d",
						f.Name, errs.ErrWidthMismatch, len(b), c.widths[f.Name])
				}
				encoded = b
			}
			v = encoded
		}

		vals = append(vals, v)
	}

	out, err := c.strct.Pack(vals)
	if err != nil {
		return nil, err
	}

	if c.comp != nil {
		return c.comp.Compress(out)
	}

	return out, nil
}

// Decode implements Transform, letting this Codec decode an opaque
// sub-field of an enclosing layout. The raw value must be the sub-field's
// byte slice.
func (c *Codec) Decode(raw any) (any, error) {
	b, ok := raw.([]byte)
	if !ok {
		return nil, fmt.Errorf("%w: nested codec needs bytes, got %T", errs.ErrBadValueType, raw)
	}

	return c.Unpack(b)
}

// Encode implements Transform, packing a nested record back into the
// enclosing layout's opaque sub-field.
func (c *Codec) Encode(value any) (any, error) {
	rec, ok := value.(*ordereddict.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: nested codec needs a record, got %T", errs.ErrBadValueType, value)
	}

	return c.Pack(rec)
}

// zeroValue builds the zero value a padding-named, non-padding-typed field
// contributes to the scalar pack.
func zeroValue(f schema.Field) any {
	tag := f.Tag()
	count := f.Count()

	if tag.ByteLength() {
		switch {
		case tag == format.TagChar && count == 1:
			return byte(0)
		case tag == format.TagChar:
			return make([]byte, count)
		default:
			return []byte{} // zero-padded up to width by the scalar pack
		}
	}

	if count == 1 {
		switch tag {
		case format.TagFloat:
			return float32(0)
		case format.TagDouble:
			return float64(0)
		case format.TagBool:
			return false
		default:
			return 0
		}
	}

	vs := make([]any, count)
	for i := range vs {
		switch tag {
		case format.TagFloat:
			vs[i] = float32(0)
		case format.TagDouble:
			vs[i] = float64(0)
		case format.TagBool:
			vs[i] = false
		default:
			vs[i] = 0
		}
	}

	return vs
}
