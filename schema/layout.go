package schema

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/retrofmt/gamerec/binpack"
	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
)

// PaddingPrefix marks write-only placeholder fields. Fields whose name
// starts with this prefix participate in the byte format but are never
// surfaced in decoded records and never required when packing.
const PaddingPrefix = "padding"

// Field is one named entry in a Layout: a field name plus its compact
// size-and-type code, e.g. ("name", "16s") or ("score", "I").
type Field struct {
	// Name is the field name, unique within a layout.
	Name string

	// SizeAndType is the element format fragment: an optional repeat count
	// followed by a one-character type tag.
	SizeAndType string

	// CustomType holds the user-defined type keyword for fields declared
	// with a non-elementary type. Empty for elementary fields.
	CustomType string

	// Comment is the trailing source comment, kept for human readability
	// when layouts are printed. It has no effect on the byte format.
	Comment string
}

// IsPadding reports whether the field is a write-only placeholder.
func (f Field) IsPadding() bool {
	return strings.HasPrefix(f.Name, PaddingPrefix)
}

// Tag returns the field's element type tag.
func (f Field) Tag() format.Tag {
	if f.SizeAndType == "" {
		return 0
	}

	return format.Tag(f.SizeAndType[len(f.SizeAndType)-1])
}

// Count returns the field's repeat count (1 when the declaration carried
// no count).
func (f Field) Count() int {
	n := 0
	seen := false
	for i := 0; i < len(f.SizeAndType)-1; i++ {
		c := f.SizeAndType[i]
		if c < '0' || c > '9' {
			return 1
		}
		n = n*10 + int(c-'0')
		seen = true
	}
	if !seen {
		return 1
	}

	return n
}

// Size returns the field's total byte width.
func (f Field) Size() (int, error) {
	return binpack.CalcSize(f.SizeAndType)
}

// Layout is the compiled, ordered, immutable description of a fixed-size
// binary record: its fields, their element formats, and the byte order.
type Layout struct {
	order  byte
	fields []Field
	index  map[string]int
	fmtStr string
	size   int
}

// FromFields builds a Layout from a pre-built ordered field list and a
// byte-order marker. This is the programmatic alternative to compiling
// layout text.
//
// Returns:
//   - *Layout: Validated layout
//   - error: errs.ErrBadByteOrder, errs.ErrEmptyLayout,
//     errs.ErrDuplicateField, or format validation errors
func FromFields(order byte, fields []Field) (*Layout, error) {
	if !format.ValidOrder(order) {
		return nil, fmt.Errorf("%w: %q", errs.ErrBadByteOrder, string(order))
	}
	if len(fields) == 0 {
		return nil, errs.ErrEmptyLayout
	}

	l := &Layout{
		order:  order,
		fields: make([]Field, len(fields)),
		index:  make(map[string]int, len(fields)),
	}
	copy(l.fields, fields)

	var sb strings.Builder
	sb.WriteByte(order)
	for i, f := range l.fields {
		if _, dup := l.index[f.Name]; dup {
			return nil, fmt.Errorf("%w: %q", errs.ErrDuplicateField, f.Name)
		}
		l.index[f.Name] = i
		sb.WriteString(f.SizeAndType)
	}
	l.fmtStr = sb.String()

	// The scalar pack facility is the authoritative validator of the
	// assembled format string and of the record's total byte length.
	s, err := binpack.New(l.fmtStr)
	if err != nil {
		return nil, err
	}
	l.size = s.Size()

	return l, nil
}

// ByteOrder returns the layout's byte-order marker.
func (l *Layout) ByteOrder() byte { return l.order }

// Fields returns the layout's fields in on-disk order. The returned slice
// must not be modified.
func (l *Layout) Fields() []Field { return l.fields }

// NumFields returns the number of fields, padding included.
func (l *Layout) NumFields() int { return len(l.fields) }

// Field returns the named field.
func (l *Layout) Field(name string) (Field, bool) {
	i, ok := l.index[name]
	if !ok {
		return Field{}, false
	}

	return l.fields[i], true
}

// Format returns the elementary format string, byte-order marker included.
func (l *Layout) Format() string { return l.fmtStr }

// Size returns the record's total byte length.
func (l *Layout) Size() int { return l.size }

// Fingerprint returns a 64-bit xxHash over the layout's byte order, field
// names and element formats. Two layouts with equal fingerprints encode
// records identically, which makes it a cheap equality check for layouts
// built through different grammars.
func (l *Layout) Fingerprint() uint64 {
	d := xxhash.New()
	_, _ = d.Write([]byte{l.order})
	for _, f := range l.fields {
		_, _ = d.WriteString(f.Name)
		_, _ = d.WriteString("\x00")
		_, _ = d.WriteString(f.SizeAndType)
		_, _ = d.WriteString("\x00")
	}

	return d.Sum64()
}
