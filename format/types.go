// Package format defines the wire contract of gamerec layouts: the
// elementary type keywords and their one-character tags, the byte-order
// markers, and the payload compression types.
//
// The keyword-to-width table determines on-disk byte layout compatibility
// with existing game-resource files and must not change.
package format

// Tag is the one-character element type code used in compiled format
// strings. A format fragment is "{count}{tag}", e.g. "16s" or "4I".
type Tag byte

const (
	TagPadding Tag = 'x' // padding byte, consumed but never surfaced
	TagInt8    Tag = 'b' // signed 8-bit integer
	TagUint8   Tag = 'B' // unsigned 8-bit integer
	TagInt16   Tag = 'h' // signed 16-bit integer
	TagUint16  Tag = 'H' // unsigned 16-bit integer
	TagInt32   Tag = 'i' // signed 32-bit integer
	TagUint32  Tag = 'I' // unsigned 32-bit integer
	TagInt64   Tag = 'l' // signed 64-bit integer
	TagUint64  Tag = 'L' // unsigned 64-bit integer
	TagFloat   Tag = 'f' // IEEE 754 single precision
	TagDouble  Tag = 'd' // IEEE 754 double precision
	TagBool    Tag = '?' // single byte, zero is false
	TagChar    Tag = 'c' // single byte
	TagBytes   Tag = 's' // fixed-length byte string, count is the byte length
	TagPascal  Tag = 'p' // length-prefixed string, count is the total byte length
)

// keywords maps DSL type keywords to their element tags. Any identifier not
// in this table is a user-defined type stored as opaque bytes (TagBytes).
var keywords = map[string]Tag{
	"unknown":       TagBytes,
	"padding":       TagPadding,
	"Uint8":         TagUint8,
	"int8":          TagInt8,
	"Uint16":        TagUint16,
	"int16":         TagInt16,
	"Uint32":        TagUint32,
	"int32":         TagInt32,
	"Uint64":        TagUint64,
	"int64":         TagInt64,
	"float":         TagFloat,
	"double":        TagDouble,
	"bool":          TagBool,
	"char":          TagChar,
	"string":        TagBytes,
	"pascal_string": TagPascal,
}

// KeywordTag resolves a DSL type keyword to its element tag. The second
// return value reports whether the keyword is an elementary type.
func KeywordTag(keyword string) (Tag, bool) {
	tag, ok := keywords[keyword]
	return tag, ok
}

// Valid reports whether t is a known element tag.
func (t Tag) Valid() bool {
	switch t {
	case TagPadding, TagInt8, TagUint8, TagInt16, TagUint16, TagInt32, TagUint32,
		TagInt64, TagUint64, TagFloat, TagDouble, TagBool, TagChar, TagBytes, TagPascal:
		return true
	default:
		return false
	}
}

// UnitSize returns the byte width of a single element of t. For TagBytes,
// TagPascal, TagChar and TagPadding the unit is one byte and the repeat
// count is the total byte length.
func (t Tag) UnitSize() int {
	switch t {
	case TagPadding, TagInt8, TagUint8, TagBool, TagChar, TagBytes, TagPascal:
		return 1
	case TagInt16, TagUint16:
		return 2
	case TagInt32, TagUint32, TagFloat:
		return 4
	case TagInt64, TagUint64, TagDouble:
		return 8
	default:
		return 0
	}
}

// ByteLength reports whether the repeat count of t denotes a byte length
// (one value spanning count bytes) rather than a repeat of scalar elements.
func (t Tag) ByteLength() bool {
	switch t {
	case TagBytes, TagPascal, TagChar, TagPadding:
		return true
	default:
		return false
	}
}

func (t Tag) String() string {
	switch t {
	case TagPadding:
		return "padding"
	case TagInt8:
		return "int8"
	case TagUint8:
		return "Uint8"
	case TagInt16:
		return "int16"
	case TagUint16:
		return "Uint16"
	case TagInt32:
		return "int32"
	case TagUint32:
		return "Uint32"
	case TagInt64:
		return "int64"
	case TagUint64:
		return "Uint64"
	case TagFloat:
		return "float"
	case TagDouble:
		return "double"
	case TagBool:
		return "bool"
	case TagChar:
		return "char"
	case TagBytes:
		return "string"
	case TagPascal:
		return "pascal_string"
	default:
		return "invalid"
	}
}

// Byte-order markers, in the style of the layout DSL. A marker is only
// valid as a standalone statement or as the first character of a compiled
// format string.
const (
	OrderNative    byte = '@' // host byte order
	OrderNativeStd byte = '=' // host byte order, standard sizes
	OrderLittle    byte = '<' // little-endian
	OrderBig       byte = '>' // big-endian
	OrderNetwork   byte = '!' // network order (big-endian)
)

// ValidOrder reports whether marker is a recognized byte-order marker.
func ValidOrder(marker byte) bool {
	switch marker {
	case OrderNative, OrderNativeStd, OrderLittle, OrderBig, OrderNetwork:
		return true
	default:
		return false
	}
}

// CompressionType identifies the optional whole-record payload compression
// applied outside the fixed-length record encoding.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}
