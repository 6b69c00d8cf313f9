// Package errs defines sentinel errors shared across gamerec packages.
//
// All errors are plain sentinel values so callers can match them with
// errors.Is regardless of the contextual detail wrapped around them at the
// call site.
package errs

import "errors"

// Layout compilation errors. These abort the whole layout build; there is no
// partial-layout recovery.
var (
	// ErrLexical indicates a character or token in the layout source that
	// matches none of the lexical rules.
	ErrLexical = errors.New("unrecognized token in layout source")

	// ErrSyntax indicates a token sequence that matches no grammar rule.
	ErrSyntax = errors.New("syntax error in layout source")

	// ErrUnknownType indicates a format fragment with an unrecognized
	// element type tag.
	ErrUnknownType = errors.New("unknown element type")

	// ErrBadFormat indicates a malformed elementary format string.
	ErrBadFormat = errors.New("malformed format string")

	// ErrBadByteOrder indicates an unrecognized byte-order marker.
	ErrBadByteOrder = errors.New("invalid byte order marker")

	// ErrBadOffset indicates an offset literal that cannot be decoded.
	ErrBadOffset = errors.New("invalid offset literal")

	// ErrFieldOverlap indicates two offset statements declaring overlapping
	// byte ranges, or a record end before the last field's end.
	ErrFieldOverlap = errors.New("overlapping field declarations")

	// ErrDuplicateField indicates two fields declared with the same name.
	ErrDuplicateField = errors.New("duplicate field name")

	// ErrEmptyLayout indicates layout source with no field declarations.
	ErrEmptyLayout = errors.New("layout contains no field declarations")
)

// Pack/unpack errors. These are per-call and never corrupt the compiled
// layout.
var (
	// ErrLengthMismatch indicates a byte buffer whose length differs from
	// the compiled record length.
	ErrLengthMismatch = errors.New("buffer length does not match record length")

	// ErrMissingField indicates a pack input record lacking a required
	// (non-padding) field.
	ErrMissingField = errors.New("missing required field")

	// ErrBadValueType indicates a pack value whose type does not fit its
	// field's element type.
	ErrBadValueType = errors.New("value type does not match field type")

	// ErrWidthMismatch indicates a byte value whose length differs from its
	// field's declared width.
	ErrWidthMismatch = errors.New("value width does not match field width")
)

// ErrUnsupportedSoftware indicates that a directory probed by a caller does
// not contain the identifying files of any supported software.
var ErrUnsupportedSoftware = errors.New("unsupported software")
