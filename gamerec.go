// Package gamerec compiles declarative layout descriptions of fixed-size
// binary records into reusable codecs, for tools that read resources from
// classic games.
//
// A layout is declared as line-oriented text instead of hand-written
// byte-offset arithmetic:
//
//	c, err := gamerec.NewCodec(`
//	<
//	Uint32      score    # score comes before the name
//	string[16]  name
//	options[6]  options  # six opaque bytes with a custom data format
//	`)
//
// and then used to decode and encode records:
//
//	rec, err := c.Unpack(data) // ordered field-name-to-value mapping
//	out, err := c.Pack(rec)    // back to the fixed-length byte form
//
// When a format contains unknown segments, the offset grammar declares
// only what is known and the compiler fills the holes with synthetic
// "unknown" fields:
//
//	c, err := gamerec.NewOffsetCodec(`
//	<
//	0x00 Uint32     score
//	0x04 string[16] name
//	0x24 options[6] options
//	0x50 EOF
//	`)
//
// User-defined types such as "options" above are stored as opaque bytes
// and decoded through transforms registered at construction, e.g.
// codec.WithTypeTransform("options", t). A codec is itself a transform, so
// records can nest.
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the codec
// package. For fine-grained control use the codec, schema and binpack
// packages directly; verify identifies game installations by their files.
package gamerec

import (
	"github.com/Velocidex/ordereddict"

	"github.com/retrofmt/gamerec/codec"
	"github.com/retrofmt/gamerec/schema"
)

// NewCodec compiles plain-grammar layout text into a record codec.
func NewCodec(layoutText string, opts ...codec.Option) (*codec.Codec, error) {
	return codec.New(layoutText, opts...)
}

// NewOffsetCodec compiles offset-grammar layout text into a record codec,
// synthesizing "unknown" filler fields for undeclared byte ranges.
func NewOffsetCodec(layoutText string, opts ...codec.Option) (*codec.Codec, error) {
	return codec.NewFromOffsets(layoutText, opts...)
}

// NewFieldCodec builds a record codec from a pre-built ordered field list
// and byte-order marker, bypassing the text grammars.
func NewFieldCodec(order byte, fields []schema.Field, opts ...codec.Option) (*codec.Codec, error) {
	return codec.NewFromFields(order, fields, opts...)
}

// NewRecord creates an empty ordered record to fill and pack.
func NewRecord() *ordereddict.Dict {
	return ordereddict.NewDict()
}
