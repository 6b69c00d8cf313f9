// Package schema compiles layout descriptions into canonical, immutable
// Layouts.
//
// Two line-oriented grammars are supported. The plain grammar declares
// fields in on-disk order:
//
//	<
//	Uint32      score    # little-endian 32-bit score
//	string[16]  name
//	options[6]  options  # user-defined type, stored as 6 opaque bytes
//
// The offset grammar annotates each declaration with its hexadecimal byte
// offset and may leave holes, which are filled with synthetic "unknown"
// fields during compilation:
//
//	<
//	0x00 Uint32     score
//	0x04 string[16] name
//	0x24 options[6] options
//	0x50 EOF
//
// Offset compilation is a source-to-source lowering: the sorted, gap-filled
// statements are reassembled into plain-grammar text and compiled through
// the same direct path, so both grammars produce bit-identical layouts.
//
// A line is one statement: a standalone byte-order marker ('@', '=', '<',
// '>', '!'; default little-endian), or a field declaration. '#' starts a
// comment running to end of line; blank lines are ignored. Type keywords
// outside the elementary table declare user-defined types stored as opaque
// bytes, to be decoded by transforms registered at codec construction.
package schema
