// Package codec binds a compiled layout to a pack/unpack codec for
// fixed-length binary records.
//
// A Codec is built once from layout text (either grammar) or a pre-built
// field list, and then used repeatedly:
//
//	c, err := codec.New(`
//	<
//	Uint32      score
//	string[16]  name
//	`)
//	if err != nil {
//	    return err
//	}
//	rec, err := c.Unpack(data) // *ordereddict.Dict, field order preserved
//	out, err := c.Pack(rec)    // fixed-length []byte
//
// Decoded records are ordered dictionaries keyed by field name. Fields
// named with the "padding" prefix are consumed when unpacking but never
// surfaced, and never required when packing.
//
// Per-field transforms ("massage" hooks) convert between raw decoded values
// and caller-friendly representations. They are registered explicitly at
// construction, either per user-defined type keyword (WithTypeTransform) or
// per field name (WithFieldTransform). A *Codec is itself a Transform, so a
// record layout can be nested inside an opaque field of another layout.
//
// A Codec is immutable after construction; Pack and Unpack are pure over
// their inputs and safe for concurrent use.
package codec
