// Package binpack packs and unpacks fixed-width scalar values according to
// a compact format string.
//
// A format string is an optional byte-order marker followed by fragments of
// the form "{count}{tag}", where count defaults to 1 and tag is one of the
// element tags defined in the format package:
//
//	B b  unsigned/signed 8-bit integer
//	H h  unsigned/signed 16-bit integer
//	I i  unsigned/signed 32-bit integer
//	L l  unsigned/signed 64-bit integer
//	f d  float32/float64
//	?    bool (one byte)
//	c    char (one byte)
//	s    fixed-length byte string (count is the byte length)
//	p    length-prefixed string (count is the total byte length)
//	x    padding bytes (consumed, no value)
//
// For scalar tags a count is a repeat: "4I" decodes to a []uint32 of four
// elements as a single value. For s, p, c and x the count is a byte length.
//
// The total byte size of a format is fixed once parsed; Unpack rejects
// buffers of any other length. Struct values are immutable after New and
// safe for concurrent use.
//
// Example:
//
//	s, err := binpack.New("<I16s6s")
//	if err != nil {
//	    return err
//	}
//	vals, err := s.Unpack(data) // [uint32, []byte, []byte]
package binpack
