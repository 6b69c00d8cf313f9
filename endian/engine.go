// Package endian provides byte order utilities for record encoding and
// decoding.
//
// It combines the ByteOrder and AppendByteOrder interfaces from
// encoding/binary into a single EndianEngine interface, and resolves the
// layout DSL's byte-order markers ('@', '=', '<', '>', '!') to concrete
// engines. The '@' and '=' markers resolve to the host byte order, detected
// at runtime.
//
// All returned engines are immutable and stateless, and safe for concurrent
// use.
package endian

import (
	"encoding/binary"
	"fmt"
	"unsafe"

	"github.com/retrofmt/gamerec/errs"
	"github.com/retrofmt/gamerec/format"
)

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface for byte order operations.
//
// binary.LittleEndian and binary.BigEndian both satisfy it, so the engine is
// fully compatible with existing code while providing both read/write and
// append operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. For a little-endian system, the LSB (0x00) is first.
	// For a big-endian system, the MSB (0x01) is first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))

	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// GetNativeEngine returns the engine matching the host byte order.
func GetNativeEngine() EndianEngine {
	if CheckEndianness() == binary.BigEndian {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// EngineForMarker resolves a layout byte-order marker to its engine.
//
// Markers follow the layout DSL: '<' little-endian, '>' and '!' big-endian,
// '@' and '=' host order.
//
// Returns:
//   - EndianEngine: Engine for the marker
//   - error: errs.ErrBadByteOrder if the marker is not recognized
func EngineForMarker(marker byte) (EndianEngine, error) {
	switch marker {
	case format.OrderLittle:
		return binary.LittleEndian, nil
	case format.OrderBig, format.OrderNetwork:
		return binary.BigEndian, nil
	case format.OrderNative, format.OrderNativeStd:
		return GetNativeEngine(), nil
	default:
		return nil, fmt.Errorf("%w: %q", errs.ErrBadByteOrder, string(marker))
	}
}
