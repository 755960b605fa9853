// Package buf contains endian-safe read and write helpers for the fixed
// little-endian table layouts.
//
// Readers return 0 when the buffer is too short; writers report false and
// leave the buffer untouched. Callers validate lengths up front with Has or
// Slice and treat the zero/false results as corruption.
package buf

import (
	"encoding/binary"
	"math"
)

// U16LE reads a little-endian uint16 at off. Returns 0 when out of range.
func U16LE(b []byte, off int) uint16 {
	if !Has(b, off, 2) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[off:])
}

// U32LE reads a little-endian uint32 at off. Returns 0 when out of range.
func U32LE(b []byte, off int) uint32 {
	if !Has(b, off, 4) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[off:])
}

// U64LE reads a little-endian uint64 at off. Returns 0 when out of range.
func U64LE(b []byte, off int) uint64 {
	if !Has(b, off, 8) {
		return 0
	}
	return binary.LittleEndian.Uint64(b[off:])
}

// F32LE reads a little-endian IEEE-754 float32 at off.
func F32LE(b []byte, off int) float32 {
	return math.Float32frombits(U32LE(b, off))
}

// PutU16LE writes v at off.
func PutU16LE(b []byte, off int, v uint16) bool {
	if !Has(b, off, 2) {
		return false
	}
	binary.LittleEndian.PutUint16(b[off:], v)
	return true
}

// PutU32LE writes v at off.
func PutU32LE(b []byte, off int, v uint32) bool {
	if !Has(b, off, 4) {
		return false
	}
	binary.LittleEndian.PutUint32(b[off:], v)
	return true
}

// PutU64LE writes v at off.
func PutU64LE(b []byte, off int, v uint64) bool {
	if !Has(b, off, 8) {
		return false
	}
	binary.LittleEndian.PutUint64(b[off:], v)
	return true
}

// PutF32LE writes v at off.
func PutF32LE(b []byte, off int, v float32) bool {
	return PutU32LE(b, off, math.Float32bits(v))
}
