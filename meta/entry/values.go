package entry

import (
	"fmt"

	"github.com/joshuapare/metakit/pkg/types"
)

// Est is a skeleton template index. Zero means no override.
type Est uint16

const (
	// GmpMaxRotation bounds each rotation field in degrees.
	GmpMaxRotation = 360
	// GmpMaxUnknown bounds each 4-bit unknown field.
	GmpMaxUnknown = 15
)

// Gmp is a decoded gimmick parameter. The packed form occupies the low
// 40 bits of a uint64:
//
//	bit 0      enabled
//	bit 1      animated
//	bits 2-11  rotation A
//	bits 12-21 rotation B
//	bits 22-31 rotation C
//	bits 32-35 unknown A
//	bits 36-39 unknown B
type Gmp struct {
	Enabled   bool   `json:"Enabled" yaml:"enabled"`
	Animated  bool   `json:"Animated" yaml:"animated"`
	RotationA uint16 `json:"RotationA" yaml:"rotation_a"`
	RotationB uint16 `json:"RotationB" yaml:"rotation_b"`
	RotationC uint16 `json:"RotationC" yaml:"rotation_c"`
	UnknownA  uint8  `json:"UnknownA" yaml:"unknown_a"`
	UnknownB  uint8  `json:"UnknownB" yaml:"unknown_b"`
}

const (
	gmpRotationMask = 0x3ff
	gmpUnknownMask  = 0xf
)

// Value packs the entry.
func (g Gmp) Value() uint64 {
	var v uint64
	if g.Enabled {
		v |= 1
	}
	if g.Animated {
		v |= 1 << 1
	}
	v |= uint64(g.RotationA&gmpRotationMask) << 2
	v |= uint64(g.RotationB&gmpRotationMask) << 12
	v |= uint64(g.RotationC&gmpRotationMask) << 22
	v |= uint64(g.UnknownA&gmpUnknownMask) << 32
	v |= uint64(g.UnknownB&gmpUnknownMask) << 36
	return v
}

// GmpFromValue unpacks the low 40 bits of v.
func GmpFromValue(v uint64) Gmp {
	return Gmp{
		Enabled:   v&1 != 0,
		Animated:  v&(1<<1) != 0,
		RotationA: uint16(v>>2) & gmpRotationMask,
		RotationB: uint16(v>>12) & gmpRotationMask,
		RotationC: uint16(v>>22) & gmpRotationMask,
		UnknownA:  uint8(v>>32) & gmpUnknownMask,
		UnknownB:  uint8(v>>36) & gmpUnknownMask,
	}
}

// Validate checks the rotation and unknown field ranges.
func (g Gmp) Validate() error {
	for _, r := range []uint16{g.RotationA, g.RotationB, g.RotationC} {
		if r > GmpMaxRotation {
			return types.Errorf(types.ErrKindRange, fmt.Sprintf("gmp rotation %d exceeds %d", r, GmpMaxRotation), types.ErrOutOfRange)
		}
	}
	if g.UnknownA > GmpMaxUnknown || g.UnknownB > GmpMaxUnknown {
		return types.Errorf(types.ErrKindRange, "gmp unknown field exceeds 15", types.ErrOutOfRange)
	}
	return nil
}

const (
	// RspMin is the smallest accepted scaling multiplier.
	RspMin Rsp = 0.01
	// RspMax is the largest accepted scaling multiplier.
	RspMax Rsp = 8.0
)

// Rsp is a racial scaling multiplier.
type Rsp float32

// Validate checks that r lies in [RspMin, RspMax]. NaN is rejected.
func (r Rsp) Validate() error {
	if !(r >= RspMin && r <= RspMax) {
		return types.Errorf(types.ErrKindRange, fmt.Sprintf("rsp value %g outside [%g, %g]", r, RspMin, RspMax), types.ErrOutOfRange)
	}
	return nil
}
