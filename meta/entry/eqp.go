// Package entry holds the decoded value types of the six metadata tables and
// their bit-level encodings.
package entry

import (
	"fmt"
	"math/bits"

	"github.com/joshuapare/metakit/meta/enums"
)

// Eqp is a 64-bit EQP flag set. Each armour slot owns a contiguous range of
// bits.
type Eqp uint64

// DefaultEqp is the value of a set id absent from the table.
const DefaultEqp Eqp = 0x3fe00070603f00

var eqpMasks = map[enums.EquipSlot]Eqp{
	enums.SlotBody:  0x0000_0000_0000_ffff,
	enums.SlotLegs:  0x0000_0000_00ff_0000,
	enums.SlotHands: 0x0000_0000_ff00_0000,
	enums.SlotFeet:  0x0000_00ff_0000_0000,
	enums.SlotHead:  0xffff_ff00_0000_0000,
}

// EqpMask returns the bits owned by slot, or 0 for slots without EQP data.
func EqpMask(slot enums.EquipSlot) Eqp {
	return eqpMasks[slot]
}

// Mask keeps only slot's bits.
func (e Eqp) Mask(slot enums.EquipSlot) Eqp {
	return e & EqpMask(slot)
}

// Merge replaces slot's bits in e with those of v.
func (e Eqp) Merge(slot enums.EquipSlot, v Eqp) Eqp {
	m := EqpMask(slot)
	return e&^m | v&m
}

// Has reports whether every bit of flag is set.
func (e Eqp) Has(flag Eqp) bool { return flag != 0 && e&flag == flag }

// EqpAttributes returns slot's single-bit flags from least to most
// significant.
func EqpAttributes(slot enums.EquipSlot) []Eqp {
	m := uint64(EqpMask(slot))
	out := make([]Eqp, 0, bits.OnesCount64(m))
	for m != 0 {
		low := m & -m
		out = append(out, Eqp(low))
		m &^= low
	}
	return out
}

// EqpFlagName returns a stable display name for a single-bit flag, such as
// "Head03" for the fourth head bit.
func EqpFlagName(flag Eqp) string {
	if bits.OnesCount64(uint64(flag)) != 1 {
		return fmt.Sprintf("0x%016x", uint64(flag))
	}
	for _, slot := range enums.EqpSlots() {
		for i, f := range EqpAttributes(slot) {
			if f == flag {
				return fmt.Sprintf("%s%02d", slot, i)
			}
		}
	}
	return fmt.Sprintf("0x%016x", uint64(flag))
}
