package entry

import "github.com/joshuapare/metakit/meta/enums"

// Eqdp is a 16-bit EQDP entry holding two bits per slot. Equipment and
// accessory tables reuse the same five bit pairs.
type Eqdp uint16

// eqdpShift returns the offset of slot's bit pair, or -1.
func eqdpShift(slot enums.EquipSlot) int {
	idx := slot.Index()
	if idx < 0 {
		return -1
	}
	return idx * 2
}

// EqdpMask returns the two bits owned by slot, or 0.
func EqdpMask(slot enums.EquipSlot) Eqdp {
	s := eqdpShift(slot)
	if s < 0 {
		return 0
	}
	return Eqdp(0b11) << s
}

// Mask keeps only slot's bits.
func (e Eqdp) Mask(slot enums.EquipSlot) Eqdp {
	return e & EqdpMask(slot)
}

// Merge replaces slot's bits in e with those of v.
func (e Eqdp) Merge(slot enums.EquipSlot, v Eqdp) Eqdp {
	m := EqdpMask(slot)
	return e&^m | v&m
}

// ToBits returns slot's two bits as booleans. The first bit enables the
// race-specific model, the second its material.
func (e Eqdp) ToBits(slot enums.EquipSlot) (bool, bool) {
	s := eqdpShift(slot)
	if s < 0 {
		return false, false
	}
	return e&(1<<s) != 0, e&(2<<s) != 0
}

// FromSlotAndBits builds the entry holding b1 and b2 in slot's position.
// Slots without EQDP bits yield 0.
func FromSlotAndBits(slot enums.EquipSlot, b1, b2 bool) Eqdp {
	s := eqdpShift(slot)
	if s < 0 {
		return 0
	}
	var e Eqdp
	if b1 {
		e |= 1 << s
	}
	if b2 {
		e |= 2 << s
	}
	return e
}
