package manip

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

// Eqp edits one armour slot's bits of an EQP entry.
type Eqp struct {
	Entry entry.Eqp       `json:"Entry" yaml:"entry"`
	SetID uint16          `json:"SetId" yaml:"set_id"`
	Slot  enums.EquipSlot `json:"Slot" yaml:"slot"`
}

// NewEqp masks e to the slot's bits.
func NewEqp(e entry.Eqp, slot enums.EquipSlot, setID uint16) Eqp {
	return Eqp{Entry: e.Mask(slot), SetID: setID, Slot: slot}
}

func (Eqp) sealed() {}
func (Eqp) Kind() Kind { return KindEqp }

func (m Eqp) Identifier() Identifier {
	return Identifier{Kind: KindEqp, Key: uint64(m.Slot)<<16 | uint64(m.SetID)}
}

func (Eqp) TablePath() string { return format.EqpPath }

func (m Eqp) Validate() error {
	if !m.Slot.IsEquipment() {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("eqp slot %s", m.Slot), types.ErrInvalidKey)
	}
	if m.SetID == 0 || int(m.SetID) >= format.EqpCount {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("eqp set id %d", m.SetID), types.ErrInvalidKey)
	}
	return nil
}

func (m Eqp) Equal(o Manipulation) bool {
	v, ok := o.(Eqp)
	return ok && v == m
}

// WithEntry returns a copy carrying e, masked to the slot.
func (m Eqp) WithEntry(e entry.Eqp) Eqp { return NewEqp(e, m.Slot, m.SetID) }

// WithSetID returns a copy for a different set.
func (m Eqp) WithSetID(id uint16) Eqp { m.SetID = id; return m }

// WithSlot returns a copy for a different slot; the entry is re-masked.
func (m Eqp) WithSlot(s enums.EquipSlot) Eqp { return NewEqp(m.Entry, s, m.SetID) }

func (m Eqp) String() string {
	return fmt.Sprintf("Eqp %s %d = 0x%016x", m.Slot, m.SetID, uint64(m.Entry))
}
