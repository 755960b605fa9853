package manip

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

// Eqdp edits one slot's bit pair in a race-specific EQDP table.
type Eqdp struct {
	Entry  entry.Eqdp      `json:"Entry" yaml:"entry"`
	Gender enums.Gender    `json:"Gender" yaml:"gender"`
	Race   enums.ModelRace `json:"Race" yaml:"race"`
	SetID  uint16          `json:"SetId" yaml:"set_id"`
	Slot   enums.EquipSlot `json:"Slot" yaml:"slot"`
}

// NewEqdp masks e to the slot's bits.
func NewEqdp(e entry.Eqdp, slot enums.EquipSlot, g enums.Gender, r enums.ModelRace, setID uint16) Eqdp {
	return Eqdp{Entry: e.Mask(slot), Gender: g, Race: r, SetID: setID, Slot: slot}
}

func (Eqdp) sealed() {}
func (Eqdp) Kind() Kind { return KindEqdp }

func (m Eqdp) Identifier() Identifier {
	return Identifier{Kind: KindEqdp, Key: uint64(m.Race)<<32 | uint64(m.Gender)<<24 | uint64(m.Slot)<<16 | uint64(m.SetID)}
}

// GenderRace returns the combined race code, or GenderRaceUnknown.
func (m Eqdp) GenderRace() enums.GenderRace { return enums.CombinedRace(m.Gender, m.Race) }

func (m Eqdp) TablePath() string {
	return format.EqdpPath(uint16(m.GenderRace()), m.Slot.IsAccessory())
}

func (m Eqdp) Validate() error {
	if m.Slot.Index() < 0 {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("eqdp slot %s", m.Slot), types.ErrInvalidKey)
	}
	if !enums.IsValidEqdp(m.GenderRace()) {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("eqdp race %s %s", m.Race, m.Gender), types.ErrInvalidKey)
	}
	return nil
}

func (m Eqdp) Equal(o Manipulation) bool {
	v, ok := o.(Eqdp)
	return ok && v == m
}

// Bits returns the slot's two bits.
func (m Eqdp) Bits() (bool, bool) { return m.Entry.ToBits(m.Slot) }

// WithBits returns a copy with the slot's bits replaced.
func (m Eqdp) WithBits(b1, b2 bool) Eqdp {
	m.Entry = entry.FromSlotAndBits(m.Slot, b1, b2)
	return m
}

func (m Eqdp) WithEntry(e entry.Eqdp) Eqdp { return NewEqdp(e, m.Slot, m.Gender, m.Race, m.SetID) }
func (m Eqdp) WithSetID(id uint16) Eqdp { m.SetID = id; return m }
func (m Eqdp) WithGender(g enums.Gender) Eqdp {
	m.Gender = g
	return m
}
func (m Eqdp) WithRace(r enums.ModelRace) Eqdp {
	m.Race = r
	return m
}

// WithSlot returns a copy for a different slot; the entry is re-masked.
func (m Eqdp) WithSlot(s enums.EquipSlot) Eqdp { return NewEqdp(m.Entry, s, m.Gender, m.Race, m.SetID) }

func (m Eqdp) String() string {
	b1, b2 := m.Bits()
	return fmt.Sprintf("Eqdp %s %s %s %d = %t/%t", m.Race, m.Gender, m.Slot, m.SetID, b1, b2)
}
