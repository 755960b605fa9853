package manip

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

// Imc edits one variant entry of an object's IMC table. Equipment and
// accessories are addressed by equip slot; weapons and monsters by
// secondary id. The unused field is always zero.
type Imc struct {
	Entry       entry.Imc        `json:"Entry" yaml:"entry"`
	ObjectType  enums.ObjectType `json:"ObjectType" yaml:"object_type"`
	PrimaryID   uint16           `json:"PrimaryId" yaml:"primary_id"`
	SecondaryID uint16           `json:"SecondaryId" yaml:"secondary_id"`
	Variant     uint16           `json:"Variant" yaml:"variant"`
	EquipSlot   enums.EquipSlot  `json:"EquipSlot" yaml:"equip_slot"`
}

// NewImcEquipment builds an edit for an equipment or accessory table.
func NewImcEquipment(t enums.ObjectType, primaryID, variant uint16, slot enums.EquipSlot, e entry.Imc) Imc {
	return Imc{Entry: e, ObjectType: t, PrimaryID: primaryID, Variant: variant, EquipSlot: slot}.normalize()
}

// NewImcBody builds an edit for a weapon or monster table.
func NewImcBody(t enums.ObjectType, primaryID, secondaryID, variant uint16, e entry.Imc) Imc {
	return Imc{Entry: e, ObjectType: t, PrimaryID: primaryID, SecondaryID: secondaryID, Variant: variant}.normalize()
}

func (m Imc) normalize() Imc {
	if m.ObjectType.UsesSlot() {
		m.SecondaryID = 0
	} else {
		m.EquipSlot = enums.SlotUnknown
	}
	return m
}

func (Imc) sealed() {}
func (Imc) Kind() Kind { return KindImc }

func (m Imc) Identifier() Identifier {
	key := uint64(m.ObjectType)<<56 | uint64(m.PrimaryID)<<40 | uint64(m.SecondaryID)<<24 |
		uint64(m.Variant)<<8 | uint64(m.EquipSlot)
	return Identifier{Kind: KindImc, Key: key}
}

// BodySlot reports the coarse slot the object's path is built from.
func (m Imc) BodySlot() enums.BodySlot {
	if m.ObjectType.UsesSlot() {
		return enums.BodySlotEquipment
	}
	if m.ObjectType.IsValidImc() {
		return enums.BodySlotBody
	}
	return enums.BodySlotUnknown
}

func (m Imc) TablePath() string {
	switch m.ObjectType {
	case enums.ObjectEquipment:
		return format.ImcEquipmentPath(m.PrimaryID)
	case enums.ObjectAccessory:
		return format.ImcAccessoryPath(m.PrimaryID)
	case enums.ObjectWeapon:
		return format.ImcWeaponPath(m.PrimaryID, m.SecondaryID)
	case enums.ObjectMonster:
		return format.ImcMonsterPath(m.PrimaryID, m.SecondaryID)
	default:
		return ""
	}
}

func (m Imc) Validate() error {
	switch {
	case !m.ObjectType.IsValidImc():
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("imc object type %s", m.ObjectType), types.ErrInvalidKey)
	case m.ObjectType == enums.ObjectEquipment && !m.EquipSlot.IsEquipment(),
		m.ObjectType == enums.ObjectAccessory && !m.EquipSlot.IsAccessory():
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("imc slot %s for %s", m.EquipSlot, m.ObjectType), types.ErrInvalidKey)
	case !m.ObjectType.UsesSlot() && m.SecondaryID == 0:
		return types.Errorf(types.ErrKindInvalid, "imc secondary id 0", types.ErrInvalidKey)
	case !m.Entry.InRange():
		return types.Errorf(types.ErrKindRange, "imc sound id or attribute mask too wide", types.ErrOutOfRange)
	}
	return nil
}

func (m Imc) Equal(o Manipulation) bool {
	v, ok := o.(Imc)
	return ok && v == m
}

// WithEntry returns a copy carrying e.
func (m Imc) WithEntry(e entry.Imc) Imc { m.Entry = e; return m }

// WithObjectType switches the addressing mode while keeping the row usable:
// slot-addressed types get a slot from their group, body-addressed types a
// non-zero secondary id.
func (m Imc) WithObjectType(t enums.ObjectType) Imc {
	m.ObjectType = t
	switch t {
	case enums.ObjectEquipment:
		if !m.EquipSlot.IsEquipment() {
			m.EquipSlot = enums.SlotHead
		}
	case enums.ObjectAccessory:
		if !m.EquipSlot.IsAccessory() {
			m.EquipSlot = enums.SlotEars
		}
	default:
		if m.SecondaryID == 0 {
			m.SecondaryID = 1
		}
	}
	return m.normalize()
}

func (m Imc) WithPrimaryID(id uint16) Imc { m.PrimaryID = id; return m }
func (m Imc) WithVariant(v uint16) Imc { m.Variant = v; return m }

// WithSecondaryID is ignored for slot-addressed types.
func (m Imc) WithSecondaryID(id uint16) Imc {
	m.SecondaryID = id
	return m.normalize()
}

// WithEquipSlot is ignored for body-addressed types.
func (m Imc) WithEquipSlot(s enums.EquipSlot) Imc {
	m.EquipSlot = s
	return m.normalize()
}

func (m Imc) String() string {
	e := m.Entry
	if m.ObjectType.UsesSlot() {
		return fmt.Sprintf("Imc %s %d %s v%d = mat %d decal %d attr 0x%03x sound %d vfx %d anim %d",
			m.ObjectType, m.PrimaryID, m.EquipSlot, m.Variant,
			e.MaterialID, e.DecalID, e.AttributeMask, e.SoundID, e.VfxID, e.MaterialAnimationID)
	}
	return fmt.Sprintf("Imc %s %d/%d v%d = mat %d decal %d attr 0x%03x sound %d vfx %d anim %d",
		m.ObjectType, m.PrimaryID, m.SecondaryID, m.Variant,
		e.MaterialID, e.DecalID, e.AttributeMask, e.SoundID, e.VfxID, e.MaterialAnimationID)
}
