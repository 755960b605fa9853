package manip

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

// Est overrides the skeleton template used for one set and race.
type Est struct {
	Entry  entry.Est       `json:"Entry" yaml:"entry"`
	Gender enums.Gender    `json:"Gender" yaml:"gender"`
	Race   enums.ModelRace `json:"Race" yaml:"race"`
	SetID  uint16          `json:"SetId" yaml:"set_id"`
	Slot   enums.EstType   `json:"Slot" yaml:"slot"`
}

func NewEst(e entry.Est, slot enums.EstType, g enums.Gender, r enums.ModelRace, setID uint16) Est {
	return Est{Entry: e, Gender: g, Race: r, SetID: setID, Slot: slot}
}

func (Est) sealed() {}
func (Est) Kind() Kind { return KindEst }

func (m Est) Identifier() Identifier {
	return Identifier{Kind: KindEst, Key: uint64(m.Slot)<<40 | uint64(m.Race)<<32 | uint64(m.Gender)<<24 | uint64(m.SetID)}
}

func (m Est) GenderRace() enums.GenderRace { return enums.CombinedRace(m.Gender, m.Race) }

// EstPath returns the table path for a skeleton category.
func EstPath(t enums.EstType) string {
	switch t {
	case enums.EstHair:
		return format.EstHairPath
	case enums.EstFace:
		return format.EstFacePath
	case enums.EstBody:
		return format.EstBodyPath
	case enums.EstHead:
		return format.EstHeadPath
	default:
		return ""
	}
}

func (m Est) TablePath() string { return EstPath(m.Slot) }

func (m Est) Validate() error {
	if !m.Slot.Valid() {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("est type %s", m.Slot), types.ErrInvalidKey)
	}
	if m.GenderRace() == enums.GenderRaceUnknown {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("est race %s %s", m.Race, m.Gender), types.ErrInvalidKey)
	}
	return nil
}

func (m Est) Equal(o Manipulation) bool {
	v, ok := o.(Est)
	return ok && v == m
}

func (m Est) WithEntry(e entry.Est) Est { m.Entry = e; return m }
func (m Est) WithSetID(id uint16) Est { m.SetID = id; return m }
func (m Est) WithSlot(s enums.EstType) Est { m.Slot = s; return m }
func (m Est) WithGender(g enums.Gender) Est { m.Gender = g; return m }
func (m Est) WithRace(r enums.ModelRace) Est { m.Race = r; return m }

func (m Est) String() string {
	return fmt.Sprintf("Est %s %s %s %d = %d", m.Slot, m.Race, m.Gender, m.SetID, m.Entry)
}
