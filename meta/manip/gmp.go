package manip

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/pkg/types"
)

// Gmp edits the gimmick parameter of one helmet set.
type Gmp struct {
	Entry entry.Gmp `json:"Entry" yaml:"entry"`
	SetID uint16    `json:"SetId" yaml:"set_id"`
}

func NewGmp(e entry.Gmp, setID uint16) Gmp { return Gmp{Entry: e, SetID: setID} }

func (Gmp) sealed() {}
func (Gmp) Kind() Kind { return KindGmp }

func (m Gmp) Identifier() Identifier {
	return Identifier{Kind: KindGmp, Key: uint64(m.SetID)}
}

func (Gmp) TablePath() string { return format.GmpPath }

func (m Gmp) Validate() error {
	if m.SetID == 0 || int(m.SetID) >= format.EqpCount {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("gmp set id %d", m.SetID), types.ErrInvalidKey)
	}
	return m.Entry.Validate()
}

func (m Gmp) Equal(o Manipulation) bool {
	v, ok := o.(Gmp)
	return ok && v == m
}

func (m Gmp) WithEntry(e entry.Gmp) Gmp { m.Entry = e; return m }
func (m Gmp) WithSetID(id uint16) Gmp { m.SetID = id; return m }

func (m Gmp) String() string {
	e := m.Entry
	return fmt.Sprintf("Gmp %d = enabled %t animated %t rot %d/%d/%d unk %d/%d",
		m.SetID, e.Enabled, e.Animated, e.RotationA, e.RotationB, e.RotationC, e.UnknownA, e.UnknownB)
}
