package manip

import (
	"fmt"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

// Rsp edits one racial scaling multiplier.
type Rsp struct {
	Entry     entry.Rsp          `json:"Entry" yaml:"entry"`
	SubRace   enums.SubRace      `json:"SubRace" yaml:"sub_race"`
	Attribute enums.RspAttribute `json:"Attribute" yaml:"attribute"`
}

func NewRsp(e entry.Rsp, sub enums.SubRace, attr enums.RspAttribute) Rsp {
	return Rsp{Entry: e, SubRace: sub, Attribute: attr}
}

func (Rsp) sealed() {}
func (Rsp) Kind() Kind { return KindRsp }

func (m Rsp) Identifier() Identifier {
	return Identifier{Kind: KindRsp, Key: uint64(m.SubRace)<<8 | uint64(m.Attribute)}
}

func (Rsp) TablePath() string { return format.CmpPath }

func (m Rsp) Validate() error {
	if m.SubRace == enums.SubRaceUnknown || int(m.SubRace) > format.CmpSubRaceCount || !m.Attribute.Valid() {
		return types.Errorf(types.ErrKindInvalid, fmt.Sprintf("rsp %s %s", m.SubRace, m.Attribute), types.ErrInvalidKey)
	}
	return m.Entry.Validate()
}

func (m Rsp) Equal(o Manipulation) bool {
	v, ok := o.(Rsp)
	return ok && v == m
}

func (m Rsp) WithEntry(e entry.Rsp) Rsp { m.Entry = e; return m }
func (m Rsp) WithSubRace(s enums.SubRace) Rsp { m.SubRace = s; return m }
func (m Rsp) WithAttribute(a enums.RspAttribute) Rsp { m.Attribute = a; return m }

func (m Rsp) String() string {
	return fmt.Sprintf("Rsp %s %s = %g", m.SubRace, m.Attribute, m.Entry)
}
