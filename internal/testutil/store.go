package testutil

import (
	"testing"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/entry"
)

// Values seeded by NewStore. Tests assert against these rather than
// repeating literals.
var (
	// EqpSet5 is the EQP entry of set 5; set 400 lives in an absent block.
	EqpSet5 = entry.Eqp(0x0000_0100_0000_00ff)
	// GmpSet12 is the gimmick parameter of set 12.
	GmpSet12 = entry.Gmp{Enabled: true, Animated: true, RotationA: 90, RotationB: 180, UnknownA: 3}
	// EqdpMidlanderMaleSet1 is the entry of set 1 in c0101.eqdp.
	EqdpMidlanderMaleSet1 = entry.Eqdp(0b11_0000_0011)
	// ImcE0001Body1 is variant 1 of the body part of e0001.imc.
	ImcE0001Body1 = entry.Imc{MaterialID: 2, DecalID: 1, AttributeMask: 0b1010, SoundID: 5, VfxID: 4, MaterialAnimationID: 1}
	// ImcW0201Variant1 is variant 1 of w0201/b0001.imc.
	ImcW0201Variant1 = entry.Imc{MaterialID: 7, VfxID: 2}
	// EstHeadSet1 is the head skeleton of Midlander males in set 1.
	EstHeadSet1 = entry.Est(12)
	// RspMidlanderMaleMax is MaleMaxSize for Midlanders.
	RspMidlanderMaleMax = entry.Rsp(1.25)
)

// NewStore returns a memory asset store holding one copy of every table
// layout.
//
//	store := testutil.NewStore(t)
//	defaults := files.NewDefaults(store, nil)
func NewStore(t testing.TB) *assets.Memory {
	t.Helper()
	m := assets.NewMemory()
	put := func(p string, data []byte) {
		if err := m.Put(p, data); err != nil {
			t.Fatalf("seed %s: %v", p, err)
		}
	}

	put(format.EqpPath, BlockTable(uint64(entry.DefaultEqp), map[uint16]uint64{
		5: uint64(EqpSet5),
	}))
	put(format.GmpPath, BlockTable(0, map[uint16]uint64{
		12: GmpSet12.Value(),
	}))
	put(format.EqdpPath(101, false), EqdpTable(101, format.EqdpDefaultBlockSize, map[uint16]uint16{
		1:   uint16(EqdpMidlanderMaleSet1),
		330: 0b01,
	}))
	put(format.EqdpPath(101, true), EqdpTable(101, format.EqdpDefaultBlockSize, map[uint16]uint16{
		1: 0b11_1111_1111,
	}))
	put(format.EqdpPath(201, false), EqdpTable(201, format.EqdpDefaultBlockSize, nil))

	def := entry.Imc{MaterialID: 1}
	row := func(body entry.Imc) []entry.Imc { return []entry.Imc{def, body, def, def, def} }
	put(format.ImcEquipmentPath(1), ImcTable(format.ImcEquipmentPartMask, [][]entry.Imc{
		row(def), row(ImcE0001Body1), row(def),
	}))
	put(format.ImcWeaponPath(201, 1), ImcTable(format.ImcSinglePartMask, [][]entry.Imc{
		{def}, {ImcW0201Variant1},
	}))

	put(format.EstHeadPath, EstTable(map[EstKey]uint16{
		{SetID: 1, GenderRace: 101}: uint16(EstHeadSet1),
		{SetID: 2, GenderRace: 201}: 3,
	}))
	put(format.EstBodyPath, EstTable(nil))

	put(format.CmpPath, CmpTable(1, map[CmpKey]float32{
		{SubRace: 1, Attribute: 1}: float32(RspMidlanderMaleMax),
	}))
	put(format.HumanPbdPath, []byte("PBD\x00default"))
	return m
}
