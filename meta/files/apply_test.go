package files

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

func readSeed(t *testing.T, p string) []byte {
	t.Helper()
	data, err := testutil.NewStore(t).ReadTable(context.Background(), format.CategoryChara, p)
	require.NoError(t, err)
	return data
}

func TestApplyEqpMergesSlotBits(t *testing.T) {
	m := manip.NewEqp(0b0010<<40, enums.SlotHead, 5)
	out, err := Apply(format.EqpPath, readSeed(t, format.EqpPath), []manip.Manipulation{m})
	require.NoError(t, err)

	bt, err := DecodeBlockTable(out, uint64(entry.DefaultEqp))
	require.NoError(t, err)
	got := entry.Eqp(bt.Get(5))
	assert.Equal(t, entry.Eqp(0b0010<<40), got.Mask(enums.SlotHead))
	assert.Equal(t, testutil.EqpSet5.Mask(enums.SlotBody), got.Mask(enums.SlotBody))
	assert.Equal(t, uint64(entry.DefaultEqp), bt.Get(400))
}

func TestApplyGmpFromMissingTable(t *testing.T) {
	g := entry.Gmp{Enabled: true, RotationC: 45}
	out, err := Apply(format.GmpPath, nil, []manip.Manipulation{manip.NewGmp(g, 77)})
	require.NoError(t, err)
	bt, err := DecodeBlockTable(out, 0)
	require.NoError(t, err)
	assert.Equal(t, g, entry.GmpFromValue(bt.Get(77)))
}

func TestApplyEqdp(t *testing.T) {
	m := manip.NewEqdp(0, enums.SlotHead, enums.GenderMale, enums.RaceMidlander, 1)
	p := m.TablePath()
	out, err := Apply(p, readSeed(t, p), []manip.Manipulation{m})
	require.NoError(t, err)
	f, err := DecodeEqdp(out)
	require.NoError(t, err)
	got := entry.Eqdp(f.Get(1))
	assert.Zero(t, got.Mask(enums.SlotHead))
	assert.Equal(t, testutil.EqdpMidlanderMaleSet1.Mask(enums.SlotFeet), got.Mask(enums.SlotFeet))
	assert.Equal(t, uint16(0b01), f.Get(330))
}

func TestApplyImcKeepsSiblings(t *testing.T) {
	m := manip.NewImcEquipment(enums.ObjectEquipment, 1, 1, enums.SlotBody, testutil.ImcE0001Body1)
	changed := testutil.ImcE0001Body1
	changed.SoundID = 33
	m = m.WithEntry(changed)

	p := m.TablePath()
	out, err := Apply(p, readSeed(t, p), []manip.Manipulation{m})
	require.NoError(t, err)
	f, err := DecodeImc(out)
	require.NoError(t, err)
	got, err := f.Get(1, enums.SlotBody.Index())
	require.NoError(t, err)
	assert.Equal(t, uint8(33), got.SoundID)
	assert.Equal(t, testutil.ImcE0001Body1.MaterialID, got.MaterialID)
	assert.Equal(t, testutil.ImcE0001Body1.AttributeMask, got.AttributeMask)

	_, err = Apply(p, nil, []manip.Manipulation{m})
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestApplyEstAndRsp(t *testing.T) {
	est := manip.NewEst(99, enums.EstBody, enums.GenderFemale, enums.RaceViera, 3)
	out, err := Apply(format.EstBodyPath, nil, []manip.Manipulation{est})
	require.NoError(t, err)
	f, err := DecodeEst(out)
	require.NoError(t, err)
	assert.Equal(t, uint16(99), f.Get(EstKey{SetID: 3, GenderRace: 1801}))

	rsp := manip.NewRsp(3.5, enums.SubRaceXaela, enums.RspFemaleMaxSize)
	out, err = Apply(format.CmpPath, readSeed(t, format.CmpPath), []manip.Manipulation{rsp})
	require.NoError(t, err)
	c, err := DecodeCmp(out)
	require.NoError(t, err)
	v, _ := c.Get(enums.SubRaceXaela, enums.RspFemaleMaxSize)
	assert.Equal(t, float32(3.5), v)
}

func TestApplyRejectsForeignManipulations(t *testing.T) {
	_, err := Apply(format.EqpPath, nil, []manip.Manipulation{manip.NewGmp(entry.Gmp{}, 1)})
	assert.ErrorIs(t, err, ErrWrongTable)

	_, err = Apply(format.HumanPbdPath, []byte("x"), nil)
	assert.ErrorIs(t, err, types.ErrUnsupported)
}
