package files

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/pkg/types"
)

func TestBlockTableDecode(t *testing.T) {
	data := testutil.BlockTable(uint64(entry.DefaultEqp), map[uint16]uint64{
		5:    0xAA,
		1000: 0xBB,
	})
	bt, err := DecodeBlockTable(data, uint64(entry.DefaultEqp))
	require.NoError(t, err)

	assert.Equal(t, uint64(0xAA), bt.Get(5))
	assert.Equal(t, uint64(0xBB), bt.Get(1000))
	assert.Equal(t, uint64(entry.DefaultEqp), bt.Get(6), "unset entry in present block")
	assert.Equal(t, uint64(entry.DefaultEqp), bt.Get(400), "absent block")
	assert.Equal(t, uint64(entry.DefaultEqp), bt.Get(0), "mask alias")
}

func TestBlockTableEncodeExpands(t *testing.T) {
	bt := NewBlockTable(0)
	require.NoError(t, bt.Set(9000, 42))
	assert.ErrorIs(t, bt.Set(0, 1), types.ErrInvalidKey)

	out := bt.Encode()
	assert.Len(t, out, format.EqpCount*format.EqpEntrySize)
	back, err := DecodeBlockTable(out, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), back.Get(9000))
	assert.Zero(t, back.Get(1))
}

func TestBlockTableTruncated(t *testing.T) {
	_, err := DecodeBlockTable([]byte{1, 2}, 0)
	assert.ErrorIs(t, err, format.ErrTruncated)

	data := testutil.BlockTable(0, map[uint16]uint64{500: 1})
	_, err = DecodeBlockTable(data[:len(data)-8], 0)
	assert.ErrorIs(t, err, format.ErrTruncated)
	assert.True(t, types.IsKind(err, types.ErrKindFormat))
}

func TestEqdpDecode(t *testing.T) {
	data := testutil.EqdpTable(101, 160, map[uint16]uint16{3: 0b11, 500: 0b1100})
	f, err := DecodeEqdp(data)
	require.NoError(t, err)
	assert.Equal(t, uint16(101), f.Identifier)
	assert.Equal(t, uint16(0b11), f.Get(3))
	assert.Equal(t, uint16(0b1100), f.Get(500))
	assert.Zero(t, f.Get(200), "absent block")
	assert.Zero(t, f.Get(9999), "past table")
}

func TestEqdpSetGrowsAndRoundTrips(t *testing.T) {
	f := NewEqdp(201)
	require.NoError(t, f.Set(700, 0b10))
	back, err := DecodeEqdp(f.Encode())
	require.NoError(t, err)
	assert.Equal(t, uint16(0b10), back.Get(700))
	assert.Equal(t, uint16(201), back.Identifier)
}

func TestEqdpCorrupt(t *testing.T) {
	data := testutil.EqdpTable(101, 160, map[uint16]uint16{3: 1})
	_, err := DecodeEqdp(data[:len(data)-2])
	assert.ErrorIs(t, err, types.ErrCorrupt)

	_, err = DecodeEqdp(data[:4])
	assert.ErrorIs(t, err, format.ErrTruncated)
}

func TestImcDecode(t *testing.T) {
	e1 := entry.Imc{MaterialID: 3, SoundID: 9}
	data := testutil.ImcTable(0b11111, [][]entry.Imc{
		{{}, {MaterialID: 4}, {}, {}, {}},
		{{}, e1, {}, {}, {}},
	})
	f, err := DecodeImc(data)
	require.NoError(t, err)
	assert.Equal(t, 1, f.Count())

	got, err := f.Get(1, enums.SlotBody.Index())
	require.NoError(t, err)
	assert.Equal(t, e1, got)

	past, err := f.Get(2, enums.SlotBody.Index())
	require.NoError(t, err)
	assert.Equal(t, entry.Imc{MaterialID: 4}, past, "variants past the end read as variant 0")

	_, err = f.Get(-1, 0)
	assert.ErrorIs(t, err, types.ErrOutOfRange)

	single, err := DecodeImc(testutil.ImcTable(0b1, [][]entry.Imc{{e1}}))
	require.NoError(t, err)
	_, err = single.Get(0, 1)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestImcSetExtendsVariants(t *testing.T) {
	def := entry.Imc{MaterialID: 1}
	f, err := DecodeImc(testutil.ImcTable(0b1, [][]entry.Imc{{def}}))
	require.NoError(t, err)

	require.NoError(t, f.Set(3, 0, entry.Imc{VfxID: 8}))
	back, err := DecodeImc(f.Encode())
	require.NoError(t, err)
	assert.Equal(t, 3, back.Count())
	v2, _ := back.Get(2, 0)
	assert.Equal(t, def, v2)
	v3, _ := back.Get(3, 0)
	assert.Equal(t, uint8(8), v3.VfxID)
}

func TestEstRoundTrip(t *testing.T) {
	data := testutil.EstTable(map[testutil.EstKey]uint16{
		{SetID: 4, GenderRace: 201}: 7,
		{SetID: 1, GenderRace: 101}: 2,
	})
	f, err := DecodeEst(data)
	require.NoError(t, err)
	assert.Equal(t, 2, f.Len())
	assert.Equal(t, uint16(7), f.Get(EstKey{SetID: 4, GenderRace: 201}))
	assert.Zero(t, f.Get(EstKey{SetID: 4, GenderRace: 101}))

	f.Set(EstKey{SetID: 1, GenderRace: 101}, 0)
	f.Set(EstKey{SetID: 9, GenderRace: 101}, 5)
	out := f.Encode()
	assert.Equal(t, testutil.EstTable(map[testutil.EstKey]uint16{
		{SetID: 4, GenderRace: 201}: 7,
		{SetID: 9, GenderRace: 101}: 5,
	}), out, "encoding is canonical")

	_, err = DecodeEst(out[:len(out)-1])
	assert.ErrorIs(t, err, format.ErrTruncated)
}

func TestCmp(t *testing.T) {
	data := testutil.CmpTable(1, map[testutil.CmpKey]float32{{SubRace: 16, Attribute: 13}: 2.5})
	f, err := DecodeCmp(data)
	require.NoError(t, err)
	v, err := f.Get(enums.SubRaceVeena, enums.RspBustMaxZ)
	require.NoError(t, err)
	assert.Equal(t, float32(2.5), v)

	require.NoError(t, f.Set(enums.SubRaceMidlander, enums.RspMaleMinSize, 0.5))
	out := f.Encode()
	assert.Equal(t, data[:format.CmpRacialScalingStart], out[:format.CmpRacialScalingStart])

	_, err = f.Get(enums.SubRaceUnknown, enums.RspBustMaxZ)
	assert.ErrorIs(t, err, types.ErrInvalidKey)

	_, err = DecodeCmp(data[:100])
	assert.ErrorIs(t, err, format.ErrTruncated)
}
