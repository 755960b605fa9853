package files

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/assets"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

type countingStore struct {
	inner assets.Store
	reads int
}

func (c *countingStore) ReadTable(ctx context.Context, cat format.Category, p string) ([]byte, error) {
	c.reads++
	return c.inner.ReadTable(ctx, cat, p)
}

func TestDefaultsPerCategory(t *testing.T) {
	ctx := context.Background()
	d := NewDefaults(testutil.NewStore(t), nil)

	eqp, err := d.Eqp(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, testutil.EqpSet5, eqp)
	eqp, err = d.Eqp(ctx, 400)
	require.NoError(t, err)
	assert.Equal(t, entry.DefaultEqp, eqp)

	gmp, err := d.Gmp(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, testutil.GmpSet12, gmp)

	eqdp, err := d.Eqdp(ctx, 101, false, 1)
	require.NoError(t, err)
	assert.Equal(t, testutil.EqdpMidlanderMaleSet1, eqdp)

	est, err := d.Est(ctx, enums.EstHead, 101, 1)
	require.NoError(t, err)
	assert.Equal(t, testutil.EstHeadSet1, est)
	est, err = d.Est(ctx, enums.EstHair, 101, 1)
	require.NoError(t, err, "missing est table reads as zero")
	assert.Zero(t, est)

	rsp, err := d.Rsp(ctx, enums.SubRaceMidlander, enums.RspMaleMaxSize)
	require.NoError(t, err)
	assert.Equal(t, testutil.RspMidlanderMaleMax, rsp)
}

func TestDefaultsImcAbsentIsDistinctFromZero(t *testing.T) {
	ctx := context.Background()
	d := NewDefaults(testutil.NewStore(t), nil)

	body := manip.NewImcEquipment(enums.ObjectEquipment, 1, 1, enums.SlotBody, entry.Imc{})
	got, err := d.Imc(ctx, body)
	require.NoError(t, err)
	assert.Equal(t, testutil.ImcE0001Body1, got)

	_, err = d.Imc(ctx, body.WithPrimaryID(2))
	assert.ErrorIs(t, err, types.ErrNotFound, "table missing")

	got, err = d.Imc(ctx, body.WithVariant(3))
	require.NoError(t, err, "variant past table")
	assert.Equal(t, entry.Imc{MaterialID: 1}, got)

	weapon := manip.NewImcBody(enums.ObjectWeapon, 201, 1, 1, entry.Imc{})
	got, err = d.Imc(ctx, weapon)
	require.NoError(t, err)
	assert.Equal(t, testutil.ImcW0201Variant1, got)
}

func TestDefaultsInvalidRaceSkipsStore(t *testing.T) {
	store := &countingStore{inner: testutil.NewStore(t)}
	d := NewDefaults(store, nil)

	_, err := d.Eqdp(context.Background(), enums.CombinedRace(enums.GenderMaleNpc, enums.RaceHighlander), false, 1)
	assert.ErrorIs(t, err, types.ErrInvalidKey)
	_, err = d.Est(context.Background(), enums.EstBody, 0, 1)
	assert.ErrorIs(t, err, types.ErrInvalidKey)
	assert.Zero(t, store.reads)
}

func TestDefaultsFor(t *testing.T) {
	ctx := context.Background()
	d := NewDefaults(testutil.NewStore(t), nil)

	cand := manip.NewEqp(0, enums.SlotBody, 5)
	got, err := d.For(ctx, cand)
	require.NoError(t, err)
	assert.Equal(t, testutil.EqpSet5.Mask(enums.SlotBody), got.(manip.Eqp).Entry)
	assert.Equal(t, cand.Identifier(), got.Identifier())

	eqdp, err := d.For(ctx, manip.NewEqdp(0, enums.SlotHead, enums.GenderMale, enums.RaceMidlander, 1))
	require.NoError(t, err)
	b1, b2 := eqdp.(manip.Eqdp).Bits()
	assert.True(t, b1 && b2)

	_, err = d.For(ctx, manip.NewImcEquipment(enums.ObjectEquipment, 99, 0, enums.SlotHead, entry.Imc{}))
	assert.True(t, errors.Is(err, types.ErrNotFound))
}

func TestDefaultsPropagatesStoreFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	d := NewDefaults(failingStore{err: boom}, nil)
	_, err := d.Gmp(context.Background(), 1)
	assert.ErrorIs(t, err, boom)
}

type failingStore struct{ err error }

func (f failingStore) ReadTable(context.Context, format.Category, string) ([]byte, error) {
	return nil, f.err
}
