package collection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/editstore"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/files"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/meta/resource"
)

func newManager(t *testing.T, store editstore.Store) *Manager {
	t.Helper()
	assets := testutil.NewStore(t)
	m := NewManager(store, resource.NewLoader(assets, nil), files.NewDefaults(assets, nil), Options{})
	t.Cleanup(m.Close)
	return m
}

var headEst = manip.NewEst(50, enums.EstHead, enums.GenderMale, enums.RaceMidlander, 1)

func estHead(t *testing.T, h *resource.Handle) uint16 {
	t.Helper()
	f, err := files.DecodeEst(h.Data())
	require.NoError(t, err)
	return f.Get(files.EstKey{SetID: 1, GenderRace: 101})
}

func TestCreateAndLoad(t *testing.T) {
	ctx := context.Background()
	store := editstore.NewMemory()
	m := newManager(t, store)

	c, err := m.Create(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "default", c.Name())
	assert.Equal(t, uint64(0), c.Generation())

	_, err = m.Create(ctx, "default")
	assert.ErrorIs(t, err, ErrExists)

	// A fresh manager over the same store finds it by name.
	other := newManager(t, store)
	got, err := other.LoadByName(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, c.ID(), got.ID())

	_, err = other.LoadByName(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	opened, err := other.Open(ctx, "fresh")
	require.NoError(t, err)
	assert.Equal(t, "fresh", opened.Name())
	assert.Len(t, other.Loaded(), 2)
}

func TestEditorApplyPublishesAndPersists(t *testing.T) {
	ctx := context.Background()
	store := editstore.NewMemory()
	m := newManager(t, store)
	c, err := m.Create(ctx, "default")
	require.NoError(t, err)

	e := m.Editor(c)
	require.True(t, e.Add(ctx, headEst))
	assert.Equal(t, 0, c.Set().Len(), "nothing is visible before apply")

	require.NoError(t, e.ApplyManipulations(ctx))
	assert.Equal(t, uint64(1), c.Generation())
	assert.True(t, c.Set().Equal(manip.NewSet(headEst)))

	rec, err := store.LoadEditSet(ctx, c.ID())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), rec.Generation)
	assert.True(t, rec.Set.Equal(c.Set()))
}

type failingStore struct {
	editstore.Store
}

func (failingStore) SaveEditSet(context.Context, editstore.Record) error {
	return errors.New("read-only")
}

func TestFailedPersistPublishesNothing(t *testing.T) {
	ctx := context.Background()
	mem := editstore.NewMemory()
	m := newManager(t, mem)
	c, err := m.Create(ctx, "default")
	require.NoError(t, err)
	c.store = failingStore{Store: mem}

	e := m.Editor(c)
	require.True(t, e.Add(ctx, headEst))
	require.Error(t, e.ApplyManipulations(ctx))
	assert.Equal(t, 0, c.Set().Len())
	assert.Equal(t, uint64(0), c.Generation())
}

func TestActiveCacheInvalidatedOnApply(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, editstore.NewMemory())
	c, err := m.Create(ctx, "default")
	require.NoError(t, err)
	require.NoError(t, m.Activate(c))
	require.True(t, c.Active())

	key := resource.KeyFor(format.EstHeadPath)
	h, err := c.Cache().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, uint16(testutil.EstHeadSet1), estHead(t, h))
	h.Release()

	e := m.Editor(c)
	require.True(t, e.Add(ctx, headEst))
	require.NoError(t, e.ApplyManipulations(ctx))

	h, err = c.Cache().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, uint16(50), estHead(t, h))
	h.Release()

	m.Deactivate(c)
	assert.False(t, c.Active())
	assert.Nil(t, c.Cache())
}

func TestRedirectResetsCache(t *testing.T) {
	ctx := context.Background()
	assets := testutil.NewStore(t)
	require.NoError(t, assets.Put("mods/alt.pbd", []byte("PBD\x00alt")))
	m := NewManager(editstore.NewMemory(), resource.NewLoader(assets, nil), files.NewDefaults(assets, nil), Options{})
	defer m.Close()

	c, err := m.Create(ctx, "default")
	require.NoError(t, err)
	require.NoError(t, m.Activate(c))

	key := resource.KeyFor(format.HumanPbdPath)
	h, err := c.Cache().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("PBD\x00default"), h.Data())
	h.Release()

	require.NoError(t, c.Redirect(format.HumanPbdPath, "mods/alt.pbd"))
	h, err = c.Cache().Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("PBD\x00alt"), h.Data())
	h.Release()
}

func TestRedirectAndPublishConverge(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, editstore.NewMemory())
	c, err := m.Create(ctx, "default")
	require.NoError(t, err)
	require.NoError(t, m.Activate(c))

	const rounds = 25
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			e := m.Editor(c)
			est := headEst.WithEntry(entry.Est(100 + i))
			if !e.Add(ctx, est) {
				_, err := e.Change(est)
				assert.NoError(t, err)
			}
			assert.NoError(t, e.ApplyManipulations(ctx))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			assert.NoError(t, c.Redirect(fmt.Sprintf("chara/redirect/%02d.pbd", i), "mods/alt.pbd"))
		}
	}()
	wg.Wait()

	cc := c.Cache()
	require.NotNil(t, cc)
	assert.Equal(t, uint64(rounds), c.Generation())
	assert.Equal(t, c.Generation(), cc.Generation())
	res := cc.Resolution()
	assert.True(t, res.Set.Equal(c.Set()))
	assert.Len(t, res.Redirects, rounds)

	h, err := cc.Get(ctx, resource.KeyFor(format.EstHeadPath))
	require.NoError(t, err)
	assert.Equal(t, uint16(100+rounds-1), estHead(t, h))
	h.Release()
}

func TestContextResolver(t *testing.T) {
	ctx := context.Background()
	m := newManager(t, editstore.NewMemory())
	r := ContextResolver{Manager: m}

	assert.False(t, r.IdentifyCollection(ctx, nil).Valid())

	def, err := m.Create(ctx, "default")
	require.NoError(t, err)
	m.SetDefault(def)
	assert.Same(t, def, r.IdentifyCollection(ctx, nil).Collection)

	other, err := m.Create(ctx, "other")
	require.NoError(t, err)
	assert.Same(t, other, r.IdentifyCollection(WithCollection(ctx, other), nil).Collection)

	assert.False(t, ContextResolver{}.IdentifyCollection(ctx, nil).Valid())
}

func TestCompose(t *testing.T) {
	low := manip.NewGmp(entry.Gmp{Enabled: true, RotationA: 10}, 3)
	high := manip.NewGmp(entry.Gmp{Enabled: true, RotationA: 20}, 3)
	tieA := manip.NewGmp(entry.Gmp{RotationB: 1}, 4)
	tieB := manip.NewGmp(entry.Gmp{RotationB: 2}, 4)
	disabled := manip.NewGmp(entry.Gmp{RotationB: 99}, 3)

	mods := []Mod{
		{Info: ModInfo{FolderName: "high", Enabled: true, Priority: 5}, Set: manip.NewSet(high)},
		{Info: ModInfo{FolderName: "low", Enabled: true, Priority: 1}, Set: manip.NewSet(low, headEst)},
		{Info: ModInfo{FolderName: "b", Enabled: true, Priority: 2}, Set: manip.NewSet(tieB)},
		{Info: ModInfo{FolderName: "a", Enabled: true, Priority: 2}, Set: manip.NewSet(tieA)},
		{Info: ModInfo{FolderName: "off", Enabled: false, Priority: 99}, Set: manip.NewSet(disabled)},
	}

	got := Compose(mods)
	want := manip.NewSet(high, tieB, headEst)
	assert.True(t, got.Equal(want), "got %v", got.All())

	winners := Winners(mods)
	assert.Equal(t, "high", winners[high.Identifier()])
	assert.Equal(t, "b", winners[tieB.Identifier()])
	assert.Equal(t, "low", winners[headEst.Identifier()])
}
