package resource

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/format"
	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/files"
	"github.com/joshuapare/metakit/meta/manip"
	"github.com/joshuapare/metakit/pkg/types"
)

func TestHandleRefCounting(t *testing.T) {
	h := NewHandle(KeyFor("a.pbd"), []byte("x"))
	assert.False(t, h.IsInvalid())
	assert.Same(t, h, h.Acquire())
	assert.Equal(t, int32(2), h.Refs())

	h.Release()
	assert.False(t, h.IsInvalid())
	h.Release()
	assert.True(t, h.IsInvalid())
	assert.Nil(t, h.Data())
	assert.Nil(t, h.Acquire(), "released handles can not be revived")
	h.Release()
	assert.Equal(t, int32(0), h.Refs())

	var none *Handle
	assert.True(t, none.IsInvalid())
	assert.Nil(t, none.Acquire())
	none.Release()
}

func TestHandleEmptyIsInvalid(t *testing.T) {
	assert.True(t, NewHandle(KeyFor("a.pbd"), nil).IsInvalid())
}

func TestHandleConcurrentAcquireRelease(t *testing.T) {
	h := NewHandle(KeyFor("a.pbd"), []byte("x"))
	var wg sync.WaitGroup
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := h.Acquire(); got != nil {
				got.Release()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), h.Refs())
}

func TestKeyFor(t *testing.T) {
	k := KeyFor(format.HumanPbdPath)
	assert.Equal(t, format.CategoryChara, k.Category)
	assert.Equal(t, format.ResourcePbd, k.Type)
	assert.Equal(t, format.CategoryCommon, KeyFor(format.EqpPath).Category)
}

func TestLoadResolvedPlain(t *testing.T) {
	l := NewLoader(testutil.NewStore(t), nil)
	h, err := l.LoadResolved(context.Background(), KeyFor(format.HumanPbdPath), Resolution{})
	require.NoError(t, err)
	defer h.Release()
	assert.Equal(t, []byte("PBD\x00default"), h.Data())
}

func TestLoadResolvedRedirect(t *testing.T) {
	store := testutil.NewStore(t)
	require.NoError(t, store.Put("mods/custom.pbd", []byte("PBD\x00custom")))
	l := NewLoader(store, nil)

	res := Resolution{Redirects: map[string]string{format.HumanPbdPath: "mods/custom.pbd"}}
	h, err := l.LoadResolved(context.Background(), KeyFor(format.HumanPbdPath), res)
	require.NoError(t, err)
	assert.Equal(t, []byte("PBD\x00custom"), h.Data())
}

func TestLoadResolvedAppliesManipulations(t *testing.T) {
	l := NewLoader(testutil.NewStore(t), nil)
	m := manip.NewEst(40, enums.EstHead, enums.GenderMale, enums.RaceMidlander, 1)
	res := Resolution{Collection: "c", Set: manip.NewSet(m)}

	h, err := l.LoadResolved(context.Background(), KeyFor(format.EstHeadPath), res)
	require.NoError(t, err)
	f, err := files.DecodeEst(h.Data())
	require.NoError(t, err)
	assert.Equal(t, uint16(40), f.Get(files.EstKey{SetID: 1, GenderRace: 101}))
}

func TestLoadResolvedSynthesizesMissingTable(t *testing.T) {
	store := testutil.NewStore(t)
	store.Delete(format.GmpPath)
	l := NewLoader(store, nil)

	m := manip.NewGmp(entry.Gmp{Enabled: true}, 2)
	h, err := l.LoadResolved(context.Background(), KeyFor(format.GmpPath), Resolution{Set: manip.NewSet(m)})
	require.NoError(t, err)
	bt, err := files.DecodeBlockTable(h.Data(), 0)
	require.NoError(t, err)
	assert.Equal(t, entry.Gmp{Enabled: true}.Value(), bt.Get(2))
}

func TestLoadResolvedMissingPlainFile(t *testing.T) {
	l := NewLoader(testutil.NewStore(t), nil)
	_, err := l.LoadResolved(context.Background(), KeyFor("chara/none.pbd"), Resolution{})
	assert.ErrorIs(t, err, types.ErrNotFound)
}
