package edit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/entry"
	"github.com/joshuapare/metakit/meta/enums"
	"github.com/joshuapare/metakit/meta/files"
	"github.com/joshuapare/metakit/meta/manip"
)

type recordingSink struct {
	mu          sync.Mutex
	published   manip.Set
	generation  uint64
	persists    int
	failPersist error
}

func (s *recordingSink) Persist(_ context.Context, _ manip.Set, _ uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persists++
	return s.failPersist
}

func (s *recordingSink) Publish(set manip.Set, gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.published = set
	s.generation = gen
}

func newEditor(t *testing.T, committed manip.Set) (*Editor, *recordingSink) {
	t.Helper()
	sink := &recordingSink{}
	defaults := files.NewDefaults(testutil.NewStore(t), nil)
	return New(committed, defaults, sink, Options{}), sink
}

var (
	bodyEqp   = manip.NewEqp(entry.Eqp(0xffff), enums.SlotBody, 5)
	headGmp   = manip.NewGmp(entry.Gmp{Enabled: true, RotationA: 45}, 12)
	headEst   = manip.NewEst(20, enums.EstHead, enums.GenderMale, enums.RaceMidlander, 1)
	bodyImc   = manip.NewImcEquipment(enums.ObjectEquipment, 1, 1, enums.SlotBody, entry.Imc{MaterialID: 9})
	missing   = manip.NewImcEquipment(enums.ObjectEquipment, 999, 1, enums.SlotBody, entry.Imc{MaterialID: 1})
	badRace   = manip.NewEqdp(entry.Eqdp(0b11), enums.SlotHead, enums.GenderMaleNpc, enums.RaceHighlander, 1)
	wideRot   = manip.NewGmp(entry.Gmp{Enabled: true, RotationA: 400}, 3)
	smallRsp  = manip.NewRsp(0.5, enums.SubRaceMidlander, enums.RspMaleMaxSize)
)

func TestAddToEmptyEditor(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})

	assert.Equal(t, Clean, e.State())
	require.True(t, e.CanAdd(ctx, bodyEqp))
	require.True(t, e.Add(ctx, bodyEqp))

	assert.True(t, e.Changes())
	assert.Equal(t, Dirty, e.State())
	assert.Equal(t, []manip.Eqp{bodyEqp}, e.Eqp())
	assert.Empty(t, e.Gmp())
	assert.Equal(t, 1, e.Len())
}

func TestCheckAddReasons(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})
	require.True(t, e.Add(ctx, headGmp))

	tests := []struct {
		name string
		m    manip.Manipulation
		want error
	}{
		{"already edited", headGmp.WithEntry(entry.Gmp{}), ErrAlreadyEdited},
		{"invalid race and gender", badRace, ErrInvalidCombination},
		{"missing imc table", missing, ErrTableMissing},
		{"out of range", wideRot, ErrOutOfRange},
		{"nil", nil, ErrInvalidCombination},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := e.CheckAdd(ctx, tt.m)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.False(t, e.CanAdd(ctx, tt.m))
			assert.False(t, e.Add(ctx, tt.m))
		})
	}
	assert.Equal(t, 1, e.Len())
}

func TestCheckAddReportsDuplicateBeforeRange(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})
	require.True(t, e.Add(ctx, headGmp))

	out := headGmp.WithEntry(entry.Gmp{RotationB: 999})
	assert.ErrorIs(t, e.CheckAdd(ctx, out), ErrAlreadyEdited)
}

func TestChange(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})

	_, err := e.Change(headEst)
	assert.ErrorIs(t, err, ErrManipulationNotFound)

	require.True(t, e.Add(ctx, headEst))
	changed, err := e.Change(headEst.WithEntry(33))
	require.NoError(t, err)
	assert.True(t, changed)
	got, ok := e.Get(headEst.Identifier())
	require.True(t, ok)
	assert.Equal(t, entry.Est(33), got.(manip.Est).Entry)

	changed, err = e.Change(headEst.WithEntry(33))
	require.NoError(t, err)
	assert.False(t, changed, "equal value is not a change")

	require.True(t, e.Add(ctx, headGmp))
	_, err = e.Change(headGmp.WithEntry(entry.Gmp{RotationB: 500}))
	assert.ErrorIs(t, err, ErrOutOfRange)
	got, _ = e.Get(headGmp.Identifier())
	assert.True(t, got.Equal(headGmp), "rejected change must not be stored")
}

func TestChangeRspRange(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})
	require.True(t, e.Add(ctx, smallRsp))

	tests := []struct {
		name  string
		value entry.Rsp
		ok    bool
	}{
		{"lower bound", 0.01, true},
		{"upper bound", 8.0, true},
		{"inside", 2.5, true},
		{"below", 0.009, false},
		{"above", 8.01, false},
		{"zero", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Change(smallRsp.WithEntry(tt.value))
			if tt.ok {
				require.NoError(t, err)
				got, _ := e.Get(smallRsp.Identifier())
				assert.Equal(t, tt.value, got.(manip.Rsp).Entry)
				return
			}
			assert.ErrorIs(t, err, ErrOutOfRange)
			got, _ := e.Get(smallRsp.Identifier())
			assert.NotEqual(t, tt.value, got.(manip.Rsp).Entry)
		})
	}
}

func TestChangeImcSoundKeepsSiblings(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})
	def, err := files.NewDefaults(testutil.NewStore(t), nil).For(ctx, bodyImc)
	require.NoError(t, err)
	seeded := def.(manip.Imc)
	require.True(t, e.Add(ctx, seeded))

	next := seeded.Entry
	next.SoundID = 33
	changed, err := e.Change(seeded.WithEntry(next))
	require.NoError(t, err)
	require.True(t, changed)

	got, _ := e.Get(seeded.Identifier())
	imc := got.(manip.Imc).Entry
	assert.Equal(t, uint8(33), imc.SoundID)
	want := testutil.ImcE0001Body1
	want.SoundID = 33
	assert.Equal(t, want, imc)

	next.SoundID = 64
	_, err = e.Change(seeded.WithEntry(next))
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestAddImcVariantPastTable(t *testing.T) {
	ctx := context.Background()
	e, sink := newEditor(t, manip.Set{})

	// e0001.imc holds two variants.
	fresh := manip.NewImcEquipment(enums.ObjectEquipment, 1, 3, enums.SlotBody, entry.Imc{MaterialID: 5})
	require.NoError(t, e.CheckAdd(ctx, fresh))
	require.True(t, e.Add(ctx, fresh))
	require.NoError(t, e.ApplyManipulations(ctx))
	assert.True(t, sink.published.Has(fresh.Identifier()))

	d, err := e.Diff(ctx, fresh)
	require.NoError(t, err)
	require.NotNil(t, d.Default)
	assert.Equal(t, entry.Imc{MaterialID: 1}, d.Default.(manip.Imc).Entry)
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})
	require.True(t, e.Add(ctx, bodyImc))

	assert.True(t, e.Delete(bodyImc))
	assert.False(t, e.Delete(bodyImc))
	assert.False(t, e.Delete(nil))
	assert.Equal(t, 0, e.Len())
	assert.False(t, e.Changes(), "add then delete returns to the committed set")
}

func TestChangesComparesAgainstCommitted(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.NewSet(headEst))

	_, err := e.Change(headEst.WithEntry(99))
	require.NoError(t, err)
	assert.True(t, e.Changes())
	_, err = e.Change(headEst)
	require.NoError(t, err)
	assert.False(t, e.Changes())

	assert.True(t, e.Delete(headEst))
	assert.True(t, e.Changes())
	require.True(t, e.Add(ctx, headEst))
	assert.False(t, e.Changes())
}

func TestApplyPublishesWorkingSet(t *testing.T) {
	ctx := context.Background()
	var commits []error
	sink := &recordingSink{}
	e := New(manip.Set{}, files.NewDefaults(testutil.NewStore(t), nil), sink, Options{
		Generation: 7,
		OnCommit:   func(err error) { commits = append(commits, err) },
	})

	require.True(t, e.Add(ctx, bodyEqp))
	require.True(t, e.Add(ctx, headGmp))
	require.NoError(t, e.ApplyManipulations(ctx))

	want := manip.NewSet(bodyEqp, headGmp)
	assert.True(t, sink.published.Equal(want))
	assert.Equal(t, uint64(8), sink.generation)
	assert.Equal(t, uint64(8), e.Generation())
	assert.True(t, e.Committed().Equal(want))
	assert.Equal(t, Clean, e.State())
	assert.Equal(t, []error{nil}, commits)

	// A clean editor does not commit again.
	require.NoError(t, e.ApplyManipulations(ctx))
	assert.Equal(t, 1, sink.persists)
}

func TestApplyFailureKeepsCommitted(t *testing.T) {
	ctx := context.Background()
	e, sink := newEditor(t, manip.NewSet(headEst))
	sink.failPersist = errors.New("disk full")

	require.True(t, e.Add(ctx, bodyEqp))
	err := e.ApplyManipulations(ctx)
	require.Error(t, err)

	assert.True(t, e.Committed().Equal(manip.NewSet(headEst)))
	assert.Equal(t, uint64(0), e.Generation())
	assert.Equal(t, 2, e.Len(), "working set keeps its edits")
	assert.True(t, e.Changes())

	sink.failPersist = nil
	require.NoError(t, e.ApplyManipulations(ctx))
	assert.Equal(t, uint64(1), e.Generation())
}

func TestRevert(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.NewSet(headEst))

	require.True(t, e.Add(ctx, bodyEqp))
	require.True(t, e.Delete(headEst))
	e.RevertManipulations()

	assert.False(t, e.Changes())
	assert.True(t, e.All().Equal(manip.NewSet(headEst)))
}

func TestConcurrentAdds(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})

	var wg sync.WaitGroup
	for i := uint16(1); i <= 32; i++ {
		wg.Add(1)
		go func(id uint16) {
			defer wg.Done()
			e.Add(ctx, manip.NewGmp(entry.Gmp{Enabled: true}, id))
		}(i)
	}
	wg.Wait()
	assert.Len(t, e.Gmp(), 32)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "clean", Clean.String())
	assert.Equal(t, "dirty", Dirty.String())
}
