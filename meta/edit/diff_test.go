package edit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/metakit/internal/testutil"
	"github.com/joshuapare/metakit/meta/manip"
)

func TestDiffDirection(t *testing.T) {
	ctx := context.Background()
	e, _ := newEditor(t, manip.Set{})

	d, err := e.Diff(ctx, headEst)
	require.NoError(t, err)
	assert.Equal(t, Increased, d.Direction)
	assert.Equal(t, testutil.EstHeadSet1, d.Default.(manip.Est).Entry)

	d, err = e.Diff(ctx, smallRsp)
	require.NoError(t, err)
	assert.Equal(t, Decreased, d.Direction)

	d, err = e.Diff(ctx, headEst.WithEntry(testutil.EstHeadSet1))
	require.NoError(t, err)
	assert.Equal(t, Unchanged, d.Direction)

	d, err = e.Diff(ctx, headGmp)
	require.NoError(t, err)
	assert.Equal(t, Changed, d.Direction)
}

func TestDiffMissingTable(t *testing.T) {
	e, _ := newEditor(t, manip.Set{})
	d, err := e.Diff(context.Background(), missing)
	require.NoError(t, err)
	assert.Nil(t, d.Default)
	assert.Equal(t, Changed, d.Direction)
}

func TestDiffs(t *testing.T) {
	e, _ := newEditor(t, manip.NewSet(headEst, smallRsp))
	ds, err := e.Diffs(context.Background())
	require.NoError(t, err)
	require.Len(t, ds, 2)
	assert.Equal(t, Increased, ds[0].Direction)
	assert.Equal(t, Decreased, ds[1].Direction)
}
