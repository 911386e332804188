package rawstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rawstore/internal/fs"
	"github.com/hupe1980/rawstore/schema"
)

func TestGrow(t *testing.T) {
	s, dir := createTestStore(t, 3)
	require.NoError(t, s.Put(0, Row{7, "hi"}))
	require.NoError(t, s.Put(2, Row{9, "end"}))
	require.NoError(t, s.Close())

	app, err := Open(dir, ModeAppend)
	require.NoError(t, err)
	defer app.Close()

	require.NoError(t, app.Grow(2))
	assert.Equal(t, int64(5), app.Len())

	// Pre-existing rows survive the close/extend/reopen cycle.
	row, err := app.Get(0)
	require.NoError(t, err)
	assert.Equal(t, Row{int32(7), "hi"}, row)
	row, err = app.Get(2)
	require.NoError(t, err)
	assert.Equal(t, Row{int32(9), "end"}, row)

	// New rows decode without error; sparse fill reads as zero.
	row, err = app.Get(4)
	require.NoError(t, err)
	assert.Equal(t, Row{int32(0), ""}, row)

	// New rows are writable.
	require.NoError(t, app.Put(4, Row{5, "new"}))
	row, err = app.Get(4)
	require.NoError(t, err)
	assert.Equal(t, Row{int32(5), "new"}, row)

	// The grown row count is persisted for later opens.
	d, err := schema.Load(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(5), d.RowCount)

	fi, err := os.Stat(filepath.Join(dir, DataFileName))
	require.NoError(t, err)
	assert.Equal(t, int64(5)*int64(app.RowWidth())+1, fi.Size())
}

func TestGrowValidation(t *testing.T) {
	s, dir := createTestStore(t, 3)

	var mv *ErrModeViolation
	err := s.Grow(1)
	require.ErrorAs(t, err, &mv)
	assert.Equal(t, "grow", mv.Op)
	require.NoError(t, s.Close())

	app, err := Open(dir, ModeAppend)
	require.NoError(t, err)
	defer app.Close()

	assert.ErrorIs(t, app.Grow(0), ErrGrowCount)
	assert.ErrorIs(t, app.Grow(-1), ErrGrowCount)
	assert.Equal(t, int64(3), app.Len())
}

func TestGrowPersistFailureReopens(t *testing.T) {
	s, dir := createTestStore(t, 3)
	require.NoError(t, s.Put(0, Row{7, "hi"}))
	require.NoError(t, s.Close())

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(schema.FileName+".tmp", fs.Fault{FailAfterBytes: 0})

	app, err := Open(dir, ModeAppend, WithFS(ffs))
	require.NoError(t, err)
	defer app.Close()

	// The descriptor persist fails, but the handle must come back
	// reopened and consistent with its in-memory row count.
	require.Error(t, app.Grow(2))
	assert.Equal(t, int64(5), app.Len())

	row, err := app.Get(0)
	require.NoError(t, err)
	assert.Equal(t, Row{int32(7), "hi"}, row)
	_, err = app.Get(4)
	require.NoError(t, err)

	// The on-disk descriptor still carries the old count; a fresh open
	// must re-verify it.
	d, err := schema.Load(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(3), d.RowCount)
}

func TestGrowThenReadBackAcrossHandles(t *testing.T) {
	s, dir := createTestStore(t, 1)
	require.NoError(t, s.Close())

	app, err := Open(dir, ModeAppend)
	require.NoError(t, err)
	require.NoError(t, app.Grow(4))
	require.NoError(t, app.Put(3, Row{3, "row3"}))
	require.NoError(t, app.Close())

	ro, err := Open(dir, ModeReadOnly)
	require.NoError(t, err)
	defer ro.Close()

	assert.Equal(t, int64(5), ro.Len())
	row, err := ro.Get(3)
	require.NoError(t, err)
	assert.Equal(t, Row{int32(3), "row3"}, row)
}
