package schema

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/rawstore/internal/fs"
)

func testDescriptor(t *testing.T) *Descriptor {
	t.Helper()
	d, err := Derive([]Column{
		{Name: "a", Type: Int32()},
		{Name: "b", Type: FixedBytes(4)},
	})
	require.NoError(t, err)
	d.RowCount = 3
	return d
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	d := testDescriptor(t)

	require.NoError(t, d.Save(fs.Default, dir))

	got, err := Load(fs.Default, dir)
	require.NoError(t, err)

	assert.Equal(t, d.RowWidth, got.RowWidth)
	assert.Equal(t, int64(3), got.RowCount)
	assert.Equal(t, d.Columns, got.Columns)
}

func TestSaveOverwrites(t *testing.T) {
	dir := t.TempDir()
	d := testDescriptor(t)
	require.NoError(t, d.Save(fs.Default, dir))

	d.RowCount = 10
	require.NoError(t, d.Save(fs.Default, dir))

	got, err := Load(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.RowCount)

	// No leftover temp file from the atomic rename.
	_, err = os.Stat(filepath.Join(dir, FileName+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(fs.Default, filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNotFound)

	// Directory exists but holds no descriptor.
	_, err = Load(fs.Default, t.TempDir())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLoadRejectsBadDescriptor(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"garbage", "not json"},
		{"unknown version", `{"version":99,"row_width":8,"row_count":1,"columns":[{"name":"a","kind":"int64"}]}`},
		{"unknown kind", `{"version":1,"row_width":8,"row_count":1,"columns":[{"name":"a","kind":"decimal"}]}`},
		{"row width mismatch", `{"version":1,"row_width":17,"row_count":1,"columns":[{"name":"a","kind":"int64"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(tt.content), 0644))

			_, err := Load(fs.Default, dir)
			assert.Error(t, err)
		})
	}
}

func TestSaveFaultInjection(t *testing.T) {
	dir := t.TempDir()
	d := testDescriptor(t)
	require.NoError(t, d.Save(fs.Default, dir))

	ffs := fs.NewFaultyFS(nil)
	ffs.AddRule(FileName+".tmp", fs.Fault{FailAfterBytes: 0})

	d.RowCount = 99
	assert.Error(t, d.Save(ffs, dir))

	// The previous descriptor survives a failed save.
	got, err := Load(fs.Default, dir)
	require.NoError(t, err)
	assert.Equal(t, int64(3), got.RowCount)
}
