package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	_, err = f.Get(ctx, "pockets")
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, f.Set(ctx, "pockets", []byte(`{"version":1}`)))

	got, err := f.Get(ctx, "pockets")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":1}`), got)

	// Overwrite replaces the previous value in full.
	require.NoError(t, f.Set(ctx, "pockets", []byte(`{"version":2}`)))
	got, err = f.Get(ctx, "pockets")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"version":2}`), got)

	require.NoError(t, f.Remove(ctx, "pockets"))
	_, err = f.Get(ctx, "pockets")
	require.ErrorIs(t, err, ErrNotFound)

	// Removing an absent key is not an error.
	require.NoError(t, f.Remove(ctx, "pockets"))
}

func TestFileKeysAreIsolated(t *testing.T) {
	ctx := context.Background()
	f, err := NewFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, f.Set(ctx, "user-a", []byte("a")))
	require.NoError(t, f.Set(ctx, "user-b", []byte("b")))

	got, err := f.Get(ctx, "user-a")
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	require.NoError(t, f.Remove(ctx, "user-a"))
	got, err = f.Get(ctx, "user-b")
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}

func TestFileSetLeavesNoTempFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(ctx, "pockets", []byte("x")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "pockets.json", entries[0].Name())
}

func TestFilePing(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(filepath.Join(dir, "data"))
	require.NoError(t, err)
	require.NoError(t, f.Ping(context.Background()))

	require.NoError(t, os.RemoveAll(filepath.Join(dir, "data")))
	assert.Error(t, f.Ping(context.Background()))
}

func TestMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, err := m.Get(ctx, "pockets")
	require.ErrorIs(t, err, ErrNotFound)

	value := []byte("snapshot")
	require.NoError(t, m.Set(ctx, "pockets", value))

	got, err := m.Get(ctx, "pockets")
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), got)

	// The store must hold its own copy.
	value[0] = 'X'
	got[1] = 'Y'
	fresh, err := m.Get(ctx, "pockets")
	require.NoError(t, err)
	assert.Equal(t, []byte("snapshot"), fresh)

	require.NoError(t, m.Remove(ctx, "pockets"))
	_, err = m.Get(ctx, "pockets")
	require.ErrorIs(t, err, ErrNotFound)
}
