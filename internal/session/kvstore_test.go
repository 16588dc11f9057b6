package session_test

import (
	"path/filepath"
	"testing"

	"taskflow/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T, path string) *session.KVStore {
	t.Helper()
	store, err := session.OpenKVStore(path)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestKVStore_SetGetDelete(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	_, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set("token", "tok1"))
	value, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok1", value)

	require.NoError(t, store.Delete("token"))
	_, ok, err = store.Get("token")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKVStore_SetOverwrites(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	require.NoError(t, store.Set("token", "old"))
	require.NoError(t, store.Set("token", "new"))

	value, ok, err := store.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "new", value)
}

func TestKVStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	store, err := session.OpenKVStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("token", "tok1"))
	require.NoError(t, store.Close())

	reopened := openTestStore(t, path)
	value, ok, err := reopened.Get("token")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok1", value)
}

func TestKVStore_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "state.db")

	store, err := session.OpenKVStore(path)
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Set("token", "tok1"))
}

func TestKVStore_DeleteMissingKeyIsNoop(t *testing.T) {
	store := openTestStore(t, filepath.Join(t.TempDir(), "state.db"))

	assert.NoError(t, store.Delete("absent"))
}
