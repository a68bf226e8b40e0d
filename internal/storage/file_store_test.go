package storage

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session", "store.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, KeyAccessToken, "token-a"))
	require.NoError(t, store.Set(ctx, KeyRefreshToken, "token-r"))

	value, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "token-a", value)

	require.NoError(t, store.Remove(ctx, KeyAccessToken))
	_, ok, err = store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	// removing an absent key is a no-op
	require.NoError(t, store.Remove(ctx, KeyAccessToken))
}

func TestFileStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "store.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyUserData, `{"id":"u-1"}`))
	require.NoError(t, store.Set(ctx, SummaryKey(2), `{"area_id":2}`))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)

	value, ok, err := reopened.Get(ctx, KeyUserData)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"id":"u-1"}`, value)

	// the rename-based flush leaves no temp file behind
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStoreKeysByPrefix(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(filepath.Join(t.TempDir(), "store.json"))
	require.NoError(t, err)

	require.NoError(t, store.Set(ctx, SummaryKey(1), "a"))
	require.NoError(t, store.Set(ctx, SummaryKey(2), "b"))
	require.NoError(t, store.Set(ctx, KeyUserData, "c"))

	keys, err := store.Keys(ctx, SummaryKeyPrefix)
	require.NoError(t, err)
	sort.Strings(keys)
	assert.Equal(t, []string{SummaryKey(1), SummaryKey(2)}, keys)

	require.NoError(t, store.RemoveMany(ctx, keys...))
	keys, err = store.Keys(ctx, SummaryKeyPrefix)
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestMemoryStoreRemoveMany(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Set(ctx, KeyAccessToken, "a"))
	require.NoError(t, store.Set(ctx, KeyRefreshToken, "r"))
	require.NoError(t, store.Set(ctx, KeyUserData, "u"))

	require.NoError(t, store.RemoveMany(ctx, KeyAccessToken, KeyRefreshToken, "never_set"))

	_, ok, err := store.Get(ctx, KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
	value, ok, err := store.Get(ctx, KeyUserData)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u", value)
}
