package cachestore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
)

func TestInMemoryStore_Lifecycle(t *testing.T) {
	ctx := context.Background()
	store := cachestore.NewInMemoryStore[cachestore.BusinessProfileKey, string]()
	key := cachestore.BusinessProfileKey{LocaleCode: "en-GB"}
	record := cachestore.Record[string]{Value: "payload", FetchedAt: time.Now()}

	// A miss is not an error.
	_, ok, err := store.Query(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Insert(ctx, key, record))

	fetched, ok, err := store.Query(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record, fetched)

	require.NoError(t, store.Clear(ctx, key))

	_, ok, err = store.Query(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "cleared record should be gone")

	// Clearing an absent key is a no-op.
	require.NoError(t, store.Clear(ctx, key))
}

func TestInMemoryStore_KeysAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := cachestore.NewInMemoryStore[cachestore.BusinessProfileKey, string]()
	keyGB := cachestore.BusinessProfileKey{LocaleCode: "en-GB"}
	keyIE := cachestore.BusinessProfileKey{LocaleCode: "en-IE"}

	require.NoError(t, store.Insert(ctx, keyGB, cachestore.Record[string]{Value: "gb"}))
	require.NoError(t, store.Insert(ctx, keyIE, cachestore.Record[string]{Value: "ie"}))
	require.NoError(t, store.Clear(ctx, keyGB))

	_, ok, err := store.Query(ctx, keyGB)
	require.NoError(t, err)
	assert.False(t, ok)

	fetched, ok, err := store.Query(ctx, keyIE)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ie", fetched.Value, "clearing one key must not touch another")
}
