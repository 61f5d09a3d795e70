package fetch_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/fetch"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// --- Mocks & Test Setup ---

type profile struct {
	Name string `json:"name"`
}

// mockRemote simulates the network call behind a coordinator.
type mockRemote struct {
	callCount atomic.Int32
	result    profile
	err       error
}

func (m *mockRemote) fetch(_ context.Context, _ cachestore.BusinessProfileKey) (profile, error) {
	m.callCount.Add(1)
	if m.err != nil {
		return profile{}, m.err
	}
	return m.result, nil
}

// opLogStore wraps the in-memory store, recording the order of operations and
// optionally injecting failures.
type opLogStore struct {
	inner *cachestore.InMemoryStore[cachestore.BusinessProfileKey, profile]

	mu  sync.Mutex
	ops []string

	queryErr  error
	clearErr  error
	insertErr error
}

func newOpLogStore() *opLogStore {
	return &opLogStore{inner: cachestore.NewInMemoryStore[cachestore.BusinessProfileKey, profile]()}
}

func (s *opLogStore) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, op)
}

func (s *opLogStore) operations() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.ops...)
}

func (s *opLogStore) Query(ctx context.Context, key cachestore.BusinessProfileKey) (cachestore.Record[profile], bool, error) {
	s.record("query")
	if s.queryErr != nil {
		return cachestore.Record[profile]{}, false, s.queryErr
	}
	return s.inner.Query(ctx, key)
}

func (s *opLogStore) Clear(ctx context.Context, key cachestore.BusinessProfileKey) error {
	s.record("clear")
	if s.clearErr != nil {
		return s.clearErr
	}
	return s.inner.Clear(ctx, key)
}

func (s *opLogStore) Insert(ctx context.Context, key cachestore.BusinessProfileKey, record cachestore.Record[profile]) error {
	s.record("insert")
	if s.insertErr != nil {
		return s.insertErr
	}
	return s.inner.Insert(ctx, key, record)
}

var testKey = cachestore.BusinessProfileKey{LocaleCode: "en-GB"}

func newTestCoordinator(t *testing.T, remote *mockRemote, store *opLogStore, ttl time.Duration, now time.Time) *fetch.Coordinator[cachestore.BusinessProfileKey, profile] {
	t.Helper()
	coordinator, err := fetch.NewCoordinator(
		&fetch.Config{Name: "test-profile", TTL: ttl, Now: func() time.Time { return now }},
		remote.fetch,
		store,
		zerolog.Nop(),
	)
	require.NoError(t, err)
	return coordinator
}

// --- Test Cases ---

func TestCoordinator_RemoteSuccess_ClearsThenStores(t *testing.T) {
	// Arrange
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	remote := &mockRemote{result: profile{Name: "Snappy Shopper"}}
	store := newOpLogStore()
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, now)

	// Act
	record, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Snappy Shopper", record.Value.Name)
	assert.Equal(t, now, record.FetchedAt, "returned record should carry the fresh timestamp")
	assert.Equal(t, []string{"clear", "insert"}, store.operations(), "clear must strictly precede insert")

	stored, ok, err := store.inner.Query(context.Background(), testKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, record, stored, "stored record should equal the returned one")
}

func TestCoordinator_RemoteFailure_ValidCacheSubstitutes(t *testing.T) {
	// Arrange
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	networkErr := &grocery.NetworkError{Op: "getProfile", Code: -1009, Err: errors.New("offline")}
	remote := &mockRemote{err: networkErr}
	store := newOpLogStore()
	cached := cachestore.Record[profile]{Value: profile{Name: "Cached"}, FetchedAt: now.Add(-1 * time.Hour)}
	require.NoError(t, store.inner.Insert(context.Background(), testKey, cached))
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, now)

	// Act
	record, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	require.NoError(t, err, "network error should be swallowed when a valid cache exists")
	assert.Equal(t, cached, record, "the previously stored payload is served, not a re-derived one")
}

func TestCoordinator_RemoteFailure_ExpiredCachePropagatesError(t *testing.T) {
	// Arrange
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	networkErr := &grocery.NetworkError{Op: "getProfile", Code: -1009, Err: errors.New("offline")}
	remote := &mockRemote{err: networkErr}
	store := newOpLogStore()
	expired := cachestore.Record[profile]{Value: profile{Name: "Stale"}, FetchedAt: now.Add(-13 * time.Hour)}
	require.NoError(t, store.inner.Insert(context.Background(), testKey, expired))
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, now)

	// Act
	_, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	require.Error(t, err)
	assert.Equal(t, networkErr, err, "the original network error propagates, not a cache error")
}

func TestCoordinator_RemoteFailure_AtBoundaryCacheIsStillValid(t *testing.T) {
	// Arrange: the cached record's age equals the TTL exactly.
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	remote := &mockRemote{err: errors.New("offline")}
	store := newOpLogStore()
	boundary := cachestore.Record[profile]{Value: profile{Name: "Boundary"}, FetchedAt: now.Add(-12 * time.Hour)}
	require.NoError(t, store.inner.Insert(context.Background(), testKey, boundary))
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, now)

	// Act
	record, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "Boundary", record.Value.Name)
}

func TestCoordinator_RemoteFailure_NoCachePropagatesError(t *testing.T) {
	// Arrange
	networkErr := errors.New("connection refused")
	remote := &mockRemote{err: networkErr}
	store := newOpLogStore()
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, time.Now())

	// Act
	_, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	assert.Equal(t, networkErr, err)
}

func TestCoordinator_RemoteFailure_QueryErrorPropagatesOriginalError(t *testing.T) {
	// Arrange
	networkErr := errors.New("connection refused")
	remote := &mockRemote{err: networkErr}
	store := newOpLogStore()
	store.queryErr = errors.New("disk corrupt")
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, time.Now())

	// Act
	_, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	assert.Equal(t, networkErr, err, "a broken cache never masks the network error")
}

func TestCoordinator_StoreWriteFailureOverridesFetchSuccess(t *testing.T) {
	// Arrange
	remote := &mockRemote{result: profile{Name: "Fresh"}}
	store := newOpLogStore()
	store.insertErr = errors.New("disk full")
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, time.Now())

	// Act
	_, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	require.Error(t, err, "a successful fetch that cannot be persisted is an overall failure")
	var storeErr *grocery.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "insert", storeErr.Op)
}

func TestCoordinator_ClearFailureOverridesFetchSuccess(t *testing.T) {
	// Arrange
	remote := &mockRemote{result: profile{Name: "Fresh"}}
	store := newOpLogStore()
	store.clearErr = errors.New("locked")
	coordinator := newTestCoordinator(t, remote, store, 12*time.Hour, time.Now())

	// Act
	_, err := coordinator.Fetch(context.Background(), testKey)

	// Assert
	var storeErr *grocery.StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "clear", storeErr.Op)
	assert.NotContains(t, store.operations(), "insert", "insert must never run after a failed clear")
}

func TestNewCoordinator_Validation(t *testing.T) {
	remote := &mockRemote{}
	store := newOpLogStore()

	t.Run("rejects non-positive TTL", func(t *testing.T) {
		_, err := fetch.NewCoordinator(&fetch.Config{TTL: 0}, remote.fetch, store, zerolog.Nop())
		require.Error(t, err)
	})

	t.Run("rejects nil remote", func(t *testing.T) {
		_, err := fetch.NewCoordinator[cachestore.BusinessProfileKey, profile](&fetch.Config{TTL: time.Hour}, nil, store, zerolog.Nop())
		require.Error(t, err)
	})

	t.Run("rejects nil store", func(t *testing.T) {
		_, err := fetch.NewCoordinator(&fetch.Config{TTL: time.Hour}, remote.fetch, nil, zerolog.Nop())
		require.Error(t, err)
	})
}
