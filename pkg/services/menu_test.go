package services_test

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

	"github.com/illmade-knight/go-grocery/pkg/appstate"
	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/loadable"
	"github.com/illmade-knight/go-grocery/pkg/services"
)

// --- Mocks & Test Setup ---

type mockMenuFetcher struct {
	categoriesCalls atomic.Int32
	itemsCalls      atomic.Int32
	searchCalls     atomic.Int32

	fetchResponse  grocery.MenuFetch
	searchResponse grocery.MenuItemSearchResult
	err            error

	mu          sync.Mutex
	fetchedDays []time.Time
	fetchedIDs  [][]int
}

func (m *mockMenuFetcher) Categories(_ context.Context, _, _ int, _ grocery.FulfilmentMethod, day time.Time) (grocery.MenuFetch, error) {
	m.categoriesCalls.Add(1)
	m.mu.Lock()
	m.fetchedDays = append(m.fetchedDays, day)
	m.mu.Unlock()
	if m.err != nil {
		return grocery.MenuFetch{}, m.err
	}
	return m.fetchResponse, nil
}

func (m *mockMenuFetcher) Items(_ context.Context, _ int, itemIDs []int, _ grocery.FulfilmentMethod, _ time.Time) (grocery.MenuFetch, error) {
	m.itemsCalls.Add(1)
	m.mu.Lock()
	m.fetchedIDs = append(m.fetchedIDs, itemIDs)
	m.mu.Unlock()
	if m.err != nil {
		return grocery.MenuFetch{}, m.err
	}
	return m.fetchResponse, nil
}

func (m *mockMenuFetcher) Search(_ context.Context, _ int, term string, _ grocery.FulfilmentMethod, _ time.Time) (grocery.MenuItemSearchResult, error) {
	m.searchCalls.Add(1)
	if m.err != nil {
		return grocery.MenuItemSearchResult{}, m.err
	}
	response := m.searchResponse
	response.Term = term
	return response, nil
}

type menuHarness struct {
	fetcher *mockMenuFetcher
	state   *appstate.AppState
	service *services.RetailStoreMenuService
	now     time.Time
}

func newMenuHarness(t *testing.T) *menuHarness {
	t.Helper()
	h := &menuHarness{
		fetcher: &mockMenuFetcher{
			fetchResponse: grocery.MenuFetch{
				StoreID:    2,
				Categories: []grocery.MenuCategory{{ID: 10, Name: "Bakery"}},
				Items:      []grocery.MenuItem{{ID: 100, Name: "Sourdough"}},
			},
			searchResponse: grocery.MenuItemSearchResult{StoreID: 2, Items: []grocery.MenuItem{{ID: 100}}},
		},
		state: appstate.New(zerolog.Nop()),
		now:   time.Date(2025, 6, 1, 23, 30, 0, 0, time.UTC),
	}
	service, err := services.NewRetailStoreMenuService(
		&services.MenuConfig{TTL: time.Hour, Now: func() time.Time { return h.now }},
		h.fetcher,
		cachestore.NewInMemoryStore[cachestore.MenuKey, grocery.MenuFetch](),
		cachestore.NewInMemoryStore[cachestore.MenuKey, grocery.MenuItemSearchResult](),
		h.state, zerolog.Nop(),
	)
	require.NoError(t, err)
	h.service = service
	return h
}

// --- Test Cases ---

func TestMenuService_RequiresStoreSelection(t *testing.T) {
	// Arrange
	h := newMenuHarness(t)

	// Act / Assert
	_, err := h.service.RootCategories(context.Background())
	require.ErrorIs(t, err, grocery.ErrStoreSelectionRequired)

	_, err = h.service.Search(context.Background(), "bread")
	require.ErrorIs(t, err, grocery.ErrStoreSelectionRequired)

	assert.Equal(t, int32(0), h.fetcher.categoriesCalls.Load())
	assert.Equal(t, int32(0), h.fetcher.searchCalls.Load())
}

func TestMenuService_RequiresFulfilmentMethod(t *testing.T) {
	h := newMenuHarness(t)
	h.state.Update(func(data *appstate.UserData) {
		data.SelectedStore = &grocery.RetailStoreDetails{ID: 2}
	})

	_, err := h.service.Category(context.Background(), 10)

	require.ErrorIs(t, err, grocery.ErrFulfilmentLocationRequired)
	assert.Equal(t, int32(0), h.fetcher.categoriesCalls.Load())
}

func TestMenuService_RootCategoriesPublishesToState(t *testing.T) {
	// Arrange
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentDelivery)

	// Act
	categories, err := h.service.RootCategories(context.Background())

	// Assert
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Bakery", categories[0].Name)
	assert.Equal(t, categories, h.state.Snapshot().MenuCategories)
}

func TestMenuService_FetchDayIsTruncatedToMidnightUTC(t *testing.T) {
	// Arrange: the clock reads 23:30.
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentDelivery)

	// Act
	_, err := h.service.RootCategories(context.Background())

	// Assert
	require.NoError(t, err)
	h.fetcher.mu.Lock()
	days := append([]time.Time{}, h.fetcher.fetchedDays...)
	h.fetcher.mu.Unlock()
	require.Len(t, days, 1)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), days[0])
}

func TestMenuService_FetchFailureFallsBackToSameDayCache(t *testing.T) {
	// Arrange: a successful fetch, then the network drops out.
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentDelivery)
	_, err := h.service.Category(context.Background(), 10)
	require.NoError(t, err)
	h.fetcher.err = &grocery.NetworkError{Op: "menu", Code: -1009, Err: errors.New("offline")}

	// Act
	page, err := h.service.Category(context.Background(), 10)

	// Assert
	require.NoError(t, err)
	assert.Len(t, page.Categories, 1)
}

func TestMenuService_DayRolloverMissesYesterdaysCache(t *testing.T) {
	// Arrange: cache a page just before midnight, then fail just after. The
	// key's day component has moved on, so yesterday's page cannot substitute.
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentDelivery)
	_, err := h.service.Category(context.Background(), 10)
	require.NoError(t, err)

	h.now = h.now.Add(time.Hour) // 00:30 the next day
	offline := &grocery.NetworkError{Op: "menu", Code: -1009, Err: errors.New("offline")}
	h.fetcher.err = offline

	// Act
	_, err = h.service.Category(context.Background(), 10)

	// Assert
	require.ErrorIs(t, err, offline)
}

func TestMenuService_ItemsRoundTripsIDs(t *testing.T) {
	// Arrange
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentCollection)

	// Act
	items, err := h.service.Items(context.Background(), []int{100, 101, 102})

	// Assert
	require.NoError(t, err)
	require.Len(t, items, 1)
	h.fetcher.mu.Lock()
	ids := append([][]int{}, h.fetcher.fetchedIDs...)
	h.fetcher.mu.Unlock()
	require.Len(t, ids, 1)
	assert.Equal(t, []int{100, 101, 102}, ids[0])
}

func TestMenuService_LoadRootCategoriesDrivesBinding(t *testing.T) {
	// Arrange
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentDelivery)
	binding := loadable.NewBinding[[]grocery.MenuCategory]()

	// Act
	h.service.LoadRootCategories(context.Background(), binding)

	// Assert
	require.Eventually(t, func() bool {
		return binding.Current().State() == loadable.StateLoaded
	}, time.Second, 10*time.Millisecond)

	categories, ok := binding.Current().Value()
	require.True(t, ok)
	require.Len(t, categories, 1)
	assert.Equal(t, "Bakery", categories[0].Name)
	assert.Equal(t, categories, h.state.Snapshot().MenuCategories, "the binding and AppState see the same load")
}

func TestMenuService_LoadRootCategoriesFailureReachesBinding(t *testing.T) {
	// Arrange: no selected store, so the load fails before any I/O.
	h := newMenuHarness(t)
	binding := loadable.NewBinding[[]grocery.MenuCategory]()

	// Act
	h.service.LoadRootCategories(context.Background(), binding)

	// Assert
	require.Eventually(t, func() bool {
		return binding.Current().State() == loadable.StateFailed
	}, time.Second, 10*time.Millisecond)
	assert.ErrorIs(t, binding.Current().Err(), grocery.ErrStoreSelectionRequired)
}

func TestMenuService_SearchPublishesToState(t *testing.T) {
	h := newMenuHarness(t)
	selectStore(h.state, 2, grocery.FulfilmentDelivery)

	result, err := h.service.Search(context.Background(), "bread")

	require.NoError(t, err)
	assert.Equal(t, "bread", result.Term)
	published := h.state.Snapshot().MenuSearch
	require.NotNil(t, published)
	assert.Equal(t, result, *published)
}
