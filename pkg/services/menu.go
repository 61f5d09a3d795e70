package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/appstate"
	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/fetch"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/loadable"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// MenuConfig holds the cache window and clock for menu fetches. Now drives
// the day component of menu cache keys, so an adjusted clock (server offset
// or mock date) flows into caching.
type MenuConfig struct {
	TTL time.Duration
	Now func() time.Time
}

// RetailStoreMenuService browses a selected store's menu: category pages,
// item lookups and free-text search. Every fetch is keyed by store,
// fulfilment method and day.
type RetailStoreMenuService struct {
	fetchCoord  *fetch.Coordinator[cachestore.MenuKey, grocery.MenuFetch]
	searchCoord *fetch.Coordinator[cachestore.MenuKey, grocery.MenuItemSearchResult]
	state       *appstate.AppState
	now         func() time.Time
	logger      zerolog.Logger
}

// NewRetailStoreMenuService wires the menu coordinators.
func NewRetailStoreMenuService(
	cfg *MenuConfig,
	fetcher remote.MenuFetcher,
	fetchStore cachestore.RecordStore[cachestore.MenuKey, grocery.MenuFetch],
	searchStore cachestore.RecordStore[cachestore.MenuKey, grocery.MenuItemSearchResult],
	state *appstate.AppState,
	logger zerolog.Logger,
) (*RetailStoreMenuService, error) {
	if fetcher == nil {
		return nil, errors.New("menu fetcher cannot be nil")
	}
	if state == nil {
		return nil, errors.New("app state cannot be nil")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	fetchRemote := func(ctx context.Context, key cachestore.MenuKey) (grocery.MenuFetch, error) {
		method := grocery.FulfilmentMethod(key.FulfilmentMethod)
		if key.Kind == cachestore.MenuFetchItems {
			return fetcher.Items(ctx, key.StoreID, splitIDs(key.ItemIDs), method, key.Day)
		}
		return fetcher.Categories(ctx, key.StoreID, key.CategoryID, method, key.Day)
	}
	fetchCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "store-menu", TTL: cfg.TTL, Now: cfg.Now},
		fetchRemote, fetchStore, logger,
	)
	if err != nil {
		return nil, err
	}

	searchRemote := func(ctx context.Context, key cachestore.MenuKey) (grocery.MenuItemSearchResult, error) {
		return fetcher.Search(ctx, key.StoreID, key.Term, grocery.FulfilmentMethod(key.FulfilmentMethod), key.Day)
	}
	searchCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "store-menu-search", TTL: cfg.TTL, Now: cfg.Now},
		searchRemote, searchStore, logger,
	)
	if err != nil {
		return nil, err
	}

	return &RetailStoreMenuService{
		fetchCoord:  fetchCoord,
		searchCoord: searchCoord,
		state:       state,
		now:         now,
		logger:      logger.With().Str("component", "RetailStoreMenuService").Logger(),
	}, nil
}

// RootCategories fetches the selected store's top-level menu and publishes it.
func (s *RetailStoreMenuService) RootCategories(ctx context.Context) ([]grocery.MenuCategory, error) {
	key, err := s.menuKey(cachestore.MenuFetchCategories)
	if err != nil {
		return nil, err
	}
	key.CategoryID = grocery.RootCategoryID

	record, err := s.fetchCoord.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	categories := record.Value.Categories
	s.state.Update(func(data *appstate.UserData) {
		data.MenuCategories = categories
	})
	return categories, nil
}

// LoadRootCategories runs RootCategories through binding, so a screen can
// observe the loading / loaded / failed transitions while the menu arrives.
// A newer load on the same binding supersedes an in-flight one.
func (s *RetailStoreMenuService) LoadRootCategories(ctx context.Context, binding *loadable.Binding[[]grocery.MenuCategory]) {
	binding.Load(ctx, func(ctx context.Context) ([]grocery.MenuCategory, error) {
		return s.RootCategories(ctx)
	})
}

// LoadSearch runs Search through binding.
func (s *RetailStoreMenuService) LoadSearch(ctx context.Context, binding *loadable.Binding[grocery.MenuItemSearchResult], term string) {
	binding.Load(ctx, func(ctx context.Context) (grocery.MenuItemSearchResult, error) {
		return s.Search(ctx, term)
	})
}

// Category fetches one menu page: the sub-categories or items under categoryID.
func (s *RetailStoreMenuService) Category(ctx context.Context, categoryID int) (grocery.MenuFetch, error) {
	key, err := s.menuKey(cachestore.MenuFetchCategories)
	if err != nil {
		return grocery.MenuFetch{}, err
	}
	key.CategoryID = categoryID

	record, err := s.fetchCoord.Fetch(ctx, key)
	if err != nil {
		return grocery.MenuFetch{}, err
	}
	return record.Value, nil
}

// Items fetches specific menu items by ID, e.g. to refresh basket lines.
func (s *RetailStoreMenuService) Items(ctx context.Context, itemIDs []int) ([]grocery.MenuItem, error) {
	key, err := s.menuKey(cachestore.MenuFetchItems)
	if err != nil {
		return nil, err
	}
	key.ItemIDs = cachestore.JoinIDs(itemIDs)

	record, err := s.fetchCoord.Fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	return record.Value.Items, nil
}

// Search runs a free-text search across the selected store's menu and
// publishes the result.
func (s *RetailStoreMenuService) Search(ctx context.Context, term string) (grocery.MenuItemSearchResult, error) {
	key, err := s.menuKey(cachestore.MenuFetchSearch)
	if err != nil {
		return grocery.MenuItemSearchResult{}, err
	}
	key.Term = term

	record, err := s.searchCoord.Fetch(ctx, key)
	if err != nil {
		return grocery.MenuItemSearchResult{}, err
	}

	result := record.Value
	s.state.Update(func(data *appstate.UserData) {
		data.MenuSearch = &result
	})
	return result, nil
}

// splitIDs reverses cachestore.JoinIDs.
func splitIDs(joined string) []int {
	if joined == "" {
		return nil
	}
	var ids []int
	for _, part := range strings.Split(joined, ",") {
		if id, err := strconv.Atoi(part); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// menuKey builds the common parts of a menu cache key from the current
// selection. The day is truncated to midnight UTC.
func (s *RetailStoreMenuService) menuKey(kind cachestore.MenuFetchKind) (cachestore.MenuKey, error) {
	data := s.state.Snapshot()
	if data.SelectedStore == nil {
		return cachestore.MenuKey{}, grocery.ErrStoreSelectionRequired
	}
	if data.SelectedFulfilmentMethod == "" {
		return cachestore.MenuKey{}, grocery.ErrFulfilmentLocationRequired
	}

	return cachestore.MenuKey{
		Kind:             kind,
		StoreID:          data.SelectedStore.ID,
		FulfilmentMethod: string(data.SelectedFulfilmentMethod),
		Day:              s.now().UTC().Truncate(24 * time.Hour),
	}, nil
}
