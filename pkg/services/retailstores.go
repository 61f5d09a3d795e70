// Package services contains the domain services: one per area of the app,
// each orchestrating remote calls, cached records and AppState publication.
// Services are the only writers of AppState.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/appstate"
	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/events"
	"github.com/illmade-knight/go-grocery/pkg/fetch"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// RetailStoresConfig holds the cache windows for store search and details.
type RetailStoresConfig struct {
	SearchTTL  time.Duration
	DetailsTTL time.Duration
	Now        func() time.Time
}

// RetailStoresService finds stores for a location and resolves the selected
// store's details.
type RetailStoresService struct {
	searchCoord  *fetch.Coordinator[cachestore.StoreSearchKey, grocery.StoreSearchResult]
	detailsCoord *fetch.Coordinator[cachestore.StoreDetailsKey, grocery.RetailStoreDetails]
	state        *appstate.AppState
	events       events.Logger
	logger       zerolog.Logger
}

// NewRetailStoresService wires the store search and details coordinators.
func NewRetailStoresService(
	cfg *RetailStoresConfig,
	searcher remote.StoreSearcher,
	detailsFetcher remote.StoreDetailsFetcher,
	searchStore cachestore.RecordStore[cachestore.StoreSearchKey, grocery.StoreSearchResult],
	detailsStore cachestore.RecordStore[cachestore.StoreDetailsKey, grocery.RetailStoreDetails],
	state *appstate.AppState,
	eventLogger events.Logger,
	logger zerolog.Logger,
) (*RetailStoresService, error) {
	if searcher == nil || detailsFetcher == nil {
		return nil, errors.New("store searcher and details fetcher cannot be nil")
	}
	if state == nil {
		return nil, errors.New("app state cannot be nil")
	}

	searchRemote := func(ctx context.Context, key cachestore.StoreSearchKey) (grocery.StoreSearchResult, error) {
		if key.Postcode != "" {
			return searcher.SearchByPostcode(ctx, key.Postcode)
		}
		return searcher.SearchByLocation(ctx, key.Latitude, key.Longitude)
	}
	searchCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "store-search", TTL: cfg.SearchTTL, Now: cfg.Now},
		searchRemote, searchStore, logger,
	)
	if err != nil {
		return nil, err
	}

	detailsRemote := func(ctx context.Context, key cachestore.StoreDetailsKey) (grocery.RetailStoreDetails, error) {
		return detailsFetcher.StoreDetails(ctx, key.StoreID, key.Postcode)
	}
	detailsCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "store-details", TTL: cfg.DetailsTTL, Now: cfg.Now},
		detailsRemote, detailsStore, logger,
	)
	if err != nil {
		return nil, err
	}

	return &RetailStoresService{
		searchCoord:  searchCoord,
		detailsCoord: detailsCoord,
		state:        state,
		events:       eventLogger,
		logger:       logger.With().Str("component", "RetailStoresService").Logger(),
	}, nil
}

// SearchByPostcode finds stores serving a postcode and publishes the result.
func (s *RetailStoresService) SearchByPostcode(ctx context.Context, postcode string) (grocery.StoreSearchResult, error) {
	return s.search(ctx, cachestore.NewStoreSearchKey(postcode))
}

// SearchByLocation finds stores serving a coordinate pair and publishes the
// result.
func (s *RetailStoresService) SearchByLocation(ctx context.Context, latitude, longitude float64) (grocery.StoreSearchResult, error) {
	return s.search(ctx, cachestore.NewLocationSearchKey(latitude, longitude))
}

func (s *RetailStoresService) search(ctx context.Context, key cachestore.StoreSearchKey) (grocery.StoreSearchResult, error) {
	record, err := s.searchCoord.Fetch(ctx, key)
	if err != nil {
		return grocery.StoreSearchResult{}, err
	}

	result := record.Value
	s.state.Update(func(data *appstate.UserData) {
		data.SearchResult = &result
		data.FulfilmentLocation = &grocery.FulfilmentLocation{
			Postcode:  result.Postcode,
			Latitude:  result.Latitude,
			Longitude: result.Longitude,
		}
	})

	// The first-order flag feeds analytics only; it never changes caching.
	isFirstOrder := s.state.Snapshot().IsFirstOrder
	s.events.Log(events.New(events.KindStoreSearch, map[string]any{
		"postcode":       result.Postcode,
		"store_count":    len(result.Stores),
		"is_first_order": isFirstOrder,
	}))

	return result, nil
}

// StoreDetails resolves the full record for a store and selects it. Selecting
// a different store clears the menu state that depended on the previous one.
func (s *RetailStoresService) StoreDetails(ctx context.Context, storeID int, postcode string) (grocery.RetailStoreDetails, error) {
	record, err := s.detailsCoord.Fetch(ctx, cachestore.NewStoreDetailsKey(storeID, postcode))
	if err != nil {
		return grocery.RetailStoreDetails{}, err
	}

	details := record.Value
	s.state.Update(func(data *appstate.UserData) {
		if data.SelectedStore == nil || data.SelectedStore.ID != details.ID {
			data.MenuCategories = nil
			data.MenuSearch = nil
		}
		if data.SelectedFulfilmentMethod != "" && !details.Supports(data.SelectedFulfilmentMethod) {
			data.SelectedFulfilmentMethod = ""
		}
		data.SelectedStore = &details
	})

	s.events.Log(events.New(events.KindStoreSelected, map[string]any{
		"store_id": details.ID,
	}))

	return details, nil
}

// SelectFulfilmentMethod records the chosen fulfilment method. The selected
// store must offer it.
func (s *RetailStoresService) SelectFulfilmentMethod(method grocery.FulfilmentMethod) error {
	data := s.state.Snapshot()
	if data.SelectedStore == nil {
		return grocery.ErrStoreSelectionRequired
	}
	if !data.SelectedStore.Supports(method) {
		return errors.New("selected store does not support " + string(method))
	}

	s.state.Update(func(data *appstate.UserData) {
		data.SelectedFulfilmentMethod = method
	})
	return nil
}
