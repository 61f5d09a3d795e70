package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/fetch"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// AddressConfig holds the cache windows for address search and the country
// picker.
type AddressConfig struct {
	SearchTTL    time.Duration
	CountriesTTL time.Duration
	Now          func() time.Time
}

// AddressService resolves postcodes to addresses and lists the countries
// offered in address entry.
type AddressService struct {
	searchCoord    *fetch.Coordinator[cachestore.AddressSearchKey, []grocery.Address]
	countriesCoord *fetch.Coordinator[cachestore.CountriesKey, []grocery.AddressSelectionCountry]
	logger         zerolog.Logger
}

// NewAddressService wires the address coordinators.
func NewAddressService(
	cfg *AddressConfig,
	searcher remote.AddressSearcher,
	searchStore cachestore.RecordStore[cachestore.AddressSearchKey, []grocery.Address],
	countriesStore cachestore.RecordStore[cachestore.CountriesKey, []grocery.AddressSelectionCountry],
	logger zerolog.Logger,
) (*AddressService, error) {
	if searcher == nil {
		return nil, errors.New("address searcher cannot be nil")
	}

	searchCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "address-search", TTL: cfg.SearchTTL, Now: cfg.Now},
		func(ctx context.Context, key cachestore.AddressSearchKey) ([]grocery.Address, error) {
			return searcher.SearchAddresses(ctx, key.Postcode, key.CountryCode)
		},
		searchStore, logger,
	)
	if err != nil {
		return nil, err
	}

	countriesCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "address-countries", TTL: cfg.CountriesTTL, Now: cfg.Now},
		func(ctx context.Context, key cachestore.CountriesKey) ([]grocery.AddressSelectionCountry, error) {
			return searcher.SelectionCountries(ctx, key.LocaleCode)
		},
		countriesStore, logger,
	)
	if err != nil {
		return nil, err
	}

	return &AddressService{
		searchCoord:    searchCoord,
		countriesCoord: countriesCoord,
		logger:         logger.With().Str("component", "AddressService").Logger(),
	}, nil
}

// FindAddresses looks up the addresses at a postcode.
func (s *AddressService) FindAddresses(ctx context.Context, postcode, countryCode string) ([]grocery.Address, error) {
	record, err := s.searchCoord.Fetch(ctx, cachestore.NewAddressSearchKey(postcode, countryCode))
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}

// SelectionCountries lists the countries offered in the address picker for a
// locale.
func (s *AddressService) SelectionCountries(ctx context.Context, localeCode string) ([]grocery.AddressSelectionCountry, error) {
	record, err := s.countriesCoord.Fetch(ctx, cachestore.CountriesKey{LocaleCode: localeCode})
	if err != nil {
		return nil, err
	}
	return record.Value, nil
}
