package services_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/services"
)

type mockAddressSearcher struct {
	searchCalls    atomic.Int32
	countriesCalls atomic.Int32

	addresses []grocery.Address
	countries []grocery.AddressSelectionCountry
	err       error
}

func (m *mockAddressSearcher) SearchAddresses(_ context.Context, _, _ string) ([]grocery.Address, error) {
	m.searchCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.addresses, nil
}

func (m *mockAddressSearcher) SelectionCountries(_ context.Context, _ string) ([]grocery.AddressSelectionCountry, error) {
	m.countriesCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	return m.countries, nil
}

func newAddressService(t *testing.T, searcher *mockAddressSearcher) *services.AddressService {
	t.Helper()
	service, err := services.NewAddressService(
		&services.AddressConfig{SearchTTL: 24 * time.Hour, CountriesTTL: 24 * time.Hour},
		searcher,
		cachestore.NewInMemoryStore[cachestore.AddressSearchKey, []grocery.Address](),
		cachestore.NewInMemoryStore[cachestore.CountriesKey, []grocery.AddressSelectionCountry](),
		zerolog.Nop(),
	)
	require.NoError(t, err)
	return service
}

func TestAddressService_FindAddresses(t *testing.T) {
	// Arrange
	searcher := &mockAddressSearcher{
		addresses: []grocery.Address{{AddressLine1: "1 High Street", Town: "Dundee", Postcode: "DD1 3LA"}},
	}
	service := newAddressService(t, searcher)

	// Act
	addresses, err := service.FindAddresses(context.Background(), "DD1 3LA", "UK")

	// Assert
	require.NoError(t, err)
	require.Len(t, addresses, 1)
	assert.Equal(t, "1 High Street", addresses[0].AddressLine1)
}

func TestAddressService_SearchFailureFallsBackToCache(t *testing.T) {
	// Arrange: one good search, then the network drops out.
	searcher := &mockAddressSearcher{
		addresses: []grocery.Address{{AddressLine1: "1 High Street", Postcode: "DD1 3LA"}},
		countries: []grocery.AddressSelectionCountry{{CountryCode: "UK", CountryName: "United Kingdom"}},
	}
	service := newAddressService(t, searcher)
	_, err := service.FindAddresses(context.Background(), "DD1 3LA", "UK")
	require.NoError(t, err)
	_, err = service.SelectionCountries(context.Background(), "en-GB")
	require.NoError(t, err)

	searcher.err = &grocery.NetworkError{Op: "addresses", Code: -1009, Err: errors.New("offline")}

	// Act / Assert
	addresses, err := service.FindAddresses(context.Background(), "DD1 3LA", "UK")
	require.NoError(t, err)
	assert.Len(t, addresses, 1)

	countries, err := service.SelectionCountries(context.Background(), "en-GB")
	require.NoError(t, err)
	assert.Len(t, countries, 1)
}

func TestAddressService_DifferentPostcodesAreSeparateLookups(t *testing.T) {
	// Arrange
	searcher := &mockAddressSearcher{addresses: []grocery.Address{{AddressLine1: "1 High Street"}}}
	service := newAddressService(t, searcher)
	_, err := service.FindAddresses(context.Background(), "DD1 3LA", "UK")
	require.NoError(t, err)

	searcher.err = &grocery.NetworkError{Op: "addresses", Code: -1009, Err: errors.New("offline")}

	// Act: a different postcode has no cached answer to fall back on.
	_, err = service.FindAddresses(context.Background(), "EH1 1RE", "UK")

	// Assert
	require.Error(t, err)
}
