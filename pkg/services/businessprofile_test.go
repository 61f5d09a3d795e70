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

type mockBusinessProfileFetcher struct {
	calls    atomic.Int32
	response grocery.BusinessProfile
	err      error
}

func (m *mockBusinessProfileFetcher) BusinessProfile(_ context.Context, _ string) (grocery.BusinessProfile, error) {
	m.calls.Add(1)
	if m.err != nil {
		return grocery.BusinessProfile{}, m.err
	}
	return m.response, nil
}

func TestBusinessProfileService_FetchAndFallback(t *testing.T) {
	// Arrange
	fetcher := &mockBusinessProfileFetcher{
		response: grocery.BusinessProfile{ID: 1, LocaleCode: "en-GB", SupportEmail: "help@example.com"},
	}
	service, err := services.NewBusinessProfileService(
		&services.BusinessProfileConfig{TTL: 24 * time.Hour},
		fetcher,
		cachestore.NewInMemoryStore[cachestore.BusinessProfileKey, grocery.BusinessProfile](),
		zerolog.Nop(),
	)
	require.NoError(t, err)

	// Act: a good fetch, then the network drops out.
	profile, err := service.Profile(context.Background(), "en-GB")
	require.NoError(t, err)
	assert.Equal(t, "help@example.com", profile.SupportEmail)

	fetcher.err = &grocery.NetworkError{Op: "business-profile", Code: -1009, Err: errors.New("offline")}
	profile, err = service.Profile(context.Background(), "en-GB")

	// Assert: yesterday's profile still serves.
	require.NoError(t, err)
	assert.Equal(t, "help@example.com", profile.SupportEmail)
	assert.Equal(t, int32(2), fetcher.calls.Load(), "every read attempts the network first")
}

func TestBusinessProfileService_LocalesAreIndependent(t *testing.T) {
	fetcher := &mockBusinessProfileFetcher{response: grocery.BusinessProfile{ID: 1, LocaleCode: "en-GB"}}
	service, err := services.NewBusinessProfileService(
		&services.BusinessProfileConfig{TTL: 24 * time.Hour},
		fetcher,
		cachestore.NewInMemoryStore[cachestore.BusinessProfileKey, grocery.BusinessProfile](),
		zerolog.Nop(),
	)
	require.NoError(t, err)

	_, err = service.Profile(context.Background(), "en-GB")
	require.NoError(t, err)

	fetcher.err = &grocery.NetworkError{Op: "business-profile", Code: -1009, Err: errors.New("offline")}
	_, err = service.Profile(context.Background(), "en-IE")

	require.Error(t, err, "another locale has no cached profile to fall back on")
}
