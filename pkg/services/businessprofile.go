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

// BusinessProfileConfig holds the cache window for business profile fetches.
type BusinessProfileConfig struct {
	TTL time.Duration
	Now func() time.Time
}

// BusinessProfileService fetches the per-locale business configuration.
type BusinessProfileService struct {
	coord  *fetch.Coordinator[cachestore.BusinessProfileKey, grocery.BusinessProfile]
	logger zerolog.Logger
}

// NewBusinessProfileService wires the business profile coordinator.
func NewBusinessProfileService(
	cfg *BusinessProfileConfig,
	fetcher remote.BusinessProfileFetcher,
	store cachestore.RecordStore[cachestore.BusinessProfileKey, grocery.BusinessProfile],
	logger zerolog.Logger,
) (*BusinessProfileService, error) {
	if fetcher == nil {
		return nil, errors.New("business profile fetcher cannot be nil")
	}

	coord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "business-profile", TTL: cfg.TTL, Now: cfg.Now},
		func(ctx context.Context, key cachestore.BusinessProfileKey) (grocery.BusinessProfile, error) {
			return fetcher.BusinessProfile(ctx, key.LocaleCode)
		},
		store, logger,
	)
	if err != nil {
		return nil, err
	}

	return &BusinessProfileService{
		coord:  coord,
		logger: logger.With().Str("component", "BusinessProfileService").Logger(),
	}, nil
}

// Profile fetches the business profile for a locale.
func (s *BusinessProfileService) Profile(ctx context.Context, localeCode string) (grocery.BusinessProfile, error) {
	record, err := s.coord.Fetch(ctx, cachestore.BusinessProfileKey{LocaleCode: localeCode})
	if err != nil {
		return grocery.BusinessProfile{}, err
	}
	return record.Value, nil
}
