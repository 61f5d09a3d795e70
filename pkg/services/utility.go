package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// UtilityService corrects the device clock against server time and supports a
// mock date for testing day-sensitive menu fetches.
type UtilityService struct {
	api    remote.UtilityAPI
	logger zerolog.Logger

	mu       sync.RWMutex
	offset   time.Duration
	mockDate *time.Time
}

// NewUtilityService creates the utility service.
func NewUtilityService(api remote.UtilityAPI, logger zerolog.Logger) (*UtilityService, error) {
	if api == nil {
		return nil, errors.New("utility API cannot be nil")
	}
	return &UtilityService{
		api:    api,
		logger: logger.With().Str("component", "UtilityService").Logger(),
	}, nil
}

// SyncServerTime fetches server time and records the offset from the device
// clock.
func (s *UtilityService) SyncServerTime(ctx context.Context) error {
	serverTime, err := s.api.ServerTime(ctx)
	if err != nil {
		return err
	}

	offset := serverTime.Sub(time.Now())
	s.mu.Lock()
	s.offset = offset
	s.mu.Unlock()

	s.logger.Debug().Dur("offset", offset).Msg("Server time offset recorded.")
	return nil
}

// Now returns the corrected current time, or the mock date when one is set.
func (s *UtilityService) Now() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.mockDate != nil {
		return *s.mockDate
	}
	return time.Now().Add(s.offset)
}

// SetMockDate pins Now to a fixed moment.
func (s *UtilityService) SetMockDate(date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mockDate = &date
}

// ClearMockDate removes the pinned moment.
func (s *UtilityService) ClearMockDate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mockDate = nil
}
