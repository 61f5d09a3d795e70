package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// SearchHistoryConfig holds the history length cap.
type SearchHistoryConfig struct {
	Limit int
	Now   func() time.Time
}

// SearchHistoryService keeps the device's most recent store searches, newest
// first, capped and de-duplicated by postcode. The history is persisted with
// the same clear-then-insert discipline as every other cached record.
type SearchHistoryService struct {
	store  cachestore.RecordStore[cachestore.SearchHistoryKey, []grocery.StoredSearch]
	limit  int
	now    func() time.Time
	logger zerolog.Logger
}

// NewSearchHistoryService creates the search history service.
func NewSearchHistoryService(
	cfg *SearchHistoryConfig,
	store cachestore.RecordStore[cachestore.SearchHistoryKey, []grocery.StoredSearch],
	logger zerolog.Logger,
) (*SearchHistoryService, error) {
	if store == nil {
		return nil, errors.New("history store cannot be nil")
	}
	if cfg.Limit <= 0 {
		return nil, errors.New("history limit must be positive")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &SearchHistoryService{
		store:  store,
		limit:  cfg.Limit,
		now:    now,
		logger: logger.With().Str("component", "SearchHistoryService").Logger(),
	}, nil
}

// RecordSearch adds a search to the front of the history. A repeat of an
// existing postcode moves it to the front rather than duplicating it.
func (s *SearchHistoryService) RecordSearch(ctx context.Context, postcode string, storeID int) error {
	key := cachestore.SearchHistoryKey{}
	record, ok, err := s.store.Query(ctx, key)
	if err != nil {
		return &grocery.StoreError{Op: "query", Err: err}
	}

	var history []grocery.StoredSearch
	if ok {
		history = record.Value
	}

	updated := make([]grocery.StoredSearch, 0, len(history)+1)
	updated = append(updated, grocery.StoredSearch{Postcode: postcode, StoreID: storeID, At: s.now()})
	for _, entry := range history {
		if entry.Postcode == postcode {
			continue
		}
		updated = append(updated, entry)
	}
	if len(updated) > s.limit {
		updated = updated[:s.limit]
	}

	if err := s.store.Clear(ctx, key); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	fresh := cachestore.Record[[]grocery.StoredSearch]{Value: updated, FetchedAt: s.now()}
	if err := s.store.Insert(ctx, key, fresh); err != nil {
		return &grocery.StoreError{Op: "insert", Err: err}
	}
	return nil
}

// Recent returns the history, newest first.
func (s *SearchHistoryService) Recent(ctx context.Context) ([]grocery.StoredSearch, error) {
	record, ok, err := s.store.Query(ctx, cachestore.SearchHistoryKey{})
	if err != nil {
		return nil, &grocery.StoreError{Op: "query", Err: err}
	}
	if !ok {
		return nil, nil
	}
	return record.Value, nil
}

// ClearHistory removes the stored history.
func (s *SearchHistoryService) ClearHistory(ctx context.Context) error {
	if err := s.store.Clear(ctx, cachestore.SearchHistoryKey{}); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	return nil
}
