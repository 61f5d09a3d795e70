// Package fetch implements the network-first, cache-fallback read pattern
// shared by every service: fetch from the remote source, write through to the
// local record store on success (clear then insert, never update in place),
// and on remote failure fall back to a cached record only while it is within
// the entity's TTL.
package fetch

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// RemoteFunc performs the network call for a key.
type RemoteFunc[K cachestore.Key, V any] func(ctx context.Context, key K) (V, error)

// Config holds the per-entity parameters of a Coordinator.
type Config struct {
	// Name tags log lines with the entity kind.
	Name string
	// TTL is the validity window for cached records. Must be positive.
	TTL time.Duration
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// Coordinator binds the generic algorithm to one entity kind: a remote call,
// a record store and a TTL.
type Coordinator[K cachestore.Key, V any] struct {
	name   string
	ttl    time.Duration
	now    func() time.Time
	remote RemoteFunc[K, V]
	store  cachestore.RecordStore[K, V]
	logger zerolog.Logger
}

// NewCoordinator creates a Coordinator for one entity kind.
func NewCoordinator[K cachestore.Key, V any](
	cfg *Config,
	remote RemoteFunc[K, V],
	store cachestore.RecordStore[K, V],
	logger zerolog.Logger,
) (*Coordinator[K, V], error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("TTL must be positive")
	}
	if remote == nil {
		return nil, errors.New("remote func cannot be nil")
	}
	if store == nil {
		return nil, errors.New("record store cannot be nil")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &Coordinator[K, V]{
		name:   cfg.Name,
		ttl:    cfg.TTL,
		now:    now,
		remote: remote,
		store:  store,
		logger: logger.With().Str("component", "Coordinator").Str("entity", cfg.Name).Logger(),
	}, nil
}

// Fetch runs the algorithm for key and returns the freshly stored record, or
// the previously cached one when the network fails and the cache is still
// valid.
//
// On remote success the prior record for key is cleared before the fresh one
// is inserted; a failure in either step fails the whole fetch, since a remote
// result that cannot be persisted leaves the device in an inconsistent state.
// On remote failure the original network error propagates unless a cached
// record exists and is within TTL, in which case the cached record is served
// and the network error is swallowed.
func (c *Coordinator[K, V]) Fetch(ctx context.Context, key K) (cachestore.Record[V], error) {
	var zero cachestore.Record[V]

	value, remoteErr := c.remote(ctx, key)
	if remoteErr == nil {
		record := cachestore.Record[V]{Value: value, FetchedAt: c.now()}
		// Clear must complete before Insert begins so a key never holds two
		// records, even transiently.
		if err := c.store.Clear(ctx, key); err != nil {
			c.logger.Error().Err(err).Str("key", key.CacheKey()).Msg("Failed to clear cached record after remote fetch.")
			return zero, &grocery.StoreError{Op: "clear", Err: err}
		}
		if err := c.store.Insert(ctx, key, record); err != nil {
			c.logger.Error().Err(err).Str("key", key.CacheKey()).Msg("Failed to store fresh record after remote fetch.")
			return zero, &grocery.StoreError{Op: "insert", Err: err}
		}
		return record, nil
	}

	c.logger.Debug().Err(remoteErr).Str("key", key.CacheKey()).Msg("Remote fetch failed. Checking cache.")

	record, ok, err := c.store.Query(ctx, key)
	if err != nil {
		// A broken cache cannot substitute; the network error stands.
		c.logger.Error().Err(err).Str("key", key.CacheKey()).Msg("Cache query failed after remote failure.")
		return zero, remoteErr
	}
	if !ok {
		return zero, remoteErr
	}
	if !cachestore.IsValid(c.ttl, record.FetchedAt, c.now()) {
		c.logger.Debug().Str("key", key.CacheKey()).Time("fetched_at", record.FetchedAt).Msg("Cached record expired. Propagating network error.")
		return zero, remoteErr
	}

	c.logger.Debug().Str("key", key.CacheKey()).Msg("Serving cached record after remote failure.")
	return record, nil
}

// Clear removes the cached record for key.
func (c *Coordinator[K, V]) Clear(ctx context.Context, key K) error {
	if err := c.store.Clear(ctx, key); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	return nil
}

// Cached returns the cached record for key if one exists and is within TTL,
// without touching the network.
func (c *Coordinator[K, V]) Cached(ctx context.Context, key K) (cachestore.Record[V], bool, error) {
	var zero cachestore.Record[V]
	record, ok, err := c.store.Query(ctx, key)
	if err != nil {
		return zero, false, &grocery.StoreError{Op: "query", Err: err}
	}
	if !ok || !cachestore.IsValid(c.ttl, record.FetchedAt, c.now()) {
		return zero, false, nil
	}
	return record, true, nil
}
