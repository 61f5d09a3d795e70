package cachestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreConfig holds configuration for the Firestore-backed store.
type FirestoreConfig struct {
	ProjectID      string
	CollectionName string
}

// FirestoreStore is a generic record store backed by a Firestore collection,
// one document per cache key. Suitable for low-volume deployments where the
// cache should survive process restarts without running Redis.
type FirestoreStore[K Key, V any] struct {
	client         *firestore.Client
	collectionName string
	logger         zerolog.Logger
}

// NewFirestoreStore creates a new generic FirestoreStore. The client's
// lifecycle is managed by the caller.
func NewFirestoreStore[K Key, V any](
	cfg *FirestoreConfig,
	client *firestore.Client,
	logger zerolog.Logger,
) (*FirestoreStore[K, V], error) {
	if client == nil {
		return nil, fmt.Errorf("firestore client cannot be nil")
	}

	logger.Info().Str("project_id", cfg.ProjectID).Str("collection", cfg.CollectionName).Msg("FirestoreStore initialized.")

	return &FirestoreStore[K, V]{
		client:         client,
		collectionName: cfg.CollectionName,
		logger:         logger.With().Str("component", "FirestoreStore").Logger(),
	}, nil
}

// Query fetches the record document for key. A NotFound status is a normal
// cache miss, not an error.
func (s *FirestoreStore[K, V]) Query(ctx context.Context, key K) (Record[V], bool, error) {
	var zero Record[V]
	stringKey := key.CacheKey()

	docSnap, err := s.client.Collection(s.collectionName).Doc(stringKey).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return zero, false, nil
		}
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to get record from Firestore.")
		return zero, false, fmt.Errorf("firestore get for %s: %w", stringKey, err)
	}

	var record Record[V]
	if err := docSnap.DataTo(&record); err != nil {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to map Firestore record data.")
		return zero, false, fmt.Errorf("firestore DataTo for %s: %w", stringKey, err)
	}

	s.logger.Debug().Str("key", stringKey).Msg("Firestore cache hit.")
	return record, true, nil
}

// Clear removes the record document for key. A NotFound delete is a no-op.
func (s *FirestoreStore[K, V]) Clear(ctx context.Context, key K) error {
	stringKey := key.CacheKey()
	_, err := s.client.Collection(s.collectionName).Doc(stringKey).Delete(ctx)
	if err != nil && status.Code(err) != codes.NotFound {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to delete record from Firestore.")
		return fmt.Errorf("firestore delete for %s: %w", stringKey, err)
	}
	return nil
}

// Insert persists the record document under key.
func (s *FirestoreStore[K, V]) Insert(ctx context.Context, key K, record Record[V]) error {
	stringKey := key.CacheKey()
	_, err := s.client.Collection(s.collectionName).Doc(stringKey).Set(ctx, record)
	if err != nil {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to write record to Firestore.")
		return fmt.Errorf("firestore set for %s: %w", stringKey, err)
	}
	s.logger.Debug().Str("key", stringKey).Msg("Successfully wrote record to Firestore.")
	return nil
}
