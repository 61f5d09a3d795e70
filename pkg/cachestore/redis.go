package cachestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// RedisConfig holds the configuration for the Redis client.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// RedisStore is a generic record store backed by Redis. Records are stored as
// JSON envelopes carrying the payload and its fetch timestamp. Entries carry
// no Redis expiration: TTL gates reads via IsValid, and only Clear deletes.
type RedisStore[K Key, V any] struct {
	redisClient *redis.Client
	logger      zerolog.Logger
}

// NewRedisStore creates and connects a new generic RedisStore. It pings the
// Redis server to ensure connectivity before returning.
func NewRedisStore[K Key, V any](
	ctx context.Context,
	cfg *RedisConfig,
	logger zerolog.Logger,
) (*RedisStore[K, V], error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info().Str("redis_address", cfg.Addr).Msg("Successfully connected to Redis.")

	return &RedisStore[K, V]{
		redisClient: rdb,
		logger:      logger.With().Str("component", "RedisStore").Logger(),
	}, nil
}

// Query fetches the record envelope for key. A redis.Nil result is a normal
// cache miss, not an error.
func (s *RedisStore[K, V]) Query(ctx context.Context, key K) (Record[V], bool, error) {
	var zero Record[V]
	stringKey := key.CacheKey()

	cachedData, err := s.redisClient.Get(ctx, stringKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, false, nil
		}
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Unexpected Redis error during query.")
		return zero, false, fmt.Errorf("redis get for %s: %w", stringKey, err)
	}

	var record Record[V]
	if err := json.Unmarshal([]byte(cachedData), &record); err != nil {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to unmarshal cached record.")
		return zero, false, fmt.Errorf("failed to unmarshal record: %w", err)
	}

	s.logger.Debug().Str("key", stringKey).Msg("Redis cache hit.")
	return record, true, nil
}

// Clear removes the record for key. Deleting an absent key is a no-op.
func (s *RedisStore[K, V]) Clear(ctx context.Context, key K) error {
	stringKey := key.CacheKey()
	if err := s.redisClient.Del(ctx, stringKey).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to clear record from Redis.")
		return fmt.Errorf("redis del for %s: %w", stringKey, err)
	}
	return nil
}

// Insert persists the record envelope under key with no expiration.
func (s *RedisStore[K, V]) Insert(ctx context.Context, key K, record Record[V]) error {
	stringKey := key.CacheKey()
	jsonData, err := json.Marshal(record)
	if err != nil {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to marshal record for caching.")
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := s.redisClient.Set(ctx, stringKey, jsonData, 0).Err(); err != nil {
		s.logger.Error().Err(err).Str("key", stringKey).Msg("Failed to set record in Redis.")
		return fmt.Errorf("redis set for %s: %w", stringKey, err)
	}

	s.logger.Debug().Str("key", stringKey).Msg("Successfully stored record in Redis.")
	return nil
}

// Close closes the Redis client connection.
func (s *RedisStore[K, V]) Close() error {
	if s.redisClient != nil {
		s.logger.Info().Msg("Closing Redis client connection...")
		return s.redisClient.Close()
	}
	return nil
}
