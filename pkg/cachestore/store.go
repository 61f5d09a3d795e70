package cachestore

import "context"

// Key is the constraint for cache keys. Keys are comparable structs, one shape
// per entity kind, so the compiler enforces key-shape correctness; CacheKey
// returns a stable canonical string for backends that store by string key.
type Key interface {
	comparable
	CacheKey() string
}

// RecordStore is a record store queryable by a typed composite key. Records
// are created by Clear followed by Insert, never updated in place, and are
// destroyed only by explicit Clear calls; TTL expiry never deletes.
type RecordStore[K Key, V any] interface {
	// Query fetches the record for key. The second return is false on a miss;
	// a miss is not an error.
	Query(ctx context.Context, key K) (Record[V], bool, error)
	// Clear removes any record matching key. Clearing an absent key is a no-op.
	Clear(ctx context.Context, key K) error
	// Insert persists a fresh record under key.
	Insert(ctx context.Context, key K, record Record[V]) error
}
