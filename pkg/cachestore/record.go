package cachestore

import "time"

// Record wraps a cached domain payload together with the moment it was
// fetched from the network. A record is only usable while
// now - FetchedAt <= the entity's TTL; expiry gates reads only and never
// deletes the record.
type Record[V any] struct {
	Value     V         `json:"value" firestore:"value"`
	FetchedAt time.Time `json:"fetchedAt" firestore:"fetchedAt"`
}

// IsValid is the cache expiry policy: a record fetched at fetchedAt is usable
// at now if the elapsed time is within ttl, inclusive. A zero fetchedAt is
// never valid and forces the network path.
func IsValid(ttl time.Duration, fetchedAt, now time.Time) bool {
	if fetchedAt.IsZero() {
		return false
	}
	return now.Sub(fetchedAt) <= ttl
}
