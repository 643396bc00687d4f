// Package coordination wraps the shared key/value store every cross-process
// mechanism in this service synchronizes through. All primitives map one to one
// onto single Redis commands, so each call is atomic on the store side.
package coordination

import (
	"context"
	"time"
)

// Store is the low-latency coordination substrate consumed by the distributed
// lock, the id generator, the cache-aside read path and the session layer.
type Store interface {
	// Get returns the value at key. found is false when the key is absent,
	// which is distinct from a present empty-string value.
	Get(ctx context.Context, key string) (value string, found bool, err error)

	// Set writes value at key with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetIfAbsent atomically sets key iff it does not exist. Returns true when
	// this call created the key.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Increment atomically increments the integer at key, creating it at 0
	// first when absent, and returns the new value.
	Increment(ctx context.Context, key string) (int64, error)

	// HashSet sets the given fields on the hash at key.
	HashSet(ctx context.Context, key string, fields map[string]string) error

	// HashGetAll returns all fields of the hash at key. An absent key yields
	// an empty map.
	HashGetAll(ctx context.Context, key string) (map[string]string, error)

	// Expire sets the TTL of an existing key.
	Expire(ctx context.Context, key string, ttl time.Duration) error
}
