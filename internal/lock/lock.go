// Package lock provides a best-effort distributed mutual-exclusion primitive on
// top of the coordination store's set-if-absent semantics. It is not a fencing
// lock: a holder that outlives its TTL is no longer protected.
package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/coordination"
)

const keyPrefix = "lock:"

// Lock is a named mutual-exclusion lock. Each Lock value carries its own owner
// token, so two Lock values for the same name are distinct owners.
type Lock struct {
	store coordination.Store
	name  string
	token string
}

// New returns a lock for the given resource name. The owner token is unique to
// this value and is the only credential checked on release.
func New(store coordination.Store, name string) *Lock {
	return &Lock{
		store: store,
		name:  name,
		token: uuid.NewString(),
	}
}

// TryAcquire attempts to take the lock with the given TTL. It returns false
// when another owner holds the lock; contention is a normal outcome, not an
// error. No retry is performed here, callers decide their own retry policy.
func (l *Lock) TryAcquire(ctx context.Context, ttl time.Duration) (bool, error) {
	ok, err := l.store.SetIfAbsent(ctx, keyPrefix+l.name, l.token, ttl)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release deletes the lock iff it is still held by this owner. When the value
// at the lock key no longer matches the owner token (the lock expired and was
// re-acquired by someone else), Release is a no-op.
//
// The read and the delete are two store round trips, not one atomic operation:
// if the lock expires between them and another owner acquires it, that owner's
// lock is deleted. The window is accepted; closing it needs a store-side
// compare-and-delete script.
func (l *Lock) Release(ctx context.Context) error {
	key := keyPrefix + l.name
	current, found, err := l.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if !found || current != l.token {
		log.Debug().Msgf("lock %s not held by this owner, skipping release", l.name)
		return nil
	}
	return l.store.Delete(ctx, key)
}
