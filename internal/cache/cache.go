// Package cache implements the cache-aside read path over the coordination
// store, hardened against penetration (confirmed misses are cached as an empty
// marker) and breakdown (a distributed mutex elects a single rebuilder while
// everyone else polls).
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/lock"
	"github.com/swiftcart/flashsale/pkg/metric"
)

// ErrNotFound is returned when the entity exists neither in cache nor in the
// durable store. A cached empty marker short-circuits to this without touching
// the durable store again.
var ErrNotFound = errors.New("cache: entity not found")

// ErrContended is returned when the rebuild lock could not be won within the
// bounded polling budget. Callers should treat it as a transient condition.
var ErrContended = errors.New("cache: rebuild contended, try again")

// emptyMarker is the sentinel stored for a confirmed durable-store miss. It is
// distinct from "key absent": present-but-empty means "known not to exist".
const emptyMarker = ""

const (
	defaultEntityTTL       = 30 * time.Minute
	defaultEmptyTTL        = 2 * time.Minute
	defaultRebuildLockTTL  = 10 * time.Second
	defaultRebuildBackoff  = 50 * time.Millisecond
	defaultRebuildAttempts = 20
)

// Loader fetches the entity from the durable store. A (nil, nil) return means
// the entity does not exist.
type Loader[T any] func(ctx context.Context, id int64) (*T, error)

// Options tunes one cached entity family. Zero fields fall back to defaults.
type Options struct {
	// KeyPrefix is prepended to the id to form the cache key, e.g. "cache:shop:".
	KeyPrefix string
	// LockName is prepended to the id to form the rebuild lock name, e.g. "shop:".
	LockName string
	// EntityTTL bounds staleness of a cached entity.
	EntityTTL time.Duration
	// EmptyTTL bounds how long a confirmed miss suppresses durable lookups.
	EmptyTTL time.Duration
	// RebuildLockTTL is the rebuild mutex TTL, the liveness bound should the
	// rebuilder die mid-flight.
	RebuildLockTTL time.Duration
	// RebuildAttempts bounds how often a losing reader re-polls the cache.
	RebuildAttempts int
	// RebuildBackoff is the pause between polls.
	RebuildBackoff time.Duration
}

// Client is a read-through cache for one entity family. It never mutates the
// durable store; writers invalidate by deleting the cache key.
type Client[T any] struct {
	store coordination.Store
	load  Loader[T]
	opts  Options
	sleep func(time.Duration)
}

func NewClient[T any](store coordination.Store, load Loader[T], opts Options) *Client[T] {
	if opts.EntityTTL <= 0 {
		opts.EntityTTL = defaultEntityTTL
	}
	if opts.EmptyTTL <= 0 {
		opts.EmptyTTL = defaultEmptyTTL
	}
	if opts.RebuildLockTTL <= 0 {
		opts.RebuildLockTTL = defaultRebuildLockTTL
	}
	if opts.RebuildAttempts <= 0 {
		opts.RebuildAttempts = defaultRebuildAttempts
	}
	if opts.RebuildBackoff <= 0 {
		opts.RebuildBackoff = defaultRebuildBackoff
	}
	return &Client[T]{store: store, load: load, opts: opts, sleep: time.Sleep}
}

// Get returns the cached entity, rebuilding the entry from the durable store
// when the key is absent. Returns ErrNotFound for entities that do not exist.
func (c *Client[T]) Get(ctx context.Context, id int64) (*T, error) {
	key := c.opts.KeyPrefix + strconv.FormatInt(id, 10)
	tags := metric.BuildTag(metric.NewTag(metric.TagEntity, c.opts.LockName))

	for attempt := 0; attempt < c.opts.RebuildAttempts; attempt++ {
		entity, state, err := c.lookup(ctx, key)
		if err != nil {
			return nil, err
		}
		switch state {
		case stateHit:
			metric.Incr(metric.CacheHitCount, tags)
			return entity, nil
		case stateConfirmedEmpty:
			metric.Incr(metric.CacheHitCount, tags)
			return nil, ErrNotFound
		}

		// Key absent: elect a single rebuilder, everyone else polls.
		metric.Incr(metric.CacheMissCount, tags)
		mutex := lock.New(c.store, c.opts.LockName+strconv.FormatInt(id, 10))
		acquired, err := mutex.TryAcquire(ctx, c.opts.RebuildLockTTL)
		if err != nil {
			return nil, err
		}
		if !acquired {
			c.sleep(c.opts.RebuildBackoff)
			continue
		}
		return c.rebuild(ctx, id, key, mutex, tags)
	}
	return nil, ErrContended
}

type lookupState int

const (
	stateAbsent lookupState = iota
	stateHit
	stateConfirmedEmpty
)

func (c *Client[T]) lookup(ctx context.Context, key string) (*T, lookupState, error) {
	value, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, stateAbsent, err
	}
	if !found {
		return nil, stateAbsent, nil
	}
	if value == emptyMarker {
		return nil, stateConfirmedEmpty, nil
	}
	var entity T
	if err := json.Unmarshal([]byte(value), &entity); err != nil {
		return nil, stateAbsent, fmt.Errorf("cache deserialize %s: %w", key, err)
	}
	return &entity, stateHit, nil
}

// rebuild queries the durable store and repopulates the cache entry. The
// rebuild lock is released on every exit path.
func (c *Client[T]) rebuild(ctx context.Context, id int64, key string, mutex *lock.Lock, tags []string) (*T, error) {
	defer func() {
		if err := mutex.Release(ctx); err != nil {
			log.Error().Err(err).Msgf("failed to release rebuild lock for %s", key)
		}
	}()

	// Someone may have rebuilt the entry between our lookup and the lock win.
	entity, state, err := c.lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	switch state {
	case stateHit:
		return entity, nil
	case stateConfirmedEmpty:
		return nil, ErrNotFound
	}

	metric.Incr(metric.CacheRebuildCount, tags)
	loaded, err := c.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		if err := c.store.Set(ctx, key, emptyMarker, c.opts.EmptyTTL); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	serialized, err := json.Marshal(loaded)
	if err != nil {
		return nil, fmt.Errorf("cache serialize %s: %w", key, err)
	}
	if err := c.store.Set(ctx, key, string(serialized), c.opts.EntityTTL); err != nil {
		return nil, err
	}
	return loaded, nil
}
