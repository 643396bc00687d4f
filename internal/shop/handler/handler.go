// Package handler serves the shop read path through the cache-aside client and
// owns the write-invalidation contract: durable writes delete the cache entry,
// they never refresh it in place.
package handler

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/cache"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/repositories/sql/shop"
	"github.com/swiftcart/flashsale/pkg/infra"
)

const (
	// cacheKeyPrefix is the cache namespace for shop snapshots.
	cacheKeyPrefix = "cache:shop:"
	// rebuildLockName names the per-shop rebuild mutex, yielding lock keys
	// like "lock:shop:7".
	rebuildLockName = "shop:"
)

// ErrShopNotFound mirrors cache.ErrNotFound at this layer.
var ErrShopNotFound = errors.New("shop not found")

type Handler interface {
	GetById(ctx context.Context, id int64) (*shop.Table, error)
	Update(ctx context.Context, s *shop.Table) error
}

type ShopHandler struct {
	repo  shop.Repository
	store coordination.Store
	cache *cache.Client[shop.Table]
}

var (
	shopOnce    sync.Once
	shopHandler Handler
)

// InitShopHandler wires the shop read path. Expects infra to be initialized.
func InitShopHandler(config configs.Configs) Handler {
	if shopHandler == nil {
		shopOnce.Do(func() {
			connection, err := infra.SQL.GetConnection()
			if err != nil {
				log.Panic().Err(err).Msg("SQL connection not initialized")
			}
			repo, err := shop.NewRepository(connection.(*infra.SQLConnection))
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating shop repository")
			}
			redisConn, err := infra.Redis.GetConnection()
			if err != nil {
				log.Panic().Err(err).Msg("Redis connection not initialized")
			}
			store, err := coordination.NewRedisStoreFromConnection(redisConn.(*infra.RedisConnection))
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating coordination store")
			}
			shopHandler = New(repo, store, config)
		})
	}
	return shopHandler
}

func New(repo shop.Repository, store coordination.Store, config configs.Configs) *ShopHandler {
	loader := func(ctx context.Context, id int64) (*shop.Table, error) {
		return repo.GetById(id)
	}
	opts := cache.Options{
		KeyPrefix: cacheKeyPrefix,
		LockName:  rebuildLockName,
	}
	if config.CacheShopTtlMinutes > 0 {
		opts.EntityTTL = time.Duration(config.CacheShopTtlMinutes) * time.Minute
	}
	if config.CacheEmptyTtlSeconds > 0 {
		opts.EmptyTTL = time.Duration(config.CacheEmptyTtlSeconds) * time.Second
	}
	if config.CacheRebuildLockTtlSec > 0 {
		opts.RebuildLockTTL = time.Duration(config.CacheRebuildLockTtlSec) * time.Second
	}
	return &ShopHandler{
		repo:  repo,
		store: store,
		cache: cache.NewClient(store, loader, opts),
	}
}

func (h *ShopHandler) GetById(ctx context.Context, id int64) (*shop.Table, error) {
	s, err := h.cache.Get(ctx, id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrShopNotFound
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Update writes the durable record first, then deletes the cache entry so the
// next reader repopulates from the source of truth.
func (h *ShopHandler) Update(ctx context.Context, s *shop.Table) error {
	if err := h.repo.Update(s); err != nil {
		return err
	}
	return h.store.Delete(ctx, cacheKeyPrefix+strconv.FormatInt(s.Id, 10))
}
