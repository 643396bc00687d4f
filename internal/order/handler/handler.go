// Package handler implements the flash-sale order coordinator. Two separate
// mechanisms carry the two correctness guarantees: the per-user distributed
// lock serializes order attempts from one user (dedup), while the durable
// store's conditional decrement serializes the stock itself (no oversell).
// They are deliberately not conflated.
package handler

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/events"
	"github.com/swiftcart/flashsale/internal/idgen"
	"github.com/swiftcart/flashsale/internal/lock"
	"github.com/swiftcart/flashsale/internal/repositories/sql/order"
	"github.com/swiftcart/flashsale/internal/repositories/sql/voucher"
	"github.com/swiftcart/flashsale/pkg/metric"
)

const (
	userLockPrefix = "order:"
	orderIdPrefix  = "order"

	// defaultLockTimeout is the per-user lock TTL. It only needs to outlive
	// one order attempt; expiry is the liveness guarantee if a holder dies.
	defaultLockTimeout = 1200 * time.Millisecond

	// defaultStockSpinLimit bounds the conditional-decrement retry loop that
	// absorbs row conflicts from other users. Exhausting it reports
	// ErrOutOfStock even if stock survived the contention; raising the limit
	// trades tail latency for fewer false rejections.
	defaultStockSpinLimit = 100
)

type Handler interface {
	// PlaceOrder attempts to redeem one unit of the voucher for the user and
	// returns the new order id. Rejections surface as the sentinel errors in
	// this package; anything else is an infrastructure failure.
	PlaceOrder(ctx context.Context, voucherId, userId int64) (int64, error)
}

// Options tunes the coordinator. Zero fields fall back to defaults.
type Options struct {
	LockTimeout    time.Duration
	StockSpinLimit int
}

type OrderHandler struct {
	vouchers voucher.Repository
	orders   order.Repository
	store    coordination.Store
	ids      *idgen.Generator
	producer events.Producer
	opts     Options
	now      func() time.Time
}

func New(vouchers voucher.Repository, orders order.Repository, store coordination.Store,
	ids *idgen.Generator, producer events.Producer, opts Options) *OrderHandler {
	if opts.LockTimeout <= 0 {
		opts.LockTimeout = defaultLockTimeout
	}
	if opts.StockSpinLimit <= 0 {
		opts.StockSpinLimit = defaultStockSpinLimit
	}
	if producer == nil {
		producer = events.NoopProducer{}
	}
	return &OrderHandler{
		vouchers: vouchers,
		orders:   orders,
		store:    store,
		ids:      ids,
		producer: producer,
		opts:     opts,
		now:      time.Now,
	}
}

func (h *OrderHandler) PlaceOrder(ctx context.Context, voucherId, userId int64) (int64, error) {
	start := h.now()
	tags := metric.BuildTag(metric.NewTag(metric.TagVoucherId, strconv.FormatInt(voucherId, 10)))

	v, err := h.vouchers.GetById(voucherId)
	if err != nil {
		return 0, fmt.Errorf("fetch voucher %d: %w", voucherId, err)
	}

	now := h.now()
	if now.Before(v.BeginTime) {
		return 0, ErrNotStarted
	}
	if now.After(v.EndTime) {
		return 0, ErrEnded
	}
	// Fast-path rejection before taking any lock, to shed load early. The
	// deduction decision itself never trusts this read.
	if v.Stock < 1 {
		metric.Incr(metric.OrderRejectedCount, append(tags, metric.TagAsString(metric.TagOutcome, "out_of_stock")))
		return 0, ErrOutOfStock
	}

	userLock := lock.New(h.store, userLockPrefix+strconv.FormatInt(userId, 10))
	acquired, err := userLock.TryAcquire(ctx, h.opts.LockTimeout)
	if err != nil {
		return 0, fmt.Errorf("acquire user lock: %w", err)
	}
	if !acquired {
		metric.Incr(metric.LockAcquireFailCount, tags)
		log.Debug().Msgf("user %d already has an order attempt in flight for voucher %d", userId, voucherId)
		return 0, ErrDuplicateRequest
	}
	defer func() {
		if err := userLock.Release(ctx); err != nil {
			log.Error().Err(err).Msgf("failed to release order lock for user %d", userId)
		}
	}()

	orderId, err := h.createOrder(ctx, voucherId, userId, tags)
	if err != nil {
		return 0, err
	}
	metric.Incr(metric.OrderPlacedCount, tags)
	metric.Timing(metric.OrderPlacedLatency, h.now().Sub(start), tags)
	return orderId, nil
}

// createOrder runs under the per-user lock. The exists check is safe only
// because the lock serializes attempts from this user; stock safety does not
// depend on the lock at all.
func (h *OrderHandler) createOrder(ctx context.Context, voucherId, userId int64, tags []string) (int64, error) {
	count, err := h.orders.CountByUserAndVoucher(userId, voucherId)
	if err != nil {
		return 0, fmt.Errorf("check existing orders: %w", err)
	}
	if count > 0 {
		return 0, ErrAlreadyPurchased
	}

	// Conditional decrement with a bounded spin. Each miss means another
	// user's decrement won the row; retry until success, a definitive
	// stock-exhausted result, or the spin budget runs out.
	decremented := false
	spins := 0
	for ; spins < h.opts.StockSpinLimit && !decremented; spins++ {
		decremented, err = h.vouchers.DecrementStock(voucherId)
		if err != nil {
			return 0, fmt.Errorf("decrement stock: %w", err)
		}
	}
	metric.Count(metric.StockSpinCount, int64(spins), tags)
	if !decremented {
		metric.Incr(metric.OrderRejectedCount, append(tags, metric.TagAsString(metric.TagOutcome, "out_of_stock")))
		return 0, ErrOutOfStock
	}

	orderId, err := h.ids.NextID(ctx, orderIdPrefix)
	if err != nil {
		// Stock is already decremented with no order recorded. The decrement
		// and the insert live in different systems and are not one
		// transaction; reconciliation replays the order event stream against
		// the order table to find these.
		log.Error().Err(err).Msgf("stock decremented but id generation failed, voucher %d user %d", voucherId, userId)
		return 0, fmt.Errorf("generate order id: %w", err)
	}

	record := &order.Table{
		Id:        orderId,
		UserId:    userId,
		VoucherId: voucherId,
	}
	if err := h.orders.Create(record); err != nil {
		log.Error().Err(err).Msgf("stock decremented but order insert failed, voucher %d user %d", voucherId, userId)
		return 0, fmt.Errorf("persist order: %w", err)
	}

	if err := h.producer.PublishOrderCreated(events.OrderCreated{
		OrderId:   orderId,
		UserId:    userId,
		VoucherId: voucherId,
		CreatedAt: h.now(),
	}); err != nil {
		// Best effort. The order is durable; only the reconciliation stream misses it.
		log.Warn().Err(err).Msgf("failed to publish order event for order %d", orderId)
	}
	return orderId, nil
}
