package handler

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/events"
	"github.com/swiftcart/flashsale/internal/idgen"
	"github.com/swiftcart/flashsale/internal/repositories/sql/order"
	"github.com/swiftcart/flashsale/internal/repositories/sql/voucher"
	"github.com/swiftcart/flashsale/pkg/infra"
)

var (
	orderOnce    sync.Once
	orderHandler Handler
)

// InitOrderHandler wires the coordinator against the shared infra connections.
// Expects infra to be initialized before calling this function.
func InitOrderHandler(config configs.Configs) Handler {
	if orderHandler == nil {
		orderOnce.Do(func() {
			connection, err := infra.SQL.GetConnection()
			if err != nil {
				log.Panic().Err(err).Msg("SQL connection not initialized")
			}
			sqlConn := connection.(*infra.SQLConnection)
			voucherRepo, err := voucher.NewRepository(sqlConn)
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating voucher repository")
			}
			orderRepo, err := order.NewRepository(sqlConn)
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating order repository")
			}

			redisConn, err := infra.Redis.GetConnection()
			if err != nil {
				log.Panic().Err(err).Msg("Redis connection not initialized")
			}
			store, err := coordination.NewRedisStoreFromConnection(redisConn.(*infra.RedisConnection))
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating coordination store")
			}

			var producer events.Producer = events.NoopProducer{}
			if config.KafkaBootstrapServers != "" && config.KafkaOrderTopic != "" {
				producer, err = events.NewKafkaProducer(config.KafkaBootstrapServers, config.KafkaOrderTopic)
				if err != nil {
					log.Panic().Err(err).Msg("Error in creating order event producer")
				}
			} else {
				log.Warn().Msg("Kafka not configured, order events disabled")
			}

			orderHandler = New(voucherRepo, orderRepo, store, idgen.New(store), producer, Options{
				LockTimeout:    time.Duration(config.OrderLockTimeoutMs) * time.Millisecond,
				StockSpinLimit: config.OrderStockSpinLimit,
			})
		})
	}
	return orderHandler
}
