package infra

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var (
	Redis *RedisConnectors
)

// RedisConnection wraps the standalone Redis client used as the coordination store.
type RedisConnection struct {
	Client redis.UniversalClient
	Meta   map[string]interface{}
}

func (c *RedisConnection) GetConn() (interface{}, error) {
	if c.Client == nil {
		return nil, errors.New("connection nil")
	}
	return c.Client, nil
}

func (c *RedisConnection) GetMeta() (map[string]interface{}, error) {
	if c.Meta == nil {
		return nil, errors.New("meta nil")
	}
	return c.Meta, nil
}

func (c *RedisConnection) IsLive() bool {
	if err := c.Client.Ping(context.Background()).Err(); err != nil {
		return false
	}
	return true
}

type RedisConnectors struct {
	RedisConnection ConnectionFacade
}

func (s *RedisConnectors) GetConnection() (ConnectionFacade, error) {
	if s.RedisConnection == nil {
		return nil, errors.New("connection not found")
	}
	return s.RedisConnection, nil
}

func initRedisConns() {
	redisOptions, err := BuildRedisOptionsFromEnv()
	if err != nil {
		log.Error().Err(err).Msg("Error building redis config")
		panic(err)
	}
	client := redis.NewClient(redisOptions)
	Redis = &RedisConnectors{
		RedisConnection: &RedisConnection{
			Client: client,
			Meta: map[string]interface{}{
				"type": DBTypeRedis,
			},
		},
	}
}
