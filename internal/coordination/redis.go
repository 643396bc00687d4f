package coordination

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/swiftcart/flashsale/pkg/infra"
)

// RedisStore implements Store on a standalone Redis client.
type RedisStore struct {
	conn redis.UniversalClient
}

// NewRedisStoreFromConnection builds a RedisStore over an initialized infra connection.
func NewRedisStoreFromConnection(conn *infra.RedisConnection) (*RedisStore, error) {
	c, err := conn.GetConn()
	if err != nil {
		return nil, err
	}
	return &RedisStore{conn: c.(redis.UniversalClient)}, nil
}

// NewRedisStore builds a RedisStore over a raw client.
func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{conn: client}
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.conn.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("coordination store get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := s.conn.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("coordination store set %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error) {
	ok, err := s.conn.SetNX(ctx, key, value, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("coordination store setnx %s: %w", key, err)
	}
	return ok, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.conn.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("coordination store del %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Increment(ctx context.Context, key string) (int64, error) {
	v, err := s.conn.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("coordination store incr %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) HashSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(fields)*2)
	for f, v := range fields {
		args = append(args, f, v)
	}
	if err := s.conn.HSet(ctx, key, args...).Err(); err != nil {
		return fmt.Errorf("coordination store hset %s: %w", key, err)
	}
	return nil
}

func (s *RedisStore) HashGetAll(ctx context.Context, key string) (map[string]string, error) {
	v, err := s.conn.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("coordination store hgetall %s: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := s.conn.Expire(ctx, key, ttl).Err(); err != nil {
		return fmt.Errorf("coordination store expire %s: %w", key, err)
	}
	return nil
}
