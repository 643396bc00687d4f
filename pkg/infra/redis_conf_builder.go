package infra

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const (
	redisAddrEnv            = "REDIS_ADDR"
	redisUsernameEnv        = "REDIS_USERNAME"
	redisPasswordEnv        = "REDIS_PASSWORD"
	redisDbEnv              = "REDIS_DB"
	redisMaxRetryEnv        = "REDIS_MAX_RETRY"
	redisMinRetryBackoffEnv = "REDIS_MIN_RETRY_BACKOFF_IN_MS"
	redisMaxRetryBackoffEnv = "REDIS_MAX_RETRY_BACKOFF_IN_MS"
	redisDialTimeoutEnv     = "REDIS_DIAL_TIMEOUT_IN_MS"
	redisReadTimeoutEnv     = "REDIS_READ_TIMEOUT_IN_MS"
	redisWriteTimeoutEnv    = "REDIS_WRITE_TIMEOUT_IN_MS"
	redisPoolSizeEnv        = "REDIS_POOL_SIZE"
	redisMinIdleEnv         = "REDIS_MIN_IDLE_CONN"
	redisMaxIdleEnv         = "REDIS_MAX_IDLE_CONN"
	redisPoolTimeoutEnv     = "REDIS_POOL_TIMEOUT_IN_MS"
)

// BuildRedisOptionsFromEnv constructs Redis configuration options from environment
// variables read through Viper.
//
// Mandatory environment variables:
//   - REDIS_ADDR: Redis server address (host:port)
//   - REDIS_DB: Redis database index
//   - REDIS_READ_TIMEOUT_IN_MS: Read timeout duration (milliseconds)
//   - REDIS_WRITE_TIMEOUT_IN_MS: Write timeout duration (milliseconds)
//
// Optional environment variables:
//   - REDIS_USERNAME, REDIS_PASSWORD: authentication
//   - REDIS_MAX_RETRY: Max number of retry attempts
//   - REDIS_MIN_RETRY_BACKOFF_IN_MS, REDIS_MAX_RETRY_BACKOFF_IN_MS: retry backoff bounds
//   - REDIS_DIAL_TIMEOUT_IN_MS: Dial timeout duration (milliseconds)
//   - REDIS_POOL_SIZE, REDIS_MIN_IDLE_CONN, REDIS_MAX_IDLE_CONN: pool sizing
//   - REDIS_POOL_TIMEOUT_IN_MS: Pool wait timeout duration (milliseconds)
//
// Returns:
//   - A configured `redis.Options` instance or an error if mandatory variables are missing.
func BuildRedisOptionsFromEnv() (*redis.Options, error) {

	log.Debug().Msg("building redis config from env")

	// Mandatory environment variables check
	if !viper.IsSet(redisAddrEnv) {
		return nil, errors.New(redisAddrEnv + " not set")
	}
	if !viper.IsSet(redisDbEnv) {
		return nil, errors.New(redisDbEnv + " not set")
	}
	if !viper.IsSet(redisReadTimeoutEnv) {
		return nil, errors.New(redisReadTimeoutEnv + " not set")
	}
	if !viper.IsSet(redisWriteTimeoutEnv) {
		return nil, errors.New(redisWriteTimeoutEnv + " not set")
	}
	addr := viper.GetString(redisAddrEnv)
	db := viper.GetInt(redisDbEnv)
	readTimeout := viper.GetInt(redisReadTimeoutEnv)
	writeTimeout := viper.GetInt(redisWriteTimeoutEnv)

	redisOptions := redis.Options{
		Addr:         addr,
		DB:           db,
		ReadTimeout:  time.Duration(readTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(writeTimeout) * time.Millisecond,
	}

	// Optional environment variables
	if viper.IsSet(redisUsernameEnv) {
		redisOptions.Username = viper.GetString(redisUsernameEnv)
	}
	if viper.IsSet(redisPasswordEnv) {
		redisOptions.Password = viper.GetString(redisPasswordEnv)
	}
	if viper.IsSet(redisMaxRetryEnv) {
		redisOptions.MaxRetries = viper.GetInt(redisMaxRetryEnv)
	}
	if viper.IsSet(redisMinRetryBackoffEnv) {
		redisOptions.MinRetryBackoff = time.Duration(viper.GetInt(redisMinRetryBackoffEnv)) * time.Millisecond
	}
	if viper.IsSet(redisMaxRetryBackoffEnv) {
		redisOptions.MaxRetryBackoff = time.Duration(viper.GetInt(redisMaxRetryBackoffEnv)) * time.Millisecond
	}
	if viper.IsSet(redisDialTimeoutEnv) {
		redisOptions.DialTimeout = time.Duration(viper.GetInt(redisDialTimeoutEnv)) * time.Millisecond
	}
	if viper.IsSet(redisPoolSizeEnv) {
		redisOptions.PoolSize = viper.GetInt(redisPoolSizeEnv)
	}
	if viper.IsSet(redisMinIdleEnv) {
		redisOptions.MinIdleConns = viper.GetInt(redisMinIdleEnv)
	}
	if viper.IsSet(redisMaxIdleEnv) {
		redisOptions.MaxIdleConns = viper.GetInt(redisMaxIdleEnv)
	}
	if viper.IsSet(redisPoolTimeoutEnv) {
		redisOptions.PoolTimeout = time.Duration(viper.GetInt(redisPoolTimeoutEnv)) * time.Millisecond
	}
	log.Info().Msgf("redis options built from env, options - %+v", redisOptions)
	return &redisOptions, nil
}
