// Package handler implements phone-code login. Codes and sessions live in the
// coordination store with TTLs; the session token is a hash keyed by an opaque
// uuid so user identity is always an explicit parameter downstream.
package handler

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/swiftcart/flashsale/internal/configs"
	"github.com/swiftcart/flashsale/internal/coordination"
	"github.com/swiftcart/flashsale/internal/repositories/sql/user"
	"github.com/swiftcart/flashsale/pkg/infra"
)

const (
	loginCodeKeyPrefix  = "login:code:"
	loginTokenKeyPrefix = "login:token:"

	defaultCodeTTL  = 2 * time.Minute
	defaultTokenTTL = 30 * time.Minute

	nickNamePrefix = "user_"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidCode  = errors.New("invalid login code")

	phonePattern = regexp.MustCompile(`^1[3-9]\d{9}$`)
)

// Session is the authenticated identity resolved from a token.
type Session struct {
	UserId   int64
	NickName string
}

type Authenticator interface {
	// SendCode issues a short-lived login code for the phone number and
	// returns it. Delivery (SMS gateway) is out of scope.
	SendCode(ctx context.Context, phone string) (string, error)

	// Login verifies the code, creates the user on first login, and returns
	// an opaque session token.
	Login(ctx context.Context, phone, code string) (string, error)

	// SessionByToken resolves a session token, refreshing its TTL. Returns
	// (nil, nil) for unknown tokens.
	SessionByToken(ctx context.Context, token string) (*Session, error)
}

type AuthHandler struct {
	users    user.Repository
	store    coordination.Store
	codeTTL  time.Duration
	tokenTTL time.Duration
}

var (
	authOnce      sync.Once
	authenticator Authenticator
)

// InitAuthHandler wires the authenticator. Expects infra to be initialized.
func InitAuthHandler(config configs.Configs) Authenticator {
	if authenticator == nil {
		authOnce.Do(func() {
			connection, err := infra.SQL.GetConnection()
			if err != nil {
				log.Panic().Err(err).Msg("SQL connection not initialized")
			}
			userRepo, err := user.NewRepository(connection.(*infra.SQLConnection))
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating user repository")
			}
			redisConn, err := infra.Redis.GetConnection()
			if err != nil {
				log.Panic().Err(err).Msg("Redis connection not initialized")
			}
			store, err := coordination.NewRedisStoreFromConnection(redisConn.(*infra.RedisConnection))
			if err != nil {
				log.Panic().Err(err).Msg("Error in creating coordination store")
			}
			authenticator = New(userRepo, store, config)
		})
	}
	return authenticator
}

func New(users user.Repository, store coordination.Store, config configs.Configs) *AuthHandler {
	codeTTL := defaultCodeTTL
	if config.LoginCodeTtlMinutes > 0 {
		codeTTL = time.Duration(config.LoginCodeTtlMinutes) * time.Minute
	}
	tokenTTL := defaultTokenTTL
	if config.LoginTokenTtlMinutes > 0 {
		tokenTTL = time.Duration(config.LoginTokenTtlMinutes) * time.Minute
	}
	return &AuthHandler{users: users, store: store, codeTTL: codeTTL, tokenTTL: tokenTTL}
}

func (a *AuthHandler) SendCode(ctx context.Context, phone string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	code := fmt.Sprintf("%06d", rand.Intn(1000000))
	if err := a.store.Set(ctx, loginCodeKeyPrefix+phone, code, a.codeTTL); err != nil {
		return "", err
	}
	log.Debug().Msgf("login code issued for phone %s", phone)
	return code, nil
}

func (a *AuthHandler) Login(ctx context.Context, phone, code string) (string, error) {
	if !phonePattern.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	stored, found, err := a.store.Get(ctx, loginCodeKeyPrefix+phone)
	if err != nil {
		return "", err
	}
	if !found || stored != code {
		return "", ErrInvalidCode
	}

	usr, err := a.users.GetByPhone(phone)
	if err != nil {
		return "", err
	}
	if usr == nil {
		usr = &user.Table{
			Phone:    phone,
			NickName: nickNamePrefix + uuid.NewString()[:8],
		}
		if err := a.users.Create(usr); err != nil {
			return "", err
		}
	}

	token := uuid.NewString()
	tokenKey := loginTokenKeyPrefix + token
	err = a.store.HashSet(ctx, tokenKey, map[string]string{
		"id":       strconv.FormatInt(usr.Id, 10),
		"nickName": usr.NickName,
	})
	if err != nil {
		return "", err
	}
	if err := a.store.Expire(ctx, tokenKey, a.tokenTTL); err != nil {
		return "", err
	}
	return token, nil
}

func (a *AuthHandler) SessionByToken(ctx context.Context, token string) (*Session, error) {
	tokenKey := loginTokenKeyPrefix + token
	fields, err := a.store.HashGetAll(ctx, tokenKey)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, nil
	}
	id, err := strconv.ParseInt(fields["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt session for token: %w", err)
	}
	// Sliding expiry: every resolved session pushes the TTL out again.
	if err := a.store.Expire(ctx, tokenKey, a.tokenTTL); err != nil {
		return nil, err
	}
	return &Session{UserId: id, NickName: fields["nickName"]}, nil
}
