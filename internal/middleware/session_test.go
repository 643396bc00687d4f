package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	authhandler "github.com/swiftcart/flashsale/internal/auth/handler"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	m.Run()
}

type stubAuthenticator struct {
	sessions map[string]*authhandler.Session
}

func (s *stubAuthenticator) SendCode(context.Context, string) (string, error) {
	return "", nil
}

func (s *stubAuthenticator) Login(context.Context, string, string) (string, error) {
	return "", nil
}

func (s *stubAuthenticator) SessionByToken(_ context.Context, token string) (*authhandler.Session, error) {
	return s.sessions[token], nil
}

func resolveUserId(auth authhandler.Authenticator, headers map[string]string) string {
	engine := gin.New()
	engine.Use(SessionResolver(auth))
	var seen string
	engine.GET("/probe", func(c *gin.Context) {
		seen = c.GetHeader("X-User-Id")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	engine.ServeHTTP(httptest.NewRecorder(), req)
	return seen
}

func TestSessionResolverInjectsIdentity(t *testing.T) {
	auth := &stubAuthenticator{sessions: map[string]*authhandler.Session{
		"tok-1": {UserId: 42, NickName: "user_ab12cd34"},
	}}

	seen := resolveUserId(auth, map[string]string{"Authorization": "tok-1"})
	assert.Equal(t, "42", seen)
}

func TestSessionResolverStripsClientSuppliedIdentity(t *testing.T) {
	auth := &stubAuthenticator{sessions: map[string]*authhandler.Session{}}

	seen := resolveUserId(auth, map[string]string{"X-User-Id": "31337"})
	assert.Empty(t, seen)
}

func TestSessionResolverUnknownToken(t *testing.T) {
	auth := &stubAuthenticator{sessions: map[string]*authhandler.Session{}}

	seen := resolveUserId(auth, map[string]string{
		"Authorization": "bogus",
		"X-User-Id":     "31337",
	})
	assert.Empty(t, seen)
}
