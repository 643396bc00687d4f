package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	authhandler "github.com/swiftcart/flashsale/internal/auth/handler"
)

const userIdHeader = "X-User-Id"

// SessionResolver resolves the Authorization token into a user identity and
// injects it as a request header, so downstream controllers receive userId as
// an explicit input rather than an ambient session lookup. Requests without a
// valid token pass through with the identity header stripped.
func SessionResolver(auth authhandler.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Never trust a client-supplied identity header.
		c.Request.Header.Del(userIdHeader)

		token := c.GetHeader("Authorization")
		if token != "" {
			session, err := auth.SessionByToken(c.Request.Context(), token)
			if err != nil {
				log.Error().Err(err).Msg("session resolution failed")
			} else if session != nil {
				c.Request.Header.Set(userIdHeader, strconv.FormatInt(session.UserId, 10))
			}
		}
		c.Next()
	}
}
