package middleware

import (
	"errors"
	"strings"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/infrastructure/auth"
	"github.com/evcare/backend/internal/infrastructure/logger"
	"github.com/evcare/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// CallerKey is the gin context key holding the authenticated identity.Caller
	CallerKey = "caller"

	authHeaderKey = "Authorization"
	bearerPrefix  = "Bearer "
)

// TokenVerifier turns a bearer token into a caller
type TokenVerifier interface {
	Verify(token string) (identity.Caller, error)
}

// Authenticate rejects requests without a valid bearer token. On success the
// caller is available through GetCaller and is attached to the request logger.
func Authenticate(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(authHeaderKey)
		if header == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortWithError(c, dto.ErrCodeUnauthorized, "Invalid authorization header format")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			abortWithError(c, dto.ErrCodeUnauthorized, "Missing token")
			return
		}

		caller, err := verifier.Verify(token)
		if err != nil {
			logger.FromContext(c.Request.Context()).Debug("token rejected", zap.Error(err))
			if errors.Is(err, auth.ErrExpiredToken) {
				abortWithError(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			abortWithError(c, dto.ErrCodeUnauthorized, "Invalid token")
			return
		}

		c.Set(CallerKey, caller)
		c.Request = c.Request.WithContext(
			logger.WithCaller(c.Request.Context(), caller.UserID.String(), caller.Role.String()))
		c.Next()
	}
}

// GetCaller returns the caller stored by Authenticate
func GetCaller(c *gin.Context) (identity.Caller, bool) {
	v, ok := c.Get(CallerKey)
	if !ok {
		return identity.Caller{}, false
	}
	caller, ok := v.(identity.Caller)
	return caller, ok
}

// SetCaller stores a caller on the gin context. Used by tests and tooling that
// authenticate out of band.
func SetCaller(c *gin.Context, caller identity.Caller) {
	c.Set(CallerKey, caller)
}
