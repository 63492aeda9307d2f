package auth

import (
	"testing"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testConfig = config.JWTConfig{
	Secret: "test-secret-key-that-is-long-enough-for-hs256",
	Issuer: "evcare-identity",
}

func TestVerifier_RoundTrip(t *testing.T) {
	caller := identity.Caller{UserID: uuid.New(), Role: identity.RoleTechnician}
	token, err := NewSigner(testConfig).Sign(caller, time.Hour)
	require.NoError(t, err)

	got, err := NewVerifier(testConfig).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, caller, got)
}

func TestVerifier_Rejects(t *testing.T) {
	caller := identity.Caller{UserID: uuid.New(), Role: identity.RoleAdvisor}
	v := NewVerifier(testConfig)

	t.Run("expired", func(t *testing.T) {
		token, err := NewSigner(testConfig).Sign(caller, -time.Minute)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testConfig
		other.Secret = "a-different-secret-key-also-long-enough"
		token, err := NewSigner(other).Sign(caller, time.Hour)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := testConfig
		other.Issuer = "someone-else"
		token, err := NewSigner(other).Sign(caller, time.Hour)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := v.Verify("not.a.jwt")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    testConfig.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: caller.UserID.String(),
			Role:   "ADMIN",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    testConfig.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			UserID: caller.UserID.String(),
			Role:   "JANITOR",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig.Secret))
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})

	t.Run("missing user id", func(t *testing.T) {
		claims := Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    testConfig.Issuer,
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
			Role: "ADVISOR",
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testConfig.Secret))
		require.NoError(t, err)
		_, err = v.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidClaims)
	})
}
