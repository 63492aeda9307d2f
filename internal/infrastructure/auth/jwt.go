// Package auth verifies bearer tokens issued by the identity provider and
// turns them into an identity.Caller.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/evcare/backend/internal/domain/identity"
	"github.com/evcare/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims are the claims this service reads from an access token
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// Verifier checks HS256 signatures, expiry and issuer
type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier creates a verifier from the jwt config section
func NewVerifier(cfg config.JWTConfig) *Verifier {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(cfg.Leeway),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Verifier{secret: []byte(cfg.Secret), parser: jwt.NewParser(opts...)}
}

// Verify parses the token and returns the caller it identifies
func (v *Verifier) Verify(token string) (identity.Caller, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return identity.Caller{}, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return identity.Caller{}, ErrTokenNotYetValid
	case err != nil:
		return identity.Caller{}, ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return identity.Caller{}, fmt.Errorf("%w: user_id", ErrInvalidClaims)
	}
	role, err := identity.ParseRole(claims.Role)
	if err != nil {
		return identity.Caller{}, fmt.Errorf("%w: role", ErrInvalidClaims)
	}
	return identity.NewCaller(userID, role)
}

// Signer mints tokens the Verifier accepts. The service never issues tokens
// itself; local tooling and tests use this.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates a signer from the jwt config section
func NewSigner(cfg config.JWTConfig) *Signer {
	return &Signer{secret: []byte(cfg.Secret), issuer: cfg.Issuer}
}

// Sign returns a token for caller valid for ttl
func (s *Signer) Sign(caller identity.Caller, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   caller.UserID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: caller.UserID.String(),
		Role:   caller.Role.String(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
