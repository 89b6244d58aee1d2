package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/aussiebroadwan/khpl/pkg/idx"
)

// DefaultAccessTokenTTL is the lifetime of an access token when the caller
// does not ask for a specific one.
const DefaultAccessTokenTTL = 30 * time.Minute

// Claims are the access-token claims. The subject is the user identity.
type Claims struct {
	jwt.RegisteredClaims
}

// NewAccessClaims builds minimally-correct claims for subject. A non-positive
// ttl falls back to DefaultAccessTokenTTL.
func NewAccessClaims(subject, issuer string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultAccessTokenTTL
	}
	now = now.UTC()
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
	}
}

// ValidateIssuer checks if the issuer matches expected value.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil // nothing to enforce
	}

	if c.Issuer != expected {
		return ErrIssuer
	}

	return nil
}

// ValidateExpiryAt ensures the token hasn't expired (exp) and isn't before
// nbf, allowing leeway for clock skew.
func (c *Claims) ValidateExpiryAt(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}

	if now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}

	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}

	return nil
}
