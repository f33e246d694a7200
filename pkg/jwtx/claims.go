package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the default lifetime for session tokens. The login
// handler uses this unless configured otherwise.
const DefaultSessionTTL = 24 * time.Hour

// Claims is the payload carried inside an encoded session token: the owning
// user's public identifier (sub), issued-at and expiry instants, and a random
// jti so two tokens minted in the same instant for the same user still encode
// to distinct strings.
type Claims struct {
	jwt.RegisteredClaims
}

// NewSessionClaims builds claims for a session token minted at now with the
// given lifetime.
func NewSessionClaims(publicID string, ttl time.Duration, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   publicID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// PublicID returns the owning user's public identifier.
func (c *Claims) PublicID() string { return c.Subject }

// ValidateExpiry reports whether the token has expired. Decode deliberately
// does not perform this check so "signature valid but expired" and "signature
// invalid" stay distinguishable failure kinds; callers run it explicitly.
// A token is expired exactly when its expiry instant is at or before now.
func (c *Claims) ValidateExpiry(now time.Time) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	return nil
}
