package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoSecret means the signing secret is unset. This is a configuration
	// fault surfaced at construction time, never per-request.
	ErrNoSecret = errors.New("jwtx: signing secret is empty")

	ErrMalformed    = errors.New("jwtx: malformed token")
	ErrAlgMismatch  = errors.New("jwtx: algorithm mismatch")
	ErrInvalidSig   = errors.New("jwtx: invalid signature")
	ErrExpired      = errors.New("jwtx: token expired")
	ErrInvalidClaim = errors.New("jwtx: invalid claims")
)

// Codec encodes and decodes session token claims using HS256 with a single
// process-wide secret. Decode verifies signature and structure only; expiry
// is the caller's explicit next step (see Claims.ValidateExpiry).
type Codec struct {
	secret []byte
}

// NewCodec builds a Codec. It fails closed on an empty secret so a
// misconfigured service refuses to mint or validate anything at all.
func NewCodec(secret string) (*Codec, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Codec{secret: []byte(secret)}, nil
}

// Encode serializes and signs the claims.
func (c *Codec) Encode(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode verifies the signature and structural validity of an encoded token
// and returns its claims. Expired tokens decode successfully.
func (c *Codec) Decode(encoded string) (Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		// Expiry is checked separately by the caller.
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	token, err := parser.ParseWithClaims(encoded, &claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return Claims{}, mapParseError(err)
	}
	if !token.Valid {
		return Claims{}, ErrInvalidSig
	}

	return claims, nil
}

// mapParseError folds golang-jwt's error tree into our sentinel set.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrAlgMismatch
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	default:
		return ErrMalformed
	}
}
