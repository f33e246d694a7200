package jwtx_test

import (
	"testing"
	"time"

	"github.com/crispycret/blog-api/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := jwtx.NewCodec("")
	require.ErrorIs(t, err, jwtx.ErrNoSecret)

	codec, err := jwtx.NewCodec("test-secret")
	require.NoError(t, err)
	require.NotNil(t, codec)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	codec, err := jwtx.NewCodec("test-secret")
	require.NoError(t, err)

	now := time.Now().UTC().Truncate(time.Second)
	claims := jwtx.NewSessionClaims("01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", time.Hour, now)

	encoded, err := codec.Encode(claims)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3ZV", decoded.PublicID())
	// Compare instants, not time.Time structs; decoding yields local-zone times.
	require.True(t, now.Equal(decoded.IssuedAt.Time), "issued at %v, decoded %v", now, decoded.IssuedAt.Time)
	require.True(t, now.Add(time.Hour).Equal(decoded.ExpiresAt.Time), "expires at %v, decoded %v", now.Add(time.Hour), decoded.ExpiresAt.Time)
	require.NotEmpty(t, decoded.ID, "jti should be set")
}

func TestDecodeIsExpiryAgnostic(t *testing.T) {
	codec, err := jwtx.NewCodec("test-secret")
	require.NoError(t, err)

	now := time.Now().UTC()
	claims := jwtx.NewSessionClaims("user", -time.Minute, now)

	encoded, err := codec.Encode(claims)
	require.NoError(t, err)

	// Decode succeeds even though the token is long expired; expiry is a
	// separate explicit check.
	decoded, err := codec.Decode(encoded)
	require.NoError(t, err)
	require.ErrorIs(t, decoded.ValidateExpiry(now), jwtx.ErrExpired)
}

func TestValidateExpiryBoundary(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Second)
	claims := jwtx.NewSessionClaims("user", time.Minute, now)

	require.NoError(t, claims.ValidateExpiry(now))
	require.NoError(t, claims.ValidateExpiry(now.Add(59*time.Second)))

	// Expired exactly when the expiry instant is at or before now.
	require.ErrorIs(t, claims.ValidateExpiry(now.Add(time.Minute)), jwtx.ErrExpired)
	require.ErrorIs(t, claims.ValidateExpiry(now.Add(2*time.Minute)), jwtx.ErrExpired)
}

func TestDecodeRejectsWrongSecret(t *testing.T) {
	mint, err := jwtx.NewCodec("secret-a")
	require.NoError(t, err)
	verify, err := jwtx.NewCodec("secret-b")
	require.NoError(t, err)

	encoded, err := mint.Encode(jwtx.NewSessionClaims("user", time.Hour, time.Now()))
	require.NoError(t, err)

	_, err = verify.Decode(encoded)
	require.ErrorIs(t, err, jwtx.ErrInvalidSig)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec, err := jwtx.NewCodec("test-secret")
	require.NoError(t, err)

	for _, s := range []string{"", "not-a-token", "a.b", "a.b.c.d"} {
		_, err := codec.Decode(s)
		require.ErrorIs(t, err, jwtx.ErrMalformed, "input %q", s)
	}
}

func TestDecodeRejectsUnsignedToken(t *testing.T) {
	codec, err := jwtx.NewCodec("test-secret")
	require.NoError(t, err)

	// alg=none tokens must never verify.
	unsigned, err := jwt.NewWithClaims(
		jwt.SigningMethodNone,
		jwtx.NewSessionClaims("user", time.Hour, time.Now()),
	).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = codec.Decode(unsigned)
	require.Error(t, err)
}

func TestDistinctEncodingsForSameUserAndInstant(t *testing.T) {
	codec, err := jwtx.NewCodec("test-secret")
	require.NoError(t, err)

	now := time.Now().UTC()
	a, err := codec.Encode(jwtx.NewSessionClaims("user", time.Hour, now))
	require.NoError(t, err)
	b, err := codec.Encode(jwtx.NewSessionClaims("user", time.Hour, now))
	require.NoError(t, err)

	require.NotEqual(t, a, b, "random jti should make encodings distinct")
}
