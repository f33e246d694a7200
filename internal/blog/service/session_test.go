package service

import (
	"context"
	"testing"
	"time"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T, st store.Store) *SessionService {
	t.Helper()

	codec, err := jwtx.NewCodec("test-session-secret")
	require.NoError(t, err)

	return &SessionService{Codec: codec, Store: st}
}

func createTestUser(t *testing.T, st store.Store, email string) domain.User {
	t.Helper()

	users := &UserService{Store: st}
	user, err := users.Register(context.Background(), email, "password123")
	require.NoError(t, err)
	return user
}

// insertExpiredToken persists a structurally valid token whose expiry lies in
// the past, bypassing Mint's positive-ttl guard.
func insertExpiredToken(t *testing.T, svc *SessionService, user domain.User, age time.Duration) domain.Token {
	t.Helper()

	issuedAt := time.Now().UTC().Add(-age)
	claims := jwtx.NewSessionClaims(user.PublicID, time.Minute, issuedAt)
	encoded, err := svc.Codec.Encode(claims)
	require.NoError(t, err)

	token, err := svc.Store.Tokens().CreateToken(context.Background(), domain.Token{
		UserID:  user.ID,
		Encoded: encoded,
	})
	require.NoError(t, err)
	return token
}

func TestMintAndValidate(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	token, err := svc.Mint(ctx, user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token.Encoded)
	require.NotZero(t, token.ID)
	require.Equal(t, user.ID, token.UserID)

	got, err := svc.Validate(ctx, token.Encoded)
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
	require.Equal(t, user.Email, got.Email)
}

func TestMintRejectsNonPositiveTTL(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	_, err := svc.Mint(ctx, user, 0)
	require.ErrorIs(t, err, ErrInvalidTTL)

	_, err = svc.Mint(ctx, user, -time.Minute)
	require.ErrorIs(t, err, ErrInvalidTTL)
}

func TestMintedTokensAreDistinct(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	first, err := svc.Mint(ctx, user, time.Hour)
	require.NoError(t, err)
	second, err := svc.Mint(ctx, user, time.Hour)
	require.NoError(t, err)

	require.NotEqual(t, first.Encoded, second.Encoded)

	// Each is independently revocable; killing one leaves the other live.
	found, err := svc.Revoke(ctx, first.Encoded)
	require.NoError(t, err)
	require.True(t, found)

	_, err = svc.Validate(ctx, first.Encoded)
	require.ErrorIs(t, err, ErrTokenRevoked)

	_, err = svc.Validate(ctx, second.Encoded)
	require.NoError(t, err)
}

func TestValidateRejectionReasons(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	t.Run("garbage is malformed", func(t *testing.T) {
		_, err := svc.Validate(ctx, "not-a-token")
		require.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("wrong signature is malformed", func(t *testing.T) {
		other, err := jwtx.NewCodec("some-other-secret")
		require.NoError(t, err)
		encoded, err := other.Encode(jwtx.NewSessionClaims(user.PublicID, time.Hour, time.Now().UTC()))
		require.NoError(t, err)

		_, err = svc.Validate(ctx, encoded)
		require.ErrorIs(t, err, ErrTokenMalformed)
	})

	t.Run("expired wins over revoked", func(t *testing.T) {
		// The row is present in the store, so expiry must be what rejects it.
		token := insertExpiredToken(t, svc, user, time.Hour)

		_, err := svc.Validate(ctx, token.Encoded)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("expired reported even when row is gone", func(t *testing.T) {
		// Expiry is checked before existence, so a revoked expired token
		// still reports expired.
		token := insertExpiredToken(t, svc, user, time.Hour)
		found, err := svc.Revoke(ctx, token.Encoded)
		require.NoError(t, err)
		require.True(t, found)

		_, err = svc.Validate(ctx, token.Encoded)
		require.ErrorIs(t, err, ErrTokenExpired)
	})

	t.Run("valid signature with no row is revoked", func(t *testing.T) {
		encoded, err := svc.Codec.Encode(jwtx.NewSessionClaims(user.PublicID, time.Hour, time.Now().UTC()))
		require.NoError(t, err)

		_, err = svc.Validate(ctx, encoded)
		require.ErrorIs(t, err, ErrTokenRevoked)
	})

	t.Run("token for a deleted user", func(t *testing.T) {
		doomed := createTestUser(t, st, "doomed@example.com")
		token, err := svc.Mint(ctx, doomed, time.Hour)
		require.NoError(t, err)

		// Deleting the user cascades the token row away, so the row
		// vanishes before identity resolution would run.
		require.NoError(t, st.Users().DeleteUser(ctx, doomed.ID))

		_, err = svc.Validate(ctx, token.Encoded)
		require.ErrorIs(t, err, ErrTokenRevoked)
	})
}

func TestRevokeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	token, err := svc.Mint(ctx, user, time.Hour)
	require.NoError(t, err)

	found, err := svc.Revoke(ctx, token.Encoded)
	require.NoError(t, err)
	require.True(t, found)

	found, err = svc.Revoke(ctx, token.Encoded)
	require.NoError(t, err)
	require.False(t, found)

	found, err = svc.Revoke(ctx, "never-minted")
	require.NoError(t, err)
	require.False(t, found)
}

func TestPurgeStaleDeletesOnlyExpired(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	live, err := svc.Mint(ctx, user, time.Hour)
	require.NoError(t, err)
	insertExpiredToken(t, svc, user, time.Hour)
	insertExpiredToken(t, svc, user, 2*time.Hour)

	purged, err := svc.PurgeStale(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 2, purged)

	remaining, err := st.Tokens().ListTokensByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, live.Encoded, remaining[0].Encoded)

	// A second sweep finds nothing stale.
	purged, err = svc.PurgeStale(ctx, user.ID)
	require.NoError(t, err)
	require.Zero(t, purged)
}

func TestPurgeStaleLeavesUndecodableRows(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	// A row that no longer decodes, as if the signing secret rotated.
	other, err := jwtx.NewCodec("retired-secret")
	require.NoError(t, err)
	orphaned, err := other.Encode(jwtx.NewSessionClaims(user.PublicID, time.Hour, time.Now().UTC()))
	require.NoError(t, err)
	_, err = st.Tokens().CreateToken(ctx, domain.Token{UserID: user.ID, Encoded: orphaned})
	require.NoError(t, err)

	insertExpiredToken(t, svc, user, time.Hour)

	purged, err := svc.PurgeStale(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, 1, purged)

	remaining, err := st.Tokens().ListTokensByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, orphaned, remaining[0].Encoded)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := newSessionService(t, st)
	user := createTestUser(t, st, "alice@example.com")

	t.Run("success mints a validatable token", func(t *testing.T) {
		got, token, err := svc.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)
		require.Equal(t, user.ID, got.ID)
		require.NotEmpty(t, token.Encoded)

		_, err = svc.Validate(ctx, token.Encoded)
		require.NoError(t, err)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		_, _, errUnknown := svc.Login(ctx, "nobody@example.com", "password123")
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)

		_, _, errWrong := svc.Login(ctx, "alice@example.com", "wrong-password")
		require.ErrorIs(t, errWrong, ErrInvalidCredentials)

		require.Equal(t, errUnknown, errWrong)
	})

	t.Run("purges stale tokens on the way in", func(t *testing.T) {
		insertExpiredToken(t, svc, user, time.Hour)

		_, token, err := svc.Login(ctx, "alice@example.com", "password123")
		require.NoError(t, err)

		remaining, err := st.Tokens().ListTokensByUser(ctx, user.ID)
		require.NoError(t, err)
		for _, row := range remaining {
			claims, err := svc.Codec.Decode(row.Encoded)
			require.NoError(t, err)
			require.NoError(t, claims.ValidateExpiry(time.Now().UTC()))
		}
		require.NotEmpty(t, token.Encoded)
	})
}
