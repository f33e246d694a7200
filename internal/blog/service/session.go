package service

import (
	"context"
	"errors"
	"time"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/cryptox"
	"github.com/crispycret/blog-api/pkg/jwtx"
	"github.com/crispycret/blog-api/pkg/slogx"
)

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidTTL         = errors.New("invalid_ttl")

	// Validate rejection reasons, one per failed transition. A raw codec or
	// store fault never escapes this package's session API; it is folded into
	// one of these.
	ErrTokenMalformed = errors.New("token_malformed")
	ErrTokenExpired   = errors.New("token_expired")
	ErrTokenRevoked   = errors.New("token_revoked_or_unknown")
	ErrUserNotFound   = errors.New("token_user_not_found")
)

// SessionService owns the session token lifecycle: mint on login, end-to-end
// validation of presented tokens, revocation on logout, and purging of a
// user's stale rows.
type SessionService struct {
	Codec      *jwtx.Codec
	Store      store.Store
	SessionTTL time.Duration // lifetime used by Login; DefaultSessionTTL when zero
}

// Mint builds claims issued now and expiring after ttl, encodes them, and
// persists the token row. The ttl must be positive; there is no implicit
// default at this level. A store uniqueness conflict (astronomically unlikely
// given the random jti) propagates as store.ErrAlreadyExists so the caller
// may retry with freshly time-stamped claims.
func (s *SessionService) Mint(ctx context.Context, user domain.User, ttl time.Duration) (domain.Token, error) {
	if ttl <= 0 {
		return domain.Token{}, ErrInvalidTTL
	}

	claims := jwtx.NewSessionClaims(user.PublicID, ttl, time.Now().UTC())
	encoded, err := s.Codec.Encode(claims)
	if err != nil {
		return domain.Token{}, err
	}

	return s.Store.Tokens().CreateToken(ctx, domain.Token{
		UserID:  user.ID,
		Encoded: encoded,
	})
}

// Validate runs the full token state machine in its canonical order:
// decode -> expiry -> existence -> identity resolution. Each failed
// transition yields its own rejection reason; no later step runs after a
// failed one.
func (s *SessionService) Validate(ctx context.Context, encoded string) (domain.User, error) {
	claims, err := s.Codec.Decode(encoded)
	if err != nil {
		return domain.User{}, ErrTokenMalformed
	}

	if err := claims.ValidateExpiry(time.Now().UTC()); err != nil {
		return domain.User{}, ErrTokenExpired
	}

	exists, err := s.Store.Tokens().TokenExists(ctx, encoded)
	if err != nil {
		return domain.User{}, err
	}
	if !exists {
		return domain.User{}, ErrTokenRevoked
	}

	user, err := s.Store.Users().GetUserByPublicID(ctx, claims.PublicID())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}

	return user, nil
}

// Revoke deletes the matching token row if present. It is idempotent: the
// second revocation of the same token reports found=false without error.
func (s *SessionService) Revoke(ctx context.Context, encoded string) (bool, error) {
	err := s.Store.Tokens().DeleteTokenByEncoded(ctx, encoded)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// PurgeStale deletes each of the user's tokens whose expiry has passed and
// returns the count purged. Only rows individually confirmed as expired are
// deleted, so a concurrently minted valid token can never be swept away.
// Rows that fail to decode are left in place and logged rather than deleted;
// a transient codec problem must not destroy an otherwise recoverable
// session.
func (s *SessionService) PurgeStale(ctx context.Context, userID int64) (int, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	tokens, err := s.Store.Tokens().ListTokensByUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, t := range tokens {
		claims, err := s.Codec.Decode(t.Encoded)
		if err != nil {
			log.Warn("purge: token failed to decode, leaving it",
				"token_id", t.ID, "user_id", userID, "err", err)
			continue
		}

		if claims.ValidateExpiry(now) == nil {
			continue // still valid
		}

		if err := s.Store.Tokens().DeleteTokenByID(ctx, t.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				continue // already gone; a concurrent sweep got there first
			}
			return purged, err
		}
		purged++
	}

	return purged, nil
}

// Login verifies the credentials, purges the user's stale tokens, and mints a
// fresh session token. Unknown email and wrong password collapse into the
// same ErrInvalidCredentials so responses don't reveal which one failed.
func (s *SessionService) Login(ctx context.Context, email, password string) (domain.User, domain.Token, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, domain.Token{}, ErrInvalidCredentials
		}
		return domain.User{}, domain.Token{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if !errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Error("stored password hash is malformed", "user_id", user.ID, "err", err)
		}
		return domain.User{}, domain.Token{}, ErrInvalidCredentials
	}

	if _, err := s.PurgeStale(ctx, user.ID); err != nil {
		return domain.User{}, domain.Token{}, err
	}

	ttl := s.SessionTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultSessionTTL
	}

	token, err := s.Mint(ctx, user, ttl)
	if err != nil {
		return domain.User{}, domain.Token{}, err
	}

	return user, token, nil
}
