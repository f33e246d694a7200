package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/service"
	"github.com/crispycret/blog-api/pkg/httpx"
	"github.com/crispycret/blog-api/pkg/slogx"
)

// RequireSession gates a handler on a valid session token. The Authorization
// header carries the raw encoded token (no "Bearer " scheme). A missing
// header is rejected before the store is ever touched; any validation
// failure maps to one uniform unauthorized envelope, with the specific
// reason kept to the logs.
func RequireSession(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			encoded := r.Header.Get("Authorization")
			if encoded == "" {
				httpx.WriteEnvelope(w, http.StatusUnauthorized, "missing authorization token", nil)
				return
			}

			user, err := sessions.Validate(ctx, encoded)
			if err != nil {
				if isRejection(err) {
					log.Info("session rejected", "reason", err)
					httpx.WriteEnvelope(w, http.StatusUnauthorized, "token is not valid", nil)
					return
				}
				log.Error("session validation failed", "err", err)
				httpx.WriteEnvelope(w, http.StatusInternalServerError, "internal server error", nil)
				return
			}

			next.ServeHTTP(w, r.WithContext(contextWithSession(ctx, user, encoded)))
		})
	}
}

// RequireAdmin is RequireSession plus a privilege check. Identity is always
// established first; a session rejection propagates unchanged, and only an
// authenticated non-admin sees the forbidden envelope.
func RequireAdmin(sessions *service.SessionService) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		adminCheck := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok || !user.IsAdmin {
				httpx.WriteEnvelope(w, http.StatusForbidden, "admin privileges required", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
		return RequireSession(sessions)(adminCheck)
	}
}

// isRejection reports whether err is a session rejection reason rather than
// an infrastructure fault.
func isRejection(err error) bool {
	return errors.Is(err, service.ErrTokenMalformed) ||
		errors.Is(err, service.ErrTokenExpired) ||
		errors.Is(err, service.ErrTokenRevoked) ||
		errors.Is(err, service.ErrUserNotFound)
}

func contextWithSession(ctx context.Context, user domain.User, encoded string) context.Context {
	ctx = context.WithValue(ctx, httpx.CtxKeyUser, user)
	ctx = context.WithValue(ctx, httpx.CtxKeyUserPublicID, user.PublicID)
	ctx = context.WithValue(ctx, httpx.CtxKeyToken, encoded)
	return ctx
}

// UserFromContext returns the caller resolved by RequireSession.
func UserFromContext(ctx context.Context) (domain.User, bool) {
	u, ok := ctx.Value(httpx.CtxKeyUser).(domain.User)
	return u, ok
}

// TokenFromContext returns the raw encoded token the caller presented.
func TokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(httpx.CtxKeyToken).(string)
	return t, ok
}
