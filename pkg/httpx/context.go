package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUser holds the resolved caller (a domain user value) after the
	// session gate has run.
	CtxKeyUser ctxKey = "user"

	// CtxKeyUserPublicID holds the caller's public identifier as a string,
	// kept separately so rate limiting can key on it without knowing the
	// user type.
	CtxKeyUserPublicID ctxKey = "user_public_id"

	// CtxKeyToken holds the raw encoded token the caller presented.
	CtxKeyToken ctxKey = "token"
)

func userPublicIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserPublicID).(string); ok {
		return v
	}
	return ""
}
