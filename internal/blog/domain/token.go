package domain

import "time"

// Token models a stored session token row. The row's existence is the
// authority for "not yet revoked"; issued-at and expiry live inside the
// signed payload, not in the row. Deleting the owning user cascades to its
// tokens.
type Token struct {
	ID        int64
	UserID    int64
	Encoded   string // signed token string, unique across live tokens
	CreatedAt time.Time
}
