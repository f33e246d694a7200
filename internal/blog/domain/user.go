package domain

import "time"

// User is an identity record. The numeric ID is owned by the store and
// immutable once assigned; PublicID is the opaque identifier embedded in
// session tokens, generated at creation and never reused.
type User struct {
	ID           int64
	PublicID     string
	Email        string
	PasswordHash string // argon2id encoded, never the plaintext
	IsAdmin      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
