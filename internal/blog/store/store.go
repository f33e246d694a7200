package store

import (
	"context"
	"errors"

	"github.com/crispycret/blog-api/internal/blog/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
	ErrNestedTx      = errors.New("store: nested transactions unsupported")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable.
type Store interface {
	Users() Users
	Tokens() Tokens
	Posts() Posts
	Comments() Comments

	ApplyMigrations() error

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user and returns it with the assigned id.
	// Returns ErrAlreadyExists when the email or public id is taken.
	CreateUser(ctx context.Context, u domain.User) (domain.User, error)

	// GetUserByID returns a user by its internal numeric id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)

	// GetUserByPublicID resolves the opaque identifier carried in token claims.
	GetUserByPublicID(ctx context.Context, publicID string) (domain.User, error)

	// GetUserByEmail is used during login.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsers returns all users ordered by id ascending.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// DeleteUser cascades to the user's tokens (per schema).
	DeleteUser(ctx context.Context, id int64) error
}

type Tokens interface {
	// CreateToken stores a new token row and returns it with the assigned id.
	// Returns ErrAlreadyExists when the encoded string is already present.
	CreateToken(ctx context.Context, t domain.Token) (domain.Token, error)

	// TokenExists reports whether a non-deleted row with that exact encoded
	// string is present.
	TokenExists(ctx context.Context, encoded string) (bool, error)

	// ListTokensByUser returns all rows owned by the user, ordered by id
	// ascending for deterministic iteration.
	ListTokensByUser(ctx context.Context, userID int64) ([]domain.Token, error)

	// DeleteTokenByEncoded removes the row with that encoded string.
	// Returns ErrNotFound when absent so the caller can pick no-op or 404
	// semantics.
	DeleteTokenByEncoded(ctx context.Context, encoded string) error

	// DeleteTokenByID removes a single row by id. Purge uses this so it only
	// ever deletes rows it individually confirmed as expired.
	DeleteTokenByID(ctx context.Context, id int64) error
}

type Posts interface {
	CreatePost(ctx context.Context, p domain.Post) (domain.Post, error)
	GetPostByID(ctx context.Context, id int64) (domain.Post, error)

	// ListPosts returns posts newest-first.
	ListPosts(ctx context.Context) ([]domain.Post, error)

	// UpdatePost overwrites title/body and bumps updated_at.
	UpdatePost(ctx context.Context, p domain.Post) (domain.Post, error)

	// DeletePost cascades to the post's comments (per schema).
	DeletePost(ctx context.Context, id int64) error
}

type Comments interface {
	CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)

	// GetComment fetches the comment with the matching post id and id.
	GetComment(ctx context.Context, postID, id int64) (domain.Comment, error)

	// ListCommentsByPost returns a post's comments ordered by id ascending.
	ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error)

	UpdateComment(ctx context.Context, c domain.Comment) (domain.Comment, error)
	DeleteComment(ctx context.Context, postID, id int64) error
}
