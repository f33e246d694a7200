package sqlite

import (
	"context"
	"database/sql"

	"github.com/crispycret/blog-api/internal/blog/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // outer DB stays open; caller commits or rolls back

// Ping is a no-op for transactions; the connection already exists.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	// Nested tx not supported; could emulate with SAVEPOINT if needed
	return store.ErrNestedTx
}

func (t *txStore) Users() store.Users       { return &usersRepo{q: t.tx} }
func (t *txStore) Tokens() store.Tokens     { return &tokensRepo{q: t.tx} }
func (t *txStore) Posts() store.Posts       { return &postsRepo{q: t.tx} }
func (t *txStore) Comments() store.Comments { return &commentsRepo{q: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx starts
