package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/crispycret/blog-api/internal/blog/store"
	_ "modernc.org/sqlite"
)

// querier is satisfied by both *sql.DB and *sql.Tx so the repositories can run
// inside or outside a transaction unchanged.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB
	q  querier
}

func NewStore(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// PRAGMA foreign_keys is per connection and :memory: databases are per
	// connection too, so the pool must stay at a single connection.
	db.SetMaxOpenConns(1)

	// Enforce FKs so user deletion cascades to tokens and post deletion to
	// comments.
	if _, err := db.ExecContext(context.Background(), `PRAGMA foreign_keys = ON;`); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, q: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Ping verifies the database connection is still alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// WithTx executes fn within a transaction, automatically handling commit/rollback.
func (s *Store) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	tx := &txStore{tx: sqlTx}

	// Rollback is safe to call even after commit.
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(tx); err != nil {
		return err // rollback happens in defer
	}

	return tx.Commit()
}

func (s *Store) Users() store.Users       { return &usersRepo{q: s.q} }
func (s *Store) Tokens() store.Tokens     { return &tokensRepo{q: s.q} }
func (s *Store) Posts() store.Posts       { return &postsRepo{q: s.q} }
func (s *Store) Comments() store.Comments { return &commentsRepo{q: s.q} }

func mapNotFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

// mapConflict translates sqlite uniqueness violations into the store sentinel.
// modernc.org/sqlite surfaces these as "constraint failed: UNIQUE constraint
// failed: <table>.<column>".
func mapConflict(err error) error {
	if err == nil {
		return nil
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return store.ErrAlreadyExists
	}
	return err
}
