package sqlite

import (
	"context"
	"time"

	"github.com/crispycret/blog-api/internal/blog/domain"
)

type tokensRepo struct {
	q querier
}

func (r *tokensRepo) CreateToken(ctx context.Context, t domain.Token) (domain.Token, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO tokens (user_id, token, created_at)
		VALUES (?, ?, ?)`,
		t.UserID, t.Encoded, now,
	)
	if err != nil {
		return domain.Token{}, mapConflict(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Token{}, err
	}

	t.ID = id
	t.CreatedAt = now
	return t, nil
}

func (r *tokensRepo) TokenExists(ctx context.Context, encoded string) (bool, error) {
	var n int
	err := r.q.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM tokens WHERE token = ?`, encoded).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *tokensRepo) ListTokensByUser(ctx context.Context, userID int64) ([]domain.Token, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT id, user_id, token, created_at
		FROM tokens
		WHERE user_id = ?
		ORDER BY id ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.Token
	for rows.Next() {
		var t domain.Token
		if err := rows.Scan(&t.ID, &t.UserID, &t.Encoded, &t.CreatedAt); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *tokensRepo) DeleteTokenByEncoded(ctx context.Context, encoded string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tokens WHERE token = ?`, encoded)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *tokensRepo) DeleteTokenByID(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM tokens WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
