package sqlite

import (
	"context"
	"time"

	"github.com/crispycret/blog-api/internal/blog/domain"
)

type commentsRepo struct {
	q querier
}

const commentColumns = `id, post_id, body, created_at, updated_at`

func scanComment(row interface{ Scan(...any) error }) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.PostID, &c.Body, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *commentsRepo) CreateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO comments (post_id, body, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		c.PostID, c.Body, now, now,
	)
	if err != nil {
		return domain.Comment{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Comment{}, err
	}

	c.ID = id
	c.CreatedAt = now
	c.UpdatedAt = now
	return c, nil
}

func (r *commentsRepo) GetComment(ctx context.Context, postID, id int64) (domain.Comment, error) {
	c, err := scanComment(r.q.QueryRowContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? AND id = ?`, postID, id))
	if err != nil {
		return domain.Comment{}, mapNotFound(err)
	}
	return c, nil
}

func (r *commentsRepo) ListCommentsByPost(ctx context.Context, postID int64) ([]domain.Comment, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+commentColumns+` FROM comments WHERE post_id = ? ORDER BY id ASC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentsRepo) UpdateComment(ctx context.Context, c domain.Comment) (domain.Comment, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE comments SET body = ?, updated_at = ?
		WHERE post_id = ? AND id = ?`,
		c.Body, now, c.PostID, c.ID,
	)
	if err != nil {
		return domain.Comment{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Comment{}, err
	}

	return r.GetComment(ctx, c.PostID, c.ID)
}

func (r *commentsRepo) DeleteComment(ctx context.Context, postID, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM comments WHERE post_id = ? AND id = ?`, postID, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
