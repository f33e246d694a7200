package sqlite

import (
	"context"
	"time"

	"github.com/crispycret/blog-api/internal/blog/domain"
)

type postsRepo struct {
	q querier
}

const postColumns = `id, title, body, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (domain.Post, error) {
	var p domain.Post
	err := row.Scan(&p.ID, &p.Title, &p.Body, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

func (r *postsRepo) CreatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO posts (title, body, created_at, updated_at)
		VALUES (?, ?, ?, ?)`,
		p.Title, p.Body, now, now,
	)
	if err != nil {
		return domain.Post{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return domain.Post{}, err
	}

	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *postsRepo) GetPostByID(ctx context.Context, id int64) (domain.Post, error) {
	p, err := scanPost(r.q.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if err != nil {
		return domain.Post{}, mapNotFound(err)
	}
	return p, nil
}

func (r *postsRepo) ListPosts(ctx context.Context) ([]domain.Post, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+postColumns+` FROM posts ORDER BY id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (r *postsRepo) UpdatePost(ctx context.Context, p domain.Post) (domain.Post, error) {
	now := time.Now().UTC()
	res, err := r.q.ExecContext(ctx, `
		UPDATE posts SET title = ?, body = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Body, now, p.ID,
	)
	if err != nil {
		return domain.Post{}, err
	}
	if err := requireAffected(res); err != nil {
		return domain.Post{}, err
	}

	return r.GetPostByID(ctx, p.ID)
}

func (r *postsRepo) DeletePost(ctx context.Context, id int64) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
