package service

import (
	"context"
	"strings"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/store"
)

// BlogService is thin create/read/update/delete glue over the store for
// posts and comments.
type BlogService struct {
	Store store.Store
}

func (s *BlogService) CreatePost(ctx context.Context, title, body string) (domain.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" || body == "" {
		return domain.Post{}, ErrInvalidInput
	}
	return s.Store.Posts().CreatePost(ctx, domain.Post{Title: title, Body: body})
}

func (s *BlogService) GetPost(ctx context.Context, id int64) (domain.Post, error) {
	return s.Store.Posts().GetPostByID(ctx, id)
}

func (s *BlogService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	return s.Store.Posts().ListPosts(ctx)
}

// UpdatePost overwrites the given fields; empty fields keep their stored
// value.
func (s *BlogService) UpdatePost(ctx context.Context, id int64, title, body string) (domain.Post, error) {
	post, err := s.Store.Posts().GetPostByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if title = strings.TrimSpace(title); title != "" {
		post.Title = title
	}
	if body != "" {
		post.Body = body
	}

	return s.Store.Posts().UpdatePost(ctx, post)
}

func (s *BlogService) DeletePost(ctx context.Context, id int64) error {
	return s.Store.Posts().DeletePost(ctx, id)
}

func (s *BlogService) CreateComment(ctx context.Context, postID int64, body string) (domain.Comment, error) {
	if body == "" {
		return domain.Comment{}, ErrInvalidInput
	}

	// The post must exist; the FK would reject the insert anyway but a clean
	// not-found beats a constraint error.
	if _, err := s.Store.Posts().GetPostByID(ctx, postID); err != nil {
		return domain.Comment{}, err
	}

	return s.Store.Comments().CreateComment(ctx, domain.Comment{PostID: postID, Body: body})
}

func (s *BlogService) GetComment(ctx context.Context, postID, id int64) (domain.Comment, error) {
	return s.Store.Comments().GetComment(ctx, postID, id)
}

func (s *BlogService) ListComments(ctx context.Context, postID int64) ([]domain.Comment, error) {
	return s.Store.Comments().ListCommentsByPost(ctx, postID)
}

func (s *BlogService) UpdateComment(ctx context.Context, postID, id int64, body string) (domain.Comment, error) {
	if body == "" {
		return domain.Comment{}, ErrInvalidInput
	}

	comment, err := s.Store.Comments().GetComment(ctx, postID, id)
	if err != nil {
		return domain.Comment{}, err
	}
	comment.Body = body

	return s.Store.Comments().UpdateComment(ctx, comment)
}

func (s *BlogService) DeleteComment(ctx context.Context, postID, id int64) error {
	return s.Store.Comments().DeleteComment(ctx, postID, id)
}
