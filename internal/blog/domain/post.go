package domain

import "time"

// Post is a blog post.
type Post struct {
	ID        int64
	Title     string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Comment belongs to a post; deleting the post cascades to its comments.
type Comment struct {
	ID        int64
	PostID    int64
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
