package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/service"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/httpx"
	"github.com/crispycret/blog-api/pkg/slogx"
)

type postRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type postResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toPostResponse(p domain.Post) postResponse {
	return postResponse{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		CreatedAt: p.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: p.UpdatedAt.UTC().Format(timeFormat),
	}
}

// pathID parses a numeric path value like {id}.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	return id, err == nil && id > 0
}

// PostsHandler carries the blog post CRUD endpoints.
type PostsHandler struct {
	BlogService *service.BlogService
}

func (h *PostsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	post, err := h.BlogService.CreatePost(r.Context(), req.Title, req.Body)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			httpx.WriteEnvelope(w, http.StatusBadRequest, "title and body are required", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("create post failed", "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "post not created", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "post created", toPostResponse(post))
}

func (h *PostsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	post, err := h.BlogService.GetPost(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "post not found", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("get post failed", "post_id", id, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "post not found", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "post found", toPostResponse(post))
}

func (h *PostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	posts, err := h.BlogService.ListPosts(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list posts failed", "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "failed to retrieve posts", nil)
		return
	}

	out := make([]postResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, toPostResponse(p))
	}

	httpx.WriteEnvelope(w, http.StatusOK, "retrieved all posts", map[string]any{"posts": out})
}

func (h *PostsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	post, err := h.BlogService.UpdatePost(r.Context(), id, req.Title, req.Body)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "post not found", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("update post failed", "post_id", id, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "post not updated", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "post updated", toPostResponse(post))
}

func (h *PostsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	if err := h.BlogService.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "post not found", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("delete post failed", "post_id", id, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "post not deleted", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "post deleted", nil)
}
