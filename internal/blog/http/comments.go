package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/service"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/httpx"
	"github.com/crispycret/blog-api/pkg/slogx"
)

const timeFormat = time.RFC3339

type commentRequest struct {
	Body string `json:"body"`
}

type commentResponse struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

func toCommentResponse(c domain.Comment) commentResponse {
	return commentResponse{
		ID:        c.ID,
		PostID:    c.PostID,
		Body:      c.Body,
		CreatedAt: c.CreatedAt.UTC().Format(timeFormat),
		UpdatedAt: c.UpdatedAt.UTC().Format(timeFormat),
	}
}

// CommentsHandler carries the per-post comment endpoints.
type CommentsHandler struct {
	BlogService *service.BlogService
}

func (h *CommentsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	comment, err := h.BlogService.CreateComment(r.Context(), postID, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteEnvelope(w, http.StatusBadRequest, "comment body is required", nil)
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteEnvelope(w, http.StatusNotFound, "post not found", nil)
		default:
			slogx.FromContext(r.Context()).Error("create comment failed", "post_id", postID, "err", err)
			httpx.WriteEnvelope(w, http.StatusInternalServerError, "comment not created", nil)
		}
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "comment created", toCommentResponse(comment))
}

func (h *CommentsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid comment id", nil)
		return
	}

	comment, err := h.BlogService.GetComment(r.Context(), postID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "comment not found", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("get comment failed", "comment_id", id, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "comment not found", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "comment found", toCommentResponse(comment))
}

func (h *CommentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}

	comments, err := h.BlogService.ListComments(r.Context(), postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "post not found", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("list comments failed", "post_id", postID, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "failed to retrieve comments", nil)
		return
	}

	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, toCommentResponse(c))
	}

	httpx.WriteEnvelope(w, http.StatusOK, "retrieved all comments", map[string]any{"comments": out})
}

func (h *CommentsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid comment id", nil)
		return
	}

	var req commentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	comment, err := h.BlogService.UpdateComment(r.Context(), postID, id, req.Body)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteEnvelope(w, http.StatusBadRequest, "comment body is required", nil)
		case errors.Is(err, store.ErrNotFound):
			httpx.WriteEnvelope(w, http.StatusNotFound, "comment not found", nil)
		default:
			slogx.FromContext(r.Context()).Error("update comment failed", "comment_id", id, "err", err)
			httpx.WriteEnvelope(w, http.StatusInternalServerError, "comment not updated", nil)
		}
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "comment updated", toCommentResponse(comment))
}

func (h *CommentsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "post_id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid post id", nil)
		return
	}
	id, ok := pathID(r, "id")
	if !ok {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid comment id", nil)
		return
	}

	if err := h.BlogService.DeleteComment(r.Context(), postID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "comment not found", nil)
			return
		}
		slogx.FromContext(r.Context()).Error("delete comment failed", "comment_id", id, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "comment not deleted", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "comment deleted", nil)
}
