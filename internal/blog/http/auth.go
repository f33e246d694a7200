package http

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/crispycret/blog-api/internal/blog/domain"
	"github.com/crispycret/blog-api/internal/blog/service"
	"github.com/crispycret/blog-api/internal/blog/store"
	"github.com/crispycret/blog-api/pkg/httpx"
	"github.com/crispycret/blog-api/pkg/slogx"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// userResponse is the public shape of a user. The password hash never leaves
// the service.
type userResponse struct {
	ID       int64  `json:"id"`
	PublicID string `json:"public_id"`
	Email    string `json:"email"`
	IsAdmin  bool   `json:"is_admin"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:       u.ID,
		PublicID: u.PublicID,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
	}
}

// RegisterHandler serves POST /register.
type RegisterHandler struct {
	UserService *service.UserService
}

func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteEnvelope(w, http.StatusBadRequest, "email and password are required", nil)
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteEnvelope(w, http.StatusBadRequest, "email is already registered", nil)
		default:
			slogx.FromContext(r.Context()).Error("register failed", "err", err)
			httpx.WriteEnvelope(w, http.StatusInternalServerError, "user not registered", nil)
		}
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "user registered", toUserResponse(user))
}

// LoginHandler serves POST /login. A successful login purges the user's
// stale tokens and returns a fresh session token.
type LoginHandler struct {
	SessionService *service.SessionService
}

func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	_, token, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			httpx.WriteEnvelope(w, http.StatusBadRequest, "login failed: invalid email or password", nil)
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "login failed", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "login success", map[string]string{
		"Authorization": token.Encoded,
	})
}

// LogoutHandler serves POST /logout behind the session gate. It revokes the
// presented token; a token that is already gone reports 400 the way the
// original API did.
type LogoutHandler struct {
	SessionService *service.SessionService
}

func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	encoded, ok := TokenFromContext(ctx)
	if !ok {
		httpx.WriteEnvelope(w, http.StatusUnauthorized, "missing authorization token", nil)
		return
	}

	found, err := h.SessionService.Revoke(ctx, encoded)
	if err != nil {
		slogx.FromContext(ctx).Error("logout failed", "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "failed to remove token", nil)
		return
	}
	if !found {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "token does not exist", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "token removed", nil)
}

// DeleteUserHandler serves DELETE /user/delete behind the session gate. A
// regular user deletes their own account; an admin may name another user in
// the body. Deleting an account cascades away all of its tokens.
type DeleteUserHandler struct {
	UserService *service.UserService
}

type deleteUserRequest struct {
	UserID int64 `json:"user_id"`
}

func (h *DeleteUserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	caller, ok := UserFromContext(ctx)
	if !ok {
		httpx.WriteEnvelope(w, http.StatusUnauthorized, "missing authorization token", nil)
		return
	}

	targetID := caller.ID
	if caller.IsAdmin && r.Body != nil {
		var req deleteUserRequest
		// Body is optional for admins; ignore decode errors from an empty body.
		if err := json.NewDecoder(r.Body).Decode(&req); err == nil && req.UserID > 0 {
			targetID = req.UserID
		}
	}

	if err := h.UserService.Delete(ctx, targetID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			httpx.WriteEnvelope(w, http.StatusNotFound, "user not found", nil)
			return
		}
		log.Error("delete user failed", "user_id", targetID, "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "failed to delete user", nil)
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "user deleted", nil)
}

// ListUsersHandler serves GET /users/all behind the admin gate.
type ListUsersHandler struct {
	UserService *service.UserService
}

func (h *ListUsersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	users, err := h.UserService.List(r.Context())
	if err != nil {
		slogx.FromContext(r.Context()).Error("list users failed", "err", err)
		httpx.WriteEnvelope(w, http.StatusInternalServerError, "failed to retrieve users", nil)
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}

	httpx.WriteEnvelope(w, http.StatusOK, "retrieved all users", map[string]any{"users": out})
}

// CreateAdminHandler serves POST /admin/create. Provisioning an admin
// requires the out-of-band admin secret in the Authorization header; when no
// secret is configured the endpoint fails closed.
type CreateAdminHandler struct {
	UserService *service.UserService
	AdminSecret string
}

func (h *CreateAdminHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	if h.AdminSecret == "" {
		httpx.WriteEnvelope(w, http.StatusForbidden, "admin provisioning is disabled", nil)
		return
	}

	presented := r.Header.Get("Authorization")
	if presented == "" {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "missing authorization token", nil)
		return
	}
	if subtle.ConstantTimeCompare([]byte(presented), []byte(h.AdminSecret)) != 1 {
		httpx.WriteEnvelope(w, http.StatusUnauthorized, "invalid admin secret", nil)
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteEnvelope(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	user, err := h.UserService.CreateAdmin(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidInput):
			httpx.WriteEnvelope(w, http.StatusBadRequest, "email and password are required", nil)
		case errors.Is(err, service.ErrEmailTaken):
			httpx.WriteEnvelope(w, http.StatusBadRequest, "email is already registered", nil)
		default:
			log.Error("create admin failed", "err", err)
			httpx.WriteEnvelope(w, http.StatusInternalServerError, "create admin failed", nil)
		}
		return
	}

	httpx.WriteEnvelope(w, http.StatusOK, "created admin", toUserResponse(user))
}
