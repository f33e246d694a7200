package http

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	t.Run("success returns the user without its hash", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/register", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, code)

		body, ok := resp.Body.(map[string]any)
		require.True(t, ok)
		require.Equal(t, "alice@example.com", body["email"])
		require.NotEmpty(t, body["public_id"])
		require.Equal(t, false, body["is_admin"])
		require.NotContains(t, body, "password_hash")
	})

	t.Run("duplicate email", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/register", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "email is already registered", resp.Msg)
	})

	t.Run("missing fields", func(t *testing.T) {
		code, _ := env.do(t, http.MethodPost, "/register", "", map[string]string{
			"email": "bob@example.com",
		})
		require.Equal(t, http.StatusBadRequest, code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "password123")

	t.Run("success returns a token", func(t *testing.T) {
		token := env.login(t, "alice@example.com", "password123")

		user, err := env.Sessions.Validate(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, "alice@example.com", user.Email)
	})

	t.Run("bad credentials share one message", func(t *testing.T) {
		code, resp := env.do(t, http.MethodPost, "/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "wrong",
		})
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "login failed: invalid email or password", resp.Msg)

		code, resp = env.do(t, http.MethodPost, "/login", "", map[string]string{
			"email":    "nobody@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusBadRequest, code)
		require.Equal(t, "login failed: invalid email or password", resp.Msg)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice@example.com", "password123")
	token := env.login(t, "alice@example.com", "password123")

	code, resp := env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "token removed", resp.Msg)

	// The token died with the session, so the gate now rejects it.
	code, resp = env.do(t, http.MethodPost, "/logout", token, nil)
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, "token is not valid", resp.Msg)
}

func TestDeleteUserEndpoint(t *testing.T) {
	t.Run("user deletes itself", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice@example.com", "password123")
		token := env.login(t, "alice@example.com", "password123")

		code, _ := env.do(t, http.MethodDelete, "/user/delete", token, nil)
		require.Equal(t, http.StatusOK, code)

		// Account and session are both gone.
		code, _ = env.do(t, http.MethodDelete, "/user/delete", token, nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})

	t.Run("admin deletes another user by id", func(t *testing.T) {
		env := newTestEnv(t)
		admin, err := env.Users.CreateAdmin(context.Background(), "root@example.com", "password123")
		require.NoError(t, err)
		require.True(t, admin.IsAdmin)

		env.register(t, "victim@example.com", "password123")
		victim, err := env.Store.Users().GetUserByEmail(context.Background(), "victim@example.com")
		require.NoError(t, err)

		adminToken := env.login(t, "root@example.com", "password123")
		code, _ := env.do(t, http.MethodDelete, "/user/delete", adminToken, map[string]int64{
			"user_id": victim.ID,
		})
		require.Equal(t, http.StatusOK, code)

		_, err = env.Store.Users().GetUserByEmail(context.Background(), "victim@example.com")
		require.Error(t, err)

		// The admin account itself survives.
		_, err = env.Store.Users().GetUserByID(context.Background(), admin.ID)
		require.NoError(t, err)
	})

	t.Run("non-admin body is ignored", func(t *testing.T) {
		env := newTestEnv(t)
		env.register(t, "alice@example.com", "password123")
		env.register(t, "bob@example.com", "password123")
		bob, err := env.Store.Users().GetUserByEmail(context.Background(), "bob@example.com")
		require.NoError(t, err)

		aliceToken := env.login(t, "alice@example.com", "password123")
		code, _ := env.do(t, http.MethodDelete, "/user/delete", aliceToken, map[string]int64{
			"user_id": bob.ID,
		})
		require.Equal(t, http.StatusOK, code)

		// Bob is untouched; alice deleted herself.
		_, err = env.Store.Users().GetUserByID(context.Background(), bob.ID)
		require.NoError(t, err)
		_, err = env.Store.Users().GetUserByEmail(context.Background(), "alice@example.com")
		require.Error(t, err)
	})
}

func TestListUsersEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.Users.CreateAdmin(context.Background(), "root@example.com", "password123")
	require.NoError(t, err)
	env.register(t, "alice@example.com", "password123")

	t.Run("admin sees all users", func(t *testing.T) {
		token := env.login(t, "root@example.com", "password123")

		code, resp := env.do(t, http.MethodGet, "/users/all", token, nil)
		require.Equal(t, http.StatusOK, code)

		body, ok := resp.Body.(map[string]any)
		require.True(t, ok)
		users, ok := body["users"].([]any)
		require.True(t, ok)
		require.Len(t, users, 2)
	})

	t.Run("authenticated non-admin is forbidden, not unauthorized", func(t *testing.T) {
		token := env.login(t, "alice@example.com", "password123")

		code, resp := env.do(t, http.MethodGet, "/users/all", token, nil)
		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "admin privileges required", resp.Msg)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		code, _ := env.do(t, http.MethodGet, "/users/all", "", nil)
		require.Equal(t, http.StatusUnauthorized, code)
	})
}

func TestCreateAdminEndpoint(t *testing.T) {
	t.Run("with the provisioning secret", func(t *testing.T) {
		env := newTestEnv(t)

		code, resp := env.do(t, http.MethodPost, "/admin/create", testAdminSecret, map[string]string{
			"email":    "root@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusOK, code)

		body, ok := resp.Body.(map[string]any)
		require.True(t, ok)
		require.Equal(t, true, body["is_admin"])
	})

	t.Run("wrong secret", func(t *testing.T) {
		env := newTestEnv(t)

		code, resp := env.do(t, http.MethodPost, "/admin/create", "wrong-secret", map[string]string{
			"email":    "root@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusUnauthorized, code)
		require.Equal(t, "invalid admin secret", resp.Msg)
	})

	t.Run("fails closed when no secret is configured", func(t *testing.T) {
		env := newTestEnv(t)
		handler := &CreateAdminHandler{UserService: env.Users, AdminSecret: ""}

		code, resp := env.doHandler(t, handler, http.MethodPost, "/admin/create", "anything", map[string]string{
			"email":    "root@example.com",
			"password": "password123",
		})
		require.Equal(t, http.StatusForbidden, code)
		require.Equal(t, "admin provisioning is disabled", resp.Msg)
	})
}
