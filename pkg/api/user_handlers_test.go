package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userPath(id int64) string { return fmt.Sprintf("/api/users/%d", id) }

func strPtr(s string) *string { return &s }

func TestGetUser(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")
	bob := env.register(t, "bob@x.com", "password123")

	w := env.do(t, http.MethodGet, userPath(alice.User.ID), alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var user auth.PublicUser
	decode(t, w, &user)
	assert.Equal(t, alice.User, user)
	assert.NotContains(t, w.Body.String(), "password")

	w = env.do(t, http.MethodGet, userPath(alice.User.ID), bob.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", detail(t, w))

	w = env.do(t, http.MethodGet, "/api/users/me", alice.AccessToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestUpdateUser(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")

	w := env.do(t, http.MethodPut, userPath(alice.User.ID), alice.AccessToken,
		UpdateUserRequest{Email: strPtr(" Alice.New@X.com "), Password: strPtr("newpassword1")})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var user auth.PublicUser
	decode(t, w, &user)
	assert.Equal(t, "alice.new@x.com", user.Email)
	assert.Equal(t, alice.User.ID, user.ID)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "alice@x.com", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "alice.new@x.com", Password: "newpassword1"})
	assert.Equal(t, http.StatusOK, w.Code)

	// Tokens issued before the change stay valid until they expire
	w = env.do(t, http.MethodGet, userPath(alice.User.ID), alice.AccessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateUser_Errors(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")
	env.register(t, "bob@x.com", "password123")

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantDetail string
	}{
		{"email taken", UpdateUserRequest{Email: strPtr("BOB@x.com")}, http.StatusConflict, "Email already registered"},
		{"bad email", UpdateUserRequest{Email: strPtr("bob")}, http.StatusUnprocessableEntity, "Invalid email format"},
		{"short password", UpdateUserRequest{Password: strPtr("short")}, http.StatusBadRequest, "Password must be at least 8 characters"},
		{"malformed json", `{`, http.StatusUnprocessableEntity, "Invalid JSON body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, userPath(alice.User.ID), alice.AccessToken, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantDetail, detail(t, w))
		})
	}

	// Keeping your own address is not a conflict
	w := env.do(t, http.MethodPut, userPath(alice.User.ID), alice.AccessToken, UpdateUserRequest{Email: strPtr("alice@x.com")})
	assert.Equal(t, http.StatusOK, w.Code)
}
