package api

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tasksPath(userID int64) string { return fmt.Sprintf("/api/%d/tasks", userID) }

func taskPath(userID, taskID int64) string { return fmt.Sprintf("/api/%d/tasks/%d", userID, taskID) }

func createTask(t *testing.T, env *testEnv, user AuthResponse, title string) storage.Task {
	t.Helper()
	w := env.do(t, http.MethodPost, tasksPath(user.User.ID), user.AccessToken, CreateTaskRequest{Title: title})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task storage.Task
	decode(t, w, &task)
	return task
}

func TestTasks_Lifecycle(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")

	// Empty list is an array, not null
	w := env.do(t, http.MethodGet, tasksPath(alice.User.ID), alice.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	desc := "two liters"
	w = env.do(t, http.MethodPost, tasksPath(alice.User.ID), alice.AccessToken, CreateTaskRequest{Title: "Buy milk", Description: &desc})
	require.Equal(t, http.StatusCreated, w.Code)
	var created storage.Task
	decode(t, w, &created)
	assert.Equal(t, alice.User.ID, created.UserID)
	assert.Equal(t, "Buy milk", created.Title)
	require.NotNil(t, created.Description)
	assert.Equal(t, "two liters", *created.Description)
	assert.False(t, created.Completed)

	second := createTask(t, env, alice, "Walk dog")
	assert.Nil(t, second.Description)
	assert.Contains(t, env.do(t, http.MethodGet, taskPath(alice.User.ID, second.ID), alice.AccessToken, nil).Body.String(), `"description":null`)

	w = env.do(t, http.MethodGet, tasksPath(alice.User.ID), alice.AccessToken, nil)
	var list []storage.Task
	decode(t, w, &list)
	require.Len(t, list, 2)
	assert.Equal(t, created.ID, list[0].ID, "oldest first")
	assert.Equal(t, second.ID, list[1].ID)

	w = env.do(t, http.MethodPut, taskPath(alice.User.ID, created.ID), alice.AccessToken, UpdateTaskRequest{Title: "Buy oat milk", Completed: true})
	require.Equal(t, http.StatusOK, w.Code)
	var updated storage.Task
	decode(t, w, &updated)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Nil(t, updated.Description)
	assert.True(t, updated.Completed)

	w = env.do(t, http.MethodPatch, taskPath(alice.User.ID, created.ID)+"/complete", alice.AccessToken, map[string]bool{"completed": false})
	require.Equal(t, http.StatusOK, w.Code)
	var toggled storage.Task
	decode(t, w, &toggled)
	assert.False(t, toggled.Completed)

	w = env.do(t, http.MethodDelete, taskPath(alice.User.ID, created.ID), alice.AccessToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = env.do(t, http.MethodGet, taskPath(alice.User.ID, created.ID), alice.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Task not found", detail(t, w))
}

func TestTasks_Validation(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")
	task := createTask(t, env, alice, "existing")
	longDesc := strings.Repeat("d", 10001)

	tests := []struct {
		name       string
		method     string
		path       string
		body       interface{}
		wantDetail string
	}{
		{"create missing title", http.MethodPost, tasksPath(alice.User.ID), map[string]string{}, "title is required"},
		{"create long title", http.MethodPost, tasksPath(alice.User.ID), CreateTaskRequest{Title: strings.Repeat("t", 256)}, "title must be at most 255 characters"},
		{"create long description", http.MethodPost, tasksPath(alice.User.ID), CreateTaskRequest{Title: "ok", Description: &longDesc}, "description must be at most 10000 characters"},
		{"create malformed json", http.MethodPost, tasksPath(alice.User.ID), `{"title": 1`, "Invalid JSON body"},
		{"update missing title", http.MethodPut, taskPath(alice.User.ID, task.ID), map[string]bool{"completed": true}, "title is required"},
		{"toggle missing completed", http.MethodPatch, taskPath(alice.User.ID, task.ID) + "/complete", map[string]string{}, "completed is required"},
		{"non-integer task id", http.MethodGet, tasksPath(alice.User.ID) + "/abc", nil, "invalid integer for task_id: abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, alice.AccessToken, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
			assert.Equal(t, tt.wantDetail, detail(t, w))
		})
	}
}

func TestTasks_Authentication(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")
	path := tasksPath(alice.User.ID)

	w := env.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authenticated", detail(t, w))

	w = env.do(t, http.MethodGet, path, tamper(t, alice.AccessToken), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid or expired token", detail(t, w))

	other := newTestEnv(t, "some-other-secret")
	foreign := other.register(t, "alice@x.com", "password123")
	w = env.do(t, http.MethodGet, path, foreign.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTasks_PathMustNameCaller(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")
	bob := env.register(t, "bob@x.com", "password123")
	task := createTask(t, env, alice, "alice's")

	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, tasksPath(alice.User.ID), nil},
		{http.MethodPost, tasksPath(alice.User.ID), CreateTaskRequest{Title: "sneaky"}},
		{http.MethodGet, taskPath(alice.User.ID, task.ID), nil},
		{http.MethodPut, taskPath(alice.User.ID, task.ID), UpdateTaskRequest{Title: "mine now"}},
		{http.MethodDelete, taskPath(alice.User.ID, task.ID), nil},
		{http.MethodPatch, taskPath(alice.User.ID, task.ID) + "/complete", map[string]bool{"completed": true}},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			w := env.do(t, req.method, req.path, bob.AccessToken, req.body)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "Unauthorized", detail(t, w))
		})
	}

	// Nothing changed
	got := env.do(t, http.MethodGet, taskPath(alice.User.ID, task.ID), alice.AccessToken, nil)
	var unchanged storage.Task
	decode(t, got, &unchanged)
	assert.Equal(t, "alice's", unchanged.Title)
	assert.False(t, unchanged.Completed)
}

func TestTasks_ForeignTaskIsNotFound(t *testing.T) {
	env := newTestEnv(t, testSecret)
	alice := env.register(t, "alice@x.com", "password123")
	bob := env.register(t, "bob@x.com", "password123")
	task := createTask(t, env, alice, "alice's")

	// Bob names himself in the path but Alice's task id
	requests := []struct {
		method string
		path   string
		body   interface{}
	}{
		{http.MethodGet, taskPath(bob.User.ID, task.ID), nil},
		{http.MethodPut, taskPath(bob.User.ID, task.ID), UpdateTaskRequest{Title: "mine now"}},
		{http.MethodDelete, taskPath(bob.User.ID, task.ID), nil},
		{http.MethodPatch, taskPath(bob.User.ID, task.ID) + "/complete", map[string]bool{"completed": true}},
		{http.MethodGet, taskPath(bob.User.ID, 99999), nil},
	}

	for _, req := range requests {
		t.Run(req.method+" "+req.path, func(t *testing.T) {
			w := env.do(t, req.method, req.path, bob.AccessToken, req.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
			assert.Equal(t, "Task not found", detail(t, w))
		})
	}

	w := env.do(t, http.MethodGet, tasksPath(bob.User.ID), bob.AccessToken, nil)
	assert.JSONEq(t, `[]`, w.Body.String())
}

// TestScenario walks the register, duplicate, wrong password, tampered token
// and foreign task sequence end to end.
func TestScenario(t *testing.T) {
	env := newTestEnv(t, testSecret)

	alice := env.register(t, "alice@example.com", "correcthorse")

	w := env.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{Email: "alice@example.com", Password: "anotherpass"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "alice@example.com", Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", detail(t, w))

	w = env.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "alice@example.com", Password: "correcthorse"})
	require.Equal(t, http.StatusOK, w.Code)
	var login AuthResponse
	decode(t, w, &login)
	assert.Equal(t, alice.User.ID, login.User.ID)

	task := createTask(t, env, login, "Buy milk")

	w = env.do(t, http.MethodGet, tasksPath(alice.User.ID), tamper(t, login.AccessToken), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	bob := env.register(t, "bob@example.com", "bobspassword")
	w = env.do(t, http.MethodGet, taskPath(bob.User.ID, task.ID), bob.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = env.do(t, http.MethodGet, taskPath(alice.User.ID, task.ID), bob.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// tamper alters the signed payload segment of a token, leaving its signature
func tamper(t *testing.T, token string) string {
	t.Helper()
	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	first := "e"
	if parts[1][0] == 'e' {
		first = "f"
	}
	parts[1] = first + parts[1][1:]
	return strings.Join(parts, ".")
}
