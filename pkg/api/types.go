package api

import (
	"github.com/platinummonkey/todo/pkg/auth"
	"github.com/platinummonkey/todo/pkg/storage"
)

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	User        auth.PublicUser `json:"user"`
	AccessToken string          `json:"accessToken"`
}

// UpdateUserRequest changes the caller's email and/or password. Omitted
// fields are left unchanged.
type UpdateUserRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// CreateTaskRequest is the body of POST /api/{user_id}/tasks
type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
}

// UpdateTaskRequest replaces a task. completed defaults to false.
type UpdateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=10000"`
	Completed   bool    `json:"completed"`
}

// ToggleTaskRequest is the body of PATCH /api/{user_id}/tasks/{task_id}/complete
type ToggleTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// HealthResponse is returned by GET /api/health
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Version   string            `json:"version"`
	EnvCheck  map[string]string `json:"env_check"`
}

func (r CreateTaskRequest) toNewTask() storage.NewTask {
	return storage.NewTask{Title: r.Title, Description: r.Description}
}

func (r UpdateTaskRequest) toUpdate() storage.TaskUpdate {
	return storage.TaskUpdate{Title: r.Title, Description: r.Description, Completed: r.Completed}
}
