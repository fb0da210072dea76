package storage

import (
	"context"
	"errors"
	"time"

	"github.com/platinummonkey/todo/pkg/auth"
)

var (
	// ErrNotFound is returned when no row matches, including rows owned by someone else
	ErrNotFound = errors.New("storage: not found")

	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("storage: conflict")
)

// Task is a to-do item owned by exactly one user
type Task struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"user_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask holds the fields supplied when creating a task
type NewTask struct {
	Title       string
	Description *string
}

// TaskUpdate replaces the mutable fields of a task
type TaskUpdate struct {
	Title       string
	Description *string
	Completed   bool
}

// UserUpdate changes a user's email and/or password hash. Nil fields are left alone.
type UserUpdate struct {
	Email        *string
	PasswordHash *string
}

// UserStore persists credentials. Emails are expected to be normalized by the caller.
type UserStore interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*auth.User, error)
	GetUserByEmail(ctx context.Context, email string) (*auth.User, error)
	GetUserByID(ctx context.Context, id int64) (*auth.User, error)
	UpdateUser(ctx context.Context, id int64, update UserUpdate) (*auth.User, error)
}

// TaskStore persists tasks. Every method is scoped to ownerID.
type TaskStore interface {
	// ListTasks returns the owner's tasks, oldest first
	ListTasks(ctx context.Context, ownerID int64) ([]*Task, error)
	CreateTask(ctx context.Context, ownerID int64, task NewTask) (*Task, error)
	GetTask(ctx context.Context, ownerID, taskID int64) (*Task, error)
	UpdateTask(ctx context.Context, ownerID, taskID int64, update TaskUpdate) (*Task, error)
	DeleteTask(ctx context.Context, ownerID, taskID int64) error
	SetTaskCompleted(ctx context.Context, ownerID, taskID int64, completed bool) (*Task, error)
}
