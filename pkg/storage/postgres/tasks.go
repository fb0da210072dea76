package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/platinummonkey/todo/pkg/storage"
)

const taskColumns = `id, user_id, title, description, completed, created_at, updated_at`

// TaskStore implements storage.TaskStore. Every query filters on user_id.
type TaskStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewTaskStore creates a task store over db
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db, now: utcNow}
}

// ListTasks returns the owner's tasks, oldest first. Never nil.
func (s *TaskStore) ListTasks(ctx context.Context, ownerID int64) ([]*storage.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE user_id = $1 ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*storage.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// CreateTask inserts an incomplete task owned by ownerID
func (s *TaskStore) CreateTask(ctx context.Context, ownerID int64, in storage.NewTask) (*storage.Task, error) {
	now := s.now()
	query := `
		INSERT INTO tasks (user_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING id
	`

	var id int64
	err := s.db.QueryRowContext(ctx, query, ownerID, in.Title, in.Description, false, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", mapError(err))
	}

	return &storage.Task{
		ID:          id,
		UserID:      ownerID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// GetTask returns the task only if ownerID owns it
func (s *TaskStore) GetTask(ctx context.Context, ownerID, taskID int64) (*storage.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1 AND user_id = $2`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, taskID, ownerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get task: %w", mapError(err))
	}
	return task, nil
}

// UpdateTask replaces title, description and completed
func (s *TaskStore) UpdateTask(ctx context.Context, ownerID, taskID int64, update storage.TaskUpdate) (*storage.Task, error) {
	query := `
		UPDATE tasks
		SET title = $1, description = $2, completed = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`

	res, err := s.db.ExecContext(ctx, query, update.Title, update.Description, update.Completed, s.now(), taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", mapError(err))
	}
	if err := expectRow(res); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return s.GetTask(ctx, ownerID, taskID)
}

// DeleteTask removes the task if ownerID owns it
func (s *TaskStore) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, taskID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := expectRow(res); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

// SetTaskCompleted sets the completion flag
func (s *TaskStore) SetTaskCompleted(ctx context.Context, ownerID, taskID int64, completed bool) (*storage.Task, error) {
	query := `
		UPDATE tasks
		SET completed = $1, updated_at = $2
		WHERE id = $3 AND user_id = $4
	`

	res, err := s.db.ExecContext(ctx, query, completed, s.now(), taskID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to set task completion: %w", err)
	}
	if err := expectRow(res); err != nil {
		return nil, fmt.Errorf("failed to set task completion: %w", err)
	}

	return s.GetTask(ctx, ownerID, taskID)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*storage.Task, error) {
	var t storage.Task
	var description sql.NullString
	if err := row.Scan(&t.ID, &t.UserID, &t.Title, &description, &t.Completed, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	if description.Valid {
		t.Description = &description.String
	}
	return &t, nil
}

var _ storage.TaskStore = (*TaskStore)(nil)
