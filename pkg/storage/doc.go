// Package storage defines the persistence contracts for users and tasks.
//
// # Architecture
//
// The storage layer uses interface segregation for its two aggregates:
//
//   - UserStore: Credentials (CreateUser, GetUserByEmail, GetUserByID, UpdateUser)
//   - TaskStore: Owner-scoped tasks (ListTasks, CreateTask, GetTask, UpdateTask,
//     DeleteTask, SetTaskCompleted)
//
// Every TaskStore method takes the owner's user id and filters by it in SQL. A
// task that exists but belongs to another user is reported as ErrNotFound, the
// same as a missing row, so callers cannot probe for other users' ids.
//
// # Implementations
//
//   - pkg/storage/postgres: PostgreSQL via lib/pq, plus CachedTaskStore which
//     keeps each owner's task list in Redis
//
// # Errors
//
//	task, err := tasks.GetTask(ctx, ownerID, taskID)
//	if errors.Is(err, storage.ErrNotFound) {
//		// 404
//	}
//
// ErrConflict is returned for unique violations (duplicate email).
package storage
