package postgres

import (
	"context"

	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/sirupsen/logrus"
)

const cacheType = "task_list"

// CacheRecorder counts cache outcomes
type CacheRecorder interface {
	CacheHit(cacheType string)
	CacheMiss(cacheType string)
	CacheError(cacheType, operation string)
}

// CachedTaskStore caches each owner's task list in Redis. Every successful
// write by an owner drops that owner's list and bumps its generation, so a list
// loaded before the write is never cached after it. Redis failures are logged
// and the call falls through to the wrapped store.
type CachedTaskStore struct {
	next    storage.TaskStore
	cache   *RedisClient
	logger  logrus.FieldLogger
	metrics CacheRecorder
}

// NewCachedTaskStore wraps next. metrics may be nil.
func NewCachedTaskStore(next storage.TaskStore, cache *RedisClient, logger logrus.FieldLogger, metrics CacheRecorder) *CachedTaskStore {
	return &CachedTaskStore{
		next:    next,
		cache:   cache,
		logger:  logger,
		metrics: metrics,
	}
}

// ListTasks serves from cache when possible
func (s *CachedTaskStore) ListTasks(ctx context.Context, ownerID int64) ([]*storage.Task, error) {
	tasks, found, err := s.cache.GetTaskList(ctx, ownerID)
	switch {
	case err != nil:
		s.cacheFailed(err, "get", ownerID)
		return s.next.ListTasks(ctx, ownerID)
	case found:
		s.record(func(m CacheRecorder) { m.CacheHit(cacheType) })
		return tasks, nil
	default:
		s.record(func(m CacheRecorder) { m.CacheMiss(cacheType) })
	}

	// Must be read before the database
	generation, err := s.cache.TaskListGeneration(ctx, ownerID)
	if err != nil {
		s.cacheFailed(err, "generation", ownerID)
		return s.next.ListTasks(ctx, ownerID)
	}

	tasks, err = s.next.ListTasks(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stored, err := s.cache.SetTaskList(ctx, ownerID, generation, tasks)
	if err != nil {
		s.cacheFailed(err, "set", ownerID)
	} else if !stored {
		s.logger.WithField("user_id", ownerID).Debug("task list changed while loading, not cached")
	}
	return tasks, nil
}

// CreateTask creates a task and drops the owner's cached list
func (s *CachedTaskStore) CreateTask(ctx context.Context, ownerID int64, in storage.NewTask) (*storage.Task, error) {
	task, err := s.next.CreateTask(ctx, ownerID, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

// GetTask is not cached
func (s *CachedTaskStore) GetTask(ctx context.Context, ownerID, taskID int64) (*storage.Task, error) {
	return s.next.GetTask(ctx, ownerID, taskID)
}

// UpdateTask updates a task and drops the owner's cached list
func (s *CachedTaskStore) UpdateTask(ctx context.Context, ownerID, taskID int64, update storage.TaskUpdate) (*storage.Task, error) {
	task, err := s.next.UpdateTask(ctx, ownerID, taskID, update)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

// DeleteTask deletes a task and drops the owner's cached list
func (s *CachedTaskStore) DeleteTask(ctx context.Context, ownerID, taskID int64) error {
	if err := s.next.DeleteTask(ctx, ownerID, taskID); err != nil {
		return err
	}
	s.invalidate(ctx, ownerID)
	return nil
}

// SetTaskCompleted toggles completion and drops the owner's cached list
func (s *CachedTaskStore) SetTaskCompleted(ctx context.Context, ownerID, taskID int64, completed bool) (*storage.Task, error) {
	task, err := s.next.SetTaskCompleted(ctx, ownerID, taskID, completed)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, ownerID)
	return task, nil
}

func (s *CachedTaskStore) invalidate(ctx context.Context, ownerID int64) {
	if err := s.cache.InvalidateTaskList(ctx, ownerID); err != nil {
		s.cacheFailed(err, "invalidate", ownerID)
	}
}

func (s *CachedTaskStore) cacheFailed(err error, op string, ownerID int64) {
	s.record(func(m CacheRecorder) { m.CacheError(cacheType, op) })
	s.logger.WithError(err).WithFields(logrus.Fields{
		"operation": op,
		"user_id":   ownerID,
	}).Warn("task cache unavailable")
}

func (s *CachedTaskStore) record(fn func(CacheRecorder)) {
	if s.metrics != nil {
		fn(s.metrics)
	}
}

var _ storage.TaskStore = (*CachedTaskStore)(nil)
