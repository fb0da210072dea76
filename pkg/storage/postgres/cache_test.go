package postgres

import (
	"context"
	"testing"

	"github.com/platinummonkey/todo/pkg/storage"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRecorder struct {
	hits, misses int
	errors       []string
}

func (c *countingRecorder) CacheHit(string)  { c.hits++ }
func (c *countingRecorder) CacheMiss(string) { c.misses++ }
func (c *countingRecorder) CacheError(_, op string) {
	c.errors = append(c.errors, op)
}

// countingTaskStore counts ListTasks calls reaching the database
type countingTaskStore struct {
	storage.TaskStore
	lists int
}

func (c *countingTaskStore) ListTasks(ctx context.Context, ownerID int64) ([]*storage.Task, error) {
	c.lists++
	return c.TaskStore.ListTasks(ctx, ownerID)
}

// pausingTaskStore holds ListTasks after the rows are read until released
type pausingTaskStore struct {
	storage.TaskStore
	loaded  chan struct{}
	release chan struct{}
}

func (p *pausingTaskStore) ListTasks(ctx context.Context, ownerID int64) ([]*storage.Task, error) {
	tasks, err := p.TaskStore.ListTasks(ctx, ownerID)
	if p.loaded != nil {
		close(p.loaded)
		<-p.release
		p.loaded = nil
	}
	return tasks, err
}

func newCachedStore(t *testing.T) (*CachedTaskStore, *countingTaskStore, *countingRecorder, int64, int64) {
	t.Helper()
	users, tasks := newStores(t)
	ctx := context.Background()

	alice, err := users.CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)
	bob, err := users.CreateUser(ctx, "bob@x.com", "hash")
	require.NoError(t, err)

	_, redisClient := setupRedis(t)
	logger, _ := test.NewNullLogger()
	backing := &countingTaskStore{TaskStore: tasks}
	rec := &countingRecorder{}

	return NewCachedTaskStore(backing, redisClient, logger, rec), backing, rec, alice.ID, bob.ID
}

func TestCachedTaskStore_ListIsCached(t *testing.T) {
	store, backing, rec, alice, _ := newCachedStore(t)
	ctx := context.Background()

	_, err := store.CreateTask(ctx, alice, storage.NewTask{Title: "one"})
	require.NoError(t, err)

	first, err := store.ListTasks(ctx, alice)
	require.NoError(t, err)
	second, err := store.ListTasks(ctx, alice)
	require.NoError(t, err)

	assert.Equal(t, 1, backing.lists)
	assert.Equal(t, 1, rec.misses)
	assert.Equal(t, 1, rec.hits)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestCachedTaskStore_WritesInvalidate(t *testing.T) {
	store, backing, _, alice, _ := newCachedStore(t)
	ctx := context.Background()

	task, err := store.CreateTask(ctx, alice, storage.NewTask{Title: "one"})
	require.NoError(t, err)

	writes := []func() error{
		func() error {
			_, err := store.UpdateTask(ctx, alice, task.ID, storage.TaskUpdate{Title: "renamed"})
			return err
		},
		func() error {
			_, err := store.SetTaskCompleted(ctx, alice, task.ID, true)
			return err
		},
		func() error {
			_, err := store.CreateTask(ctx, alice, storage.NewTask{Title: "two"})
			return err
		},
		func() error { return store.DeleteTask(ctx, alice, task.ID) },
	}

	for i, write := range writes {
		_, err := store.ListTasks(ctx, alice) // warm
		require.NoError(t, err)
		before := backing.lists

		require.NoError(t, write())

		_, err = store.ListTasks(ctx, alice)
		require.NoError(t, err)
		assert.Equal(t, before+1, backing.lists, "write %d did not invalidate", i)
	}

	final, err := store.ListTasks(ctx, alice)
	require.NoError(t, err)
	require.Len(t, final, 1)
	assert.Equal(t, "two", final[0].Title)
}

func TestCachedTaskStore_OwnerIsolation(t *testing.T) {
	store, _, _, alice, bob := newCachedStore(t)
	ctx := context.Background()

	aliceTask, err := store.CreateTask(ctx, alice, storage.NewTask{Title: "alice only"})
	require.NoError(t, err)

	// Warm Alice's cache, then make sure Bob never sees it
	_, err = store.ListTasks(ctx, alice)
	require.NoError(t, err)

	bobList, err := store.ListTasks(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, bobList)

	_, err = store.GetTask(ctx, bob, aliceTask.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = store.DeleteTask(ctx, bob, aliceTask.ID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCachedTaskStore_RedisDownFallsThrough(t *testing.T) {
	users, tasks := newStores(t)
	ctx := context.Background()
	alice, err := users.CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	mr, redisClient := setupRedis(t)
	logger, hook := test.NewNullLogger()
	rec := &countingRecorder{}
	store := NewCachedTaskStore(tasks, redisClient, logger, rec)

	mr.Close()

	created, err := store.CreateTask(ctx, alice.ID, storage.NewTask{Title: "still works"})
	require.NoError(t, err)

	list, err := store.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	assert.Equal(t, []string{"invalidate", "get"}, rec.errors)
	assert.NotEmpty(t, hook.AllEntries())
}

func TestCachedTaskStore_WriteDuringLoadNotCachedStale(t *testing.T) {
	users, tasks := newStores(t)
	ctx := context.Background()
	alice, err := users.CreateUser(ctx, "alice@x.com", "hash")
	require.NoError(t, err)

	_, redisClient := setupRedis(t)
	logger, _ := test.NewNullLogger()
	backing := &pausingTaskStore{
		TaskStore: tasks,
		loaded:    make(chan struct{}),
		release:   make(chan struct{}),
	}
	store := NewCachedTaskStore(backing, redisClient, logger, nil)

	type result struct {
		tasks []*storage.Task
		err   error
	}
	done := make(chan result, 1)
	go func() {
		list, err := store.ListTasks(ctx, alice.ID)
		done <- result{list, err}
	}()

	<-backing.loaded
	_, err = store.CreateTask(ctx, alice.ID, storage.NewTask{Title: "written during load"})
	require.NoError(t, err)
	close(backing.release)

	first := <-done
	require.NoError(t, first.err)
	assert.Empty(t, first.tasks)

	list, err := store.ListTasks(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "written during load", list[0].Title)
}
