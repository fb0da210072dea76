package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/platinummonkey/todo/pkg/storage"
)

// DefaultCacheTTL applies when no TTL is configured
const DefaultCacheTTL = 5 * time.Minute

// RedisClient handles caching operations
type RedisClient struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient connects to redisURL (redis://[:password@]host:port/db)
func NewRedisClient(ctx context.Context, redisURL string, ttl time.Duration) (*RedisClient, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	// Set connection timeouts
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisClientFromClient(client, ttl), nil
}

// NewRedisClientFromClient wraps an existing client
func NewRedisClientFromClient(client *redis.Client, ttl time.Duration) *RedisClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisClient{client: client, ttl: ttl}
}

// Client returns the underlying client, for health checks
func (c *RedisClient) Client() *redis.Client {
	return c.client
}

// Close closes the connection
func (c *RedisClient) Close() error {
	return c.client.Close()
}

func taskListKey(ownerID int64) string {
	return fmt.Sprintf("tasks:user:%d", ownerID)
}

// taskGenerationKey counts writes to an owner's tasks. A list read from the
// database is only cached if the count has not moved since before the read.
func taskGenerationKey(ownerID int64) string {
	return fmt.Sprintf("tasks:gen:%d", ownerID)
}

// GetTaskList retrieves an owner's task list. found is false on a cache miss.
func (c *RedisClient) GetTaskList(ctx context.Context, ownerID int64) (tasks []*storage.Task, found bool, err error) {
	key := taskListKey(ownerID)

	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil // Cache miss
	} else if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, &tasks); err != nil {
		// If unmarshal fails, delete corrupt data
		c.client.Del(ctx, key)
		return nil, false, fmt.Errorf("failed to unmarshal task list: %w", err)
	}
	if tasks == nil {
		tasks = make([]*storage.Task, 0)
	}

	return tasks, true, nil
}

// TaskListGeneration returns the owner's write generation; 0 if none yet.
// Read it before loading the list that will be passed to SetTaskList.
func (c *RedisClient) TaskListGeneration(ctx context.Context, ownerID int64) (int64, error) {
	return readGeneration(ctx, c.client, ownerID)
}

// SetTaskList stores an owner's task list if no write has happened since
// generation was read. stored is false when the list was already stale.
func (c *RedisClient) SetTaskList(ctx context.Context, ownerID, generation int64, tasks []*storage.Task) (stored bool, err error) {
	data, err := json.Marshal(tasks)
	if err != nil {
		return false, fmt.Errorf("failed to marshal task list: %w", err)
	}

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := readGeneration(ctx, tx, ownerID)
		if err != nil {
			return err
		}
		if current != generation {
			return errStaleList
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, taskListKey(ownerID), data, c.ttl)
			return nil
		})
		return err
	}, taskGenerationKey(ownerID))

	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, errStaleList), errors.Is(err, redis.TxFailedErr):
		return false, nil
	default:
		return false, fmt.Errorf("redis set failed: %w", err)
	}
}

// InvalidateTaskList bumps the owner's generation and removes the cached
// list in one transaction
func (c *RedisClient) InvalidateTaskList(ctx context.Context, ownerID int64) error {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, taskGenerationKey(ownerID))
		pipe.Del(ctx, taskListKey(ownerID))
		return nil
	})
	return err
}

var errStaleList = errors.New("task list changed while loading")

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func readGeneration(ctx context.Context, c getter, ownerID int64) (int64, error) {
	gen, err := c.Get(ctx, taskGenerationKey(ownerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get generation failed: %w", err)
	}
	return gen, nil
}
