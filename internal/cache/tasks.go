package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"taskly_backend/internal/model"
)

const (
	// TaskCachePrefix is the key prefix for per-user task list caches
	TaskCachePrefix = "tasks:user:"

	// TaskCacheTTL bounds staleness if an invalidation is ever missed
	TaskCacheTTL = 5 * time.Minute
)

// TaskCache caches each user's full task list. The list is small (one
// person's tasks), so the whole slice is stored as one JSON value and
// dropped on any mutation.
//
// Using an interface enables testing with mocks and potential future backends.
type TaskCache interface {
	// GetList returns the cached list, or found=false on a miss.
	GetList(ctx context.Context, userID int64) (tasks []model.Task, found bool, err error)

	// SetList stores the list with the cache TTL.
	SetList(ctx context.Context, userID int64, tasks []model.Task) error

	// Invalidate drops a user's cached list. Called after every task mutation.
	Invalidate(ctx context.Context, userID int64) error
}

// RedisTaskCache implements TaskCache on Redis string values.
type RedisTaskCache struct {
	client *redis.Client
}

// NewTaskCache creates a new TaskCache backed by Redis.
func NewTaskCache(client *redis.Client) TaskCache {
	return &RedisTaskCache{client: client}
}

func taskKey(userID int64) string {
	return fmt.Sprintf("%s%d", TaskCachePrefix, userID)
}

// GetList returns the cached list, or found=false on a miss.
func (c *RedisTaskCache) GetList(ctx context.Context, userID int64) ([]model.Task, bool, error) {
	key := taskKey(userID)

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		log.Printf("[TaskCache] GetList FAILED: user=%d err=%v", userID, err)
		return nil, false, fmt.Errorf("get task list: %w", err)
	}

	var tasks []model.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		log.Printf("[TaskCache] GetList unmarshal error: user=%d err=%v", userID, err)
		return nil, false, fmt.Errorf("decode task list: %w", err)
	}

	return tasks, true, nil
}

// SetList stores the list with the cache TTL.
func (c *RedisTaskCache) SetList(ctx context.Context, userID int64, tasks []model.Task) error {
	raw, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("encode task list: %w", err)
	}

	if err := c.client.Set(ctx, taskKey(userID), raw, TaskCacheTTL).Err(); err != nil {
		log.Printf("[TaskCache] SetList FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("set task list: %w", err)
	}
	return nil
}

// Invalidate drops a user's cached list.
func (c *RedisTaskCache) Invalidate(ctx context.Context, userID int64) error {
	if err := c.client.Del(ctx, taskKey(userID)).Err(); err != nil {
		log.Printf("[TaskCache] Invalidate FAILED: user=%d err=%v", userID, err)
		return fmt.Errorf("invalidate task list: %w", err)
	}
	return nil
}
