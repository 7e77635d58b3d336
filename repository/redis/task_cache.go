package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

const summaryKey = "tasks:summary"

// taskCache decorates a TaskRepository with a Redis read-through cache for
// point lookups and the status summary. Cache misses and Redis failures
// fall through to the inner store; writes invalidate.
type taskCache struct {
	inner  repository.TaskRepository
	client *redislib.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewTaskCache wraps inner with a Redis cache using the given TTL.
func NewTaskCache(inner repository.TaskRepository, client *redislib.Client, ttl time.Duration, logger *zap.Logger) repository.TaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &taskCache{
		inner:  inner,
		client: client,
		prefix: "task:",
		ttl:    ttl,
		logger: logger,
	}
}

func (c *taskCache) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if cached, err := c.client.Get(ctx, c.key(id)).Result(); err == nil {
		var task domain.Task
		if err := json.Unmarshal([]byte(cached), &task); err == nil {
			return &task, nil
		}
	} else if err != redislib.Nil {
		c.logger.Warn("task cache read failed", zap.String("task_id", id), zap.Error(err))
	}

	task, err := c.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.store(ctx, c.key(task.ID), task)
	return task, nil
}

// Listings are not cached: cursor/filter combinations fan out too widely
// for keyed invalidation to stay correct.
func (c *taskCache) GetCursorPage(ctx context.Context, req repository.PageRequest) (*domain.CursorPage, error) {
	return c.inner.GetCursorPage(ctx, req)
}

func (c *taskCache) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	created, err := c.inner.Create(ctx, task)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, c.key(created.ID))
	return created, nil
}

func (c *taskCache) Update(ctx context.Context, id string, task *domain.Task) (*domain.Task, error) {
	updated, err := c.inner.Update(ctx, id, task)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, c.key(id))
	return updated, nil
}

func (c *taskCache) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := c.inner.Delete(ctx, id)
	if err != nil {
		return false, err
	}
	if deleted {
		c.invalidate(ctx, c.key(id))
	}
	return deleted, nil
}

func (c *taskCache) GetStatusSummary(ctx context.Context) (*domain.StatusSummary, error) {
	if cached, err := c.client.Get(ctx, summaryKey).Result(); err == nil {
		var summary domain.StatusSummary
		if err := json.Unmarshal([]byte(cached), &summary); err == nil {
			return &summary, nil
		}
	} else if err != redislib.Nil {
		c.logger.Warn("summary cache read failed", zap.Error(err))
	}

	summary, err := c.inner.GetStatusSummary(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, summaryKey, summary)
	return summary, nil
}

func (c *taskCache) store(ctx context.Context, key string, value interface{}) {
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("task cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *taskCache) invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, key, summaryKey).Err(); err != nil {
		c.logger.Warn("task cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *taskCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}
