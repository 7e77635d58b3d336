package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/repository/memory"
)

// countingRepo tracks how often reads reach the inner store.
type countingRepo struct {
	repository.TaskRepository
	gets      int
	summaries int
}

func (c *countingRepo) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	c.gets++
	return c.TaskRepository.GetByID(ctx, id)
}

func (c *countingRepo) GetStatusSummary(ctx context.Context) (*domain.StatusSummary, error) {
	c.summaries++
	return c.TaskRepository.GetStatusSummary(ctx)
}

func newCache(t *testing.T) (*countingRepo, repository.TaskRepository) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })

	inner := &countingRepo{TaskRepository: memory.NewTaskRepository()}
	return inner, NewTaskCache(inner, client, time.Minute, nil)
}

func TestGetByIDServedFromCacheOnSecondRead(t *testing.T) {
	inner, cache := newCache(t)
	ctx := context.Background()

	if _, err := cache.Create(ctx, &domain.Task{ID: "t1", Title: "Cached task", Status: domain.StatusPending}); err != nil {
		t.Fatalf("create: %v", err)
	}

	first, err := cache.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := cache.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if inner.gets != 1 {
		t.Fatalf("inner store hit %d times, want 1", inner.gets)
	}
	if first.Title != second.Title || first.ID != second.ID {
		t.Fatalf("cached read diverged: %+v vs %+v", first, second)
	}
}

func TestUpdateInvalidatesCachedTask(t *testing.T) {
	_, cache := newCache(t)
	ctx := context.Background()

	if _, err := cache.Create(ctx, &domain.Task{ID: "t1", Title: "Before", Status: domain.StatusPending}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cache.GetByID(ctx, "t1"); err != nil {
		t.Fatalf("warm read: %v", err)
	}
	if _, err := cache.Update(ctx, "t1", &domain.Task{Title: "After", Status: domain.StatusCompleted}); err != nil {
		t.Fatalf("update: %v", err)
	}

	task, err := cache.GetByID(ctx, "t1")
	if err != nil {
		t.Fatalf("read after update: %v", err)
	}
	if task.Title != "After" || task.Status != domain.StatusCompleted {
		t.Fatalf("stale cache served: %+v", task)
	}
}

func TestDeleteInvalidatesCachedTask(t *testing.T) {
	_, cache := newCache(t)
	ctx := context.Background()

	if _, err := cache.Create(ctx, &domain.Task{ID: "t1", Title: "Short-lived", Status: domain.StatusPending}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := cache.GetByID(ctx, "t1"); err != nil {
		t.Fatalf("warm read: %v", err)
	}
	if deleted, err := cache.Delete(ctx, "t1"); err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}

	if _, err := cache.GetByID(ctx, "t1"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Fatalf("deleted task still served: %v", err)
	}
}

func TestSummaryCachedUntilWrite(t *testing.T) {
	inner, cache := newCache(t)
	ctx := context.Background()

	if _, err := cache.Create(ctx, &domain.Task{ID: "t1", Title: "Summary seed", Status: domain.StatusPending}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := cache.GetStatusSummary(ctx); err != nil {
		t.Fatalf("first summary: %v", err)
	}
	if _, err := cache.GetStatusSummary(ctx); err != nil {
		t.Fatalf("second summary: %v", err)
	}
	if inner.summaries != 1 {
		t.Fatalf("inner summary hit %d times, want 1", inner.summaries)
	}

	if _, err := cache.Create(ctx, &domain.Task{ID: "t2", Title: "Invalidates summary", Status: domain.StatusCompleted}); err != nil {
		t.Fatalf("second create: %v", err)
	}
	summary, err := cache.GetStatusSummary(ctx)
	if err != nil {
		t.Fatalf("summary after write: %v", err)
	}
	if summary.Total != 2 {
		t.Fatalf("stale summary: total=%d want 2", summary.Total)
	}
}
