package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// taskRepository is a mutex-guarded in-memory TaskRepository. It backs the
// "memory" store driver for local runs and the handler test suites.
type taskRepository struct {
	mu    sync.RWMutex
	tasks map[string]domain.Task
}

// NewTaskRepository returns an empty in-memory TaskRepository.
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{tasks: make(map[string]domain.Task)}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (r *taskRepository) GetCursorPage(ctx context.Context, req repository.PageRequest) (*domain.CursorPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if req.PageSize < 1 {
		req.PageSize = 1
	}

	matched := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		if req.Cursor != "" && task.ID <= req.Cursor {
			continue
		}
		if req.Priority != nil && task.Priority != *req.Priority {
			continue
		}
		if req.Status != nil && task.Status != *req.Status {
			continue
		}
		matched = append(matched, task)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	// Peek one record past the page to decide hasNextPage without a
	// separate count query.
	if len(matched) > req.PageSize+1 {
		matched = matched[:req.PageSize+1]
	}

	page := &domain.CursorPage{PageSize: req.PageSize}
	if len(matched) > req.PageSize {
		page.Items = matched[:req.PageSize]
		page.HasNextPage = true
		page.NextCursor = page.Items[len(page.Items)-1].ID
	} else {
		page.Items = matched
	}
	if page.Items == nil {
		page.Items = []domain.Task{}
	}
	return page, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tasks[task.ID]; exists {
		return nil, domain.ErrTaskExists
	}

	now := time.Now().UTC()
	stored := *task
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.tasks[stored.ID] = stored
	return &stored, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	// Replace every mutable field; the lookup id wins over whatever id the
	// replacement payload carries.
	updated := *task
	updated.ID = id
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	r.tasks[id] = updated
	return &updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *taskRepository) GetStatusSummary(ctx context.Context) (*domain.StatusSummary, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.WrapError(domain.ErrCodeUnavailable, "storage unavailable", err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	byStatus := make(map[domain.Status]int, len(domain.AllStatuses))
	for _, task := range r.tasks {
		byStatus[task.Status]++
	}

	summary := &domain.StatusSummary{Counts: make([]domain.StatusCount, 0, len(domain.AllStatuses))}
	for _, status := range domain.AllStatuses {
		count := byStatus[status]
		summary.Counts = append(summary.Counts, domain.StatusCount{Status: status, Count: count})
		summary.Total += count
	}
	return summary, nil
}
