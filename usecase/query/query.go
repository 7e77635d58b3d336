package query

import (
	"context"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

// Page size bounds applied to every listing request.
const (
	MinPageSize     = 1
	MaxPageSize     = 100
	DefaultPageSize = 10
)

// Handler serves the read side: point lookups, cursor-paginated listings
// and the status summary.
type Handler struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{tasks: tasks, logger: logger}
}

// GetTask resolves a task by id. An empty id is malformed and resolves to
// not-found without touching the store.
func (h *Handler) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	return h.tasks.GetByID(ctx, id)
}

// ListTasks returns one page of tasks matching the optional filters. The
// requested page size is silently clamped into [MinPageSize, MaxPageSize];
// zero selects the default.
func (h *Handler) ListTasks(ctx context.Context, req repository.PageRequest) (*domain.CursorPage, error) {
	req.PageSize = ClampPageSize(req.PageSize)
	return h.tasks.GetCursorPage(ctx, req)
}

// GetSummary returns the per-status aggregation over all live tasks.
func (h *Handler) GetSummary(ctx context.Context) (*domain.StatusSummary, error) {
	return h.tasks.GetStatusSummary(ctx)
}

// ClampPageSize bounds a requested page size into [MinPageSize,
// MaxPageSize]. Out-of-range values are clamped rather than rejected; a
// missing query parameter defaults to DefaultPageSize at the boundary.
func ClampPageSize(size int) int {
	switch {
	case size < MinPageSize:
		return MinPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}
