package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// PageRequest describes a cursor-paginated, filtered listing.
//
// Records are totally ordered by id ascending using lexicographic byte
// order over the id string. When Cursor is non-empty only records with an
// id strictly greater than it are eligible. Ids are unique and immutable,
// which keeps the cursor stable under concurrent insert and delete;
// callers must treat cursor values as opaque resumption tokens, not
// positions.
type PageRequest struct {
	Cursor   string
	PageSize int
	Priority *domain.Priority
	Status   *domain.Status
}

// TaskRepository is the durable keyed store for task records.
//
// Lookups that miss return domain.ErrTaskNotFound; duplicate ids on Create
// return domain.ErrTaskExists; connectivity failures are wrapped with
// domain.ErrCodeUnavailable.
type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	GetCursorPage(ctx context.Context, req PageRequest) (*domain.CursorPage, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, task *domain.Task) (*domain.Task, error)
	Delete(ctx context.Context, id string) (bool, error)
	GetStatusSummary(ctx context.Context) (*domain.StatusSummary, error)
}
