package usecase

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// HighPriorityNotifier abstracts the audit side-channel so command
// handlers stay storage-agnostic.
//
// Callers must only invoke Notify for tasks whose priority is High; the
// implementation treats anything else as a contract violation. A non-nil
// error from Notify signals that violation — audit write failures are
// absorbed by the implementation and never surface here.
type HighPriorityNotifier interface {
	Notify(ctx context.Context, task domain.Task, action string) error
}
