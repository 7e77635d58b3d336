package command

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/usecase"
)

// CreateTask carries the fields of a new task. The id is never
// caller-supplied; the handler generates it.
type CreateTask struct {
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     time.Time
	Status      domain.Status
}

// UpdateTask carries a full replacement of a task's mutable fields.
type UpdateTask struct {
	ID          string
	Title       string
	Description string
	Priority    domain.Priority
	DueDate     time.Time
	Status      domain.Status
}

// Handler serves the write side. Mutations that end with a High-priority
// task additionally fan out to the notifier; notifier trouble never fails
// the mutation.
type Handler struct {
	tasks    repository.TaskRepository
	notifier usecase.HighPriorityNotifier
	logger   *zap.Logger
	newID    func() string
}

func New(tasks repository.TaskRepository, notifier usecase.HighPriorityNotifier, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		tasks:    tasks,
		notifier: notifier,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Create validates the payload, assigns a fresh id and stores the task.
func (h *Handler) Create(ctx context.Context, cmd CreateTask) (*domain.Task, error) {
	task := &domain.Task{
		ID:          h.newID(),
		Title:       cmd.Title,
		Description: cmd.Description,
		Priority:    cmd.Priority,
		DueDate:     cmd.DueDate,
		Status:      cmd.Status,
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	created, err := h.tasks.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	if created.IsHighPriority() {
		h.notify(ctx, *created, domain.ActionCreated)
	}
	return created, nil
}

// Update replaces every mutable field of an existing task. An empty id is
// malformed and resolves to not-found without touching the store.
func (h *Handler) Update(ctx context.Context, cmd UpdateTask) (*domain.Task, error) {
	if cmd.ID == "" {
		return nil, domain.ErrTaskNotFound
	}

	replacement := &domain.Task{
		ID:          cmd.ID,
		Title:       cmd.Title,
		Description: cmd.Description,
		Priority:    cmd.Priority,
		DueDate:     cmd.DueDate,
		Status:      cmd.Status,
	}
	if err := replacement.Validate(); err != nil {
		return nil, err
	}

	updated, err := h.tasks.Update(ctx, cmd.ID, replacement)
	if err != nil {
		return nil, err
	}

	if updated.IsHighPriority() {
		h.notify(ctx, *updated, domain.ActionUpdated)
	}
	return updated, nil
}

// Delete removes a task. Deletions never notify, whatever the priority.
func (h *Handler) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	return h.tasks.Delete(ctx, id)
}

func (h *Handler) notify(ctx context.Context, task domain.Task, action string) {
	if h.notifier == nil {
		return
	}
	if err := h.notifier.Notify(ctx, task, action); err != nil {
		// Contract violation in the notifier call, not an audit write
		// failure; those are absorbed downstream.
		h.logger.Error("high-priority notification rejected",
			zap.String("task_id", task.ID),
			zap.String("action", action),
			zap.Error(err))
	}
}
