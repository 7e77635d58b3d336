package audit

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/infrastructure/auditlog"
	"github.com/taskhive/backend/internal/infrastructure/auditspill"
	"github.com/taskhive/backend/usecase"
)

// Notifier records high-priority task mutations in a durable audit log and
// mirrors them to the structured log at warning level.
//
// The append is best-effort: when the log file cannot be written the
// rendered entry is spilled to BoltDB for the flusher to retry, and the
// failure is reported through the logger only. The caller's mutation has
// already committed and must not be failed from here.
type Notifier struct {
	writer *auditlog.Writer
	spill  *auditspill.Store
	logger *zap.Logger
}

func NewNotifier(writer *auditlog.Writer, spill *auditspill.Store, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{
		writer: writer,
		spill:  spill,
		logger: logger,
	}
}

// Notify records one audit entry for the mutation. Callers guarantee the
// task is High priority; anything else is a programming error and is
// rejected immediately.
func (n *Notifier) Notify(ctx context.Context, task domain.Task, action string) error {
	if !task.IsHighPriority() {
		return domain.NewError(domain.ErrCodeInternal,
			"only high priority tasks can trigger high priority task events")
	}

	event := domain.NewHighPriorityEvent(task, action)
	entry := renderEntry(event)

	if err := n.writer.Append(entry); err != nil {
		n.logger.Error("audit append failed, spilling entry",
			zap.String("task_id", task.ID),
			zap.String("action", action),
			zap.String("path", n.writer.Path()),
			zap.Error(err))
		if n.spill != nil {
			if spillErr := n.spill.Enqueue(auditspill.Entry{TaskID: task.ID, Rendered: entry}); spillErr != nil {
				n.logger.Error("audit spill failed, entry lost",
					zap.String("task_id", task.ID),
					zap.Error(spillErr))
			}
		}
	}

	n.logger.Warn("high priority task mutation",
		zap.String("action", action),
		zap.String("task_id", task.ID),
		zap.String("title", task.Title),
		zap.Time("due_date", task.DueDate),
		zap.String("status", task.Status.String()))

	return nil
}

var _ usecase.HighPriorityNotifier = (*Notifier)(nil)

func renderEntry(event domain.HighPriorityEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s UTC] *** HIGH PRIORITY TASK %s ***\n",
		event.Timestamp.UTC().Format("2006-01-02 15:04:05.000"),
		strings.ToUpper(event.Action))
	fmt.Fprintf(&b, "Task ID: %s\n", event.TaskID)
	fmt.Fprintf(&b, "Title: %s\n", event.Title)
	fmt.Fprintf(&b, "Description: %s\n", event.Description)
	fmt.Fprintf(&b, "Due Date: %s UTC\n", event.DueDate.UTC().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Status: %s\n", event.Task.Status)
	fmt.Fprintf(&b, "Priority: %s\n", event.Task.Priority)
	fmt.Fprintf(&b, "Action: %s\n", event.Action)
	b.WriteString(strings.Repeat("=", 80))
	b.WriteString("\n")
	return b.String()
}
