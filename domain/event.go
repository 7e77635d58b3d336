package domain

import "time"

// Event actions recorded by the high-priority side-channel.
const (
	ActionCreated = "Created"
	ActionUpdated = "Updated"
)

// HighPriorityEvent carries a high-priority mutation into the audit
// side-channel. It is ephemeral: constructed per notification, never
// persisted as a queryable entity.
type HighPriorityEvent struct {
	TaskID      string    `json:"task_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	Action      string    `json:"action"`
	Timestamp   time.Time `json:"timestamp"`
	Task        Task      `json:"task"`
}

// NewHighPriorityEvent snapshots the task into an event record.
func NewHighPriorityEvent(task Task, action string) HighPriorityEvent {
	return HighPriorityEvent{
		TaskID:      task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Action:      action,
		Timestamp:   time.Now().UTC(),
		Task:        task,
	}
}
