package domain

import (
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"
)

// Priority classifies tasks by severity, ordered None < Low < Medium < High.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
)

var priorityNames = [...]string{"None", "Low", "Medium", "High"}

func (p Priority) String() string {
	if p < PriorityNone || p > PriorityHigh {
		return fmt.Sprintf("Priority(%d)", int(p))
	}
	return priorityNames[p]
}

// ParsePriority resolves a wire name into a Priority tag.
func ParsePriority(name string) (Priority, error) {
	for i, n := range priorityNames {
		if n == name {
			return Priority(i), nil
		}
	}
	return PriorityNone, fmt.Errorf("unknown priority %q", name)
}

// Priority travels by name on the wire, never as its ordinal.
func (p Priority) MarshalJSON() ([]byte, error) {
	if p < PriorityNone || p > PriorityHigh {
		return nil, fmt.Errorf("priority out of range: %d", int(p))
	}
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParsePriority(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Status tags a task's lifecycle stage. Any status may move to any other;
// transition legality is not enforced.
type Status int

const (
	StatusPending Status = iota
	StatusInProgress
	StatusCompleted
	StatusArchived
)

var statusNames = [...]string{"Pending", "InProgress", "Completed", "Archived"}

// AllStatuses lists every status in declaration order so summary
// aggregation can emit zero buckets.
var AllStatuses = []Status{StatusPending, StatusInProgress, StatusCompleted, StatusArchived}

func (s Status) String() string {
	if s < StatusPending || s > StatusArchived {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// ParseStatus resolves a wire name into a Status tag.
func ParseStatus(name string) (Status, error) {
	for i, n := range statusNames {
		if n == name {
			return Status(i), nil
		}
	}
	return StatusPending, fmt.Errorf("unknown status %q", name)
}

func (s Status) MarshalJSON() ([]byte, error) {
	if s < StatusPending || s > StatusArchived {
		return nil, fmt.Errorf("status out of range: %d", int(s))
	}
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseStatus(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Task represents a tracked work item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    Priority  `json:"priority"`
	DueDate     time.Time `json:"due_date"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const (
	TitleMinLen       = 3
	TitleMaxLen       = 200
	DescriptionMaxLen = 1000
)

// Validate checks the field constraints a write must satisfy before it is
// accepted. Validation belongs to the command side; the store does not
// re-check.
func (t *Task) Validate() error {
	if t == nil {
		return ErrInvalidPayload
	}
	if n := utf8.RuneCountInString(t.Title); n < TitleMinLen || n > TitleMaxLen {
		return NewError(ErrCodeInvalid, fmt.Sprintf("title must be between %d and %d characters", TitleMinLen, TitleMaxLen))
	}
	if utf8.RuneCountInString(t.Description) > DescriptionMaxLen {
		return NewError(ErrCodeInvalid, fmt.Sprintf("description must not exceed %d characters", DescriptionMaxLen))
	}
	if t.Priority < PriorityNone || t.Priority > PriorityHigh {
		return NewError(ErrCodeInvalid, "unknown priority")
	}
	if t.Status < StatusPending || t.Status > StatusArchived {
		return NewError(ErrCodeInvalid, "unknown status")
	}
	return nil
}

func (t *Task) IsHighPriority() bool {
	return t != nil && t.Priority == PriorityHigh
}

// CursorPage is the envelope returned by cursor-paginated listings. Items
// are ordered ascending by id; NextCursor carries the id of the last
// retained item and is empty when no further page exists.
type CursorPage struct {
	Items       []Task `json:"items"`
	PageSize    int    `json:"page_size"`
	HasNextPage bool   `json:"has_next_page"`
	NextCursor  string `json:"next_cursor,omitempty"`
}

// StatusCount pairs a status bucket with its record count.
type StatusCount struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// StatusSummary aggregates live records by status. Every status appears
// exactly once, zero counts included; Total equals the sum of counts.
type StatusSummary struct {
	Counts []StatusCount `json:"counts"`
	Total  int           `json:"total"`
}
