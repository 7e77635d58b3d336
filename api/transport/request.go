package transport

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/taskhive/backend/domain"
)

// TaskRequest is the JSON body accepted by create and update. Enum fields
// travel as their names; due_date is RFC3339.
type TaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	DueDate     string `json:"due_date"`
	Status      string `json:"status"`
}

// FieldError names one request field that failed validation.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate runs the boundary's request-shape checks and returns every
// failing field. The command side re-validates domain constraints; this
// layer exists so malformed requests are answered with a structured 400
// before a command is built.
func (r *TaskRequest) Validate() []FieldError {
	var errs []FieldError

	if n := utf8.RuneCountInString(r.Title); n < domain.TitleMinLen || n > domain.TitleMaxLen {
		errs = append(errs, FieldError{
			Field:   "title",
			Message: fmt.Sprintf("title must be between %d and %d characters", domain.TitleMinLen, domain.TitleMaxLen),
		})
	}
	if utf8.RuneCountInString(r.Description) > domain.DescriptionMaxLen {
		errs = append(errs, FieldError{
			Field:   "description",
			Message: fmt.Sprintf("description can't exceed %d characters", domain.DescriptionMaxLen),
		})
	}
	if r.Priority != "" {
		if _, err := domain.ParsePriority(r.Priority); err != nil {
			errs = append(errs, FieldError{Field: "priority", Message: "priority must be one of None, Low, Medium, High"})
		}
	}
	if r.Status != "" {
		if _, err := domain.ParseStatus(r.Status); err != nil {
			errs = append(errs, FieldError{Field: "status", Message: "status must be one of Pending, InProgress, Completed, Archived"})
		}
	}
	if r.DueDate == "" {
		errs = append(errs, FieldError{Field: "due_date", Message: "due_date is required"})
	} else if _, err := time.Parse(time.RFC3339, r.DueDate); err != nil {
		errs = append(errs, FieldError{Field: "due_date", Message: "due_date must be an RFC3339 timestamp"})
	}

	return errs
}

// Fields converts a validated request into domain values. Empty priority
// and status fall back to their zero tags.
func (r *TaskRequest) Fields() (domain.Priority, domain.Status, time.Time) {
	priority := domain.PriorityNone
	if r.Priority != "" {
		priority, _ = domain.ParsePriority(r.Priority)
	}
	status := domain.StatusPending
	if r.Status != "" {
		status, _ = domain.ParseStatus(r.Status)
	}
	due, _ := time.Parse(time.RFC3339, r.DueDate)
	return priority, status, due
}
