package transport

import (
	"strings"
	"testing"

	"github.com/taskhive/backend/domain"
)

func validRequest() TaskRequest {
	return TaskRequest{
		Title:    "Write report",
		Priority: "High",
		Status:   "Pending",
		DueDate:  "2026-03-20T17:00:00Z",
	}
}

func TestValidateAcceptsWellFormedRequest(t *testing.T) {
	req := validRequest()
	if errs := req.Validate(); len(errs) != 0 {
		t.Fatalf("unexpected field errors: %+v", errs)
	}
}

func TestValidateCollectsEveryFailingField(t *testing.T) {
	req := TaskRequest{
		Title:       "ab",
		Description: strings.Repeat("d", domain.DescriptionMaxLen+1),
		Priority:    "Urgent",
		Status:      "Done",
		DueDate:     "tomorrow",
	}
	errs := req.Validate()
	if len(errs) != 5 {
		t.Fatalf("%d field errors, want 5: %+v", len(errs), errs)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		fields[e.Field] = true
	}
	for _, want := range []string{"title", "description", "priority", "status", "due_date"} {
		if !fields[want] {
			t.Errorf("missing field error for %q", want)
		}
	}
}

func TestValidateRequiresDueDate(t *testing.T) {
	req := validRequest()
	req.DueDate = ""
	errs := req.Validate()
	if len(errs) != 1 || errs[0].Field != "due_date" {
		t.Fatalf("expected single due_date error, got %+v", errs)
	}
}

func TestFieldsParsesEnumsAndDate(t *testing.T) {
	req := validRequest()
	priority, status, due := req.Fields()
	if priority != domain.PriorityHigh || status != domain.StatusPending {
		t.Fatalf("parsed %v/%v", priority, status)
	}
	if due.IsZero() {
		t.Fatal("due date not parsed")
	}
}

func TestFieldsDefaultsForEmptyEnums(t *testing.T) {
	req := validRequest()
	req.Priority = ""
	req.Status = ""
	priority, status, _ := req.Fields()
	if priority != domain.PriorityNone || status != domain.StatusPending {
		t.Fatalf("defaults %v/%v", priority, status)
	}
}
