package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/valyala/fasthttp"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/internal/infrastructure/auditlog"
	"github.com/taskhive/backend/internal/services/audit"
	"github.com/taskhive/backend/repository/memory"
	commandUC "github.com/taskhive/backend/usecase/command"
	queryUC "github.com/taskhive/backend/usecase/query"
)

func newTaskHandler(t *testing.T) (*TaskHandler, string) {
	t.Helper()
	repo := memory.NewTaskRepository()
	auditPath := filepath.Join(t.TempDir(), "audit.log")
	notifier := audit.NewNotifier(auditlog.New(auditPath), nil, nil)

	commands := commandUC.New(repo, notifier, nil)
	queries := queryUC.New(repo, nil)
	return NewTaskHandler(commands, queries, nil, nil), auditPath
}

func doRequest(h fasthttp.RequestHandler, method, uri, body string, userValues map[string]interface{}) *fasthttp.RequestCtx {
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if body != "" {
		ctx.Request.SetBodyString(body)
	}
	for k, v := range userValues {
		ctx.SetUserValue(k, v)
	}
	h(ctx)
	return ctx
}

func createTask(t *testing.T, h *TaskHandler, body string) domain.Task {
	t.Helper()
	ctx := doRequest(h.Create, http.MethodPost, "/api/v1/tasks", body, nil)
	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("create returned %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}
	var task domain.Task
	if err := json.Unmarshal(ctx.Response.Body(), &task); err != nil {
		t.Fatalf("create response: %v", err)
	}
	return task
}

func taskBody(title, priority, status string) string {
	return fmt.Sprintf(`{"title":%q,"priority":%q,"status":%q,"due_date":"2026-03-20T17:00:00Z"}`, title, priority, status)
}

func TestCreateHighPriorityTaskWritesAuditEntry(t *testing.T) {
	h, auditPath := newTaskHandler(t)

	ctx := doRequest(h.Create, http.MethodPost, "/api/v1/tasks", taskBody("Write report", "High", "Pending"), nil)
	if ctx.Response.StatusCode() != http.StatusCreated {
		t.Fatalf("status %d, want 201: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}

	var task domain.Task
	if err := json.Unmarshal(ctx.Response.Body(), &task); err != nil {
		t.Fatalf("response body: %v", err)
	}
	if task.ID == "" {
		t.Fatal("no id in response")
	}

	location := string(ctx.Response.Header.Peek("Location"))
	if location != "/api/v1/tasks/"+task.ID {
		t.Fatalf("Location header %q", location)
	}

	data, err := os.ReadFile(auditPath)
	if err != nil {
		t.Fatalf("audit log: %v", err)
	}
	if !strings.Contains(string(data), "Write report") {
		t.Fatalf("audit entry missing title:\n%s", data)
	}
}

func TestCreateLowPriorityTaskSkipsAudit(t *testing.T) {
	h, auditPath := newTaskHandler(t)

	createTask(t, h, taskBody("Routine chore", "Low", "Pending"))

	if _, err := os.Stat(auditPath); !os.IsNotExist(err) {
		t.Fatal("audit log written for non-High task")
	}
}

func TestCreateRejectsShortTitleWithFieldErrors(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := doRequest(h.Create, http.MethodPost, "/api/v1/tasks", taskBody("ab", "Low", "Pending"), nil)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", ctx.Response.StatusCode())
	}

	var resp transport.ErrorResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("error body: %v", err)
	}
	if len(resp.Fields) == 0 || resp.Fields[0].Field != "title" {
		t.Fatalf("expected title field error, got %+v", resp)
	}
}

func TestCreateRejectsUnknownPriorityName(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := doRequest(h.Create, http.MethodPost, "/api/v1/tasks", taskBody("Valid title", "Urgent", "Pending"), nil)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", ctx.Response.StatusCode())
	}
}

func TestListPaginatesFiveTasksAcrossTwoPages(t *testing.T) {
	h, _ := newTaskHandler(t)

	for i := 0; i < 5; i++ {
		createTask(t, h, taskBody(fmt.Sprintf("Task number %d", i), "Low", "Pending"))
	}

	ctx := doRequest(h.List, http.MethodGet, "/api/v1/tasks?pageSize=3", "", nil)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("first page status %d", ctx.Response.StatusCode())
	}
	var first domain.CursorPage
	if err := json.Unmarshal(ctx.Response.Body(), &first); err != nil {
		t.Fatalf("first page body: %v", err)
	}
	if len(first.Items) != 3 || !first.HasNextPage {
		t.Fatalf("first page: %d items hasNext=%v", len(first.Items), first.HasNextPage)
	}
	if first.NextCursor != first.Items[2].ID {
		t.Fatalf("next cursor %q, want %q", first.NextCursor, first.Items[2].ID)
	}

	ctx = doRequest(h.List, http.MethodGet, "/api/v1/tasks?pageSize=3&cursor="+first.NextCursor, "", nil)
	var second domain.CursorPage
	if err := json.Unmarshal(ctx.Response.Body(), &second); err != nil {
		t.Fatalf("second page body: %v", err)
	}
	if len(second.Items) != 2 || second.HasNextPage || second.NextCursor != "" {
		t.Fatalf("second page: %d items hasNext=%v cursor=%q", len(second.Items), second.HasNextPage, second.NextCursor)
	}
}

func TestListRejectsUnknownStatusFilter(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := doRequest(h.List, http.MethodGet, "/api/v1/tasks?status=Done", "", nil)
	if ctx.Response.StatusCode() != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", ctx.Response.StatusCode())
	}
}

func TestGetMissingTaskReturns404(t *testing.T) {
	h, _ := newTaskHandler(t)

	ctx := doRequest(h.Get, http.MethodGet, "/api/v1/tasks/ghost", "", map[string]interface{}{"id": "ghost"})
	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("status %d, want 404", ctx.Response.StatusCode())
	}
}

func TestUpdateMissingTaskReturns404(t *testing.T) {
	h, auditPath := newTaskHandler(t)

	ctx := doRequest(h.Update, http.MethodPut, "/api/v1/tasks/ghost",
		taskBody("Valid title", "High", "Pending"), map[string]interface{}{"id": "ghost"})
	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("status %d, want 404", ctx.Response.StatusCode())
	}
	if _, err := os.Stat(auditPath); !os.IsNotExist(err) {
		t.Fatal("failed update must not write the audit log")
	}
}

func TestUpdatePreservesPathID(t *testing.T) {
	h, _ := newTaskHandler(t)
	created := createTask(t, h, taskBody("Original title", "Low", "Pending"))

	ctx := doRequest(h.Update, http.MethodPut, "/api/v1/tasks/"+created.ID,
		taskBody("Replacement title", "Medium", "Completed"), map[string]interface{}{"id": created.ID})
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}

	var updated domain.Task
	if err := json.Unmarshal(ctx.Response.Body(), &updated); err != nil {
		t.Fatalf("body: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("id changed: %q -> %q", created.ID, updated.ID)
	}
	if updated.Title != "Replacement title" || updated.Status != domain.StatusCompleted {
		t.Fatalf("fields not replaced: %+v", updated)
	}
}

func TestDeleteTwice(t *testing.T) {
	h, _ := newTaskHandler(t)
	created := createTask(t, h, taskBody("Short-lived task", "Low", "Pending"))

	ctx := doRequest(h.Delete, http.MethodDelete, "/api/v1/tasks/"+created.ID, "", map[string]interface{}{"id": created.ID})
	if ctx.Response.StatusCode() != http.StatusNoContent {
		t.Fatalf("first delete status %d, want 204", ctx.Response.StatusCode())
	}

	ctx = doRequest(h.Delete, http.MethodDelete, "/api/v1/tasks/"+created.ID, "", map[string]interface{}{"id": created.ID})
	if ctx.Response.StatusCode() != http.StatusNotFound {
		t.Fatalf("second delete status %d, want 404", ctx.Response.StatusCode())
	}
}

func TestSummaryEndpoint(t *testing.T) {
	h, _ := newTaskHandler(t)
	createTask(t, h, taskBody("Pending one", "Low", "Pending"))
	createTask(t, h, taskBody("Pending two", "Low", "Pending"))
	createTask(t, h, taskBody("Completed one", "Low", "Completed"))

	ctx := doRequest(h.Summary, http.MethodGet, "/api/v1/tasks/summary", "", nil)
	if ctx.Response.StatusCode() != http.StatusOK {
		t.Fatalf("status %d", ctx.Response.StatusCode())
	}

	var summary domain.StatusSummary
	if err := json.Unmarshal(ctx.Response.Body(), &summary); err != nil {
		t.Fatalf("body: %v", err)
	}
	if summary.Total != 3 {
		t.Fatalf("total %d, want 3", summary.Total)
	}
	byStatus := map[domain.Status]int{}
	for _, c := range summary.Counts {
		byStatus[c.Status] = c.Count
	}
	if byStatus[domain.StatusPending] != 2 || byStatus[domain.StatusCompleted] != 1 {
		t.Fatalf("unexpected buckets: %+v", summary.Counts)
	}
}
