package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskhive/backend/api/transport"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/httpcontext"
	"github.com/taskhive/backend/repository"
	commandUC "github.com/taskhive/backend/usecase/command"
	queryUC "github.com/taskhive/backend/usecase/query"
)

type TaskHandler struct {
	baseHandler
	commands *commandUC.Handler
	queries  *queryUC.Handler
}

func NewTaskHandler(commands *commandUC.Handler, queries *queryUC.Handler, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		commands:    commands,
		queries:     queries,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/tasks [get]
func (h *TaskHandler) List(ctx *fasthttp.RequestCtx) {
	req := repository.PageRequest{
		Cursor:   string(ctx.QueryArgs().Peek("cursor")),
		PageSize: queryUC.DefaultPageSize,
	}

	if raw := string(ctx.QueryArgs().Peek("pageSize")); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "pageSize must be an integer"))
			return
		}
		req.PageSize = size
	}

	if raw := string(ctx.QueryArgs().Peek("priority")); raw != "" {
		priority, err := domain.ParsePriority(raw)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), err.Error()))
			return
		}
		req.Priority = &priority
	}

	if raw := string(ctx.QueryArgs().Peek("status")); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), err.Error()))
			return
		}
		req.Status = &status
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	page, err := h.queries.ListTasks(stdCtx, req)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, page)
}

// @Summary Get one task
// @Tags tasks
// @Router /api/v1/tasks/{id} [get]
func (h *TaskHandler) Get(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.queries.GetTask(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Status summary
// @Tags tasks
// @Router /api/v1/tasks/summary [get]
func (h *TaskHandler) Summary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	summary, err := h.queries.GetSummary(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, summary)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	req, ok := h.parseRequest(ctx)
	if !ok {
		return
	}

	priority, status, due := req.Fields()
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.commands.Create(stdCtx, commandUC.CreateTask{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     due,
		Status:      status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	ctx.Response.Header.Set("Location", fmt.Sprintf("/api/v1/tasks/%s", created.ID))
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/tasks/{id} [put]
func (h *TaskHandler) Update(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	req, ok := h.parseRequest(ctx)
	if !ok {
		return
	}

	priority, status, due := req.Fields()
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.commands.Update(stdCtx, commandUC.UpdateTask{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
		DueDate:     due,
		Status:      status,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/tasks/{id} [delete]
func (h *TaskHandler) Delete(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deleted, err := h.commands.Delete(stdCtx, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if !deleted {
		h.respondJSON(ctx, http.StatusNotFound, transport.NewError(string(domain.ErrCodeNotFound), "task not found"))
		return
	}
	h.respondJSON(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) parseRequest(ctx *fasthttp.RequestCtx) (*transport.TaskRequest, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload"))
		return nil, false
	}
	if fieldErrs := req.Validate(); len(fieldErrs) > 0 {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewValidationError(fieldErrs))
		return nil, false
	}
	return &req, true
}
