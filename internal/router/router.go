package router

import (
	"net/http"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskhive/backend/api/handler"
)

type Handlers struct {
	Task   *apiHandler.TaskHandler
	Health *apiHandler.HealthHandler
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// New assembles the route table. Task routes run behind the auth
// middleware; every route runs behind the request logger.
func New(handlers Handlers, auth Middleware, requestLog Middleware) *router.Router {
	r := router.New()
	r.PanicHandler = func(ctx *fasthttp.RequestCtx, _ interface{}) {
		ctx.Response.Header.SetContentType("application/json")
		ctx.SetStatusCode(http.StatusInternalServerError)
		requestID := string(ctx.Response.Header.Peek("X-Request-ID"))
		ctx.SetBodyString(`{"code":"INTERNAL","message":"internal server error","request_id":"` + requestID + `"}`)
	}

	wrap := func(h fasthttp.RequestHandler) fasthttp.RequestHandler {
		if auth != nil {
			h = auth(h)
		}
		if requestLog != nil {
			h = requestLog(h)
		}
		return h
	}

	r.GET("/health", handlers.Health.Check)

	r.GET("/api/v1/tasks", wrap(handlers.Task.List))
	r.GET("/api/v1/tasks/summary", wrap(handlers.Task.Summary))
	r.GET("/api/v1/tasks/{id}", wrap(handlers.Task.Get))
	r.POST("/api/v1/tasks", wrap(handlers.Task.Create))
	r.PUT("/api/v1/tasks/{id}", wrap(handlers.Task.Update))
	r.DELETE("/api/v1/tasks/{id}", wrap(handlers.Task.Delete))

	return r
}
