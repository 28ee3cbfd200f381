package router

import (
	"errors"
	"fmt"

	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/status"
)

// Route binds a path pattern to a handler. A pattern is a slash-separated path, where
// a segment written as {name} matches any single non-empty path segment and stores it as
// the route variable "name".
type Route struct {
	Pattern string
	Handler http.Handler
}

type entry struct {
	template template
	handler  http.Handler
}

// Table is a static routing table. It's built once and never modified afterward, so it's
// safe to be shared between connections without any synchronization.
type Table struct {
	routes       []entry
	fileHandler  http.Handler
	errorHandler http.Handler
}

// New builds a table out of routes, which are matched in exactly the same order. The
// file handler serves every path no route matched, and the error handler renders any
// error response without content of its own.
func New(fileHandler, errorHandler http.Handler, routes ...Route) (*Table, error) {
	if fileHandler == nil || errorHandler == nil {
		return nil, errors.New("router: both file and error handlers are required")
	}

	table := &Table{
		routes:       make([]entry, 0, len(routes)),
		fileHandler:  fileHandler,
		errorHandler: errorHandler,
	}

	for _, route := range routes {
		if route.Handler == nil {
			return nil, fmt.Errorf("router: %s: nil handler", route.Pattern)
		}

		tmpl, err := parseTemplate(route.Pattern)
		if err != nil {
			return nil, fmt.Errorf("router: %s: %w", route.Pattern, err)
		}

		table.routes = append(table.routes, entry{
			template: tmpl,
			handler:  route.Handler,
		})
	}

	return table, nil
}

// Resolve picks the handler for the request. The first matching route wins; if none
// matches, the file handler is returned. Route variables are left in the request.
func (t *Table) Resolve(request *http.Request) (http.Handler, error) {
	for _, route := range t.routes {
		matched, err := route.template.match(request.Path, request)
		if err != nil {
			request.ResetVars()
			return nil, err
		}

		if matched {
			return route.handler, nil
		}

		request.ResetVars()
	}

	return t.fileHandler, nil
}

// Handle routes the request and invokes the handler. Whenever the response ends up with
// an error code and no content, the error handler renders it instead.
func (t *Table) Handle(request *http.Request, response *http.Response) int {
	handler, err := t.Resolve(request)
	if err != nil {
		return t.Error(request, response, status.CodeOf(err))
	}

	request.Handler = handler
	output := handler(request, response)
	if response.Code.IsError() && output == 0 {
		return t.Error(request, response, response.Code)
	}

	return output
}

// Error renders the error response with the code via the error handler.
func (t *Table) Error(request *http.Request, response *http.Response, code status.Code) int {
	response.Error(code)
	request.Handler = t.errorHandler
	return t.errorHandler(request, response)
}

// ErrorHandler returns the handler used to render error responses.
func (t *Table) ErrorHandler() http.Handler {
	return t.errorHandler
}
