package handler

import (
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/mime"
	"github.com/indigo-web/flint/http/status"
)

// ErrorPage is the default error handler. It renders a tiny HTML page naming the status
// already set in the response.
func ErrorPage(_ *http.Request, response *http.Response) int {
	line := status.Line(response.Code)
	response.ContentType = mime.HTML
	response.Body.Reset()

	for _, part := range [...]string{
		"<!DOCTYPE html><html><head><title>", line, "</title></head><body><h1>", line,
		"</h1></body></html>\n",
	} {
		if err := response.Body.AppendString(part); err != nil {
			response.ContentType = mime.Plain
			response.Body.Reset()
			_ = response.Body.AppendString(line)
			break
		}
	}

	return response.Body.Len()
}
