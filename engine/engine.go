// Package engine glues the parser, the routing table and the response assembly together.
// It does no I/O: an event loop feeds it with received bytes and transmits the vector it
// produces.
package engine

import (
	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/transport"
	"github.com/indigo-web/flint/internal/transport/http1"
	"github.com/indigo-web/flint/router"
)

// Engine holds everything shared between connections. It's immutable, so may be used
// concurrently.
type Engine struct {
	cfg    *config.Config
	router *router.Table
}

func New(cfg *config.Config, table *router.Table) *Engine {
	return &Engine{
		cfg:    cfg,
		router: table,
	}
}

func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Exchange is a request-response pair of a single connection. It's exclusively owned by
// the connection and reused for every request it carries.
type Exchange struct {
	Request   *http.Request
	Response  *http.Response
	router    *router.Table
	transport *http1.Transport
	err       error
}

// NewExchange creates the pair over the first received bytes.
func (e *Engine) NewExchange(raw []byte, addr string) *Exchange {
	return &Exchange{
		Request:   http.NewRequest(raw, addr),
		Response:  http.NewResponse(e.cfg),
		router:    e.router,
		transport: http1.New(e.cfg, e.router.ErrorHandler()),
	}
}

// Update replaces the raw bytes of the request with a longer view of the same memory.
func (x *Exchange) Update(raw []byte) {
	x.Request.UpdateBuffer(raw)
}

// Parse advances the request. The error, if any, is also remembered so Handle can render
// the corresponding response.
func (x *Exchange) Parse() (transport.RequestState, error) {
	if x.err != nil {
		return transport.Error, x.err
	}

	state, err := x.transport.Parse(x.Request)
	x.err = err

	return state, err
}

// Handle produces the response. A request that failed to parse is answered by the error
// handler only; a complete one is routed to its handler. Either way, the response vector
// is ready afterward.
func (x *Exchange) Handle() {
	request, response := x.Request, x.Response

	switch {
	case x.err != nil:
		request.Output = x.router.Error(request, response, status.CodeOf(x.err))
	case request.ParseState == http.ParseComplete:
		request.Output = x.router.Handle(request, response)
	default:
		request.Output = x.router.Error(request, response, status.InternalServerError)
	}

	x.transport.Assemble(request, response)
}

// Complete marks the response as fully transmitted.
func (x *Exchange) Complete() {
	x.Request.State = http.Complete
}

// Consumed returns how many bytes of the raw view the request occupied.
func (x *Exchange) Consumed() int {
	return x.transport.Consumed()
}

// Reset makes the exchange ready for the next request of the same connection. Any file
// held by the response is closed.
func (x *Exchange) Reset() {
	x.Response.Reset()
	x.Request.Reset()
	x.transport.Reset()
	x.err = nil
}

// Close destroys the exchange, releasing the file descriptor in whatever state it is.
func (x *Exchange) Close() error {
	return x.Response.Close()
}

// StatusLine returns the status code with the reason phrase the response is sent with.
func StatusLine(response *http.Response) string {
	return status.Line(response.Code)
}
