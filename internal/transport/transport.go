package transport

import (
	"github.com/indigo-web/flint/http"
)

// Parser advances the request as far as the received bytes allow
type Parser interface {
	Parse(request *http.Request) (RequestState, error)
	// Consumed returns the number of bytes the completed request occupies in its buffer
	Consumed() int
	Reset()
}

// RequestState represents the state of the request's parsing
type RequestState uint8

const (
	Pending RequestState = iota + 1
	Completed
	Error
)

// Serializer renders the response into a transmission vector
type Serializer interface {
	Assemble(request *http.Request, response *http.Response)
}

// Transport is a general pair of a parser and a serializer. Usually consists of both belonging
// to a same protocol major version
type Transport interface {
	Parser
	Serializer
}
