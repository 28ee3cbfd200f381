package http1

import (
	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/internal/transport"
)

var _ transport.Transport = new(Transport)

type Transport struct {
	*Parser
	*Serializer
}

// New returns the HTTP/1.x transport. The error handler is used whenever the response must
// be replaced by an error one after the content handler has already run.
func New(cfg *config.Config, errorHandler http.Handler) *Transport {
	return &Transport{
		Parser:     NewParser(cfg),
		Serializer: NewSerializer(errorHandler),
	}
}
