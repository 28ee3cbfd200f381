package config

import (
	"time"

	"github.com/indigo-web/flint/internal/buffer"
)

type (
	Headers struct {
		// BufferSize limits the whole request headers section, including the request
		// line. Requests whose headers don't fit are refused with 400 Bad Request. The
		// same amount is reserved for the rendered response headers.
		BufferSize int
	}

	Body struct {
		// BufferSize is the capacity of both the request body (as the part of the read
		// buffer) and the in-memory response body. A request declaring a larger
		// Content-Length is refused with 413 Content Too Large before any of its body
		// is read.
		BufferSize int
	}

	NET struct {
		// ReadTimeout controls the maximal lifetime of IDLE connections. If no data was
		// received in this period of time, it'll be closed.
		ReadTimeout time.Duration
		// WriteTimeout limits the time given to transmit a single response.
		WriteTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}

	Static struct {
		// Root is the directory the default file handler serves from.
		Root string
		// Index is the file served instead of a directory.
		Index string
	}
)

// Config holds settings used across various parts of flint, mainly restrictions and
// pre-allocations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	Headers Headers
	Body    Body
	NET     NET
	Static  Static
}

// Default returns default config.
func Default() *Config {
	return &Config{
		Headers: Headers{
			BufferSize: buffer.HeaderSize,
		},
		Body: Body{
			BufferSize: buffer.BodySize,
		},
		NET: NET{
			ReadTimeout:               90 * time.Second,
			WriteTimeout:              60 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Static: Static{
			Root:  "./static",
			Index: "index.html",
		},
	}
}

// ReadBufferSize is the capacity of a connection's read buffer: the largest possible
// request is the whole headers section followed by the largest possible body.
func (c *Config) ReadBufferSize() int {
	return c.Headers.BufferSize + c.Body.BufferSize
}
