package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"

	"github.com/indigo-web/flint/engine"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/buffer"
	"github.com/indigo-web/flint/internal/telemetry"
	"github.com/indigo-web/flint/internal/timer"
	"github.com/indigo-web/flint/internal/transport"
	"github.com/indigo-web/flint/internal/vecio"
)

// Server drives exchanges over connections: it reads, feeds the engine and transmits
// whatever it has assembled. A connection is served sequentially, a request at a time.
type Server struct {
	engine  *engine.Engine
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

func NewServer(e *engine.Engine, metrics *telemetry.Metrics, logger *slog.Logger) *Server {
	return &Server{
		engine:  e,
		metrics: metrics,
		logger:  logger,
	}
}

// Serve handles the connection until either side closes it. The connection itself isn't
// closed, however any file opened on behalf of it is.
func (s *Server) Serve(conn net.Conn) {
	ctx := context.Background()
	s.metrics.ConnOpened(ctx)
	defer s.metrics.ConnClosed(ctx)

	buff := buffer.New(s.engine.Config().ReadBufferSize())
	x := s.engine.NewExchange(nil, conn.RemoteAddr().String())
	defer func() {
		if err := x.Close(); err != nil {
			s.logger.Warn("closing the served file", "remote", x.Request.Remote(), "err", err)
		}
	}()

	for s.HandleRequest(ctx, conn, buff, x) {
	}
}

// HandleRequest serves a single request. Bytes of the following request, if already
// received, are kept in the buffer. Returns false if the connection must be closed.
func (s *Server) HandleRequest(ctx context.Context, conn net.Conn, buff *buffer.Buffer, x *engine.Exchange) bool {
	cfg := s.engine.Config()
	x.Update(buff.Bytes())

	for {
		state, err := x.Parse()
		if state == transport.Completed {
			break
		}

		if state == transport.Error {
			s.metrics.ParseError(ctx, status.CodeOf(err))
			break
		}

		if buff.Free() == 0 {
			// the parser refuses requests not fitting into the buffer before it's full
			s.logger.Error("BUG: read buffer is exhausted", "remote", x.Request.Remote())
			return false
		}

		if err = conn.SetReadDeadline(timer.Deadline(cfg.NET.ReadTimeout)); err != nil {
			return false
		}

		if _, err = buff.Fill(conn); err != nil {
			s.onReadError(x, err)
			return false
		}

		x.Update(buff.Bytes())
	}

	x.Handle()

	if err := conn.SetWriteDeadline(timer.Deadline(cfg.NET.WriteTimeout)); err != nil {
		return false
	}

	n, err := vecio.Write(conn, x.Response.Vector)
	s.metrics.Served(ctx, x.Response.Code, n)
	if err != nil {
		s.logger.Debug("transmitting the response", "remote", x.Request.Remote(), "err", err)
		return false
	}

	x.Complete()
	closeConn := x.Response.Vector.Close
	consumed := x.Consumed()
	x.Reset()
	buff.Shift(consumed)

	return !closeConn
}

func (s *Server) onReadError(x *engine.Exchange, err error) {
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
	case errors.Is(err, os.ErrDeadlineExceeded):
		s.logger.Debug("connection timed out", "remote", x.Request.Remote())
	default:
		s.logger.Debug("reading the request", "remote", x.Request.Remote(), "err", err)
	}
}
