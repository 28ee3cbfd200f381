package tcp

import (
	"crypto/tls"
	"errors"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type listener interface {
	net.Listener
	SetDeadline(t time.Time) error
}

// Server accepts connections and serves each of them by a separate goroutine. The accept
// loop is periodically interrupted in order to check whether it's time to stop.
type Server struct {
	l     listener
	wg    sync.WaitGroup
	stop  atomic.Bool
	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// Bind opens a TCP listener on the address.
func Bind(addr string) (*net.TCPListener, error) {
	tcpaddr, err := net.ResolveTCPAddr("tcp", addr)
	if err != nil {
		return nil, err
	}

	return net.ListenTCP("tcp", tcpaddr)
}

func NewServer(l *net.TCPListener) *Server {
	return newServer(l)
}

// NewTLSServer serves TLS connections. Handshakes are done lazily, on the first read.
func NewTLSServer(l *net.TCPListener, cfg *tls.Config) *Server {
	return newServer(tlsAdapter{
		TCPListener: l,
		tls:         tls.NewListener(l, cfg),
	})
}

func newServer(l listener) *Server {
	return &Server{
		l:     l,
		conns: make(map[net.Conn]struct{}),
	}
}

func (s *Server) Addr() net.Addr {
	return s.l.Addr()
}

// Start runs the accept loop until Stop or Close is called. Every connection is closed
// after onConn returns. Start returns only after all the connections are closed.
func (s *Server) Start(interruptPeriod time.Duration, onConn func(net.Conn)) error {
	defer s.wg.Wait()

	for !s.stop.Load() {
		if err := s.l.SetDeadline(time.Now().Add(interruptPeriod)); err != nil {
			return err
		}

		conn, err := s.l.Accept()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}

			if s.stop.Load() {
				return nil
			}

			return err
		}

		s.track(conn)
		s.wg.Add(1)
		go func(conn net.Conn) {
			defer s.wg.Done()
			onConn(conn)
			_ = conn.Close()
			s.untrack(conn)
		}(conn)
	}

	return s.l.Close()
}

// Stop stops accepting new connections. The ones already accepted are left to end
// their lives peacefully.
func (s *Server) Stop() {
	s.stop.Store(true)
}

// Close stops the server and closes all the connections immediately.
func (s *Server) Close() error {
	s.Stop()
	err := s.l.Close()

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return err
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	delete(s.conns, conn)
	s.mu.Unlock()
}

type tlsAdapter struct {
	*net.TCPListener
	tls net.Listener
}

func (t tlsAdapter) Accept() (net.Conn, error) {
	return t.tls.Accept()
}
