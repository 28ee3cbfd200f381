package dummy

import (
	"bytes"
	"io"
	"net"
	"time"
)

// Conn replays the data it was initialised with, a chunk per read. Everything written
// into it is collected into Written.
type Conn struct {
	Written  bytes.Buffer
	data     [][]byte
	pending  []byte
	pointer  int
	circular bool
	closed   bool
}

// NewConn returns a connection reporting io.EOF once all the chunks are read.
func NewConn(data ...[]byte) *Conn {
	return &Conn{
		data: data,
	}
}

// NewCircularConn returns a connection starting over once all the chunks are read. This
// is used mainly for benchmarking.
func NewCircularConn(data ...[]byte) *Conn {
	return &Conn{
		data:     data,
		circular: true,
	}
}

func (c *Conn) Read(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	if len(c.pending) == 0 {
		if c.pointer == len(c.data) {
			if !c.circular || len(c.data) == 0 {
				return 0, io.EOF
			}

			c.pointer = 0
		}

		c.pending = c.data[c.pointer]
		c.pointer++
	}

	n = copy(b, c.pending)
	c.pending = c.pending[n:]

	return n, nil
}

func (c *Conn) Write(b []byte) (n int, err error) {
	if c.closed {
		return 0, net.ErrClosed
	}

	return c.Written.Write(b)
}

func (c *Conn) Close() error {
	c.closed = true
	return nil
}

func (c *Conn) Closed() bool {
	return c.closed
}

func (*Conn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 80}
}

func (*Conn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 54321}
}

func (*Conn) SetDeadline(time.Time) error {
	return nil
}

func (*Conn) SetReadDeadline(time.Time) error {
	return nil
}

func (*Conn) SetWriteDeadline(time.Time) error {
	return nil
}
