//go:build linux

package vecio

import (
	"errors"
	"io"
	"net"
	"syscall"

	"github.com/indigo-web/flint/http"
	"golang.org/x/sys/unix"
)

// maxSendfileChunk is the largest amount the kernel transfers by a single sendfile(2) call.
const maxSendfileChunk = 1 << 30

var errNotSupported = errors.New("vectored write isn't supported by the connection")

func write(conn net.Conn, vector http.Vector) (int64, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return writeGeneric(conn, vector)
	}

	raw, err := sc.SyscallConn()
	if err != nil {
		return writeGeneric(conn, vector)
	}

	n, err := writev(raw, vector)
	if err != nil || !vector.SendFile {
		return n, err
	}

	sent, err := sendfile(raw, vector.File)
	return n + sent, err
}

// writev writes the header and, unless the content is a file, the body by as few
// writev(2) calls as the socket allows.
func writev(raw syscall.RawConn, vector http.Vector) (n int64, err error) {
	var iovs [2][]byte
	bufs := iovs[:0]
	if len(vector.Header) > 0 {
		bufs = append(bufs, vector.Header)
	}

	if !vector.SendFile && len(vector.Body) > 0 {
		bufs = append(bufs, vector.Body)
	}

	werr := raw.Write(func(fd uintptr) bool {
		for len(bufs) > 0 {
			written, e := unix.Writev(int(fd), bufs)
			if written > 0 {
				n += int64(written)
				bufs = consume(bufs, written)
			}

			switch e {
			case nil:
			case unix.EINTR:
			case unix.EAGAIN:
				return false
			default:
				err = e
				return true
			}
		}

		return true
	})
	if err == nil {
		err = werr
	}

	return n, err
}

func sendfile(raw syscall.RawConn, file http.FileView) (n int64, err error) {
	if file.Length == 0 {
		return 0, nil
	}

	src, err := file.File.SyscallConn()
	if err != nil {
		return 0, err
	}

	var infd int
	if err = src.Control(func(fd uintptr) {
		infd = int(fd)
	}); err != nil {
		return 0, err
	}

	offset, remaining := file.Offset, file.Length
	werr := raw.Write(func(fd uintptr) bool {
		for remaining > 0 {
			written, e := unix.Sendfile(int(fd), infd, &offset, int(min(remaining, maxSendfileChunk)))
			if written > 0 {
				n += int64(written)
				remaining -= int64(written)
			}

			switch e {
			case nil:
				if written == 0 {
					// the file is shorter than it was when opened
					err = io.ErrUnexpectedEOF
					return true
				}
			case unix.EINTR:
			case unix.EAGAIN:
				return false
			case unix.EINVAL, unix.ENOSYS:
				err = errNotSupported
				return true
			default:
				err = e
				return true
			}
		}

		return true
	})
	if err == nil {
		err = werr
	}

	if errors.Is(err, errNotSupported) && n == 0 {
		return copyFile(raw, file)
	}

	return n, err
}

// copyFile is the fallback for descriptors sendfile(2) refuses to work with.
func copyFile(raw syscall.RawConn, file http.FileView) (int64, error) {
	return io.Copy(rawWriter{raw}, io.NewSectionReader(file.File, file.Offset, file.Length))
}

type rawWriter struct {
	raw syscall.RawConn
}

func (w rawWriter) Write(b []byte) (n int, err error) {
	werr := w.raw.Write(func(fd uintptr) bool {
		for n < len(b) {
			written, e := unix.Write(int(fd), b[n:])
			if written > 0 {
				n += written
			}

			switch e {
			case nil:
			case unix.EINTR:
			case unix.EAGAIN:
				return false
			default:
				err = e
				return true
			}
		}

		return true
	})
	if err == nil {
		err = werr
	}

	return n, err
}

// consume drops n written bytes from the front of bufs.
func consume(bufs [][]byte, n int) [][]byte {
	for len(bufs) > 0 && n >= len(bufs[0]) {
		n -= len(bufs[0])
		bufs = bufs[1:]
	}

	if len(bufs) > 0 {
		bufs[0] = bufs[0][n:]
	}

	return bufs
}
