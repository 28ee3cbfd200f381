// Package vecio transmits a response vector: the header block followed by either the
// in-memory body or a file region, without joining them into a single buffer.
package vecio

import (
	"io"
	"net"

	"github.com/indigo-web/flint/http"
)

// Write transmits the vector, returning the number of bytes written. Partial writes are
// reported via a non-nil error, after which the connection must not be reused.
func Write(conn net.Conn, vector http.Vector) (int64, error) {
	return write(conn, vector)
}

// writeGeneric is used whenever there's no access to the underlying descriptor, e.g. for
// TLS connections.
func writeGeneric(w io.Writer, vector http.Vector) (n int64, err error) {
	if !vector.SendFile {
		bufs := net.Buffers{vector.Header, vector.Body}
		return bufs.WriteTo(w)
	}

	written, err := w.Write(vector.Header)
	n = int64(written)
	if err != nil {
		return n, err
	}

	file := vector.File
	copied, err := io.Copy(w, io.NewSectionReader(file.File, file.Offset, file.Length))
	n += copied
	if err == nil && copied < file.Length {
		err = io.ErrUnexpectedEOF
	}

	return n, err
}
