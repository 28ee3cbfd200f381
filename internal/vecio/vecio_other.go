//go:build !linux

package vecio

import (
	"net"

	"github.com/indigo-web/flint/http"
)

func write(conn net.Conn, vector http.Vector) (int64, error) {
	return writeGeneric(conn, vector)
}
