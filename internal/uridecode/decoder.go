package uridecode

import (
	"bytes"

	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/hexconv"
)

// Decode translates percent-encoded characters of the path in place, returning the
// shrunk slice. Decoded NUL bytes are refused, as no file name may contain them.
func Decode(path []byte) ([]byte, error) {
	i := bytes.IndexByte(path, '%')
	if i == -1 {
		return path, nil
	}

	n := i
	for ; i < len(path); i++ {
		if path[i] != '%' {
			path[n] = path[i]
			n++
			continue
		}

		if i+2 >= len(path) {
			return nil, status.ErrURIDecoding
		}

		char, ok := hexconv.Parse(path[i+1], path[i+2])
		if !ok || char == 0 {
			return nil, status.ErrURIDecoding
		}

		path[n] = char
		n++
		i += 2
	}

	return path[:n], nil
}
