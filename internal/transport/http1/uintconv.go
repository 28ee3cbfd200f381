package http1

import (
	"math"

	"github.com/indigo-web/flint/http/status"
)

const saturationThreshold = (math.MaxInt - 9) / 10

// parseContentLength parses a decimal without any sign. Values not fitting into int
// saturate to math.MaxInt, so they are later refused as too large rather than malformed.
func parseContentLength(str string) (n int, err error) {
	if len(str) == 0 {
		return 0, status.ErrBadContentLength
	}

	for i := 0; i < len(str); i++ {
		char := str[i]
		if char < '0' || char > '9' {
			return 0, status.ErrBadContentLength
		}

		if n > saturationThreshold {
			n = math.MaxInt
			continue
		}

		n = n*10 + int(char-'0')
	}

	return n, nil
}
