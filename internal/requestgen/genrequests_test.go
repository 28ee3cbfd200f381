package requestgen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	headers := Headers(3)
	require.Len(t, headers, 3)
	require.Equal(t, "Host", headers[2].Key)

	request := string(Generate("/hello", headers))
	require.True(t, strings.HasPrefix(request, "GET /hello HTTP/1.1\r\n"))
	require.True(t, strings.HasSuffix(request, "Host: localhost\r\n\r\n"))
	require.Equal(t, 3+2, strings.Count(request, "\r\n"))
}
