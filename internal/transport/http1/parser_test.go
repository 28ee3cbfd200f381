package http1

import (
	"strconv"
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/method"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/requestgen"
	"github.com/indigo-web/flint/internal/transport"
	"github.com/stretchr/testify/require"
)

func getParser(cfg *config.Config) (*Parser, *http.Request) {
	if cfg == nil {
		cfg = config.Default()
	}

	return NewParser(cfg), http.NewRequest(nil, "127.0.0.1:54321")
}

func parse(p *Parser, request *http.Request, raw string) (transport.RequestState, error) {
	request.UpdateBuffer([]byte(raw))
	return p.Parse(request)
}

func TestParser(t *testing.T) {
	t.Run("simple GET", func(t *testing.T) {
		parser, request := getParser(nil)
		state, err := parse(parser, request, "GET /hello?name=world HTTP/1.1\r\nHost: localhost\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, method.GET, request.Method)
		require.Equal(t, "GET", request.MethodStr)
		require.Equal(t, "/hello", request.Path)
		require.Equal(t, "name=world", request.Query)
		require.Equal(t, 1, request.Major)
		require.Equal(t, 1, request.Minor)
		require.Equal(t, http.ParseComplete, request.ParseState)
		require.Equal(t, http.Processing, request.State)
		require.Empty(t, request.Body)
		host, found := request.Header("host")
		require.True(t, found)
		require.Equal(t, "localhost", host)
	})

	t.Run("percent-encoded path", func(t *testing.T) {
		parser, request := getParser(nil)
		state, err := parse(parser, request, "GET /my%20file.txt?q=a%20b HTTP/1.1\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, "/my file.txt", request.Path)
		require.Equal(t, "q=a%20b", request.Query)
	})

	t.Run("bad percent-encoding", func(t *testing.T) {
		parser, request := getParser(nil)
		state, err := parse(parser, request, "GET /a%2 HTTP/1.1\r\n\r\n")
		require.ErrorIs(t, err, status.ErrURIDecoding)
		require.Equal(t, transport.Error, state)
		require.Equal(t, http.Responding, request.State)
	})

	t.Run("byte by byte", func(t *testing.T) {
		parser, request := getParser(nil)
		raw := "POST /echo HTTP/1.1\r\nContent-Length: 13\r\n\r\nHello, world!"

		for i := 1; i < len(raw); i++ {
			state, err := parse(parser, request, raw[:i])
			require.NoError(t, err)
			require.Equal(t, transport.Pending, state, raw[:i])
		}

		state, err := parse(parser, request, raw)
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, "Hello, world!", string(request.Body))
		require.Equal(t, 13, request.ContentLength)
		require.Equal(t, len(raw), parser.Consumed())
	})

	t.Run("headers then body", func(t *testing.T) {
		parser, request := getParser(nil)
		head := "PUT /file HTTP/1.1\r\nContent-Length: 4\r\n\r\n"
		state, err := parse(parser, request, head)
		require.NoError(t, err)
		require.Equal(t, transport.Pending, state)
		require.Equal(t, http.ParseBody, request.ParseState)
		require.Equal(t, method.PUT, request.Method)

		state, err = parse(parser, request, head+"da")
		require.NoError(t, err)
		require.Equal(t, transport.Pending, state)

		state, err = parse(parser, request, head+"data")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, "data", string(request.Body))
	})

	t.Run("pipelined", func(t *testing.T) {
		parser, request := getParser(nil)
		first := "POST / HTTP/1.1\r\nContent-Length: 2\r\n\r\nhi"
		state, err := parse(parser, request, first+"GET / HTTP/1.1\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, "hi", string(request.Body))
		require.Equal(t, len(first), parser.Consumed())
	})

	t.Run("complete is terminal", func(t *testing.T) {
		parser, request := getParser(nil)
		raw := "GET / HTTP/1.1\r\n\r\n"
		_, err := parse(parser, request, raw)
		require.NoError(t, err)

		state, err := parse(parser, request, raw+"garbage")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, len(raw), parser.Consumed())
	})

	t.Run("reset", func(t *testing.T) {
		parser, request := getParser(nil)
		_, err := parse(parser, request, "POST / HTTP/1.1\r\nContent-Length: 1\r\n\r\nx")
		require.NoError(t, err)

		parser.Reset()
		request.Reset()
		state, err := parse(parser, request, "DELETE /item HTTP/1.0\r\n\r\n")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
		require.Equal(t, method.DELETE, request.Method)
		require.Equal(t, 0, request.Minor)
		require.Equal(t, 0, request.ContentLength)
		require.Zero(t, request.HeadersLen())
		require.Equal(t, "127.0.0.1:54321", request.Remote())
	})

	t.Run("methods", func(t *testing.T) {
		for _, m := range method.List {
			parser, request := getParser(nil)
			_, err := parse(parser, request, m.String()+" / HTTP/1.1\r\n\r\n")
			require.NoError(t, err)
			require.Equal(t, m, request.Method)
		}
	})

	t.Run("method not allowed", func(t *testing.T) {
		for _, m := range []string{"PATCH", "OPTIONS", "get", "Post", "HEAD"} {
			parser, request := getParser(nil)
			state, err := parse(parser, request, m+" / HTTP/1.1\r\n\r\n")
			require.ErrorIs(t, err, status.ErrMethodNotAllowed)
			require.Equal(t, transport.Error, state)
			require.Equal(t, http.Responding, request.State)
			require.Equal(t, status.MethodNotAllowed, status.CodeOf(err))
		}
	})

	t.Run("unsupported protocol", func(t *testing.T) {
		for _, proto := range []string{"HTTP/2.0", "HTTP/0.9", "HTTP/3.0"} {
			parser, request := getParser(nil)
			_, err := parse(parser, request, "GET / "+proto+"\r\n\r\n")
			require.ErrorIs(t, err, status.ErrUnsupportedProtocol)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		parser, request := getParser(nil)
		state, err := parse(parser, request, "GET / HTTP/1.1\r\nHost\r\n\r\n")
		require.ErrorIs(t, err, status.ErrMalformedRequest)
		require.Equal(t, transport.Error, state)
		require.Equal(t, http.ParseHeaders, request.ParseState)
		require.Equal(t, http.Responding, request.State)
		require.Equal(t, status.BadRequest, status.CodeOf(err))
	})

	t.Run("not origin form", func(t *testing.T) {
		parser, request := getParser(nil)
		_, err := parse(parser, request, "GET http://localhost/ HTTP/1.1\r\n\r\n")
		require.ErrorIs(t, err, status.ErrMalformedRequest)
	})

	t.Run("content length", func(t *testing.T) {
		for _, value := range []string{"-1", "abc", "1.5", "", "+5", "0x10"} {
			parser, request := getParser(nil)
			_, err := parse(parser, request, "POST / HTTP/1.1\r\nContent-Length: "+value+"\r\n\r\n")
			require.ErrorIs(t, err, status.ErrBadContentLength, value)
		}

		parser, request := getParser(nil)
		raw := "POST / HTTP/1.1\r\nContent-Length: 3\r\ncontent-length: 3\r\n\r\nabc"
		state, err := parse(parser, request, raw)
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)

		parser, request = getParser(nil)
		raw = "POST / HTTP/1.1\r\nContent-Length: 3\r\nContent-Length: 4\r\n\r\nabcd"
		_, err = parse(parser, request, raw)
		require.ErrorIs(t, err, status.ErrBadContentLength)
	})

	t.Run("content too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Body.BufferSize = 10
		parser, request := getParser(cfg)
		state, err := parse(parser, request, "POST / HTTP/1.1\r\nContent-Length: 11\r\n\r\n")
		require.ErrorIs(t, err, status.ErrContentTooLarge)
		require.Equal(t, transport.Error, state)
		require.Equal(t, status.ContentTooLarge, status.CodeOf(err))

		parser, request = getParser(cfg)
		_, err = parse(parser, request, "POST / HTTP/1.1\r\nContent-Length: 99999999999999999999999\r\n\r\n")
		require.ErrorIs(t, err, status.ErrContentTooLarge)

		parser, request = getParser(cfg)
		state, err = parse(parser, request, "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\n0123456789")
		require.NoError(t, err)
		require.Equal(t, transport.Completed, state)
	})

	t.Run("transfer encoding", func(t *testing.T) {
		parser, request := getParser(nil)
		_, err := parse(parser, request, "POST / HTTP/1.1\r\nTransfer-Encoding: chunked\r\n\r\n")
		require.ErrorIs(t, err, status.ErrUnsupportedEncoding)
	})

	t.Run("range", func(t *testing.T) {
		parser, request := getParser(nil)
		_, err := parse(parser, request, "GET /file HTTP/1.1\r\nRange: bytes=0-9\r\n\r\n")
		require.NoError(t, err)
		require.True(t, request.IsRange)
		require.Equal(t, http.RangeSpec{Start: 0, End: 9, HasStart: true, HasEnd: true}, request.Range)

		parser, request = getParser(nil)
		_, err = parse(parser, request, "POST /file HTTP/1.1\r\nRange: bytes=0-9\r\n\r\n")
		require.NoError(t, err)
		require.False(t, request.IsRange)

		parser, request = getParser(nil)
		_, err = parse(parser, request, "GET /file HTTP/1.1\r\nRange: bytes=0-1,5-6\r\n\r\n")
		require.ErrorIs(t, err, status.ErrBadRange)

		parser, request = getParser(nil)
		_, err = parse(parser, request, "GET /file HTTP/1.1\r\nRange: bytes=0-1\r\nRange: bytes=2-3\r\n\r\n")
		require.ErrorIs(t, err, status.ErrBadRange)
	})

	t.Run("headers too large", func(t *testing.T) {
		cfg := config.Default()
		cfg.Headers.BufferSize = 64
		parser, request := getParser(cfg)
		raw := "GET / HTTP/1.1\r\nX-Long: " + strings.Repeat("a", 64)
		state, err := parse(parser, request, raw)
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
		require.Equal(t, transport.Error, state)

		parser, request = getParser(cfg)
		_, err = parse(parser, request, raw+"\r\n\r\n")
		require.ErrorIs(t, err, status.ErrHeaderFieldsTooLarge)
	})

	t.Run("headers order", func(t *testing.T) {
		parser, request := getParser(nil)
		var builder strings.Builder
		builder.WriteString("GET / HTTP/1.1\r\n")
		keys := make([]string, 10)
		for i := range keys {
			keys[i] = uniuri.New()
			builder.WriteString(keys[i] + ": " + keys[i] + "\r\n")
		}
		builder.WriteString("\r\n")

		_, err := parse(parser, request, builder.String())
		require.NoError(t, err)

		i := 0
		for key, value := range request.Headers() {
			require.Equal(t, keys[i], key)
			require.Equal(t, keys[i], value)
			i++
		}
		require.Equal(t, len(keys), i)
	})
}

func BenchmarkParser(b *testing.B) {
	raw := []byte("GET /api/v1/users/42?expand=true HTTP/1.1\r\n" +
		"Host: localhost:8080\r\n" +
		"User-Agent: Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0\r\n" +
		"Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8\r\n" +
		"Range: bytes=0-1023\r\n" +
		"Connection: keep-alive\r\n\r\n")
	parser, request := getParser(nil)

	b.SetBytes(int64(len(raw)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		request.UpdateBuffer(raw)
		_, _ = parser.Parse(request)
		parser.Reset()
		request.Reset()
	}
}

func BenchmarkParserHeaders(b *testing.B) {
	cfg := config.Default()
	cfg.Headers.BufferSize = 64 * 1024

	for _, n := range []int{10, 50, http.MaxHeaders} {
		b.Run(strconv.Itoa(n)+" headers", func(b *testing.B) {
			raw := requestgen.Generate("/", requestgen.Headers(n))
			parser, request := getParser(cfg)

			b.SetBytes(int64(len(raw)))
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				request.UpdateBuffer(raw)
				_, _ = parser.Parse(request)
				parser.Reset()
				request.Reset()
			}
		})
	}
}
