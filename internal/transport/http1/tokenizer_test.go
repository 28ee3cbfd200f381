package http1

import (
	"strings"
	"testing"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/status"
	"github.com/stretchr/testify/require"
)

func TestTokenizer(t *testing.T) {
	t.Run("simple GET", func(t *testing.T) {
		var tokenizer Tokenizer
		raw := "GET /index.html HTTP/1.1\r\nHost: localhost\r\nAccept:  */*  \r\n\r\n"
		tokens, err := tokenizer.Tokenize([]byte(raw), 0)
		require.NoError(t, err)
		require.Equal(t, "GET", string(tokens.Method))
		require.Equal(t, "/index.html", string(tokens.Target))
		require.Equal(t, 1, tokens.Major)
		require.Equal(t, 1, tokens.Minor)
		require.Equal(t, len(raw), tokens.Consumed)
		require.Equal(t, []http.Header{
			{Key: "Host", Value: "localhost"},
			{Key: "Accept", Value: "*/*"},
		}, tokens.Headers)
	})

	t.Run("bare LF", func(t *testing.T) {
		var tokenizer Tokenizer
		raw := "GET / HTTP/1.0\nHost: localhost\n\n"
		tokens, err := tokenizer.Tokenize([]byte(raw), 0)
		require.NoError(t, err)
		require.Equal(t, 0, tokens.Minor)
		require.Len(t, tokens.Headers, 1)
		require.Equal(t, len(raw), tokens.Consumed)
	})

	t.Run("leading empty lines", func(t *testing.T) {
		var tokenizer Tokenizer
		raw := "\r\n\nGET / HTTP/1.1\r\n\r\n"
		tokens, err := tokenizer.Tokenize([]byte(raw), 0)
		require.NoError(t, err)
		require.Equal(t, "GET", string(tokens.Method))
		require.Empty(t, tokens.Headers)
		require.Equal(t, len(raw), tokens.Consumed)
	})

	t.Run("trailing bytes are left untouched", func(t *testing.T) {
		var tokenizer Tokenizer
		head := "POST /upload HTTP/1.1\r\nContent-Length: 5\r\n\r\n"
		tokens, err := tokenizer.Tokenize([]byte(head+"hello"), 0)
		require.NoError(t, err)
		require.Equal(t, len(head), tokens.Consumed)
	})

	t.Run("incomplete", func(t *testing.T) {
		var tokenizer Tokenizer
		raw := "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"

		for i := 0; i < len(raw); i++ {
			_, err := tokenizer.Tokenize([]byte(raw[:i]), max(i-1, 0))
			require.ErrorIs(t, err, ErrIncomplete, raw[:i])
		}

		_, err := tokenizer.Tokenize([]byte(raw), len(raw)-1)
		require.NoError(t, err)
	})

	t.Run("terminator across reads", func(t *testing.T) {
		var tokenizer Tokenizer
		raw := "GET / HTTP/1.1\r\nHost: localhost\r\n\r\n"
		_, err := tokenizer.Tokenize([]byte(raw[:len(raw)-3]), 0)
		require.ErrorIs(t, err, ErrIncomplete)
		_, err = tokenizer.Tokenize([]byte(raw), len(raw)-3)
		require.NoError(t, err)
	})

	t.Run("too many headers", func(t *testing.T) {
		var tokenizer Tokenizer
		var builder strings.Builder
		builder.WriteString("GET / HTTP/1.1\r\n")
		for i := 0; i <= http.MaxHeaders; i++ {
			builder.WriteString(uniuri.New() + ": value\r\n")
		}
		builder.WriteString("\r\n")

		_, err := tokenizer.Tokenize([]byte(builder.String()), 0)
		require.ErrorIs(t, err, status.ErrTooManyHeaders)
	})

	t.Run("random header names", func(t *testing.T) {
		var tokenizer Tokenizer
		var builder strings.Builder
		builder.WriteString("GET / HTTP/1.1\r\n")
		names := make([]string, http.MaxHeaders)
		for i := range names {
			names[i] = uniuri.NewLen(1 + i%32)
			builder.WriteString(names[i] + ":" + names[i] + "\r\n")
		}
		builder.WriteString("\r\n")

		tokens, err := tokenizer.Tokenize([]byte(builder.String()), 0)
		require.NoError(t, err)
		require.Len(t, tokens.Headers, len(names))
		for i, header := range tokens.Headers {
			require.Equal(t, names[i], header.Key)
			require.Equal(t, names[i], header.Value)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		for _, raw := range []string{
			"GET\r\n\r\n",
			" / HTTP/1.1\r\n\r\n",
			"GET  HTTP/1.1\r\n\r\n",
			"GET / HTTP/1.1 \r\n\r\n",
			"GET / HTTP/11\r\n\r\n",
			"GET / http/1.1\r\n\r\n",
			"GE(T / HTTP/1.1\r\n\r\n",
			"GET /a\x01b HTTP/1.1\r\n\r\n",
			"GET / HTTP/1.1\r\nHost localhost\r\n\r\n",
			"GET / HTTP/1.1\r\n: localhost\r\n\r\n",
			"GET / HTTP/1.1\r\nHo st: localhost\r\n\r\n",
			"GET / HTTP/1.1\r\nHost: local\x00host\r\n\r\n",
			"GET / HTTP/1.1\r\nHost: a\r\n folded\r\n\r\n",
		} {
			var tokenizer Tokenizer
			_, err := tokenizer.Tokenize([]byte(raw), 0)
			require.ErrorIs(t, err, status.ErrMalformedRequest, raw)
		}
	})
}

func BenchmarkTokenizer(b *testing.B) {
	raw := []byte("GET /api/v1/users/42?expand=true HTTP/1.1\r\n" +
		"Host: localhost:8080\r\n" +
		"User-Agent: Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0\r\n" +
		"Accept: text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8\r\n" +
		"Accept-Language: en-US,en;q=0.5\r\n" +
		"Accept-Encoding: gzip, deflate, br\r\n" +
		"Connection: keep-alive\r\n\r\n")
	var tokenizer Tokenizer

	b.SetBytes(int64(len(raw)))
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_, _ = tokenizer.Tokenize(raw, 0)
	}
}
