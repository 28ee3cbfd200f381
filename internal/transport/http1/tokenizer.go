package http1

import (
	"bytes"
	"errors"

	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/utils/uf"
)

// ErrIncomplete is returned when the header block isn't fully received yet.
var ErrIncomplete = errors.New("incomplete request")

// Tokens are the pieces of a complete header block. Every slice refers to the tokenized
// data and becomes invalid with it.
type Tokens struct {
	Method       []byte
	Target       []byte
	Major, Minor int
	Headers      []http.Header
	// Consumed is the length of the header block, including the terminating empty line.
	Consumed int
}

// Tokenizer splits a header block into the request line and header pairs. It doesn't
// keep any state between calls except the storage for headers, so the whole block is
// tokenized at once. Lines may be terminated either by CRLF or by a bare LF.
type Tokenizer struct {
	headers [http.MaxHeaders]http.Header
}

// Tokenize tokenizes data, which is expected to start with a request line. If prevLen is
// non-zero, the first prevLen bytes are already known not to contain the end of the header
// block, so they aren't searched through again.
func (t *Tokenizer) Tokenize(data []byte, prevLen int) (tokens Tokens, err error) {
	start := skipEmptyLines(data)
	end := headersEnd(data, max(start, prevLen-3))
	if end == -1 {
		return tokens, ErrIncomplete
	}

	tokens.Consumed = end
	line, rest := nextLine(data[start:end])
	tokens.Method, tokens.Target, tokens.Major, tokens.Minor, err = requestLine(line)
	if err != nil {
		return tokens, err
	}

	n := 0

	for {
		line, rest = nextLine(rest)
		if len(line) == 0 {
			break
		}

		if n >= len(t.headers) {
			return tokens, status.ErrTooManyHeaders
		}

		key, value, err := headerLine(line)
		if err != nil {
			return tokens, err
		}

		t.headers[n] = http.Header{Key: uf.B2S(key), Value: uf.B2S(value)}
		n++
	}

	tokens.Headers = t.headers[:n]
	return tokens, nil
}

// skipEmptyLines skips line terminators some clients leave after the previous request.
func skipEmptyLines(data []byte) (offset int) {
	for offset < len(data) {
		switch {
		case data[offset] == '\n':
			offset++
		case data[offset] == '\r' && offset+1 < len(data) && data[offset+1] == '\n':
			offset += 2
		default:
			return offset
		}
	}

	return offset
}

// headersEnd returns the offset right past the empty line terminating the header block,
// or -1 if there's none yet.
func headersEnd(data []byte, from int) int {
	for {
		lf := bytes.IndexByte(data[from:], '\n')
		if lf == -1 {
			return -1
		}

		i := from + lf
		switch {
		case i+1 < len(data) && data[i+1] == '\n':
			return i + 2
		case i+2 < len(data) && data[i+1] == '\r' && data[i+2] == '\n':
			return i + 3
		}

		from = i + 1
	}
}

// nextLine cuts the line off. The data must contain a line feed.
func nextLine(data []byte) (line, rest []byte) {
	lf := bytes.IndexByte(data, '\n')
	line, rest = data[:lf], data[lf+1:]
	if len(line) > 0 && line[len(line)-1] == '\r' {
		line = line[:len(line)-1]
	}

	return line, rest
}

func requestLine(line []byte) (method, target []byte, major, minor int, err error) {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 || !isToken(line[:sp]) {
		return nil, nil, 0, 0, status.ErrMalformedRequest
	}

	method, line = line[:sp], line[sp+1:]
	sp = bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return nil, nil, 0, 0, status.ErrMalformedRequest
	}

	target, line = line[:sp], line[sp+1:]
	for _, char := range target {
		if char <= ' ' || char == 0x7f {
			return nil, nil, 0, 0, status.ErrMalformedRequest
		}
	}

	major, minor, err = protocol(line)
	return method, target, major, minor, err
}

// protocol parses the HTTP-version token, which is exactly "HTTP/" DIGIT "." DIGIT.
func protocol(token []byte) (major, minor int, err error) {
	const prefix = "HTTP/"

	if len(token) != len(prefix)+3 || string(token[:len(prefix)]) != prefix {
		return 0, 0, status.ErrMalformedRequest
	}

	version := token[len(prefix):]
	if !isDigit(version[0]) || version[1] != '.' || !isDigit(version[2]) {
		return 0, 0, status.ErrMalformedRequest
	}

	return int(version[0] - '0'), int(version[2] - '0'), nil
}

func headerLine(line []byte) (key, value []byte, err error) {
	colon := bytes.IndexByte(line, ':')
	// a leading whitespace means a folded line, which is obsolete and rejected
	if colon <= 0 || !isToken(line[:colon]) {
		return nil, nil, status.ErrMalformedRequest
	}

	key, value = line[:colon], trimOWS(line[colon+1:])
	for _, char := range value {
		if (char < ' ' && char != '\t') || char == 0x7f {
			return nil, nil, status.ErrMalformedRequest
		}
	}

	return key, value, nil
}

func trimOWS(b []byte) []byte {
	for len(b) > 0 && (b[0] == ' ' || b[0] == '\t') {
		b = b[1:]
	}

	for len(b) > 0 && (b[len(b)-1] == ' ' || b[len(b)-1] == '\t') {
		b = b[:len(b)-1]
	}

	return b
}

func isToken(b []byte) bool {
	for _, char := range b {
		if !tokenChars[char] {
			return false
		}
	}

	return true
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

var tokenChars = func() (table [256]bool) {
	for char := '0'; char <= '9'; char++ {
		table[char] = true
	}

	for char := 'a'; char <= 'z'; char++ {
		table[char] = true
		table[char-'a'+'A'] = true
	}

	for _, char := range "!#$%&'*+-.^_`|~" {
		table[char] = true
	}

	return table
}()
