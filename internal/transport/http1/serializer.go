package http1

import (
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/buffer"
)

const (
	protocol11    = "HTTP/1.1 "
	contentType   = "Content-Type: "
	contentLength = "Content-Length: "
	contentRange  = "Content-Range: bytes "
	acceptRanges  = "Accept-Ranges: bytes\r\n"
	connClose     = "Connection: close\r\n"
	connKeepAlive = "Connection: keep-alive\r\n"
	crlf          = "\r\n"
)

// fallbackHeaders are sent whenever the regular header block can't be rendered. They don't
// depend on the header buffer, so always fit.
var fallbackHeaders = []byte(
	protocol11 + "500 Internal Server Error\r\n" +
		contentLength + "0\r\n" +
		connClose + crlf,
)

// Serializer turns a handled response into a transmission vector. The body is never
// copied: the header buffer holds the header block only, and the vector refers to the
// body buffer or the file region as the second segment.
type Serializer struct {
	errorHandler http.Handler
}

func NewSerializer(errorHandler http.Handler) *Serializer {
	return &Serializer{
		errorHandler: errorHandler,
	}
}

// Assemble finalizes the response after the handler has run and renders it. After that,
// response.Vector is ready to be transmitted and the request is in the Responding state.
func (s *Serializer) Assemble(request *http.Request, response *http.Response) {
	request.State = http.Responding
	closeConn := request.ParseState != http.ParseComplete || !request.KeepAlive()

	s.settleOutput(request, response)

	body := response.Body.Bytes()
	if request.IsRange && response.Code == status.OK {
		if t, ok := s.applyRange(request, response); ok {
			if !response.SendFile {
				body = body[t.Begin : t.End+1]
			}
		} else {
			s.errorResponse(request, response, status.BadRequest)
			s.settleOutput(request, response)
			body = response.Body.Bytes()
		}
	}

	length := int64(len(body))
	if response.SendFile {
		length = response.File.Length
	}

	if err := s.renderHeaders(request, response, length, closeConn); err != nil {
		response.Error(status.InternalServerError)
		response.Vector = http.Vector{
			Header: fallbackHeaders,
			Close:  true,
		}

		return
	}

	response.Vector = http.Vector{
		Header:   response.Header.Bytes(),
		SendFile: response.SendFile,
		Close:    closeConn,
	}

	if response.SendFile {
		response.Vector.File = response.File
	} else {
		response.Vector.Body = body
	}
}

// settleOutput reconciles the declared output length with the actual content. Declaring
// more than is available is a handler fault, declaring less trims the content.
func (s *Serializer) settleOutput(request *http.Request, response *http.Response) {
	available := response.ContentLength()
	output := int64(request.Output)

	if output < 0 || output > available {
		if response.Code == status.InternalServerError {
			// the error handler itself has failed, so don't let it run recursively
			output = 0
		} else {
			s.errorResponse(request, response, status.InternalServerError)
			s.settleOutput(request, response)
			return
		}
	}

	if response.SendFile {
		response.File.Length = output
	} else {
		response.Body.Truncate(int(output))
	}

	request.Output = int(output)
}

// applyRange restricts the content to the requested range, turning the response into
// the 206 Partial Content one. Reports false if the range can't be satisfied.
func (s *Serializer) applyRange(request *http.Request, response *http.Response) (http.RangeTuple, bool) {
	length := response.ContentLength()
	t, err := request.Range.Resolve(length)
	if err != nil {
		return t, false
	}

	aux := response.Aux
	mark := aux.Len()
	if aux.AppendString(contentRange) != nil || aux.AppendInt(t.Begin) != nil ||
		aux.AppendByte('-') != nil || aux.AppendInt(t.End) != nil ||
		aux.AppendByte('/') != nil || aux.AppendInt(length) != nil ||
		aux.AppendString(crlf) != nil {
		aux.Truncate(mark)
		return t, false
	}

	response.Code = status.PartialContent
	if response.SendFile {
		response.File.Offset += t.Begin
		response.File.Length = t.Len()
	}

	return t, true
}

func (s *Serializer) errorResponse(request *http.Request, response *http.Response, code status.Code) {
	response.Error(code)
	request.Output = s.errorHandler(request, response)
}

func (s *Serializer) renderHeaders(
	request *http.Request, response *http.Response, length int64, closeConn bool,
) error {
	w := headerWriter{buff: response.Header}
	w.buff.Reset()

	w.str(protocol11)
	w.str(status.Line(response.Code))
	w.str(crlf)
	w.str(contentType)
	w.str(response.ContentType)
	w.str(crlf)
	w.str(contentLength)
	w.num(length)
	w.str(crlf)

	if !response.Code.IsError() {
		w.str(acceptRanges)
	}

	switch {
	case closeConn:
		w.str(connClose)
	case request.Minor == 0:
		w.str(connKeepAlive)
	}

	w.bytes(response.Aux.Bytes())
	w.str(crlf)

	return w.err
}

// headerWriter appends into the buffer until the first failure, which is then kept.
type headerWriter struct {
	buff *buffer.Buffer
	err  error
}

func (w *headerWriter) str(s string) {
	if w.err == nil {
		w.err = w.buff.AppendString(s)
	}
}

func (w *headerWriter) bytes(b []byte) {
	if w.err == nil {
		w.err = w.buff.Append(b)
	}
}

func (w *headerWriter) num(n int64) {
	if w.err == nil {
		w.err = w.buff.AppendInt(n)
	}
}
