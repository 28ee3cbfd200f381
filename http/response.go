package http

import (
	"os"

	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/http/mime"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/buffer"
)

// FileView is a region of an opened file.
type FileView struct {
	File   *os.File
	Offset int64
	Length int64
}

// Vector is the plan of a single response transmission: the rendered headers first,
// then either the in-memory body or the file region. The segments are never merged
// into a single buffer.
type Vector struct {
	Header   []byte
	Body     []byte
	File     FileView
	SendFile bool
	// Close tells the connection must be closed once the vector is transmitted.
	Close bool
}

// Len returns the total number of bytes the vector transmits.
func (v Vector) Len() int64 {
	if v.SendFile {
		return int64(len(v.Header)) + v.File.Length
	}

	return int64(len(v.Header) + len(v.Body))
}

// Response is filled by a handler and then rendered into Vector. It exclusively owns
// its buffers and, if serving a file, the file descriptor until Reset or Close.
type Response struct {
	Code        status.Code
	ContentType mime.MIME
	// SendFile chooses File over Body as the content source.
	SendFile bool
	// Header holds the rendered response headers. It's filled by the engine only.
	Header *buffer.Buffer
	// Aux holds additional header lines, contributed either by the handler or by the
	// engine after the handler has run (e.g. Content-Range).
	Aux  *buffer.Buffer
	Body *buffer.Buffer
	File FileView
	// Vector is ready once the request state becomes Responding.
	Vector Vector
}

func NewResponse(cfg *config.Config) *Response {
	return &Response{
		Code:        status.OK,
		ContentType: mime.Plain,
		Header:      buffer.New(cfg.Headers.BufferSize),
		Aux:         buffer.New(cfg.Headers.BufferSize),
		Body:        buffer.New(cfg.Body.BufferSize),
	}
}

// Write implements io.Writer over the body buffer. Writes that don't fit are refused
// as a whole, returning buffer.ErrOverflow.
func (r *Response) Write(b []byte) (n int, err error) {
	if err = r.Body.Append(b); err != nil {
		return 0, err
	}

	return len(b), nil
}

func (r *Response) WriteString(s string) (n int, err error) {
	if err = r.Body.AppendString(s); err != nil {
		return 0, err
	}

	return len(s), nil
}

// AddHeader appends a header line to the auxiliary headers.
func (r *Response) AddHeader(key, value string) error {
	aux := r.Aux
	mark := aux.Len()

	if aux.AppendString(key) != nil || aux.AppendString(": ") != nil ||
		aux.AppendString(value) != nil || aux.AppendString("\r\n") != nil {
		aux.Truncate(mark)
		return buffer.ErrOverflow
	}

	return nil
}

// ServeFile makes the response send the file region instead of the body. The response
// takes the ownership over the file, closing the previously held one if any.
func (r *Response) ServeFile(file *os.File, offset, length int64) {
	if r.File.File != nil && r.File.File != file {
		_ = r.File.File.Close()
	}

	r.SendFile = true
	r.File = FileView{
		File:   file,
		Offset: offset,
		Length: length,
	}
}

// ContentLength returns the length of the currently chosen content source.
func (r *Response) ContentLength() int64 {
	if r.SendFile {
		return r.File.Length
	}

	return int64(r.Body.Len())
}

// Error turns the response into an error one: the status is set, while everything
// the handler has produced so far is dropped.
func (r *Response) Error(code status.Code) *Response {
	r.closeFile()
	r.Code = code
	r.ContentType = mime.Plain
	r.Aux.Reset()
	r.Body.Reset()

	return r
}

// Reset prepares the response for the next request. The file, if any, is closed.
func (r *Response) Reset() {
	r.Error(status.OK)
	r.Header.Reset()
}

// Close releases the file descriptor. Must be called when the response is destroyed,
// no matter whether it was transmitted.
func (r *Response) Close() (err error) {
	if r.File.File != nil {
		err = r.File.File.Close()
	}

	r.File = FileView{}
	r.SendFile = false
	r.Vector = Vector{}

	return err
}

func (r *Response) closeFile() {
	_ = r.Close()
}
