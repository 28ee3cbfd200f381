package http

import (
	"iter"

	"github.com/indigo-web/flint/http/method"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/buffer"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

const (
	// MaxHeaders is the maximal number of header pairs a request may carry.
	MaxHeaders = 100
	// MaxVars is the maximal number of variables a route may extract from a path.
	MaxVars = 16
	// addrSize fits the longest textual IPv6 address (INET6_ADDRSTRLEN).
	addrSize = 46
)

type ParseState uint8

const (
	ParseHeaders ParseState = iota
	ParseBody
	ParseComplete
)

type State uint8

const (
	Processing State = iota
	Responding
	Complete
)

type Header struct {
	Key, Value string
}

// Var is a route variable. Unlike headers, variables are copied out of the path into
// fixed-size fields.
type Var struct {
	Key, Value buffer.Field
}

// Request represents a single HTTP request. All the string and byte-slice fields are
// views into Raw, which in turn is a view into the read buffer of the connection. So
// none of them may be retained after the request is Reset.
type Request struct {
	// Raw holds every byte of the request received so far, starting from the request line.
	Raw []byte
	// Method is an enum representing the request method.
	Method method.Method
	// MethodStr is the method exactly as it was sent.
	MethodStr string
	// Path is the request target without the query.
	Path string
	// Query is everything after the first question mark of the request target.
	Query string
	// Major and Minor are the protocol version numbers.
	Major, Minor int
	// ContentLength is the declared body length, 0 if the header is absent.
	ContentLength int
	// IsRange reports whether a Range header was presented. Range itself isn't resolved
	// until the length of the resource is known.
	IsRange bool
	Range   RangeSpec
	// Body becomes available as soon as ParseState reaches ParseComplete.
	Body []byte
	// Handler is the content handler the request was routed to.
	Handler Handler
	// Output is the number of bytes the handler declared to emit.
	Output int

	ParseState ParseState
	State      State

	headers  [MaxHeaders]Header
	nHeaders int
	vars     [MaxVars]Var
	nVars    int
	addr     [addrSize]byte
	addrLen  uint8
}

// NewRequest returns a request over the initially received bytes.
func NewRequest(raw []byte, addr string) *Request {
	r := new(Request)
	r.Raw = raw
	r.SetRemote(addr)

	return r
}

// UpdateBuffer swaps the raw view. The new view must start at the same memory as the
// old one, so views already derived from it stay valid; usually it's the same buffer
// with more bytes read in.
func (r *Request) UpdateBuffer(raw []byte) {
	r.Raw = raw
}

// AddHeader stores a header pair. Both key and value are expected to be views into Raw.
func (r *Request) AddHeader(key, value string) error {
	if r.nHeaders >= MaxHeaders {
		return status.ErrTooManyHeaders
	}

	r.headers[r.nHeaders] = Header{Key: key, Value: value}
	r.nHeaders++
	return nil
}

// Header returns the first value of the header, matching the key case-insensitively.
func (r *Request) Header(key string) (string, bool) {
	for _, header := range r.headers[:r.nHeaders] {
		if strcomp.EqualFold(header.Key, key) {
			return header.Value, true
		}
	}

	return "", false
}

// Headers returns an iterator over all the header pairs in order of their appearance.
func (r *Request) Headers() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, header := range r.headers[:r.nHeaders] {
			if !yield(header.Key, header.Value) {
				break
			}
		}
	}
}

func (r *Request) HeadersLen() int {
	return r.nHeaders
}

// SetVar copies a route variable into the next free slot.
func (r *Request) SetVar(key, value string) error {
	if r.nVars >= MaxVars {
		return status.ErrTooManyVars
	}

	v := &r.vars[r.nVars]
	if v.Key.Set(key) != nil || v.Value.Set(value) != nil {
		return status.ErrVarTooLong
	}

	r.nVars++
	return nil
}

// Var returns the value of the route variable.
func (r *Request) Var(key string) (string, bool) {
	for i := range r.vars[:r.nVars] {
		if r.vars[i].Key.String() == key {
			return r.vars[i].Value.String(), true
		}
	}

	return "", false
}

// Vars returns an iterator over the route variables in order of their extraction.
func (r *Request) Vars() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for i := range r.vars[:r.nVars] {
			if !yield(r.vars[i].Key.String(), r.vars[i].Value.String()) {
				break
			}
		}
	}
}

func (r *Request) VarsLen() int {
	return r.nVars
}

// ResetVars drops all the route variables, e.g. after a partial match of a route.
func (r *Request) ResetVars() {
	r.nVars = 0
}

// SetRemote stores the textual client address. Longer addresses are truncated.
func (r *Request) SetRemote(addr string) {
	r.addrLen = uint8(copy(r.addr[:], addr))
}

// Remote returns the client address. The returned string is a view, valid as long as
// the request itself.
func (r *Request) Remote() string {
	return uf.B2S(r.addr[:r.addrLen])
}

// KeepAlive tells whether the connection may be reused after the response. HTTP/1.1
// connections are persistent unless the client asks to close, HTTP/1.0 ones must
// explicitly ask to keep alive.
func (r *Request) KeepAlive() bool {
	connection, _ := r.Header("connection")

	if r.Major == 1 && r.Minor == 0 {
		return strcomp.EqualFold(connection, "keep-alive")
	}

	return !strcomp.EqualFold(connection, "close")
}

// Reset prepares the request for reuse. Every view is dropped, the remote address is
// kept, as it belongs to the connection rather than to a request.
func (r *Request) Reset() {
	r.Raw = nil
	r.Method = method.Unknown
	r.MethodStr = ""
	r.Path = ""
	r.Query = ""
	r.Major, r.Minor = 0, 0
	r.ContentLength = 0
	r.IsRange = false
	r.Range = RangeSpec{}
	r.Body = nil
	r.Handler = nil
	r.Output = 0
	r.ParseState = ParseHeaders
	r.State = Processing
	clear(r.headers[:r.nHeaders])
	r.nHeaders = 0
	r.nVars = 0
}
