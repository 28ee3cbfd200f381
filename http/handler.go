package http

// Handler is the shape of every content handler. It reads the request and populates
// the response: status code, content type and either the body or a file. The returned
// value is the number of bytes the handler intends to emit; the response is refused
// with 500 if the body or file turn out to hold less than that.
//
// Errors are reported only through the response code. Neither the request nor the
// response may be retained after the handler returns.
type Handler func(*Request, *Response) int
