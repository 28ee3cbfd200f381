package status

import "errors"

type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// CodeOf extracts the code out of an HTTPError. Any other non-nil error is considered
// an internal one.
func CodeOf(err error) Code {
	if err == nil {
		return OK
	}

	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}

var (
	ErrBadRequest           = NewError(BadRequest, "bad request")
	ErrMalformedRequest     = NewError(BadRequest, "malformed request line or headers")
	ErrHeaderFieldsTooLarge = NewError(BadRequest, "too large headers section")
	ErrTooManyHeaders       = NewError(BadRequest, "too many headers")
	ErrUnsupportedProtocol  = NewError(BadRequest, "unsupported protocol")
	ErrBadContentLength     = NewError(BadRequest, "invalid content length")
	ErrUnsupportedEncoding  = NewError(BadRequest, "transfer encodings are not supported")
	ErrBadRange             = NewError(BadRequest, "invalid range")
	ErrURIDecoding          = NewError(BadRequest, "invalid percent-encoding in path")
	ErrTooManyVars          = NewError(BadRequest, "too many route variables")
	ErrVarTooLong           = NewError(BadRequest, "route variable is too long")
	ErrForbidden            = NewError(Forbidden, "forbidden")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrMethodNotAllowed     = NewError(MethodNotAllowed, "method not allowed")
	ErrContentTooLarge      = NewError(ContentTooLarge, "request body is too large")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrUndersizedOutput     = NewError(InternalServerError, "handler produced less output than declared")
	ErrHeaderBufferOverflow = NewError(InternalServerError, "response headers don't fit the header buffer")
)
