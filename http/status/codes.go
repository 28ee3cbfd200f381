package status

type Code uint16

// Codes the engine may respond with. Every request, either handled or refused, ends
// up with exactly one of them.
const (
	OK                  Code = 200 // RFC 9110, 15.3.1
	PartialContent      Code = 206 // RFC 9110, 15.3.7
	BadRequest          Code = 400 // RFC 9110, 15.5.1
	Forbidden           Code = 403 // RFC 9110, 15.5.4
	NotFound            Code = 404 // RFC 9110, 15.5.5
	MethodNotAllowed    Code = 405 // RFC 9110, 15.5.6
	ContentTooLarge     Code = 413 // RFC 9110, 15.5.14
	InternalServerError Code = 500 // RFC 9110, 15.6.1
)

// KnownCodes lists every code from above.
var KnownCodes = []Code{
	OK, PartialContent, BadRequest, Forbidden, NotFound, MethodNotAllowed, ContentTooLarge,
	InternalServerError,
}

// Text returns a reason phrase for the HTTP status code. Unknown codes are reported
// as "Unknown Status Code".
func Text(code Code) string {
	switch code {
	case OK:
		return "OK"
	case PartialContent:
		return "Partial Content"
	case BadRequest:
		return "Bad Request"
	case Forbidden:
		return "Forbidden"
	case NotFound:
		return "Not Found"
	case MethodNotAllowed:
		return "Method Not Allowed"
	case ContentTooLarge:
		return "Content Too Large"
	case InternalServerError:
		return "Internal Server Error"
	default:
		return "Unknown Status Code"
	}
}

// Line returns the code together with its reason phrase, exactly as it goes into
// the status line, e.g. "404 Not Found". Unknown codes fall back to 500.
func Line(code Code) string {
	switch code {
	case OK:
		return "200 OK"
	case PartialContent:
		return "206 Partial Content"
	case BadRequest:
		return "400 Bad Request"
	case Forbidden:
		return "403 Forbidden"
	case NotFound:
		return "404 Not Found"
	case MethodNotAllowed:
		return "405 Method Not Allowed"
	case ContentTooLarge:
		return "413 Content Too Large"
	default:
		return "500 Internal Server Error"
	}
}

// IsError tells whether the code reports a failure.
func (c Code) IsError() bool {
	return c >= 400
}
