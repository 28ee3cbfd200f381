package http1

import (
	"bytes"
	"fmt"

	"github.com/indigo-web/flint/config"
	"github.com/indigo-web/flint/http"
	"github.com/indigo-web/flint/http/method"
	"github.com/indigo-web/flint/http/status"
	"github.com/indigo-web/flint/internal/transport"
	"github.com/indigo-web/flint/internal/uridecode"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
)

// Parser drives a request through two phases: headers, then body. It modifies the request
// by pointer and never copies its bytes: every field it sets is a view into request.Raw.
// The parser is stateful between calls until the request is complete, so one parser
// serves exactly one connection and must be Reset before the next request.
type Parser struct {
	cfg       *config.Config
	tokenizer Tokenizer
	// prevLen is the amount of bytes already known not to complete the header block
	prevLen   int
	headerLen int
	bodyLen   int
}

func NewParser(cfg *config.Config) *Parser {
	return &Parser{
		cfg: cfg,
	}
}

// Parse advances the request as far as request.Raw allows. transport.Pending means more
// bytes must be read and appended to request.Raw before calling again. On
// transport.Error, the request is switched into the Responding state and must not be
// parsed anymore.
func (p *Parser) Parse(request *http.Request) (state transport.RequestState, err error) {
	switch request.ParseState {
	case http.ParseHeaders:
		return p.parseHeaders(request)
	case http.ParseBody:
		return p.parseBody(request)
	case http.ParseComplete:
		return transport.Completed, nil
	default:
		panic(fmt.Sprintf("BUG: unexpected parse state: %v", request.ParseState))
	}
}

func (p *Parser) parseHeaders(request *http.Request) (transport.RequestState, error) {
	tokens, err := p.tokenizer.Tokenize(request.Raw, p.prevLen)
	switch err {
	case nil:
	case ErrIncomplete:
		if len(request.Raw) >= p.cfg.Headers.BufferSize {
			return p.fail(request, status.ErrHeaderFieldsTooLarge)
		}

		p.prevLen = len(request.Raw)
		return transport.Pending, nil
	default:
		return p.fail(request, err)
	}

	if tokens.Consumed > p.cfg.Headers.BufferSize {
		return p.fail(request, status.ErrHeaderFieldsTooLarge)
	}

	request.MethodStr = uf.B2S(tokens.Method)
	request.Method = method.Parse(request.MethodStr)
	if request.Method == method.Unknown {
		return p.fail(request, status.ErrMethodNotAllowed)
	}

	if tokens.Major != 1 {
		return p.fail(request, status.ErrUnsupportedProtocol)
	}

	request.Major, request.Minor = tokens.Major, tokens.Minor

	if tokens.Target[0] != '/' {
		return p.fail(request, status.ErrMalformedRequest)
	}

	path := tokens.Target
	if q := bytes.IndexByte(path, '?'); q != -1 {
		request.Query = uf.B2S(path[q+1:])
		path = path[:q]
	}

	if path, err = uridecode.Decode(path); err != nil {
		return p.fail(request, err)
	}

	request.Path = uf.B2S(path)

	if err = p.headers(request, tokens.Headers); err != nil {
		return p.fail(request, err)
	}

	p.headerLen = tokens.Consumed

	if request.ContentLength == 0 {
		request.Body = request.Raw[p.headerLen:p.headerLen]
		request.ParseState = http.ParseComplete
		return transport.Completed, nil
	}

	request.ParseState = http.ParseBody
	return p.parseBody(request)
}

func (p *Parser) headers(request *http.Request, headers []http.Header) error {
	var (
		contentLengthSeen bool
		rangeSeen         bool
	)

	for _, header := range headers {
		if err := request.AddHeader(header.Key, header.Value); err != nil {
			return err
		}

		switch {
		case strcomp.EqualFold(header.Key, "content-length"):
			length, err := parseContentLength(header.Value)
			if err != nil {
				return err
			}

			if contentLengthSeen && length != request.ContentLength {
				return status.ErrBadContentLength
			}

			contentLengthSeen = true
			request.ContentLength = length
		case strcomp.EqualFold(header.Key, "transfer-encoding"):
			return status.ErrUnsupportedEncoding
		case strcomp.EqualFold(header.Key, "range"):
			if rangeSeen {
				return status.ErrBadRange
			}

			rangeSeen = true
			if request.Method != method.GET {
				// ranges are meaningful for GET only, so are ignored otherwise
				continue
			}

			spec, err := http.ParseRange(header.Value)
			if err != nil {
				return err
			}

			request.Range = spec
			request.IsRange = true
		}
	}

	return nil
}

func (p *Parser) parseBody(request *http.Request) (transport.RequestState, error) {
	if request.ContentLength > p.cfg.Body.BufferSize {
		return p.fail(request, status.ErrContentTooLarge)
	}

	end := p.headerLen + request.ContentLength
	if len(request.Raw) < end {
		return transport.Pending, nil
	}

	request.Body = request.Raw[p.headerLen:end]
	p.bodyLen = request.ContentLength
	request.ParseState = http.ParseComplete
	return transport.Completed, nil
}

func (p *Parser) fail(request *http.Request, err error) (transport.RequestState, error) {
	request.State = http.Responding
	return transport.Error, err
}

// Consumed returns the length of the complete request: the header block and the body.
// Any byte of request.Raw past it belongs to the next request.
func (p *Parser) Consumed() int {
	return p.headerLen + p.bodyLen
}

func (p *Parser) Reset() {
	p.prevLen = 0
	p.headerLen = 0
	p.bodyLen = 0
}
