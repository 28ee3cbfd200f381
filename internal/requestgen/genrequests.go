// Package requestgen builds raw requests for tests and benchmarks.
package requestgen

import (
	"strconv"
	"strings"

	"github.com/indigo-web/flint/http"
)

// Headers returns n headers, the last of which is always Host.
func Headers(n int) []http.Header {
	headers := make([]http.Header, 0, n)

	for i := 0; i < n-1; i++ {
		headers = append(headers, http.Header{
			Key:   "some-random-header-name-nobody-cares-about" + strconv.Itoa(i),
			Value: strings.Repeat("b", 100),
		})
	}

	return append(headers, http.Header{Key: "Host", Value: "localhost"})
}

func HeadersBlock(headers []http.Header) (buff []byte) {
	for _, header := range headers {
		buff = append(buff, header.Key+": "+header.Value+"\r\n"...)
	}

	return buff
}

// Generate renders a GET request for the target with the headers.
func Generate(target string, headers []http.Header) (request []byte) {
	request = append(request, "GET "+target+" HTTP/1.1\r\n"...)
	request = append(request, HeadersBlock(headers)...)

	return append(request, '\r', '\n')
}
