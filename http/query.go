package http

import (
	"iter"
	"strings"
)

// QueryParams walks the query pairs in order of appearance. Neither keys nor values are
// percent-decoded, so they stay views into the request. A pair without '=' yields an
// empty value, empty pairs are skipped.
func (r *Request) QueryParams() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for query := r.Query; len(query) > 0; {
			pair := query
			if amp := strings.IndexByte(query, '&'); amp != -1 {
				pair, query = query[:amp], query[amp+1:]
			} else {
				query = ""
			}

			if len(pair) == 0 {
				continue
			}

			key, value, _ := strings.Cut(pair, "=")
			if !yield(key, value) {
				return
			}
		}
	}
}

// QueryParam returns the raw value of the first query pair with the key.
func (r *Request) QueryParam(key string) (string, bool) {
	for k, v := range r.QueryParams() {
		if k == key {
			return v, true
		}
	}

	return "", false
}
