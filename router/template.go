package router

import (
	"errors"
	"strings"

	"github.com/indigo-web/flint/http"
)

var (
	ErrEmptyPattern    = errors.New("route pattern cannot be empty")
	ErrInvalidTemplate = errors.New("invalid route pattern")
)

// segment is either a static path segment or, if name is set, a variable one.
type segment struct {
	static string
	name   string
}

// template is a parsed route pattern. A pattern without variables is matched as a whole,
// otherwise it's matched segment by segment.
type template struct {
	pattern  string
	segments []segment
	dynamic  bool
}

func parseTemplate(pattern string) (template, error) {
	if len(pattern) == 0 {
		return template{}, ErrEmptyPattern
	}

	if pattern[0] != '/' {
		return template{}, ErrInvalidTemplate
	}

	pattern = normalize(pattern)
	tmpl := template{pattern: pattern}
	if pattern == "/" {
		return tmpl, nil
	}

	for _, part := range strings.Split(pattern[1:], "/") {
		open, closing := strings.IndexByte(part, '{'), strings.IndexByte(part, '}')

		switch {
		case open == -1 && closing == -1:
			tmpl.segments = append(tmpl.segments, segment{static: part})
		case open == 0 && closing == len(part)-1 && len(part) > 2:
			name := part[1:closing]
			if strings.ContainsAny(name, "{}") {
				return template{}, ErrInvalidTemplate
			}

			tmpl.segments = append(tmpl.segments, segment{name: name})
			tmpl.dynamic = true
		default:
			// variables sharing a segment with static text aren't supported
			return template{}, ErrInvalidTemplate
		}
	}

	return tmpl, nil
}

// match reports whether the path fits the template. Values of variables are stored into
// the request as they are met, so on a mismatch some of them may be already set.
func (t template) match(path string, request *http.Request) (bool, error) {
	path = normalize(path)
	if !t.dynamic {
		return path == t.pattern, nil
	}

	if len(path) == 0 || path[0] != '/' {
		return false, nil
	}

	rest := path[1:]

	for i, seg := range t.segments {
		var part string

		if slash := strings.IndexByte(rest, '/'); slash == -1 {
			if i != len(t.segments)-1 {
				return false, nil
			}

			part, rest = rest, ""
		} else {
			if i == len(t.segments)-1 {
				return false, nil
			}

			part, rest = rest[:slash], rest[slash+1:]
		}

		switch {
		case len(seg.name) == 0:
			if part != seg.static {
				return false, nil
			}
		case len(part) == 0:
			return false, nil
		default:
			if err := request.SetVar(seg.name, part); err != nil {
				return false, err
			}
		}
	}

	return true, nil
}

// normalize removes trailing slashes, so "/hello/" and "/hello" are the same path.
func normalize(path string) string {
	for i := len(path) - 1; i > 0; i-- {
		if path[i] != '/' {
			return path[:i+1]
		}
	}

	if len(path) > 0 {
		return path[:1]
	}

	return path
}
