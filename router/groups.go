package router

import "strings"

// Group prefixes every route's pattern, so a set of routes may be mounted under a common
// path. Groups nest: a group passed as routes of another one gets both prefixes.
func Group(prefix string, routes ...Route) []Route {
	prefix = strings.TrimSuffix(prefix, "/")
	grouped := make([]Route, len(routes))

	for i, route := range routes {
		pattern := route.Pattern
		if !strings.HasPrefix(pattern, "/") {
			pattern = "/" + pattern
		}

		grouped[i] = Route{
			Pattern: prefix + pattern,
			Handler: route.Handler,
		}
	}

	return grouped
}
