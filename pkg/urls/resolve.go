package urls

import "strings"

// Match is the result of resolving a request path: the route's name, its
// view, and the captured :param values.
type Match struct {
	Name   string
	View   ViewFunc
	Params map[string]string
}

// Resolve matches path against the pattern forest and returns the first
// matching route in declaration order, or nil if nothing matches. It
// never fails: an unmatched path is an expected condition, not an error.
func Resolve(path string, patterns []Pattern) *Match {
	segments := splitRoute(path)
	for _, rt := range flatten(patterns, nil, "") {
		params, ok := matchSegments(rt.segments, segments)
		if ok {
			return &Match{Name: rt.name, View: rt.view, Params: params}
		}
	}
	return nil
}

// matchSegments matches a flattened route against path segments. A route
// segment beginning with ':' binds the path segment to that parameter;
// any other segment must match literally.
func matchSegments(routeSegs, pathSegs []string) (map[string]string, bool) {
	if len(routeSegs) != len(pathSegs) {
		return nil, false
	}
	params := map[string]string{}
	for i, rs := range routeSegs {
		if strings.HasPrefix(rs, ":") {
			params[rs[1:]] = pathSegs[i]
			continue
		}
		if rs != pathSegs[i] {
			return nil, false
		}
	}
	return params, true
}
