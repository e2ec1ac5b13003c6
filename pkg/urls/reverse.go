package urls

import (
	"fmt"
	"strings"
)

// Reverse builds the path for the named route, substituting :param
// segments from params. It fails on an unknown route name and on the
// first missing required parameter in path-segment order; extra
// parameters are silently ignored. Both failures are programmer errors
// (misconfigured routes), so they propagate instead of being defaulted.
// The result is an absolute path with a leading slash and a normalized
// trailing slash.
func Reverse(name string, params map[string]string, patterns []Pattern) (string, error) {
	for _, rt := range flatten(patterns, nil, "") {
		if rt.name != name || rt.name == "" {
			continue
		}
		segs := make([]string, 0, len(rt.segments))
		for _, s := range rt.segments {
			if !strings.HasPrefix(s, ":") {
				segs = append(segs, s)
				continue
			}
			val, ok := params[s[1:]]
			if !ok {
				return "", fmt.Errorf("reversing %q: missing parameter %q", name, s[1:])
			}
			segs = append(segs, val)
		}
		if len(segs) == 0 {
			return "/", nil
		}
		return "/" + strings.Join(segs, "/") + "/", nil
	}
	return "", fmt.Errorf("no route named %q", name)
}

// Entry describes one flattened route, for listings and diagnostics.
type Entry struct {
	Name   string
	Route  string
	Params []string
}

// List flattens the pattern forest into entries in declaration order.
func List(patterns []Pattern) []Entry {
	var out []Entry
	for _, rt := range flatten(patterns, nil, "") {
		e := Entry{Name: rt.name, Route: "/" + strings.Join(rt.segments, "/")}
		if len(rt.segments) > 0 {
			e.Route += "/"
		}
		for _, s := range rt.segments {
			if strings.HasPrefix(s, ":") {
				e.Params = append(e.Params, s[1:])
			}
		}
		out = append(out, e)
	}
	return out
}
