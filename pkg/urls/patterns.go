// Package urls implements declarative URL patterns with forward
// resolution (path to view) and reverse URL generation (name to path).
// Patterns form a forest: a pattern either binds a view or groups child
// patterns under a path prefix. Resolution and reversal are pure
// functions over read-only pattern lists.
package urls

import (
	"fmt"
	"net/http"
	"strings"

	v "github.com/atzufuki/alexi/pkg/validator"
)

// ViewFunc handles a resolved request. Params carries the values captured
// by :param segments.
type ViewFunc func(w http.ResponseWriter, r *http.Request, params map[string]string)

// Pattern is one declarative route. Exactly one of View and Children is
// set. On a leaf, Name is the route name used for reversing; on a group,
// Name acts as a namespace prefix (joined with ':').
type Pattern struct {
	Route    string
	View     ViewFunc
	Children []Pattern
	Name     string
}

func (p Pattern) Validate() error {
	return v.All(
		func() error {
			if (p.View == nil) == (p.Children == nil) {
				return fmt.Errorf("pattern %q must have exactly one of view or children", p.Route)
			}
			return nil
		}(),
		v.Each(p.Children),
	)
}

// Validate checks a whole pattern forest.
func Validate(patterns []Pattern) error {
	return v.Each(patterns)
}

// Path declares a leaf route bound to a view. Literal routes must be
// declared before parametrized siblings they should shadow; resolution is
// strictly declaration-ordered.
func Path(route string, view ViewFunc, name string) Pattern {
	return Pattern{Route: route, View: view, Name: name}
}

// Include groups child patterns under a path prefix.
func Include(route string, children ...Pattern) Pattern {
	return Pattern{Route: route, Children: children}
}

// Namespace groups child patterns under a path prefix and a name prefix,
// so a child named "change" inside Namespace("admin", ...) reverses as
// "admin:change".
func Namespace(name, route string, children ...Pattern) Pattern {
	return Pattern{Route: route, Children: children, Name: name}
}

// route is one flattened leaf: the full segment list from the pattern
// forest root, with params still in :name form.
type route struct {
	name     string
	segments []string
	view     ViewFunc
}

// flatten expands nested groups depth-first, concatenating path segments
// and joining namespace names, preserving declaration order.
func flatten(patterns []Pattern, prefix []string, ns string) []route {
	var out []route
	for _, p := range patterns {
		segs := append(append([]string(nil), prefix...), splitRoute(p.Route)...)
		if p.Children != nil {
			childNS := ns
			if p.Name != "" {
				childNS = joinName(ns, p.Name)
			}
			out = append(out, flatten(p.Children, segs, childNS)...)
			continue
		}
		out = append(out, route{name: joinName(ns, p.Name), segments: segs, view: p.View})
	}
	return out
}

func joinName(ns, name string) string {
	if ns == "" {
		return name
	}
	if name == "" {
		return ns
	}
	return ns + ":" + name
}

// splitRoute normalizes a route (or request path) into its non-empty
// segments, collapsing any number of leading, trailing, or doubled
// slashes.
func splitRoute(r string) []string {
	var segs []string
	for _, s := range strings.Split(strings.Trim(r, "/"), "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}
