package conf

import (
	"fmt"

	"github.com/atzufuki/alexi/pkg/urls"
	"go.starlark.net/starlark"
)

// ViewResolver maps the view names used in a URL conf to actual views.
type ViewResolver func(name string) (urls.ViewFunc, error)

// LoadURLConf executes a Starlark URL configuration file and returns the
// pattern forest declared in its `urlpatterns` global. The file sees two
// builtins:
//
//	path(route, view="template.html", name="route-name")
//	include(route, [patterns...], name="namespace")
//
// View names are strings; the resolver turns them into ViewFuncs, which
// keeps the script free of host details. src may be nil to read from
// filename, or a string/[]byte with inline source.
func LoadURLConf(filename string, src any, resolver ViewResolver) ([]urls.Pattern, error) {
	thread := &starlark.Thread{Name: "alexi-urlconf"}
	predeclared := starlark.StringDict{
		"path":    starlark.NewBuiltin("path", makePathBuiltin(resolver)),
		"include": starlark.NewBuiltin("include", includeBuiltin),
	}

	globals, err := starlark.ExecFile(thread, filename, src, predeclared)
	if err != nil {
		return nil, fmt.Errorf("starlark execution error: %w", err)
	}

	val, ok := globals["urlpatterns"]
	if !ok {
		return nil, fmt.Errorf("url conf %q does not define urlpatterns", filename)
	}
	list, ok := val.(*starlark.List)
	if !ok {
		return nil, fmt.Errorf("urlpatterns must be a list, got %s", val.Type())
	}
	patterns, err := patternsFromList(list)
	if err != nil {
		return nil, err
	}
	if err := urls.Validate(patterns); err != nil {
		return nil, fmt.Errorf("invalid urlpatterns: %w", err)
	}
	return patterns, nil
}

func makePathBuiltin(resolver ViewResolver) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var route, view, name string
		if err := starlark.UnpackArgs("path", args, kwargs, "route", &route, "view", &view, "name?", &name); err != nil {
			return nil, err
		}
		if resolver == nil {
			return nil, fmt.Errorf("path: no view resolver configured")
		}
		vf, err := resolver(view)
		if err != nil {
			return nil, fmt.Errorf("path: resolving view %q: %w", view, err)
		}
		return patternValue{p: urls.Path(route, vf, name)}, nil
	}
}

func includeBuiltin(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var route, name string
	var children *starlark.List
	if err := starlark.UnpackArgs("include", args, kwargs, "route", &route, "patterns", &children, "name?", &name); err != nil {
		return nil, err
	}
	ps, err := patternsFromList(children)
	if err != nil {
		return nil, err
	}
	p := urls.Pattern{Route: route, Children: ps, Name: name}
	return patternValue{p: p}, nil
}

func patternsFromList(list *starlark.List) ([]urls.Pattern, error) {
	patterns := make([]urls.Pattern, 0, list.Len())
	it := list.Iterate()
	defer it.Done()
	var elem starlark.Value
	for it.Next(&elem) {
		pv, ok := elem.(patternValue)
		if !ok {
			return nil, fmt.Errorf("urlpatterns entries must come from path() or include(), got %s", elem.Type())
		}
		patterns = append(patterns, pv.p)
	}
	return patterns, nil
}

// patternValue carries a pattern through the Starlark interpreter.
type patternValue struct {
	p urls.Pattern
}

func (v patternValue) String() string {
	if v.p.Children != nil {
		return fmt.Sprintf("include(%q)", v.p.Route)
	}
	return fmt.Sprintf("path(%q, name=%q)", v.p.Route, v.p.Name)
}
func (v patternValue) Type() string          { return "urlpattern" }
func (v patternValue) Freeze()               {}
func (v patternValue) Truth() starlark.Bool  { return starlark.True }
func (v patternValue) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: urlpattern") }

var _ starlark.Value = patternValue{}
