// Package views is the thin glue between the router and the template
// engine: a view type that renders templates, and an http.Handler that
// dispatches resolved routes. Render failures become 500 responses here;
// the core packages below never touch HTTP.
package views

import (
	"log/slog"
	"net/http"

	"github.com/atzufuki/alexi/pkg/defaults"
	"github.com/atzufuki/alexi/pkg/loaders"
	"github.com/atzufuki/alexi/pkg/template"
	"github.com/atzufuki/alexi/pkg/urls"
)

// ContextFunc builds the template context for a request. A nil
// ContextFunc renders with an empty context.
type ContextFunc func(r *http.Request, params map[string]string) template.Context

// TemplateView returns a view that renders the named template. The
// context is extended with "request" and "params" entries before
// rendering.
func TemplateView(rend *template.Renderer, name string, ctxFn ContextFunc) urls.ViewFunc {
	return func(w http.ResponseWriter, r *http.Request, params map[string]string) {
		var ctx template.Context
		if ctxFn != nil {
			ctx = ctxFn(r, params)
		}
		if ctx == nil {
			ctx = template.Context{}
		}
		pv := template.DictValue{}
		for k, v := range params {
			pv[k] = template.StringValue(v)
		}
		ctx["params"] = pv
		ctx["request"] = requestValue{r: r}

		out, err := rend.Render(name, ctx)
		if err != nil {
			slog.Error("rendering template", "template", name, "error", err)
			renderError(w, r, rend, http.StatusInternalServerError, err, false)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(out))
	}
}

// Handler dispatches requests through a pattern forest. Unmatched paths
// get the 404 page; everything else is the view's responsibility.
type Handler struct {
	Patterns []urls.Pattern
	Renderer *template.Renderer
	Debug    bool
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m := urls.Resolve(r.URL.Path, h.Patterns)
	if m == nil {
		slog.Debug("no route matched", "path", r.URL.Path)
		renderError(w, r, h.Renderer, http.StatusNotFound, nil, h.Debug)
		return
	}
	slog.Debug("resolved route", "path", r.URL.Path, "route", m.Name)
	m.View(w, r, m.Params)
}

// renderError renders 404.html or 500.html, preferring the application's
// own templates and falling back to the embedded defaults.
func renderError(w http.ResponseWriter, r *http.Request, rend *template.Renderer, status int, cause error, debug bool) {
	name := "500.html"
	if status == http.StatusNotFound {
		name = "404.html"
	}
	chain := loaders.ChainLoader{defaults.Loader()}
	if rend != nil && rend.Loader != nil {
		chain = loaders.ChainLoader{rend.Loader, defaults.Loader()}
	}
	ctx := template.Context{
		"request": requestValue{r: r},
		"debug":   template.BoolValue(debug),
	}
	if cause != nil {
		ctx["error"] = template.StringValue(cause.Error())
	}
	out, err := template.NewRenderer(chain).Render(name, ctx)
	if err != nil {
		http.Error(w, http.StatusText(status), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(out))
}

// requestValue exposes the active request to templates through the
// lookup hook, so {{ request.path }} works without copying the request
// into the context.
type requestValue struct {
	r *http.Request
}

func (v requestValue) String() string { return v.r.Method + " " + v.r.URL.Path }
func (requestValue) Truth() bool      { return true }

func (v requestValue) OnLookup(key string) (template.Value, bool) {
	switch key {
	case "path":
		return template.StringValue(v.r.URL.Path), true
	case "method":
		return template.StringValue(v.r.Method), true
	case "host":
		return template.StringValue(v.r.Host), true
	case "query":
		q := template.DictValue{}
		for k, vals := range v.r.URL.Query() {
			if len(vals) > 0 {
				q[k] = template.StringValue(vals[0])
			}
		}
		return q, true
	}
	return nil, false
}

var (
	_ template.Value      = requestValue{}
	_ template.LookupHook = requestValue{}
)
