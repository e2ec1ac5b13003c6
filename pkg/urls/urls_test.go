package urls

import (
	"net/http"
	"strings"
	"testing"
)

func noopView(w http.ResponseWriter, r *http.Request, params map[string]string) {}

func TestResolveLiteral(t *testing.T) {
	patterns := []Pattern{
		Path("about/", noopView, "about"),
	}
	m := Resolve("/about/", patterns)
	if m == nil || m.Name != "about" {
		t.Fatalf("resolve: %+v", m)
	}
	if len(m.Params) != 0 {
		t.Fatalf("literal route captured params: %v", m.Params)
	}
	if Resolve("/missing/", patterns) != nil {
		t.Fatalf("unmatched path should resolve to nil")
	}
}

func TestResolveParams(t *testing.T) {
	patterns := []Pattern{
		Path("articles/:year/:slug/", noopView, "article"),
	}
	m := Resolve("/articles/2024/go-generics/", patterns)
	if m == nil {
		t.Fatalf("no match")
	}
	if m.Params["year"] != "2024" || m.Params["slug"] != "go-generics" {
		t.Fatalf("params: %v", m.Params)
	}
	if Resolve("/articles/2024/", patterns) != nil {
		t.Fatalf("segment count must match exactly")
	}
}

func TestResolveDeclarationOrderPrecedence(t *testing.T) {
	addView := noopView
	detailView := noopView
	patterns := []Pattern{
		Path(":model/add/", addView, "model_add"),
		Path(":model/:id/", detailView, "model_detail"),
	}
	m := Resolve("/users/add/", patterns)
	if m == nil || m.Name != "model_add" {
		t.Fatalf("literal segment declared first must win: %+v", m)
	}
	if m.Params["model"] != "users" {
		t.Fatalf("params: %v", m.Params)
	}

	m = Resolve("/users/7/", patterns)
	if m == nil || m.Name != "model_detail" || m.Params["id"] != "7" {
		t.Fatalf("fallthrough to parametrized route: %+v", m)
	}
}

func TestResolveSlashNormalization(t *testing.T) {
	patterns := []Pattern{
		Path("login/", noopView, "login"),
	}
	for _, path := range []string{"login", "/login", "login/", "///login///", "//login//"} {
		m := Resolve(path, patterns)
		if m == nil || m.Name != "login" {
			t.Fatalf("resolve(%q): %+v", path, m)
		}
		if len(m.Params) != 0 {
			t.Fatalf("resolve(%q) params: %v", path, m.Params)
		}
	}
}

func TestResolveRootPattern(t *testing.T) {
	patterns := []Pattern{
		Path("", noopView, "home"),
		Path("about/", noopView, "about"),
	}
	m := Resolve("/", patterns)
	if m == nil || m.Name != "home" {
		t.Fatalf("root: %+v", m)
	}
}

func TestIncludeFlattening(t *testing.T) {
	patterns := []Pattern{
		Include("blog/",
			Path("", noopView, "blog_index"),
			Path(":slug/", noopView, "blog_post"),
			Include("archive/",
				Path(":year/", noopView, "blog_archive"),
			),
		),
	}
	m := Resolve("/blog/", patterns)
	if m == nil || m.Name != "blog_index" {
		t.Fatalf("prefix-only: %+v", m)
	}
	m = Resolve("/blog/hello/", patterns)
	if m == nil || m.Name != "blog_post" || m.Params["slug"] != "hello" {
		t.Fatalf("nested leaf: %+v", m)
	}
	m = Resolve("/blog/archive/2023/", patterns)
	if m == nil || m.Name != "blog_archive" || m.Params["year"] != "2023" {
		t.Fatalf("double nesting: %+v", m)
	}
}

func TestNamespaceNames(t *testing.T) {
	patterns := []Pattern{
		Namespace("admin", "admin/",
			Path(":model/", noopView, "model_list"),
			Path(":model/:id/", noopView, "model_change"),
		),
	}
	m := Resolve("/admin/users/", patterns)
	if m == nil || m.Name != "admin:model_list" {
		t.Fatalf("namespaced name: %+v", m)
	}

	got, err := Reverse("admin:model_change", map[string]string{"model": "users", "id": "3"}, patterns)
	if err != nil || got != "/admin/users/3/" {
		t.Fatalf("reverse: %q, %v", got, err)
	}
}

func TestReverse(t *testing.T) {
	patterns := []Pattern{
		Path("", noopView, "home"),
		Path("articles/:year/:slug/", noopView, "article"),
	}
	got, err := Reverse("home", nil, patterns)
	if err != nil || got != "/" {
		t.Fatalf("empty route: %q, %v", got, err)
	}
	got, err = Reverse("article", map[string]string{"year": "2024", "slug": "x"}, patterns)
	if err != nil || got != "/articles/2024/x/" {
		t.Fatalf("reverse: %q, %v", got, err)
	}
}

func TestReverseMissingParam(t *testing.T) {
	patterns := []Pattern{
		Namespace("admin", "admin/",
			Path(":model/:id/", noopView, "model_change"),
		),
	}
	_, err := Reverse("admin:model_change", map[string]string{"model": "users"}, patterns)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "admin:model_change") || !strings.Contains(err.Error(), `"id"`) {
		t.Fatalf("error should name the route and the missing parameter: %v", err)
	}
}

func TestReverseUnknownName(t *testing.T) {
	_, err := Reverse("nope", nil, []Pattern{Path("a/", noopView, "a")})
	if err == nil || !strings.Contains(err.Error(), `"nope"`) {
		t.Fatalf("unknown route: %v", err)
	}
}

func TestReverseIgnoresExtraParams(t *testing.T) {
	patterns := []Pattern{Path("users/:id/", noopView, "user")}
	got, err := Reverse("user", map[string]string{"id": "1", "junk": "x"}, patterns)
	if err != nil || got != "/users/1/" {
		t.Fatalf("extra params must be ignored: %q, %v", got, err)
	}
}

func TestReverseResolveRoundTrip(t *testing.T) {
	patterns := []Pattern{
		Namespace("shop", "shop/",
			Path("items/:id/", noopView, "item"),
		),
	}
	params := map[string]string{"id": "42"}
	path, err := Reverse("shop:item", params, patterns)
	if err != nil {
		t.Fatal(err)
	}
	m := Resolve(path, patterns)
	if m == nil || m.Name != "shop:item" || m.Params["id"] != "42" {
		t.Fatalf("round trip: %q -> %+v", path, m)
	}
}

func TestList(t *testing.T) {
	patterns := []Pattern{
		Path("", noopView, "home"),
		Namespace("admin", "admin/",
			Path(":model/", noopView, "model_list"),
		),
	}
	entries := List(patterns)
	if len(entries) != 2 {
		t.Fatalf("entries: %+v", entries)
	}
	if entries[0].Name != "home" || entries[0].Route != "/" {
		t.Fatalf("home entry: %+v", entries[0])
	}
	if entries[1].Name != "admin:model_list" || entries[1].Route != "/admin/:model/" {
		t.Fatalf("admin entry: %+v", entries[1])
	}
	if len(entries[1].Params) != 1 || entries[1].Params[0] != "model" {
		t.Fatalf("params: %+v", entries[1].Params)
	}
}

func TestValidate(t *testing.T) {
	good := []Pattern{
		Path("a/", noopView, "a"),
		Include("b/", Path("c/", noopView, "c")),
	}
	if err := Validate(good); err != nil {
		t.Fatalf("valid patterns rejected: %v", err)
	}

	bad := []Pattern{{Route: "x/"}}
	if err := Validate(bad); err == nil {
		t.Fatalf("pattern with neither view nor children must fail validation")
	}
	both := []Pattern{{Route: "x/", View: noopView, Children: []Pattern{Path("y/", noopView, "y")}}}
	if err := Validate(both); err == nil {
		t.Fatalf("pattern with both view and children must fail validation")
	}
}
