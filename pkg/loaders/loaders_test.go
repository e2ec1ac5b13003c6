package loaders

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
)

func TestMemoryLoader(t *testing.T) {
	m := MemoryLoader{}
	m.Register("a.html", "A")
	if !m.Has("a.html") {
		t.Fatalf("registered template missing")
	}
	src, err := m.Load("a.html")
	if err != nil || src != "A" {
		t.Fatalf("load: %q, %v", src, err)
	}
	if _, err := m.Load("b.html"); !IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
	m.Clear()
	if m.Has("a.html") {
		t.Fatalf("clear did not remove templates")
	}
}

func TestFilesystemLoaderFirstDirWins(t *testing.T) {
	dir1 := t.TempDir()
	dir2 := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir1, "page.html"), []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir2, "page.html"), []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir2, "other.html"), []byte("other"), 0o644); err != nil {
		t.Fatal(err)
	}

	l := &FilesystemLoader{Dirs: []string{dir1, dir2}}
	src, err := l.Load("page.html")
	if err != nil || src != "one" {
		t.Fatalf("load: %q, %v", src, err)
	}
	if src, _ := l.Load("other.html"); src != "other" {
		t.Fatalf("fallback dir: %q", src)
	}
}

func TestFilesystemLoaderNotFoundNamesDirs(t *testing.T) {
	dir := t.TempDir()
	l := &FilesystemLoader{Dirs: []string{dir}}
	_, err := l.Load("nope.html")
	if !IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope.html") || !strings.Contains(err.Error(), dir) {
		t.Fatalf("error should name the template and searched dirs: %v", err)
	}
}

func TestFSLoader(t *testing.T) {
	fsys := fstest.MapFS{
		"templates/a.html": {Data: []byte("A")},
	}
	l := &FSLoader{FS: fsys, Root: "templates"}
	src, err := l.Load("a.html")
	if err != nil || src != "A" {
		t.Fatalf("load: %q, %v", src, err)
	}
	if _, err := l.Load("b.html"); !IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
}

type failLoader struct{ err error }

func (f failLoader) Load(name string) (string, error) { return "", f.err }

func TestChainLoader(t *testing.T) {
	a := MemoryLoader{"a.html": "A"}
	b := MemoryLoader{"b.html": "B"}
	chain := ChainLoader{a, b}

	if src, err := chain.Load("b.html"); err != nil || src != "B" {
		t.Fatalf("chain fallthrough: %q, %v", src, err)
	}
	if src, err := chain.Load("a.html"); err != nil || src != "A" {
		t.Fatalf("chain first: %q, %v", src, err)
	}
	if _, err := chain.Load("c.html"); !IsNotFound(err) {
		t.Fatalf("want not-found, got %v", err)
	}
}

func TestChainLoaderPropagatesRealErrors(t *testing.T) {
	boom := errors.New("disk on fire")
	chain := ChainLoader{failLoader{err: boom}, MemoryLoader{"a.html": "A"}}
	if _, err := chain.Load("a.html"); !errors.Is(err, boom) {
		t.Fatalf("non-not-found errors must propagate immediately, got %v", err)
	}
}

func TestChainLoaderEmpty(t *testing.T) {
	if _, err := (ChainLoader{}).Load("x"); !IsNotFound(err) {
		t.Fatalf("empty chain: %v", err)
	}
}

func TestDefaultRegistry(t *testing.T) {
	Reset()
	defer Reset()
	Register("home.html", "hi")
	if src, err := Default().Load("home.html"); err != nil || src != "hi" {
		t.Fatalf("default registry: %q, %v", src, err)
	}
	Reset()
	if Default().Has("home.html") {
		t.Fatalf("reset did not clear the registry")
	}
}
