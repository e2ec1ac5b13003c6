// Package loaders provides the source-resolution strategies a renderer
// loads templates through: an in-memory map, filesystem search over
// ordered root directories, an io/fs tree (including embed.FS), and a
// chain that tries several loaders in sequence.
package loaders

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Loader turns a template name into source text.
type Loader interface {
	Load(name string) (string, error)
}

// NotFoundError reports that no loader could supply the named template.
// For filesystem loaders it carries the directories that were searched.
type NotFoundError struct {
	Name         string
	SearchedDirs []string
}

func (e *NotFoundError) Error() string {
	if len(e.SearchedDirs) > 0 {
		return fmt.Sprintf("template %q not found (searched %s)", e.Name, strings.Join(e.SearchedDirs, ", "))
	}
	return fmt.Sprintf("template %q not found", e.Name)
}

// IsNotFound reports whether err is a template-not-found condition.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// MemoryLoader resolves templates from an in-memory map. Register at
// startup, read during serving; Clear exists for teardown and hot-reload.
type MemoryLoader map[string]string

func (m MemoryLoader) Load(name string) (string, error) {
	if src, ok := m[name]; ok {
		return src, nil
	}
	return "", &NotFoundError{Name: name}
}

func (m MemoryLoader) Register(name, src string) { m[name] = src }

func (m MemoryLoader) Has(name string) bool {
	_, ok := m[name]
	return ok
}

func (m MemoryLoader) Clear() {
	for k := range m {
		delete(m, k)
	}
}

// FilesystemLoader searches an ordered list of root directories; the
// first file found wins.
type FilesystemLoader struct {
	Dirs []string
}

func (l *FilesystemLoader) Load(name string) (string, error) {
	for _, dir := range l.Dirs {
		b, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err == nil {
			return string(b), nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("loading template %q: %w", name, err)
		}
	}
	return "", &NotFoundError{Name: name, SearchedDirs: l.Dirs}
}

// FSLoader reads templates from an fs.FS, typically an embed.FS. Root, if
// set, is prepended to every name.
type FSLoader struct {
	FS   fs.FS
	Root string
}

func (l *FSLoader) Load(name string) (string, error) {
	p := name
	if l.Root != "" {
		p = path.Join(l.Root, name)
	}
	b, err := fs.ReadFile(l.FS, p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", &NotFoundError{Name: name}
		}
		return "", fmt.Errorf("loading template %q: %w", name, err)
	}
	return string(b), nil
}

// ChainLoader tries each loader in order. Not-found failures fall through
// to the next loader and only the last one is reported; any other failure
// propagates immediately.
type ChainLoader []Loader

func (c ChainLoader) Load(name string) (string, error) {
	var lastErr error
	for _, l := range c {
		src, err := l.Load(name)
		if err == nil {
			return src, nil
		}
		if !IsNotFound(err) {
			return "", err
		}
		lastErr = err
	}
	if lastErr == nil {
		lastErr = &NotFoundError{Name: name}
	}
	return "", lastErr
}
