// Package defaults ships the framework's fallback error-page templates as
// an embedded template source.
package defaults

import (
	"embed"

	"github.com/atzufuki/alexi/pkg/loaders"
)

//go:embed *.html
var files embed.FS

// Loader exposes the embedded pages through the standard loader contract.
// Applications usually chain it after their own loaders so project
// templates named 404.html or 500.html take precedence.
func Loader() loaders.Loader {
	return &loaders.FSLoader{FS: files}
}
