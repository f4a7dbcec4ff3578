package template

import (
	"embed"
	"io/fs"
)

//go:embed all:templates
var embeddedRaw embed.FS

// Resources returns the bundled boilerplate tree rooted at the templates
// directory. Paths are slash-separated and relative (e.g. "config/index.js").
func Resources() (fs.FS, error) {
	return fs.Sub(embeddedRaw, "templates")
}
