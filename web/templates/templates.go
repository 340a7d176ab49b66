// Package templates embeds the html pages of the web interface.
package templates

import (
	"embed"
	"html/template"

	"github.com/jon4hz/modhub/web/templates/components"
)

//go:embed *.html
var pagesFS embed.FS

// Load parses all pages. Every page is addressed by its file name, e.g. "catalog.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(components.FuncMap()).ParseFS(pagesFS, "*.html")
}
