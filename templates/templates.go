// Package templates holds the server-rendered admin pages.
package templates

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed *.html
var files embed.FS

var funcs = template.FuncMap{
	"lower": strings.ToLower,
}

// Load parses every page and partial. Pages are addressed by file name,
// e.g. "dashboard.html".
func Load() (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(files, "*.html")
}
