package templates

import (
	"embed"
	"html/template"
)

//go:embed *.tmpl
var files embed.FS

// Load parses every page template; each is addressed by its file name
func Load() (*template.Template, error) {
	return template.New("").ParseFS(files, "*.tmpl")
}
