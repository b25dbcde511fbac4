// Package web holds the HTML templates served by the planner pages.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.tmpl
var files embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{"markdown": Markdown}).ParseFS(files, "templates/*.tmpl"))
}
