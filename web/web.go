// Package web embeds the server-rendered page templates. The templates are
// minimal shells: route handlers pick a view name and a data bag, and the
// template fills it in.
package web

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Templates parses the embedded page templates, named by file.
func Templates() (*template.Template, error) {
	funcs := template.FuncMap{
		"joinList": func(values []string) string { return strings.Join(values, ", ") },
	}
	return template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
}
