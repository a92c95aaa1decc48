// Package renderer turns catalog data into markdown reports. It holds no
// business logic: callers compute, the renderer formats.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var templates embed.FS

// RenderCatalog renders a catalog listing to a markdown table.
func RenderCatalog(c *Catalog) string {
	return renderTemplate("catalog", "templates/catalog.md", nil, c)
}

// RenderReport renders a sync report to markdown.
func RenderReport(r *Report) string {
	partials := map[string]string{
		"report_restocks": "templates/report_restocks.md",
	}
	return renderTemplate("report", "templates/report.md", partials, r)
}

// RenderDigest renders a watchlist digest to markdown.
func RenderDigest(d *Digest) string {
	return renderTemplate("digest", "templates/digest.md", nil, d)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
