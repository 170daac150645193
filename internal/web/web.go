// Package web holds the embedded HTML templates for the public site and the
// admin area.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/darkClaw921/main-site-templats/internal/models"
	"github.com/darkClaw921/main-site-templats/internal/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses every page. Each page is registered under its file name.
func Templates(images storage.ImageStore) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(Funcs(images)).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

func Funcs(images storage.ImageStore) template.FuncMap {
	return template.FuncMap{
		"imageURL": images.URL,
		"techIcon": models.TechIcon,
		"categoryLabel": func(c models.TweakCategory) string {
			label, _ := c.Label()
			return label
		},
		"nullText": models.NullText,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02.01.2006")
		},
	}
}
