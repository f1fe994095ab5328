package handlers

import (
	"fmt"
	"html/template"
	"io/fs"

	"github.com/gin-contrib/multitemplate"
)

// pages lists every rendered page and the template files it is built from.
// The first file is the layout that gets executed.
var pages = map[string][]string{
	"index.html":       {"base.html", "index.html", "_post_meta.html", "_pagination.html"},
	"index_cards.html": {"base.html", "index_cards.html", "_post_meta.html", "_pagination.html"},
	"post.html":        {"base.html", "post.html", "_post_meta.html"},
	"search.html":      {"base.html", "search.html", "_post_meta.html", "_pagination.html"},
	"404.html":         {"base.html", "404.html"},
}

// NewRenderer parses all page templates from fsys.
func NewRenderer(fsys fs.FS) (multitemplate.Renderer, error) {
	r := multitemplate.NewRenderer()
	for name, files := range pages {
		tpl, err := template.ParseFS(fsys, files...)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.Add(name, tpl)
	}
	return r, nil
}
