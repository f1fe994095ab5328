package utils

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/tdewolff/minify/v2"
	minhtml "github.com/tdewolff/minify/v2/html"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// MoreSeparator marks the end of the excerpt inside a post body.
const MoreSeparator = "<!--more-->"

// Authors are trusted, so raw HTML in markdown is rendered as-is.
var mdRenderer = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

var htmlMinifier = func() *minify.M {
	m := minify.New()
	m.Add("text/html", &minhtml.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
		KeepQuotes:       true,
	})
	return m
}()

var (
	linkPattern    = regexp.MustCompile(`(\[!\[.*?\]\(.*?\)\])|(!?\[.*?\]\(.*?\))`)
	markupPattern  = regexp.MustCompile("(?m)[*#>`~_|]|^\\s*-\\s")
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// RenderMarkdown converts GitHub-flavoured markdown to HTML.
func RenderMarkdown(md []byte) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mdRenderer.Convert(md, &buf); err != nil {
		return "", err
	}
	htmlContent := strings.ReplaceAll(buf.String(), MoreSeparator, "")
	return template.HTML(htmlContent), nil
}

// MinifyHTML shrinks an HTML fragment.
func MinifyHTML(fragment template.HTML) (template.HTML, error) {
	out, err := htmlMinifier.String("text/html", string(fragment))
	if err != nil {
		return "", err
	}
	return template.HTML(out), nil
}

// stripMarkdown removes markdown formatting for excerpt generation.
func stripMarkdown(md string) string {
	md = linkPattern.ReplaceAllString(md, "")
	md = htmlTagPattern.ReplaceAllString(md, "")
	md = markupPattern.ReplaceAllString(md, "")
	md = spacePattern.ReplaceAllString(md, " ")
	return strings.TrimSpace(md)
}

// GenerateExcerpt returns the plain text before MoreSeparator, or the
// first length runes of the whole body.
func GenerateExcerpt(md string, length int) string {
	excerpt := md
	if before, _, found := strings.Cut(md, MoreSeparator); found {
		excerpt = before
	}

	runes := []rune(stripMarkdown(excerpt))
	if len(runes) > length {
		return strings.TrimSpace(string(runes[:length])) + "..."
	}
	return string(runes)
}
