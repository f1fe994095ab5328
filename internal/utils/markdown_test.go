package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown_GFM(t *testing.T) {
	md := strings.Join([]string{
		"# Title",
		"",
		"| a | b |",
		"|---|---|",
		"| 1 | 2 |",
		"",
		"~~gone~~ and https://example.com",
		"",
		"- [x] done",
		"- [ ] todo",
	}, "\n")

	out, err := RenderMarkdown([]byte(md))
	require.NoError(t, err)

	html := string(out)
	assert.Contains(t, html, `<h1 id="title">Title</h1>`)
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "<del>gone</del>")
	assert.Contains(t, html, `<a href="https://example.com">https://example.com</a>`)
	assert.Contains(t, html, `type="checkbox"`)
}

func TestRenderMarkdown_RawHTMLPassesThrough(t *testing.T) {
	out, err := RenderMarkdown([]byte("before\n\n<div class=\"note\">kept</div>\n\nafter " + MoreSeparator))
	require.NoError(t, err)

	assert.Contains(t, string(out), `<div class="note">kept</div>`)
	assert.NotContains(t, string(out), MoreSeparator)
}

func TestMinifyHTML(t *testing.T) {
	out, err := MinifyHTML("<p>\n    hello   world\n</p>\n\n<p>again</p>")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\n")
	assert.Contains(t, string(out), "hello world")
	assert.Contains(t, string(out), "<p>again</p>")
}

func TestGenerateExcerpt(t *testing.T) {
	assert.Equal(t, "Intro text", GenerateExcerpt("**Intro** text\n"+MoreSeparator+"\nrest", 150))
	assert.Equal(t, "abcde...", GenerateExcerpt("abcdefgh", 5))
	assert.Equal(t, "see", GenerateExcerpt("see [a link](http://x)", 150))
	assert.Equal(t, "中文摘要...", GenerateExcerpt("中文摘要测试", 4))
}
