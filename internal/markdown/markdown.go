// Package markdown renders Markdown bodies (frontmatter already removed) to HTML fragments.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls the renderer configuration.
//
// The zero value gives the site defaults: no <br> on single line breaks and
// raw HTML passed through untouched.
type Options struct {
	HardWraps  bool
	EscapeHTML bool
}

// Renderer converts Markdown to HTML using goldmark with GitHub Flavored
// Markdown extensions (tables, strikethrough, autolinks, task lists) and
// automatic heading IDs.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer returns a Renderer configured with opts.
func NewRenderer(opts Options) *Renderer {
	var htmlOpts []renderer.Option
	if opts.HardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}
	if !opts.EscapeHTML {
		htmlOpts = append(htmlOpts, html.WithUnsafe())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlOpts...),
	)
	return &Renderer{md: md}
}

// Render converts body to an HTML fragment.
func (r *Renderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}
