// Package markdown converts markdown sources to HTML and derives the metadata
// a build needs from them: the title, the excerpt and optional front matter.
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

// Renderer turns a markdown document into an HTML fragment.
type Renderer interface {
	Render(src []byte) ([]byte, error)
}

// Goldmark is a Renderer backed by goldmark with GitHub flavoured markdown
// enabled. Raw HTML in the source is passed through. A single value is safe
// for concurrent use.
type Goldmark struct {
	md goldmark.Markdown
}

// Option configures a Goldmark renderer.
type Option func(*options)

type options struct {
	hardWraps bool
	safe      bool
}

// WithHardWraps renders single newlines as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// WithSafeMode drops raw HTML from the source instead of passing it through.
func WithSafeMode() Option {
	return func(o *options) { o.safe = true }
}

// New returns a goldmark backed Renderer.
func New(opts ...Option) *Goldmark {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	rendererOptions := []renderer.Option{}
	if o.hardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !o.safe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return &Goldmark{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Render converts src to HTML.
func (g *Goldmark) Render(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.md.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
