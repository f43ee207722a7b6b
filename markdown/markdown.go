// Package markdown converts post sources to sanitized HTML and exposes the
// result as a templ component.
package markdown

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Converter turns markdown into HTML that is safe to embed without escaping.
// It is safe for concurrent use.
type Converter struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
	style  string
}

// Option configures a Converter.
type Option func(*options)

type options struct {
	style     string
	hardWraps bool
}

// WithStyle sets the chroma style name used for fenced code blocks.
func WithStyle(name string) Option {
	return func(o *options) { o.style = name }
}

// WithHardWraps renders single newlines inside paragraphs as <br>.
func WithHardWraps() Option {
	return func(o *options) { o.hardWraps = true }
}

// New builds a Converter with GFM, typographer, heading IDs and class-based
// syntax highlighting.
func New(opts ...Option) *Converter {
	o := options{style: "github"}
	for _, opt := range opts {
		opt(&o)
	}

	htmlOpts := []renderer.Option{html.WithUnsafe()}
	if o.hardWraps {
		htmlOpts = append(htmlOpts, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Typographer,
			highlighting.NewHighlighting(
				highlighting.WithStyle(o.style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(htmlOpts...),
	)

	return &Converter{md: md, policy: newPolicy(), style: o.style}
}

// Raw HTML in posts is allowed through goldmark and then cleaned by the
// policy, so embeds authors rely on (iframes excluded) survive.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("loading", "decoding").OnElements("img")
	p.AllowElements("figure", "figcaption")
	p.RequireNoFollowOnLinks(false)
	return p
}

// ToHTML converts markdown source to sanitized HTML.
func (c *Converter) ToHTML(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", err
	}
	return c.policy.Sanitize(buf.String()), nil
}

// Sanitize cleans an HTML fragment with the same policy ToHTML uses.
func (c *Converter) Sanitize(fragment string) string {
	return c.policy.Sanitize(fragment)
}

// WriteCSS writes the stylesheet for the chroma classes emitted in code blocks.
func (c *Converter) WriteCSS(w io.Writer) error {
	return chromahtml.New(chromahtml.WithClasses(true)).WriteCSS(w, styles.Get(c.style))
}

// HTML returns a templ.Component that writes trusted HTML verbatim.
// Only pass output of ToHTML or Sanitize.
func HTML(trusted string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, trusted)
		return err
	})
}
