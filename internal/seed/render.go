package seed

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Renderer converts markdown bodies to HTML. It is stateless and safe for
// concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// RenderOptions toggle goldmark behaviour.
type RenderOptions struct {
	HardWraps bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
}

func NewRenderer(opts RenderOptions) *Renderer {
	engineOptions := []goldmark.Option{
		goldmark.WithExtensions(extension.GFM, extension.Linkify),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	}
	var htmlOptions []renderer.Option
	if opts.HardWraps {
		htmlOptions = append(htmlOptions, html.WithHardWraps())
	}
	if !opts.SafeMode {
		htmlOptions = append(htmlOptions, html.WithUnsafe())
	}
	if len(htmlOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(htmlOptions...))
	}
	return &Renderer{engine: goldmark.New(engineOptions...)}
}

func (r *Renderer) Render(markdown []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert(markdown, &buf); err != nil {
		return "", fmt.Errorf("markdown render: %w", err)
	}
	return buf.String(), nil
}
