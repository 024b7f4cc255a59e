// Package markdown converts post bodies to HTML with heading anchors, a
// [[toc]] table of contents, external link attributes and highlighted
// code blocks.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/GODLiangCY/Blog/internal/model"
)

// CodeHighlighter renders a fenced code block. attrs is the info string
// after the language, e.g. "{1,3-5}".
type CodeHighlighter interface {
	Highlight(code, lang, attrs string) (string, error)
}

type Options struct {
	Highlighter CodeHighlighter
	// TOCLevels lists heading levels included in [[toc]]. Empty disables
	// the table of contents.
	TOCLevels     []int
	Anchors       bool
	ExternalLinks bool
	HardWraps     bool
}

// DefaultOptions matches how posts are rendered on the site.
func DefaultOptions() Options {
	return Options{
		TOCLevels:     []int{1, 2, 3},
		Anchors:       true,
		ExternalLinks: true,
	}
}

// FeedOptions renders bodies for feed readers: hard line breaks, no
// anchors and plain code blocks.
func FeedOptions() Options {
	return Options{HardWraps: true}
}

type Result struct {
	HTML string
	TOC  []model.Heading
}

// Renderer is safe for concurrent use when its CodeHighlighter is.
type Renderer struct {
	md goldmark.Markdown
}

func New(opts Options) *Renderer {
	rendererOptions := []renderer.Option{
		html.WithUnsafe(),
		renderer.WithNodeRenderers(
			util.Prioritized(&nodeRenderer{highlighter: opts.Highlighter}, 200),
		),
	}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(
				util.Prioritized(&transformer{
					levels:        levelSet(opts.TOCLevels),
					anchors:       opts.Anchors,
					externalLinks: opts.ExternalLinks,
				}, 100),
			),
		),
		goldmark.WithRendererOptions(rendererOptions...),
	)
	return &Renderer{md: md}
}

// Render converts source to HTML. Errors from the code highlighter abort
// the conversion.
func (r *Renderer) Render(source []byte) (Result, error) {
	pc := parser.NewContext(parser.WithIDs(newIDs()))

	var buf bytes.Buffer
	if err := r.md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return Result{}, fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}

	toc, _ := pc.Get(tocKey).([]model.Heading)
	return Result{HTML: buf.String(), TOC: toc}, nil
}

func levelSet(levels []int) map[int]bool {
	set := make(map[int]bool, len(levels))
	for _, l := range levels {
		set[l] = true
	}
	return set
}
