package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/GODLiangCY/Blog/internal/model"
)

var (
	tocKey         = parser.NewContextKey()
	tocMarker      = regexp.MustCompile(`(?i)^\[\[toc\]\]$`)
	externalLinkRE = regexp.MustCompile(`^https?://`)
)

type transformer struct {
	levels        map[int]bool
	anchors       bool
	externalLinks bool
}

func (t *transformer) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()

	var flat []model.Heading
	var tocParagraphs []ast.Node

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			// ids come from the heading's text, not its raw Markdown, so
			// link targets and HTML tags stay out of anchors.
			text := nodeText(node, source)
			var idStr string
			if id, ok := node.AttributeString("id"); ok {
				idStr = string(id.([]byte))
			} else {
				idStr = string(pc.IDs().Generate([]byte(text), ast.KindHeading))
				node.SetAttributeString("id", []byte(idStr))
			}
			if t.levels[node.Level] {
				flat = append(flat, model.Heading{
					Level: node.Level,
					ID:    idStr,
					Text:  text,
				})
			}
			if t.anchors {
				node.SetAttributeString("tabindex", []byte("-1"))
				node.AppendChild(node, &HeaderAnchor{ID: idStr})
			}
			return ast.WalkSkipChildren, nil
		case *ast.Paragraph:
			if len(t.levels) > 0 && tocMarker.Match(bytes.TrimSpace(node.Lines().Value(source))) {
				tocParagraphs = append(tocParagraphs, node)
			}
			return ast.WalkContinue, nil
		case *ast.Link:
			if t.externalLinks && externalLinkRE.Match(node.Destination) {
				markExternal(node)
			}
		case *ast.AutoLink:
			if t.externalLinks && externalLinkRE.Match(node.URL(source)) {
				markExternal(node)
			}
		}
		return ast.WalkContinue, nil
	})

	toc := nest(flat)
	for _, p := range tocParagraphs {
		p.Parent().ReplaceChild(p.Parent(), p, &TOC{Headings: toc})
	}
	pc.Set(tocKey, toc)
}

func markExternal(n ast.Node) {
	n.SetAttributeString("target", []byte("_blank"))
	n.SetAttributeString("rel", []byte("noopener"))
}

// nodeText concatenates the text under n.
func nodeText(n ast.Node, source []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// nest turns a flat, document-ordered heading list into a tree. A heading
// becomes a child of the closest preceding heading with a lower level.
func nest(flat []model.Heading) []model.Heading {
	var root []model.Heading
	// path holds pointers to the open ancestors, outermost first.
	var path []*model.Heading

	for _, h := range flat {
		for len(path) > 0 && path[len(path)-1].Level >= h.Level {
			path = path[:len(path)-1]
		}
		if len(path) == 0 {
			root = append(root, h)
			path = append(path, &root[len(root)-1])
			continue
		}
		parent := path[len(path)-1]
		parent.Children = append(parent.Children, h)
		path = append(path, &parent.Children[len(parent.Children)-1])
	}
	return root
}
