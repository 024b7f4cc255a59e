package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/GODLiangCY/Blog/internal/model"
)

var (
	KindHeaderAnchor = ast.NewNodeKind("HeaderAnchor")
	KindTOC          = ast.NewNodeKind("TOC")
)

// HeaderAnchor is the "#" permalink appended to a heading.
type HeaderAnchor struct {
	ast.BaseInline
	ID string
}

func (n *HeaderAnchor) Kind() ast.NodeKind { return KindHeaderAnchor }

func (n *HeaderAnchor) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"ID": n.ID}, nil)
}

// TOC replaces a [[toc]] paragraph.
type TOC struct {
	ast.BaseBlock
	Headings []model.Heading
}

func (n *TOC) Kind() ast.NodeKind { return KindTOC }

func (n *TOC) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

type nodeRenderer struct {
	highlighter CodeHighlighter
}

func (r *nodeRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindHeaderAnchor, r.renderHeaderAnchor)
	reg.Register(KindTOC, r.renderTOC)
	reg.Register(ast.KindFencedCodeBlock, r.renderFencedCodeBlock)
}

func (r *nodeRenderer) renderHeaderAnchor(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*HeaderAnchor)
	_, _ = w.WriteString(` <a class="header-anchor" href="#`)
	_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(n.ID), false)))
	_, _ = w.WriteString(`" aria-hidden="true">#</a>`)
	return ast.WalkContinue, nil
}

func (r *nodeRenderer) renderTOC(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*TOC)
	_, _ = w.WriteString(`<div class="table-of-contents">`)
	writeTOCList(w, n.Headings)
	_, _ = w.WriteString("</div>\n")
	return ast.WalkContinue, nil
}

func writeTOCList(w util.BufWriter, headings []model.Heading) {
	if len(headings) == 0 {
		return
	}
	_, _ = w.WriteString("<ul>")
	for _, h := range headings {
		_, _ = w.WriteString(`<li><a href="#`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape([]byte(h.ID), false)))
		_, _ = w.WriteString(`">`)
		_, _ = w.Write(util.EscapeHTML([]byte(h.Text)))
		_, _ = w.WriteString("</a>")
		writeTOCList(w, h.Children)
		_, _ = w.WriteString("</li>")
	}
	_, _ = w.WriteString("</ul>")
}

func (r *nodeRenderer) renderFencedCodeBlock(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ast.FencedCodeBlock)

	lang := string(n.Language(source))
	var attrs string
	if n.Info != nil {
		info := strings.TrimSpace(string(n.Info.Segment.Value(source)))
		attrs = strings.TrimSpace(strings.TrimPrefix(info, lang))
	}

	var code bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		code.Write(line.Value(source))
	}

	if r.highlighter == nil {
		_, _ = w.WriteString("<pre><code")
		if lang != "" {
			_, _ = w.WriteString(` class="language-`)
			_, _ = w.Write(util.EscapeHTML([]byte(lang)))
			_, _ = w.WriteString(`"`)
		}
		_, _ = w.WriteString(">")
		_, _ = w.Write(util.EscapeHTML(code.Bytes()))
		_, _ = w.WriteString("</code></pre>\n")
		return ast.WalkSkipChildren, nil
	}

	out, err := r.highlighter.Highlight(code.String(), lang, attrs)
	if err != nil {
		return ast.WalkStop, err
	}
	_, _ = w.WriteString(out)
	_ = w.WriteByte('\n')
	return ast.WalkSkipChildren, nil
}
