package markdown

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GODLiangCY/Blog/internal/model"
)

type stubHighlighter struct {
	calls []string
	err   error
}

func (s *stubHighlighter) Highlight(code, lang, attrs string) (string, error) {
	s.calls = append(s.calls, lang+"|"+attrs+"|"+code)
	if s.err != nil {
		return "", s.err
	}
	return `<div class="shiki-container">` + lang + `</div>`, nil
}

func TestRender_HeadingAnchors(t *testing.T) {
	r := New(DefaultOptions())

	res, err := r.Render([]byte("# Hello World\n\n## Hello World\n"))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `<h1 id="hello-world" tabindex="-1">Hello World <a class="header-anchor" href="#hello-world" aria-hidden="true">#</a></h1>`)
	assert.Contains(t, res.HTML, `<h2 id="hello-world-1"`)
}

func TestRender_HeadingIDsUseText(t *testing.T) {
	src := "[[toc]]\n\n## See [the docs](https://example.com/a)\n\n## <span>raw</span> html\n\n## `code` span\n"

	res, err := New(DefaultOptions()).Render([]byte(src))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `<h2 id="see-the-docs"`)
	assert.Contains(t, res.HTML, `<h2 id="raw-html"`)
	assert.Contains(t, res.HTML, `<h2 id="code-span"`)
	assert.Contains(t, res.HTML, `<a href="#see-the-docs">See the docs</a>`)
	assert.NotContains(t, res.HTML, "https-example-com")
	assert.NotContains(t, res.HTML, "span-raw")

	require.Len(t, res.TOC, 3)
	assert.Equal(t, "see-the-docs", res.TOC[0].ID)
	assert.Equal(t, "raw-html", res.TOC[1].ID)
}

func TestRender_NoAnchorsInFeedMode(t *testing.T) {
	res, err := New(FeedOptions()).Render([]byte("# Title\n\nline one\nline two\n"))
	require.NoError(t, err)

	assert.NotContains(t, res.HTML, "header-anchor")
	assert.Contains(t, res.HTML, "line one<br>")
	assert.Empty(t, res.TOC)
}

func TestRender_ExternalLinks(t *testing.T) {
	r := New(DefaultOptions())

	res, err := r.Render([]byte("[out](https://vuejs.org) [in](/posts/a) see https://vitejs.dev\n"))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `<a href="https://vuejs.org" target="_blank" rel="noopener">out</a>`)
	assert.Contains(t, res.HTML, `<a href="/posts/a">in</a>`)
	assert.Contains(t, res.HTML, `href="https://vitejs.dev" target="_blank" rel="noopener"`)
}

func TestRender_TOC(t *testing.T) {
	src := "[[toc]]\n\n# Intro\n\n## Setup\n\n### Install\n\n#### Too deep\n\n## Usage\n"

	res, err := New(DefaultOptions()).Render([]byte(src))
	require.NoError(t, err)

	want := `<div class="table-of-contents"><ul><li><a href="#intro">Intro</a><ul>` +
		`<li><a href="#setup">Setup</a><ul><li><a href="#install">Install</a></li></ul></li>` +
		`<li><a href="#usage">Usage</a></li></ul></li></ul></div>`
	assert.Contains(t, res.HTML, want)
	assert.NotContains(t, res.HTML, "[[toc]]")

	require.Len(t, res.TOC, 1)
	assert.Equal(t, "intro", res.TOC[0].ID)
	require.Len(t, res.TOC[0].Children, 2)
	assert.Equal(t, "Install", res.TOC[0].Children[0].Children[0].Text)
}

func TestRender_TOCDisabled(t *testing.T) {
	opts := DefaultOptions()
	opts.TOCLevels = nil

	res, err := New(opts).Render([]byte("[[toc]]\n\n# A\n"))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, "[[toc]]")
}

func TestRender_CodeBlockUsesHighlighter(t *testing.T) {
	stub := &stubHighlighter{}
	opts := DefaultOptions()
	opts.Highlighter = stub

	res, err := New(opts).Render([]byte("```ts {2,4-5}\nconst a = 1\n```\n"))
	require.NoError(t, err)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, "ts|{2,4-5}|const a = 1\n", stub.calls[0])
	assert.Contains(t, res.HTML, `<div class="shiki-container">ts</div>`)
}

func TestRender_CodeBlockHighlighterError(t *testing.T) {
	opts := DefaultOptions()
	opts.Highlighter = &stubHighlighter{err: errors.New("language not loaded")}

	_, err := New(opts).Render([]byte("```cobol\nDISPLAY 'HI'.\n```\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "language not loaded")
}

func TestRender_CodeBlockWithoutHighlighter(t *testing.T) {
	res, err := New(FeedOptions()).Render([]byte("```go\nif a < b {}\n```\n"))
	require.NoError(t, err)

	assert.Contains(t, res.HTML, `<pre><code class="language-go">if a &lt; b {}`)
}

func TestRender_RawHTML(t *testing.T) {
	res, err := New(DefaultOptions()).Render([]byte("<div class=\"note\">hi</div>\n"))
	require.NoError(t, err)
	assert.Contains(t, res.HTML, `<div class="note">hi</div>`)
}

func TestNest(t *testing.T) {
	flat := []model.Heading{
		{Level: 2, ID: "a"},
		{Level: 3, ID: "b"},
		{Level: 3, ID: "c"},
		{Level: 1, ID: "d"},
		{Level: 3, ID: "e"},
	}

	got := nest(flat)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	require.Len(t, got[0].Children, 2)
	assert.Equal(t, "c", got[0].Children[1].ID)
	assert.Equal(t, "d", got[1].ID)
	require.Len(t, got[1].Children, 1)
	assert.Equal(t, "e", got[1].Children[0].ID)
}

func TestIDs_NonASCII(t *testing.T) {
	res, err := New(DefaultOptions()).Render([]byte("## 你好 世界\n"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(res.HTML, `id="你好-世界"`), res.HTML)
}
