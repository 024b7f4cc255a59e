package highlight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GODLiangCY/Blog/internal/logging"
)

type recordingCaller struct {
	requests []Request
	fail     error
}

func (c *recordingCaller) Call(_ context.Context, req Request) (Response, error) {
	c.requests = append(c.requests, req)
	if c.fail != nil {
		return Response{}, c.fail
	}
	if req.Command != CommandCodeToHTML {
		return Response{}, nil
	}
	line := `<span class="line">x</span>`
	if len(req.LineOptions) > 0 {
		line = `<span class="line highlighted">x</span>`
	}
	return Response{HTML: `<pre class="shiki" data-theme="` + req.Theme + `"><code>` + line + `</code></pre>`}, nil
}

func TestNewPlugin_LoadsBothThemes(t *testing.T) {
	caller := &recordingCaller{}
	_, err := NewPlugin(context.Background(), caller, Options{DarkTheme: "github-dark", LightTheme: "github", Langs: []string{"go"}})
	require.NoError(t, err)

	require.Len(t, caller.requests, 1)
	assert.Equal(t, CommandGetHighlighter, caller.requests[0].Command)
	assert.Equal(t, []string{"github-dark", "github"}, caller.requests[0].Themes)
	assert.Equal(t, []string{"go"}, caller.requests[0].Langs)
}

func TestNewPlugin_Error(t *testing.T) {
	_, err := NewPlugin(context.Background(), &recordingCaller{fail: ErrUnknownTheme}, Options{DarkTheme: "a", LightTheme: "b"})
	assert.ErrorIs(t, err, ErrUnknownTheme)
}

func TestPlugin_SimpleBlock(t *testing.T) {
	caller := &recordingCaller{}
	p, err := NewPlugin(context.Background(), caller, Options{DarkTheme: "dark", LightTheme: "light"})
	require.NoError(t, err)

	out, err := p.Render(context.Background(), "x", "go", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<div class="shiki-container"><pre class="shiki shiki-dark" data-theme="dark">`), out)
	assert.Contains(t, out, `<pre class="shiki shiki-light" data-theme="light">`)
	assert.True(t, strings.HasSuffix(out, `</div>`))
	assert.Nil(t, caller.requests[1].LineOptions)
}

func TestPlugin_HighlightedLines(t *testing.T) {
	caller := &recordingCaller{}
	p, err := NewPlugin(context.Background(), caller, Options{DarkTheme: "dark", LightTheme: "light"})
	require.NoError(t, err)

	out, err := p.Render(context.Background(), "x", "js", "{1, 3-4}")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 3, 4}, caller.requests[1].LineOptions)
	assert.Contains(t, out, `<span class="line highlighted-dark">`)
	assert.Contains(t, out, `<span class="line highlighted-light">`)
	assert.NotContains(t, out, `<span class="line highlighted">`)
}

func TestPlugin_PropagatesErrors(t *testing.T) {
	caller := &recordingCaller{}
	p, err := NewPlugin(context.Background(), caller, Options{DarkTheme: "dark", LightTheme: "light"})
	require.NoError(t, err)

	caller.fail = errors.New("boom")
	_, err = p.Render(context.Background(), "x", "go", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestPlugin_EndToEnd(t *testing.T) {
	b := NewInline(context.Background(), logging.Discard())
	defer b.Close()

	p, err := NewPlugin(context.Background(), b, Options{DarkTheme: "github-dark", LightTheme: "github"})
	require.NoError(t, err)

	out, err := p.Render(context.Background(), "let a = 1\nlet b = 2\n", "js", "{2}")
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(out, "highlighted-dark"))
	assert.Equal(t, 1, strings.Count(out, "highlighted-light"))

	_, err = p.Render(context.Background(), "x", "nope-lang", "")
	assert.ErrorIs(t, err, ErrUnknownLanguage)
}
