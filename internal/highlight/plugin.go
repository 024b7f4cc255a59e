package highlight

import (
	"context"
	"fmt"
	"strings"
)

type Options struct {
	DarkTheme  string
	LightTheme string
	Langs      []string
}

// Plugin renders fenced code blocks twice, once per theme, so the page can
// switch between them with CSS.
type Plugin struct {
	caller Caller
	dark   string
	light  string
}

// NewPlugin loads the highlighter in the worker behind caller.
func NewPlugin(ctx context.Context, caller Caller, opts Options) (*Plugin, error) {
	_, err := caller.Call(ctx, Request{
		Command: CommandGetHighlighter,
		Themes:  []string{opts.DarkTheme, opts.LightTheme},
		Langs:   opts.Langs,
	})
	if err != nil {
		return nil, err
	}
	return &Plugin{caller: caller, dark: opts.DarkTheme, light: opts.LightTheme}, nil
}

// Render highlights code for a fence with the given language and info
// attributes. Attributes like "{1,3-5}" mark highlighted lines.
func (p *Plugin) Render(ctx context.Context, code, lang, attrs string) (string, error) {
	lines := ParseLineOptions(attrs)

	dark, err := p.codeToHTML(ctx, code, lang, p.dark, lines)
	if err != nil {
		return "", err
	}
	light, err := p.codeToHTML(ctx, code, lang, p.light, lines)
	if err != nil {
		return "", err
	}

	dark = strings.Replace(dark, `<pre class="shiki"`, `<pre class="shiki shiki-dark"`, 1)
	light = strings.Replace(light, `<pre class="shiki"`, `<pre class="shiki shiki-light"`, 1)
	if len(lines) > 0 {
		dark = strings.ReplaceAll(dark, `<span class="line highlighted"`, `<span class="line highlighted-dark"`)
		light = strings.ReplaceAll(light, `<span class="line highlighted"`, `<span class="line highlighted-light"`)
	}

	return `<div class="shiki-container">` + dark + light + `</div>`, nil
}

func (p *Plugin) codeToHTML(ctx context.Context, code, lang, theme string, lines []int) (string, error) {
	resp, err := p.caller.Call(ctx, Request{
		Command:     CommandCodeToHTML,
		Code:        code,
		Lang:        lang,
		Theme:       theme,
		LineOptions: lines,
	})
	if err != nil {
		return "", fmt.Errorf("highlight %q block: %w", lang, err)
	}
	return resp.HTML, nil
}
