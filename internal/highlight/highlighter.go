package highlight

import (
	"fmt"
	"html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

var plainLanguages = map[string]bool{
	"":          true,
	"text":      true,
	"txt":       true,
	"plain":     true,
	"plaintext": true,
}

// Highlighter turns code into <pre class="shiki"> blocks, one
// <span class="line"> per source line with inline token colors.
type Highlighter struct {
	themes    map[string]*chroma.Style
	themeList []string
	// langs is nil when every language chroma knows is allowed.
	langs map[string]bool
}

// NewHighlighter loads the named themes and languages. An unknown theme or
// language is an error. An empty langs list allows every language.
func NewHighlighter(themes, langs []string) (*Highlighter, error) {
	if len(themes) == 0 {
		return nil, fmt.Errorf("%w: no themes given", ErrUnknownTheme)
	}

	h := &Highlighter{themes: map[string]*chroma.Style{}}
	for _, name := range themes {
		key := strings.ToLower(strings.TrimSpace(name))
		style, ok := styles.Registry[key]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
		}
		if _, dup := h.themes[key]; !dup {
			h.themeList = append(h.themeList, key)
		}
		h.themes[key] = style
	}

	if len(langs) > 0 {
		h.langs = map[string]bool{}
		for _, name := range langs {
			lexer := lexers.Get(strings.ToLower(strings.TrimSpace(name)))
			if lexer == nil {
				return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
			}
			h.langs[lexer.Config().Name] = true
		}
	}
	return h, nil
}

// CodeToHTML highlights code in lang with theme. lines lists 1-based line
// numbers that get the "highlighted" class. An empty theme selects the
// first loaded one.
func (h *Highlighter) CodeToHTML(code, lang, theme string, lines []int) (string, error) {
	style, err := h.style(theme)
	if err != nil {
		return "", err
	}

	code = strings.TrimSuffix(code, "\n")

	var tokens [][]chroma.Token
	if plainLanguages[strings.ToLower(lang)] {
		for _, line := range strings.Split(code, "\n") {
			tokens = append(tokens, []chroma.Token{{Type: chroma.Text, Value: line}})
		}
	} else {
		lexer, err := h.lexer(lang)
		if err != nil {
			return "", err
		}
		it, err := lexer.Tokenise(nil, code)
		if err != nil {
			return "", fmt.Errorf("tokenise %s: %w", lang, err)
		}
		tokens = chroma.SplitTokensIntoLines(it.Tokens())
		// lexers append a final newline, which splits into an extra empty line
		if want := strings.Count(code, "\n") + 1; len(tokens) > want {
			tokens = tokens[:want]
		}
	}

	return formatLines(style, tokens, lineSet(lines)), nil
}

func (h *Highlighter) style(theme string) (*chroma.Style, error) {
	if theme == "" {
		return h.themes[h.themeList[0]], nil
	}
	style, ok := h.themes[strings.ToLower(theme)]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not loaded", ErrUnknownTheme, theme)
	}
	return style, nil
}

func (h *Highlighter) lexer(lang string) (chroma.Lexer, error) {
	lexer := lexers.Get(strings.ToLower(lang))
	if lexer == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	if h.langs != nil && !h.langs[lexer.Config().Name] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, lang)
	}
	return chroma.Coalesce(lexer), nil
}

func lineSet(lines []int) map[int]bool {
	set := make(map[int]bool, len(lines))
	for _, l := range lines {
		set[l] = true
	}
	return set
}

func formatLines(style *chroma.Style, lines [][]chroma.Token, highlighted map[int]bool) string {
	var b strings.Builder

	bg := style.Get(chroma.Background)
	b.WriteString(`<pre class="shiki"`)
	if bg.Background.IsSet() {
		fmt.Fprintf(&b, ` style="background-color: %s"`, bg.Background.String())
	}
	b.WriteString(` tabindex="0"><code>`)

	for i, line := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if highlighted[i+1] {
			b.WriteString(`<span class="line highlighted">`)
		} else {
			b.WriteString(`<span class="line">`)
		}
		for _, tok := range line {
			value := strings.TrimRight(tok.Value, "\n")
			if value == "" {
				continue
			}
			css := tokenCSS(style.Get(tok.Type))
			if css == "" {
				b.WriteString(html.EscapeString(value))
				continue
			}
			fmt.Fprintf(&b, `<span style="%s">%s</span>`, css, html.EscapeString(value))
		}
		b.WriteString(`</span>`)
	}

	b.WriteString(`</code></pre>`)
	return b.String()
}

func tokenCSS(entry chroma.StyleEntry) string {
	var parts []string
	if entry.Colour.IsSet() {
		parts = append(parts, "color: "+entry.Colour.String())
	}
	if entry.Italic == chroma.Yes {
		parts = append(parts, "font-style: italic")
	}
	if entry.Bold == chroma.Yes {
		parts = append(parts, "font-weight: bold")
	}
	if entry.Underline == chroma.Yes {
		parts = append(parts, "text-decoration: underline")
	}
	return strings.Join(parts, "; ")
}
