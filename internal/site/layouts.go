package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/GODLiangCY/Blog/internal/config"
	"github.com/GODLiangCY/Blog/internal/content"
)

const (
	baseLayout  = "base.html"
	partialsDir = "partials"
	pageLayout  = "page.html"
	postLayout  = "post.html"
	postsLayout = "posts.html"
	homeLayout  = "home.html"
	dateLayout  = "Jan 2, 2006"
)

//go:embed layouts
var embeddedLayouts embed.FS

// Layouts holds one template set per page layout. Each set is the base
// layout plus every partial plus the layout itself, so layouts can all
// define "main" without clobbering each other.
type Layouts struct {
	sets map[string]*template.Template
}

// LoadLayouts parses the built-in layouts, letting files in dir replace
// them by relative name. A missing dir is not an error.
func LoadLayouts(cfg *config.Config, dir string) (*Layouts, error) {
	sources := map[string]string{}

	err := fs.WalkDir(embeddedLayouts, "layouts", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := embeddedLayouts.ReadFile(p)
		if err != nil {
			return err
		}
		sources[strings.TrimPrefix(p, "layouts/")] = string(data)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in layouts: %w", err)
	}

	if dir != "" {
		if _, statErr := os.Stat(dir); statErr == nil {
			err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") {
					return nil
				}
				rel, err := filepath.Rel(dir, p)
				if err != nil {
					return err
				}
				data, err := os.ReadFile(p)
				if err != nil {
					return fmt.Errorf("failed to read layout '%s': %w", p, err)
				}
				sources[filepath.ToSlash(rel)] = string(data)
				return nil
			})
			if err != nil {
				return nil, fmt.Errorf("failed to find layout files in '%s': %w", dir, err)
			}
		}
	}

	return parseLayouts(sources, funcMap(cfg))
}

func parseLayouts(sources map[string]string, funcs template.FuncMap) (*Layouts, error) {
	baseSource, ok := sources[baseLayout]
	if !ok {
		return nil, fmt.Errorf("%s not found in layouts", baseLayout)
	}

	var partials, pages []string
	for name := range sources {
		switch {
		case name == baseLayout:
		case path.Dir(name) == partialsDir:
			partials = append(partials, name)
		case path.Dir(name) == ".":
			pages = append(pages, name)
		}
	}
	sort.Strings(partials)
	sort.Strings(pages)

	base, err := template.New(baseLayout).Funcs(funcs).Parse(baseSource)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", baseLayout, err)
	}
	for _, name := range partials {
		if _, err := base.New(name).Parse(sources[name]); err != nil {
			return nil, fmt.Errorf("failed to parse partial %s: %w", name, err)
		}
	}

	l := &Layouts{sets: map[string]*template.Template{}}
	for _, name := range pages {
		set, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("failed to clone base layout for %s: %w", name, err)
		}
		if _, err := set.New(name).Parse(sources[name]); err != nil {
			return nil, fmt.Errorf("failed to parse layout %s: %w", name, err)
		}
		l.sets[name] = set
	}
	return l, nil
}

// Has reports whether a layout with the given file name exists.
func (l *Layouts) Has(name string) bool {
	_, ok := l.sets[layoutFile(name)]
	return ok
}

// Execute renders data with the named layout wrapped in the base layout.
func (l *Layouts) Execute(w io.Writer, name string, data any) error {
	set, ok := l.sets[layoutFile(name)]
	if !ok {
		return fmt.Errorf("layout %q not found", name)
	}
	var buf bytes.Buffer
	if err := set.ExecuteTemplate(&buf, baseLayout, data); err != nil {
		return fmt.Errorf("failed to execute layout '%s': %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// layoutFile lets front matter say "post" for "post.html".
func layoutFile(name string) string {
	if !strings.HasSuffix(name, ".html") {
		return name + ".html"
	}
	return name
}

func funcMap(cfg *config.Config) template.FuncMap {
	return template.FuncMap{
		"absURL":  cfg.AbsURL,
		"slugify": content.Slugify,
		"formatDate": func(t time.Time) string {
			return t.Format(dateLayout)
		},
		"isoDate": func(t time.Time) string {
			return t.Format(time.RFC3339)
		},
	}
}
