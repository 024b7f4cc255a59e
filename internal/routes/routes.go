// Package routes derives the site's route table from the pages directory.
package routes

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/GODLiangCY/Blog/internal/content"
	"github.com/GODLiangCY/Blog/internal/model"
)

type ScanConfig struct {
	PagesDir string
	PostsDir string
}

// Scan walks the pages and posts directories and returns one route per
// Markdown file, sorted by path. Each route carries the file's front
// matter in Meta. pages/foo.md maps to /foo, pages/posts/bar.md to
// /posts/bar (or /posts/<slug> when the front matter sets one) and any
// index.md to its directory.
func Scan(cfg ScanConfig) ([]model.Route, error) {
	postsBase := PostsBase(cfg.PagesDir, cfg.PostsDir)
	postsDir := filepath.Clean(cfg.PostsDir)

	var routes []model.Route
	byPath := map[string]string{}

	add := func(file string, kind model.RouteKind, pathOf func(content.FrontMatter) (string, error)) error {
		source, err := os.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", file, err)
		}
		fm, _, err := content.ParseFrontMatter(source)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		routePath, err := pathOf(fm)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		if other, ok := byPath[routePath]; ok {
			return fmt.Errorf("route %s is produced by both %s and %s", routePath, other, file)
		}
		byPath[routePath] = file
		routes = append(routes, model.Route{
			Path:   routePath,
			Source: file,
			Kind:   kind,
			Meta:   model.RouteMeta{FrontMatter: fm.Raw},
		})
		return nil
	}

	if _, err := os.Stat(cfg.PagesDir); err == nil {
		err := filepath.WalkDir(cfg.PagesDir, func(p string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return fmt.Errorf("error accessing path '%s' during walk: %w", p, walkErr)
			}
			if d.IsDir() {
				if filepath.Clean(p) == postsDir {
					return filepath.SkipDir
				}
				return nil
			}
			if !isMarkdown(d.Name()) {
				return nil
			}
			rel, err := filepath.Rel(cfg.PagesDir, p)
			if err != nil {
				return err
			}
			return add(p, model.KindPage, func(content.FrontMatter) (string, error) {
				return routePath("", rel), nil
			})
		})
		if err != nil {
			return nil, err
		}
	}

	entries, err := os.ReadDir(postsDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read posts directory '%s': %w", postsDir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !isMarkdown(entry.Name()) {
			continue
		}
		kind := model.KindPost
		if isIndex(entry.Name()) {
			kind = model.KindPostIndex
		}
		file := filepath.Join(postsDir, entry.Name())
		name := entry.Name()
		err := add(file, kind, func(fm content.FrontMatter) (string, error) {
			if kind == model.KindPostIndex {
				return routePath(postsBase, name), nil
			}
			slug, err := content.PostSlug(file, fm.Slug)
			if err != nil {
				return "", err
			}
			return path.Join("/", postsBase, slug), nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Slice(routes, func(i, j int) bool { return routes[i].Path < routes[j].Path })
	return routes, nil
}

// PostsBase is the route prefix of the posts directory: its path relative
// to the pages directory, or "posts" when it lives elsewhere.
func PostsBase(pagesDir, postsDir string) string {
	rel, err := filepath.Rel(pagesDir, postsDir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "posts"
	}
	return filepath.ToSlash(rel)
}

// OutputFile is the file a route is written to inside the output directory.
func OutputFile(outputDir, routePath string) string {
	return filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(routePath, "/")), "index.html")
}

func routePath(base, rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(rel) == "index" {
		rel = path.Dir(rel)
	}
	p := path.Join("/", base, rel)
	return p
}

func isMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

func isIndex(name string) bool {
	return strings.EqualFold(strings.TrimSuffix(name, filepath.Ext(name)), "index")
}

// Find returns the route with the given path.
func Find(routes []model.Route, p string) (model.Route, bool) {
	for _, r := range routes {
		if r.Path == p {
			return r, true
		}
	}
	return model.Route{}, false
}
