package content

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/GODLiangCY/Blog/internal/model"
)

var ErrDuplicateSlug = errors.New("duplicate post slug")

// Loader reads the posts directory into Post records.
type Loader struct {
	dir       string
	baseRoute string
	drafts    bool
	logger    *slog.Logger
}

type LoaderConfig struct {
	// Dir is the posts directory.
	Dir string
	// BaseRoute is the site path posts live under, e.g. "/posts".
	BaseRoute string
	// Drafts includes posts marked draft: true.
	Drafts bool
}

func NewLoader(cfg LoaderConfig, logger *slog.Logger) *Loader {
	base := "/" + strings.Trim(cfg.BaseRoute, "/")
	if base == "/" {
		base = ""
	}
	return &Loader{
		dir:       cfg.Dir,
		baseRoute: base,
		drafts:    cfg.Drafts,
		logger:    logger,
	}
}

// LoadPosts reads every Markdown file directly inside the posts directory
// except index.md and returns them newest first. Duplicate slugs and
// malformed dates or front matter abort the load.
func (l *Loader) LoadPosts(ctx context.Context) ([]*model.Post, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read posts directory '%s': %w", l.dir, err)
	}

	var posts []*model.Post
	seen := map[string]string{}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), ".md") {
			continue
		}
		if strings.EqualFold(name, "index.md") {
			continue
		}

		path := filepath.Join(l.dir, name)
		post, err := l.LoadFile(path)
		if err != nil {
			return nil, err
		}
		if post.Draft && !l.drafts {
			l.logger.Debug("skipping draft", "path", path)
			continue
		}
		if other, ok := seen[post.Slug]; ok {
			return nil, fmt.Errorf("%w %q: %s and %s", ErrDuplicateSlug, post.Slug, other, path)
		}
		seen[post.Slug] = path
		if post.Date.IsZero() {
			l.logger.Warn("post has no date", "path", path)
		}

		posts = append(posts, post)
	}

	SortPosts(posts)
	l.logger.Debug("loaded posts", "dir", l.dir, "count", len(posts))
	return posts, nil
}

// LoadFile parses a single post file.
func (l *Loader) LoadFile(path string) (*model.Post, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file '%s': %w", path, err)
	}

	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slug, err := PostSlug(path, fm.Slug)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid slug %q: %w", path, fm.Slug, err)
	}

	title := fm.Title
	if title == "" {
		title = TitleFromFile(path)
	}

	return &model.Post{
		Title:       title,
		Date:        fm.Date,
		Tags:        fm.Tags,
		Description: fm.Description,
		Lang:        fm.Lang,
		Duration:    fm.Duration,
		Draft:       fm.Draft,
		Slug:        slug,
		Link:        l.baseRoute + "/" + slug,
		SourcePath:  path,
		Body:        body,
		FrontMatter: fm.Raw,
	}, nil
}

// TitleFromFile derives a title from a file name: "my-first_post.md"
// becomes "My First Post".
func TitleFromFile(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(strings.ReplaceAll(name, "-", " "), "_", " ")
	return cases.Title(language.English).String(name)
}

// SortPosts orders posts by date descending. Undated posts go last,
// ties are broken by slug.
func SortPosts(posts []*model.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		switch {
		case a.Date.IsZero() && !b.Date.IsZero():
			return false
		case !a.Date.IsZero() && b.Date.IsZero():
			return true
		case !a.Date.Equal(b.Date):
			return a.Date.After(b.Date)
		}
		return a.Slug < b.Slug
	})
}

// GroupByTag collects posts per tag. Groups are sorted by name and keep
// the order of posts.
func GroupByTag(posts []*model.Post) []model.TagGroup {
	index := map[string]int{}
	var groups []model.TagGroup
	for _, post := range posts {
		for _, tag := range post.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(groups)
				index[tag] = i
				groups = append(groups, model.TagGroup{Name: tag})
			}
			groups[i].Posts = append(groups[i].Posts, post)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}
