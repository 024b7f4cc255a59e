// Package scaffold creates new post files.
package scaffold

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/GODLiangCY/Blog/internal/content"
)

var ErrPostExists = errors.New("post already exists")

// PostOptions describes the post to create.
type PostOptions struct {
	Title       string
	Tags        []string
	Description string
	Draft       bool
	Now         time.Time
}

// NewPost writes <dir>/<slug>.md with front matter for opts and returns its
// path. An existing file is never overwritten.
func NewPost(dir string, opts PostOptions) (string, error) {
	if opts.Title == "" {
		return "", errors.New("post title must not be empty")
	}
	slug, err := content.PostSlug(opts.Title+".md", opts.Title)
	if err != nil || slug == "" {
		slug = content.Slugify(opts.Title)
	}
	if slug == "" {
		return "", fmt.Errorf("cannot derive a file name from title %q", opts.Title)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	fm := yaml.MapSlice{
		{Key: "title", Value: opts.Title},
		{Key: "date", Value: now.Format("2006-01-02 15:04:05")},
	}
	if len(opts.Tags) > 0 {
		fm = append(fm, yaml.MapItem{Key: "tags", Value: opts.Tags})
	}
	if opts.Description != "" {
		fm = append(fm, yaml.MapItem{Key: "description", Value: opts.Description})
	}
	if opts.Draft {
		fm = append(fm, yaml.MapItem{Key: "draft", Value: true})
	}

	data, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("error marshalling front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(data)
	buf.WriteString("---\n\n")
	buf.WriteString("[[toc]]\n\n")

	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create posts directory '%s': %w", dir, err)
	}
	path := filepath.Join(dir, slug+".md")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("%w: %s", ErrPostExists, path)
		}
		return "", fmt.Errorf("failed to create post '%s': %w", path, err)
	}
	if _, err := buf.WriteTo(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write post '%s': %w", path, err)
	}
	return path, f.Close()
}
