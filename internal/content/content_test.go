package content

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GODLiangCY/Blog/internal/logging"
	"github.com/GODLiangCY/Blog/internal/model"
)

func writePost(t *testing.T, dir, name, data string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
}

func TestParseFrontMatter(t *testing.T) {
	src := []byte(`---
title: Hello Vite
date: 2022-05-01
tags:
  - vite
  - vue
description: first post
lang: zh
duration: 5min
---

# Hello

body text
`)

	fm, body, err := ParseFrontMatter(src)
	require.NoError(t, err)

	assert.Equal(t, "Hello Vite", fm.Title)
	assert.True(t, fm.HasDate)
	assert.Equal(t, time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC), fm.Date)
	assert.Equal(t, []string{"vite", "vue"}, fm.Tags)
	assert.Equal(t, "first post", fm.Description)
	assert.Equal(t, "zh", fm.Lang)
	assert.Equal(t, "5min", fm.Duration)
	assert.Contains(t, string(body), "# Hello")
	assert.Equal(t, "Hello Vite", fm.Raw["title"])
}

func TestParseFrontMatter_TagString(t *testing.T) {
	fm, _, err := ParseFrontMatter([]byte("---\ntags: go, rust ,\n---\nbody\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, fm.Tags)
}

func TestParseFrontMatter_NoFrontMatter(t *testing.T) {
	fm, body, err := ParseFrontMatter([]byte("# Just markdown\n"))
	require.NoError(t, err)

	assert.Empty(t, fm.Title)
	assert.False(t, fm.HasDate)
	assert.Equal(t, "# Just markdown\n", string(body))
}

func TestParseFrontMatter_BadDate(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ndate: yesterday\n---\nbody\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidDate))
}

func TestParseFrontMatter_Malformed(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ntitle: [unclosed\n---\nbody\n"))
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2022-05-01", time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)},
		{"2022-05-01 08:30:00", time.Date(2022, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"2022-05-01T08:30:00Z", time.Date(2022, 5, 1, 8, 30, 0, 0, time.UTC)},
		{"May 1, 2022", time.Date(2022, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseDate("01/05/2022")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Hello World":             "hello-world",
		"What's new in Go 1.22?":  "what-s-new-in-go-1-22",
		"1. Intro":                "_1-intro",
		"你好 世界":                   "你好-世界",
		"  --Foo--  ":             "foo",
		"snake_case and (parens)": "snake-case-and-parens",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "Slugify(%q)", in)
	}
}

func TestPostSlug(t *testing.T) {
	got, err := PostSlug("pages/posts/hello-vite.md", "")
	require.NoError(t, err)
	assert.Equal(t, "hello-vite", got)

	got, err = PostSlug("pages/posts/hello-vite.md", "custom-slug")
	require.NoError(t, err)
	assert.Equal(t, "custom-slug", got)
}

func TestTitleFromFile(t *testing.T) {
	assert.Equal(t, "My First Post", TitleFromFile("pages/posts/my-first_post.md"))
}

func TestLoader_LoadPosts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "old.md", "---\ntitle: Old\ndate: 2021-01-01\ntags: [go]\n---\nold\n")
	writePost(t, dir, "new.md", "---\ntitle: New\ndate: 2023-01-01\ntags: [go, vue]\n---\nnew\n")
	writePost(t, dir, "undated.md", "---\ntitle: Undated\n---\nundated\n")
	writePost(t, dir, "draft.md", "---\ntitle: Draft\ndate: 2024-01-01\ndraft: true\n---\ndraft\n")
	writePost(t, dir, "index.md", "---\ntitle: Posts\n---\nlist\n")
	writePost(t, dir, "notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	loader := NewLoader(LoaderConfig{Dir: dir, BaseRoute: "posts"}, logging.Discard())
	posts, err := loader.LoadPosts(context.Background())
	require.NoError(t, err)

	require.Len(t, posts, 3)
	assert.Equal(t, "new", posts[0].Slug)
	assert.Equal(t, "old", posts[1].Slug)
	assert.Equal(t, "undated", posts[2].Slug)
	assert.Equal(t, "/posts/new", posts[0].Link)
	assert.Equal(t, "new\n", string(posts[0].Body))
}

func TestLoader_IncludesDrafts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "draft.md", "---\ntitle: Draft\ndraft: true\n---\ndraft\n")

	loader := NewLoader(LoaderConfig{Dir: dir, BaseRoute: "/posts", Drafts: true}, logging.Discard())
	posts, err := loader.LoadPosts(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.True(t, posts[0].Draft)
}

func TestLoader_DuplicateSlug(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\nslug: same\n---\na\n")
	writePost(t, dir, "b.md", "---\nslug: same\n---\nb\n")

	loader := NewLoader(LoaderConfig{Dir: dir, BaseRoute: "/posts"}, logging.Discard())
	_, err := loader.LoadPosts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateSlug)
}

func TestLoader_BadDateNamesFile(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "broken.md", "---\ndate: not-a-date\n---\nx\n")

	loader := NewLoader(LoaderConfig{Dir: dir, BaseRoute: "/posts"}, logging.Discard())
	_, err := loader.LoadPosts(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.md")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestLoader_MissingDir(t *testing.T) {
	loader := NewLoader(LoaderConfig{Dir: filepath.Join(t.TempDir(), "nope")}, logging.Discard())
	_, err := loader.LoadPosts(context.Background())
	require.Error(t, err)
}

func TestGroupByTag(t *testing.T) {
	a := &model.Post{Slug: "a", Tags: []string{"vue", "go"}}
	b := &model.Post{Slug: "b", Tags: []string{"go"}}

	groups := GroupByTag([]*model.Post{a, b})
	require.Len(t, groups, 2)
	assert.Equal(t, "go", groups[0].Name)
	assert.Equal(t, []*model.Post{a, b}, groups[0].Posts)
	assert.Equal(t, "vue", groups[1].Name)
}
