package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, "pages/posts", cfg.PostsDir)
	assert.Equal(t, []int{1, 2, 3}, cfg.Markdown.TOCLevels)
	assert.Equal(t, WorkerProcess, cfg.Highlight.Worker)
	assert.True(t, cfg.Feed.Enabled)
	assert.Equal(t, "feed", cfg.Feed.Name)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "site.yaml")
	data := `siteTitle: Test Site
baseURL: https://example.com
outputDir: out
author:
  name: Someone
  email: someone@example.com
highlight:
  worker: inline
  languages: [go, ts]
markdown:
  tocLevels: [2, 3]
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Test Site", cfg.SiteTitle)
	assert.Equal(t, "https://example.com", cfg.BaseURL)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, "Someone", cfg.Author.Name)
	assert.Equal(t, WorkerInline, cfg.Highlight.Worker)
	assert.Equal(t, []string{"go", "ts"}, cfg.Highlight.Languages)
	assert.Equal(t, []int{2, 3}, cfg.Markdown.TOCLevels)
	// untouched keys keep their defaults
	assert.Equal(t, "pages", cfg.PagesDir)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "dist", cfg.OutputDir)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOG_OUTPUTDIR", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.OutputDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty output dir", func(c *Config) { c.OutputDir = " " }},
		{"relative base url", func(c *Config) { c.BaseURL = "example.com" }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
		{"bad worker", func(c *Config) { c.Highlight.Worker = "thread" }},
		{"empty theme", func(c *Config) { c.Highlight.DarkTheme = "" }},
		{"toc level out of range", func(c *Config) { c.Markdown.TOCLevels = []int{0, 2} }},
		{"negative concurrency", func(c *Config) { c.Build.Concurrency = -1 }},
		{"empty feed name", func(c *Config) { c.Feed.Name = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestAbsURL(t *testing.T) {
	cfg := Default()
	cfg.BaseURL = "https://godliangcy.ink/"

	assert.Equal(t, "https://godliangcy.ink/", cfg.AbsURL(""))
	assert.Equal(t, "https://godliangcy.ink/posts/a", cfg.AbsURL("/posts/a"))
	assert.Equal(t, "https://godliangcy.ink/feed.xml", cfg.AbsURL("feed.xml"))
	assert.Equal(t, "https://cdn.example.com/x.png", cfg.AbsURL("https://cdn.example.com/x.png"))
}
