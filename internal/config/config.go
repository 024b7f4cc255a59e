package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/viper"
)

const (
	WorkerProcess = "process"
	WorkerInline  = "inline"
)

type Config struct {
	SiteTitle   string `mapstructure:"siteTitle"`
	Description string `mapstructure:"description"`
	BaseURL     string `mapstructure:"baseURL"`
	OutputDir   string `mapstructure:"outputDir"`
	PagesDir    string `mapstructure:"pagesDir"`
	PostsDir    string `mapstructure:"postsDir"`
	LayoutsDir  string `mapstructure:"layoutsDir"`
	StaticDir   string `mapstructure:"staticDir"`
	Copyright   string `mapstructure:"copyright"`
	Image       string `mapstructure:"image"`
	Favicon     string `mapstructure:"favicon"`

	Author    Author          `mapstructure:"author"`
	Feed      FeedConfig      `mapstructure:"feed"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Highlight HighlightConfig `mapstructure:"highlight"`
	Build     BuildConfig     `mapstructure:"build"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Serve     ServeConfig     `mapstructure:"serve"`
}

type Author struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
	Link  string `mapstructure:"link"`
}

type FeedConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Name    string `mapstructure:"name"`
}

type MarkdownConfig struct {
	// TOCLevels lists the heading levels collected for [[toc]].
	TOCLevels     []int `mapstructure:"tocLevels"`
	HardWraps     bool  `mapstructure:"hardWraps"`
	ExternalLinks bool  `mapstructure:"externalLinks"`
}

type HighlightConfig struct {
	DarkTheme  string   `mapstructure:"darkTheme"`
	LightTheme string   `mapstructure:"lightTheme"`
	Languages  []string `mapstructure:"languages"`
	// Worker is "process" to highlight in a child process, "inline" to
	// run the worker loop in a goroutine of the build process.
	Worker string `mapstructure:"worker"`
}

type BuildConfig struct {
	Concurrency int  `mapstructure:"concurrency"`
	Drafts      bool `mapstructure:"drafts"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type ServeConfig struct {
	Port       int  `mapstructure:"port"`
	LiveReload bool `mapstructure:"livereload"`
}

// Load reads the site configuration from cfgFile, or ./config.yaml when
// cfgFile is empty. A missing default file is not an error.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(err)
	}
	return cfg
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "GODLiangCY")
	v.SetDefault("description", "GODLiangCY' Blog")
	v.SetDefault("baseURL", "")
	v.SetDefault("outputDir", "dist")
	v.SetDefault("pagesDir", "pages")
	v.SetDefault("postsDir", "pages/posts")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "public")
	v.SetDefault("copyright", "")
	v.SetDefault("image", "/avatar.jpg")
	v.SetDefault("favicon", "/vite.svg")

	v.SetDefault("feed.enabled", true)
	v.SetDefault("feed.name", "feed")

	v.SetDefault("markdown.tocLevels", []int{1, 2, 3})
	v.SetDefault("markdown.hardWraps", false)
	v.SetDefault("markdown.externalLinks", true)

	v.SetDefault("highlight.darkTheme", "github-dark")
	v.SetDefault("highlight.lightTheme", "github")
	v.SetDefault("highlight.languages", []string{})
	v.SetDefault("highlight.worker", WorkerProcess)

	v.SetDefault("build.concurrency", 4)
	v.SetDefault("build.drafts", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("serve.port", 3333)
	v.SetDefault("serve.livereload", true)
}

// Validate checks the configuration for values the build cannot work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.OutputDir) == "" {
		return errors.New("outputDir must not be empty")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil || !u.IsAbs() {
			return fmt.Errorf("baseURL must be an absolute URL, got %q", c.BaseURL)
		}
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid logging level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("invalid logging format: %s (must be text or json)", c.Logging.Format)
	}

	switch c.Highlight.Worker {
	case WorkerProcess, WorkerInline:
	default:
		return fmt.Errorf("invalid highlight worker %q (must be %s or %s)", c.Highlight.Worker, WorkerProcess, WorkerInline)
	}
	if c.Highlight.DarkTheme == "" || c.Highlight.LightTheme == "" {
		return errors.New("highlight themes must not be empty")
	}

	for _, level := range c.Markdown.TOCLevels {
		if level < 1 || level > 6 {
			return fmt.Errorf("invalid toc level %d (must be between 1 and 6)", level)
		}
	}

	if c.Build.Concurrency < 0 {
		return fmt.Errorf("build concurrency must not be negative, got %d", c.Build.Concurrency)
	}
	if c.Feed.Enabled && strings.TrimSpace(c.Feed.Name) == "" {
		return errors.New("feed.name must not be empty when feeds are enabled")
	}
	return nil
}

// AbsURL joins a site-relative path onto BaseURL.
func (c *Config) AbsURL(path string) string {
	base := strings.TrimSuffix(c.BaseURL, "/")
	if path == "" {
		return base + "/"
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
