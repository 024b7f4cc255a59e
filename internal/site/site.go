// Package site builds the whole blog: pages, posts, the posts index, client
// assets and feeds.
package site

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"os"
	"path"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GODLiangCY/Blog/internal/config"
	"github.com/GODLiangCY/Blog/internal/content"
	"github.com/GODLiangCY/Blog/internal/feed"
	"github.com/GODLiangCY/Blog/internal/highlight"
	"github.com/GODLiangCY/Blog/internal/markdown"
	"github.com/GODLiangCY/Blog/internal/model"
	"github.com/GODLiangCY/Blog/internal/routes"
)

// WorkerSubcommand is the hidden CLI command that runs the highlight worker.
const WorkerSubcommand = "highlight-worker"

// Report summarizes a finished build.
type Report struct {
	OutputDir string
	Pages     int
	Posts     int
	Tags      int
	Static    int
	Feeds     bool
	Duration  time.Duration
}

type Builder struct {
	cfg    *config.Config
	logger *slog.Logger

	workerName string
	workerArgs []string
}

type Option func(*Builder)

// WithWorkerCommand sets the command started as the highlight worker
// process. By default the running binary is started with WorkerSubcommand.
func WithWorkerCommand(name string, args ...string) Option {
	return func(b *Builder) {
		b.workerName = name
		b.workerArgs = args
	}
}

func NewBuilder(cfg *config.Config, logger *slog.Logger, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// page is one HTML file of the output.
type page struct {
	route  model.Route
	title  string
	layout string
	body   []byte
	post   *model.Post

	html template.HTML
	toc  []model.Heading
}

// Build cleans the output directory and regenerates the site. The first
// error aborts the build.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	start := time.Now()
	cfg := b.cfg
	outputDir := cfg.OutputDir
	report := &Report{OutputDir: outputDir}

	b.logger.Info("cleaning output directory", "dir", outputDir)
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, fmt.Errorf("failed to remove output directory '%s': %w", outputDir, err)
	}
	if err := os.MkdirAll(outputDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create output directory '%s': %w", outputDir, err)
	}

	if _, err := os.Stat(cfg.StaticDir); err == nil {
		n, err := copyDirContents(cfg.StaticDir, outputDir)
		if err != nil {
			return nil, fmt.Errorf("failed to copy static assets: %w", err)
		}
		report.Static = n
		b.logger.Info("static assets copied", "dir", cfg.StaticDir, "files", n)
	} else {
		b.logger.Debug("static directory not found, skipping copy", "dir", cfg.StaticDir)
	}
	if err := writeAssets(outputDir); err != nil {
		return nil, fmt.Errorf("failed to write client assets: %w", err)
	}

	layouts, err := LoadLayouts(cfg, cfg.LayoutsDir)
	if err != nil {
		return nil, err
	}

	table, err := routes.Scan(routes.ScanConfig{PagesDir: cfg.PagesDir, PostsDir: cfg.PostsDir})
	if err != nil {
		return nil, err
	}
	posts, err := b.LoadPosts(ctx)
	if err != nil {
		return nil, err
	}
	b.logger.Info("content collected", "routes", len(table), "posts", len(posts))

	site := b.siteData(table, posts)
	pages, err := b.collectPages(table, posts, layouts)
	if err != nil {
		return nil, err
	}

	bridge, err := b.startWorker(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := bridge.Close(); err != nil {
			b.logger.Warn("highlight worker exited with error", "error", err)
		}
	}()

	if err := b.renderPages(ctx, bridge, pages); err != nil {
		return nil, err
	}
	written, err := b.writePages(ctx, layouts, site, pages)
	if err != nil {
		return nil, err
	}
	report.Pages = written
	report.Posts = len(posts)
	report.Tags = len(site.Tags)

	if cfg.Feed.Enabled {
		if err := b.writeFeeds(posts); err != nil {
			return nil, err
		}
		report.Feeds = true
	}

	report.Duration = time.Since(start)
	b.logger.Info("build finished", "pages", report.Pages, "posts", report.Posts, "duration", report.Duration)
	return report, nil
}

// BuildFeeds writes only the feed files into the output directory.
func (b *Builder) BuildFeeds(ctx context.Context) ([]*model.Post, error) {
	posts, err := b.LoadPosts(ctx)
	if err != nil {
		return nil, err
	}
	if err := b.writeFeeds(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// LoadPosts reads the posts directory, newest first.
func (b *Builder) LoadPosts(ctx context.Context) ([]*model.Post, error) {
	if _, err := os.Stat(b.cfg.PostsDir); os.IsNotExist(err) {
		b.logger.Warn("posts directory not found", "dir", b.cfg.PostsDir)
		return nil, nil
	}
	loader := content.NewLoader(content.LoaderConfig{
		Dir:       b.cfg.PostsDir,
		BaseRoute: routes.PostsBase(b.cfg.PagesDir, b.cfg.PostsDir),
		Drafts:    b.cfg.Build.Drafts,
	}, b.logger)
	return loader.LoadPosts(ctx)
}

func (b *Builder) writeFeeds(posts []*model.Post) error {
	f, err := feed.Build(b.cfg, posts)
	if err != nil {
		return fmt.Errorf("build feed: %w", err)
	}
	if err := feed.Write(b.cfg, b.cfg.OutputDir, f); err != nil {
		return err
	}
	b.logger.Info("feeds written", "dir", b.cfg.OutputDir, "name", b.cfg.Feed.Name, "items", len(f.Items))
	return nil
}

func (b *Builder) siteData(table []model.Route, posts []*model.Post) *model.SiteData {
	cfg := b.cfg
	site := &model.SiteData{
		Title:       cfg.SiteTitle,
		Description: cfg.Description,
		BaseURL:     cfg.BaseURL,
		Author:      cfg.Author.Name,
		Params: map[string]any{
			"copyright": cfg.Copyright,
			"favicon":   cfg.Favicon,
			"image":     cfg.Image,
		},
		Routes:     table,
		Posts:      posts,
		Tags:       content.GroupByTag(posts),
		PostsIndex: b.postsIndex(),
	}
	if cfg.Feed.Enabled {
		site.FeedLinks = feed.Links(cfg)
	}
	return site
}

func (b *Builder) postsIndex() string {
	return path.Join("/", routes.PostsBase(b.cfg.PagesDir, b.cfg.PostsDir))
}

// collectPages decides what gets written: every page route, every loaded
// post, and a home page and posts index when no Markdown file provides
// them. Post routes without a loaded post are drafts and are skipped.
func (b *Builder) collectPages(table []model.Route, posts []*model.Post, layouts *Layouts) ([]*page, error) {
	byLink := make(map[string]*model.Post, len(posts))
	for _, p := range posts {
		byLink[p.Link] = p
	}
	postsIndex := b.postsIndex()

	var pages []*page
	for _, route := range table {
		if route.Kind == model.KindPost {
			post, ok := byLink[route.Path]
			if !ok {
				b.logger.Debug("skipping route without post", "path", route.Path)
				continue
			}
			pages = append(pages, &page{
				route:  route,
				title:  post.Title,
				layout: layoutOr(post.FrontMatter, postLayout),
				body:   post.Body,
				post:   post,
			})
			continue
		}

		source, err := os.ReadFile(route.Source)
		if err != nil {
			return nil, fmt.Errorf("failed to read file '%s': %w", route.Source, err)
		}
		fm, body, err := content.ParseFrontMatter(source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", route.Source, err)
		}
		fallback := pageLayout
		switch {
		case route.Path == "/":
			fallback = homeLayout
		case route.Kind == model.KindPostIndex:
			fallback = postsLayout
		}
		pages = append(pages, &page{
			route:  route,
			title:  fm.Title,
			layout: layoutOr(fm.Raw, fallback),
			body:   body,
		})
	}

	if _, ok := routes.Find(table, "/"); !ok {
		pages = append(pages, &page{route: model.Route{Path: "/", Kind: model.KindPage}, layout: homeLayout})
	}
	if _, ok := routes.Find(table, postsIndex); !ok {
		pages = append(pages, &page{route: model.Route{Path: postsIndex, Kind: model.KindPostIndex}, layout: postsLayout})
	}

	for _, p := range pages {
		if !layouts.Has(p.layout) {
			return nil, fmt.Errorf("layout %q for %s not found", p.layout, p.route.Path)
		}
	}
	return pages, nil
}

func layoutOr(frontMatter map[string]any, fallback string) string {
	if layout, ok := frontMatter["layout"].(string); ok && layout != "" {
		return layoutFile(layout)
	}
	return fallback
}

func (b *Builder) startWorker(ctx context.Context) (*highlight.Bridge, error) {
	if b.cfg.Highlight.Worker == config.WorkerInline {
		return highlight.NewInline(ctx, b.logger), nil
	}

	name, args := b.workerName, b.workerArgs
	if name == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("locate executable for highlight worker: %w", err)
		}
		name, args = exe, []string{WorkerSubcommand}
	}
	return highlight.StartProcess(ctx, name, args, b.logger)
}

// contextHighlighter binds a build context to the highlight plugin for the
// context-free Markdown hook.
type contextHighlighter struct {
	ctx    context.Context
	plugin *highlight.Plugin
}

func (h contextHighlighter) Highlight(code, lang, attrs string) (string, error) {
	return h.plugin.Render(h.ctx, code, lang, attrs)
}

func (b *Builder) concurrency() int {
	if n := b.cfg.Build.Concurrency; n > 0 {
		return n
	}
	return runtime.NumCPU()
}

// renderPages converts every page body to HTML, several at a time.
func (b *Builder) renderPages(ctx context.Context, caller highlight.Caller, pages []*page) error {
	cfg := b.cfg
	plugin, err := highlight.NewPlugin(ctx, caller, highlight.Options{
		DarkTheme:  cfg.Highlight.DarkTheme,
		LightTheme: cfg.Highlight.LightTheme,
		Langs:      cfg.Highlight.Languages,
	})
	if err != nil {
		return fmt.Errorf("load highlighter: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())

	renderer := markdown.New(markdown.Options{
		Highlighter:   contextHighlighter{ctx: ctx, plugin: plugin},
		TOCLevels:     cfg.Markdown.TOCLevels,
		Anchors:       true,
		ExternalLinks: cfg.Markdown.ExternalLinks,
		HardWraps:     cfg.Markdown.HardWraps,
	})

	for _, p := range pages {
		if len(p.body) == 0 {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			b.logger.Debug("rendering", "path", p.route.Path)
			res, err := renderer.Render(p.body)
			if err != nil {
				return fmt.Errorf("render %s: %w", p.route.Source, err)
			}
			p.html = template.HTML(res.HTML)
			p.toc = res.TOC
			if p.post != nil {
				p.post.HTML = p.html
				p.post.TOC = p.toc
			}
			return nil
		})
	}
	return g.Wait()
}

// writePages executes the layouts once every page is rendered.
func (b *Builder) writePages(ctx context.Context, layouts *Layouts, site *model.SiteData, pages []*page) (int, error) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency())

	var written atomic.Int64
	for _, p := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data := model.PageData{
				Site:      site,
				Route:     p.route,
				PageTitle: p.title,
				Content:   p.html,
				TOC:       p.toc,
				Post:      p.post,
				Params:    p.route.Meta.FrontMatter,
				Layout:    p.layout,
			}
			out := routes.OutputFile(b.cfg.OutputDir, p.route.Path)
			err := writeFile(out, func(w io.Writer) error {
				return layouts.Execute(w, p.layout, data)
			})
			if err != nil {
				return fmt.Errorf("write %s: %w", p.route.Path, err)
			}
			b.logger.Debug("generated", "file", out, "layout", p.layout)
			written.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return int(written.Load()), nil
}
