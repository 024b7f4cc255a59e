// Package feed exports posts as RSS 2.0, Atom and JSON Feed files.
package feed

import (
	"encoding/json"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/feeds"
	"github.com/microcosm-cc/bluemonday"

	"github.com/GODLiangCY/Blog/internal/config"
	"github.com/GODLiangCY/Blog/internal/content"
	"github.com/GODLiangCY/Blog/internal/markdown"
	"github.com/GODLiangCY/Blog/internal/model"
)

const excerptLength = 160

// Links returns the public URLs of the three feed files.
func Links(cfg *config.Config) model.FeedLinks {
	return model.FeedLinks{
		RSS:  cfg.AbsURL("/" + cfg.Feed.Name + ".xml"),
		Atom: cfg.AbsURL("/" + cfg.Feed.Name + ".atom"),
		JSON: cfg.AbsURL("/" + cfg.Feed.Name + ".json"),
	}
}

// Build assembles the feed for posts. Post bodies are rendered with the
// feed Markdown options and root-relative src and href attributes are
// made absolute against the site's base URL.
func Build(cfg *config.Config, posts []*model.Post) (*feeds.Feed, error) {
	renderer := markdown.New(markdown.FeedOptions())
	author := &feeds.Author{Name: cfg.Author.Name, Email: cfg.Author.Email}

	f := &feeds.Feed{
		Title:       cfg.SiteTitle,
		Link:        &feeds.Link{Href: cfg.AbsURL("/")},
		Description: cfg.Description,
		Id:          cfg.AbsURL("/"),
		Author:      author,
		Copyright:   cfg.Copyright,
	}
	if cfg.Image != "" {
		f.Image = &feeds.Image{Url: cfg.AbsURL(cfg.Image), Title: cfg.SiteTitle, Link: cfg.AbsURL("/")}
	}

	sorted := append([]*model.Post(nil), posts...)
	content.SortPosts(sorted)

	for _, post := range sorted {
		res, err := renderer.Render(post.Body)
		if err != nil {
			return nil, fmt.Errorf("render feed item %s: %w", post.SourcePath, err)
		}
		body, err := absolutize(res.HTML, cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("rewrite feed item %s: %w", post.SourcePath, err)
		}

		description := post.Description
		if description == "" {
			description = Excerpt(body, excerptLength)
		}

		link := cfg.AbsURL(post.Link)
		f.Items = append(f.Items, &feeds.Item{
			Title:       post.Title,
			Link:        &feeds.Link{Href: link},
			Id:          link,
			Description: description,
			Author:      author,
			Created:     post.Date,
			Content:     body,
		})
		if post.Date.After(f.Created) {
			f.Created = post.Date
		}
	}
	f.Updated = f.Created
	return f, nil
}

// Write renders f as <name>.xml, <name>.atom and <name>.json inside dir.
func Write(cfg *config.Config, dir string, f *feeds.Feed) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create feed directory '%s': %w", dir, err)
	}

	rss, err := f.ToRss()
	if err != nil {
		return fmt.Errorf("render rss: %w", err)
	}
	atom, err := f.ToAtom()
	if err != nil {
		return fmt.Errorf("render atom: %w", err)
	}
	jsonFeed, err := toJSON(cfg, f)
	if err != nil {
		return fmt.Errorf("render json feed: %w", err)
	}

	name := cfg.Feed.Name
	files := map[string]string{
		name + ".xml":  rss,
		name + ".atom": atom,
		name + ".json": jsonFeed,
	}
	for file, data := range files {
		path := filepath.Join(dir, file)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			return fmt.Errorf("failed to write feed '%s': %w", path, err)
		}
	}
	return nil
}

// toJSON adds the feed URL and favicon, which the generic feed model
// does not carry.
func toJSON(cfg *config.Config, f *feeds.Feed) (string, error) {
	jf := (&feeds.JSON{Feed: f}).JSONFeed()
	jf.FeedUrl = Links(cfg).JSON
	if cfg.Favicon != "" {
		jf.Favicon = cfg.AbsURL(cfg.Favicon)
	}
	if cfg.Image != "" {
		jf.Icon = cfg.AbsURL(cfg.Image)
	}
	data, err := json.MarshalIndent(jf, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// absolutize prefixes root-relative src and href values with baseURL.
func absolutize(fragment, baseURL string) (string, error) {
	base := strings.TrimSuffix(baseURL, "/")
	if base == "" {
		return fragment, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}
	for _, attr := range []string{"src", "href"} {
		doc.Find("[" + attr + "^='/']").Each(func(_ int, s *goquery.Selection) {
			value, _ := s.Attr(attr)
			if strings.HasPrefix(value, "//") {
				return
			}
			s.SetAttr(attr, base+value)
		})
	}
	return doc.Find("body").Html()
}

// Excerpt strips markup from fragment and shortens it to max runes.
func Excerpt(fragment string, max int) string {
	policy := bluemonday.StrictPolicy()
	policy.AddSpaceWhenStrippingTag(true)
	text := html.UnescapeString(policy.Sanitize(fragment))
	text = strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(text) <= max {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
