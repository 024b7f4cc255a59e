package model

import (
	"html/template"
	"time"
)

// Post is a single Markdown post under the posts directory.
type Post struct {
	Title       string
	Date        time.Time
	Tags        []string
	Description string
	Lang        string
	Duration    string
	Draft       bool
	Slug        string
	Link        string
	SourcePath  string
	Body        []byte
	HTML        template.HTML
	TOC         []Heading
	FrontMatter map[string]any
}

// Heading is one entry of a rendered table of contents.
type Heading struct {
	Level    int
	ID       string
	Text     string
	Children []Heading
}

type RouteKind string

const (
	KindPage      RouteKind = "page"
	KindPost      RouteKind = "post"
	KindPostIndex RouteKind = "post-index"
)

// Route maps a site path to the Markdown file that renders it.
type Route struct {
	Path   string
	Source string
	Kind   RouteKind
	Meta   RouteMeta
}

type RouteMeta struct {
	FrontMatter map[string]any
}

// SiteData holds all site-wide data available to layouts.
type SiteData struct {
	Title       string
	Description string
	BaseURL     string
	Author      string
	Params      map[string]any
	Routes      []Route
	Posts       []*Post
	Tags        []TagGroup
	FeedLinks   FeedLinks
	// PostsIndex is the site path of the posts listing, such as "/posts".
	PostsIndex string
}

// TagGroup lists the posts carrying one tag, newest first.
type TagGroup struct {
	Name  string
	Posts []*Post
}

type FeedLinks struct {
	RSS  string
	Atom string
	JSON string
}
