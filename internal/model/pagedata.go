package model

import "html/template"

// PageData is the value passed to every layout.
type PageData struct {
	Site      *SiteData
	Route     Route
	PageTitle string
	Content   template.HTML
	TOC       []Heading
	Post      *Post
	Params    map[string]any
	Layout    string
}
