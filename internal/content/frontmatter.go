package content

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// FrontMatter is the metadata block at the top of a Markdown file.
type FrontMatter struct {
	Title       string
	Date        time.Time
	HasDate     bool
	Tags        []string
	Description string
	Lang        string
	Duration    string
	Slug        string
	Layout      string
	Draft       bool
	Raw         map[string]any
}

// ParseFrontMatter splits source into its front matter and Markdown body.
// A file without front matter yields an empty FrontMatter and the whole
// source as body.
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	if raw == nil {
		raw = map[string]any{}
	}

	fm := FrontMatter{
		Title:       stringField(raw, "title"),
		Description: stringField(raw, "description", "summary"),
		Lang:        stringField(raw, "lang"),
		Duration:    stringField(raw, "duration"),
		Slug:        stringField(raw, "slug"),
		Layout:      stringField(raw, "layout"),
		Tags:        tagsField(raw["tags"]),
		Raw:         raw,
	}
	if draft, ok := raw["draft"].(bool); ok {
		fm.Draft = draft
	}

	if value, ok := raw["date"]; ok && value != nil {
		date, err := dateField(value)
		if err != nil {
			return FrontMatter{}, nil, err
		}
		fm.Date = date
		fm.HasDate = true
	}

	return fm, body, nil
}

func stringField(raw map[string]any, keys ...string) string {
	for _, key := range keys {
		if s, ok := raw[key].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// tagsField accepts a YAML list or a comma separated string.
func tagsField(value any) []string {
	var tags []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			tags = append(tags, s)
		}
	}

	switch v := value.(type) {
	case string:
		for _, part := range strings.Split(v, ",") {
			add(part)
		}
	case []any:
		for _, item := range v {
			add(fmt.Sprint(item))
		}
	case []string:
		for _, item := range v {
			add(item)
		}
	}
	return tags
}

func dateField(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return ParseDate(v)
	default:
		return ParseDate(fmt.Sprint(v))
	}
}
