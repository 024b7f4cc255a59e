package feed

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GODLiangCY/Blog/internal/config"
	"github.com/GODLiangCY/Blog/internal/model"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.SiteTitle = "GODLiangCY"
	cfg.Description = "GODLiangCY' Blog"
	cfg.BaseURL = "https://godliangcy.ink"
	cfg.Copyright = "CC BY-NC-SA 4.0 2022 © GODLiangCY"
	cfg.Author = config.Author{Name: "GODLiangCY", Email: "younggglcy@gmail.com", Link: "https://godliangcy.ink"}
	return cfg
}

func testPosts() []*model.Post {
	return []*model.Post{
		{
			Title: "Older",
			Date:  time.Date(2022, 1, 2, 0, 0, 0, 0, time.UTC),
			Slug:  "older",
			Link:  "/posts/older",
			Body:  []byte("![cat](/images/cat.png)\n\nSee [home](/).\n"),
		},
		{
			Title:       "Newer",
			Date:        time.Date(2023, 3, 4, 0, 0, 0, 0, time.UTC),
			Slug:        "newer",
			Link:        "/posts/newer",
			Description: "the newer one",
			Body:        []byte("# Newer\n\nfirst line\nsecond line\n"),
		},
	}
}

func TestBuild(t *testing.T) {
	cfg := testConfig()

	f, err := Build(cfg, testPosts())
	require.NoError(t, err)

	assert.Equal(t, "GODLiangCY", f.Title)
	assert.Equal(t, "https://godliangcy.ink/", f.Link.Href)
	assert.Equal(t, "https://godliangcy.ink/avatar.jpg", f.Image.Url)
	require.Len(t, f.Items, 2)

	newer, older := f.Items[0], f.Items[1]
	assert.Equal(t, "Newer", newer.Title)
	assert.Equal(t, "https://godliangcy.ink/posts/newer", newer.Link.Href)
	assert.Equal(t, "the newer one", newer.Description)
	// goquery re-serializes void elements, so check the markup as a tree
	body, err := goquery.NewDocumentFromReader(strings.NewReader(newer.Content))
	require.NoError(t, err)
	para := body.Find("p").First()
	assert.Equal(t, 1, para.Find("br").Length())
	assert.Equal(t, "first line\nsecond line", para.Text())
	assert.NotContains(t, newer.Content, "header-anchor")

	assert.Contains(t, older.Content, `src="https://godliangcy.ink/images/cat.png"`)
	assert.Contains(t, older.Content, `href="https://godliangcy.ink/"`)
	assert.Equal(t, "See home .", older.Description)

	assert.True(t, f.Created.Equal(newer.Created))
}

func TestWrite_ParsesBack(t *testing.T) {
	cfg := testConfig()
	dir := filepath.Join(t.TempDir(), "dist")

	f, err := Build(cfg, testPosts())
	require.NoError(t, err)
	require.NoError(t, Write(cfg, dir, f))

	parser := gofeed.NewParser()
	for _, name := range []string{"feed.xml", "feed.atom", "feed.json"} {
		t.Run(name, func(t *testing.T) {
			file, err := os.Open(filepath.Join(dir, name))
			require.NoError(t, err)
			defer file.Close()

			parsed, err := parser.Parse(file)
			require.NoError(t, err)

			assert.Equal(t, "GODLiangCY", parsed.Title)
			require.Len(t, parsed.Items, 2)
			assert.Equal(t, "Newer", parsed.Items[0].Title)
			assert.Equal(t, "https://godliangcy.ink/posts/newer", parsed.Items[0].Link)
			assert.Equal(t, "Older", parsed.Items[1].Title)
		})
	}
}

func TestWrite_JSONExtras(t *testing.T) {
	cfg := testConfig()
	dir := t.TempDir()

	f, err := Build(cfg, nil)
	require.NoError(t, err)
	require.NoError(t, Write(cfg, dir, f))

	data, err := os.ReadFile(filepath.Join(dir, "feed.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"feed_url": "https://godliangcy.ink/feed.json"`)
	assert.Contains(t, string(data), `"favicon": "https://godliangcy.ink/vite.svg"`)
}

func TestLinks(t *testing.T) {
	links := Links(testConfig())
	assert.Equal(t, "https://godliangcy.ink/feed.xml", links.RSS)
	assert.Equal(t, "https://godliangcy.ink/feed.atom", links.Atom)
	assert.Equal(t, "https://godliangcy.ink/feed.json", links.JSON)
}

func TestAbsolutize_NoBaseURL(t *testing.T) {
	out, err := absolutize(`<img src="/a.png">`, "")
	require.NoError(t, err)
	assert.Equal(t, `<img src="/a.png">`, out)
}

func TestAbsolutize_SkipsProtocolRelative(t *testing.T) {
	out, err := absolutize(`<img src="//cdn.example.com/a.png"><a href="/x">x</a>`, "https://site.dev/")
	require.NoError(t, err)
	assert.Contains(t, out, `src="//cdn.example.com/a.png"`)
	assert.Contains(t, out, `href="https://site.dev/x"`)
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "Hello world & more", Excerpt("<p>Hello <b>world</b> &amp; more</p>", 100))

	long := "<p>" + strings.Repeat("a", 200) + "</p>"
	got := Excerpt(long, 10)
	assert.Equal(t, strings.Repeat("a", 10)+"…", got)
}
