package content

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestScanner() *Scanner {
	return NewScanner(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func write(t *testing.T, fs afero.Fs, name, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
}

func TestScanPosts_PlainPost(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "site/posts/2025-03-01-my-post.html", "<html><body><h1>Hello</h1></body></html>")

	posts, err := newTestScanner().ScanPosts(fs, "site")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "2025-03-01-my-post.html", p.FileName)
	assert.Equal(t, "/posts/2025-03-01-my-post.html", p.URL)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), p.Date)
	assert.Equal(t, "Hello", p.Title)
	assert.Equal(t, []string{}, p.Tags)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, "2025", p.Year())
	assert.Nil(t, p.SeriesOrder)
}

func TestScanPosts_MissingDirectory(t *testing.T) {
	posts, err := newTestScanner().ScanPosts(afero.NewMemMapFs(), "site")
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestScanPosts_SidecarKeysCaseInsensitive(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "s/posts/2025-01-02-a.html", "<title>Fallback &amp; more</title>")
	write(t, fs, "s/posts/2025-01-02-a.html.meta.json", `{
  "page_description": "Short",
  "Tags": "Go, Web Dev, go, 한글",
  "category_path": "Tech/Rust Lang",
  "SERIES": "Learning Go",
  "series_order": "2",
  "OG_IMAGE": "/img/a.png"
}`)

	posts, err := newTestScanner().ScanPosts(fs, "s")
	require.NoError(t, err)
	require.Len(t, posts, 1)

	p := posts[0]
	assert.Equal(t, "Fallback & more", p.Title)
	assert.Equal(t, "Short", p.Description)
	assert.Equal(t, []string{"go", "web-dev", "post"}, p.Tags)
	assert.Equal(t, "tech/rust-lang", p.CategoryPath)
	assert.Equal(t, "Learning Go", p.Series)
	require.NotNil(t, p.SeriesOrder)
	assert.Equal(t, 2, *p.SeriesOrder)
	assert.Equal(t, "/img/a.png", p.OGImage)
}

func TestScanPosts_InvalidDateSkipsOnlyThatFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "s/posts/2025-02-30-bad.html", "<h1>Bad</h1>")
	write(t, fs, "s/posts/2025-02-28-good.html", "<h1>Good</h1>")
	write(t, fs, "s/posts/notes.html", "<h1>Ignored</h1>")
	write(t, fs, "s/posts/2025-02-28-good.html.meta.json", `{"SERIES_ORDER":"x"}`)

	posts, err := newTestScanner().ScanPosts(fs, "s")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Good", posts[0].Title)
	assert.Nil(t, posts[0].SeriesOrder)
}

func TestParseTags(t *testing.T) {
	assert.Equal(t, []string{"post", "go"}, ParseTags("한국어, Go, 日本"))
	assert.Equal(t, []string{"post"}, ParseTags("한국어"))
	assert.Equal(t, []string{"web-dev"}, ParseTags(" , Web Dev,,web dev "))
	assert.Equal(t, []string{}, ParseTags("  "))
}

func TestScanPosts_UnescapesSidecarValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "s/posts/2025-01-02-a.html", "<h1>A</h1>")
	write(t, fs, "s/posts/2025-01-02-a.html.meta.json", `{
  "PAGE_DESCRIPTION": "Tom &amp; Jerry &lt;3 &quot;cheese&quot;",
  "SERIES": "Q&amp;A",
  "TAGS": "R&amp;D"
}`)

	posts, err := newTestScanner().ScanPosts(fs, "s")
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, `Tom & Jerry <3 "cheese"`, posts[0].Description)
	assert.Equal(t, "Q&A", posts[0].Series)
	assert.Equal(t, []string{"r-d"}, posts[0].Tags)
}

func TestScanPosts_Order(t *testing.T) {
	fs := afero.NewMemMapFs()
	write(t, fs, "s/posts/2024-05-01-b.html", "<h1>B</h1>")
	write(t, fs, "s/posts/2024-05-01-a.html", "<h1>A</h1>")
	write(t, fs, "s/posts/2025-01-01-new.html", "<h1>New</h1>")
	write(t, fs, "s/posts/2023-12-31-old.html", "")

	posts, err := newTestScanner().ScanPosts(fs, "s")
	require.NoError(t, err)

	var names []string
	for _, p := range posts {
		names = append(names, p.FileName)
	}
	assert.Equal(t, []string{
		"2025-01-01-new.html",
		"2024-05-01-a.html",
		"2024-05-01-b.html",
		"2023-12-31-old.html",
	}, names)
	assert.Equal(t, Untitled, posts[3].Title)
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Hello world", ExtractTitle("<h1 class=\"x\">Hello <em>world</em></h1><h1>Second</h1>"))
	assert.Equal(t, "Fish & Chips", ExtractTitle("<head><title>Fish &amp; Chips</title></head>"))
	assert.Equal(t, "Heading", ExtractTitle("<title>T</title><h1>\n  Heading\n</h1>"))
	assert.Equal(t, Untitled, ExtractTitle("<p>nothing</p>"))
	assert.Equal(t, Untitled, ExtractTitle("<h1>   </h1>"))
	assert.Equal(t, "Page", ExtractTitle("<title>Page</title><h1><img src=\"a.png\"></h1>"))
}
