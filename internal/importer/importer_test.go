package importer

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/inful/mdfp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/catalog"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

const (
	mdDir    = "/drafts"
	siteRoot = "/site"
)

const publishedDraft = `---
title: "Hello & <World>"
createdDate: 2025-03-04
publish: true
tags: [Go, Web]
category: Tech/Rust Lang
series: Intro
seriesOrder: 2
---
# Heading

First paragraph here.

![cover](/img/c.png)
`

func newImporter(cfg *config.Site) (*Importer, afero.Fs) {
	fs := afero.NewMemMapFs()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(logger, cfg).WithFilesystems(fs, fs), fs
}

func put(t *testing.T, fs afero.Fs, name, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, name, []byte(body), 0o644))
}

func read(t *testing.T, fs afero.Fs, name string) string {
	t.Helper()
	b, err := afero.ReadFile(fs, name)
	require.NoError(t, err)
	return string(b)
}

func TestImportAll_PublishedDraft(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/hello.md", publishedDraft)

	n, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	page := read(t, fs, "/site/posts/2025-03-04-hello.html")
	assert.Contains(t, page, "<h1>Hello &amp; &lt;World&gt;</h1>")
	assert.Contains(t, page, `<time datetime="2025-03-04">2025-03-04</time>`)
	assert.Contains(t, page, "<h1>Heading</h1>")
	assert.Contains(t, page, "<dt>series</dt><dd>Intro</dd>")
	assert.NotContains(t, page, "{{CONTENT_HTML}}")
	assert.NotContains(t, page, "{{FRONTMATTER_HTML}}")

	meta, ok := content.ReadSidecar(fs, "/site/posts/2025-03-04-hello.html")
	require.True(t, ok)
	assert.Equal(t, "First paragraph here.", meta[content.KeyDescription])
	assert.Equal(t, "Go, Web", meta[content.KeyTags])
	assert.Equal(t, "Tech/Rust Lang", meta[content.KeyCategoryPath])
	assert.Equal(t, "Intro", meta[content.KeySeries])
	assert.Equal(t, "2", meta[content.KeySeriesOrder])
	assert.Equal(t, "/img/c.png", meta[content.KeyOGImage])

	header := "title: \"Hello & <World>\"\ncreatedDate: 2025-03-04\npublish: true\ntags: [Go, Web]\n" +
		"category: Tech/Rust Lang\nseries: Intro\nseriesOrder: 2"
	body := "# Heading\n\nFirst paragraph here.\n\n![cover](/img/c.png)\n"
	assert.Equal(t, mdfp.CalculateFingerprintFromParts(header, body), meta[KeySourceFingerprint])
}

func TestImportAll_ImportedPostIsScannable(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/hello.md", publishedDraft)
	_, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)

	posts, err := content.NewScanner(slog.New(slog.NewTextHandler(io.Discard, nil))).ScanPosts(fs, siteRoot)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "Hello & <World>", posts[0].Title)
	assert.Equal(t, []string{"go", "web"}, posts[0].Tags)
	assert.Equal(t, "tech/rust-lang", posts[0].CategoryPath)
	require.NotNil(t, posts[0].SeriesOrder)
	assert.Equal(t, 2, *posts[0].SeriesOrder)
}

func TestImportAll_DescriptionRendersOnceEscaped(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/cartoon.md", `---
title: Cartoon
createdDate: 2025-03-04
publish: true
description: Tom & Jerry <3 "cheese"
series: Q&A
---
Body.
`)
	_, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)

	meta, ok := content.ReadSidecar(fs, "/site/posts/2025-03-04-cartoon.html")
	require.True(t, ok)
	assert.Equal(t, "Tom &amp; Jerry &lt;3 &quot;cheese&quot;", meta[content.KeyDescription])

	posts, err := content.NewScanner(slog.New(slog.NewTextHandler(io.Discard, nil))).ScanPosts(fs, siteRoot)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, `Tom & Jerry <3 "cheese"`, posts[0].Description)

	card := catalog.Card(posts[0])
	assert.Contains(t, card, `<p class="c-dos-post__desc">Tom &amp; Jerry &lt;3 "cheese"</p>`)
	assert.Contains(t, card, "Q&amp;A")
	assert.NotContains(t, card, "&amp;amp;")
}

func TestImportAll_SkipsDraftsFailingChecks(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/unpublished.md", "---\ntitle: A\ncreatedDate: 2025-01-01\npublish: false\n---\nbody\n")
	put(t, fs, "/drafts/no-title.md", "---\ncreatedDate: 2025-01-01\npublish: true\n---\nbody\n")
	put(t, fs, "/drafts/bad-date.md", "---\ntitle: A\ncreatedDate: 2025-13-40\npublish: true\n---\nbody\n")
	put(t, fs, "/drafts/plain.md", "# Just notes\n")
	put(t, fs, "/drafts/notes.txt", "---\ntitle: A\ncreatedDate: 2025-01-01\npublish: true\n---\n")

	n, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	exists, _ := afero.DirExists(fs, "/site/posts")
	assert.False(t, exists)
}

func TestImportAll_DateKeyWithTime(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/nested/Later Post.MD", "---\ntitle: Later\ndate: 2025-06-07T08:09:10Z\npublish: TRUE\n---\ntext\n")

	n, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	ok, _ := afero.Exists(fs, "/site/posts/2025-06-07-later-post.html")
	assert.True(t, ok)
}

func TestImportAll_DuplicateNamesGetHashSuffix(t *testing.T) {
	im, fs := newImporter(nil)
	draft := "---\ntitle: Same\ncreatedDate: 2025-01-01\npublish: true\n---\nbody\n"
	put(t, fs, "/drafts/a/same.md", draft)
	put(t, fs, "/drafts/b/same.md", draft)

	n, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	first, _ := afero.Exists(fs, "/site/posts/2025-01-01-same.html")
	second, _ := afero.Exists(fs, "/site/posts/2025-01-01-same-"+hash8("b/same.md")+".html")
	assert.True(t, first)
	assert.True(t, second)
}

func TestImportAll_DryRunWritesNothing(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/hello.md", publishedDraft)

	n, err := im.ImportAll(context.Background(), mdDir, siteRoot, true)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	exists, _ := afero.DirExists(fs, siteRoot)
	assert.False(t, exists)
}

func TestImportAll_GoldmarkEngine(t *testing.T) {
	im, fs := newImporter(config.FromPairs(map[string]string{"markdown_engine": "goldmark"}))
	put(t, fs, "/drafts/t.md", "---\ntitle: T\ncreatedDate: 2025-01-01\npublish: true\n---\n| a | b |\n|---|---|\n| 1 | 2 |\n\n~~gone~~\n")

	_, err := im.ImportAll(context.Background(), mdDir, siteRoot, false)
	require.NoError(t, err)
	page := read(t, fs, "/site/posts/2025-01-01-t.html")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<del>gone</del>")
}

func TestImportAll_MissingDirectory(t *testing.T) {
	im, _ := newImporter(nil)
	_, err := im.ImportAll(context.Background(), "/nope", siteRoot, false)
	require.Error(t, err)
	assert.Equal(t, errors.CategoryIO, errors.GetCategory(err))
}

func TestImportAll_Canceled(t *testing.T) {
	im, fs := newImporter(nil)
	put(t, fs, "/drafts/hello.md", publishedDraft)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := im.ImportAll(ctx, mdDir, siteRoot, false)
	require.Error(t, err)
	assert.Equal(t, 0, n)
}

func TestParseDate(t *testing.T) {
	for _, v := range []string{"2025-01-02", "2025-01-02 10:30", "2025-01-02T10:30:00+09:00", "2025-01-02T10:30:00.5Z"} {
		d, ok := ParseDate(v)
		require.True(t, ok, v)
		assert.Equal(t, "2025-01-02", d.Format("2006-01-02"), v)
	}
	for _, v := range []string{"", "2025-1-2", "02/01/2025", "2025-02-30", "2025-01-02 noon"} {
		_, ok := ParseDate(v)
		assert.False(t, ok, v)
	}
}

func TestFileSlug(t *testing.T) {
	assert.Equal(t, "my-first-post", fileSlug("My First Post.md", "ignored"))
	assert.Equal(t, "hello-world", fileSlug(filepath.Join("x", "한글.md"), "Hello World"))
	assert.Equal(t, "post-"+hash8("日本.md"), fileSlug("日本.md", "東京"))
}

func TestFrontMatterHTML(t *testing.T) {
	assert.Empty(t, FrontMatterHTML(nil))
	assert.Equal(t,
		`<dl class="c-fm__list"><dt>a</dt><dd>&lt;b&gt;</dd><dt>z</dt><dd>1</dd></dl>`,
		FrontMatterHTML(map[string]string{"z": "1", "a": "<b>"}))
}
