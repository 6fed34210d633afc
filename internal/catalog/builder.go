// Package catalog derives the generated listing pages of a site from its
// posts: the home page, paginated post and archive indexes, tag, category and
// series pages, the RSS feed and the sitemap.
package catalog

import (
	"context"
	"io/fs"
	"log/slog"
	"path"
	"path/filepath"
	"strconv"
	"time"

	// Feed dates default to Asia/Seoul; embed the zone database so hosts
	// without one still resolve it.
	_ "time/tzdata"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/resources"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// DefaultFeedTimezone is used for RSS pubDate unless feed_timezone is set.
const DefaultFeedTimezone = "Asia/Seoul"

// Builder writes catalog pages. Source is read for posts; Output receives
// the pages and is scanned as a fallback when Source has no posts.
type Builder struct {
	Logger    *slog.Logger
	Source    afero.Fs
	Output    afero.Fs
	Templates fs.FS
	Recorder  metrics.Recorder
	Now       func() time.Time
}

// Report summarizes one catalog run.
type Report struct {
	Posts int
	Pages []string // output-relative, slash-separated
}

// NewBuilder returns a builder over the given filesystems using the embedded
// default templates.
func NewBuilder(logger *slog.Logger, source, output afero.Fs) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		Logger:    logger,
		Source:    source,
		Output:    output,
		Templates: resources.FS(),
		Recorder:  metrics.NoopRecorder{},
		Now:       time.Now,
	}
}

// Generate runs the catalog and reports the outcome as a Result.
func (b *Builder) Generate(ctx context.Context, src, out string, cfg *config.Site) errors.Result {
	_, err := b.Run(ctx, src, out, cfg)
	return errors.Fail(err)
}

// Run generates every catalog page and returns what was written.
func (b *Builder) Run(ctx context.Context, src, out string, cfg *config.Site) (Report, error) {
	if cfg == nil {
		cfg = config.Defaults()
	}
	r := &run{b: b, out: out, cfg: cfg, logger: b.logger()}

	posts, err := b.scan(src, out)
	if err != nil {
		return Report{}, err
	}
	r.report.Posts = len(posts)
	r.tokens = templates.SiteTokens(cfg, b.now())

	steps := []func([]content.Post) error{
		r.home,
		r.postsIndex,
		r.archives,
		r.tags,
		r.categories,
		r.series,
		r.feed,
		r.sitemap,
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return r.report, errors.WrapError(err, errors.CategoryUnknown, "catalog canceled").Build()
		}
		if err := step(posts); err != nil {
			return r.report, err
		}
	}
	metrics.OrNoop(b.Recorder).AddPagesWritten("catalog", len(r.report.Pages))
	r.logger.Info("Catalog generated", logfields.Count(len(r.report.Pages)), slog.Int("posts", len(posts)))
	return r.report, nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.Default()
	}
	return b.Logger
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) scan(src, out string) ([]content.Post, error) {
	scanner := &content.Scanner{Logger: b.logger(), Recorder: b.Recorder}
	posts, err := scanner.ScanPosts(b.Source, src)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIO, "scan posts").WithContext("path", src).Build()
	}
	if len(posts) > 0 || filepath.Clean(src) == filepath.Clean(out) {
		return posts, nil
	}
	alt, err := scanner.ScanPosts(b.Output, out)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIO, "scan output posts").WithContext("path", out).Build()
	}
	if len(alt) > 0 {
		b.logger().Debug("Using posts from output tree", logfields.Path(out), logfields.Count(len(alt)))
	}
	return alt, nil
}

// run carries the state of one Run call.
type run struct {
	b      *Builder
	out    string
	cfg    *config.Site
	logger *slog.Logger
	tokens *templates.Tokens
	report Report
}

func (r *run) template(name string) (string, error) {
	data, err := fs.ReadFile(r.b.Templates, name)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryIO, "missing template "+name).Build()
	}
	return string(data), nil
}

func (r *run) write(rel, body string) error {
	target := filepath.Join(r.out, filepath.FromSlash(rel))
	if err := r.b.Output.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create directory").WithContext("path", target).Build()
	}
	if err := afero.WriteFile(r.b.Output, target, []byte(body), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "write page").WithContext("path", target).Build()
	}
	r.report.Pages = append(r.report.Pages, rel)
	r.logger.Debug("Wrote catalog page", logfields.Page(rel))
	return nil
}

// render applies the site tokens plus extra key/value pairs to tpl.
func (r *run) render(tpl string, kv ...string) string {
	local := r.tokens.Clone()
	for i := 0; i+1 < len(kv); i += 2 {
		local.Set(kv[i], kv[i+1])
	}
	return templates.Apply(tpl, local)
}

func (r *run) navLabels() NavLabels {
	return NavLabels{
		Prev: r.cfg.String("pagination_prev_label", "Previous"),
		Next: r.cfg.String("pagination_next_label", "Next"),
	}
}

func (r *run) home(posts []content.Post) error {
	tpl, err := r.template(resources.HomeTemplate)
	if err != nil {
		r.logger.Debug("No home template, skipping home page", logfields.Error(err))
		return nil
	}
	featured := "<p>No posts yet.</p>"
	if len(posts) > 0 {
		featured = Card(posts[0])
	}
	recent := ""
	if len(posts) > 1 {
		limit := r.cfg.Int("home_recent_limit", 5)
		recent = Cards(posts[1:min(1+limit, len(posts))])
	}
	return r.write("index.html", r.render(tpl,
		"HOME_LATEST_HEADING", r.cfg.String("home_latest_heading", "Just published"),
		"HOME_RECENT_HEADING", r.cfg.String("home_recent_heading", "Recent posts"),
		"HOME_MORE_LABEL", r.cfg.String("home_more_label", "More: all posts"),
		"HOME_FEATURED", featured,
		"HOME_RECENT", recent,
	))
}

func (r *run) postsIndex(posts []content.Post) error {
	tpl, err := r.template(resources.PostsIndexTemplate)
	if err != nil {
		return err
	}
	size := r.cfg.Int("posts_page_size", 10)
	total := Paginate(len(posts), size)
	for page := 1; page <= total; page++ {
		slice := pageSlice(posts, page, size)
		html := r.render(tpl,
			"POSTS_CARDS", Cards(slice),
			"POSTS_SECTIONS", YearSections(slice),
			"POSTS_PAGINATION", Nav(page, total, r.navLabels(), PostsHref),
			"POSTS_CANONICAL_PATH", PostsHref(page),
			"ARCHIVE_MORE_LABEL", r.cfg.String("archive_more_label", "More: archives"),
		)
		rel := "posts/index.html"
		if page > 1 {
			rel = path.Join("posts/page", strconv.Itoa(page), "index.html")
		}
		if err := r.write(rel, html); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) archives(posts []content.Post) error {
	tpl, err := r.template(resources.ArchivesTemplate)
	if err != nil {
		return err
	}
	size := r.cfg.IntFallback("archives_page_size", "posts_page_size", 0)
	total := Paginate(len(posts), size)
	for page := 1; page <= total; page++ {
		slice := pageSlice(posts, page, size)
		html := r.render(tpl,
			"ARCHIVE_SECTIONS", YearSections(slice),
			"ARCHIVE_LIST", ArchiveList(slice),
			"ARCHIVE_PAGINATION", Nav(page, total, r.navLabels(), ArchivesHref),
			"ARCHIVES_CANONICAL_PATH", ArchivesHref(page),
		)
		rel := "archives.html"
		if page > 1 {
			rel = path.Join("archives/page", strconv.Itoa(page), "index.html")
		}
		if err := r.write(rel, html); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) tags(posts []content.Post) error {
	groups := GroupTags(posts)
	indexTpl, err := r.template(resources.TagsIndexTemplate)
	if err != nil {
		return err
	}
	if err := r.write("tags/index.html", r.render(indexTpl, "TAGS_LIST", TagsList(r.cfg, groups))); err != nil {
		return err
	}

	tpl, err := r.template(resources.TagTemplate)
	if err != nil {
		return err
	}
	size := r.cfg.IntFallback("tags_page_size", "posts_page_size", 0)
	for _, g := range groups {
		total := Paginate(len(g.Posts), size)
		href := func(n int) string { return TagHref(g.Tag, n) }
		for page := 1; page <= total; page++ {
			html := r.render(tpl,
				"TAG_NAME", TagLabel(r.cfg, g.Tag),
				"TAG_SLUG", g.Tag,
				"TAG_CANONICAL_PATH", TagHref(g.Tag, page),
				"TAG_POSTS", PostsList(pageSlice(g.Posts, page, size)),
				"TAG_PAGINATION", Nav(page, total, r.navLabels(), href),
			)
			rel := "tags/" + g.Tag + ".html"
			if page > 1 {
				rel = path.Join("tags", g.Tag, "page", strconv.Itoa(page), "index.html")
			}
			if err := r.write(rel, html); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *run) categories(posts []content.Post) error {
	root := BuildCategoryTree(posts)
	if len(root.Children) == 0 {
		return nil
	}
	indexTpl, err := r.template(resources.CategoriesIndexTemplate)
	if err != nil {
		return err
	}
	if err := r.write("categories/index.html", r.render(indexTpl,
		"CATEGORIES_EXPLORER", Explorer(r.cfg, root),
	)); err != nil {
		return err
	}

	tpl, err := r.template(resources.CategoryTemplate)
	if err != nil {
		return err
	}
	// Every node gets a page, including prefixes the explorer links to. A
	// page lists its own posts and those of all subcategories.
	var werr error
	root.Walk(func(n *CategoryNode) {
		if werr != nil {
			return
		}
		html := r.render(tpl,
			"CATEGORY_PATH", "/categories/"+n.Path+"/",
			"CATEGORY_LABEL", PathLabel(r.cfg, n.Path),
			"CATEGORY_POSTS", PostsList(n.Subtree()),
		)
		werr = r.write(path.Join("categories", n.Path, "index.html"), html)
	})
	return werr
}

func (r *run) series(posts []content.Post) error {
	groups := GroupSeries(posts)
	if len(groups) == 0 {
		return nil
	}
	indexTpl, err := r.template(resources.SeriesIndexTemplate)
	if err != nil {
		return err
	}
	if err := r.write("series/index.html", r.render(indexTpl, "SERIES_LIST", SeriesList(groups))); err != nil {
		return err
	}
	tpl, err := r.template(resources.SeriesTemplate)
	if err != nil {
		return err
	}
	for _, s := range groups {
		html := r.render(tpl,
			"SERIES_NAME", Escape(s.Title),
			"SERIES_CANONICAL_PATH", "/series/"+s.Slug+"/",
			"SERIES_POSTS", PostsList(s.Posts),
		)
		if err := r.write(path.Join("series", s.Slug, "index.html"), html); err != nil {
			return err
		}
	}
	return nil
}

func (r *run) feed(posts []content.Post) error {
	tpl, err := r.template(resources.FeedTemplate)
	if err != nil {
		return err
	}
	return r.write("feed.xml", r.render(tpl, "FEED_ITEMS", FeedItems(r.cfg.BaseURL(), posts, r.feedLocation())))
}

func (r *run) feedLocation() *time.Location {
	name := r.cfg.String("feed_timezone", DefaultFeedTimezone)
	loc, err := time.LoadLocation(name)
	if err != nil {
		r.logger.Warn("Unknown feed timezone, using UTC", logfields.Name(name), logfields.Error(err))
		return time.UTC
	}
	return loc
}

func (r *run) sitemap(posts []content.Post) error {
	tpl, err := r.template(resources.SitemapTemplate)
	if err != nil {
		return err
	}
	return r.write("sitemap.xml", r.render(tpl, "SITEMAP_POST_URLS", SitemapURLs(r.cfg.BaseURL(), posts)))
}
