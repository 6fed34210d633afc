package catalog

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// Card renders a post as a listing card.
func Card(p content.Post) string {
	var b strings.Builder
	b.WriteString("<article class=\"c-dos-post\">\n")
	if p.HasSeries() {
		b.WriteString("  " + SeriesBadge(slug.Of(p.Series), p.Series) + "\n")
	}
	b.WriteString(`  <h3 class="c-dos-post__title"><a href="` + p.URL + `">` + Escape(p.Title) + "</a></h3>\n")
	b.WriteString(`  <div class="c-dos-post__meta">[` + p.DateString() + "]</div>\n")
	if strings.TrimSpace(p.Description) != "" {
		b.WriteString(`  <p class="c-dos-post__desc">` + Escape(p.Description) + "</p>\n")
	}
	b.WriteString("  <hr class=\"c-dos\" />\n")
	b.WriteString("</article>\n")
	return b.String()
}

// Cards renders every post as a card.
func Cards(posts []content.Post) string {
	var b strings.Builder
	for _, p := range posts {
		b.WriteString(Card(p))
	}
	return b.String()
}

// PostsList renders dated list items for tag, category and series pages.
func PostsList(posts []content.Post) string {
	var b strings.Builder
	for _, p := range posts {
		d := p.DateString()
		b.WriteString("          <li>\n")
		b.WriteString(`            <time datetime="` + d + `">` + d + "</time>\n")
		b.WriteString(`            — <a href="` + p.URL + `">` + Escape(p.Title) + "</a>\n")
		b.WriteString("          </li>\n")
	}
	return b.String()
}

// ArchiveList renders compact archive rows.
func ArchiveList(posts []content.Post) string {
	var b strings.Builder
	for _, p := range posts {
		b.WriteString(`          <li><a class="c-dos-arch__link" href="` + p.URL + `">` +
			`<span class="c-dos-arch__date">` + p.DateString() + `</span>` +
			`<span class="c-dos-arch__rule"></span>` +
			`<span class="c-dos-arch__title">` + Escape(p.Title) + "</span></a></li>\n")
	}
	return b.String()
}

// YearSections groups archive rows under one section per year, newest year first.
func YearSections(posts []content.Post) string {
	byYear := map[string][]content.Post{}
	var years []string
	for _, p := range posts {
		y := p.Year()
		if _, ok := byYear[y]; !ok {
			years = append(years, y)
		}
		byYear[y] = append(byYear[y], p)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(years)))

	var b strings.Builder
	for _, y := range years {
		b.WriteString(`        <section class="u-flow" aria-labelledby="y` + y + "\">\n")
		b.WriteString(`          <h2 id="y` + y + `">` + y + "</h2>\n")
		b.WriteString("          <ul class=\"c-dos-arch\">\n")
		b.WriteString(ArchiveList(byYear[y]))
		b.WriteString("          </ul>\n")
		b.WriteString("        </section>\n")
	}
	return b.String()
}

// TagGroup is one tag with its posts, newest first.
type TagGroup struct {
	Tag   string
	Posts []content.Post
}

// GroupTags buckets posts by tag, with untagged posts under Untagged.
// Groups are sorted by tag.
func GroupTags(posts []content.Post) []TagGroup {
	by := map[string][]content.Post{}
	for _, p := range posts {
		if len(p.Tags) == 0 {
			by[Untagged] = append(by[Untagged], p)
		}
		for _, t := range p.Tags {
			by[t] = append(by[t], p)
		}
	}
	tags := make([]string, 0, len(by))
	for t := range by {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	out := make([]TagGroup, len(tags))
	for i, t := range tags {
		out[i] = TagGroup{Tag: t, Posts: by[t]}
	}
	return out
}

// TagsList renders the tag index entries.
func TagsList(cfg *config.Site, groups []TagGroup) string {
	var b strings.Builder
	for _, g := range groups {
		b.WriteString(`          <li><a href="/tags/` + g.Tag + `.html">` + Escape(TagLabel(cfg, g.Tag)) + "</a></li>\n")
	}
	return b.String()
}

// CategoryNode is one segment of the category tree.
type CategoryNode struct {
	Name     string
	Path     string
	Children map[string]*CategoryNode
	Posts    []content.Post // posts whose path ends at this node
}

// BuildCategoryTree arranges posts with a category path into a segment tree.
func BuildCategoryTree(posts []content.Post) *CategoryNode {
	root := &CategoryNode{Children: map[string]*CategoryNode{}}
	for _, p := range posts {
		segs := splitPath(p.CategoryPath)
		if len(segs) == 0 {
			continue
		}
		cur := root
		for _, s := range segs {
			next, ok := cur.Children[s]
			if !ok {
				full := s
				if cur.Path != "" {
					full = cur.Path + "/" + s
				}
				next = &CategoryNode{Name: s, Path: full, Children: map[string]*CategoryNode{}}
				cur.Children[s] = next
			}
			cur = next
		}
		cur.Posts = append(cur.Posts, p)
	}
	return root
}

// SortedChildren returns the children ordered by segment name.
func (n *CategoryNode) SortedChildren() []*CategoryNode {
	keys := make([]string, 0, len(n.Children))
	for k := range n.Children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]*CategoryNode, len(keys))
	for i, k := range keys {
		out[i] = n.Children[k]
	}
	return out
}

// Walk visits every node below n depth-first in name order.
func (n *CategoryNode) Walk(fn func(*CategoryNode)) {
	for _, c := range n.SortedChildren() {
		fn(c)
		c.Walk(fn)
	}
}

// Subtree returns the posts at n and below, newest first.
func (n *CategoryNode) Subtree() []content.Post {
	out := append([]content.Post(nil), n.Posts...)
	n.Walk(func(c *CategoryNode) { out = append(out, c.Posts...) })
	content.SortPosts(out)
	return out
}

// Explorer renders the category tree as nested <details> blocks.
func Explorer(cfg *config.Site, root *CategoryNode) string {
	var b strings.Builder
	b.WriteString("<div class=\"c-tree\">\n")
	for _, c := range root.SortedChildren() {
		renderNode(&b, cfg, c)
	}
	b.WriteString("</div>\n")
	return b.String()
}

func renderNode(b *strings.Builder, cfg *config.Site, n *CategoryNode) {
	b.WriteString("<details>\n")
	b.WriteString(`  <summary>📁 <a href="/categories/` + n.Path + `/">` + Escape(SegmentLabel(cfg, n.Name)) + "</a></summary>\n")
	for _, c := range n.SortedChildren() {
		renderNode(b, cfg, c)
	}
	if len(n.Posts) > 0 {
		b.WriteString("  <ul class=\"c-tree__posts\">\n")
		for _, p := range n.Posts {
			b.WriteString(`    <li>📄 <a href="` + p.URL + `">` + Escape(p.Title) + "</a></li>\n")
		}
		b.WriteString("  </ul>\n")
	}
	b.WriteString("</details>\n")
}

// SeriesList renders the series index entries with post counts.
func SeriesList(series []Series) string {
	var b strings.Builder
	for _, s := range series {
		b.WriteString(`          <li><a href="/series/` + s.Slug + `/">` + Escape(s.Title) + "</a> ( " + strconv.Itoa(len(s.Posts)) + " )</li>\n")
	}
	return b.String()
}

// FeedItems renders RSS <item> elements. pubDate is the start of the post's
// day in loc, formatted per RFC 1123 with a numeric zone.
func FeedItems(base string, posts []content.Post, loc *time.Location) string {
	var b strings.Builder
	for _, p := range posts {
		link := base + p.URL
		day := time.Date(p.Date.Year(), p.Date.Month(), p.Date.Day(), 0, 0, 0, 0, loc)
		b.WriteString("    <item>\n")
		b.WriteString("      <title>" + Escape(p.Title) + "</title>\n")
		b.WriteString("      <link>" + link + "</link>\n")
		b.WriteString(`      <guid isPermaLink="true">` + link + "</guid>\n")
		b.WriteString("      <pubDate>" + day.Format(time.RFC1123Z) + "</pubDate>\n")
		if strings.TrimSpace(p.Description) != "" {
			b.WriteString("      <description>" + Escape(p.Description) + "</description>\n")
		}
		b.WriteString("    </item>\n")
	}
	return b.String()
}

// SitemapURLs renders one <url> entry per post.
func SitemapURLs(base string, posts []content.Post) string {
	var b strings.Builder
	for _, p := range posts {
		b.WriteString("  <url><loc>" + base + p.URL + "</loc></url>\n")
	}
	return b.String()
}
