package catalog

import (
	"slices"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// Series is one named sequence of posts in reading order.
type Series struct {
	Slug  string
	Title string
	Posts []content.Post
}

// GroupSeries collects posts by series slug. Groups keep the order in which
// their first post appears in posts; posts within a group are sorted by
// SeriesOrder ascending (unordered last), then by date ascending.
func GroupSeries(posts []content.Post) []Series {
	var out []Series
	index := map[string]int{}
	for _, p := range posts {
		if !p.HasSeries() {
			continue
		}
		s := slug.Of(p.Series)
		i, ok := index[s]
		if !ok {
			i = len(out)
			index[s] = i
			out = append(out, Series{Slug: s, Title: p.Series})
		}
		out[i].Posts = append(out[i].Posts, p)
	}
	for i := range out {
		slices.SortStableFunc(out[i].Posts, compareSeriesOrder)
	}
	return out
}

func compareSeriesOrder(a, b content.Post) int {
	switch {
	case a.SeriesOrder != nil && b.SeriesOrder != nil:
		if *a.SeriesOrder != *b.SeriesOrder {
			return *a.SeriesOrder - *b.SeriesOrder
		}
	case a.SeriesOrder != nil:
		return -1
	case b.SeriesOrder != nil:
		return 1
	}
	return a.Date.Compare(b.Date)
}

// SeriesLinks is the per-post series decoration.
type SeriesLinks struct {
	Badge string
	Nav   string // "" when the post has no neighbours
}

// SeriesContext maps each series post URL to its badge and prev/next nav.
func SeriesContext(posts []content.Post) map[string]SeriesLinks {
	ctx := map[string]SeriesLinks{}
	for _, s := range GroupSeries(posts) {
		badge := SeriesBadge(s.Slug, s.Title)
		for i, cur := range s.Posts {
			var prev, next *content.Post
			if i > 0 {
				prev = &s.Posts[i-1]
			}
			if i < len(s.Posts)-1 {
				next = &s.Posts[i+1]
			}
			ctx[cur.URL] = SeriesLinks{Badge: badge, Nav: seriesNav(prev, next)}
		}
	}
	return ctx
}

// SeriesBadge links to the series page.
func SeriesBadge(seriesSlug, title string) string {
	return `<div class="c-series-badge"><a href="/series/` + seriesSlug + `/">` + Escape(title) + `</a></div>`
}

func seriesNav(prev, next *content.Post) string {
	if prev == nil && next == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<nav class="c-series-nav"><ul class="c-series-nav__list">`)
	if prev != nil {
		b.WriteString(`<li><a href="` + prev.URL + `">← ` + Escape(prev.Title) + `</a></li>`)
	}
	if next != nil {
		b.WriteString(`<li><a href="` + next.URL + `">` + Escape(next.Title) + ` →</a></li>`)
	}
	b.WriteString(`</ul></nav>`)
	return b.String()
}
