package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// Paginate returns the number of pages needed for n items at size per page.
// A non-positive size, or n not exceeding size, means a single page.
func Paginate(n, size int) int {
	if size <= 0 || n <= size {
		return 1
	}
	return (n + size - 1) / size
}

// pageSlice returns the items of page (1-based).
func pageSlice[T any](items []T, page, size int) []T {
	if size <= 0 || len(items) <= size {
		return items
	}
	from := (page - 1) * size
	if from >= len(items) {
		return nil
	}
	to := min(from+size, len(items))
	return items[from:to]
}

// PageNumbers returns the page numbers shown in a pagination bar: the first
// and last page, the current page and its neighbours, page 2 when near the
// start and the second-to-last page when near the end.
func PageNumbers(cur, total int) []int {
	if total < 1 {
		return nil
	}
	set := map[int]bool{1: true, total: true}
	for i := cur - 1; i <= cur+1; i++ {
		if i >= 1 && i <= total {
			set[i] = true
		}
	}
	if cur <= 3 && total >= 2 {
		set[2] = true
	}
	if cur >= total-2 && total-1 >= 1 {
		set[total-1] = true
	}
	out := make([]int, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// NavLabels are the texts of the previous/next links.
type NavLabels struct {
	Prev string
	Next string
}

// Nav renders the pagination bar for page cur of total. A single page yields "".
func Nav(cur, total int, labels NavLabels, href func(int) string) string {
	if total <= 1 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<nav class="c-pagination" aria-label="Pagination">`)
	if cur > 1 {
		b.WriteString(`<a class="c-pagination__prev" rel="prev" href="` + href(cur-1) + `">` + Escape(labels.Prev) + `</a> `)
	}
	prev := 0
	for _, n := range PageNumbers(cur, total) {
		if prev != 0 && n-prev > 1 {
			b.WriteString(`<span class="c-pagination__ellipsis">…</span> `)
		}
		if n == cur {
			b.WriteString(`<strong class="is-current">` + strconv.Itoa(n) + `</strong>`)
		} else {
			b.WriteString(`<a href="` + href(n) + `">` + strconv.Itoa(n) + `</a>`)
		}
		b.WriteString(" ")
		prev = n
	}
	if cur < total {
		b.WriteString(`<a class="c-pagination__next" rel="next" href="` + href(cur+1) + `">` + Escape(labels.Next) + `</a>`)
	}
	b.WriteString(`</nav>`)
	return b.String()
}

// PostsHref links page n of the posts index.
func PostsHref(n int) string {
	if n <= 1 {
		return "/posts/"
	}
	return "/posts/page/" + strconv.Itoa(n) + "/"
}

// ArchivesHref links page n of the archives.
func ArchivesHref(n int) string {
	if n <= 1 {
		return "/archives.html"
	}
	return "/archives/page/" + strconv.Itoa(n) + "/"
}

// TagHref links page n of a tag listing.
func TagHref(tag string, n int) string {
	if n <= 1 {
		return "/tags/" + tag + ".html"
	}
	return "/tags/" + tag + "/page/" + strconv.Itoa(n) + "/"
}

// Escape escapes &, < and > for text content.
func Escape(s string) string {
	return htmlEscaper.Replace(s)
}

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
