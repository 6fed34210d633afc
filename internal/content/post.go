// Package content discovers published posts in a site tree and turns each
// post file plus its optional sidecar into an immutable Post record.
package content

import (
	"strconv"
	"time"
)

// Post is one published entry under posts/.
type Post struct {
	FileName     string // YYYY-MM-DD-<slug>.html
	URL          string // /posts/<FileName>
	Date         time.Time
	Title        string
	Tags         []string // slugs; empty means untagged
	Description  string
	CategoryPath string // slash-separated slugs, "" when uncategorized
	Series       string
	SeriesOrder  *int
	OGImage      string
}

// Year returns the four-digit publication year.
func (p Post) Year() string {
	return strconv.Itoa(p.Date.Year())
}

// DateString returns the publication date as YYYY-MM-DD.
func (p Post) DateString() string {
	return p.Date.Format(time.DateOnly)
}

// HasSeries reports whether the post belongs to a series.
func (p Post) HasSeries() bool {
	return p.Series != ""
}
