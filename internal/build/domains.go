package build

import (
	"regexp"
	"strings"
)

var (
	feedPostURL = regexp.MustCompile(`https?://[^<]*/posts/`)
	feedLink    = regexp.MustCompile(`(<link>)https?://[^<]*(</link>)`)
	absoluteURL = regexp.MustCompile(`https?://[^<]+`)
	urlOrigin   = regexp.MustCompile(`^https?://[^/]+`)
	robotsLine  = regexp.MustCompile(`(?m)^(Sitemap: ).*$`)
)

// SwapFeedDomain points post links and the first channel <link> of an RSS
// document at base.
func SwapFeedDomain(text, base string) string {
	text = feedPostURL.ReplaceAllLiteralString(text, base+"/posts/")
	loc := feedLink.FindStringSubmatchIndex(text)
	if loc == nil {
		return text
	}
	return text[:loc[3]] + base + "/" + text[loc[4]:]
}

// SwapSitemapDomain replaces scheme and host of every URL in a sitemap.
func SwapSitemapDomain(text, base string) string {
	return absoluteURL.ReplaceAllStringFunc(text, func(u string) string {
		return base + urlOrigin.ReplaceAllLiteralString(u, "")
	})
}

// SwapRobotsDomain rewrites every Sitemap line of robots.txt.
func SwapRobotsDomain(text, base string) string {
	return robotsLine.ReplaceAllString(text, "${1}"+strings.ReplaceAll(base, "$", "$$")+"/sitemap.xml")
}
