package templates

import (
	"regexp"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

var (
	canonicalHref = regexp.MustCompile(`(<link\s+rel="canonical"\s+href=")(https?://[^/"<>]*)`)
	ogURLContent  = regexp.MustCompile(`(<meta\s+property="og:url"\s+content=")(https?://[^/"<>]*)`)
	ogImageTag    = regexp.MustCompile(`(<meta\s+property="og:image"\s+content=")(.*?)"\s*/?>`)
	rssAltTitle   = regexp.MustCompile(`(<link\s+rel="alternate"\s+type="application/rss\+xml"\s+title=")[^"]*(")`)
	schemeHost    = regexp.MustCompile(`^https?://[^/]*`)
)

// RewriteDomain points canonical, og:url and og:image URLs at the configured
// domain and sets the RSS alternate link title to the site name. Paths are
// kept; only scheme and host change. Applying it twice changes nothing more.
func RewriteDomain(html string, cfg *config.Site) string {
	if cfg == nil {
		return html
	}
	domain := cfg.BaseURL()

	html = canonicalHref.ReplaceAllStringFunc(html, func(m string) string {
		return canonicalHref.FindStringSubmatch(m)[1] + domain
	})
	html = ogURLContent.ReplaceAllStringFunc(html, func(m string) string {
		return ogURLContent.FindStringSubmatch(m)[1] + domain
	})
	html = ogImageTag.ReplaceAllStringFunc(html, func(m string) string {
		sub := ogImageTag.FindStringSubmatch(m)
		url := sub[2]
		switch {
		case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
			url = domain + schemeHost.ReplaceAllString(url, "")
		case strings.HasPrefix(url, "/"):
			url = domain + url
		}
		return sub[1] + url + `" />`
	})
	html = rssAltTitle.ReplaceAllStringFunc(html, func(m string) string {
		sub := rssAltTitle.FindStringSubmatch(m)
		return sub[1] + cfg.SiteName + sub[2]
	})
	return html
}
