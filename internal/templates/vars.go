package templates

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// SiteTokens returns the site-wide token map every page starts from. now
// supplies YEAR. Extras are exposed upper-cased unless a well-known token of
// the same name already exists.
func SiteTokens(cfg *config.Site, now time.Time) *Tokens {
	if cfg == nil {
		cfg = config.Defaults()
	}
	base := cfg.BaseURL()
	year := strconv.Itoa(now.Year())

	t := NewTokens()
	t.Set("DOMAIN", base)
	t.Set("SITE_NAME", cfg.SiteName)
	t.Set("RSS_TITLE", cfg.RSSTitle)
	t.Set("OG_DEFAULT", cfg.OGDefault)
	t.Set("OG_IMAGE", base+cfg.OGDefault)
	t.Set("YEAR", year)
	t.Set("SITE_DESCRIPTION", cfg.Extras["site_description"])
	t.Set("CONTACT_EMAIL", cfg.Extras["contact_email"])
	t.Set("NAV_HOME_LABEL", cfg.String("nav_home_label", "Home"))
	t.Set("NAV_ABOUT_LABEL", cfg.String("nav_about_label", "About"))
	t.Set("NAV_POSTS_LABEL", cfg.String("nav_posts_label", "Posts"))
	t.Set("COPYRIGHT", cfg.String("copyright", "© "+year+" "+cfg.SiteName))

	keys := make([]string, 0, len(cfg.Extras))
	for k := range cfg.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t.SetDefault(strings.ToUpper(k), cfg.Extras[k])
	}
	return t
}
