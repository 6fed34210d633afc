// Package config holds the site configuration: four well-known fields plus an
// open-ended set of string extras interpreted by name across the build.
package config

import (
	"sort"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/flatjson"
)

// Well-known keys in site.json / site.yaml.
const (
	KeyDomain    = "domain"
	KeySiteName  = "site_name"
	KeyRSSTitle  = "rss_title"
	KeyOGDefault = "og_default"
)

// Built-in defaults.
const (
	DefaultDomain    = "https://site.example"
	DefaultSiteName  = "Classic Shelf"
	DefaultOGDefault = "/og/default.jpg"
)

// Site is the process-wide build configuration. It is read-only once loaded.
type Site struct {
	Domain    string
	SiteName  string
	RSSTitle  string
	OGDefault string
	Extras    map[string]string

	// Source names where the configuration came from ("defaults" or a path).
	Source string
}

// Defaults returns the built-in configuration.
func Defaults() *Site {
	return &Site{
		Domain:    DefaultDomain,
		SiteName:  DefaultSiteName,
		RSSTitle:  DefaultSiteName,
		OGDefault: DefaultOGDefault,
		Extras: map[string]string{
			"site_description":      "Classic texts, comfortable reading",
			"contact_email":         "hello@example.com",
			"nav_home_label":        "Home",
			"nav_about_label":       "About",
			"nav_posts_label":       "Posts",
			"posts_page_size":       "10",
			"home_recent_limit":     "5",
			"archive_more_label":    "More: archives",
			"pagination_prev_label": "Previous",
			"pagination_next_label": "Next",
			"copyright":             "",
		},
		Source: "defaults",
	}
}

// FromPairs builds a Site from flat key/value pairs. Missing well-known keys
// take their defaults; every other key becomes an extra.
func FromPairs(pairs map[string]string) *Site {
	s := &Site{
		Domain:    pick(pairs, KeyDomain, DefaultDomain),
		SiteName:  pick(pairs, KeySiteName, DefaultSiteName),
		RSSTitle:  pick(pairs, KeyRSSTitle, DefaultSiteName),
		OGDefault: pick(pairs, KeyOGDefault, DefaultOGDefault),
		Extras:    make(map[string]string, len(pairs)),
	}
	for k, v := range pairs {
		switch k {
		case KeyDomain, KeySiteName, KeyRSSTitle, KeyOGDefault:
			continue
		}
		s.Extras[k] = v
	}
	return s
}

func pick(m map[string]string, key, def string) string {
	if v, ok := m[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// BaseURL is Domain without a trailing slash.
func (s *Site) BaseURL() string {
	return strings.TrimRight(s.Domain, "/")
}

// String returns the extra named key, or def when it is missing or blank.
func (s *Site) String(key, def string) string {
	if v, ok := s.Extras[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

// Int returns the extra named key as a non-negative integer. Missing,
// malformed or negative values yield def.
func (s *Site) Int(key string, def int) int {
	v, ok := s.Extras[key]
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return def
	}
	return n
}

// IntFallback reads key when it is set, otherwise fallback, otherwise def.
func (s *Site) IntFallback(key, fallback string, def int) int {
	if _, ok := s.Extras[key]; ok {
		return s.Int(key, def)
	}
	return s.Int(fallback, def)
}

// Bool reports whether the extra named key is the literal "true" (case-insensitive).
func (s *Site) Bool(key string) bool {
	return strings.EqualFold(strings.TrimSpace(s.Extras[key]), "true")
}

// Labels parses a label mapping extra of the form "slug:Label,slug2:Label2".
// Keys are trimmed and lower-cased; entries without a colon are ignored and
// the first entry for a key wins.
func (s *Site) Labels(key string) map[string]string {
	out := map[string]string{}
	raw := s.Extras[key]
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		k = strings.ToLower(strings.TrimSpace(k))
		if _, seen := out[k]; seen {
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// Label looks slug up in the mapping extra key. An empty mapped label counts
// as unmapped.
func (s *Site) Label(key, slug string) (string, bool) {
	v, ok := s.Labels(key)[slug]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// JSON renders the configuration as a flat site.json document: well-known
// keys first, then extras in key order.
func (s *Site) JSON() string {
	pairs := []flatjson.Pair{
		{Key: KeyDomain, Value: s.Domain},
		{Key: KeySiteName, Value: s.SiteName},
		{Key: KeyRSSTitle, Value: s.RSSTitle},
		{Key: KeyOGDefault, Value: s.OGDefault},
	}
	keys := make([]string, 0, len(s.Extras))
	for k := range s.Extras {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pairs = append(pairs, flatjson.Pair{Key: k, Value: s.Extras[k]})
	}
	return flatjson.Encode(pairs)
}
