package config

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFromPairs_DefaultsForBlankWellKnownKeys(t *testing.T) {
	s := FromPairs(map[string]string{"domain": "  ", "site_name": "Shelf", "tag_labels": "go:Go"})
	assert.Equal(t, DefaultDomain, s.Domain)
	assert.Equal(t, "Shelf", s.SiteName)
	assert.Equal(t, DefaultSiteName, s.RSSTitle)
	assert.Equal(t, DefaultOGDefault, s.OGDefault)
	assert.Equal(t, map[string]string{"tag_labels": "go:Go"}, s.Extras)
}

func TestSite_Accessors(t *testing.T) {
	s := FromPairs(map[string]string{
		"domain":            "https://blog.example/",
		"posts_page_size":   "3",
		"tags_page_size":    "-1",
		"home_recent_limit": "abc",
		"frontmatter_show":  "TRUE",
		"empty":             "",
	})
	assert.Equal(t, "https://blog.example", s.BaseURL())
	assert.Equal(t, 3, s.Int("posts_page_size", 10))
	assert.Equal(t, 10, s.Int("tags_page_size", 10))
	assert.Equal(t, 5, s.Int("home_recent_limit", 5))
	assert.Equal(t, 7, s.Int("missing", 7))
	assert.True(t, s.Bool("frontmatter_show"))
	assert.False(t, s.Bool("missing"))
	assert.Equal(t, "fallback", s.String("empty", "fallback"))
	assert.Equal(t, 3, s.IntFallback("archives_page_size", "posts_page_size", 0))
	assert.Equal(t, 0, s.IntFallback("tags_page_size", "posts_page_size", 0))
}

func TestSite_Labels(t *testing.T) {
	s := FromPairs(map[string]string{"category_labels": " Go : Golang ,web:Web,go:Other,bogus, empty: "})
	labels := s.Labels("category_labels")
	assert.Equal(t, "Golang", labels["go"])
	assert.Equal(t, "Web", labels["web"])
	assert.NotContains(t, labels, "bogus")

	v, ok := s.Label("category_labels", "go")
	assert.True(t, ok)
	assert.Equal(t, "Golang", v)

	_, ok = s.Label("category_labels", "empty")
	assert.False(t, ok)
	_, ok = s.Label("category_labels", "none")
	assert.False(t, ok)
}

func TestSite_JSONWellKnownFirst(t *testing.T) {
	s := FromPairs(map[string]string{"domain": "https://a.example", "zeta": "z", "alpha": "a"})
	want := "{\n" +
		"  \"domain\": \"https://a.example\",\n" +
		"  \"site_name\": \"Classic Shelf\",\n" +
		"  \"rss_title\": \"Classic Shelf\",\n" +
		"  \"og_default\": \"/og/default.jpg\",\n" +
		"  \"alpha\": \"a\",\n" +
		"  \"zeta\": \"z\"\n" +
		"}\n"
	assert.Equal(t, want, s.JSON())
}

func TestLoad_Precedence(t *testing.T) {
	t.Setenv(EnvSiteJSON, "")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/site.json", []byte(`{"domain":"https://src.example"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "src/site.yaml", []byte("domain: https://yaml.example\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "other.json", []byte(`{"domain":"https://explicit.example"}`), 0o644))
	require.NoError(t, afero.WriteFile(fs, "env.json", []byte(`{"domain":"https://env.example"}`), 0o644))

	s := Load(quietLogger(), fs, "other.json", "src")
	assert.Equal(t, "https://explicit.example", s.Domain)
	assert.Equal(t, "other.json", s.Source)

	t.Setenv(EnvSiteJSON, "env.json")
	assert.Equal(t, "https://env.example", Load(quietLogger(), fs, "", "src").Domain)

	t.Setenv(EnvSiteJSON, "")
	assert.Equal(t, "https://src.example", Load(quietLogger(), fs, "", "src").Domain)

	require.NoError(t, fs.Remove("src/site.json"))
	assert.Equal(t, "https://yaml.example", Load(quietLogger(), fs, "", "src").Domain)
}

func TestLoad_MissingExplicitFallsThrough(t *testing.T) {
	t.Setenv(EnvSiteJSON, "")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/site.json", []byte(`{"site_name":"Mine"}`), 0o644))

	s := Load(quietLogger(), fs, "nope.json", "src")
	assert.Equal(t, "Mine", s.SiteName)
}

func TestLoad_DefaultsWhenNothingFound(t *testing.T) {
	t.Setenv(EnvSiteJSON, "")
	s := Load(quietLogger(), afero.NewMemMapFs(), "", "src")
	assert.Equal(t, DefaultDomain, s.Domain)
	assert.Equal(t, "defaults", s.Source)
	assert.Equal(t, "10", s.Extras["posts_page_size"])
}

func TestLoad_YAMLExpandsEnvAndSkipsNested(t *testing.T) {
	t.Setenv(EnvSiteJSON, "")
	t.Setenv("BLOG_DOMAIN", "https://env-yaml.example")
	fs := afero.NewMemMapFs()
	yml := "domain: ${BLOG_DOMAIN}\nposts_page_size: 4\nfrontmatter_show: true\nnested:\n  a: b\n"
	require.NoError(t, afero.WriteFile(fs, "src/site.yaml", []byte(yml), 0o644))

	s := Load(quietLogger(), fs, "", "src")
	assert.Equal(t, "https://env-yaml.example", s.Domain)
	assert.Equal(t, 4, s.Int("posts_page_size", 0))
	assert.True(t, s.Bool("frontmatter_show"))
	assert.NotContains(t, s.Extras, "nested")
}

func TestLoad_BrokenYAMLFallsBackToDefaults(t *testing.T) {
	t.Setenv(EnvSiteJSON, "")
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "src/site.yaml", []byte("domain: [unterminated\n"), 0o644))

	s := Load(quietLogger(), fs, "", "src")
	assert.Equal(t, "defaults", s.Source)
}
