// Package resources embeds the default site templates, partials and assets.
package resources

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed all:templates
var embedded embed.FS

// Template paths used by the catalog, importer and scaffolding.
const (
	HomeTemplate            = "index.html"
	PostsIndexTemplate      = "posts/index.html"
	ArchivesTemplate        = "archives.html"
	TagsIndexTemplate       = "tags/index.html"
	TagTemplate             = "tags/tag-template.html"
	CategoriesIndexTemplate = "categories/index.html"
	CategoryTemplate        = "categories/category-template.html"
	SeriesIndexTemplate     = "series/index.html"
	SeriesTemplate          = "series/series-template.html"
	FeedTemplate            = "feed.xml"
	SitemapTemplate         = "sitemap.xml"
	PostTemplate            = "posts/post-template.html"
	MarkdownPostTemplate    = "posts/post-md-template.html"
	PartialsDir             = "partials"
	AssetsDir               = "assets"
	FaviconFile             = "favicon.svg"
	ManifestFile            = "site.webmanifest"
	RobotsFile              = "robots.txt"
)

// FS returns the template tree rooted at its top directory.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates missing: %v", err))
	}
	return sub
}

// Read returns the named template as a string.
func Read(name string) (string, error) {
	b, err := fs.ReadFile(FS(), name)
	if err != nil {
		return "", fmt.Errorf("missing resource %s: %w", name, err)
	}
	return string(b), nil
}

// Has reports whether the named resource exists.
func Has(name string) bool {
	_, err := fs.Stat(FS(), name)
	return err == nil
}
