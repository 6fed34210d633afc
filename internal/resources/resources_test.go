package resources

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequiredTemplatesPresent(t *testing.T) {
	for _, name := range []string{
		HomeTemplate, PostsIndexTemplate, ArchivesTemplate, TagsIndexTemplate, TagTemplate,
		CategoriesIndexTemplate, CategoryTemplate, SeriesIndexTemplate, SeriesTemplate,
		FeedTemplate, SitemapTemplate, PostTemplate, MarkdownPostTemplate,
		FaviconFile, ManifestFile, RobotsFile, "partials/header.html", "partials/footer.html",
	} {
		assert.True(t, Has(name), name)
	}
}

func TestRead(t *testing.T) {
	body, err := Read(FeedTemplate)
	require.NoError(t, err)
	assert.Contains(t, body, "{{FEED_ITEMS}}")

	_, err = Read("nope.html")
	require.Error(t, err)
}

func TestMarkdownTemplateCarriesImportTokens(t *testing.T) {
	body, err := Read(MarkdownPostTemplate)
	require.NoError(t, err)
	for _, tok := range []string{"{{TITLE}}", "{{DATE}}", "{{CONTENT_HTML}}", "{{SERIES_NAV}}", "FM_BLOCK_START"} {
		assert.True(t, strings.Contains(body, tok), tok)
	}
}

func TestAssetsWalkable(t *testing.T) {
	var files []string
	require.NoError(t, fs.WalkDir(FS(), AssetsDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	}))
	assert.Contains(t, files, "assets/css/site.css")
}
