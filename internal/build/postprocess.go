package build

import (
	"context"
	"encoding/json"
	stdhtml "html"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/catalog"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

const ariaCurrent = `aria-current="page"`

var (
	aboutAnchor      = regexp.MustCompile(`(?is)\s*<a[^>]+href="/?about(?:\.html)?"[^>]*>.*?</a>\s*`)
	frontMatterBlock = regexp.MustCompile(`(?s)<!--\s*FM_BLOCK_START\s*-->.*?<!--\s*FM_BLOCK_END\s*-->`)
	postDate         = regexp.MustCompile(`^/posts/(\d{4}-\d{2}-\d{2})-`)

	literalEscapes = strings.NewReplacer(`\n`, " ", `\r`, " ", `\t`, " ", `\b`, " ")
	controlChars   = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// isTextOutput reports whether a file takes part in post-processing.
func isTextOutput(name string) bool {
	switch path.Ext(name) {
	case ".html", ".xml", ".txt", ".webmanifest":
		return true
	}
	return false
}

func (p *pipeline) postprocess(context.Context) error {
	var files []string
	err := afero.Walk(p.output, p.out, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && isTextOutput(info.Name()) {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryIO, "scan output").WithContext("path", p.out).Build()
	}

	series := p.seriesContext()
	updated := 0
	for _, file := range files {
		data, err := afero.ReadFile(p.output, file)
		if err != nil {
			return errors.WrapError(err, errors.CategoryIO, "read output file").WithContext("path", file).Build()
		}
		rel, err := filepath.Rel(p.out, file)
		if err != nil {
			return errors.WrapError(err, errors.CategoryIO, "resolve output path").WithContext("path", file).Build()
		}
		orig := string(data)
		next := p.render(orig, filepath.ToSlash(rel), file, series)
		if next == orig {
			continue
		}
		if err := p.write(file, []byte(next)); err != nil {
			return err
		}
		updated++
		p.logger.Debug("Post-processed file", logfields.Page(filepath.ToSlash(rel)))
	}
	p.report.Updated += updated
	p.logger.Info("Post-processed output", logfields.Count(len(files)), "updated", updated)
	return nil
}

// seriesContext reads the posts currently in the output to derive series
// badges and prev/next links.
func (p *pipeline) seriesContext() map[string]catalog.SeriesLinks {
	scanner := &content.Scanner{Logger: p.logger, Recorder: metrics.NoopRecorder{}}
	posts, err := scanner.ScanPosts(p.output, p.out)
	if err != nil {
		p.logger.Warn("Failed to scan output posts for series", logfields.Error(err))
		return nil
	}
	return catalog.SeriesContext(posts)
}

// render transforms one output file: includes, about-link removal, front
// matter block toggle, page tokens, token application and domain rewrite.
func (p *pipeline) render(orig, rel, file string, series map[string]catalog.SeriesLinks) string {
	text := p.includer.Expand(orig)
	if !p.hasAbout {
		text = aboutAnchor.ReplaceAllString(text, " ")
	}
	if p.cfg.Bool("frontmatter_show") {
		open := ""
		if p.cfg.Bool("frontmatter_always_open") {
			open = "open"
		}
		text = strings.ReplaceAll(text, "{{FM_OPEN_ATTR}}", open)
	} else {
		text = frontMatterBlock.ReplaceAllString(text, "")
	}

	pagePath := "/" + rel
	local := p.tokens.Clone()
	local.Set("PAGE_PATH", pagePath)
	local.Set("PAGE_URL", p.cfg.BaseURL()+pagePath)
	for _, kv := range sidecarTokens(p.output, file) {
		local.Set(kv[0], kv[1])
	}
	if v, _ := local.Get("PAGE_DESCRIPTION"); strings.TrimSpace(v) == "" {
		desc, _ := local.Get("SITE_DESCRIPTION")
		local.Set("PAGE_DESCRIPTION", desc)
	}

	if path.Dir(pagePath) == "/posts" && path.Ext(pagePath) == ".html" {
		category, _ := local.Get(content.KeyCategoryPath)
		local.Set("BREADCRUMB", catalog.Breadcrumb(p.cfg, category))
		local.Set("ARTICLE_SECTION", catalog.ArticleSection(p.cfg, category))
		local.Set("POST_JSONLD", PostJSONLD(orig, pagePath, local, p.cfg))
		links := series[pagePath]
		local.Set("SERIES_BADGE", links.Badge)
		text = strings.ReplaceAll(text, "{{SERIES_NAV}}", links.Nav)
	}
	p.navTokens(local, rel)

	return templates.RewriteDomain(templates.Apply(text, local), p.cfg)
}

// navTokens marks the current navigation entry and builds the about link.
// The link is assembled from resolved values because tokens inserted after
// NAV_ABOUT_LABEL would not be expanded inside it.
func (p *pipeline) navTokens(local *templates.Tokens, rel string) {
	current := func(on bool) string {
		if on {
			return ariaCurrent
		}
		return ""
	}
	aboutAttr := current(rel == "about.html")
	local.Set("HOME_CURRENT_ATTR", current(rel == "index.html"))
	local.Set("ABOUT_CURRENT_ATTR", aboutAttr)
	local.Set("POSTS_CURRENT_ATTR", current(strings.HasPrefix(rel, "posts/")))
	local.Set("CATS_CURRENT_ATTR", current(strings.HasPrefix(rel, "categories/")))

	if !p.hasAbout {
		local.Set("NAV_ABOUT_LABEL", "")
		local.Set("ABOUT_LINK_HTML", "")
		return
	}
	label, _ := local.Get("NAV_ABOUT_LABEL")
	local.Set("ABOUT_LINK_HTML", `<a href="/about.html" `+aboutAttr+`>`+label+`</a>`)
}

// sidecarTokens returns the sanitized, non-blank sidecar values of file as
// key/value pairs sorted by key.
func sidecarTokens(fsys afero.Fs, file string) [][2]string {
	meta, ok := content.ReadSidecar(fsys, file)
	if !ok {
		return nil
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		if v := SanitizeToken(meta[k]); v != "" && strings.TrimSpace(k) != "" {
			out = append(out, [2]string{strings.TrimSpace(k), v})
		}
	}
	return out
}

// SanitizeToken flattens a sidecar value for inline use: literal escape
// sequences and control characters become spaces and whitespace collapses.
func SanitizeToken(v string) string {
	v = literalEscapes.Replace(v)
	v = controlChars.ReplaceAllString(v, " ")
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(v, " "))
}

type blogPosting struct {
	Context        string `json:"@context"`
	Type           string `json:"@type"`
	Headline       string `json:"headline"`
	DatePublished  string `json:"datePublished,omitempty"`
	ArticleSection string `json:"articleSection,omitempty"`
	Keywords       string `json:"keywords,omitempty"`
	URL            string `json:"url"`
	Description    string `json:"description"`
}

// PostJSONLD renders the schema.org BlogPosting script for a post page.
// The headline is the first <h1> of html, falling back to the site name.
func PostJSONLD(html, pagePath string, local *templates.Tokens, cfg *config.Site) string {
	headline, ok := content.FirstElementText(html, "h1")
	if !ok || headline == "" {
		headline = cfg.SiteName
	}
	doc := blogPosting{
		Context:  "https://schema.org",
		Type:     "BlogPosting",
		Headline: headline,
		URL:      cfg.BaseURL() + pagePath,
	}
	if m := postDate.FindStringSubmatch(pagePath); m != nil {
		doc.DatePublished = m[1]
	}
	category, _ := local.Get(content.KeyCategoryPath)
	doc.ArticleSection = catalog.ArticleSection(cfg, category)
	// Token values are HTML-escaped; json.Marshal does its own escaping.
	if tags, _ := local.Get(content.KeyTags); tags != "" {
		var kw []string
		for _, t := range strings.Split(stdhtml.UnescapeString(tags), ",") {
			if t = strings.TrimSpace(t); t != "" {
				kw = append(kw, t)
			}
		}
		doc.Keywords = strings.Join(kw, ", ")
	}
	if u, ok := local.Get("PAGE_URL"); ok && u != "" {
		doc.URL = u
	}
	desc, _ := local.Get("PAGE_DESCRIPTION")
	doc.Description = stdhtml.UnescapeString(desc)

	data, err := json.Marshal(doc)
	if err != nil {
		return ""
	}
	return `<script type="application/ld+json">` + string(data) + `</script>`
}
