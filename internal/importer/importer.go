// Package importer converts published markdown drafts into dated post files
// with sidecar metadata.
package importer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"html"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/inful/mdfp"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/flatjson"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/markdown"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/resources"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// KeySourceFingerprint is the sidecar key holding the mdfp fingerprint of the
// draft a post was imported from.
const KeySourceFingerprint = "SOURCE_FINGERPRINT"

var draftDate = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})(?:[T ]\d{2}:\d{2}(?::\d{2}(?:\.\d+)?)?(?:Z|[+-]\d{2}:?\d{2})?)?$`)

var titleEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Importer turns markdown drafts into posts.
type Importer struct {
	logger   *slog.Logger
	source   afero.Fs
	output   afero.Fs
	cfg      *config.Site
	recorder metrics.Recorder
}

// New returns an importer on the OS filesystem. A nil cfg means defaults.
func New(logger *slog.Logger, cfg *config.Site) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.Defaults()
	}
	osFs := afero.NewOsFs()
	return &Importer{logger: logger, source: osFs, output: osFs, cfg: cfg, recorder: metrics.NoopRecorder{}}
}

// WithFilesystems replaces the draft and site filesystems.
func (im *Importer) WithFilesystems(source, output afero.Fs) *Importer {
	im.source, im.output = source, output
	return im
}

// WithRecorder sets the metrics recorder.
func (im *Importer) WithRecorder(r metrics.Recorder) *Importer {
	im.recorder = metrics.OrNoop(r)
	return im
}

// draft is a markdown file that passed the publish checks.
type draft struct {
	rel    string
	text   string
	header string
	body   string
	fm     map[string]string
	title  string
	date   string
}

// ImportAll converts every *.md under mdDir whose front matter has
// publish: true, a title and a date into siteRoot/posts. It returns the
// number of posts written, or that would be written for a dry run.
// Drafts that fail a check are logged and skipped.
func (im *Importer) ImportAll(ctx context.Context, mdDir, siteRoot string, dryRun bool) (int, error) {
	logger := im.logger.With(logfields.DryRun(dryRun))
	if ok, _ := afero.DirExists(im.source, mdDir); !ok {
		return 0, errors.IOError("markdown directory not found").WithContext("path", mdDir).Build()
	}
	tpl, err := resources.Read(resources.MarkdownPostTemplate)
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryIO, "missing markdown post template").Build()
	}

	output := im.output
	if dryRun {
		output = afero.NewMemMapFs()
	}
	renderer := markdown.RendererFor(im.cfg.String("markdown_engine", markdown.EngineNative))
	postsDir := filepath.Join(siteRoot, content.PostsDir)

	var files []string
	err = afero.Walk(im.source, mdDir, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(file), ".md") {
			files = append(files, file)
		}
		return nil
	})
	if err != nil {
		return 0, errors.WrapError(err, errors.CategoryIO, "scan markdown directory").WithContext("path", mdDir).Build()
	}

	seen := make(map[string]string)
	count := 0
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return count, errors.WrapError(err, errors.CategoryUnknown, "import canceled").Build()
		}
		rel, _ := filepath.Rel(mdDir, file)
		d, ok := im.load(logger, file, filepath.ToSlash(rel))
		if !ok {
			continue
		}
		body, err := renderer.Render(d.text)
		if err != nil {
			logger.Warn("Skipping draft: render failed", logfields.File(d.rel), logfields.Error(err))
			im.recorder.IncScanWarnings()
			continue
		}

		name := d.date + "-" + fileSlug(d.rel, d.title) + ".html"
		if prev, dup := seen[name]; dup {
			name = strings.TrimSuffix(name, ".html") + "-" + hash8(d.rel) + ".html"
			logger.Warn("Post name already used by another draft", logfields.File(d.rel), slog.String("other", prev), logfields.Post(name))
		}
		seen[name] = d.rel

		out := filepath.Join(postsDir, name)
		page := strings.NewReplacer(
			"{{TITLE}}", titleEscaper.Replace(d.title),
			"{{DATE}}", d.date,
			"{{CONTENT_HTML}}", body,
			"{{FRONTMATTER_HTML}}", FrontMatterHTML(d.fm),
		).Replace(tpl)
		if err := writeFile(output, out, page); err != nil {
			return count, err
		}
		if err := writeFile(output, out+content.SidecarSuffix, flatjson.Encode(sidecar(d))); err != nil {
			return count, err
		}
		count++
		if dryRun {
			logger.Info("Would import draft", logfields.File(d.rel), logfields.Path(out))
		} else {
			logger.Info("Imported draft", logfields.File(d.rel), logfields.Path(out))
		}
	}

	im.recorder.AddPagesWritten("import", count)
	logger.Info("Import complete", logfields.Path(mdDir), logfields.Count(count))
	return count, nil
}

// load reads a draft and applies the publish checks. Documents without a
// front matter block are skipped quietly.
func (im *Importer) load(logger *slog.Logger, file, rel string) (*draft, bool) {
	data, err := afero.ReadFile(im.source, file)
	if err != nil {
		logger.Warn("Skipping draft: read failed", logfields.File(rel), logfields.Error(err))
		im.recorder.IncScanWarnings()
		return nil, false
	}
	text := string(data)
	header, body, hasHeader := frontmatter.Split(text)
	if !hasHeader {
		logger.Debug("Skipping markdown without front matter", logfields.File(rel))
		return nil, false
	}
	fm := frontmatter.Parse(text)

	if !strings.EqualFold(strings.TrimSpace(fm["publish"]), "true") {
		logger.Info("Skipping unpublished draft", logfields.File(rel))
		return nil, false
	}
	title := strings.TrimSpace(fm["title"])
	raw := strings.TrimSpace(fm["createdDate"])
	if raw == "" {
		raw = strings.TrimSpace(fm["date"])
	}
	if title == "" || raw == "" {
		logger.Warn("Skipping draft: missing title or date", logfields.File(rel))
		im.recorder.IncScanWarnings()
		return nil, false
	}
	date, ok := ParseDate(raw)
	if !ok {
		logger.Warn("Skipping draft: invalid date, want YYYY-MM-DD", logfields.File(rel), slog.String("date", raw))
		im.recorder.IncScanWarnings()
		return nil, false
	}

	return &draft{
		rel:    rel,
		text:   text,
		header: header,
		body:   body,
		fm:     fm,
		title:  title,
		date:   date.Format(time.DateOnly),
	}, true
}

// ParseDate accepts YYYY-MM-DD optionally followed by a time of day and
// returns the calendar date.
func ParseDate(v string) (time.Time, bool) {
	m := draftDate.FindStringSubmatch(strings.TrimSpace(v))
	if m == nil {
		return time.Time{}, false
	}
	t, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// fileSlug derives the post slug from the draft file name, then the title,
// and finally a hash of the draft path.
func fileSlug(rel, title string) string {
	base := strings.TrimSuffix(filepath.Base(rel), filepath.Ext(rel))
	for _, candidate := range []string{base, title} {
		if s := strings.Trim(slug.Clean(candidate), "-"); s != "" {
			return s
		}
	}
	return "post-" + hash8(rel)
}

func hash8(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:8]
}

// sidecar builds the metadata pairs for an imported post.
func sidecar(d *draft) []flatjson.Pair {
	desc := strings.TrimSpace(d.fm["description"])
	if desc == "" {
		desc = markdown.FirstParagraphText(d.text)
	}
	pairs := []flatjson.Pair{{Key: content.KeyDescription, Value: desc}}
	add := func(key string, values ...string) {
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				pairs = append(pairs, flatjson.Pair{Key: key, Value: v})
				return
			}
		}
	}
	add(content.KeyTags, strings.Join(frontmatter.List(d.fm["tags"]), ", "))
	add(content.KeyCategoryPath, d.fm["categoryPath"], d.fm["category"])
	add(content.KeySeries, d.fm["series"])
	add(content.KeySeriesOrder, d.fm["seriesOrder"], d.fm["series_order"])

	image := ""
	if imgs := markdown.Images(d.text); len(imgs) > 0 {
		image = imgs[0]
	}
	add(content.KeyOGImage, d.fm["ogImage"], d.fm["image"], image)

	pairs = append(pairs, flatjson.Pair{
		Key:   KeySourceFingerprint,
		Value: mdfp.CalculateFingerprintFromParts(d.header, d.body),
	})
	return pairs
}

// FrontMatterHTML renders draft front matter as a definition list for the
// collapsible block of imported posts. Keys are sorted.
func FrontMatterHTML(fm map[string]string) string {
	if len(fm) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fm))
	for k := range fm {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(`<dl class="c-fm__list">`)
	for _, k := range keys {
		b.WriteString("<dt>" + html.EscapeString(k) + "</dt><dd>" + html.EscapeString(fm[k]) + "</dd>")
	}
	b.WriteString("</dl>")
	return b.String()
}

func writeFile(fsys afero.Fs, file, data string) error {
	if err := fsys.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create directory").WithContext("path", filepath.Dir(file)).Build()
	}
	if err := afero.WriteFile(fsys, file, []byte(data), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "write file").WithContext("path", file).Build()
	}
	return nil
}
