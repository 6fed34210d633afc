// Package scaffold creates new sites, posts and markdown drafts.
//
// Nothing in this package overwrites an existing file. Every function takes
// the filesystem to write to, so a dry run passes a copy-on-write layer over
// the real tree and discards it afterwards.
package scaffold

import (
	stdErrors "errors"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/flatjson"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/frontmatter"
	"git.home.luguber.info/inful/blogbuilder/internal/resources"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// ConfigFile is the site configuration written by Init.
const ConfigFile = "site.json"

var htmlEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// InitReport lists what Init wrote and which files it left alone.
type InitReport struct {
	Written []string
	Skipped []string
}

// Init copies the default templates, partials and assets into dest and
// writes site.json from cfg. Files that already exist are kept.
func Init(fsys afero.Fs, dest string, cfg *config.Site) (InitReport, error) {
	var report InitReport
	if cfg == nil {
		cfg = config.Defaults()
	}
	place := func(rel, data string) error {
		full, err := writeNew(fsys, dest, rel, data)
		switch {
		case stdErrors.Is(err, ErrExists):
			report.Skipped = append(report.Skipped, filepath.Join(dest, rel))
			return nil
		case err != nil:
			return err
		}
		report.Written = append(report.Written, full)
		return nil
	}

	defaults := resources.FS()
	err := fs.WalkDir(defaults, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := fs.ReadFile(defaults, name)
		if err != nil {
			return errors.WrapError(err, errors.CategoryIO, "read default template").WithContext("path", name).Build()
		}
		return place(filepath.FromSlash(name), string(data))
	})
	if err != nil {
		return report, err
	}
	return report, place(ConfigFile, cfg.JSON())
}

// NewPost creates root/posts/<date>-<slug>.html from the post template with an
// empty sidecar next to it. A blank slugText is derived from title.
func NewPost(fsys afero.Fs, root, title string, date time.Time, slugText string) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.UsageError("post title is required").Build()
	}
	if date.IsZero() {
		date = time.Now()
	}
	s := slug.Of(title)
	if strings.TrimSpace(slugText) != "" {
		s = slug.Of(slugText)
	}

	tpl, err := resources.Read(resources.PostTemplate)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryIO, "missing post template").Build()
	}
	day := date.Format(time.DateOnly)
	page := strings.NewReplacer("{{TITLE}}", htmlEscaper.Replace(title), "{{DATE}}", day).Replace(tpl)

	rel := filepath.Join(content.PostsDir, day+"-"+s+".html")
	full, err := writeNew(fsys, root, rel, page)
	if err != nil {
		return "", err
	}
	meta := flatjson.Encode([]flatjson.Pair{
		{Key: content.KeyDescription},
		{Key: content.KeyOGImage},
	})
	if _, err := writeNew(fsys, root, rel+content.SidecarSuffix, meta); err != nil {
		return "", err
	}
	return full, nil
}

// NewDraft creates dir/<slug>.md with a YAML header ready for import.
// The draft starts unpublished.
func NewDraft(fsys afero.Fs, dir, title string, date time.Time) (string, error) {
	if strings.TrimSpace(title) == "" {
		return "", errors.UsageError("draft title is required").Build()
	}
	if date.IsZero() {
		date = time.Now()
	}
	header, err := frontmatter.SerializeYAML([]frontmatter.Field{
		{Key: "title", Value: title},
		{Key: "createdDate", Value: date},
		{Key: "publish", Value: false},
		{Key: "description", Value: ""},
		{Key: "tags", Value: []string{}},
		{Key: "category", Value: ""},
		{Key: "series", Value: ""},
	})
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryValidation, "render draft front matter").Build()
	}
	body := "\n# " + title + "\n\nStart writing here.\n"
	return writeNew(fsys, dir, slug.Of(title)+".md", frontmatter.Join(header, body))
}

var samples = []struct {
	name, text string
}{
	{"hello.md", `---
title: Hello, world
createdDate: 2025-01-01
publish: true
tags: [welcome]
---

This is a sample post. Check how body text, lists and code render.

- first item
- second item

` + "```html\n<p>Hello world</p>\n```\n"},
	{"typography.md", `---
title: Typography sample
createdDate: 2025-01-02
publish: true
tags: [welcome, design]
category: Notes/Design
---

Paragraph length, quotes and emphasis use the default styles.

> Quotes look like this.

**Bold**, *italic* and ` + "`code`" + ` are styled too.
`},
}

// Samples writes the bundled example drafts into dir.
func Samples(fsys afero.Fs, dir string) ([]string, error) {
	out := make([]string, 0, len(samples))
	for _, s := range samples {
		full, err := writeNew(fsys, dir, s.name, s.text)
		if err != nil {
			return out, err
		}
		out = append(out, full)
	}
	return out, nil
}
