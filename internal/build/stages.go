package build

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/catalog"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/content"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/resources"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// pipeline carries the state of one Run call across stages.
type pipeline struct {
	svc      *Service
	logger   *slog.Logger
	source   afero.Fs
	output   afero.Fs
	src      string
	out      string
	cfg      *config.Site
	dryRun   bool
	hasAbout bool
	tokens   *templates.Tokens
	includer templates.Includer
	report   *Report
}

// Directories never descended into, at any depth.
var skipDirs = map[string]bool{
	".git": true, ".idea": true, ".svn": true, ".github": true,
	"examples": true, "sample-site": true, "scripts": true,
	"dist": true, "node_modules": true,
}

// Top-level directories copied into the output.
var allowedTopDirs = map[string]bool{
	resources.AssetsDir: true,
	content.PostsDir:    true,
	"tags":              true,
}

// Extensions of root-level files copied into the output.
var rootExtensions = map[string]bool{
	".html": true, ".xml": true, ".txt": true, ".ico": true, ".webmanifest": true,
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true, ".webp": true, ".avif": true,
}

// Repository notes that never ship, wherever they are.
var excludedFiles = map[string]bool{"AGENTS.md": true, "DECISIONS.md": true}

// allowDir reports whether the copy walk descends into the source directory rel.
func allowDir(rel string) bool {
	if skipDirs[path.Base(rel)] {
		return false
	}
	if !strings.Contains(rel, "/") {
		return allowedTopDirs[rel]
	}
	return true
}

// allowFile reports whether the source file rel is copied.
func allowFile(rel string) bool {
	base := path.Base(rel)
	lower := strings.ToLower(base)
	if excludedFiles[base] || strings.HasSuffix(lower, ".md") {
		return false
	}
	top, _, nested := strings.Cut(rel, "/")
	if !nested {
		return rootExtensions[path.Ext(lower)]
	}
	switch top {
	case resources.AssetsDir:
		return true
	case content.PostsDir:
		return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, content.SidecarSuffix)
	case "tags":
		return strings.HasSuffix(lower, ".html")
	}
	return false
}

func (p *pipeline) write(target string, data []byte) error {
	if err := p.output.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create directory").WithContext("path", target).Build()
	}
	if err := afero.WriteFile(p.output, target, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "write file").WithContext("path", target).Build()
	}
	return nil
}

func (p *pipeline) clean(context.Context) error {
	if p.dryRun {
		p.logger.Info("Dry run: output would be cleaned", logfields.Path(p.out))
	}
	if err := p.output.RemoveAll(p.out); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "clean output").WithContext("path", p.out).Build()
	}
	if err := p.output.MkdirAll(p.out, 0o755); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create output").WithContext("path", p.out).Build()
	}
	return nil
}

func (p *pipeline) copyTree(context.Context) error {
	copied := 0
	err := afero.Walk(p.source, p.src, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(p.src, file)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if info.IsDir() {
			if filepath.Clean(file) == p.out || !allowDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !allowFile(rel) {
			return nil
		}
		data, err := afero.ReadFile(p.source, file)
		if err != nil {
			return err
		}
		copied++
		return p.write(filepath.Join(p.out, filepath.FromSlash(rel)), data)
	})
	if err != nil {
		if errors.IsClassified(err) {
			return err
		}
		return errors.WrapError(err, errors.CategoryIO, "copy site files").WithContext("path", p.src).Build()
	}
	p.svc.recorder.AddPagesWritten("copy", copied)
	p.logger.Info("Copied site files", logfields.Count(copied))
	return nil
}

// overlay adds embedded default assets and root files the source lacks.
func (p *pipeline) overlay(context.Context) error {
	added := 0
	if _, err := fs.Stat(p.svc.defaults, resources.AssetsDir); err == nil {
		err := fs.WalkDir(p.svc.defaults, resources.AssetsDir, func(name string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			ok, err := p.overlayFile(name)
			if ok {
				added++
			}
			return err
		})
		if err != nil {
			return err
		}
	}
	for _, name := range []string{resources.FaviconFile, resources.ManifestFile, resources.RobotsFile} {
		ok, err := p.overlayFile(name)
		if err != nil {
			return err
		}
		if ok {
			added++
		}
	}
	p.svc.recorder.AddPagesWritten("overlay", added)
	p.logger.Debug("Overlaid default files", logfields.Count(added))
	return nil
}

func (p *pipeline) overlayFile(name string) (bool, error) {
	target := filepath.Join(p.out, filepath.FromSlash(name))
	if exists, _ := afero.Exists(p.output, target); exists {
		return false, nil
	}
	data, err := fs.ReadFile(p.svc.defaults, name)
	if err != nil {
		return false, nil
	}
	return true, p.write(target, data)
}

func (p *pipeline) domains(context.Context) error {
	base := p.cfg.BaseURL()
	swaps := []struct {
		name string
		fn   func(text, base string) string
	}{
		{resources.FeedTemplate, SwapFeedDomain},
		{resources.SitemapTemplate, SwapSitemapDomain},
		{resources.RobotsFile, SwapRobotsDomain},
	}
	for _, sw := range swaps {
		target := filepath.Join(p.out, sw.name)
		data, err := afero.ReadFile(p.output, target)
		if err != nil {
			continue
		}
		text := string(data)
		if next := sw.fn(text, base); next != text {
			if err := p.write(target, []byte(next)); err != nil {
				return err
			}
			p.logger.Debug("Swapped domain", logfields.File(sw.name))
		}
	}
	return nil
}

func (p *pipeline) generateCatalog(ctx context.Context) error {
	b := catalog.NewBuilder(p.logger, p.source, p.output)
	b.Templates = p.svc.defaults
	b.Recorder = p.svc.recorder
	b.Now = p.svc.now
	report, err := b.Run(ctx, p.src, p.out, p.cfg)
	if err != nil {
		return err
	}
	p.report.Posts = report.Posts
	p.report.Pages = len(report.Pages)
	p.svc.recorder.SetPostsScanned(report.Posts)
	return nil
}

// Build inputs removed from the output once every page is rendered.
var buildOnly = []string{
	resources.PartialsDir,
	"site.json",
	"site.yaml",
	"AGENTS.md",
	"DECISIONS.md",
	resources.TagTemplate,
	resources.PostTemplate,
	resources.MarkdownPostTemplate,
}

func (p *pipeline) cleanup(context.Context) error {
	var sidecars []string
	err := afero.Walk(p.output, p.out, func(file string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(file, content.SidecarSuffix) {
			sidecars = append(sidecars, file)
		}
		return nil
	})
	if err != nil {
		return errors.WrapError(err, errors.CategoryIO, "scan output").WithContext("path", p.out).Build()
	}
	for _, f := range sidecars {
		if err := p.output.Remove(f); err != nil {
			return errors.WrapError(err, errors.CategoryIO, "remove sidecar").WithContext("path", f).Build()
		}
	}
	for _, name := range buildOnly {
		target := filepath.Join(p.out, filepath.FromSlash(name))
		if err := p.output.RemoveAll(target); err != nil {
			return errors.WrapError(err, errors.CategoryIO, "remove build input").WithContext("path", target).Build()
		}
	}
	p.logger.Debug("Removed build inputs", slog.Int("sidecars", len(sidecars)))
	return nil
}
