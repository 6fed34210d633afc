package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/importer"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/scaffold"
)

// SampleCmd implements the 'sample' command: init, sample drafts, import
// and optionally a build into <dir>/dist.
type SampleCmd struct {
	Dir    string `arg:"" help:"Directory for the demo site" default:"./sample-site"`
	Build  bool   `help:"Also build the site into <dir>/dist"`
	DryRun bool   `name:"dry-run" help:"Run every step in memory"`
}

func (s *SampleCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()
	logger := g.Logger

	dir, err := absPath("dir", s.Dir)
	if err != nil {
		return err
	}
	fsys := scratchFs(s.DryRun)
	cfg := loadSite(logger, root, dir)

	report, err := scaffold.Init(fsys, dir, cfg)
	if err != nil {
		return err
	}
	mdDir := filepath.Join(dir, "md")
	drafts, err := scaffold.Samples(fsys, mdDir)
	if err != nil {
		return err
	}
	logger.Info("Sample drafts written", logfields.Path(mdDir), logfields.Count(len(drafts)))

	n, err := importer.New(logger, cfg).WithFilesystems(fsys, fsys).ImportAll(ctx, mdDir, dir, false)
	if err != nil {
		return err
	}
	fmt.Printf("Sample site in %s: %d files, %d drafts, %d posts imported\n", dir, len(report.Written), len(drafts), n)
	if !s.Build {
		return nil
	}

	out := filepath.Join(dir, "dist")
	br, err := build.NewService(logger).WithFilesystems(fsys, fsys).Run(ctx, build.Options{Src: dir, Out: out, DryRun: s.DryRun, Config: cfg})
	if err != nil {
		return err
	}
	fmt.Printf("Built %d posts into %s\n", br.Posts, out)
	return nil
}
