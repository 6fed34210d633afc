package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/scaffold"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Dir    string `arg:"" help:"Directory for the new site" default:"."`
	DryRun bool   `name:"dry-run" help:"List the files that would be created"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	dir, err := absPath("dir", i.Dir)
	if err != nil {
		return err
	}
	report, err := scaffold.Init(scratchFs(i.DryRun), dir, loadSite(g.Logger, root, dir))
	if err != nil {
		return err
	}
	for _, p := range report.Skipped {
		g.Logger.Debug("Kept existing file", logfields.Path(p))
	}
	g.Logger.Info("Site initialized", logfields.Path(dir), logfields.Count(len(report.Written)), logfields.DryRun(i.DryRun))
	fmt.Printf("Initialized site in %s (%d files written, %d kept)\n", dir, len(report.Written), len(report.Skipped))
	return nil
}
