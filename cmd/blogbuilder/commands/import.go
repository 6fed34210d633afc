package commands

import (
	"fmt"

	"git.home.luguber.info/inful/blogbuilder/internal/importer"
)

// ImportCmd implements the 'import' command.
type ImportCmd struct {
	MD     string `name:"md" help:"Markdown drafts directory" default:"./md"`
	Site   string `help:"Site source root receiving posts/" default:"."`
	DryRun bool   `name:"dry-run" help:"Report the posts that would be written"`
}

func (c *ImportCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	md, err := absPath("md", c.MD)
	if err != nil {
		return err
	}
	site, err := absPath("site", c.Site)
	if err != nil {
		return err
	}
	n, err := importer.New(g.Logger, loadSite(g.Logger, root, site)).ImportAll(ctx, md, site, c.DryRun)
	if err != nil {
		return err
	}
	if c.DryRun {
		fmt.Printf("Dry run: %d posts would be imported into %s\n", n, site)
		return nil
	}
	fmt.Printf("Imported %d posts into %s\n", n, site)
	return nil
}
