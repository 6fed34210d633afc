package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/blogbuilder/cmd/blogbuilder/commands"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/version"
)

func main() {
	// .env files must be applied before kong resolves env-backed flags.
	config.LoadEnv()

	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("blogbuilder"),
		kong.Description("Static blog generator: builds a site tree of HTML posts, templates and assets."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	logger := commands.NewLogger(os.Stderr, cli.Verbose)
	err := ctx.Run(&commands.Global{Logger: logger})
	errors.NewCLIErrorAdapter(cli.Verbose, logger).HandleError(err)
}
