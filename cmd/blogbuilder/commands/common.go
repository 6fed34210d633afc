// Package commands implements the blogbuilder subcommands.
package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// EnvLogLevel overrides the log level when --verbose is not given.
const EnvLogLevel = "BLOGBUILDER_LOG_LEVEL"

// Global is shared state bound into every command's Run.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Site configuration file (site.json or site.yaml); defaults to <src>/site.json"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build  BuildCmd  `cmd:"" help:"Build the site from a source tree into an output directory"`
	Import ImportCmd `cmd:"" help:"Convert published markdown drafts into HTML posts"`
	New    NewCmd    `cmd:"" help:"Create a new post or markdown draft"`
	Init   InitCmd   `cmd:"" help:"Create a new site from the built-in templates"`
	Sample SampleCmd `cmd:"" help:"Create a demo site with sample drafts"`
	Serve  ServeCmd  `cmd:"" help:"Build, serve and rebuild the site on changes"`
}

// NewLogger returns a text logger on w. --verbose selects debug; otherwise
// BLOGBUILDER_LOG_LEVEL applies, defaulting to info.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLogLevel(verbose)}))
}

func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// absPath resolves a flag value to an absolute path.
func absPath(flag, p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", errors.UsageError("--" + flag + " is required").Build()
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryUsage, "resolve path").WithContext("flag", flag).Build()
	}
	return abs, nil
}

// loadSite resolves the site configuration for a source root.
func loadSite(logger *slog.Logger, root *CLI, src string) *config.Site {
	return config.Load(logger, afero.NewOsFs(), root.Config, src)
}

// scratchFs returns the filesystem scaffold commands write to. A dry run
// layers an in-memory copy over a read-only view of the disk.
func scratchFs(dryRun bool) afero.Fs {
	if dryRun {
		return afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(afero.NewOsFs()), afero.NewMemMapFs())
	}
	return afero.NewOsFs()
}
