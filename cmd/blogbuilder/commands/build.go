package commands

import (
	"fmt"
	"path/filepath"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/git"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/workspace"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Src    string `short:"s" help:"Site source root (relative to the checkout when --repo is set)" default:"."`
	Out    string `short:"o" help:"Output directory; deleted and recreated" default:"./dist"`
	DryRun bool   `name:"dry-run" help:"Run every stage in memory and report what would be written"`

	Repo     string `help:"Clone the site source from this git repository first"`
	Branch   string `help:"Branch to clone (default: remote HEAD)"`
	GitToken string `name:"git-token" env:"BLOGBUILDER_GIT_TOKEN" help:"Token for HTTPS clone authentication"`
	GitKey   string `name:"git-key" help:"SSH private key for clone authentication"`

	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics in text format to this file after the build"`
	NATSURL     string `name:"nats-url" env:"BLOGBUILDER_NATS_URL" help:"Publish a build event to this NATS server"`
	NATSSubject string `name:"nats-subject" default:"blogbuilder.builds" help:"NATS subject for build events"`
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()
	logger := g.Logger

	out, err := absPath("out", b.Out)
	if err != nil {
		return err
	}

	src := b.Src
	if b.Repo != "" {
		ws := workspace.NewManager("", logger)
		if err := ws.Create(); err != nil {
			return err
		}
		defer func() {
			if err := ws.Cleanup(); err != nil {
				logger.Warn("Failed to clean up workspace", logfields.Error(err))
			}
		}()
		co, err := git.NewClient(ws.GetPath(), logger).Clone(ctx, git.Source{
			URL:    b.Repo,
			Branch: b.Branch,
			Auth:   git.Auth{Token: b.GitToken, KeyPath: b.GitKey},
		}, "site")
		if err != nil {
			return err
		}
		src = filepath.Join(co.Path, b.Src)
	}
	src, err = absPath("src", src)
	if err != nil {
		return err
	}

	var reg *prom.Registry
	var recorder metrics.Recorder = metrics.NoopRecorder{}
	if b.MetricsFile != "" {
		reg = prom.NewRegistry()
		recorder = metrics.NewPrometheusRecorder(reg)
	}

	svc := build.NewService(logger).WithRecorder(recorder)
	if b.NATSURL != "" {
		pub, err := notify.NewNATSPublisher(b.NATSURL, b.NATSSubject, logger)
		if err != nil {
			return errors.WrapError(err, errors.CategoryConfig, "connect to NATS").WithContext("url", b.NATSURL).Build()
		}
		defer func() { _ = pub.Close() }()
		svc = svc.WithPublisher(pub)
	}

	report, err := svc.Run(ctx, build.Options{
		Src:    src,
		Out:    out,
		DryRun: b.DryRun,
		Config: loadSite(logger, root, src),
	})
	if reg != nil {
		if werr := metrics.WriteTextfile(reg, b.MetricsFile); werr != nil {
			logger.Warn("Failed to write metrics file", logfields.Path(b.MetricsFile), logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}
	if b.DryRun {
		fmt.Printf("Dry run: %d posts, %d catalog pages, %d files would be written to %s\n", report.Posts, report.Pages, report.Files, out)
		return nil
	}
	fmt.Printf("Built %d posts and %d catalog pages into %s\n", report.Posts, report.Pages, out)
	return nil
}
