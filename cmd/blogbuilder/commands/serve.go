package commands

import (
	"context"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/preview"
)

// ServeCmd builds the site, serves it and rebuilds on source changes.
type ServeCmd struct {
	Src   string        `short:"s" help:"Site source root to watch" default:"."`
	Out   string        `short:"o" help:"Output directory to serve" default:"./dist"`
	Port  int           `short:"p" help:"HTTP port" default:"8080"`
	Every time.Duration `help:"Also rebuild on this interval (0 disables)" default:"0s"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	ctx, cancel := signalContext()
	defer cancel()

	src, err := absPath("src", s.Src)
	if err != nil {
		return err
	}
	out, err := absPath("out", s.Out)
	if err != nil {
		return err
	}
	reg := prom.NewRegistry()
	builder := reloadingBuilder{
		svc:  build.NewService(g.Logger).WithRecorder(metrics.NewPrometheusRecorder(reg)),
		load: func() *config.Site { return loadSite(g.Logger, root, src) },
	}
	return preview.Serve(ctx, g.Logger, builder, preview.Options{
		Src:      src,
		Out:      out,
		Port:     s.Port,
		Every:    s.Every,
		Registry: reg,
	})
}

// reloadingBuilder re-reads the site configuration before every build so
// edits to site.json show up without a restart.
type reloadingBuilder struct {
	svc  *build.Service
	load func() *config.Site
}

func (b reloadingBuilder) Run(ctx context.Context, opts build.Options) (build.Report, error) {
	opts.Config = b.load()
	return b.svc.Run(ctx, opts)
}
