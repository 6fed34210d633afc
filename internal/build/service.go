package build

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/notify"
	"git.home.luguber.info/inful/blogbuilder/internal/resources"
	"git.home.luguber.info/inful/blogbuilder/internal/templates"
)

// Options are the inputs of one build.
type Options struct {
	// Src is the site source root.
	Src string
	// Out is the output directory. It is deleted and recreated.
	Out string
	// DryRun runs every stage against an in-memory output tree.
	DryRun bool
	// Config is the resolved site configuration; nil means defaults.
	Config *config.Site
}

// Report describes what a build did (or, for a dry run, would do).
type Report struct {
	BuildID  string
	Posts    int
	Pages    int // catalog pages generated
	Files    int // files present in the output after cleanup
	Updated  int // files rewritten by post-processing
	Duration time.Duration
}

// Service runs builds. The zero value is not usable; call NewService.
type Service struct {
	logger    *slog.Logger
	source    afero.Fs
	output    afero.Fs
	defaults  fs.FS
	recorder  metrics.Recorder
	publisher notify.Publisher
	now       func() time.Time
}

// NewService returns a service reading and writing the OS filesystem.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	osFs := afero.NewOsFs()
	return &Service{
		logger:    logger,
		source:    osFs,
		output:    osFs,
		defaults:  resources.FS(),
		recorder:  metrics.NoopRecorder{},
		publisher: notify.Noop{},
		now:       time.Now,
	}
}

// WithFilesystems replaces the source and output filesystems (for testing).
func (s *Service) WithFilesystems(source, output afero.Fs) *Service {
	s.source, s.output = source, output
	return s
}

// WithDefaults replaces the embedded default resources.
func (s *Service) WithDefaults(defaults fs.FS) *Service {
	s.defaults = defaults
	return s
}

// WithRecorder sets the metrics recorder.
func (s *Service) WithRecorder(r metrics.Recorder) *Service {
	s.recorder = metrics.OrNoop(r)
	return s
}

// WithPublisher sets where build events are announced.
func (s *Service) WithPublisher(p notify.Publisher) *Service {
	if p == nil {
		p = notify.Noop{}
	}
	s.publisher = p
	return s
}

// WithClock sets the clock used for the YEAR token and durations.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Build runs the pipeline and reports the outcome as a Result.
func (s *Service) Build(ctx context.Context, opts Options) errors.Result {
	_, err := s.Run(ctx, opts)
	return errors.Fail(err)
}

// Run executes the complete build pipeline.
func (s *Service) Run(ctx context.Context, opts Options) (Report, error) {
	start := s.now()
	report := Report{BuildID: uuid.NewString()}
	logger := s.logger.With(logfields.BuildID(report.BuildID), logfields.DryRun(opts.DryRun))

	err := s.run(ctx, opts, logger, &report)
	report.Duration = s.now().Sub(start)

	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil:
		outcome = metrics.OutcomeFailed
		logger.Error("Build failed", logfields.Error(err))
	case opts.DryRun:
		outcome = metrics.OutcomeDryRun
		logger.Info("Dry run complete", slog.Int("would_write", report.Files), logfields.Count(report.Posts))
	default:
		logger.Info("Build complete",
			logfields.Path(opts.Out),
			slog.Int("files", report.Files),
			slog.Int("posts", report.Posts),
			logfields.DurationMS(float64(report.Duration.Milliseconds())))
	}
	s.recorder.IncBuildOutcome(outcome)
	s.recorder.ObserveBuildDuration(report.Duration)
	s.announce(ctx, logger, report, outcome, err)
	return report, err
}

func (s *Service) announce(ctx context.Context, logger *slog.Logger, r Report, outcome metrics.BuildOutcome, err error) {
	event := notify.BuildEvent{
		BuildID:    r.BuildID,
		Outcome:    string(outcome),
		Posts:      r.Posts,
		Pages:      r.Pages,
		DurationMS: r.Duration.Milliseconds(),
	}
	if err != nil {
		event.Message = errors.Fail(err).Message()
	}
	if perr := s.publisher.Publish(context.WithoutCancel(ctx), event); perr != nil {
		logger.Warn("Failed to publish build event", logfields.Error(perr))
	}
}

func (s *Service) run(ctx context.Context, opts Options, logger *slog.Logger, report *Report) error {
	src, out, err := validate(opts)
	if err != nil {
		return err
	}
	if ok, _ := afero.DirExists(s.source, src); !ok {
		return errors.IOError("source not found").WithContext("path", src).Build()
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}

	source, output := s.source, s.output
	if opts.DryRun {
		source = afero.NewReadOnlyFs(source)
		output = afero.NewMemMapFs()
	}
	hasAbout, _ := afero.Exists(source, filepath.Join(src, "about.html"))

	p := &pipeline{
		svc:      s,
		logger:   logger,
		source:   source,
		output:   output,
		src:      src,
		out:      out,
		cfg:      cfg,
		dryRun:   opts.DryRun,
		hasAbout: hasAbout,
		tokens:   templates.SiteTokens(cfg, s.now()),
		includer: templates.Includer{Source: source, Root: src, Defaults: s.defaults},
		report:   report,
	}

	stages := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"clean", p.clean},
		{"copy", p.copyTree},
		{"overlay", p.overlay},
		{"postprocess", p.postprocess},
		{"domains", p.domains},
		{"catalog", p.generateCatalog},
		{"postprocess", p.postprocess},
		{"cleanup", p.cleanup},
	}
	for _, st := range stages {
		if err := ctx.Err(); err != nil {
			return errors.WrapError(err, errors.CategoryUnknown, "build canceled").WithContext("stage", st.name).Build()
		}
		stageStart := s.now()
		p.logger = logger.With(logfields.Stage(st.name))
		p.logger.Debug("Stage started")
		err := st.fn(ctx)
		d := s.now().Sub(stageStart)
		s.recorder.ObserveStageDuration(st.name, d)
		if err != nil {
			return err
		}
		p.logger.Debug("Stage finished", logfields.DurationMS(float64(d.Microseconds())/1000))
	}

	files, err := countFiles(output, out)
	if err != nil {
		return errors.WrapError(err, errors.CategoryIO, "count output files").WithContext("path", out).Build()
	}
	report.Files = files
	return nil
}

// validate rejects option combinations that would make the clean stage
// destroy the source tree.
func validate(opts Options) (src, out string, err error) {
	if strings.TrimSpace(opts.Src) == "" || strings.TrimSpace(opts.Out) == "" {
		return "", "", errors.UsageError("source and output directories are required").Build()
	}
	src, out = filepath.Clean(opts.Src), filepath.Clean(opts.Out)
	if src == out {
		return "", "", errors.ValidationError("output directory must differ from the source").
			WithContext("path", out).Build()
	}
	if rel, relErr := filepath.Rel(out, src); relErr == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", "", errors.ValidationError("output directory must not contain the source").
			WithContext("path", out).Build()
	}
	return src, out, nil
}

func countFiles(fsys afero.Fs, root string) (int, error) {
	n := 0
	err := afero.Walk(fsys, root, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			n++
		}
		return nil
	})
	return n, err
}
