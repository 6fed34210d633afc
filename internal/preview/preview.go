// Package preview serves a built site locally and rebuilds it when the
// source tree changes.
package preview

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	prom "github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/blogbuilder/internal/build"
	"git.home.luguber.info/inful/blogbuilder/internal/config"
	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
)

// DefaultDebounce is the quiet period after the last file event before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// Builder runs one site build.
type Builder interface {
	Run(ctx context.Context, opts build.Options) (build.Report, error)
}

// Options configure Serve.
type Options struct {
	Src    string
	Out    string
	Config *config.Site
	// Addr is the listen address; empty means ":<Port>".
	Addr string
	Port int
	// Every, when positive, also rebuilds on a fixed interval.
	Every    time.Duration
	Debounce time.Duration
	// Registry, when set, is served on /metrics.
	Registry *prom.Registry
	// Ready, when set, receives the bound address once the server listens
	// and the source tree is watched.
	Ready func(addr string)
}

// buildStatus tracks the last build result for the error page.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool
}

func (bs *buildStatus) record(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
	if err == nil {
		bs.hasGoodBuild = true
	}
}

func (bs *buildStatus) get() (err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError, bs.hasGoodBuild
}

// Serve builds the site, serves Out over HTTP and rebuilds on source changes
// until ctx is done. Builds never overlap.
func Serve(ctx context.Context, logger *slog.Logger, builder Builder, opts Options) error {
	if logger == nil {
		logger = slog.Default()
	}
	src, out, err := resolveDirs(opts)
	if err != nil {
		return err
	}
	opts.Src, opts.Out = src, out
	ctx, stop := context.WithCancel(ctx)
	defer stop()
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	status := &buildStatus{}
	rebuild := func(ctx context.Context) {
		_, err := builder.Run(ctx, build.Options{Src: opts.Src, Out: opts.Out, Config: opts.Config})
		status.record(err)
		if err != nil {
			logger.Warn("Preview build failed", logfields.Error(err))
		}
	}
	rebuild(ctx)

	addr := opts.Addr
	if addr == "" {
		addr = fmt.Sprintf(":%d", opts.Port)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.WrapError(err, errors.CategoryIO, "listen").WithContext("addr", addr).Build()
	}
	srv := &http.Server{Handler: newHandler(opts.Out, status, opts.Registry), ReadHeaderTimeout: 10 * time.Second}
	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !stdErrors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Info("Preview server listening", logfields.URL("http://"+ln.Addr().String()), logfields.Path(opts.Out))
	watcher, err := newWatcher(logger, opts.Src, opts.Out)
	if err != nil {
		_ = srv.Close()
		return err
	}
	defer func() { _ = watcher.Close() }()

	requests, trigger, stopDebounce := debouncer(opts.Debounce)
	defer stopDebounce()
	workerDone := startWorker(ctx, logger, requests, rebuild)

	if opts.Every > 0 {
		sched, err := schedule(opts.Every, requests)
		if err != nil {
			_ = srv.Close()
			return err
		}
		defer func() { _ = sched.Shutdown() }()
		logger.Info("Scheduled periodic rebuild", slog.Duration("every", opts.Every))
	}

	if opts.Ready != nil {
		opts.Ready(ln.Addr().String())
	}
	err = watchLoop(ctx, logger, watcher, trigger, serveErr)
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if serr := srv.Shutdown(shutdownCtx); serr != nil {
		logger.Warn("Preview server shutdown error", logfields.Error(serr))
	}
	<-workerDone
	logger.Info("Preview stopped")
	return err
}

// resolveDirs makes Src and Out absolute and checks the source exists.
func resolveDirs(opts Options) (string, string, error) {
	if opts.Src == "" || opts.Out == "" {
		return "", "", errors.UsageError("preview requires source and output directories").Build()
	}
	src, err := filepath.Abs(opts.Src)
	if err != nil {
		return "", "", errors.WrapError(err, errors.CategoryUsage, "resolve source directory").Build()
	}
	out, err := filepath.Abs(opts.Out)
	if err != nil {
		return "", "", errors.WrapError(err, errors.CategoryUsage, "resolve output directory").Build()
	}
	if st, statErr := os.Stat(src); statErr != nil || !st.IsDir() {
		return "", "", errors.IOError("source not found or not a directory").WithContext("path", src).Build()
	}
	return src, out, nil
}

// newHandler serves the output tree, a health probe and optionally metrics.
// While no build has succeeded yet, pages answer 503 with the last error.
func newHandler(out string, status *buildStatus, reg *prom.Registry) http.Handler {
	mux := http.NewServeMux()
	if reg != nil {
		mux.Handle("/metrics", metrics.HTTPHandler(reg))
	}
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})
	files := http.FileServer(http.Dir(out))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if err, good := status.get(); !good {
			msg := "site not built yet"
			if err != nil {
				msg = "build failed: " + err.Error()
			}
			http.Error(w, msg, http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		files.ServeHTTP(w, r)
	})
	return mux
}

// debouncer returns a one-slot request channel and a trigger that fills it
// once no further trigger arrived for quiet.
func debouncer(quiet time.Duration) (chan struct{}, func(), func()) {
	var mu sync.Mutex
	var timer *time.Timer
	requests := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(quiet, func() { request(requests) })
	}
	stop := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
	}
	return requests, trigger, stop
}

// request queues a rebuild unless one is already queued.
func request(requests chan<- struct{}) {
	select {
	case requests <- struct{}{}:
	default:
	}
}

// startWorker runs rebuild for each request on a single goroutine. Requests
// arriving during a build collapse into one follow-up build.
func startWorker(ctx context.Context, logger *slog.Logger, requests <-chan struct{}, rebuild func(context.Context)) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-requests:
				logger.Info("Change detected; rebuilding site")
				rebuild(ctx)
			}
		}
	}()
	return done
}

// schedule adds an interval job that queues a rebuild.
func schedule(every time.Duration, requests chan<- struct{}) (gocron.Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryUnknown, "create scheduler").Build()
	}
	_, err = s.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() { request(requests) }),
		gocron.WithName("preview-rebuild"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return nil, errors.WrapError(err, errors.CategoryUsage, "schedule periodic rebuild").WithContext("every", every.String()).Build()
	}
	s.Start()
	return s, nil
}
