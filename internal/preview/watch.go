package preview

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// skipDirs are never watched.
var skipDirs = map[string]bool{".git": true, "node_modules": true}

// treeWatcher watches a source tree recursively, leaving out the output
// directory so a build never retriggers itself.
type treeWatcher struct {
	*fsnotify.Watcher
	logger *slog.Logger
	out    string
}

func newWatcher(logger *slog.Logger, src, out string) (*treeWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryIO, "create file watcher").Build()
	}
	tw := &treeWatcher{Watcher: w, logger: logger, out: filepath.Clean(out)}
	if err := tw.addRecursive(src); err != nil {
		_ = w.Close()
		return nil, err
	}
	return tw, nil
}

// excluded reports whether path is the output directory or below it.
func (tw *treeWatcher) excluded(path string) bool {
	path = filepath.Clean(path)
	return path == tw.out || strings.HasPrefix(path, tw.out+string(filepath.Separator))
}

func (tw *treeWatcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return errors.WrapError(err, errors.CategoryIO, "watch source tree").WithContext("path", root).Build()
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && (skipDirs[d.Name()] || shouldIgnoreEvent(path)) {
			return filepath.SkipDir
		}
		if tw.excluded(path) {
			return filepath.SkipDir
		}
		if err := tw.Add(path); err != nil {
			tw.logger.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
		}
		return nil
	})
}

// relevant decides whether ev should trigger a rebuild, registering new
// directories on the way.
func (tw *treeWatcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod || shouldIgnoreEvent(ev.Name) || tw.excluded(ev.Name) {
		return false
	}
	if skipDirs[filepath.Base(ev.Name)] {
		return false
	}
	if ev.Op.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = tw.addRecursive(ev.Name)
		}
	}
	return true
}

// watchLoop feeds relevant events into trigger until ctx is done or the
// server fails.
func watchLoop(ctx context.Context, logger *slog.Logger, tw *treeWatcher, trigger func(), serveErr <-chan error) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-serveErr:
			if ok && err != nil {
				return errors.WrapError(err, errors.CategoryIO, "preview server failed").Build()
			}
			serveErr = nil
		case ev, ok := <-tw.Events:
			if !ok {
				return nil
			}
			if tw.relevant(ev) {
				logger.Debug("File change detected", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
				trigger()
			}
		case err, ok := <-tw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", logfields.Error(err))
		}
	}
}

// shouldIgnoreEvent reports whether path is a hidden, editor temp or OS
// metadata file.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
