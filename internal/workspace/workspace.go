package workspace

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
)

// Manager owns one ephemeral workspace directory.
type Manager struct {
	baseDir string
	dir     string
	logger  *slog.Logger
	now     func() time.Time
}

// NewManager returns a manager creating workspaces under baseDir, or the
// system temp directory when baseDir is empty.
func NewManager(baseDir string, logger *slog.Logger) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{baseDir: baseDir, logger: logger, now: time.Now}
}

// Create makes a fresh directory named blogbuilder-<timestamp>-<random>.
func (m *Manager) Create() error {
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create workspace base").WithContext("path", m.baseDir).Build()
	}
	dir, err := os.MkdirTemp(m.baseDir, "blogbuilder-"+m.now().Format("20060102-150405")+"-*")
	if err != nil {
		return errors.WrapError(err, errors.CategoryIO, "create workspace").WithContext("path", m.baseDir).Build()
	}
	m.dir = dir
	m.logger.Debug("Created workspace", logfields.Path(dir))
	return nil
}

// GetPath returns the workspace directory, or "" before Create.
func (m *Manager) GetPath() string {
	return m.dir
}

// CreateSubdir creates a subdirectory within the workspace.
func (m *Manager) CreateSubdir(name string) (string, error) {
	if m.dir == "" {
		return "", errors.UsageError("workspace not created").Build()
	}
	subdir := filepath.Join(m.dir, name)
	if err := os.MkdirAll(subdir, 0o750); err != nil {
		return "", errors.WrapError(err, errors.CategoryIO, "create workspace subdirectory").WithContext("path", subdir).Build()
	}
	return subdir, nil
}

// Cleanup removes the workspace. It is safe to call more than once.
func (m *Manager) Cleanup() error {
	if m.dir == "" {
		return nil
	}
	if err := os.RemoveAll(m.dir); err != nil {
		return errors.WrapError(err, errors.CategoryIO, "remove workspace").WithContext("path", m.dir).Build()
	}
	m.logger.Debug("Removed workspace", logfields.Path(m.dir))
	m.dir = ""
	return nil
}
