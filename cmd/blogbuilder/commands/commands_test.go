package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/blogbuilder/internal/foundation/errors"
)

// run parses args like the binary does and executes the selected command.
func run(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("blogbuilder"),
		kong.Vars{"version": "test"},
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }),
	)
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Run(&Global{Logger: slog.New(slog.DiscardHandler)})
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func TestParseLogLevel(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(false))
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(EnvLogLevel, "WARN")
	assert.Equal(t, slog.LevelWarn, parseLogLevel(false))
	assert.Equal(t, slog.LevelDebug, parseLogLevel(true))

	t.Setenv(EnvLogLevel, "error")
	assert.Equal(t, slog.LevelError, parseLogLevel(false))
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("2025-04-05")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())

	d, err = parseDay("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDay("05/04/2025")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))
}

func TestInit_DryRunWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	require.NoError(t, run(t, "init", dir, "--dry-run"))
	assert.False(t, fileExists(dir))

	require.NoError(t, run(t, "init", dir))
	assert.True(t, fileExists(filepath.Join(dir, "site.json")))
}

func TestNewPost(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, run(t, "new", "post", "Hello World", "--src", src, "--date", "2025-04-05"))
	assert.True(t, fileExists(filepath.Join(src, "posts", "2025-04-05-hello-world.html")))
	assert.True(t, fileExists(filepath.Join(src, "posts", "2025-04-05-hello-world.html.meta.json")))

	err := run(t, "new", "post", "Hello World", "--src", src, "--date", "2025-04-05")
	require.Error(t, err)
	assert.Equal(t, errors.CategoryValidation, errors.GetCategory(err))

	require.NoError(t, run(t, "new", "post", "Other", "--src", src, "--date", "2025-04-05", "--dry-run"))
	assert.False(t, fileExists(filepath.Join(src, "posts", "2025-04-05-other.html")))
}

func TestNewDraftThenImport(t *testing.T) {
	root := t.TempDir()
	md := filepath.Join(root, "md")
	require.NoError(t, run(t, "new", "draft", "First Draft", "--md", md, "--date", "2025-04-05"))
	draft := filepath.Join(md, "first-draft.md")
	require.True(t, fileExists(draft))

	data, err := os.ReadFile(draft)
	require.NoError(t, err)
	published := strings.Replace(string(data), "publish: false", "publish: true", 1)
	require.NoError(t, os.WriteFile(draft, []byte(published), 0o600))

	require.NoError(t, run(t, "import", "--md", md, "--site", root, "--dry-run"))
	assert.False(t, fileExists(filepath.Join(root, "posts")))

	require.NoError(t, run(t, "import", "--md", md, "--site", root))
	assert.True(t, fileExists(filepath.Join(root, "posts", "2025-04-05-first-draft.html")))
}

func TestImport_MissingDirectory(t *testing.T) {
	err := run(t, "import", "--md", filepath.Join(t.TempDir(), "missing"), "--site", t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 3, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestSampleAndBuild(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, run(t, "sample", dir, "--build"))
	assert.True(t, fileExists(filepath.Join(dir, "md", "hello.md")))
	assert.True(t, fileExists(filepath.Join(dir, "dist", "index.html")))

	out := filepath.Join(t.TempDir(), "public")
	metricsFile := filepath.Join(t.TempDir(), "blogbuilder.prom")
	require.NoError(t, run(t, "build", "--src", dir, "--out", out, "--metrics-file", metricsFile))
	assert.True(t, fileExists(filepath.Join(out, "index.html")))
	assert.False(t, fileExists(filepath.Join(out, "site.json")))

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(prom), "blogbuilder_")
}

func TestSample_DryRunWritesNothing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "demo")
	require.NoError(t, run(t, "sample", dir, "--build", "--dry-run"))
	assert.False(t, fileExists(dir))
}

func TestBuild_RejectsOutputEqualToSource(t *testing.T) {
	dir := t.TempDir()
	err := run(t, "build", "--src", dir, "--out", dir)
	require.Error(t, err)
	assert.Equal(t, 2, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}
