package content

import (
	"cmp"
	"fmt"
	"html"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"git.home.luguber.info/inful/blogbuilder/internal/logfields"
	"git.home.luguber.info/inful/blogbuilder/internal/metrics"
	"git.home.luguber.info/inful/blogbuilder/internal/slug"
)

// PostsDir is the directory under a site root that holds post files.
const PostsDir = "posts"

var postFileName = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.html$`)

// Scanner reads root/posts/*.html into Post records.
type Scanner struct {
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// NewScanner returns a scanner logging to logger.
func NewScanner(logger *slog.Logger) *Scanner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scanner{Logger: logger, Recorder: metrics.NoopRecorder{}}
}

// ScanPosts returns the posts under root/posts sorted by date descending,
// ties broken by file name ascending. A missing posts directory yields an
// empty list. Files whose name does not follow YYYY-MM-DD-<slug>.html are
// ignored; files that match but fail to load are logged and skipped.
func (s *Scanner) ScanPosts(fsys afero.Fs, root string) ([]Post, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := metrics.OrNoop(s.Recorder)

	dir := filepath.Join(root, PostsDir)
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		if os.IsNotExist(err) {
			rec.SetPostsScanned(0)
			return []Post{}, nil
		}
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	posts := make([]Post, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !postFileName.MatchString(e.Name()) {
			continue
		}
		p, err := loadPost(fsys, filepath.Join(dir, e.Name()))
		if err != nil {
			logger.Warn("Skipping post", logfields.File(e.Name()), logfields.Error(err))
			rec.IncScanWarnings()
			continue
		}
		posts = append(posts, p)
	}

	SortPosts(posts)
	rec.SetPostsScanned(len(posts))
	logger.Debug("Scanned posts", logfields.Path(dir), logfields.Count(len(posts)))
	return posts, nil
}

// SortPosts orders posts newest first, ties by file name ascending.
func SortPosts(posts []Post) {
	slices.SortStableFunc(posts, func(a, b Post) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.FileName, b.FileName)
	})
}

func loadPost(fsys afero.Fs, file string) (Post, error) {
	name := filepath.Base(file)
	m := postFileName.FindStringSubmatch(name)
	if m == nil {
		return Post{}, fmt.Errorf("file name %q does not match YYYY-MM-DD-<slug>.html", name)
	}
	date, err := time.Parse(time.DateOnly, m[1])
	if err != nil {
		return Post{}, fmt.Errorf("invalid date prefix %q: %w", m[1], err)
	}

	body, err := afero.ReadFile(fsys, file)
	if err != nil {
		return Post{}, fmt.Errorf("read post: %w", err)
	}

	p := Post{
		FileName: name,
		URL:      "/" + path.Join(PostsDir, name),
		Date:     date,
		Title:    ExtractTitle(string(body)),
		Tags:     []string{},
	}

	meta, ok := ReadSidecar(fsys, file)
	if !ok {
		return p, nil
	}
	// Sidecar values are stored HTML-escaped; Post fields hold plain text.
	field := func(key string) string { return strings.TrimSpace(html.UnescapeString(meta[key])) }
	p.Description = field(KeyDescription)
	p.Tags = ParseTags(field(KeyTags))
	p.CategoryPath = slug.Segments(field(KeyCategoryPath))
	p.Series = field(KeySeries)
	p.SeriesOrder = ParseOrder(meta[KeySeriesOrder])
	p.OGImage = field(KeyOGImage)
	return p, nil
}

// ParseTags splits a comma-separated tag list into unique slugs, keeping
// first-seen order. Blank entries are dropped; tags with nothing
// ASCII-representable slug to slug.Fallback and share one tag page.
func ParseTags(raw string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		t := slug.Of(part)
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseOrder parses a series position; blank or invalid input yields nil.
func ParseOrder(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
