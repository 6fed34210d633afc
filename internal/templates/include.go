package templates

import (
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/afero"
)

var includeDirective = regexp.MustCompile(`<!--\s*@include\s+(?:path=)?"?([^"\s]+)"?\s*-->`)

// Includer expands <!-- @include path --> directives. Paths resolve against
// Root on Source first, then against the embedded Defaults tree. Expansion is
// a single pass: directives inside included text are left as they are.
type Includer struct {
	Source   afero.Fs
	Root     string
	Defaults fs.FS
}

// Expand replaces every include directive in text.
func (in Includer) Expand(text string) string {
	if !strings.Contains(text, "@include") {
		return text
	}
	return includeDirective.ReplaceAllStringFunc(text, func(match string) string {
		rel := strings.TrimSpace(includeDirective.FindStringSubmatch(match)[1])
		return in.resolve(rel)
	})
}

func (in Includer) resolve(rel string) string {
	clean, ok := cleanRel(rel)
	if !ok {
		return notFound(rel)
	}
	if in.Source != nil {
		p := filepath.Join(in.Root, filepath.FromSlash(clean))
		if info, err := in.Source.Stat(p); err == nil && !info.IsDir() {
			data, err := afero.ReadFile(in.Source, p)
			if err != nil {
				return "<!-- include error: " + rel + " -->"
			}
			return string(data)
		}
	}
	if in.Defaults != nil {
		if data, err := fs.ReadFile(in.Defaults, clean); err == nil {
			return string(data)
		}
	}
	return notFound(rel)
}

func notFound(rel string) string {
	return "<!-- include not found: " + rel + " -->"
}

// cleanRel normalizes a directive path to a slash-separated path inside the
// root. Absolute paths and paths climbing out with ".." are rejected.
func cleanRel(rel string) (string, bool) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if rel == "" || strings.HasPrefix(rel, "/") {
		return "", false
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}
