// Package slug turns human-entered text into URL-safe path segments.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fallback is returned when nothing ASCII-representable survives normalization.
const Fallback = "post"

var (
	disallowed = regexp.MustCompile(`[^a-z0-9\-\s]`)
	whitespace = regexp.MustCompile(`\s+`)
)

// Of returns the slug for text. The result matches [a-z0-9-]+ and is never empty.
// Distinct inputs may collide on Fallback; callers that need uniqueness must
// disambiguate themselves.
func Of(text string) string {
	if s := Clean(text); s != "" {
		return s
	}
	return Fallback
}

// Clean is Of without the fallback: it returns "" when nothing survives.
func Clean(text string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	s, _, err := transform.String(t, text)
	if err != nil {
		s = text
	}
	s = strings.ToLower(s)
	s = disallowed.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)
	return whitespace.ReplaceAllString(s, "-")
}

// Segments slugifies each slash-separated segment of path and drops empty ones.
// "Tech / Rust Lang" becomes "tech/rust-lang"; a blank path stays blank.
func Segments(path string) string {
	parts := strings.Split(path, "/")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			continue
		}
		out = append(out, Of(p))
	}
	return strings.Join(out, "/")
}
