package markdown

import (
	"regexp"
	"strings"
)

// ExcerptLimit is the maximum excerpt length in characters, ellipsis included.
const ExcerptLimit = 180

var (
	anyTag     = regexp.MustCompile(`<[^>]+>`)
	whitespace = regexp.MustCompile(`\s+`)
)

// FirstParagraphText derives a plain-text excerpt from md: the first
// paragraph, else the first list item, else the first blockquote, else the
// whole document with tags removed. Whitespace is collapsed and text longer
// than ExcerptLimit is cut to ExcerptLimit-3 characters plus "…".
func FirstParagraphText(md string) string {
	html := ToHTML(md)

	text, found := "", false
	for _, tag := range []string{"p", "li", "blockquote"} {
		text, found = between(html, "<"+tag+">", "</"+tag+">")
		if found && strings.TrimSpace(text) != "" {
			break
		}
	}
	if !found {
		text = anyTag.ReplaceAllString(html, " ")
	}

	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	return truncate(text, ExcerptLimit)
}

// between returns the tag-stripped content between the first open marker and
// the close marker after it.
func between(s, open, closing string) (string, bool) {
	i := strings.Index(s, open)
	if i < 0 {
		return "", false
	}
	rest := s[i+len(open):]
	j := strings.Index(rest, closing)
	if j < 0 {
		return "", false
	}
	return anyTag.ReplaceAllString(rest[:j], ""), true
}

func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "…"
}
