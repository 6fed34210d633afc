package content

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Untitled is used when a post has neither <h1> nor <title>.
const Untitled = "Untitled"

var spaces = regexp.MustCompile(`\s+`)

// ExtractTitle returns the text of the first <h1>, else the first <title>,
// else Untitled. Markup is stripped and entities decoded. An <h1> whose text
// is empty counts as missing, so the <title> is used instead.
func ExtractTitle(doc string) string {
	if t, ok := FirstElementText(doc, "h1"); ok && t != "" {
		return t
	}
	if t, ok := FirstElementText(doc, "title"); ok && t != "" {
		return t
	}
	return Untitled
}

// FirstElementText returns the whitespace-collapsed text content of the
// first element named tag.
func FirstElementText(doc, tag string) (string, bool) {
	z := html.NewTokenizer(strings.NewReader(doc))
	depth := 0
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			if depth > 0 {
				return clean(text.String()), true
			}
			return "", false
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == tag {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if string(name) == tag && depth > 0 {
				depth--
				if depth == 0 {
					return clean(text.String()), true
				}
			}
		case html.TextToken:
			if depth > 0 {
				text.Write(z.Text())
			}
		}
	}
}

func clean(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}
