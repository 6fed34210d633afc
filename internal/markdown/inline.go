package markdown

import "regexp"

// inlineRules run in this order. Bold must precede emphasis so the inner '*'
// of "**x**" is consumed first.
var inlineRules = []struct {
	pattern *regexp.Regexp
	replace string
}{
	{regexp.MustCompile(`!\[([^\]]*)\]\(([^)]+)\)`), `<img src="$2" alt="$1" />`},
	{regexp.MustCompile(`\[([^\]]*)\]\(([^)]+)\)`), `<a href="$2">$1</a>`},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), `<strong>$1</strong>`},
	{regexp.MustCompile(`\*([^*]+)\*`), `<em>$1</em>`},
	{regexp.MustCompile("`([^`]+)`"), `<code>$1</code>`},
}

// Inline applies the inline formatting pass to a text fragment. Raw HTML in
// the fragment passes through untouched.
func Inline(s string) string {
	for _, r := range inlineRules {
		s = r.pattern.ReplaceAllString(s, r.replace)
	}
	return s
}
