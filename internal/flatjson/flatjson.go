// Package flatjson reads and writes the flat string-to-string JSON objects used
// for site.json and post sidecar files.
//
// The reader is deliberately lenient: any "key": "value" pair found anywhere in
// the text is taken as data and nesting is ignored. Existing content depends on
// that, so this is not a general JSON parser.
package flatjson

import (
	"regexp"
	"strings"
)

var pair = regexp.MustCompile(`"(.*?)"\s*:\s*"(.*?)"`)

// Pair is one key/value entry in document order.
type Pair struct {
	Key   string
	Value string
}

// Pairs returns every key/value pair in the order it appears in text.
func Pairs(text string) []Pair {
	matches := pair.FindAllStringSubmatch(text, -1)
	out := make([]Pair, 0, len(matches))
	for _, m := range matches {
		out = append(out, Pair{Key: m[1], Value: m[2]})
	}
	return out
}

// Parse returns the pairs in text as a map. A repeated key keeps its last value.
func Parse(text string) map[string]string {
	out := make(map[string]string)
	for _, p := range Pairs(text) {
		out[p.Key] = p.Value
	}
	return out
}

var valueEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;", "\n", " ", "\r", "")

// Encode renders pairs as a flat JSON object, one pair per line.
// Values are HTML-escaped so the result reads back unchanged through Parse and
// can be substituted into pages verbatim.
func Encode(pairs []Pair) string {
	var b strings.Builder
	b.WriteString("{\n")
	for i, p := range pairs {
		b.WriteString(`  "`)
		b.WriteString(p.Key)
		b.WriteString(`": "`)
		b.WriteString(valueEscaper.Replace(p.Value))
		b.WriteString(`"`)
		if i < len(pairs)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString("}\n")
	return b.String()
}
