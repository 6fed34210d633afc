// Package frontmatter reads the flat key/value header of markdown drafts and
// renders YAML headers for new ones.
package frontmatter

import (
	"strings"
)

const (
	delimiter = "---"
	bom       = "\ufeff"
)

// block returns the raw header text between the opening delimiter line and the
// next "\n---", or ok=false when the document has no header.
func block(text string) (string, bool) {
	s := strings.TrimPrefix(text, bom)
	s = strings.TrimLeft(s, " \t\r\n")
	if !strings.HasPrefix(s, delimiter) {
		return "", false
	}
	start := strings.Index(s, "\n")
	if start < 0 {
		return "", false
	}
	end := strings.Index(s[start:], "\n"+delimiter)
	if end < 0 {
		return "", false
	}
	return s[start : start+end], true
}

// Split separates a document into its raw header text and the body after the
// closing delimiter line. Without a header the whole text is the body.
func Split(text string) (header, body string, ok bool) {
	s := strings.TrimLeft(strings.TrimPrefix(text, bom), " \t\r\n")
	raw, ok := block(s)
	if !ok {
		return "", text, false
	}
	rest := s[strings.Index(s, "\n")+len(raw)+1+len(delimiter):]
	if i := strings.Index(rest, "\n"); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = ""
	}
	return strings.Trim(raw, "\r\n"), rest, true
}

// HasBlock reports whether text starts with a delimited header block.
func HasBlock(text string) bool {
	_, ok := block(text)
	return ok
}

// Parse extracts the header of a markdown document as plain strings.
//
// Lines are "key: value", split at the first colon, with one pair of matching
// single or double quotes stripped from the value. Blank lines and lines
// starting with '#' are skipped. An indented line following a key is appended to
// that key's value, space-joined. A non-indented line without a colon ends the
// current key. A document without a header yields an empty map.
func Parse(text string) map[string]string {
	out := map[string]string{}
	raw, ok := block(text)
	if !ok {
		return out
	}

	currentKey := ""
	for _, line := range strings.Split(strings.TrimSpace(strings.ReplaceAll(raw, "\r\n", "\n")), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if currentKey != "" && (strings.HasPrefix(line, "  ") || strings.HasPrefix(line, "\t")) {
			if prev := out[currentKey]; prev != "" {
				out[currentKey] = prev + " " + trimmed
			} else {
				out[currentKey] = trimmed
			}
			continue
		}

		idx := strings.Index(line, ":")
		if idx <= 0 {
			currentKey = ""
			continue
		}

		key := strings.TrimSpace(line[:idx])
		currentKey = key
		out[key] = unquote(strings.TrimSpace(line[idx+1:]))
	}
	return out
}

func unquote(v string) string {
	if len(v) >= 2 {
		first, last := v[0], v[len(v)-1]
		if (first == '"' || first == '\'') && first == last {
			return v[1 : len(v)-1]
		}
	}
	return v
}

// List splits a header value holding several items. It accepts the inline
// "[a, b]" form, plain "a, b", and the "- a - b" shape an indented YAML
// sequence takes after continuation joining. Empty items are dropped.
func List(value string) []string {
	v := strings.TrimSpace(value)
	if strings.HasPrefix(v, "[") && strings.HasSuffix(v, "]") {
		v = v[1 : len(v)-1]
	}

	var parts []string
	if strings.HasPrefix(v, "- ") {
		parts = strings.Split(" "+v, " - ")
	} else {
		parts = strings.Split(v, ",")
	}

	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = unquote(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
