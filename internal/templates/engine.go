package templates

import "strings"

// Apply replaces every {{KEY}} occurrence with its value, key by key in
// insertion order. Substitution is literal: values are not escaped and are
// not scanned again for their own placeholders by the same key. Unknown
// placeholders pass through unchanged.
func Apply(text string, tokens *Tokens) string {
	if tokens == nil || text == "" {
		return text
	}
	out := text
	for _, k := range tokens.keys {
		ph := "{{" + k + "}}"
		if !strings.Contains(out, ph) {
			continue
		}
		out = strings.ReplaceAll(out, ph, tokens.values[k])
	}
	return out
}
