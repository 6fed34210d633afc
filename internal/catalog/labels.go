package catalog

import (
	"strings"

	"git.home.luguber.info/inful/blogbuilder/internal/config"
)

// Untagged is the synthetic tag for posts without tags.
const Untagged = "untagged"

// TagLabel returns the display label of tag: the tag_labels mapping, else
// untagged_label for the synthetic bucket, else the slug itself.
func TagLabel(cfg *config.Site, tag string) string {
	if v, ok := cfg.Label("tag_labels", tag); ok {
		return v
	}
	if tag == Untagged {
		return cfg.String("untagged_label", "Untagged")
	}
	return tag
}

// SegmentLabel returns the display label of one category segment: the
// category_labels mapping, else the segment with hyphens as spaces and the
// first letter upper-cased.
func SegmentLabel(cfg *config.Site, seg string) string {
	if v, ok := cfg.Label("category_labels", seg); ok {
		return v
	}
	return prettify(seg)
}

// PathLabel labels every segment of a category path, joined with " / ".
func PathLabel(cfg *config.Site, path string) string {
	segs := splitPath(path)
	labels := make([]string, len(segs))
	for i, s := range segs {
		labels[i] = SegmentLabel(cfg, s)
	}
	return strings.Join(labels, " / ")
}

// Breadcrumb links each prefix of a category path to its category page.
func Breadcrumb(cfg *config.Site, path string) string {
	segs := splitPath(path)
	parts := make([]string, len(segs))
	prefix := ""
	for i, s := range segs {
		if prefix != "" {
			prefix += "/"
		}
		prefix += s
		parts[i] = `<a href="/categories/` + prefix + `/">` + Escape(SegmentLabel(cfg, s)) + `</a>`
	}
	return strings.Join(parts, " / ")
}

// ArticleSection is the label of the last category segment, or "".
func ArticleSection(cfg *config.Site, path string) string {
	segs := splitPath(path)
	if len(segs) == 0 {
		return ""
	}
	return SegmentLabel(cfg, segs[len(segs)-1])
}

func prettify(seg string) string {
	s := strings.ReplaceAll(seg, "-", " ")
	if s == "" {
		return seg
	}
	r := []rune(s)
	return strings.ToUpper(string(r[0])) + string(r[1:])
}

func splitPath(path string) []string {
	var out []string
	for _, s := range strings.Split(path, "/") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
