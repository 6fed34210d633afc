package markdown

import (
	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Images returns the destinations of all images in md, in document order.
//
// It parses with goldmark rather than the native converter so reference-style
// images are found too. The import step uses the first one as a post's social
// preview image when the draft does not name one.
func Images(md string) []string {
	body := []byte(stripFrontMatter(md))
	root := goldmark.New().Parser().Parse(text.NewReader(body))

	var out []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if img, ok := n.(*gmast.Image); ok {
			out = append(out, string(img.Destination))
		}
		return gmast.WalkContinue, nil
	})
	return out
}
