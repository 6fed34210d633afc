package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldmarkhtml "github.com/yuin/goldmark/renderer/html"
)

// Engine names accepted by RendererFor.
const (
	EngineNative   = "native"
	EngineGoldmark = "goldmark"
)

// Renderer turns a markdown document into an HTML fragment.
type Renderer interface {
	Name() string
	Render(md string) (string, error)
}

// Native is the built-in line converter.
type Native struct{}

func (Native) Name() string { return EngineNative }

// Render never fails.
func (Native) Render(md string) (string, error) { return ToHTML(md), nil }

// Goldmark renders CommonMark with GitHub tables, strikethrough and autolinks.
// Raw HTML in drafts is kept, matching the native converter.
type Goldmark struct {
	md goldmark.Markdown
}

// NewGoldmark builds the goldmark engine.
func NewGoldmark() *Goldmark {
	return &Goldmark{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(goldmarkhtml.WithUnsafe()),
	)}
}

func (g *Goldmark) Name() string { return EngineGoldmark }

// Render drops front matter the same way the native converter does.
func (g *Goldmark) Render(md string) (string, error) {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(stripFrontMatter(md)), &buf); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// RendererFor returns the engine named by the markdown_engine setting.
// Unknown or empty names select Native.
func RendererFor(name string) Renderer {
	if strings.EqualFold(strings.TrimSpace(name), EngineGoldmark) {
		return NewGoldmark()
	}
	return Native{}
}
