package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRendererFor(t *testing.T) {
	require.Equal(t, EngineNative, RendererFor("").Name())
	require.Equal(t, EngineNative, RendererFor("pandoc").Name())
	require.Equal(t, EngineGoldmark, RendererFor(" Goldmark ").Name())
}

func TestNativeRenderer(t *testing.T) {
	out, err := Native{}.Render("# A")
	require.NoError(t, err)
	require.Equal(t, "<h1>A</h1>", out)
}

func TestGoldmarkRenderer_TablesAndFrontMatter(t *testing.T) {
	md := "---\ntitle: x\n---\n| A | B |\n| --- | ---: |\n| 1 | 2 |\n"
	out, err := NewGoldmark().Render(md)
	require.NoError(t, err)
	require.Contains(t, out, "<table>")
	require.Contains(t, out, `<th style="text-align:right">B</th>`)
	require.NotContains(t, out, "title: x")
}

func TestImages(t *testing.T) {
	md := "---\nog: no\n---\nIntro ![first](/a.png)\n\n![second][ref]\n\n[ref]: /b.jpg\n"
	require.Equal(t, []string{"/a.png", "/b.jpg"}, Images(md))
	require.Empty(t, Images("no images here"))
}
