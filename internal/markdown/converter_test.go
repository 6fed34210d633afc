package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTML_HeadingAndParagraph(t *testing.T) {
	out := ToHTML("# Title\n\nHello **world**.")
	require.Equal(t, "<h1>Title</h1>\n<p>Hello <strong>world</strong>.</p>", out)
}

func TestToHTML_HeadingLevelCappedAtSix(t *testing.T) {
	require.Equal(t, "<h6>## deep</h6>", ToHTML("######## deep"))
	require.Equal(t, "<h3>Three</h3>", ToHTML("  ### Three  "))
}

func TestToHTML_FencedCode(t *testing.T) {
	out := ToHTML("```python\nprint(1)\n```")
	require.Equal(t, "<pre><code class=\"language-python\">print(1)\n</code></pre>", out)
}

func TestToHTML_FencedCodeEscapesAndSkipsInline(t *testing.T) {
	out := ToHTML("```\nif a < b && **c** {\n\treturn\n}\n```")
	require.Equal(t, "<pre><code>if a &lt; b &amp;&amp; **c** {\n    return\n}\n</code></pre>", out)
}

func TestToHTML_UnclosedFenceIsFlushed(t *testing.T) {
	out := ToHTML("text\n```go\nx := 1")
	require.Equal(t, "<p>text</p>\n<pre><code class=\"language-go\">x := 1\n</code></pre>", out)
}

func TestToHTML_UnorderedList(t *testing.T) {
	require.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>", ToHTML("- a\n- b\n"))
}

func TestToHTML_NestedLists(t *testing.T) {
	md := "- a\n  - a1\n  - a2\n- b\n  1. one\n"
	want := strings.Join([]string{
		"<ul>",
		"<li>a</li>",
		"<ul>",
		"<li>a1</li>",
		"<li>a2</li>",
		"</ul>",
		"<li>b</li>",
		"<ol>",
		"<li>one</li>",
		"</ol>",
		"</ul>",
	}, "\n")
	require.Equal(t, want, ToHTML(md))
}

func TestToHTML_ListKindChangeAtSameLevelReopens(t *testing.T) {
	require.Equal(t, "<ul>\n<li>a</li>\n</ul>\n<ol>\n<li>b</li>\n</ol>", ToHTML("- a\n1. b"))
}

func TestToHTML_BlankLineKeepsListOpen(t *testing.T) {
	require.Equal(t, "<ul>\n<li>a</li>\n<li>b</li>\n</ul>", ToHTML("- a\n\n- b"))
}

func TestToHTML_PlainLineClosesLists(t *testing.T) {
	// No lazy continuation: the second line becomes a paragraph.
	require.Equal(t, "<ul>\n<li>item</li>\n</ul>\n<p>continued</p>", ToHTML("- item\ncontinued"))
}

func TestToHTML_Table(t *testing.T) {
	md := "| A | B |\n| --- | ---: |\n| 1 | 2 |\n\nafter"
	want := "<table>\n" +
		"  <thead><tr>\n" +
		"    <th>A</th>\n" +
		"    <th style=\"text-align: right\">B</th>\n" +
		"  </tr></thead>\n" +
		"  <tbody>\n" +
		"    <tr>\n" +
		"      <td>1</td>\n" +
		"      <td style=\"text-align: right\">2</td>\n" +
		"    </tr>\n" +
		"  </tbody>\n" +
		"</table>\n" +
		"<p>after</p>"
	require.Equal(t, want, ToHTML(md))
}

func TestToHTML_TableAlignmentsAndShortRows(t *testing.T) {
	md := "L | C | R\n:--- | :---: | ---:\nx\n"
	out := ToHTML(md)
	require.Contains(t, out, `<th style="text-align: left">L</th>`)
	require.Contains(t, out, `<th style="text-align: center">C</th>`)
	require.Contains(t, out, `<th style="text-align: right">R</th>`)
	// "x" has no pipe, so the table has no body rows and x is a paragraph.
	require.True(t, strings.HasSuffix(out, "</table>\n<p>x</p>"))
}

func TestToHTML_SeparatorToleratesOneBadCell(t *testing.T) {
	require.True(t, isSeparatorRow("| --- | ab | --- |"))
	require.False(t, isSeparatorRow("| ab | cd | --- |"))
	require.False(t, isSeparatorRow("| -- |"))
	require.True(t, isSeparatorRow("|---|"))
	require.False(t, isSeparatorRow("---"))
}

func TestToHTML_HorizontalRule(t *testing.T) {
	require.Equal(t, "<p>a</p>\n<hr />\n<p>b</p>", ToHTML("a\n***\nb"))
	require.Equal(t, "<hr />", ToHTML("___"))
	require.Equal(t, "<p>-*-</p>", ToHTML("-*-"))
}

func TestToHTML_Blockquote(t *testing.T) {
	require.Equal(t, "<blockquote>one <em>two</em></blockquote>", ToHTML("> one\n> *two*"))
	require.Equal(t, "<blockquote>q</blockquote>\n<p>para</p>", ToHTML("> q\npara"))
	require.Equal(t, "<blockquote>a</blockquote>\n<blockquote>b</blockquote>", ToHTML("> a\n\n> b"))
}

func TestToHTML_ParagraphLinesJoined(t *testing.T) {
	require.Equal(t, "<p>one two</p>\n<p>three</p>", ToHTML("one\ntwo\n\nthree"))
}

func TestToHTML_StripsFrontMatter(t *testing.T) {
	md := "---\ntitle: x\npublish: true\n---\n# Body\n"
	require.Equal(t, "<h1>Body</h1>", ToHTML(md))
}

func TestToHTML_CRLF(t *testing.T) {
	require.Equal(t, "<h2>A</h2>\n<p>b</p>", ToHTML("## A\r\n\r\nb\r\n"))
}

func TestToHTML_EmptyInput(t *testing.T) {
	require.Equal(t, "", ToHTML(""))
	require.Equal(t, "", ToHTML("\n\n\n"))
}

func TestToHTML_Deterministic(t *testing.T) {
	md := "# T\n\n- a\n  - b\n\n| x | y |\n|---|---|\n| 1 | 2 |\n\n> q\n"
	require.Equal(t, ToHTML(md), ToHTML(md))
}
