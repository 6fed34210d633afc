package markdown

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestFirstParagraphText_Paragraph(t *testing.T) {
	md := "# Title\n\nFirst **bold** [link](/x).\n\nSecond."
	require.Equal(t, "First bold link.", FirstParagraphText(md))
}

func TestFirstParagraphText_FallsBackToListItem(t *testing.T) {
	require.Equal(t, "first item", FirstParagraphText("# T\n\n- first *item*\n- second"))
}

func TestFirstParagraphText_FallsBackToBlockquote(t *testing.T) {
	require.Equal(t, "quoted text", FirstParagraphText("> quoted\n> text"))
}

func TestFirstParagraphText_FallsBackToWholeDocument(t *testing.T) {
	require.Equal(t, "Only heading", FirstParagraphText("# Only heading"))
	require.Equal(t, "", FirstParagraphText(""))
}

func TestFirstParagraphText_Truncates(t *testing.T) {
	long := strings.Repeat("가", 200)
	got := FirstParagraphText(long)
	require.Equal(t, ExcerptLimit-2, utf8.RuneCountInString(got))
	require.True(t, strings.HasSuffix(got, "…"))
	require.Equal(t, strings.Repeat("가", ExcerptLimit-3)+"…", got)

	exact := strings.Repeat("a", ExcerptLimit)
	require.Equal(t, exact, FirstParagraphText(exact))
}

func TestFirstParagraphText_CapsListItem(t *testing.T) {
	got := FirstParagraphText("- " + strings.Repeat("word ", 60))
	require.LessOrEqual(t, utf8.RuneCountInString(got), ExcerptLimit)
	require.True(t, strings.HasPrefix(got, "word word"))
}
