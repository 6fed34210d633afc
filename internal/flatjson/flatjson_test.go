package flatjson

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse_FlatPairs(t *testing.T) {
	m := Parse("{\n  \"a\": \"1\",\n  \"b\": \"x y\"\n}")
	require.Equal(t, map[string]string{"a": "1", "b": "x y"}, m)
}

func TestParse_PairsAnywhereInText(t *testing.T) {
	m := Parse(`junk "domain" :  "https://blog.example" more junk "flag":"true"`)
	require.Equal(t, map[string]string{"domain": "https://blog.example", "flag": "true"}, m)
}

func TestParse_LastDuplicateWins(t *testing.T) {
	m := Parse(`{"k":"1","k":"2"}`)
	require.Equal(t, "2", m["k"])
}

func TestPairs_DocumentOrder(t *testing.T) {
	ps := Pairs(`{"Z":"1","A":"2","M":"3"}`)
	require.Equal(t, []Pair{{"Z", "1"}, {"A", "2"}, {"M", "3"}}, ps)
}

func TestParse_EmptyInput(t *testing.T) {
	require.Empty(t, Parse(""))
	require.Empty(t, Parse("not json at all"))
}

func TestEncode_ReadsBack(t *testing.T) {
	text := Encode([]Pair{
		{"PAGE_DESCRIPTION", `Tom & "Jerry" <3`},
		{"TAGS", "go,web"},
	})
	require.Equal(t, "{\n  \"PAGE_DESCRIPTION\": \"Tom &amp; &quot;Jerry&quot; &lt;3\",\n  \"TAGS\": \"go,web\"\n}\n", text)

	m := Parse(text)
	require.Equal(t, "Tom &amp; &quot;Jerry&quot; &lt;3", m["PAGE_DESCRIPTION"])
	require.Equal(t, "go,web", m["TAGS"])
}

func TestEncode_Empty(t *testing.T) {
	require.Equal(t, "{\n}\n", Encode(nil))
}
