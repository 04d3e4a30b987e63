package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
)

func TestCommentsBuildParseRoundTrip(t *testing.T) {
	comments := map[string]xl.Comment{
		"A1": {Author: "Jordan Lee", Text: xl.PlainText("looks right")},
		"B2": {Author: "Taylor Chen", Text: xl.PlainText("double check this")},
	}
	out, err := BuildComments(xmlutil.DOMBackend, []string{"A1", "B2"}, comments)
	require.NoError(t, err)

	parsed, err := ParseComments("xl/comments1.xml", out)
	require.NoError(t, err)
	require.Equal(t, "Jordan Lee", parsed["A1"].Author)
	require.Equal(t, "looks right", parsed["A1"].Text.ToPlainText())
	require.Equal(t, "Taylor Chen", parsed["B2"].Author)
	require.Equal(t, "double check this", parsed["B2"].Text.ToPlainText())
}

func TestCommentsDedupeAuthors(t *testing.T) {
	comments := map[string]xl.Comment{
		"A1": {Author: "Same Person", Text: xl.PlainText("first")},
		"A2": {Author: "Same Person", Text: xl.PlainText("second")},
	}
	out, err := BuildComments(xmlutil.DOMBackend, []string{"A1", "A2"}, comments)
	require.NoError(t, err)
	require.Equal(t, 1, countOccurrences(string(out), "<author>"))
}

func TestCommentAuthorIDOutOfRangeFails(t *testing.T) {
	raw := []byte(`<?xml version="1.0"?><comments xmlns="ns"><authors></authors>` +
		`<commentList><comment ref="A1" authorId="0"><text><r><t>hi</t></r></text></comment></commentList></comments>`)
	_, err := ParseComments("xl/comments1.xml", raw)
	require.Error(t, err)
}

func countOccurrences(s, sub string) int {
	count := 0
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			count++
			i += len(sub) - 1
		}
	}
	return count
}
