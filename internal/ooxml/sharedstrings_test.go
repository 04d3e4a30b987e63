package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
)

func TestSharedStringsBuildParseRoundTrip(t *testing.T) {
	entries := []xl.RichText{
		xl.PlainText("alpha"),
		xl.PlainText("beta"),
		{Runs: []xl.TextRun{
			{Text: "bold ", Font: &xl.Font{Bold: true}},
			{Text: "plain"},
		}},
	}
	out, err := BuildSharedStrings(xmlutil.DOMBackend, entries, 7)
	require.NoError(t, err)

	parsed, err := ParseSharedStrings(out)
	require.NoError(t, err)
	require.Equal(t, 7, parsed.Count)
	require.Len(t, parsed.Strings, 3)
	require.Equal(t, "alpha", parsed.Strings[0].ToPlainText())
	require.Equal(t, "beta", parsed.Strings[1].ToPlainText())
	require.Equal(t, "bold plain", parsed.Strings[2].ToPlainText())
	require.NotNil(t, parsed.Strings[2].Runs[0].Font)
	require.True(t, parsed.Strings[2].Runs[0].Font.Bold)
	require.Nil(t, parsed.Strings[2].Runs[1].Font)
}

func TestSharedStringsCountCanExceedEntries(t *testing.T) {
	out, err := BuildSharedStrings(xmlutil.DOMBackend, []xl.RichText{xl.PlainText("only")}, 5)
	require.NoError(t, err)
	parsed, err := ParseSharedStrings(out)
	require.NoError(t, err)
	require.Equal(t, 5, parsed.Count)
	require.Len(t, parsed.Strings, 1)
}

func TestSharedStringsEmptyTableStillValid(t *testing.T) {
	out, err := BuildSharedStrings(xmlutil.DOMBackend, nil, 0)
	require.NoError(t, err)
	parsed, err := ParseSharedStrings(out)
	require.NoError(t, err)
	require.Equal(t, 0, parsed.Count)
	require.Empty(t, parsed.Strings)
}
