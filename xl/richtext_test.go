package xl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlainTextIsPlain(t *testing.T) {
	rt := PlainText("hello")
	require.True(t, rt.IsPlain())
	require.Equal(t, "hello", rt.ToPlainText())
}

func TestRichTextWithFontIsNotPlain(t *testing.T) {
	rt := RichText{Runs: []TextRun{{Text: "hi", Font: &Font{Bold: true}}}}
	require.False(t, rt.IsPlain())
}

func TestRichTextMultiRunConcatenatesText(t *testing.T) {
	rt := RichText{Runs: []TextRun{{Text: "a"}, {Text: "b"}, {Text: "c"}}}
	require.False(t, rt.IsPlain())
	require.Equal(t, "abc", rt.ToPlainText())
}

func TestEmptyRichTextIsPlain(t *testing.T) {
	require.True(t, RichText{}.IsPlain())
	require.Equal(t, "", RichText{}.ToPlainText())
}
