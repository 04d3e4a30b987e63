package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/styleindex"
	"github.com/gosheetkit/xlcore/xl"
)

func TestStylesBuildParseRoundTrip(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.WithCellStyle("A1", xl.CellStyle{
		Font:  xl.Font{Bold: true, Size: 12, Name: "Calibri"},
		Fill:  xl.Fill{PatternType: "solid", FgColor: xl.RGBColor(0xFFFF0000)},
		Align: xl.Alignment{Horizontal: "center"},
	})
	require.NoError(t, err)

	builtIdx, _ := styleindex.BuildFresh([]*xl.Sheet{sheet})

	out, err := BuildStyles(xmlutil.DOMBackend, builtIdx, StylesResidue{})
	require.NoError(t, err)

	parsed, err := ParseStyles(out)
	require.NoError(t, err)
	require.Equal(t, len(builtIdx.Fonts), len(parsed.Fonts))
	require.Equal(t, len(builtIdx.Fills), len(parsed.Fills))
	require.Equal(t, len(builtIdx.Xfs), len(parsed.CellXfs))

	found := false
	for _, f := range parsed.Fonts {
		if f.Bold && f.Name == "Calibri" {
			found = true
		}
	}
	require.True(t, found, "expected a bold Calibri font to round-trip")
}

func TestStylesSeedsNoneAndGray125Fills(t *testing.T) {
	idx := styleindex.New()
	out, err := BuildStyles(xmlutil.DOMBackend, idx, StylesResidue{})
	require.NoError(t, err)
	parsed, err := ParseStyles(out)
	require.NoError(t, err)
	require.Len(t, parsed.Fills, 2)
	require.Equal(t, "none", parsed.Fills[0].PatternType)
	require.Equal(t, "gray125", parsed.Fills[1].PatternType)
}
