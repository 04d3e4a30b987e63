package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/styleindex"
	"github.com/gosheetkit/xlcore/xl"
)

func identityRemap(n int) []int {
	remap := make([]int, n)
	for i := range remap {
		remap[i] = i
	}
	return remap
}

func TestWorksheetBuildParseRoundTripInlineStrings(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("A1", xl.Text("hello"))
	require.NoError(t, err)
	sheet, err = sheet.Put("B1", xl.NumberFromInt(7))
	require.NoError(t, err)
	sheet, err = sheet.Put("A2", xl.Formula("SUM(B1:B1)", nil))
	require.NoError(t, err)
	sheet, err = sheet.Merge("A3:B4")
	require.NoError(t, err)

	out, err := BuildWorksheet(xmlutil.DOMBackend, WorksheetBuildInput{
		Sheet:        sheet,
		StyleRemap:   identityRemap(len(sheet.Styles())),
		UseInlineStr: true,
	})
	require.NoError(t, err)

	idx := styleindex.New()
	parsed, err := ParseWorksheet("xl/worksheets/sheet1.xml", "Sheet1", out, nil, idx.Xfs)
	require.NoError(t, err)

	a1, ok := parsed.Cell("A1")
	require.True(t, ok)
	require.Equal(t, "hello", a1.Value.Text)

	b1, ok := parsed.Cell("B1")
	require.True(t, ok)
	require.True(t, b1.Value.Number.Equal(xl.NumberFromInt(7).Number))

	a2, ok := parsed.Cell("A2")
	require.True(t, ok)
	require.Equal(t, xl.KindFormula, a2.Value.Kind)
	require.Equal(t, "SUM(B1:B1)", a2.Value.Formula)

	require.Len(t, parsed.Merges(), 1)
	require.Equal(t, "A3:B4", parsed.Merges()[0].String())
}

func TestWorksheetBuildUsesSSTWhenNotInline(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("A1", xl.Text("shared"))
	require.NoError(t, err)

	out, err := BuildWorksheet(xmlutil.DOMBackend, WorksheetBuildInput{
		Sheet:      sheet,
		StyleRemap: identityRemap(len(sheet.Styles())),
		SSTIndex: func(s string) (int, bool) {
			if s == "shared" {
				return 0, true
			}
			return 0, false
		},
	})
	require.NoError(t, err)

	sst := []xl.RichText{xl.PlainText("shared")}
	idx := styleindex.New()
	parsed, err := ParseWorksheet("xl/worksheets/sheet1.xml", "Sheet1", out, sst, idx.Xfs)
	require.NoError(t, err)

	a1, ok := parsed.Cell("A1")
	require.True(t, ok)
	require.Equal(t, "shared", a1.Value.Text)
}

func TestWorksheetBuildFormulaCachedValueBothBackends(t *testing.T) {
	for _, backend := range []xmlutil.Backend{xmlutil.DOMBackend, xmlutil.StreamBackend} {
		textCached := xl.Text("ok")
		boolCached := xl.Bool(true)
		errCached := xl.CellValue{Kind: xl.KindError, Error: xl.ErrRef}

		sheet, err := xl.NewSheet("Sheet1")
		require.NoError(t, err)
		sheet, err = sheet.Put("A1", xl.Formula("A2", &textCached))
		require.NoError(t, err)
		sheet, err = sheet.Put("A2", xl.Formula("A3", &boolCached))
		require.NoError(t, err)
		sheet, err = sheet.Put("A3", xl.Formula("A4", &errCached))
		require.NoError(t, err)

		out, err := BuildWorksheet(backend, WorksheetBuildInput{
			Sheet:        sheet,
			StyleRemap:   identityRemap(len(sheet.Styles())),
			UseInlineStr: true,
		})
		require.NoError(t, err, "backend %v", backend)

		idx := styleindex.New()
		parsed, err := ParseWorksheet("xl/worksheets/sheet1.xml", "Sheet1", out, nil, idx.Xfs)
		require.NoError(t, err, "backend %v", backend)

		a1, ok := parsed.Cell("A1")
		require.True(t, ok)
		require.Equal(t, xl.KindFormula, a1.Value.Kind)
		require.NotNil(t, a1.Value.CachedValue)
		require.Equal(t, xl.KindText, a1.Value.CachedValue.Kind)
		require.Equal(t, "ok", a1.Value.CachedValue.Text)

		a2, ok := parsed.Cell("A2")
		require.True(t, ok)
		require.NotNil(t, a2.Value.CachedValue)
		require.Equal(t, xl.KindBool, a2.Value.CachedValue.Kind)
		require.True(t, a2.Value.CachedValue.Bool)

		a3, ok := parsed.Cell("A3")
		require.True(t, ok)
		require.NotNil(t, a3.Value.CachedValue)
		require.Equal(t, xl.KindError, a3.Value.CachedValue.Kind)
		require.Equal(t, xl.ErrRef, a3.Value.CachedValue.Error)
	}
}

func TestScanDimensionFastPath(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("B2", xl.Text("x"))
	require.NoError(t, err)
	sheet, err = sheet.Put("D5", xl.Text("y"))
	require.NoError(t, err)

	out, err := BuildWorksheet(xmlutil.DOMBackend, WorksheetBuildInput{
		Sheet:        sheet,
		StyleRemap:   identityRemap(len(sheet.Styles())),
		UseInlineStr: true,
	})
	require.NoError(t, err)

	dim, ok, err := ScanDimension("xl/worksheets/sheet1.xml", out)
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEmpty(t, dim)
}
