// Package xlcore_test exercises the reader/writer/xl packages together,
// the way a caller of this module actually would: build a workbook, write
// it, read it back, and check the result matches. Individual packages
// carry their own unit tests for the pieces this test composes.
package xlcore_test

import (
	"encoding/xml"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/zipio"
	"github.com/gosheetkit/xlcore/reader"
	"github.com/gosheetkit/xlcore/writer"
	"github.com/gosheetkit/xlcore/xl"
)

func buildSampleWorkbook(t *testing.T) *xl.Workbook {
	t.Helper()
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)

	sheet, err = sheet.Put("A1", xl.Text("hello"))
	require.NoError(t, err)
	sheet, err = sheet.Put("B1", xl.NumberFromInt(42))
	require.NoError(t, err)
	sheet, err = sheet.Put("C1", xl.Bool(true))
	require.NoError(t, err)
	sheet, err = sheet.Put("A2", xl.Formula("SUM(B1:B1)", nil))
	require.NoError(t, err)
	sheet, err = sheet.WithCellStyle("A1", xl.CellStyle{Font: xl.Font{Bold: true}})
	require.NoError(t, err)
	sheet, err = sheet.Merge("B2:C3")
	require.NoError(t, err)
	sheet = sheet.Comment("A1", xl.Comment{Author: "Reviewer", Text: xl.PlainText("looks right")})

	wb := xl.NewWorkbook()
	wbWithSheet, err := wb.Put(sheet)
	require.NoError(t, err)
	return wbWithSheet
}

func TestRoundTripFullRegeneration(t *testing.T) {
	wb := buildSampleWorkbook(t)

	data, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)
	require.NotEmpty(t, data)

	got, warnings, err := reader.LoadBytes(data, "", reader.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, warnings)

	sheets := got.Sheets()
	require.Len(t, sheets, 1)
	sheet := sheets[0]
	require.Equal(t, "Sheet1", sheet.Name)

	cell, ok := sheet.Cell("A1")
	require.True(t, ok)
	require.Equal(t, xl.KindText, cell.Value.Kind)
	require.Equal(t, "hello", cell.Value.Text)
	require.NotEqual(t, xl.NoStyle, cell.StyleID)
	require.True(t, sheet.StyleAt(cell.StyleID).Font.Bold)

	b1, ok := sheet.Cell("B1")
	require.True(t, ok)
	require.Equal(t, xl.KindNumber, b1.Value.Kind)
	require.True(t, b1.Value.Number.Equal(xl.NumberFromInt(42).Number))

	c1, ok := sheet.Cell("C1")
	require.True(t, ok)
	require.Equal(t, xl.KindBool, c1.Value.Kind)
	require.True(t, c1.Value.Bool)

	a2, ok := sheet.Cell("A2")
	require.True(t, ok)
	require.Equal(t, xl.KindFormula, a2.Value.Kind)
	require.Equal(t, "SUM(B1:B1)", a2.Value.Formula)
	require.Nil(t, a2.Value.CachedValue)

	require.Len(t, sheet.Merges(), 1)
	require.Equal(t, "B2:C3", sheet.Merges()[0].String())

	comments := sheet.Comments()
	require.Contains(t, comments, "A1")
	require.Equal(t, "Reviewer", comments["A1"].Author)
	require.Equal(t, "looks right", comments["A1"].Text.ToPlainText())
}

func TestDeterministicFullRegenerationBytes(t *testing.T) {
	wb := buildSampleWorkbook(t)
	a, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)
	b, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestCommentRemovalDropsCommentAndVMLParts(t *testing.T) {
	wb := buildSampleWorkbook(t)
	data, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)

	loaded, _, err := reader.LoadBytes(data, "", reader.DefaultConfig())
	require.NoError(t, err)

	updated, err := loaded.Update("Sheet1", func(s *xl.Sheet) (*xl.Sheet, error) {
		return s.RemoveComment("A1"), nil
	})
	require.NoError(t, err)

	out, err := writer.Build(updated, writer.DefaultConfig())
	require.NoError(t, err)

	reloaded, _, err := reader.LoadBytes(out, "", reader.DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, reloaded.Sheets()[0].Comments())

	before, err := zipio.Open(data, zipio.Limits{})
	require.NoError(t, err)
	require.True(t, before.Has("xl/comments1.xml"))
	require.True(t, before.Has("xl/drawings/vmlDrawing1.vml"))

	after, err := zipio.Open(out, zipio.Limits{})
	require.NoError(t, err)
	require.False(t, after.Has("xl/comments1.xml"))
	require.False(t, after.Has("xl/drawings/vmlDrawing1.vml"))
}

func TestFormulaWithoutCachedValueOmitsTAttribute(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("A1", xl.Formula("SUM(B1:B10)", nil))
	require.NoError(t, err)
	wb, err := xl.NewWorkbook().Put(sheet)
	require.NoError(t, err)

	data, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)

	loaded, _, err := reader.LoadBytes(data, "", reader.DefaultConfig())
	require.NoError(t, err)
	cell, ok := loaded.Sheets()[0].Cell("A1")
	require.True(t, ok)
	require.Equal(t, xl.KindFormula, cell.Value.Kind)
	require.Nil(t, cell.Value.CachedValue)
}

func TestSSTInvariantCountGreaterOrEqualUnique(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	words := []string{"alpha", "beta", "alpha", "gamma", "alpha", "beta", "delta", "alpha", "beta", "epsilon", "alpha"}
	for i, w := range words {
		ref := fmt.Sprintf("A%d", i+1)
		sheet, err = sheet.Put(ref, xl.Text(w))
		require.NoError(t, err)
	}
	wb, err := xl.NewWorkbook().Put(sheet)
	require.NoError(t, err)

	data, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)

	loaded, _, err := reader.LoadBytes(data, "", reader.DefaultConfig())
	require.NoError(t, err)
	for i, w := range words {
		ref := fmt.Sprintf("A%d", i+1)
		cell, ok := loaded.Sheets()[0].Cell(ref)
		require.True(t, ok)
		require.Equal(t, w, cell.Value.Text)
	}

	zr, err := zipio.Open(data, zipio.Limits{})
	require.NoError(t, err)
	sstXML, err := zr.ReadAll("xl/sharedStrings.xml")
	require.NoError(t, err)
	var sst struct {
		Count       int `xml:"count,attr"`
		UniqueCount int `xml:"uniqueCount,attr"`
	}
	require.NoError(t, xml.Unmarshal(sstXML, &sst))
	require.Equal(t, 5, sst.UniqueCount)
	require.GreaterOrEqual(t, sst.Count, sst.UniqueCount)
}
