package reader

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/zipio"
	"github.com/gosheetkit/xlcore/writer"
	"github.com/gosheetkit/xlcore/xl"
)

func buildMinimalWorkbookBytes(t *testing.T) []byte {
	t.Helper()
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("A1", xl.Text("hello"))
	require.NoError(t, err)
	wb, err := xl.NewWorkbook().Put(sheet)
	require.NoError(t, err)
	data, err := writer.Build(wb, writer.DefaultConfig())
	require.NoError(t, err)
	return data
}

func TestLoadBytesRoundTrip(t *testing.T) {
	data := buildMinimalWorkbookBytes(t)
	wb, warnings, err := LoadBytes(data, "", DefaultConfig())
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, wb.Sheets(), 1)
}

func TestLoadBytesMissingWorkbookXmlFails(t *testing.T) {
	zr, err := zipio.Open(buildMinimalWorkbookBytes(t), zipio.DefaultLimits())
	require.NoError(t, err)

	var buf bytes.Buffer
	w := zipio.NewWriter(&buf)
	for _, e := range zr.Entries() {
		if e.Name == "xl/workbook.xml" {
			continue
		}
		content, err := zr.ReadAll(e.Name)
		require.NoError(t, err)
		require.NoError(t, w.WriteEntry(e.Name, content))
	}
	require.NoError(t, w.Close())

	_, _, err = LoadBytes(buf.Bytes(), "", DefaultConfig())
	require.Error(t, err)
}

func TestLoadBytesMissingStylesXmlWarns(t *testing.T) {
	zr, err := zipio.Open(buildMinimalWorkbookBytes(t), zipio.DefaultLimits())
	require.NoError(t, err)

	var buf bytes.Buffer
	w := zipio.NewWriter(&buf)
	for _, e := range zr.Entries() {
		if e.Name == "xl/styles.xml" {
			continue
		}
		content, err := zr.ReadAll(e.Name)
		require.NoError(t, err)
		require.NoError(t, w.WriteEntry(e.Name, content))
	}
	require.NoError(t, w.Close())

	_, warnings, err := LoadBytes(buf.Bytes(), "", DefaultConfig())
	require.NoError(t, err)
	found := false
	for _, warn := range warnings {
		if warn.Code == WarningMissingStylesXml {
			found = true
		}
	}
	require.True(t, found)
}
