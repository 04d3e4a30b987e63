package ooxml

import (
	"encoding/xml"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
)

func TestWorkbookBuildParseRoundTrip(t *testing.T) {
	in := WorkbookBuildInput{
		Sheets: []SheetRef{
			{Name: "Sheet1", SheetID: 1, RelID: "rId1", State: "visible"},
			{Name: "Hidden", SheetID: 2, RelID: "rId2", State: "hidden"},
		},
		DefinedNames: []DefinedNameXML{
			{Name: "MyRange", RefersTo: "Sheet1!$A$1:$B$2"},
			{Name: "LocalRange", RefersTo: "Sheet1!$C$1", LocalSheetID: 0, HasLocalSheetID: true, Hidden: true},
		},
	}
	out, err := BuildWorkbook(xmlutil.DOMBackend, in)
	require.NoError(t, err)

	parsed, err := ParseWorkbook(out)
	require.NoError(t, err)
	require.Equal(t, in.Sheets, parsed.Sheets)
	require.Len(t, parsed.DefinedNames, 2)
	require.Equal(t, "MyRange", parsed.DefinedNames[0].Name)
	require.False(t, parsed.DefinedNames[0].HasLocalSheetID)
	require.True(t, parsed.DefinedNames[1].HasLocalSheetID)
	require.True(t, parsed.DefinedNames[1].Hidden)
}

func TestWorkbookMissingSheetsElementFails(t *testing.T) {
	_, err := ParseWorkbook([]byte(`<?xml version="1.0"?><workbook xmlns="ns"></workbook>`))
	require.Error(t, err)
}

func TestWorkbookPreservesSourceRootAttrsVerbatim(t *testing.T) {
	in := WorkbookBuildInput{
		Sheets:         []SheetRef{{Name: "Sheet1", SheetID: 1, RelID: "rId1"}},
		SourceRootAttr: []xml.Attr{{Name: xml.Name{Local: "xmlns"}, Value: "custom-ns"}},
	}
	out, err := BuildWorkbook(xmlutil.DOMBackend, in)
	require.NoError(t, err)
	require.Contains(t, string(out), `xmlns="custom-ns"`)
}
