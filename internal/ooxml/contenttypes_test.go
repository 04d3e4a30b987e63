package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
)

func TestBuildContentTypesIncludesSheetsStylesAndSST(t *testing.T) {
	out, err := BuildContentTypes(xmlutil.DOMBackend, ContentTypesBuildInput{
		SheetPartNames:    []string{"xl/worksheets/sheet1.xml", "xl/worksheets/sheet2.xml"},
		HasStyles:         true,
		HasSharedStrings:  true,
		CommentsPartNames: []string{"xl/comments1.xml"},
		VMLPartNames:      []string{"xl/drawings/vmlDrawing1.vml"},
	})
	require.NoError(t, err)

	parsed, err := ParseContentTypes(out)
	require.NoError(t, err)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml", parsed.Overrides["/xl/worksheets/sheet1.xml"])
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml", parsed.Overrides["/xl/worksheets/sheet2.xml"])
	require.Contains(t, parsed.Overrides, "/xl/styles.xml")
	require.Contains(t, parsed.Overrides, "/xl/sharedStrings.xml")
	require.Contains(t, parsed.Overrides, "/xl/comments1.xml")
	require.Contains(t, parsed.Overrides, "/xl/drawings/vmlDrawing1.vml")
}

func TestBuildContentTypesOmitsSharedStringsWhenUnused(t *testing.T) {
	out, err := BuildContentTypes(xmlutil.DOMBackend, ContentTypesBuildInput{
		SheetPartNames: []string{"xl/worksheets/sheet1.xml"},
		HasStyles:      true,
	})
	require.NoError(t, err)
	parsed, err := ParseContentTypes(out)
	require.NoError(t, err)
	require.NotContains(t, parsed.Overrides, "/xl/sharedStrings.xml")
}

func TestSequentialPartNameHelpers(t *testing.T) {
	require.Equal(t, "xl/worksheets/sheet3.xml", SheetPartName(3))
	require.Equal(t, "xl/comments2.xml", CommentsPartName(2))
	require.Equal(t, "xl/drawings/vmlDrawing4.vml", VMLPartName(4))
	require.Equal(t, "xl/tables/table1.xml", TablePartName(1))
}
