package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
)

func TestRelationshipsRoundTrip(t *testing.T) {
	in := []Relationship{
		{ID: "rId1", Type: "worksheet", Target: "worksheets/sheet1.xml"},
		{ID: "rId2", Type: "styles", Target: "styles.xml"},
	}
	out, err := BuildRelationships(xmlutil.DOMBackend, in)
	require.NoError(t, err)

	parsed, err := ParseRelationships("xl/_rels/workbook.xml.rels", out)
	require.NoError(t, err)
	require.Equal(t, in, parsed)
}

func TestRelationshipsSortedByNumericSuffix(t *testing.T) {
	in := []Relationship{
		{ID: "rId10", Type: "a", Target: "a"},
		{ID: "rId2", Type: "b", Target: "b"},
		{ID: "rId1", Type: "c", Target: "c"},
	}
	out, err := BuildRelationships(xmlutil.DOMBackend, in)
	require.NoError(t, err)

	parsed, err := ParseRelationships("x.rels", out)
	require.NoError(t, err)
	require.Equal(t, []string{"rId1", "rId2", "rId10"}, []string{parsed[0].ID, parsed[1].ID, parsed[2].ID})
}

func TestRelationshipTargetModeOmittedWhenAbsent(t *testing.T) {
	out, err := BuildRelationships(xmlutil.DOMBackend, []Relationship{{ID: "rId1", Type: "t", Target: "t"}})
	require.NoError(t, err)
	require.NotContains(t, string(out), "TargetMode")
}

func TestRelationshipExternalTargetModePreserved(t *testing.T) {
	in := []Relationship{{ID: "rId1", Type: "hyperlink", Target: "https://example.com", TargetMode: "External"}}
	out, err := BuildRelationships(xmlutil.DOMBackend, in)
	require.NoError(t, err)
	parsed, err := ParseRelationships("x.rels", out)
	require.NoError(t, err)
	require.Equal(t, "External", parsed[0].TargetMode)
}

func TestRejectsDoctype(t *testing.T) {
	_, err := ParseRelationships("x.rels", []byte(`<?xml version="1.0"?><!DOCTYPE foo><Relationships/>`))
	require.Error(t, err)
	require.Contains(t, err.Error(), "XML parse")
}
