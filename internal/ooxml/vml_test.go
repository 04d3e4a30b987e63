package ooxml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVMLShapeIDStrideAvoidsCrossSheetCollisions(t *testing.T) {
	sheet0Last := VMLShapeID(0, 999)
	sheet1First := VMLShapeID(1, 0)
	require.Less(t, sheet0Last, sheet1First)
}

func TestBuildVMLProducesOneShapePerRef(t *testing.T) {
	out := BuildVML(0, []string{"A1", "B2", "C3"})
	s := string(out)
	require.Equal(t, 3, strings.Count(s, "<v:shape "))
	require.True(t, strings.HasPrefix(s, "<xml "))
	require.True(t, strings.HasSuffix(s, "</xml>"))
}

func TestParseVMLPassesThroughVerbatim(t *testing.T) {
	raw := []byte(`<xml xmlns:v="urn:schemas-microsoft-com:vml"></xml>`)
	out, err := ParseVML("xl/drawings/vmlDrawing1.vml", raw)
	require.NoError(t, err)
	require.Equal(t, raw, out)
}

func TestParseVMLRejectsDoctype(t *testing.T) {
	_, err := ParseVML("xl/drawings/vmlDrawing1.vml", []byte(`<?xml version="1.0"?><!DOCTYPE foo><xml></xml>`))
	require.Error(t, err)
}
