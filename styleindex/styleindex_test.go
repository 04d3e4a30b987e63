package styleindex

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/xl"
)

func mustSheet(t *testing.T, name string) *xl.Sheet {
	t.Helper()
	s, err := xl.NewSheet(name)
	require.NoError(t, err)
	return s
}

func TestNewSeedsNoneAndGray125Fills(t *testing.T) {
	idx := New()
	require.Len(t, idx.Fills, 2)
	require.Equal(t, "none", idx.Fills[0].PatternType)
	require.Equal(t, "gray125", idx.Fills[1].PatternType)
}

func TestBuildFreshDeduplicatesIdenticalStyles(t *testing.T) {
	bold := xl.CellStyle{Font: xl.Font{Bold: true}}

	s1 := mustSheet(t, "One")
	s1, err := s1.WithCellStyle("A1", bold)
	require.NoError(t, err)
	s1, err = s1.WithCellStyle("A2", bold)
	require.NoError(t, err)

	s2 := mustSheet(t, "Two")
	s2, err = s2.WithCellStyle("A1", bold)
	require.NoError(t, err)

	idx, remap := BuildFresh([]*xl.Sheet{s1, s2})

	require.Len(t, remap, 2)
	require.Equal(t, remap[0][0], remap[0][1], "identical local styles on the same sheet should collapse to one global id")
	require.Equal(t, remap[0][0], remap[1][0], "identical styles across sheets should collapse to one global id")
	require.Equal(t, 0, idx.FontID(xl.Font{Bold: true}))
}

func TestBuildFreshDistinguishesDifferentStyles(t *testing.T) {
	s1 := mustSheet(t, "One")
	s1, err := s1.WithCellStyle("A1", xl.CellStyle{Font: xl.Font{Bold: true}})
	require.NoError(t, err)
	s1, err = s1.WithCellStyle("A2", xl.CellStyle{Font: xl.Font{Italic: true}})
	require.NoError(t, err)

	_, remap := BuildFresh([]*xl.Sheet{s1})
	require.NotEqual(t, remap[0][0], remap[0][1])
}

func TestBuildSurgicalPreservesUnmodifiedSheetIDsAndAppendsNewOnes(t *testing.T) {
	original := []xl.CellStyle{
		{Font: xl.Font{Name: "Calibri"}},
		{Font: xl.Font{Name: "Calibri", Bold: true}},
	}

	unchanged := mustSheet(t, "Unchanged")
	unchanged, err := unchanged.WithCellStyle("A1", original[0])
	require.NoError(t, err)
	unchanged, err = unchanged.WithCellStyle("A2", original[1])
	require.NoError(t, err)

	changed := mustSheet(t, "Changed")
	changed, err = changed.WithCellStyle("A1", xl.CellStyle{Font: xl.Font{Name: "Arial", Size: 14}})
	require.NoError(t, err)

	idx, remap := BuildSurgical(original, []*xl.Sheet{unchanged, changed}, map[int]bool{1: true})

	require.Equal(t, []int{0, 1}, remap[0], "unmodified sheet keeps its original positional style ids")
	require.GreaterOrEqual(t, remap[1][0], len(original), "modified sheet's new style appends past the preserved table")
	require.Len(t, idx.Xfs, len(original)+1)
}

func TestIsDateNumFmtRecognizesBuiltinDateCodes(t *testing.T) {
	idx := New()
	id := idx.addNumFmt(xl.NumFmtRef{ID: 14, Code: "mm-dd-yy"})
	require.True(t, idx.IsDateNumFmt(id))
}
