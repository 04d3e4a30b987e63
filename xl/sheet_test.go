package xl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewSheetValidatesName(t *testing.T) {
	_, err := NewSheet("")
	require.Error(t, err)

	s, err := NewSheet("Sheet1")
	require.NoError(t, err)
	require.Equal(t, "Sheet1", s.Name)
}

func TestSheetIsImmutableAcrossPut(t *testing.T) {
	base, err := NewSheet("Sheet1")
	require.NoError(t, err)
	next, err := base.Put("A1", Text("hi"))
	require.NoError(t, err)

	_, ok := base.Cell("A1")
	require.False(t, ok, "mutating a derived sheet must not affect the original")
	cell, ok := next.Cell("A1")
	require.True(t, ok)
	require.Equal(t, "hi", cell.Value.Text)
}

func TestWithCellStyleDedupesIdenticalStylesOnSameSheet(t *testing.T) {
	s, err := NewSheet("Sheet1")
	require.NoError(t, err)
	bold := CellStyle{Font: Font{Bold: true}}
	s, err = s.WithCellStyle("A1", bold)
	require.NoError(t, err)
	s, err = s.WithCellStyle("B1", bold)
	require.NoError(t, err)

	a1, _ := s.Cell("A1")
	b1, _ := s.Cell("B1")
	require.Equal(t, a1.StyleID, b1.StyleID)
	require.Len(t, s.Styles(), 1)
}

func TestMergeRejectsSingleCellRange(t *testing.T) {
	s, err := NewSheet("Sheet1")
	require.NoError(t, err)
	_, err = s.Merge("A1:A1")
	require.Error(t, err)
}

func TestMergeRejectsOverlap(t *testing.T) {
	s, err := NewSheet("Sheet1")
	require.NoError(t, err)
	s, err = s.Merge("A1:B2")
	require.NoError(t, err)
	_, err = s.Merge("B2:C3")
	require.Error(t, err)
}

func TestMergeAllowsNonOverlappingRanges(t *testing.T) {
	s, err := NewSheet("Sheet1")
	require.NoError(t, err)
	s, err = s.Merge("A1:B2")
	require.NoError(t, err)
	s, err = s.Merge("D1:E2")
	require.NoError(t, err)
	require.Len(t, s.Merges(), 2)
}

func TestCommentAndRemoveComment(t *testing.T) {
	s, err := NewSheet("Sheet1")
	require.NoError(t, err)
	s = s.Comment("A1", Comment{Author: "A", Text: PlainText("note")})
	require.Contains(t, s.Comments(), "A1")

	s = s.RemoveComment("A1")
	require.NotContains(t, s.Comments(), "A1")
}
