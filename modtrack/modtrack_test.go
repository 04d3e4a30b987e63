package modtrack

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTrackerIsClean(t *testing.T) {
	require.True(t, New().IsClean())
}

func TestWithModifiedSheetDoesNotMutateOriginal(t *testing.T) {
	base := New()
	next := base.WithModifiedSheet(2)

	require.True(t, base.IsClean())
	require.False(t, next.IsClean())
	require.True(t, next.IsSheetModified(2))
	require.False(t, next.IsSheetModified(3))
}

func TestWithDeletedSheetClearsModifiedFlag(t *testing.T) {
	t1 := New().WithModifiedSheet(0)
	t2 := t1.WithDeletedSheet(0)

	require.False(t, t2.IsSheetModified(0))
	require.True(t, t2.IsSheetDeleted(0))
	require.True(t, t1.IsSheetModified(0), "earlier tracker must remain unaffected")
}

func TestWithModifiedMetadataAndStyles(t *testing.T) {
	tr := New().WithModifiedMetadata().WithModifiedStyles()
	require.True(t, tr.ModifiedMetadata())
	require.True(t, tr.ModifiedStyles())
	require.False(t, tr.IsClean())
}

func TestModifiedSheetsReturnsIndependentCopy(t *testing.T) {
	tr := New().WithModifiedSheet(1)
	snapshot := tr.ModifiedSheets()
	snapshot[99] = true
	require.False(t, tr.IsSheetModified(99))
}
