package xl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCellStyleCanonicalKeyEqualForIdenticalStyles(t *testing.T) {
	a := CellStyle{Font: Font{Bold: true, Name: "Calibri", Size: 11}}
	b := CellStyle{Font: Font{Bold: true, Name: "Calibri", Size: 11}}
	require.Equal(t, a.CanonicalKey(), b.CanonicalKey())
}

func TestCellStyleCanonicalKeyDiffersForDifferentStyles(t *testing.T) {
	a := CellStyle{Font: Font{Bold: true}}
	b := CellStyle{Font: Font{Bold: false}}
	require.NotEqual(t, a.CanonicalKey(), b.CanonicalKey())
}

func TestCellStyleIsDefault(t *testing.T) {
	require.True(t, CellStyle{}.IsDefault())
	require.False(t, CellStyle{Font: Font{Bold: true}}.IsDefault())
}
