package xl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestColorResolveIndexedKnown(t *testing.T) {
	c := IndexedColor(2).Resolve()
	require.Equal(t, ColorRGB, c.Kind)
	require.Equal(t, uint32(0x00FF0000), c.ARGB)
}

func TestColorResolveIndexedOutOfRange(t *testing.T) {
	c := IndexedColor(200).Resolve()
	require.True(t, c.IsZero())
}

func TestColorResolveNonIndexedUnchanged(t *testing.T) {
	theme := ThemeColor(1, 0.5)
	require.Equal(t, theme, theme.Resolve())

	rgb := RGBColor(0xFF112233)
	require.Equal(t, rgb, rgb.Resolve())
}

func TestColorIsZero(t *testing.T) {
	require.True(t, Color{}.IsZero())
	require.False(t, RGBColor(0).IsZero())
}

func TestColorCanonicalBytesDistinguishesVariants(t *testing.T) {
	rgb := RGBColor(0xFF000000).CanonicalBytes(nil)
	theme := ThemeColor(0, 0).CanonicalBytes(nil)
	indexed := IndexedColor(0).CanonicalBytes(nil)
	none := Color{}.CanonicalBytes(nil)

	seen := map[string]bool{}
	for _, b := range [][]byte{rgb, theme, indexed, none} {
		s := string(b)
		require.False(t, seen[s], "canonical bytes collided: %q", s)
		seen[s] = true
	}
}
