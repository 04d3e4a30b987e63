package aref

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAndString(t *testing.T) {
	a, err := Parse("C5")
	require.NoError(t, err)
	require.Equal(t, ARef{Col: 3, Row: 5}, a)
	require.Equal(t, "C5", a.String())
}

func TestParseMultiLetterColumn(t *testing.T) {
	a, err := Parse("AA1")
	require.NoError(t, err)
	require.Equal(t, 27, a.Col)
	require.Equal(t, "AA1", a.String())
}

func TestParseRejectsMalformedRefs(t *testing.T) {
	for _, bad := range []string{"", "A", "1", "1A", "A0", "A-1"} {
		_, err := Parse(bad)
		require.Error(t, err, bad)
	}
}

func TestColumnLettersRollsOverAtZ(t *testing.T) {
	require.Equal(t, "Z", ColumnLetters(26))
	require.Equal(t, "AA", ColumnLetters(27))
	require.Equal(t, "AZ", ColumnLetters(52))
	require.Equal(t, "BA", ColumnLetters(53))
}

func TestParseRangeAndContains(t *testing.T) {
	r, err := ParseRange("A1:C5")
	require.NoError(t, err)
	require.Equal(t, "A1:C5", r.String())
	require.True(t, r.Contains(ARef{Col: 2, Row: 3}))
	require.False(t, r.Contains(ARef{Col: 4, Row: 3}))
}

func TestRangeOverlaps(t *testing.T) {
	a, err := ParseRange("A1:C5")
	require.NoError(t, err)
	b, err := ParseRange("C5:D6")
	require.NoError(t, err)
	c, err := ParseRange("E1:F2")
	require.NoError(t, err)
	require.True(t, a.Overlaps(b))
	require.False(t, a.Overlaps(c))
}

func TestValidateSheetName(t *testing.T) {
	require.NoError(t, ValidateSheetName("Sheet1"))
	require.Error(t, ValidateSheetName(""))
	require.Error(t, ValidateSheetName("has/slash"))
	require.Error(t, ValidateSheetName("has:colon"))

	long := ""
	for i := 0; i < 32; i++ {
		long += "a"
	}
	require.Error(t, ValidateSheetName(long))
}
