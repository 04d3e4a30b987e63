package numfmt

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePrefersCustomCodeOverBuiltin(t *testing.T) {
	require.Equal(t, "0.00%", Resolve(10, ""))
	require.Equal(t, "custom", Resolve(10, "custom"))
	require.Equal(t, "General", Resolve(999, ""))
}

func TestIsDateFormatBuiltinRanges(t *testing.T) {
	require.True(t, IsDateFormat(14, ""))
	require.True(t, IsDateFormat(22, ""))
	require.True(t, IsDateFormat(46, ""))
	require.False(t, IsDateFormat(9, ""))
	require.False(t, IsDateFormat(0, ""))
}

func TestIsDateFormatCustomCode(t *testing.T) {
	require.True(t, IsDateFormat(164, "yyyy-mm-dd"))
	require.False(t, IsDateFormat(164, "0.00"))
}

func TestIsDateFormatIgnoresDateTokensInsideQuotesAndBrackets(t *testing.T) {
	require.False(t, IsDateFormat(164, `0.00"day"`))
	require.False(t, IsDateFormat(164, `[Red]0.00`))
	require.True(t, IsDateFormat(164, `[Red]yyyy`))
}

func TestTokenizeDoesNotPanicOnEmptyCode(t *testing.T) {
	require.NotPanics(t, func() { Tokenize("") })
}
