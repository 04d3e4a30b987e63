package xl

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSerialDateRoundTrip(t *testing.T) {
	want := time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)
	serial := ToSerial(want)
	got := FromSerial(serial)
	require.WithinDuration(t, want, got, time.Second)
}

func TestSerialDateEpoch(t *testing.T) {
	// Excel's epoch quirk: serial 1 is 1899-12-31, not 1900-01-01, because
	// of the Lotus 1-2-3 leap-year bug baked into the format.
	got := FromSerial(1)
	require.Equal(t, time.Date(1899, time.December, 31, 0, 0, 0, 0, time.UTC), got)
}

func TestCellValueConstructorsSetKind(t *testing.T) {
	require.Equal(t, KindText, Text("x").Kind)
	require.Equal(t, KindBool, Bool(true).Kind)
	require.Equal(t, KindNumber, NumberFromInt(1).Kind)
	require.True(t, CellValue{}.IsEmpty())
	require.False(t, Text("x").IsEmpty())
}

func TestFormulaWithCachedValue(t *testing.T) {
	cached := NumberFromInt(42)
	v := Formula("SUM(A1:A2)", &cached)
	require.Equal(t, KindFormula, v.Kind)
	require.Equal(t, "SUM(A1:A2)", v.Formula)
	require.NotNil(t, v.CachedValue)
	require.True(t, v.CachedValue.Number.Equal(cached.Number))
}
