package ooxml

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
)

func sampleTable() xl.TableSpec {
	return xl.TableSpec{
		ID:             1,
		Name:           "SalesTable",
		DisplayName:    "SalesTable",
		Ref:            "A1:B3",
		HeaderRowCount: 1,
		Columns: []xl.TableColumn{
			{ID: 1, Name: "Region"},
			{ID: 2, Name: "Amount"},
		},
		AutoFilter:    &xl.AutoFilterSpec{Ref: "A1:B3"},
		StyleInfo:     &xl.TableStyleInfo{Name: "TableStyleMedium2", ShowRowStripes: true},
		TableUID:      "{AAAAAAAA-0000-0000-0000-000000000001}",
		AutoFilterUID: "{AAAAAAAA-0000-0000-0000-000000000002}",
	}
}

func TestTableBuildParseRoundTrip(t *testing.T) {
	want := sampleTable()
	out, err := BuildTable(xmlutil.DOMBackend, want)
	require.NoError(t, err)

	got, err := ParseTable("xl/tables/table1.xml", out)
	require.NoError(t, err)
	require.Equal(t, want.Name, got.Name)
	require.Equal(t, want.DisplayName, got.DisplayName)
	require.Equal(t, want.Ref, got.Ref)
	require.Equal(t, want.HeaderRowCount, got.HeaderRowCount)
	require.Len(t, got.Columns, 2)
	require.Equal(t, "Region", got.Columns[0].Name)
	require.Equal(t, "Amount", got.Columns[1].Name)
	require.NotNil(t, got.AutoFilter)
	require.Equal(t, want.AutoFilter.Ref, got.AutoFilter.Ref)
	require.Equal(t, want.AutoFilterUID, got.AutoFilterUID)
	require.Equal(t, want.TableUID, got.TableUID)
	require.NotNil(t, got.StyleInfo)
	require.True(t, got.StyleInfo.ShowRowStripes)
}

func TestTableValidateInvariants(t *testing.T) {
	base := sampleTable()
	require.NoError(t, base.Validate())

	withSpace := base
	withSpace.Name = "Sales Table"
	require.Error(t, withSpace.Validate())

	tooShort := base
	tooShort.Ref = "A1:B1"
	require.Error(t, tooShort.Validate())

	wrongWidth := base
	wrongWidth.Columns = base.Columns[:1]
	require.Error(t, wrongWidth.Validate())

	dup := base
	dup.Columns = []xl.TableColumn{{ID: 1, Name: "X"}, {ID: 2, Name: "X"}}
	require.Error(t, dup.Validate())
}
