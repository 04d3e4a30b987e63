package writer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gosheetkit/xlcore/xl"
)

func TestEscapeFormulaTextTriggerCharacters(t *testing.T) {
	for _, s := range []string{"=SUM(A1)", "+1", "-1", "@cmd"} {
		out, changed := escapeFormulaText(s)
		require.True(t, changed, s)
		require.Equal(t, "'"+s, out)
	}
}

func TestEscapeFormulaTextLeavesOrdinaryTextAlone(t *testing.T) {
	out, changed := escapeFormulaText("hello")
	require.False(t, changed)
	require.Equal(t, "hello", out)
}

func TestEscapeFormulaTextIsIdempotent(t *testing.T) {
	once, _ := escapeFormulaText("=SUM(A1)")
	twice, changed := escapeFormulaText(once)
	require.False(t, changed)
	require.Equal(t, once, twice)
}

func TestEscapeFormulaTextEmptyString(t *testing.T) {
	out, changed := escapeFormulaText("")
	require.False(t, changed)
	require.Equal(t, "", out)
}

func TestApplyFormulaEscapeNoneLeavesSheetUnchanged(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("A1", xl.Text("=SUM(A1)"))
	require.NoError(t, err)

	out, err := applyFormulaEscape(sheet, FormulaInjectionNone)
	require.NoError(t, err)
	cell, ok := out.Cell("A1")
	require.True(t, ok)
	require.Equal(t, "=SUM(A1)", cell.Value.Text)
}

func TestApplyFormulaEscapeRewritesTriggeringTextCells(t *testing.T) {
	sheet, err := xl.NewSheet("Sheet1")
	require.NoError(t, err)
	sheet, err = sheet.Put("A1", xl.Text("=SUM(A1)"))
	require.NoError(t, err)
	sheet, err = sheet.Put("A2", xl.Text("safe"))
	require.NoError(t, err)
	sheet, err = sheet.Put("A3", xl.Formula("SUM(B1:B1)", nil))
	require.NoError(t, err)

	out, err := applyFormulaEscape(sheet, FormulaInjectionEscape)
	require.NoError(t, err)

	a1, ok := out.Cell("A1")
	require.True(t, ok)
	require.Equal(t, "'=SUM(A1)", a1.Value.Text)

	a2, ok := out.Cell("A2")
	require.True(t, ok)
	require.Equal(t, "safe", a2.Value.Text)

	a3, ok := out.Cell("A3")
	require.True(t, ok)
	require.Equal(t, xl.KindFormula, a3.Value.Kind)
}
