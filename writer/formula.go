package writer

import (
	"strings"

	"github.com/gosheetkit/xlcore/xl"
)

// escapeFormulaText prepends a literal apostrophe to s when its first rune
// is one Excel would otherwise interpret as a formula trigger (= + - @),
// per spec.md §4.6's formula-injection policy. It is idempotent: a value
// that already starts with an apostrophe (the marker a prior escape pass
// left behind) is returned unchanged.
func escapeFormulaText(s string) (string, bool) {
	if s == "" || strings.HasPrefix(s, "'") {
		return s, false
	}
	switch s[0] {
	case '=', '+', '-', '@':
		return "'" + s, true
	default:
		return s, false
	}
}

// applyFormulaEscape returns sheet unchanged when policy is
// FormulaInjectionNone, otherwise a copy with every KindText cell whose
// value triggers escapeFormulaText rewritten. RichText and formula cells
// are left alone: a formula cell is a formula by construction, and a rich
// run's text is never evaluated as a cell value by Excel.
func applyFormulaEscape(sheet *xl.Sheet, policy FormulaInjectionPolicy) (*xl.Sheet, error) {
	if policy != FormulaInjectionEscape {
		return sheet, nil
	}
	out := sheet
	for ref, cell := range sheet.Cells() {
		if cell.Value.Kind != xl.KindText {
			continue
		}
		escaped, changed := escapeFormulaText(cell.Value.Text)
		if !changed {
			continue
		}
		n, err := out.Put(ref, xl.Text(escaped))
		if err != nil {
			return nil, err
		}
		out = n
	}
	return out, nil
}
