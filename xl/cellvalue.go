package xl

import (
	"time"

	"github.com/shopspring/decimal"
)

// CellError is the set of Excel error literals a cell can hold as data
// (spec.md §4.3.4); these are values, not control-flow errors.
type CellError string

const (
	ErrDiv0        CellError = "#DIV/0!"
	ErrNA          CellError = "#N/A"
	ErrName        CellError = "#NAME?"
	ErrNull        CellError = "#NULL!"
	ErrNum         CellError = "#NUM!"
	ErrRef         CellError = "#REF!"
	ErrValue       CellError = "#VALUE!"
	ErrGettingData CellError = "#GETTING_DATA"
)

// ValueKind tags which variant of CellValue is populated.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindText
	KindNumber
	KindBool
	KindDateTime
	KindRichText
	KindFormula
	KindError
)

// CellValue is the tagged union over everything a cell can hold. A Text
// value with a leading = + - @ is legal and distinct from a Formula
// (spec.md §3).
type CellValue struct {
	Kind ValueKind

	Text     string          // KindText
	Number   decimal.Decimal // KindNumber
	Bool     bool            // KindBool
	DateTime time.Time       // KindDateTime
	Rich     RichText        // KindRichText

	Formula      string         // KindFormula
	CachedValue  *CellValue     // KindFormula, optional cached result
	FormulaIsStr bool           // KindFormula: cached value came from t="str"

	Error CellError // KindError
}

// Empty is the zero-value "no content" cell value.
var Empty = CellValue{Kind: KindEmpty}

func Text(s string) CellValue { return CellValue{Kind: KindText, Text: s} }

func Number(d decimal.Decimal) CellValue { return CellValue{Kind: KindNumber, Number: d} }

func NumberFromFloat(f float64) CellValue {
	return CellValue{Kind: KindNumber, Number: decimal.NewFromFloat(f)}
}

func NumberFromInt(i int64) CellValue {
	return CellValue{Kind: KindNumber, Number: decimal.NewFromInt(i)}
}

func Bool(b bool) CellValue { return CellValue{Kind: KindBool, Bool: b} }

func DateTime(t time.Time) CellValue { return CellValue{Kind: KindDateTime, DateTime: t} }

func RichTextValue(r RichText) CellValue { return CellValue{Kind: KindRichText, Rich: r} }

func Formula(expr string, cached *CellValue) CellValue {
	return CellValue{Kind: KindFormula, Formula: expr, CachedValue: cached}
}

func ErrorValue(e CellError) CellValue { return CellValue{Kind: KindError, Error: e} }

// IsEmpty reports whether v holds no content.
func (v CellValue) IsEmpty() bool { return v.Kind == KindEmpty }

// excelEpoch is the Excel serial-date epoch (1899-12-30, the conventional
// correction for Lotus 1-2-3's 1900 leap-year bug).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// ToSerial converts a local date-time to its Excel serial-day double.
func ToSerial(t time.Time) float64 {
	d := t.Sub(excelEpoch)
	return d.Hours() / 24
}

// FromSerial converts an Excel serial-day double back to a local
// date-time.
func FromSerial(serial float64) time.Time {
	days := int64(serial)
	frac := serial - float64(days)
	return excelEpoch.AddDate(0, 0, int(days)).Add(time.Duration(frac * 24 * float64(time.Hour)))
}
