// Package writer implements the three output strategies spec.md §4.6
// describes: verbatim copy, hybrid surgical regenerate-plus-preserve, and
// full regeneration. It is grounded on the teacher's xl/writer.go (the
// part-by-part WriteBlob sequencing and the deterministic-archive Storage
// abstraction, generalized here to internal/zipio.Writer) and on
// xl/zfs.go's Storage split between a plain io.Writer target and the ZIP
// encoder itself.
package writer

import "github.com/gosheetkit/xlcore/internal/xmlutil"

// SSTPolicy governs when a write uses the shared string table versus
// inline strings (spec.md §4.3.6).
type SSTPolicy int

const (
	// SSTAuto uses SST when totalStringCells > uniqueStringCount and
	// totalStringCells > 10, inline otherwise.
	SSTAuto SSTPolicy = iota
	SSTAlways
	SSTNever
)

// FormulaInjectionPolicy governs whether text cell values that look like
// formulas are defused on write (spec.md §4.6).
type FormulaInjectionPolicy int

const (
	// FormulaInjectionNone passes text values through unchanged.
	FormulaInjectionNone FormulaInjectionPolicy = iota
	// FormulaInjectionEscape prepends `'` to a Text value whose first rune
	// is one of = + - @, idempotently (an already-escaped value is left
	// alone).
	FormulaInjectionEscape
)

// Config selects the writer's backend and policies. The zero value is the
// "default" preset: DOM backend, SST auto, no formula injection escape.
type Config struct {
	Backend                xmlutil.Backend
	SSTPolicy              SSTPolicy
	FormulaInjectionPolicy FormulaInjectionPolicy
	UseInlineStrings       bool // forces inline strings regardless of SSTPolicy; set by SSTNever
}

// DefaultConfig is the "default" preset: DOM backend (spec.md §4.6's
// ScalaXml-equivalent tree backend), SST auto, no formula injection escape.
func DefaultConfig() Config {
	return Config{
		Backend:                xmlutil.DOMBackend,
		SSTPolicy:              SSTAuto,
		FormulaInjectionPolicy: FormulaInjectionNone,
	}
}

// SecureConfig additionally disables shared strings so every string cell
// is self-contained inline text, and escapes formula-triggering leading
// characters on write -- useful when the destination will be re-parsed by
// a strict consumer, or opened by a user who might paste in untrusted data.
func SecureConfig() Config {
	c := DefaultConfig()
	c.SSTPolicy = SSTNever
	c.UseInlineStrings = true
	c.FormulaInjectionPolicy = FormulaInjectionEscape
	return c
}

// FastConfig trades the DOM backend for the streaming one, skipping
// formula-injection escaping for callers who already trust their inputs.
func FastConfig() Config {
	return Config{
		Backend:                xmlutil.StreamBackend,
		SSTPolicy:              SSTAuto,
		FormulaInjectionPolicy: FormulaInjectionNone,
	}
}
