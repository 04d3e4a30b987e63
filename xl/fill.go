package xl

import "fmt"

// Fill is the pattern-fill sub-component of CellStyle.
type Fill struct {
	PatternType string // "none", "gray125", "solid", ...
	FgColor     Color
	BgColor     Color

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}

// IsDefault reports whether f is the implicit "no fill" default.
func (f Fill) IsDefault() bool {
	return (f.PatternType == "" || f.PatternType == "none") && f.FgColor.IsZero() && f.BgColor.IsZero()
}

func (f Fill) CanonicalBytes(b []byte) []byte {
	b = fmt.Appendf(b, "fill{pattern:%s;fg:", f.PatternType)
	b = f.FgColor.CanonicalBytes(b)
	b = append(b, "bg:"...)
	b = f.BgColor.CanonicalBytes(b)
	b = append(b, '}')
	return b
}
