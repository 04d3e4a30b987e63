package xl

// CellStyle records the complete formatting of one cell. Equality is by
// CanonicalKey: two CellStyles are identical iff their canonical keys
// match (spec.md §3).
type CellStyle struct {
	Font    Font
	Fill    Fill
	Border  Border
	NumFmt  NumFmtRef
	Align   Alignment

	ApplyFont      bool
	ApplyFill      bool
	ApplyBorder    bool
	ApplyNumFmt    bool
	ApplyAlignment bool

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}

// CanonicalKey returns a stable byte serialization of every sub-field in a
// fixed order, used as the hash/equality key for style deduplication
// (spec.md §4.4, §9).
func (s CellStyle) CanonicalKey() string {
	b := make([]byte, 0, 128)
	b = s.Font.CanonicalBytes(b)
	b = s.Fill.CanonicalBytes(b)
	b = s.Border.CanonicalBytes(b)
	b = s.NumFmt.CanonicalBytes(b)
	b = s.Align.CanonicalBytes(b)
	return string(b)
}

// IsDefault reports whether s is indistinguishable from Excel's implicit
// default style.
func (s CellStyle) IsDefault() bool {
	return s.Font.IsDefault() && s.Fill.IsDefault() && s.Border.IsDefault() &&
		s.NumFmt.IsDefault() && s.Align.IsDefault()
}
