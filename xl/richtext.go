package xl

// TextRun is one run of a RichText value: text plus optional typed font
// formatting, or a verbatim-preserved <rPr> blob when the source used
// formatting this package's Font type cannot fully represent (spec.md
// §3). When RawRPrXML is non-empty it wins on write -- the parser
// captured exactly what Excel wrote.
type TextRun struct {
	Text      string
	Font      *Font
	RawRPrXML []byte
}

// RichText is an ordered sequence of TextRuns. A plain string is
// represented as one unstyled run.
type RichText struct {
	Runs []TextRun
}

// PlainText builds a single-run, unstyled RichText.
func PlainText(s string) RichText {
	return RichText{Runs: []TextRun{{Text: s}}}
}

// ToPlainText concatenates every run's text, discarding formatting.
func (r RichText) ToPlainText() string {
	if len(r.Runs) == 1 && r.Runs[0].Font == nil && len(r.Runs[0].RawRPrXML) == 0 {
		return r.Runs[0].Text
	}
	var out []byte
	for _, run := range r.Runs {
		out = append(out, run.Text...)
	}
	return string(out)
}

// IsPlain reports whether r is representable as a single unstyled run.
func (r RichText) IsPlain() bool {
	return len(r.Runs) <= 1 && (len(r.Runs) == 0 || (r.Runs[0].Font == nil && len(r.Runs[0].RawRPrXML) == 0))
}
