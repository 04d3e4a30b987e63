package xl

import "fmt"

// BorderSide is one edge of a Border (left, right, top, bottom, diagonal).
type BorderSide struct {
	Style string // "thin", "medium", "dashed", ...
	Color Color
}

func (s BorderSide) IsDefault() bool {
	return s.Style == "" && s.Color.IsZero()
}

func (s BorderSide) CanonicalBytes(b []byte) []byte {
	b = fmt.Appendf(b, "%s:", s.Style)
	return s.Color.CanonicalBytes(b)
}

// Border is the four-edges-plus-diagonal sub-component of CellStyle.
type Border struct {
	Left, Right, Top, Bottom, Diagonal BorderSide
	DiagonalUp, DiagonalDown           bool

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}

func (b Border) IsDefault() bool {
	return b.Left.IsDefault() && b.Right.IsDefault() && b.Top.IsDefault() &&
		b.Bottom.IsDefault() && b.Diagonal.IsDefault() && !b.DiagonalUp && !b.DiagonalDown
}

func (br Border) CanonicalBytes(b []byte) []byte {
	b = append(b, "border{l:"...)
	b = br.Left.CanonicalBytes(b)
	b = append(b, ";r:"...)
	b = br.Right.CanonicalBytes(b)
	b = append(b, ";t:"...)
	b = br.Top.CanonicalBytes(b)
	b = append(b, ";bo:"...)
	b = br.Bottom.CanonicalBytes(b)
	b = append(b, ";d:"...)
	b = br.Diagonal.CanonicalBytes(b)
	b = fmt.Appendf(b, ";du:%v;dd:%v}", br.DiagonalUp, br.DiagonalDown)
	return b
}
