package xl

import "fmt"

type HorizontalAlign string

const (
	HAlignGeneral          HorizontalAlign = "general"
	HAlignLeft             HorizontalAlign = "left"
	HAlignCenter           HorizontalAlign = "center"
	HAlignRight            HorizontalAlign = "right"
	HAlignFill             HorizontalAlign = "fill"
	HAlignJustify          HorizontalAlign = "justify"
	HAlignCenterContinuous HorizontalAlign = "centerContinuous"
	HAlignDistributed      HorizontalAlign = "distributed"
)

type VerticalAlign string

const (
	VAlignTop         VerticalAlign = "top"
	VAlignCenter      VerticalAlign = "center"
	VAlignBottom      VerticalAlign = "bottom"
	VAlignJustify     VerticalAlign = "justify"
	VAlignDistributed VerticalAlign = "distributed"
)

// Alignment is the <alignment> sub-component of CellStyle. It is emitted
// only when at least one field differs from its zero value (spec.md
// §4.3.5).
type Alignment struct {
	Horizontal    HorizontalAlign
	Vertical      VerticalAlign
	WrapText      bool
	Indent        int
	ShrinkToFit   bool
	TextRotation  int
	ReadingOrder  int
}

func (a Alignment) IsDefault() bool {
	return a.Horizontal == "" && a.Vertical == "" && !a.WrapText &&
		a.Indent == 0 && !a.ShrinkToFit && a.TextRotation == 0 && a.ReadingOrder == 0
}

func (a Alignment) CanonicalBytes(b []byte) []byte {
	return fmt.Appendf(b, "align{h:%s;v:%s;wrap:%v;indent:%d;shrink:%v;rot:%d;ro:%d}",
		a.Horizontal, a.Vertical, a.WrapText, a.Indent, a.ShrinkToFit, a.TextRotation, a.ReadingOrder)
}
