package ooxml

import (
	"fmt"
	"strings"

	"github.com/gosheetkit/xlcore/aref"
)

// VMLShapeIDStride is the per-sheet allocation stride for comment shape IDs
// (spec.md §4.3.7, §9): wide enough that a sheet with hundreds of comments
// never collides with the next sheet's range.
const VMLShapeIDStride = 1024

// VMLShapeID computes the shape ID for the commentIndex-th comment (0-based,
// in the order BuildVML/BuildComments write them) on sheetIndex (0-based).
func VMLShapeID(sheetIndex, commentIndex int) int {
	return 1000 + sheetIndex*VMLShapeIDStride + commentIndex
}

// ParseVML accepts an existing vmlDrawing<n>.vml part without structural
// interpretation: surgical writes of an unmodified commented sheet pass the
// bytes through verbatim (spec.md §4.3.9), so this module only rejects a
// document that declares a <!DOCTYPE> and returns the bytes unchanged; it
// does not check that they are VML or build a typed model of them.
func ParseVML(location string, raw []byte) ([]byte, error) {
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// BuildVML generates xl/drawings/vmlDrawing<n>.vml for sheetIndex's comment
// set. refs is the same address order BuildComments used, so each
// comment's shape ID lines up 1:1 with its <comment> entry.
func BuildVML(sheetIndex int, refs []string) []byte {
	var b strings.Builder
	b.WriteString(`<xml xmlns:v="urn:schemas-microsoft-com:vml"` +
		` xmlns:o="urn:schemas-microsoft-com:office:office"` +
		` xmlns:x="urn:schemas-microsoft-com:office:excel">` + "\n")
	b.WriteString(`<o:shapelayout v:ext="edit"><o:idmap v:ext="edit" data="1"/></o:shapelayout>` + "\n")
	b.WriteString(`<v:shapetype id="_x0000_t202" coordsize="21600,21600" o:spt="202" path="m,l,21600r21600,l21600,xe">` +
		`<v:stroke joinstyle="miter"/><v:path gradientshapeok="t" o:connecttype="rect"/></v:shapetype>` + "\n")

	for i, ref := range refs {
		shapeID := VMLShapeID(sheetIndex, i)
		a, err := aref.Parse(ref)
		row, col := 0, 0
		if err == nil {
			row, col = a.Row-1, a.Col-1
		}
		fmt.Fprintf(&b, `<v:shape id="_x0000_s%d" type="#_x0000_t202" style='position:absolute;`+
			`margin-left:59.25pt;margin-top:1.5pt;width:108pt;height:59.25pt;z-index:%d;visibility:hidden' `+
			`fillcolor="#ffffe1" o:insetmode="auto"><v:fill color2="#ffffe1"/><v:shadow on="t" color="black" obscured="t"/>`+
			`<v:path o:connecttype="none"/><v:textbox><div style='text-align:left'></div></v:textbox>`+
			`<x:ClientData ObjectType="Note"><x:MoveWithCells/><x:SizeWithCells/>`+
			`<x:Anchor>%d, 15, %d, 2, %d, 31, %d, 1</x:Anchor>`+
			`<x:AutoFill>False</x:AutoFill><x:Row>%d</x:Row><x:Column>%d</x:Column></x:ClientData></v:shape>`+"\n",
			shapeID, i+1, col+1, row, col+2, row+4, row, col)
	}

	b.WriteString(`</xml>`)
	return []byte(b.String())
}
