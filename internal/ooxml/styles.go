package ooxml

import (
	"encoding/xml"
	"strconv"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/styleindex"
	"github.com/gosheetkit/xlcore/xl"
)

// CellStyleName is one <cellStyle> entry (named cell style referencing a
// cellStyleXfs index).
type CellStyleName struct {
	Name string
	XfID int
}

// StylesXML is the parsed form of xl/styles.xml (spec.md §4.3.5). CellXfs
// is indexed identically to the source's cellXfs table, matching a cell's
// "s" attribute.
type StylesXML struct {
	NumFmts        []xl.NumFmtRef
	Fonts          []xl.Font
	Fills          []xl.Fill
	Borders        []xl.Border
	CellXfs        []xl.CellStyle
	CellStyleXfs   []xl.CellStyle
	CellStyleNames []CellStyleName
	Dxfs           *xl.RawElement
	TableStyles    *xl.RawElement
	Colors         *xl.RawElement
}

// ParseStyles parses xl/styles.xml. A missing styles.xml is not handled
// here -- the caller treats that absence as the MissingStylesXml warning
// (spec.md §7) and supplies defaults instead of calling this function.
func ParseStyles(raw []byte) (*StylesXML, error) {
	const location = "xl/styles.xml"
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	dec := newDecoder(raw)
	sx := &StylesXML{}
	var numFmtByID = map[int]xl.NumFmtRef{}

	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "numFmts":
			if err := walkChildren(dec, "numFmts", func(c xml.StartElement) error {
				if c.Name.Local != "numFmt" {
					return dec.Skip()
				}
				var nf xl.NumFmtRef
				for _, a := range c.Attr {
					switch a.Name.Local {
					case "numFmtId":
						nf.ID = atoiSafe(a.Value)
					case "formatCode":
						nf.Code = a.Value
					}
				}
				numFmtByID[nf.ID] = nf
				sx.NumFmts = append(sx.NumFmts, nf)
				return dec.Skip()
			}); err != nil {
				return nil, err
			}
		case "fonts":
			if err := walkChildren(dec, "fonts", func(c xml.StartElement) error {
				if c.Name.Local != "font" {
					return dec.Skip()
				}
				f, err := parseFont(dec)
				if err != nil {
					return err
				}
				sx.Fonts = append(sx.Fonts, f)
				return nil
			}); err != nil {
				return nil, err
			}
		case "fills":
			if err := walkChildren(dec, "fills", func(c xml.StartElement) error {
				if c.Name.Local != "fill" {
					return dec.Skip()
				}
				f, err := parseFill(dec)
				if err != nil {
					return err
				}
				sx.Fills = append(sx.Fills, f)
				return nil
			}); err != nil {
				return nil, err
			}
		case "borders":
			if err := walkChildren(dec, "borders", func(c xml.StartElement) error {
				if c.Name.Local != "border" {
					return dec.Skip()
				}
				b, err := parseBorder(dec, c)
				if err != nil {
					return err
				}
				sx.Borders = append(sx.Borders, b)
				return nil
			}); err != nil {
				return nil, err
			}
		case "cellStyleXfs":
			xfs, err := parseXfs(dec, "cellStyleXfs", sx, numFmtByID)
			if err != nil {
				return nil, err
			}
			sx.CellStyleXfs = xfs
		case "cellXfs":
			xfs, err := parseXfs(dec, "cellXfs", sx, numFmtByID)
			if err != nil {
				return nil, err
			}
			sx.CellXfs = xfs
		case "cellStyles":
			if err := walkChildren(dec, "cellStyles", func(c xml.StartElement) error {
				if c.Name.Local != "cellStyle" {
					return dec.Skip()
				}
				var cs CellStyleName
				for _, a := range c.Attr {
					switch a.Name.Local {
					case "name":
						cs.Name = a.Value
					case "xfId":
						cs.XfID = atoiSafe(a.Value)
					}
				}
				sx.CellStyleNames = append(sx.CellStyleNames, cs)
				return dec.Skip()
			}); err != nil {
				return nil, err
			}
		case "dxfs":
			sx.Dxfs, err = captureMetaElement(dec, raw, se)
		case "tableStyles":
			sx.TableStyles, err = captureMetaElement(dec, raw, se)
		case "colors":
			sx.Colors, err = captureMetaElement(dec, raw, se)
		}
		if err != nil {
			return nil, err
		}
	}
	return sx, nil
}

func walkChildren(dec *xml.Decoder, local string, onStart func(xml.StartElement) error) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == local {
				return nil
			}
		case xml.StartElement:
			if err := onStart(t); err != nil {
				return err
			}
		}
	}
}

func parseFont(dec *xml.Decoder) (xl.Font, error) {
	var f xl.Font
	err := walkChildren(dec, "font", func(c xml.StartElement) error {
		switch c.Name.Local {
		case "b":
			f.Bold = attrBoolDefault(c.Attr, true)
			return dec.Skip()
		case "i":
			f.Italic = attrBoolDefault(c.Attr, true)
			return dec.Skip()
		case "strike":
			f.Strikethrough = attrBoolDefault(c.Attr, true)
			return dec.Skip()
		case "u":
			v := attrValue(c.Attr, "val")
			if v == "" {
				f.Underline = xl.UnderlineSingle
			} else {
				f.Underline = xl.UnderlineType(v)
			}
			return dec.Skip()
		case "sz":
			f.Size, _ = strconv.ParseFloat(attrValue(c.Attr, "val"), 64)
			return dec.Skip()
		case "name":
			f.Name = attrValue(c.Attr, "val")
			return dec.Skip()
		case "family":
			f.Family = atoiSafe(attrValue(c.Attr, "val"))
			return dec.Skip()
		case "charset":
			f.Charset = atoiSafe(attrValue(c.Attr, "val"))
			return dec.Skip()
		case "color":
			f.Color = parseColorAttrs(c.Attr)
			return dec.Skip()
		default:
			return dec.Skip()
		}
	})
	return f, err
}

func parseFill(dec *xml.Decoder) (xl.Fill, error) {
	var f xl.Fill
	err := walkChildren(dec, "fill", func(c xml.StartElement) error {
		if c.Name.Local != "patternFill" {
			return dec.Skip()
		}
		f.PatternType = attrValue(c.Attr, "patternType")
		return walkChildren(dec, "patternFill", func(cc xml.StartElement) error {
			switch cc.Name.Local {
			case "fgColor":
				f.FgColor = parseColorAttrs(cc.Attr)
			case "bgColor":
				f.BgColor = parseColorAttrs(cc.Attr)
			}
			return dec.Skip()
		})
	})
	return f, err
}

func parseBorder(dec *xml.Decoder, root xml.StartElement) (xl.Border, error) {
	var b xl.Border
	b.DiagonalUp = attrValue(root.Attr, "diagonalUp") == "1" || attrValue(root.Attr, "diagonalUp") == "true"
	b.DiagonalDown = attrValue(root.Attr, "diagonalDown") == "1" || attrValue(root.Attr, "diagonalDown") == "true"
	err := walkChildren(dec, "border", func(c xml.StartElement) error {
		side, err := parseBorderSide(dec, c)
		if err != nil {
			return err
		}
		switch c.Name.Local {
		case "left":
			b.Left = side
		case "right":
			b.Right = side
		case "top":
			b.Top = side
		case "bottom":
			b.Bottom = side
		case "diagonal":
			b.Diagonal = side
		}
		return nil
	})
	return b, err
}

func parseBorderSide(dec *xml.Decoder, root xml.StartElement) (xl.BorderSide, error) {
	var s xl.BorderSide
	s.Style = attrValue(root.Attr, "style")
	err := walkChildren(dec, root.Name.Local, func(c xml.StartElement) error {
		if c.Name.Local == "color" {
			s.Color = parseColorAttrs(c.Attr)
		}
		return dec.Skip()
	})
	return s, err
}

func parseColorAttrs(attrs []xml.Attr) xl.Color {
	var rgb, theme, tint, indexed string
	for _, a := range attrs {
		switch a.Name.Local {
		case "rgb":
			rgb = a.Value
		case "theme":
			theme = a.Value
		case "tint":
			tint = a.Value
		case "indexed":
			indexed = a.Value
		}
	}
	if rgb != "" {
		v, err := strconv.ParseUint(rgb, 16, 32)
		if err == nil {
			return xl.RGBColor(uint32(v))
		}
	}
	if theme != "" {
		t, _ := strconv.ParseFloat(tint, 64)
		return xl.ThemeColor(atoiSafe(theme), t)
	}
	if indexed != "" {
		return xl.IndexedColor(atoiSafe(indexed))
	}
	return xl.Color{}
}

func parseXfs(dec *xml.Decoder, local string, sx *StylesXML, numFmtByID map[int]xl.NumFmtRef) ([]xl.CellStyle, error) {
	var out []xl.CellStyle
	err := walkChildren(dec, local, func(c xml.StartElement) error {
		if c.Name.Local != "xf" {
			return dec.Skip()
		}
		var style xl.CellStyle
		fontID, fillID, borderID, numFmtID := 0, 0, 0, 0
		for _, a := range c.Attr {
			switch a.Name.Local {
			case "numFmtId":
				numFmtID = atoiSafe(a.Value)
			case "fontId":
				fontID = atoiSafe(a.Value)
			case "fillId":
				fillID = atoiSafe(a.Value)
			case "borderId":
				borderID = atoiSafe(a.Value)
			case "applyFont":
				style.ApplyFont = a.Value == "1" || a.Value == "true"
			case "applyFill":
				style.ApplyFill = a.Value == "1" || a.Value == "true"
			case "applyBorder":
				style.ApplyBorder = a.Value == "1" || a.Value == "true"
			case "applyNumberFormat":
				style.ApplyNumFmt = a.Value == "1" || a.Value == "true"
			case "applyAlignment":
				style.ApplyAlignment = a.Value == "1" || a.Value == "true"
			}
		}
		if fontID >= 0 && fontID < len(sx.Fonts) {
			style.Font = sx.Fonts[fontID]
		}
		if fillID >= 0 && fillID < len(sx.Fills) {
			style.Fill = sx.Fills[fillID]
		}
		if borderID >= 0 && borderID < len(sx.Borders) {
			style.Border = sx.Borders[borderID]
		}
		if nf, ok := numFmtByID[numFmtID]; ok {
			style.NumFmt = nf
		} else if numFmtID != 0 {
			style.NumFmt = xl.NumFmtRef{ID: numFmtID}
		}
		if err := walkChildren(dec, "xf", func(cc xml.StartElement) error {
			if cc.Name.Local == "alignment" {
				style.Align = parseAlignment(cc.Attr)
			}
			return dec.Skip()
		}); err != nil {
			return err
		}
		out = append(out, style)
		return nil
	})
	return out, err
}

func parseAlignment(attrs []xml.Attr) xl.Alignment {
	var a xl.Alignment
	for _, at := range attrs {
		switch at.Name.Local {
		case "horizontal":
			a.Horizontal = xl.HorizontalAlign(at.Value)
		case "vertical":
			a.Vertical = xl.VerticalAlign(at.Value)
		case "wrapText":
			a.WrapText = at.Value == "1" || at.Value == "true"
		case "indent":
			a.Indent = atoiSafe(at.Value)
		case "shrinkToFit":
			a.ShrinkToFit = at.Value == "1" || at.Value == "true"
		case "textRotation":
			a.TextRotation = atoiSafe(at.Value)
		case "readingOrder":
			a.ReadingOrder = atoiSafe(at.Value)
		}
	}
	return a
}

func attrValue(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func attrBoolDefault(attrs []xml.Attr, def bool) bool {
	v := attrValue(attrs, "val")
	if v == "" {
		return def
	}
	return v == "1" || v == "true"
}

// StylesResidue carries the parsed source's dxfs/tableStyles/colors blocks
// through to a rebuild verbatim, since this engine does not model
// conditional-formatting differential styles or table style catalogs
// structurally. nil on a from-scratch build.
type StylesResidue struct {
	Dxfs        *xl.RawElement
	TableStyles *xl.RawElement
	Colors      *xl.RawElement
}

// BuildStyles emits xl/styles.xml from idx, in the required root-child
// order (spec.md §4.3.5): numFmts?, fonts, fills, borders, cellStyleXfs,
// cellXfs, cellStyles, dxfs?, tableStyles?, colors?.
func BuildStyles(backend xmlutil.Backend, idx *styleindex.Index, residue StylesResidue) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "styleSheet", xmlutil.A("xmlns", nsMain))

		if len(idx.NumFmts) > 0 {
			e.StartElement("numFmts")
			e.Attr("count", len(idx.NumFmts))
			for _, nf := range idx.NumFmts {
				e.StartElement("numFmt")
				e.Attr("numFmtId", nf.ID)
				e.Attr("formatCode", nf.Code)
				e.EndElement()
			}
			e.EndElement()
		}

		e.StartElement("fonts")
		e.Attr("count", len(idx.Fonts))
		for _, f := range idx.Fonts {
			writeFont(e, f)
		}
		e.EndElement()

		e.StartElement("fills")
		e.Attr("count", len(idx.Fills))
		for _, f := range idx.Fills {
			writeFill(e, f)
		}
		e.EndElement()

		e.StartElement("borders")
		e.Attr("count", len(idx.Borders))
		for _, b := range idx.Borders {
			writeBorder(e, b)
		}
		e.EndElement()

		e.StartElement("cellStyleXfs")
		e.Attr("count", 1)
		e.StartElement("xf")
		e.Attr("numFmtId", 0)
		e.Attr("fontId", 0)
		e.Attr("fillId", 0)
		e.Attr("borderId", 0)
		e.EndElement()
		e.EndElement()

		e.StartElement("cellXfs")
		e.Attr("count", len(idx.Xfs))
		for _, style := range idx.Xfs {
			writeXf(e, idx, style)
		}
		e.EndElement()

		e.StartElement("cellStyles")
		e.Attr("count", 1)
		e.StartElement("cellStyle")
		e.Attr("name", "Normal")
		e.Attr("xfId", 0)
		e.Attr("builtinId", 0)
		e.EndElement()
		e.EndElement()

		writeRawElement(e, residue.Dxfs)
		writeRawElement(e, residue.TableStyles)
		writeRawElement(e, residue.Colors)

		e.EndElement() // styleSheet
	})
}

func writeColor(e xmlutil.Emitter, tag string, c xl.Color) {
	if c.IsZero() {
		return
	}
	e.StartElement(tag)
	switch c.Kind {
	case xl.ColorRGB:
		e.Attr("rgb", strconv.FormatUint(uint64(c.ARGB), 16))
	case xl.ColorTheme:
		e.Attr("theme", c.Theme)
		e.Attr("tint", c.Tint)
	case xl.ColorIndexed:
		e.Attr("indexed", c.Indexed)
	}
	e.EndElement()
}

func writeFont(e xmlutil.Emitter, f xl.Font) {
	e.StartElement("font")
	if f.Bold {
		e.StartElement("b")
		e.EndElement()
	}
	if f.Italic {
		e.StartElement("i")
		e.EndElement()
	}
	if f.Strikethrough {
		e.StartElement("strike")
		e.EndElement()
	}
	if f.Underline != xl.UnderlineNone {
		e.StartElement("u")
		if f.Underline != xl.UnderlineSingle {
			e.Attr("val", string(f.Underline))
		}
		e.EndElement()
	}
	size := f.Size
	if size == 0 {
		size = 11
	}
	e.StartElement("sz")
	e.Attr("val", size)
	e.EndElement()
	writeColor(e, "color", f.Color)
	name := f.Name
	if name == "" {
		name = "Calibri"
	}
	e.StartElement("name")
	e.Attr("val", name)
	e.EndElement()
	if f.Family != 0 {
		e.StartElement("family")
		e.Attr("val", f.Family)
		e.EndElement()
	}
	if f.Charset != 0 {
		e.StartElement("charset")
		e.Attr("val", f.Charset)
		e.EndElement()
	}
	e.EndElement() // font
}

func writeFill(e xmlutil.Emitter, f xl.Fill) {
	e.StartElement("fill")
	pattern := f.PatternType
	if pattern == "" {
		pattern = "none"
	}
	e.StartElement("patternFill")
	e.Attr("patternType", pattern)
	writeColor(e, "fgColor", f.FgColor)
	writeColor(e, "bgColor", f.BgColor)
	e.EndElement() // patternFill
	e.EndElement() // fill
}

func writeBorderSide(e xmlutil.Emitter, tag string, s xl.BorderSide) {
	e.StartElement(tag)
	if s.Style != "" {
		e.Attr("style", s.Style)
	}
	writeColor(e, "color", s.Color)
	e.EndElement()
}

func writeBorder(e xmlutil.Emitter, b xl.Border) {
	e.StartElement("border")
	if b.DiagonalUp {
		e.Attr("diagonalUp", true)
	}
	if b.DiagonalDown {
		e.Attr("diagonalDown", true)
	}
	writeBorderSide(e, "left", b.Left)
	writeBorderSide(e, "right", b.Right)
	writeBorderSide(e, "top", b.Top)
	writeBorderSide(e, "bottom", b.Bottom)
	writeBorderSide(e, "diagonal", b.Diagonal)
	e.EndElement()
}

func writeXf(e xmlutil.Emitter, idx *styleindex.Index, style xl.CellStyle) {
	e.StartElement("xf")
	e.Attr("numFmtId", style.NumFmt.ID)
	e.Attr("fontId", idx.FontID(style.Font))
	e.Attr("fillId", idx.FillID(style.Fill))
	e.Attr("borderId", idx.BorderID(style.Border))
	e.Attr("xfId", 0)
	if style.ApplyFont {
		e.Attr("applyFont", true)
	}
	if style.ApplyFill {
		e.Attr("applyFill", true)
	}
	if style.ApplyBorder {
		e.Attr("applyBorder", true)
	}
	if style.NumFmt.ID != 0 {
		e.Attr("applyNumberFormat", true)
	}
	if !style.Align.IsDefault() {
		e.Attr("applyAlignment", true)
		e.StartElement("alignment")
		if style.Align.Horizontal != "" {
			e.Attr("horizontal", string(style.Align.Horizontal))
		}
		if style.Align.Vertical != "" {
			e.Attr("vertical", string(style.Align.Vertical))
		}
		if style.Align.WrapText {
			e.Attr("wrapText", true)
		}
		if style.Align.Indent != 0 {
			e.Attr("indent", style.Align.Indent)
		}
		if style.Align.ShrinkToFit {
			e.Attr("shrinkToFit", true)
		}
		if style.Align.TextRotation != 0 {
			e.Attr("textRotation", style.Align.TextRotation)
		}
		if style.Align.ReadingOrder != 0 {
			e.Attr("readingOrder", style.Align.ReadingOrder)
		}
		e.EndElement()
	}
	e.EndElement()
}
