package ooxml

import (
	"encoding/xml"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
)

// SharedStrings is the parsed form of xl/sharedStrings.xml (spec.md
// §4.3.6). Both plain and rich-text <si> entries are represented
// uniformly as xl.RichText, with one unstyled run for plain strings.
type SharedStrings struct {
	Strings []xl.RichText
	Count   int // cell-reference count recorded on <sst count="...">
}

// ParseSharedStrings parses xl/sharedStrings.xml.
func ParseSharedStrings(raw []byte) (*SharedStrings, error) {
	const location = "xl/sharedStrings.xml"
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	sst := &SharedStrings{}
	dec := newDecoder(raw)
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
		case "sst":
			sst.Count = atoiSafe(attrValue(se.Attr, "count"))
		case "si":
			rt, err := parseRichTextBody(dec, raw, "si")
			if err != nil {
				return nil, err
			}
			sst.Strings = append(sst.Strings, rt)
		}
	}
	return sst, nil
}

// parseRichTextBody parses a <t>/<r> run sequence shared by <si> (shared
// string table entries) and <is> (inline string cell values) -- both use
// the CT_Rst content model, differing only in their enclosing tag.
func parseRichTextBody(dec *xml.Decoder, raw []byte, closeTag string) (xl.RichText, error) {
	var rt xl.RichText
	err := walkChildren(dec, closeTag, func(c xml.StartElement) error {
		switch c.Name.Local {
		case "t":
			text, err := readCharData(dec, "t")
			if err != nil {
				return err
			}
			rt.Runs = append(rt.Runs, xl.TextRun{Text: text})
			return nil
		case "r":
			run, err := parseRun(dec, raw)
			if err != nil {
				return err
			}
			rt.Runs = append(rt.Runs, run)
			return nil
		default:
			return dec.Skip()
		}
	})
	return rt, err
}

func parseRun(dec *xml.Decoder, raw []byte) (xl.TextRun, error) {
	var run xl.TextRun
	err := walkChildren(dec, "r", func(c xml.StartElement) error {
		switch c.Name.Local {
		case "t":
			text, err := readCharData(dec, "t")
			if err != nil {
				return err
			}
			run.Text = text
			return nil
		case "rPr":
			font, rprRaw, err := parseRPr(dec, raw)
			if err != nil {
				return err
			}
			run.Font = &font
			run.RawRPrXML = rprRaw
			return nil
		default:
			return dec.Skip()
		}
	})
	return run, err
}

// parseRPr captures the typed font fields it understands while also
// preserving the run's exact <rPr> child sequence verbatim in rawXML, so
// the writer can prefer the verbatim form when present (spec.md §4.3.6:
// "it won -- the parser captured exactly what Excel wrote").
func parseRPr(dec *xml.Decoder, raw []byte) (xl.Font, []byte, error) {
	var f xl.Font
	rawXML, err := captureInnerXML(dec, raw)
	if err != nil {
		return f, nil, err
	}
	inner := newDecoder(rawXML)
	for {
		tok, err := inner.Token()
		if err != nil {
			break
		}
		c, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch c.Name.Local {
		case "b":
			f.Bold = true
		case "i":
			f.Italic = true
		case "strike":
			f.Strikethrough = true
		case "u":
			v := attrValue(c.Attr, "val")
			if v == "" {
				f.Underline = xl.UnderlineSingle
			} else {
				f.Underline = xl.UnderlineType(v)
			}
		case "sz":
			f.Size = parseFloatSafe(attrValue(c.Attr, "val"))
		case "color":
			f.Color = parseColorAttrs(c.Attr)
		case "rFont":
			f.Name = attrValue(c.Attr, "val")
		case "family":
			f.Family = atoiSafe(attrValue(c.Attr, "val"))
		case "charset":
			f.Charset = atoiSafe(attrValue(c.Attr, "val"))
		}
	}
	return f, rawXML, nil
}

func parseFloatSafe(s string) float64 {
	var f float64
	var frac float64 = 1
	neg := false
	seenDot := false
	for _, r := range s {
		switch {
		case r == '-' && f == 0 && !seenDot:
			neg = true
		case r == '.':
			seenDot = true
		case r >= '0' && r <= '9':
			if seenDot {
				frac /= 10
				f += float64(r-'0') * frac
			} else {
				f = f*10 + float64(r-'0')
			}
		}
	}
	if neg {
		f = -f
	}
	return f
}

// BuildSharedStrings emits xl/sharedStrings.xml. count is the number of
// cell references (spec.md §4.3.6: count >= uniqueCount is invariant);
// len(strings) is the uniqueCount.
func BuildSharedStrings(backend xmlutil.Backend, strings []xl.RichText, count int) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "sst", xmlutil.A("xmlns", nsMain), xmlutil.A("count", count), xmlutil.A("uniqueCount", len(strings)))
		for _, rt := range strings {
			writeSI(e, rt)
		}
		e.EndElement()
	})
}

func writeSI(e xmlutil.Emitter, rt xl.RichText) {
	e.StartElement("si")
	if rt.IsPlain() {
		writeTextElem(e, rt.ToPlainText())
	} else {
		for _, run := range rt.Runs {
			e.StartElement("r")
			writeRunRPr(e, run)
			writeTextElem(e, run.Text)
			e.EndElement() // r
		}
	}
	e.EndElement() // si
}

func writeTextElem(e xmlutil.Emitter, s string) {
	e.StartElement("t")
	e.Text(s)
	e.EndElement()
}

// writeFontBody writes a <rPr>'s children for SST rich-text runs, which
// use rFont (not name) for the family name per ST_RPrElt.
func writeFontBody(e xmlutil.Emitter, f xl.Font) {
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
	if f.Size != 0 {
		e.StartElement("sz")
		e.Attr("val", f.Size)
		e.EndElement()
	}
	writeColor(e, "color", f.Color)
	if f.Name != "" {
		e.StartElement("rFont")
		e.Attr("val", f.Name)
		e.EndElement()
	}
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
}
