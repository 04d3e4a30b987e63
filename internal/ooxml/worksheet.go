package ooxml

import (
	"encoding/xml"
	"sort"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/gosheetkit/xlcore/aref"
	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
	"github.com/gosheetkit/xlcore/xlerr"
)

// ParseWorksheet parses one xl/worksheets/sheetN.xml part into a *xl.Sheet.
// sst resolves t="s" cell values; cellXfs resolves a cell's "s" attribute
// to the CellStyle it names (spec.md §4.3.4).
func ParseWorksheet(location, name string, raw []byte, sst []xl.RichText, cellXfs []xl.CellStyle) (*xl.Sheet, error) {
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	sheet, err := xl.NewSheet(name)
	if err != nil {
		return nil, err
	}
	meta := &xl.WorksheetMetadata{}

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
		case "sheetPr":
			meta.SheetPr, err = captureMetaElement(dec, raw, se)
		case "sheetViews":
			meta.SheetViews, err = captureMetaElement(dec, raw, se)
		case "sheetFormatPr":
			meta.SheetFormatPr, err = captureMetaElement(dec, raw, se)
		case "cols":
			err = parseCols(dec, &sheet)
		case "sheetData":
			err = parseSheetData(dec, raw, &sheet, sst, cellXfs, location)
		case "mergeCells":
			err = parseMergeCells(dec, &sheet)
		case "conditionalFormatting":
			var el *xl.RawElement
			el, err = captureMetaElement(dec, raw, se)
			if err == nil && el != nil {
				meta.ConditionalFormatting = append(meta.ConditionalFormatting, *el)
			}
		case "dataValidations":
			meta.DataValidations, err = captureMetaElement(dec, raw, se)
		case "hyperlinks":
			meta.Hyperlinks, err = captureMetaElement(dec, raw, se)
		case "printOptions":
			meta.PrintOptions, err = captureMetaElement(dec, raw, se)
		case "pageMargins":
			meta.PageMargins, err = captureMetaElement(dec, raw, se)
		case "pageSetup":
			meta.PageSetup, err = captureMetaElement(dec, raw, se)
		case "headerFooter":
			meta.HeaderFooter, err = captureMetaElement(dec, raw, se)
		case "rowBreaks":
			meta.RowBreaks, err = captureMetaElement(dec, raw, se)
		case "colBreaks":
			meta.ColBreaks, err = captureMetaElement(dec, raw, se)
		}
		if err != nil {
			return nil, err
		}
	}
	sheet = sheet.WithMetadata(meta)
	return sheet, nil
}

func captureMetaElement(dec *xml.Decoder, raw []byte, se xml.StartElement) (*xl.RawElement, error) {
	content, err := captureInnerXML(dec, raw)
	if err != nil {
		return nil, err
	}
	_, other := attrMap(se.Attr, map[string]bool{})
	return &xl.RawElement{Name: se.Name.Local, Attrs: other, Content: content}, nil
}

// parseCols, parseMergeCells, parseSheetData and parseCell take **xl.Sheet
// so each child element's builder-commit result can be folded back into
// the caller's variable: *xl.Sheet's mutators return a new value rather
// than mutating in place (spec.md §5, §9).
func parseCols(dec *xml.Decoder, sheet **xl.Sheet) error {
	return walkChildren(dec, "cols", func(c xml.StartElement) error {
		if c.Name.Local != "col" {
			return dec.Skip()
		}
		min := atoiSafe(attrValue(c.Attr, "min"))
		max := atoiSafe(attrValue(c.Attr, "max"))
		if max < min {
			max = min
		}
		p := xl.ColumnProperties{
			Width:        parseFloatSafe(attrValue(c.Attr, "width")),
			CustomWidth:  attrValue(c.Attr, "customWidth") == "1",
			Hidden:       attrValue(c.Attr, "hidden") == "1",
			OutlineLevel: atoiSafe(attrValue(c.Attr, "outlineLevel")),
			Collapsed:    attrValue(c.Attr, "collapsed") == "1",
		}
		for col := min; col <= max; col++ {
			*sheet = (*sheet).SetColumnProperties(col, p)
		}
		return dec.Skip()
	})
}

func parseMergeCells(dec *xml.Decoder, sheet **xl.Sheet) error {
	return walkChildren(dec, "mergeCells", func(c xml.StartElement) error {
		if c.Name.Local != "mergeCell" {
			return dec.Skip()
		}
		ref := attrValue(c.Attr, "ref")
		n, err := (*sheet).Merge(ref)
		if err != nil {
			return err
		}
		*sheet = n
		return dec.Skip()
	})
}

func parseSheetData(dec *xml.Decoder, raw []byte, sheet **xl.Sheet, sst []xl.RichText, cellXfs []xl.CellStyle, location string) error {
	return walkChildren(dec, "sheetData", func(c xml.StartElement) error {
		if c.Name.Local != "row" {
			return dec.Skip()
		}
		rowNum := atoiSafe(attrValue(c.Attr, "r"))
		rp := xl.RowProperties{
			Present:      true,
			Spans:        attrValue(c.Attr, "spans"),
			CustomFormat: attrValue(c.Attr, "customFormat") == "1",
			Height:       parseFloatSafe(attrValue(c.Attr, "ht")),
			CustomHeight: attrValue(c.Attr, "customHeight") == "1",
			Hidden:       attrValue(c.Attr, "hidden") == "1",
			OutlineLevel: atoiSafe(attrValue(c.Attr, "outlineLevel")),
			Collapsed:    attrValue(c.Attr, "collapsed") == "1",
			ThickBot:     attrValue(c.Attr, "thickBot") == "1",
		}
		if s := attrValue(c.Attr, "s"); s != "" {
			rp.StyleID = atoiSafe(s)
			rp.HasStyleID = true
		}
		if d := attrValue(c.Attr, "dyDescent"); d != "" {
			rp.DyDescent = parseFloatSafe(d)
			rp.HasDyDescent = true
		}
		*sheet = (*sheet).SetRowProperties(rowNum, rp)

		return walkChildren(dec, "row", func(cc xml.StartElement) error {
			if cc.Name.Local != "c" {
				return dec.Skip()
			}
			return parseCell(dec, raw, cc, sheet, sst, cellXfs, location)
		})
	})
}

func parseCell(dec *xml.Decoder, raw []byte, c xml.StartElement, sheet **xl.Sheet, sst []xl.RichText, cellXfs []xl.CellStyle, location string) error {
	ref := attrValue(c.Attr, "r")
	typ := attrValue(c.Attr, "t")
	styleID := -1
	if s := attrValue(c.Attr, "s"); s != "" {
		styleID = atoiSafe(s)
	}

	var inlineValue *xl.CellValue
	var sawFormula bool
	var formulaExpr, cachedText string
	hasCached := false

	err := walkChildren(dec, "c", func(cc xml.StartElement) error {
		switch cc.Name.Local {
		case "f":
			sawFormula = true
			text, err := readCharData(dec, "f")
			if err != nil {
				return err
			}
			formulaExpr = text
			return nil
		case "v":
			text, err := readCharData(dec, "v")
			if err != nil {
				return err
			}
			cachedText = text
			hasCached = true
			return nil
		case "is":
			rt, err := parseRichTextBody(dec, raw, "is")
			if err != nil {
				return err
			}
			v := xl.RichTextValue(rt)
			inlineValue = &v
			return nil
		default:
			return dec.Skip()
		}
	})
	if err != nil {
		return err
	}

	var value xl.CellValue
	switch {
	case sawFormula:
		var cached *xl.CellValue
		isStr := false
		if hasCached {
			switch typ {
			case "str":
				v := xl.Text(cachedText)
				cached = &v
				isStr = true
			case "b":
				v := xl.Bool(cachedText == "1" || cachedText == "true")
				cached = &v
			case "e":
				v := xl.ErrorValue(xl.CellError(cachedText))
				cached = &v
			default:
				n, perr := strconv.ParseFloat(cachedText, 64)
				if perr != nil {
					return xlerr.NewParseError(location, "cell %s: invalid cached formula value %q", ref, cachedText)
				}
				v := xl.NumberFromFloat(n)
				cached = &v
			}
		}
		value = xl.CellValue{Kind: xl.KindFormula, Formula: formulaExpr, CachedValue: cached, FormulaIsStr: isStr}
	case inlineValue != nil:
		value = *inlineValue
	default:
		switch typ {
		case "s":
			idx := atoiSafe(cachedText)
			if idx < 0 || idx >= len(sst) {
				return xlerr.NewParseError(location, "cell %s: shared string index %q out of range", ref, cachedText)
			}
			value = xl.RichTextValue(sst[idx])
		case "b":
			value = xl.Bool(cachedText == "1" || cachedText == "true")
		case "e":
			value = xl.ErrorValue(xl.CellError(cachedText))
		case "str":
			value = xl.Text(cachedText)
		case "inlineStr":
			// handled via <is> above; nothing under <v> for this type.
		default:
			if hasCached {
				n, perr := strconv.ParseFloat(cachedText, 64)
				if perr != nil {
					return xlerr.NewParseError(location, "cell %s: invalid numeric value %q", ref, cachedText)
				}
				value = xl.NumberFromFloat(n)
			}
		}
	}

	n, err := (*sheet).Put(ref, value)
	if err != nil {
		return err
	}
	*sheet = n
	if styleID >= 0 && styleID < len(cellXfs) {
		n, err = (*sheet).WithCellStyle(ref, cellXfs[styleID])
		if err != nil {
			return err
		}
		*sheet = n
	}
	return nil
}

// ScanDimension is the metadata fast path's worksheet scan (spec.md §4.7):
// it decodes only as far as the <dimension> element (or <sheetData>,
// whichever comes first) instead of building a full *xl.Sheet, so reading
// every sheet's extent does not pay the cost of parsing every cell.
func ScanDimension(location string, raw []byte) (string, bool, error) {
	if err := rejectDoctype(location, raw); err != nil {
		return "", false, err
	}
	dec := newDecoder(raw)
	for {
		tok, err := dec.Token()
		if err != nil {
			return "", false, nil
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch se.Name.Local {
		case "dimension":
			return attrValue(se.Attr, "ref"), true, nil
		case "sheetData":
			return "", false, nil
		}
	}
}

// WorksheetBuildInput bundles the data BuildWorksheet needs beyond the
// *xl.Sheet itself: the already-resolved global style ids for the sheet's
// local style registry, and the SST lookup for string cells (nil disables
// shared strings and every string cell is written inline).
type WorksheetBuildInput struct {
	Sheet        *xl.Sheet
	StyleRemap   []int // local style id -> global cellXfs index
	SSTIndex     func(s string) (int, bool)
	UseInlineStr bool

	// LegacyDrawingRelID is the rId of this sheet's vmlDrawing relationship,
	// written as <legacyDrawing r:id="..."/> when non-empty (spec.md
	// §4.3.7: comments need their VML companion wired in).
	LegacyDrawingRelID string
}

// BuildWorksheet emits one worksheet part in the mandatory element order
// (spec.md §4.3.4): sheetPr, dimension, sheetViews, sheetFormatPr, cols,
// sheetData, mergeCells, conditionalFormatting, dataValidations,
// hyperlinks, printOptions, pageMargins, pageSetup, headerFooter,
// rowBreaks, colBreaks, tableParts.
func BuildWorksheet(backend xmlutil.Backend, in WorksheetBuildInput) ([]byte, error) {
	sheet := in.Sheet
	meta := sheet.Metadata()
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "worksheet", xmlutil.A("xmlns", nsMain), xmlutil.A("xmlns:r", nsRelationships))

		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.SheetPr }))

		e.StartElement("dimension")
		if rng, ok := sheet.Dimension(); ok {
			e.Attr("ref", rng.String())
		} else {
			e.Attr("ref", "A1")
		}
		e.EndElement()

		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.SheetViews }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.SheetFormatPr }))

		writeCols(e, sheet)
		writeSheetData(e, in)
		writeMergeCells(e, sheet)

		if meta != nil {
			for _, cf := range meta.ConditionalFormatting {
				writeRawElementValue(e, cf)
			}
		}

		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.DataValidations }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.Hyperlinks }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.PrintOptions }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.PageMargins }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.PageSetup }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.HeaderFooter }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.RowBreaks }))
		writeRawElement(e, metaOrNil(meta, func(m *xl.WorksheetMetadata) *xl.RawElement { return m.ColBreaks }))

		if in.LegacyDrawingRelID != "" {
			e.StartElement("legacyDrawing")
			e.Attr("r:id", in.LegacyDrawingRelID)
			e.EndElement()
		}

		if tables := sheet.Tables(); len(tables) > 0 {
			e.StartElement("tableParts")
			e.Attr("count", len(tables))
			for i := range tables {
				e.StartElement("tablePart")
				e.Attr("r:id", "rIdTable"+strconv.Itoa(i+1))
				e.EndElement()
			}
			e.EndElement()
		}

		e.EndElement() // worksheet
	})
}

func metaOrNil(m *xl.WorksheetMetadata, pick func(*xl.WorksheetMetadata) *xl.RawElement) *xl.RawElement {
	if m == nil {
		return nil
	}
	return pick(m)
}

func writeRawElement(e xmlutil.Emitter, el *xl.RawElement) {
	if el == nil {
		return
	}
	writeRawElementValue(e, *el)
}

// writeRawElementValue replays a captured element's opaque content via
// Raw: it is already-serialized XML, so escaping it again would corrupt
// it (spec.md §9 byte-faithful round-trip).
func writeRawElementValue(e xmlutil.Emitter, el xl.RawElement) {
	e.StartElement(el.Name)
	for k, v := range el.Attrs {
		e.Attr(k, v)
	}
	if len(el.Content) > 0 {
		e.Raw(string(el.Content))
	}
	e.EndElement()
}

func writeCols(e xmlutil.Emitter, sheet *xl.Sheet) {
	cols := sheet.ColumnNumbers()
	if len(cols) == 0 {
		return
	}
	sort.Ints(cols)
	e.StartElement("cols")
	i := 0
	for i < len(cols) {
		start := cols[i]
		p, _ := sheet.ColumnProperties(start)
		j := i + 1
		for j < len(cols) && cols[j] == cols[j-1]+1 {
			q, _ := sheet.ColumnProperties(cols[j])
			if q != p {
				break
			}
			j++
		}
		// min must precede max in attribute order (ECMA-376 ST_Cols).
		e.StartElement("col")
		e.Attr("min", start)
		e.Attr("max", cols[j-1])
		if p.Width > 0 {
			e.Attr("width", p.Width)
		}
		if p.CustomWidth {
			e.Attr("customWidth", true)
		}
		if p.Hidden {
			e.Attr("hidden", true)
		}
		if p.OutlineLevel > 0 {
			e.Attr("outlineLevel", p.OutlineLevel)
		}
		if p.Collapsed {
			e.Attr("collapsed", true)
		}
		e.EndElement()
		i = j
	}
	e.EndElement()
}

func writeSheetData(e xmlutil.Emitter, in WorksheetBuildInput) {
	sheet := in.Sheet
	rowSet := map[int]bool{}
	rowCells := map[int][]string{}
	for ref := range sheet.Cells() {
		a, err := aref.Parse(ref)
		if err != nil {
			continue
		}
		rowCells[a.Row] = append(rowCells[a.Row], ref)
		rowSet[a.Row] = true
	}
	for _, rn := range sheet.RowNumbers() {
		rowSet[rn] = true
	}
	// Mirrors the teacher's enumerate() sorted-map-iteration helper
	// (maps.Keys + slices.Sort) rather than the manual collect-then-
	// sort.Ints done elsewhere in this file.
	rowNums := maps.Keys(rowSet)
	slices.Sort(rowNums)

	e.StartElement("sheetData")
	for _, rn := range rowNums {
		refs := rowCells[rn]
		sort.Slice(refs, func(i, j int) bool {
			a, _ := aref.Parse(refs[i])
			b, _ := aref.Parse(refs[j])
			return a.Col < b.Col
		})
		rp, hasProps := sheet.RowProperties(rn)
		if len(refs) == 0 && !hasProps {
			continue
		}
		e.StartElement("row")
		e.Attr("r", rn)
		if hasProps {
			if rp.Spans != "" {
				e.Attr("spans", rp.Spans)
			}
			if rp.HasStyleID {
				e.Attr("s", rp.StyleID)
				e.Attr("customFormat", true)
			}
			if rp.CustomHeight {
				e.Attr("ht", rp.Height)
				e.Attr("customHeight", true)
			}
			if rp.Hidden {
				e.Attr("hidden", true)
			}
			if rp.OutlineLevel > 0 {
				e.Attr("outlineLevel", rp.OutlineLevel)
			}
			if rp.Collapsed {
				e.Attr("collapsed", true)
			}
			if rp.ThickBot {
				e.Attr("thickBot", true)
			}
			if rp.HasDyDescent {
				e.Attr("x14ac:dyDescent", rp.DyDescent)
			}
		}
		for _, ref := range refs {
			writeCell(e, in, ref)
		}
		e.EndElement() // row
	}
	e.EndElement() // sheetData
}

func writeCell(e xmlutil.Emitter, in WorksheetBuildInput, ref string) {
	sheet := in.Sheet
	cell, _ := sheet.Cell(ref)
	e.StartElement("c")
	e.Attr("r", ref)
	if cell.StyleID != xl.NoStyle && cell.StyleID < len(in.StyleRemap) {
		e.Attr("s", in.StyleRemap[cell.StyleID])
	}

	v := cell.Value
	switch v.Kind {
	case xl.KindEmpty:
	case xl.KindText:
		writeStringCell(e, in, v.Text)
	case xl.KindRichText:
		if v.Rich.IsPlain() {
			writeStringCell(e, in, v.Rich.ToPlainText())
		} else {
			e.Attr("t", "inlineStr")
			e.StartElement("is")
			for _, run := range v.Rich.Runs {
				e.StartElement("r")
				writeRunRPr(e, run)
				writeTextElem(e, run.Text)
				e.EndElement()
			}
			e.EndElement() // is
		}
	case xl.KindNumber:
		e.StartElement("v")
		e.Text(v.Number.String())
		e.EndElement()
	case xl.KindBool:
		e.Attr("t", "b")
		e.StartElement("v")
		e.Text(boolDigit(v.Bool))
		e.EndElement()
	case xl.KindDateTime:
		e.StartElement("v")
		e.Text(xl.NumberFromFloat(xl.ToSerial(v.DateTime)).Number.String())
		e.EndElement()
	case xl.KindError:
		e.Attr("t", "e")
		e.StartElement("v")
		e.Text(string(v.Error))
		e.EndElement()
	case xl.KindFormula:
		// The t attribute (if any) must be written before any child
		// element is started: the streaming backend flushes <c>'s start
		// tag as soon as <f> opens, so an Attr call after that point
		// fails. No t attribute when there is no cached value (spec.md
		// §4.3.4, scenario 2): emitting t="str" without one triggers the
		// repair dialog.
		if v.CachedValue != nil {
			switch v.CachedValue.Kind {
			case xl.KindText:
				e.Attr("t", "str")
			case xl.KindBool:
				e.Attr("t", "b")
			case xl.KindError:
				e.Attr("t", "e")
			}
		}
		e.StartElement("f")
		e.Text(v.Formula)
		e.EndElement()
		if v.CachedValue != nil {
			switch v.CachedValue.Kind {
			case xl.KindNumber:
				e.StartElement("v")
				e.Text(v.CachedValue.Number.String())
				e.EndElement()
			case xl.KindText:
				e.StartElement("v")
				e.Text(v.CachedValue.Text)
				e.EndElement()
			case xl.KindBool:
				e.StartElement("v")
				e.Text(boolDigit(v.CachedValue.Bool))
				e.EndElement()
			case xl.KindError:
				e.StartElement("v")
				e.Text(string(v.CachedValue.Error))
				e.EndElement()
			}
		}
	}
	e.EndElement() // c
}

func writeRunRPr(e xmlutil.Emitter, run xl.TextRun) {
	if len(run.RawRPrXML) > 0 {
		e.StartElement("rPr")
		e.Raw(string(run.RawRPrXML))
		e.EndElement()
		return
	}
	if run.Font != nil && !run.Font.IsDefault() {
		e.StartElement("rPr")
		writeFontBody(e, *run.Font)
		e.EndElement()
	}
}

func writeStringCell(e xmlutil.Emitter, in WorksheetBuildInput, s string) {
	if !in.UseInlineStr && in.SSTIndex != nil {
		if idx, ok := in.SSTIndex(s); ok {
			e.Attr("t", "s")
			e.StartElement("v")
			e.Text(strconv.Itoa(idx))
			e.EndElement()
			return
		}
	}
	e.Attr("t", "inlineStr")
	e.StartElement("is")
	writeTextElem(e, s)
	e.EndElement()
}

func boolDigit(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func writeMergeCells(e xmlutil.Emitter, sheet *xl.Sheet) {
	merges := sheet.Merges()
	if len(merges) == 0 {
		return
	}
	e.StartElement("mergeCells")
	e.Attr("count", len(merges))
	for _, m := range merges {
		e.StartElement("mergeCell")
		e.Attr("ref", m.String())
		e.EndElement()
	}
	e.EndElement()
}
