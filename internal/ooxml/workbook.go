package ooxml

import (
	"encoding/xml"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xlerr"
)

// SheetRef is one <sheet> entry from workbook.xml (spec.md §4.3.3).
type SheetRef struct {
	Name    string
	SheetID int
	RelID   string
	State   string // "visible" (implicit), "hidden", "veryHidden"
}

// DefinedNameXML is one <definedName> entry.
type DefinedNameXML struct {
	Name            string
	RefersTo        string
	LocalSheetID    int
	HasLocalSheetID bool
	Hidden          bool
}

// WorkbookXML is the parsed form of xl/workbook.xml. RootAttrs preserves
// every attribute seen on the root element verbatim (including every
// xmlns:* declaration and mc:Ignorable) so the writer can re-emit the
// exact set the source had -- spec.md §4.3.3 calls a missing
// mc:Ignorable "Excel's primary corruption trigger".
type WorkbookXML struct {
	Sheets       []SheetRef
	DefinedNames []DefinedNameXML
	RootAttrs    []xml.Attr
}

// ParseWorkbook parses xl/workbook.xml.
func ParseWorkbook(raw []byte) (*WorkbookXML, error) {
	const location = "xl/workbook.xml"
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	dec := newDecoder(raw)
	wb := &WorkbookXML{}
	sawSheets := false
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
		case "workbook":
			wb.RootAttrs = append([]xml.Attr(nil), se.Attr...)
		case "sheets":
			sawSheets = true
			if err := parseSheets(dec, wb); err != nil {
				return nil, err
			}
		case "definedNames":
			if err := parseDefinedNames(dec, wb); err != nil {
				return nil, err
			}
		}
	}
	if !sawSheets {
		return nil, xlerr.NewParseError(location, "missing required child element: sheets")
	}
	return wb, nil
}

func parseSheets(dec *xml.Decoder, wb *WorkbookXML) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "sheets" {
				return nil
			}
		case xml.StartElement:
			if t.Name.Local != "sheet" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			var ref SheetRef
			ref.State = "visible"
			for _, a := range t.Attr {
				switch a.Name.Local {
				case "name":
					ref.Name = a.Value
				case "sheetId":
					ref.SheetID = atoiSafe(a.Value)
				case "id":
					ref.RelID = a.Value
				case "state":
					ref.State = a.Value
				}
			}
			wb.Sheets = append(wb.Sheets, ref)
			if err := dec.Skip(); err != nil {
				return err
			}
		}
	}
}

func parseDefinedNames(dec *xml.Decoder, wb *WorkbookXML) error {
	for {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			if t.Name.Local == "definedNames" {
				return nil
			}
		case xml.StartElement:
			if t.Name.Local != "definedName" {
				if err := dec.Skip(); err != nil {
					return err
				}
				continue
			}
			var dn DefinedNameXML
			for _, a := range t.Attr {
				switch a.Name.Local {
				case "name":
					dn.Name = a.Value
				case "localSheetId":
					dn.LocalSheetID = atoiSafe(a.Value)
					dn.HasLocalSheetID = true
				case "hidden":
					dn.Hidden = a.Value == "1" || a.Value == "true"
				}
			}
			text, err := readCharData(dec, "definedName")
			if err != nil {
				return err
			}
			dn.RefersTo = text
			wb.DefinedNames = append(wb.DefinedNames, dn)
		}
	}
}

// readCharData consumes tokens until the matching end element named local,
// concatenating any character data seen directly under it.
func readCharData(dec *xml.Decoder, local string) (string, error) {
	var text string
	for {
		tok, err := dec.Token()
		if err != nil {
			return text, err
		}
		switch t := tok.(type) {
		case xml.CharData:
			text += string(t)
		case xml.EndElement:
			if t.Name.Local == local {
				return text, nil
			}
		case xml.StartElement:
			if err := dec.Skip(); err != nil {
				return text, err
			}
		}
	}
}

func atoiSafe(s string) int {
	n := 0
	neg := false
	for i, r := range s {
		if i == 0 && r == '-' {
			neg = true
			continue
		}
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	if neg {
		n = -n
	}
	return n
}

// WorkbookBuildInput is what the writer supplies to regenerate
// workbook.xml.
type WorkbookBuildInput struct {
	Sheets         []SheetRef
	DefinedNames   []DefinedNameXML
	SourceRootAttr []xml.Attr // nil when the workbook has no source (spec.md §4.6 "conservative baseline")
}

// BuildWorkbook emits xl/workbook.xml. When SourceRootAttr is non-nil its
// namespace declarations and mc:Ignorable are replayed verbatim; otherwise
// a minimal baseline (just the two required namespaces) is emitted.
func BuildWorkbook(backend xmlutil.Backend, in WorkbookBuildInput) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		e.StartElement("workbook")
		if len(in.SourceRootAttr) > 0 {
			for _, a := range in.SourceRootAttr {
				e.Attr(qualifiedName(a.Name), a.Value)
			}
		} else {
			e.Attr("xmlns", nsMain)
			e.Attr("xmlns:r", nsRelationships)
		}

		e.StartElement("sheets")
		for _, s := range in.Sheets {
			e.StartElement("sheet")
			e.Attr("name", s.Name)
			e.Attr("sheetId", s.SheetID)
			if s.State != "" && s.State != "visible" {
				e.Attr("state", s.State)
			}
			e.Attr("r:id", s.RelID)
			e.EndElement()
		}
		e.EndElement() // sheets

		if len(in.DefinedNames) > 0 {
			e.StartElement("definedNames")
			for _, d := range in.DefinedNames {
				e.StartElement("definedName")
				e.Attr("name", d.Name)
				if d.HasLocalSheetID {
					e.Attr("localSheetId", d.LocalSheetID)
				}
				if d.Hidden {
					e.Attr("hidden", true)
				}
				e.Text(d.RefersTo)
				e.EndElement()
			}
			e.EndElement()
		}

		e.EndElement() // workbook
	})
}
