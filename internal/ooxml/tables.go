package ooxml

import (
	"encoding/xml"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xl"
)

// ParseTable parses one xl/tables/table<n>.xml part into an xl.TableSpec
// (spec.md §4.3.8), preserving unrecognized attributes/children verbatim
// so a surgical write of an untouched table round-trips byte-faithfully.
func ParseTable(location string, raw []byte) (xl.TableSpec, error) {
	var t xl.TableSpec
	if err := rejectDoctype(location, raw); err != nil {
		return t, err
	}
	dec := newDecoder(raw)
	known := map[string]bool{
		"id": true, "name": true, "displayName": true, "ref": true,
		"headerRowCount": true, "totalsRowCount": true, "totalsRowShown": true,
	}
	for {
		tok, err := dec.Token()
		if err != nil {
			return t, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if se.Name.Local != "table" {
			continue
		}
		values, other := attrMap(se.Attr, known)
		t.ID = atoiSafe(values["id"])
		t.Name = values["name"]
		t.DisplayName = values["displayName"]
		t.Ref = values["ref"]
		t.HeaderRowCount = headerRowCountOr1(values["headerRowCount"])
		t.TotalsRowCount = atoiSafe(values["totalsRowCount"])
		t.TotalsRowShown = values["totalsRowShown"] != "0" && values["totalsRowShown"] != "false"
		t.OtherAttrs = other

		err = walkChildren(dec, "table", func(c xml.StartElement) error {
			switch c.Name.Local {
			case "tableColumns":
				return walkChildren(dec, "tableColumns", func(cc xml.StartElement) error {
					if cc.Name.Local != "tableColumn" {
						return dec.Skip()
					}
					col, err := parseTableColumn(dec, raw, cc)
					if err != nil {
						return err
					}
					t.Columns = append(t.Columns, col)
					return nil
				})
			case "autoFilter":
				av, _ := attrMap(c.Attr, map[string]bool{"ref": true})
				t.AutoFilter = &xl.AutoFilterSpec{Ref: av["ref"]}
				content, err := captureInnerXML(dec, raw)
				if err != nil {
					return err
				}
				t.AutoFilterUID = findUIDAttr(content)
				return nil
			case "tableStyleInfo":
				sv, _ := attrMap(c.Attr, map[string]bool{
					"name": true, "showFirstColumn": true, "showLastColumn": true,
					"showRowStripes": true, "showColumnStripes": true,
				})
				t.StyleInfo = &xl.TableStyleInfo{
					Name:              sv["name"],
					ShowFirstColumn:   sv["showFirstColumn"] == "1",
					ShowLastColumn:    sv["showLastColumn"] == "1",
					ShowRowStripes:    sv["showRowStripes"] == "1",
					ShowColumnStripes: sv["showColumnStripes"] == "1",
				}
				return dec.Skip()
			case "extLst":
				t.TableUID = extractTableUIDFromExtLst(dec, raw, c)
				return nil
			default:
				content, err := captureInnerXML(dec, raw)
				if err != nil {
					return err
				}
				_, co := attrMap(c.Attr, map[string]bool{})
				t.OtherChildren = append(t.OtherChildren, xl.RawElement{Name: c.Name.Local, Attrs: co, Content: content})
				return nil
			}
		})
		return t, err
	}
}

func headerRowCountOr1(s string) int {
	if s == "" {
		return 1
	}
	return atoiSafe(s)
}

func parseTableColumn(dec *xml.Decoder, raw []byte, se xml.StartElement) (xl.TableColumn, error) {
	known := map[string]bool{"id": true, "name": true}
	values, other := attrMap(se.Attr, known)
	col := xl.TableColumn{
		ID:         atoiSafe(values["id"]),
		Name:       values["name"],
		OtherAttrs: other,
	}
	err := walkChildren(dec, "tableColumn", func(c xml.StartElement) error {
		content, err := captureInnerXML(dec, raw)
		if err != nil {
			return err
		}
		_, co := attrMap(c.Attr, map[string]bool{})
		col.OtherChildren = append(col.OtherChildren, xl.RawElement{Name: c.Name.Local, Attrs: co, Content: content})
		return nil
	})
	return col, err
}

func extractTableUIDFromExtLst(dec *xml.Decoder, raw []byte, se xml.StartElement) string {
	content, err := captureInnerXML(dec, raw)
	if err != nil {
		return ""
	}
	return findUIDAttr(content)
}

// findUIDAttr scans a captured extLst blob for a uid="..." attribute. The
// table UID lives on the <x14:table> element inside one of extLst's <ext>
// children; a byte scan avoids standing up a full nested-namespace parser
// for a single attribute this package only needs to replay verbatim.
func findUIDAttr(content []byte) string {
	const needle = `uid="`
	s := string(content)
	idx := indexOf(s, needle)
	if idx < 0 {
		return ""
	}
	rest := s[idx+len(needle):]
	end := indexOfByte(rest, '"')
	if end < 0 {
		return ""
	}
	return rest[:end]
}

func indexOf(s, sub string) int {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return i
		}
	}
	return -1
}

func indexOfByte(s string, b byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == b {
			return i
		}
	}
	return -1
}

// BuildTable emits one xl/tables/table<n>.xml part from t.
func BuildTable(backend xmlutil.Backend, t xl.TableSpec) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "table",
			xmlutil.A("xmlns", nsMain),
			xmlutil.A("id", t.ID),
			xmlutil.A("name", t.Name),
			xmlutil.A("displayName", t.DisplayName),
			xmlutil.A("ref", t.Ref),
		)
		if t.HeaderRowCount != 1 {
			e.Attr("headerRowCount", t.HeaderRowCount)
		}
		if t.TotalsRowCount != 0 {
			e.Attr("totalsRowCount", t.TotalsRowCount)
		}
		if t.TotalsRowShown {
			e.Attr("totalsRowShown", 1)
		} else {
			e.Attr("totalsRowShown", 0)
		}
		for k, v := range t.OtherAttrs {
			e.Attr(k, v)
		}

		if t.AutoFilter != nil {
			xmlutil.WithAttributes(e, "autoFilter", xmlutil.A("ref", t.AutoFilter.Ref))
			if t.AutoFilterUID != "" {
				writeExtLstUID(e, "x14:id", t.AutoFilterUID, "{A7586E0C-F502-4D2A-AF86-1DFC1A9E6E7C}")
			}
			e.EndElement()
		}

		e.StartElement("tableColumns")
		e.Attr("count", len(t.Columns))
		for _, c := range t.Columns {
			xmlutil.WithAttributes(e, "tableColumn", xmlutil.A("id", c.ID), xmlutil.A("name", c.Name))
			for k, v := range c.OtherAttrs {
				e.Attr(k, v)
			}
			for _, child := range c.OtherChildren {
				writeRawElementValue(e, child)
			}
			e.EndElement()
		}
		e.EndElement() // tableColumns

		if t.StyleInfo != nil {
			xmlutil.WithAttributes(e, "tableStyleInfo", xmlutil.A("name", t.StyleInfo.Name))
			e.Attr("showFirstColumn", boolAttr(t.StyleInfo.ShowFirstColumn))
			e.Attr("showLastColumn", boolAttr(t.StyleInfo.ShowLastColumn))
			e.Attr("showRowStripes", boolAttr(t.StyleInfo.ShowRowStripes))
			e.Attr("showColumnStripes", boolAttr(t.StyleInfo.ShowColumnStripes))
			e.EndElement()
		}

		for _, child := range t.OtherChildren {
			writeRawElementValue(e, child)
		}

		if t.TableUID != "" {
			writeExtLstUID(e, "x14:table", t.TableUID, "{7E03D99C-DC04-49D9-9315-930204AD39C0}")
		}

		e.EndElement() // table
	})
}

// writeExtLstUID emits the Excel x14 extLst wrapper Excel expects around a
// bare stable-UID extension: <extLst><ext uri="..."><x14:NAME uid="..."/>
// </ext></extLst>. uri is the vendor extension GUID both Excel and the
// x14 schema associate with this particular extension element.
func writeExtLstUID(e xmlutil.Emitter, name, uid, uri string) {
	e.StartElement("extLst")
	xmlutil.WithAttributes(e, "ext", xmlutil.A("uri", uri), xmlutil.A("xmlns:x14", nsX14))
	xmlutil.WithAttributes(e, name, xmlutil.A("uid", uid))
	e.EndElement() // x14:NAME
	e.EndElement() // ext
	e.EndElement() // extLst
}

func boolAttr(b bool) int {
	if b {
		return 1
	}
	return 0
}
