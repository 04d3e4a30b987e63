// Package ooxml implements the per-part parsers (spec.md §4.3): Content-
// Types, Relationships, Workbook, Worksheet, Styles, SharedStrings,
// Comments, Tables, VML. Each returns a typed value or a *xlerr.ParseError
// naming the offending part, and preserves unrecognized attributes and
// child elements as opaque residue for byte-faithful round-trip (spec.md
// §9), grounded on the struct-tag parsing style of the vendored
// tealeg/xlsx package found in the retrieval pack.
package ooxml

import (
	"bytes"
	"encoding/xml"
	"strings"

	"github.com/gosheetkit/xlcore/xl"
	"github.com/gosheetkit/xlcore/xlerr"
)

// rejectDoctype scans raw for a <!DOCTYPE declaration before any decoding
// happens, so XXE payloads never reach encoding/xml (spec.md §4.3: "Reject
// any document declaring a <!DOCTYPE> ... XML parse" in the message).
func rejectDoctype(location string, raw []byte) error {
	if bytes.Contains(raw, []byte("<!DOCTYPE")) {
		return xlerr.NewParseError(location, "XML parse: document declares a disallowed <!DOCTYPE>")
	}
	return nil
}

// newDecoder returns a decoder that never fetches external entities or
// resolves a DTD, in addition to the doctype rejection in rejectDoctype.
func newDecoder(raw []byte) *xml.Decoder {
	dec := xml.NewDecoder(bytes.NewReader(raw))
	dec.Strict = true
	dec.Entity = map[string]string{}
	return dec
}

// attrMap splits a start element's attributes into a known/unknown pair:
// known names (matched case-sensitively against keep, by local name with
// optional colon-prefix) are returned in values, everything else becomes
// other (the record's otherAttrs).
func attrMap(attrs []xml.Attr, keep map[string]bool) (values map[string]string, other map[string]string) {
	values = make(map[string]string, len(attrs))
	other = map[string]string{}
	for _, a := range attrs {
		name := qualifiedName(a.Name)
		if keep[name] {
			values[name] = a.Value
		} else {
			other[name] = a.Value
		}
	}
	return values, other
}

// qualifiedName renders an xml.Name the way it appeared in source: prefix
// preserved when the decoder resolved it to a namespace, local name
// otherwise. OOXML parts never rely on semantic namespace resolution
// beyond prefix preservation (r:, mc:, x14ac:, xr:), so this is a textual
// reconstruction, not a true QName.
func qualifiedName(n xml.Name) string {
	switch n.Space {
	case "":
		return n.Local
	case "xmlns":
		return "xmlns:" + n.Local
	case nsRelationships:
		return "r:" + n.Local
	case nsMC:
		return "mc:" + n.Local
	case nsX14ac:
		return "x14ac:" + n.Local
	case nsXr:
		return "xr:" + n.Local
	case nsXr6:
		return "xr6:" + n.Local
	case nsXr10:
		return "xr10:" + n.Local
	case nsX15:
		return "x15:" + n.Local
	default:
		if i := strings.LastIndexByte(n.Space, '/'); i >= 0 {
			return n.Space[i+1:] + ":" + n.Local
		}
		return n.Local
	}
}

const (
	nsMain          = "http://schemas.openxmlformats.org/spreadsheetml/2006/main"
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsPackageRels   = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsMC            = "http://schemas.openxmlformats.org/markup-compatibility/2006"
	nsX14ac         = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/ac"
	nsXr            = "http://schemas.microsoft.com/office/spreadsheetml/2014/revision"
	nsXr6           = "http://schemas.microsoft.com/office/spreadsheetml/2016/revision6"
	nsXr10          = "http://schemas.microsoft.com/office/spreadsheetml/2016/revision10"
	nsX15           = "http://schemas.microsoft.com/office/spreadsheetml/2010/11/main"
	nsX14           = "http://schemas.microsoft.com/office/spreadsheetml/2009/9/main"
)

// captureInnerXML returns the verbatim inner content of the element whose
// StartElement token was just consumed, i.e. everything between the open
// tag's '>' and the matching close tag's '<'. Used to preserve source-only
// worksheet metadata blobs byte-for-byte (spec.md §4.3.4).
func captureInnerXML(dec *xml.Decoder, raw []byte) ([]byte, error) {
	start := dec.InputOffset()
	depth := 1
	for {
		preTok := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		switch tok.(type) {
		case xml.StartElement:
			depth++
		case xml.EndElement:
			depth--
			if depth == 0 {
				return append([]byte(nil), raw[start:preTok]...), nil
			}
		}
	}
}

// childResidue walks the children of the element the decoder just opened
// (dec positioned right after its StartElement token), capturing every
// child whose local name is not in knownTags as an ordered xl.RawElement
// with verbatim inner content, until the matching EndElement. It returns
// once the parent closes.
func childResidue(dec *xml.Decoder, raw []byte, knownTags map[string]bool, onKnown func(xml.StartElement) error) ([]xl.RawElement, error) {
	var residue []xl.RawElement
	for {
		startOffset := dec.InputOffset()
		tok, err := dec.Token()
		if err != nil {
			return residue, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return residue, nil
		case xml.StartElement:
			local := t.Name.Local
			if knownTags[local] {
				if onKnown != nil {
					if err := onKnown(t); err != nil {
						return residue, err
					}
				} else if err := dec.Skip(); err != nil {
					return residue, err
				}
				continue
			}
			if err := dec.Skip(); err != nil {
				return residue, err
			}
			endOffset := dec.InputOffset()
			_, other := attrMap(t.Attr, map[string]bool{})
			residue = append(residue, xl.RawElement{
				Name:    local,
				Attrs:   other,
				Content: append([]byte(nil), raw[startOffset:endOffset]...),
			})
		}
	}
}
