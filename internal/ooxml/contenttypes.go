package ooxml

import (
	"encoding/xml"
	"strconv"

	"github.com/gosheetkit/xlcore/internal/xmlutil"
	"github.com/gosheetkit/xlcore/xlerr"
)

// ContentTypes is the parsed form of [Content_Types].xml (spec.md §4.3.1).
type ContentTypes struct {
	Defaults  map[string]string // extension -> mime
	Overrides map[string]string // part name -> mime
}

// ParseContentTypes parses [Content_Types].xml.
func ParseContentTypes(raw []byte) (*ContentTypes, error) {
	const location = "[Content_Types].xml"
	if err := rejectDoctype(location, raw); err != nil {
		return nil, err
	}
	ct := &ContentTypes{Defaults: map[string]string{}, Overrides: map[string]string{}}
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
		case "Default":
			var ext, ctype string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "Extension":
					ext = a.Value
				case "ContentType":
					ctype = a.Value
				}
			}
			ct.Defaults[ext] = ctype
		case "Override":
			var part, ctype string
			for _, a := range se.Attr {
				switch a.Name.Local {
				case "PartName":
					part = a.Value
				case "ContentType":
					ctype = a.Value
				}
			}
			ct.Overrides[part] = ctype
		}
	}
	if len(ct.Defaults) == 0 && len(ct.Overrides) == 0 {
		return nil, xlerr.NewParseError(location, "no Default or Override entries found")
	}
	return ct, nil
}

// ContentTypesBuildInput is the information the writer supplies to
// regenerate [Content_Types].xml from the domain model (spec.md §4.3.1).
// Part names are supplied explicitly, rather than derived from a count,
// so a surgical write can list a mix of freshly-generated and
// verbatim-preserved-from-source part names (spec.md §4.6).
type ContentTypesBuildInput struct {
	SheetPartNames    []string // archive-absolute, e.g. "/xl/worksheets/sheet1.xml"
	HasStyles         bool
	HasSharedStrings  bool
	CommentsPartNames []string
	VMLPartNames      []string
	TablePartNames    []string
}

// BuildContentTypes emits [Content_Types].xml for in.
func BuildContentTypes(backend xmlutil.Backend, in ContentTypesBuildInput) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "Types", xmlutil.A("xmlns", nsContentTypes))

		xmlutil.WithAttributes(e, "Default", xmlutil.A("Extension", "rels"), xmlutil.A("ContentType", "application/vnd.openxmlformats-package.relationships+xml"))
		e.EndElement()
		xmlutil.WithAttributes(e, "Default", xmlutil.A("Extension", "xml"), xmlutil.A("ContentType", "application/xml"))
		e.EndElement()

		override := func(part, ctype string) {
			xmlutil.WithAttributes(e, "Override", xmlutil.A("PartName", part), xmlutil.A("ContentType", ctype))
			e.EndElement()
		}

		override("/xl/workbook.xml", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet.main+xml")
		override("/docProps/core.xml", "application/vnd.openxmlformats-package.core-properties+xml")
		override("/docProps/app.xml", "application/vnd.openxmlformats-officedocument.extended-properties+xml")

		for _, name := range in.SheetPartNames {
			override(archiveAbsolute(name), "application/vnd.openxmlformats-officedocument.spreadsheetml.worksheet+xml")
		}
		if in.HasStyles {
			override("/xl/styles.xml", "application/vnd.openxmlformats-officedocument.spreadsheetml.styles+xml")
		}
		if in.HasSharedStrings {
			override("/xl/sharedStrings.xml", "application/vnd.openxmlformats-officedocument.spreadsheetml.sharedStrings+xml")
		}
		for _, name := range in.CommentsPartNames {
			override(archiveAbsolute(name), "application/vnd.openxmlformats-officedocument.spreadsheetml.comments+xml")
		}
		for _, name := range in.VMLPartNames {
			override(archiveAbsolute(name), "application/vnd.openxmlformats-officedocument.vmlDrawing")
		}
		for _, name := range in.TablePartNames {
			override(archiveAbsolute(name), "application/vnd.openxmlformats-officedocument.spreadsheetml.table+xml")
		}

		e.EndElement() // Types
	})
}

// archiveAbsolute prefixes a zip-entry-relative part name ("xl/...") with
// the leading "/" [Content_Types].xml's PartName attribute requires.
func archiveAbsolute(name string) string {
	if len(name) > 0 && name[0] == '/' {
		return name
	}
	return "/" + name
}

// SheetPartName, CommentsPartName, VMLPartName and TablePartName are the
// sequential naming convention a fresh (full-regeneration) write assigns;
// a surgical write reuses these for newly-introduced sheets/sidecars while
// keeping a preserved sheet's original manifest name (spec.md §4.6).
func SheetPartName(i int) string    { return "xl/worksheets/sheet" + strconv.Itoa(i) + ".xml" }
func CommentsPartName(i int) string { return "xl/comments" + strconv.Itoa(i) + ".xml" }
func VMLPartName(i int) string      { return "xl/drawings/vmlDrawing" + strconv.Itoa(i) + ".vml" }
func TablePartName(n int) string    { return "xl/tables/table" + strconv.Itoa(n) + ".xml" }
