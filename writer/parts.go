package writer

import (
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/gosheetkit/xlcore/internal/ooxml"
	"github.com/gosheetkit/xlcore/internal/xmlutil"
)

// buildCoreProperties emits docProps/core.xml. Creation/modification
// timestamps are fixed (epoch) rather than wall-clock, so two writes of an
// unchanged workbook produce byte-identical output (spec.md §5 determinism
// invariant).
func buildCoreProperties(backend xmlutil.Backend) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "cp:coreProperties",
			xmlutil.A("xmlns:cp", "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"),
			xmlutil.A("xmlns:dc", "http://purl.org/dc/elements/1.1/"),
			xmlutil.A("xmlns:dcterms", "http://purl.org/dc/terms/"),
			xmlutil.A("xmlns:dcmitype", "http://purl.org/dc/dcmitype/"),
			xmlutil.A("xmlns:xsi", "http://www.w3.org/2001/XMLSchema-instance"),
		)
		xmlutil.WithAttributes(e, "dcterms:created", xmlutil.A("xsi:type", "dcterms:W3CDTF"))
		e.Text(epochStamp)
		e.EndElement()
		xmlutil.WithAttributes(e, "dcterms:modified", xmlutil.A("xsi:type", "dcterms:W3CDTF"))
		e.Text(epochStamp)
		e.EndElement()
		e.EndElement()
	})
}

// epochStamp is the fixed creation/modification timestamp this writer
// emits in docProps/core.xml.
const epochStamp = "1980-01-01T00:00:00Z"

// buildExtendedProperties emits docProps/app.xml. TitlesOfParts lists each
// sheet name in order, matching how a genuine Excel-authored package
// enumerates them (spec.md §9 round-trip expectations for consumer tools
// that read this part).
func buildExtendedProperties(backend xmlutil.Backend, sheetNames []string) ([]byte, error) {
	return xmlutil.BuildPart(backend, func(e xmlutil.Emitter) {
		xmlutil.WithAttributes(e, "Properties",
			xmlutil.A("xmlns", "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"),
			xmlutil.A("xmlns:vt", "http://schemas.openxmlformats.org/officeDocument/2006/docPropsVTypes"),
		)
		e.StartElement("Application")
		e.Text("gosheetkit/xlcore")
		e.EndElement()
		e.StartElement("HeadingPairs")
		e.StartElement("vt:vector")
		e.Attr("size", 2)
		e.Attr("baseType", "variant")
		e.StartElement("vt:variant")
		e.StartElement("vt:lpstr")
		e.Text("Worksheets")
		e.EndElement()
		e.EndElement()
		e.StartElement("vt:variant")
		e.StartElement("vt:i4")
		e.Text(strconv.Itoa(len(sheetNames)))
		e.EndElement()
		e.EndElement()
		e.EndElement()
		e.EndElement()
		e.StartElement("TitlesOfParts")
		xmlutil.WithAttributes(e, "vt:vector", xmlutil.A("size", len(sheetNames)), xmlutil.A("baseType", "lpstr"))
		for _, name := range sheetNames {
			e.StartElement("vt:lpstr")
			e.Text(name)
			e.EndElement()
		}
		e.EndElement()
		e.EndElement()
		e.EndElement()
	})
}

// buildRootRels emits _rels/.rels, the package-level relationship part
// that points at the workbook and the two docProps parts.
func buildRootRels(backend xmlutil.Backend) ([]byte, error) {
	return ooxml.BuildRelationships(backend, []ooxml.Relationship{
		{ID: "rId1", Type: relTypeOfficeDocument, Target: "xl/workbook.xml"},
		{ID: "rId2", Type: relTypeCoreProps, Target: "docProps/core.xml"},
		{ID: "rId3", Type: relTypeExtendedProps, Target: "docProps/app.xml"},
	})
}

// sheetPartName returns the archive path of a worksheet part numbered n
// (1-based), e.g. sheetPartName(1) -> "xl/worksheets/sheet1.xml".
func sheetPartName(n int) string {
	return "xl/worksheets/sheet" + strconv.Itoa(n) + ".xml"
}

func commentsPartName(n int) string {
	return "xl/comments" + strconv.Itoa(n) + ".xml"
}

func vmlPartName(n int) string {
	return "xl/drawings/vmlDrawing" + strconv.Itoa(n) + ".vml"
}

func tablePartName(n int) string {
	return "xl/tables/table" + strconv.Itoa(n) + ".xml"
}

func sheetRelsPartName(n int) string {
	return "xl/worksheets/_rels/sheet" + strconv.Itoa(n) + ".xml.rels"
}

var sheetNumberRe = regexp.MustCompile(`sheet(\d+)\.xml$`)
var commentsNumberRe = regexp.MustCompile(`comments(\d+)\.xml$`)
var vmlNumberRe = regexp.MustCompile(`vmlDrawing(\d+)\.vml$`)
var tableNumberRe = regexp.MustCompile(`table(\d+)\.xml$`)

// extractNumber pulls the trailing numeric id matched by re out of name,
// returning 0 if it doesn't match.
func extractNumber(re *regexp.Regexp, name string) int {
	m := re.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

// maxNumber returns the highest numeric id extracted from names by re, so a
// writer minting fresh parts can continue numbering above whatever the
// source package already used.
func maxNumber(re *regexp.Regexp, names []string) int {
	max := 0
	for _, n := range names {
		if v := extractNumber(re, path.Base(n)); v > max {
			max = v
		}
	}
	return max
}

// stringsSorted returns a sorted copy of keys -- used anywhere map
// iteration needs a deterministic order before emission.
func stringsSorted(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
