package reader

import (
	"crypto/sha256"
	"os"
	"path"
	"strings"

	"github.com/gosheetkit/xlcore/internal/manifest"
	"github.com/gosheetkit/xlcore/internal/ooxml"
	"github.com/gosheetkit/xlcore/internal/zipio"
	"github.com/gosheetkit/xlcore/modtrack"
	"github.com/gosheetkit/xlcore/xl"
	"github.com/gosheetkit/xlcore/xlerr"
)

const (
	relTypeWorksheet     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relSuffixComments    = "/comments"
	relSuffixVMLDrawing  = "/vmlDrawing"
	relSuffixTable       = "/table"
)

// Warning is a non-fatal condition noticed while loading (spec.md §7: "a
// missing xl/styles.xml is a warning, not an error").
type Warning struct {
	Code    string
	Message string
}

// WarningMissingStylesXml fires when xl/styles.xml is absent from the
// archive; Load substitutes a single default cell style and continues.
const WarningMissingStylesXml = "MissingStylesXml"

// Load reads srcPath from disk and parses it into a Workbook whose
// SourceContext carries everything a later Write needs to consider a
// verbatim or surgical strategy.
func Load(srcPath string, cfg Config) (*xl.Workbook, []Warning, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, nil, xlerr.NewIOError("reading source file", err)
	}
	return LoadBytes(data, srcPath, cfg)
}

// LoadBytes parses an in-memory xlsx package. sourcePath is recorded on the
// resulting SourceContext (used to reopen the file for a verbatim or
// hybrid write) but is not itself read here.
func LoadBytes(data []byte, sourcePath string, cfg Config) (*xl.Workbook, []Warning, error) {
	zr, err := zipio.Open(data, cfg.Limits)
	if err != nil {
		return nil, nil, err
	}

	const workbookPart = "xl/workbook.xml"
	if !zr.Has(workbookPart) {
		return nil, nil, xlerr.NewParseError(workbookPart, "required part is missing from the archive")
	}

	man := manifest.New()
	for _, e := range zr.Entries() {
		man.Add(manifest.Entry{Name: e.Name, Size: e.UncompressedSize, HasSize: true})
	}
	markParsed := func(name string) {
		e, _ := man.Get(name)
		e.Name = name
		e.Parsed = true
		man.Add(e)
	}
	markParsedSheet := func(name string, sheetIndex int) {
		e, _ := man.Get(name)
		e.Name = name
		e.Parsed = true
		e.SheetIndex = sheetIndex
		e.HasSheet = true
		man.Add(e)
	}

	wbRaw, err := zr.ReadAll(workbookPart)
	if err != nil {
		return nil, nil, err
	}
	wbxml, err := ooxml.ParseWorkbook(wbRaw)
	if err != nil {
		return nil, nil, err
	}
	markParsed(workbookPart)

	const workbookRelsPart = "xl/_rels/workbook.xml.rels"
	var wbRelsByID map[string]ooxml.Relationship
	if zr.Has(workbookRelsPart) {
		relsRaw, err := zr.ReadAll(workbookRelsPart)
		if err != nil {
			return nil, nil, err
		}
		rels, err := ooxml.ParseRelationships(workbookRelsPart, relsRaw)
		if err != nil {
			return nil, nil, err
		}
		markParsed(workbookRelsPart)
		wbRelsByID = make(map[string]ooxml.Relationship, len(rels))
		for _, r := range rels {
			wbRelsByID[r.ID] = r
		}
	}

	if zr.Has("[Content_Types].xml") {
		markParsed("[Content_Types].xml")
	}
	if zr.Has("_rels/.rels") {
		markParsed("_rels/.rels")
	}

	var warnings []Warning
	const stylesPart = "xl/styles.xml"
	var stylesXML *ooxml.StylesXML
	if zr.Has(stylesPart) {
		raw, err := zr.ReadAll(stylesPart)
		if err != nil {
			return nil, nil, err
		}
		stylesXML, err = ooxml.ParseStyles(raw)
		if err != nil {
			return nil, nil, err
		}
		markParsed(stylesPart)
	} else {
		warnings = append(warnings, Warning{
			Code:    WarningMissingStylesXml,
			Message: "xl/styles.xml is missing; using a single default cell style",
		})
		stylesXML = &ooxml.StylesXML{CellXfs: []xl.CellStyle{{}}}
	}

	const sstPart = "xl/sharedStrings.xml"
	var sst []xl.RichText
	var originalSST []xl.RichText
	if zr.Has(sstPart) {
		raw, err := zr.ReadAll(sstPart)
		if err != nil {
			return nil, nil, err
		}
		parsed, err := ooxml.ParseSharedStrings(raw)
		if err != nil {
			return nil, nil, err
		}
		sst = parsed.Strings
		originalSST = parsed.Strings
		markParsed(sstPart)
	}

	loadedSheets := make([]xl.LoadedSheet, 0, len(wbxml.Sheets))
	totalCells := 0
	for si, sref := range wbxml.Sheets {
		rel, ok := wbRelsByID[sref.RelID]
		if !ok {
			return nil, nil, xlerr.NewParseError(workbookRelsPart,
				"sheet %q: no relationship for id %q", sref.Name, sref.RelID)
		}
		sheetPart := resolveTarget("xl", rel.Target)
		if !zr.Has(sheetPart) {
			return nil, nil, xlerr.NewParseError(sheetPart,
				"worksheet part for sheet %q is missing from the archive", sref.Name)
		}
		raw, err := zr.ReadAll(sheetPart)
		if err != nil {
			return nil, nil, err
		}
		sheet, err := ooxml.ParseWorksheet(sheetPart, sref.Name, raw, sst, stylesXML.CellXfs)
		if err != nil {
			return nil, nil, err
		}
		markParsedSheet(sheetPart, si)

		if err := checkStringLimits(sheet, cfg); err != nil {
			return nil, nil, err
		}
		totalCells += len(sheet.Cells())
		if cfg.Limits.MaxCellCount > 0 && totalCells > cfg.Limits.MaxCellCount {
			return nil, nil, &xlerr.SecurityError{Limit: "maxCellCount"}
		}

		sheet, err = attachSidecars(zr, sheetPart, si, sheet, markParsedSheet)
		if err != nil {
			return nil, nil, err
		}

		vis := xl.VisibilityVisible
		switch sref.State {
		case "hidden":
			vis = xl.VisibilityHidden
		case "veryHidden":
			vis = xl.VisibilityVeryHidden
		}
		loadedSheets = append(loadedSheets, xl.LoadedSheet{
			Sheet:      sheet,
			SheetID:    sref.SheetID,
			RelID:      sref.RelID,
			Visibility: vis,
		})
	}

	definedNames := make([]xl.DefinedName, 0, len(wbxml.DefinedNames))
	for _, d := range wbxml.DefinedNames {
		scope := -1
		if d.HasLocalSheetID {
			scope = d.LocalSheetID
		}
		definedNames = append(definedNames, xl.DefinedName{
			Name:       d.Name,
			RefersTo:   d.RefersTo,
			SheetScope: scope,
			Hidden:     d.Hidden,
		})
	}

	wb, err := xl.NewWorkbookFromLoad(loadedSheets, definedNames)
	if err != nil {
		return nil, nil, err
	}

	originalSheetNames := make([]string, len(loadedSheets))
	for i, ls := range loadedSheets {
		originalSheetNames[i] = ls.Sheet.Name
	}

	wb = wb.WithSource(&xl.SourceContext{
		SourcePath:            sourcePath,
		SourceFingerprint:     sha256.Sum256(data),
		PartManifest:          man,
		OriginalStyleIndex:    stylesXML.CellXfs,
		ModificationTracker:   modtrack.New(),
		WorkbookRootAttrs:     wbxml.RootAttrs,
		OriginalSharedStrings: originalSST,
		OriginalSheetNames:    originalSheetNames,
		OriginalDxfs:          stylesXML.Dxfs,
		OriginalTableStyles:   stylesXML.TableStyles,
		OriginalColors:        stylesXML.Colors,
	})

	return wb, warnings, nil
}

// attachSidecars resolves a worksheet part's own .rels file and attaches
// any comments, VML drawing, or tables it points to.
func attachSidecars(zr *zipio.Reader, sheetPart string, sheetIndex int, sheet *xl.Sheet, markParsedSheet func(string, int)) (*xl.Sheet, error) {
	relsPath := sheetRelsPath(sheetPart)
	if !zr.Has(relsPath) {
		return sheet, nil
	}
	relsRaw, err := zr.ReadAll(relsPath)
	if err != nil {
		return nil, err
	}
	rels, err := ooxml.ParseRelationships(relsPath, relsRaw)
	if err != nil {
		return nil, err
	}
	markParsedSheet(relsPath, sheetIndex)

	baseDir := path.Dir(sheetPart)
	for _, r := range rels {
		if r.TargetMode == "External" {
			continue
		}
		target := resolveTarget(baseDir, r.Target)
		switch {
		case strings.HasSuffix(r.Type, relSuffixComments):
			if !zr.Has(target) {
				continue
			}
			raw, err := zr.ReadAll(target)
			if err != nil {
				return nil, err
			}
			comments, err := ooxml.ParseComments(target, raw)
			if err != nil {
				return nil, err
			}
			for ref, c := range comments {
				sheet = sheet.Comment(ref, c)
			}
			markParsedSheet(target, sheetIndex)

		case strings.HasSuffix(r.Type, relSuffixVMLDrawing):
			if !zr.Has(target) {
				continue
			}
			raw, err := zr.ReadAll(target)
			if err != nil {
				return nil, err
			}
			vml, err := ooxml.ParseVML(target, raw)
			if err != nil {
				return nil, err
			}
			sheet = sheet.WithVMLRaw(vml)
			markParsedSheet(target, sheetIndex)

		case strings.HasSuffix(r.Type, relSuffixTable):
			if !zr.Has(target) {
				continue
			}
			raw, err := zr.ReadAll(target)
			if err != nil {
				return nil, err
			}
			t, err := ooxml.ParseTable(target, raw)
			if err != nil {
				return nil, err
			}
			sheet, err = sheet.WithTable(t)
			if err != nil {
				return nil, err
			}
			markParsedSheet(target, sheetIndex)
		}
	}
	return sheet, nil
}

// checkStringLimits enforces MaxStringLength against every text-bearing
// cell value the worksheet parser produced (spec.md §6); zipio's own
// checks only bound the compressed/inflated byte stream, not individual
// string values within it.
func checkStringLimits(sheet *xl.Sheet, cfg Config) error {
	if cfg.Limits.MaxStringLength <= 0 {
		return nil
	}
	for ref, cell := range sheet.Cells() {
		var s string
		switch cell.Value.Kind {
		case xl.KindText:
			s = cell.Value.Text
		case xl.KindRichText:
			s = cell.Value.Rich.ToPlainText()
		case xl.KindFormula:
			s = cell.Value.Formula
		default:
			continue
		}
		if len(s) > cfg.Limits.MaxStringLength {
			return &xlerr.SecurityError{Limit: "maxStringLength", Detail: "at " + sheet.Name + "!" + ref}
		}
	}
	return nil
}

// resolveTarget resolves a relationship Target against baseDir, the
// directory of the part that owns the .rels file. A leading "/" marks an
// archive-absolute target (spec.md §4.3.2).
func resolveTarget(baseDir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(baseDir, target))
}

// sheetRelsPath returns the relationship part for a worksheet part, e.g.
// xl/worksheets/sheet1.xml -> xl/worksheets/_rels/sheet1.xml.rels.
func sheetRelsPath(partName string) string {
	dir := path.Dir(partName)
	base := path.Base(partName)
	return path.Join(dir, "_rels", base+".rels")
}
