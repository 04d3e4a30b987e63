package reader

import (
	"os"

	"github.com/gosheetkit/xlcore/internal/ooxml"
	"github.com/gosheetkit/xlcore/internal/zipio"
	"github.com/gosheetkit/xlcore/xlerr"
)

// SheetInfo is one sheet's name and extent, as returned by the metadata
// fast path (spec.md §4.7) without fully parsing its cells.
type SheetInfo struct {
	Name         string
	Dimension    string
	HasDimension bool
}

// Read returns every sheet's name and dimension without building a full
// Workbook (spec.md §4.7's read(path)).
func Read(srcPath string, cfg Config) ([]SheetInfo, error) {
	zr, wbxml, err := openIndex(srcPath, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]SheetInfo, len(wbxml.sheets))
	for i, sref := range wbxml.sheets {
		out[i].Name = sref.name
		sheetPart, ok := wbxml.sheetParts[sref.relID]
		if !ok || !zr.Has(sheetPart) {
			continue
		}
		raw, err := zr.ReadAll(sheetPart)
		if err != nil {
			return nil, err
		}
		ref, has, err := ooxml.ScanDimension(sheetPart, raw)
		if err != nil {
			return nil, err
		}
		out[i].Dimension = ref
		out[i].HasDimension = has
	}
	return out, nil
}

// ReadSheetList returns sheet names only (spec.md §4.7's readSheetList(path)).
func ReadSheetList(srcPath string, cfg Config) ([]string, error) {
	_, wbxml, err := openIndex(srcPath, cfg)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(wbxml.sheets))
	for i, sref := range wbxml.sheets {
		out[i] = sref.name
	}
	return out, nil
}

// ReadDimension returns the dimension of the sheet at sheetIndex (spec.md
// §4.7's readDimension(path, sheetIndex)).
func ReadDimension(srcPath string, sheetIndex int, cfg Config) (string, bool, error) {
	zr, wbxml, err := openIndex(srcPath, cfg)
	if err != nil {
		return "", false, err
	}
	if sheetIndex < 0 || sheetIndex >= len(wbxml.sheets) {
		return "", false, xlerr.NewValidationError("sheet index %d out of range", sheetIndex)
	}
	sref := wbxml.sheets[sheetIndex]
	sheetPart, ok := wbxml.sheetParts[sref.relID]
	if !ok || !zr.Has(sheetPart) {
		return "", false, xlerr.NewParseError(sheetPart,
			"worksheet part for sheet %q is missing from the archive", sref.name)
	}
	raw, err := zr.ReadAll(sheetPart)
	if err != nil {
		return "", false, err
	}
	return ooxml.ScanDimension(sheetPart, raw)
}

// sheetIndexEntry is the metadata fast path's trimmed view of a workbook.xml
// <sheet> entry.
type sheetIndexEntry struct {
	name  string
	relID string
}

// workbookIndex is the information the fast path needs from workbook.xml
// and its relationships, without touching styles, shared strings, or any
// worksheet's cell data.
type workbookIndex struct {
	sheets     []sheetIndexEntry
	sheetParts map[string]string // relID -> worksheet part name
}

func openIndex(srcPath string, cfg Config) (*zipio.Reader, *workbookIndex, error) {
	data, err := os.ReadFile(srcPath)
	if err != nil {
		return nil, nil, xlerr.NewIOError("reading source file", err)
	}
	zr, err := zipio.Open(data, cfg.Limits)
	if err != nil {
		return nil, nil, err
	}

	const workbookPart = "xl/workbook.xml"
	if !zr.Has(workbookPart) {
		return nil, nil, xlerr.NewParseError(workbookPart, "required part is missing from the archive")
	}
	wbRaw, err := zr.ReadAll(workbookPart)
	if err != nil {
		return nil, nil, err
	}
	wbxml, err := ooxml.ParseWorkbook(wbRaw)
	if err != nil {
		return nil, nil, err
	}

	idx := &workbookIndex{sheetParts: map[string]string{}}
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
		wbRelsByID = make(map[string]ooxml.Relationship, len(rels))
		for _, r := range rels {
			wbRelsByID[r.ID] = r
		}
	}

	for _, sref := range wbxml.Sheets {
		idx.sheets = append(idx.sheets, sheetIndexEntry{name: sref.Name, relID: sref.RelID})
		if rel, ok := wbRelsByID[sref.RelID]; ok {
			idx.sheetParts[sref.RelID] = resolveTarget("xl", rel.Target)
		}
	}
	return zr, idx, nil
}
