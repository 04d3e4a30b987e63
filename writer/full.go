package writer

import (
	"strconv"

	"github.com/gosheetkit/xlcore/internal/ooxml"
	"github.com/gosheetkit/xlcore/styleindex"
	"github.com/gosheetkit/xlcore/xl"
)

// buildFull regenerates every part of the package from wb's current
// in-memory state, used when wb carries no SourceContext (spec.md §4.6
// "Full") and when the source file on disk no longer matches wb's
// SourceContext fingerprint. It never reads an original archive; when a
// SourceContext is present, its WorkbookRootAttrs are replayed on the
// workbook.xml root.
func buildFull(wb *xl.Workbook, cfg Config) ([]byte, error) {
	sheets := wb.Sheets()

	escaped := make([]*xl.Sheet, len(sheets))
	for i, sh := range sheets {
		s, err := applyFormulaEscape(sh, cfg.FormulaInjectionPolicy)
		if err != nil {
			return nil, err
		}
		escaped[i] = s
	}
	sheets = escaped

	idx, remap := styleindex.BuildFresh(sheets)

	total, unique := analyzePlainStrings(sheets)
	useSST := decideSST(total, unique, cfg)
	var sst *sstBuilder
	if useSST {
		sst = newSSTBuilder(nil)
	}

	zw, sink := newZipWriter()

	sheetRefs := make([]ooxml.SheetRef, len(sheets))
	wbRels := make([]ooxml.Relationship, 0, len(sheets)+2)
	nextRID := 1

	type sheetOutput struct {
		partName     string
		relsEntries  []ooxml.Relationship
		commentsName string
		vmlName      string
		tableNames   []string
	}
	outputs := make([]sheetOutput, len(sheets))

	tableCounter := 1
	for i, sh := range sheets {
		partNum := i + 1
		partName := sheetPartName(partNum)

		rid := "rId" + strconv.Itoa(nextRID)
		nextRID++
		vis := wb.SheetVisibility(i)
		state := ""
		switch vis {
		case xl.VisibilityHidden:
			state = "hidden"
		case xl.VisibilityVeryHidden:
			state = "veryHidden"
		}
		sheetRefs[i] = ooxml.SheetRef{Name: sh.Name, SheetID: wb.SheetID(i), RelID: rid, State: state}
		wbRels = append(wbRels, ooxml.Relationship{ID: rid, Type: relTypeWorksheet, Target: "worksheets/sheet" + strconv.Itoa(partNum) + ".xml"})

		var out sheetOutput
		out.partName = partName

		comments := sh.Comments()
		legacyDrawingRelID := ""
		if len(comments) > 0 {
			refs := sortedCommentRefs(comments)
			commentsBytes, err := ooxml.BuildComments(cfg.Backend, refs, comments)
			if err != nil {
				return nil, wrapPartErr(partName, err)
			}
			out.commentsName = commentsPartName(partNum)
			vmlBytes := ooxml.BuildVML(i, refs)
			out.vmlName = vmlPartName(partNum)
			legacyDrawingRelID = "rId1"
			out.relsEntries = append(out.relsEntries,
				ooxml.Relationship{ID: "rId1", Type: relTypeVMLDrawing, Target: "../drawings/vmlDrawing" + strconv.Itoa(partNum) + ".vml"},
				ooxml.Relationship{ID: "rId2", Type: relTypeComments, Target: "../comments" + strconv.Itoa(partNum) + ".xml"},
			)
			if err := writeZipEntry(zw, out.commentsName, commentsBytes); err != nil {
				return nil, err
			}
			if err := writeZipEntry(zw, out.vmlName, vmlBytes); err != nil {
				return nil, err
			}
		}

		for _, t := range sh.Tables() {
			tableBytes, err := ooxml.BuildTable(cfg.Backend, t)
			if err != nil {
				return nil, wrapPartErr(partName, err)
			}
			tname := tablePartName(tableCounter)
			out.tableNames = append(out.tableNames, tname)
			out.relsEntries = append(out.relsEntries, ooxml.Relationship{
				ID:     "rIdTable" + strconv.Itoa(len(out.tableNames)),
				Type:   relTypeTable,
				Target: "../tables/table" + strconv.Itoa(tableCounter) + ".xml",
			})
			tableCounter++
			if err := writeZipEntry(zw, tname, tableBytes); err != nil {
				return nil, err
			}
		}

		sstIndexFn := func(s string) (int, bool) { return 0, false }
		if sst != nil {
			sstIndexFn = sst.lookup
			for _, ref := range sortedRefs(sh) {
				cell, _ := sh.Cell(ref)
				if cell.Value.Kind == xl.KindText {
					sst.addPlain(cell.Value.Text)
				} else if cell.Value.Kind == xl.KindRichText && cell.Value.Rich.IsPlain() {
					sst.addPlain(cell.Value.Rich.ToPlainText())
				}
			}
		}

		sheetBytes, err := ooxml.BuildWorksheet(cfg.Backend, ooxml.WorksheetBuildInput{
			Sheet:              sh,
			StyleRemap:         remap[i],
			SSTIndex:           sstIndexFn,
			UseInlineStr:       !useSST,
			LegacyDrawingRelID: legacyDrawingRelID,
		})
		if err != nil {
			return nil, wrapPartErr(partName, err)
		}
		if err := writeZipEntry(zw, partName, sheetBytes); err != nil {
			return nil, err
		}
		if len(out.relsEntries) > 0 {
			relsBytes, err := ooxml.BuildRelationships(cfg.Backend, out.relsEntries)
			if err != nil {
				return nil, err
			}
			if err := writeZipEntry(zw, sheetRelsPartName(partNum), relsBytes); err != nil {
				return nil, err
			}
		}
		outputs[i] = out
	}

	stylesRID := "rId" + strconv.Itoa(nextRID)
	nextRID++
	wbRels = append(wbRels, ooxml.Relationship{ID: stylesRID, Type: relTypeStyles, Target: "styles.xml"})

	var sstRID string
	if useSST {
		sstRID = "rId" + strconv.Itoa(nextRID)
		nextRID++
		wbRels = append(wbRels, ooxml.Relationship{ID: sstRID, Type: relTypeSharedStrings, Target: "sharedStrings.xml"})
	}

	defined := make([]ooxml.DefinedNameXML, 0, len(wb.DefinedNames()))
	for _, d := range wb.DefinedNames() {
		dn := ooxml.DefinedNameXML{Name: d.Name, RefersTo: d.RefersTo, Hidden: d.Hidden}
		if d.SheetScope >= 0 {
			dn.LocalSheetID = d.SheetScope
			dn.HasLocalSheetID = true
		}
		defined = append(defined, dn)
	}

	wbIn := ooxml.WorkbookBuildInput{Sheets: sheetRefs, DefinedNames: defined}
	if sc := wb.Source(); sc != nil {
		wbIn.SourceRootAttr = sc.WorkbookRootAttrs
	}
	wbBytes, err := ooxml.BuildWorkbook(cfg.Backend, wbIn)
	if err != nil {
		return nil, wrapPartErr("xl/workbook.xml", err)
	}
	wbRelsBytes, err := ooxml.BuildRelationships(cfg.Backend, wbRels)
	if err != nil {
		return nil, err
	}
	stylesBytes, err := ooxml.BuildStyles(cfg.Backend, idx, ooxml.StylesResidue{})
	if err != nil {
		return nil, wrapPartErr("xl/styles.xml", err)
	}

	sheetNames := make([]string, len(sheets))
	commentsNames := make([]string, 0)
	vmlNames := make([]string, 0)
	tableNames := make([]string, 0)
	for i, sh := range sheets {
		sheetNames[i] = sh.Name
		if outputs[i].commentsName != "" {
			commentsNames = append(commentsNames, outputs[i].commentsName)
		}
		if outputs[i].vmlName != "" {
			vmlNames = append(vmlNames, outputs[i].vmlName)
		}
		tableNames = append(tableNames, outputs[i].tableNames...)
	}

	sheetPartNames := make([]string, len(sheets))
	for i := range sheets {
		sheetPartNames[i] = "/" + sheetPartName(i+1)
	}
	toAbs := func(names []string) []string {
		out := make([]string, len(names))
		for i, n := range names {
			out[i] = "/" + n
		}
		return out
	}

	ctBytes, err := ooxml.BuildContentTypes(cfg.Backend, ooxml.ContentTypesBuildInput{
		SheetPartNames:    sheetPartNames,
		HasStyles:         true,
		HasSharedStrings:  useSST,
		CommentsPartNames: toAbs(commentsNames),
		VMLPartNames:      toAbs(vmlNames),
		TablePartNames:    toAbs(tableNames),
	})
	if err != nil {
		return nil, wrapPartErr("[Content_Types].xml", err)
	}

	rootRelsBytes, err := buildRootRels(cfg.Backend)
	if err != nil {
		return nil, err
	}
	coreBytes, err := buildCoreProperties(cfg.Backend)
	if err != nil {
		return nil, err
	}
	appBytes, err := buildExtendedProperties(cfg.Backend, sheetNames)
	if err != nil {
		return nil, err
	}

	if err := writeZipEntry(zw, "[Content_Types].xml", ctBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "_rels/.rels", rootRelsBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "docProps/core.xml", coreBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "docProps/app.xml", appBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "xl/workbook.xml", wbBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "xl/_rels/workbook.xml.rels", wbRelsBytes); err != nil {
		return nil, err
	}
	if err := writeZipEntry(zw, "xl/styles.xml", stylesBytes); err != nil {
		return nil, err
	}
	if useSST {
		sstBytes, err := ooxml.BuildSharedStrings(cfg.Backend, sst.entries, sstCellRefCount(total, len(sst.entries)))
		if err != nil {
			return nil, wrapPartErr("xl/sharedStrings.xml", err)
		}
		if err := writeZipEntry(zw, "xl/sharedStrings.xml", sstBytes); err != nil {
			return nil, err
		}
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return sink.buf, nil
}
