package writer

import (
	"strconv"

	"github.com/gosheetkit/xlcore/internal/ooxml"
	"github.com/gosheetkit/xlcore/internal/zipio"
	"github.com/gosheetkit/xlcore/styleindex"
	"github.com/gosheetkit/xlcore/xl"
)

// buildHybrid regenerates only the parts a write must change and copies
// everything else verbatim from the original archive (spec.md §4.6
// "Surgical"). srcData is the original package's bytes, already confirmed
// to match wb's SourceContext fingerprint by the caller.
func buildHybrid(wb *xl.Workbook, sc *xl.SourceContext, srcData []byte, cfg Config) ([]byte, error) {
	zr, err := zipio.Open(srcData, zipio.Limits{})
	if err != nil {
		return nil, err
	}

	origIndexByName := make(map[string]int, len(sc.OriginalSheetNames))
	for i, name := range sc.OriginalSheetNames {
		origIndexByName[name] = i
	}
	modifiedOriginal := sc.ModificationTracker.ModifiedSheets()

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

	type survivorInfo struct {
		known           bool
		originalIdx     int
		modified        bool
		sheetPart       string
		commentsPart    string
		vmlPart         string
		tableParts      []string
		sheetRelsPart   string
	}
	infos := make([]survivorInfo, len(sheets))

	maxSheetNum := maxNumber(sheetNumberRe, sc.PartManifest.Names())
	maxCommentsNum := maxNumber(commentsNumberRe, sc.PartManifest.Names())
	maxVMLNum := maxNumber(vmlNumberRe, sc.PartManifest.Names())
	maxTableNum := maxNumber(tableNumberRe, sc.PartManifest.Names())
	nextFreshSheetNum := maxSheetNum + 1
	nextFreshCommentsNum := maxCommentsNum + 1
	nextFreshVMLNum := maxVMLNum + 1
	nextFreshTableNum := maxTableNum + 1

	for i, sh := range sheets {
		var info survivorInfo
		if origIdx, ok := origIndexByName[sh.Name]; ok {
			info.known = true
			info.originalIdx = origIdx
			info.modified = modifiedOriginal[origIdx]
			for _, name := range sc.PartManifest.SheetPartNames(origIdx) {
				switch {
				case sheetNumberRe.MatchString(name):
					info.sheetPart = name
				case commentsNumberRe.MatchString(name):
					info.commentsPart = name
				case vmlNumberRe.MatchString(name):
					info.vmlPart = name
				case tableNumberRe.MatchString(name):
					info.tableParts = append(info.tableParts, name)
				case len(name) > 5 && name[len(name)-5:] == ".rels":
					info.sheetRelsPart = name
				}
			}
		} else {
			info.modified = true
		}
		if info.sheetPart == "" {
			info.sheetPart = sheetPartName(nextFreshSheetNum)
			nextFreshSheetNum++
		}
		infos[i] = info
	}

	hadOriginalSST := sc.OriginalSharedStrings != nil
	total, unique := analyzePlainStrings(sheets)
	useSST := hadOriginalSST || decideSST(total, unique, cfg)
	var sst *sstBuilder
	if useSST {
		sst = newSSTBuilder(sc.OriginalSharedStrings)
	}

	modifiedCurrent := make(map[int]bool, len(sheets))
	for i, info := range infos {
		modifiedCurrent[i] = info.modified
	}
	originalStyles, _ := sc.OriginalStyleIndex.([]xl.CellStyle)
	idx, remap := styleindex.BuildSurgical(originalStyles, sheets, modifiedCurrent)

	zw, sink := newZipWriter()

	type sheetOutput struct {
		info         survivorInfo
		relsEntries  []ooxml.Relationship
		commentsName string
		vmlName      string
		tableNames   []string
	}
	outputs := make([]sheetOutput, len(sheets))

	for i, sh := range sheets {
		info := infos[i]
		out := sheetOutput{info: info}

		if !info.modified {
			// Verbatim: copy this sheet's own parts, untouched, to the
			// same archive paths they already occupy.
			if data, rerr := zr.ReadAll(info.sheetPart); rerr == nil {
				if err := writeZipEntry(zw, info.sheetPart, data); err != nil {
					return nil, err
				}
			}
			if info.sheetRelsPart != "" && zr.Has(info.sheetRelsPart) {
				data, rerr := zr.ReadAll(info.sheetRelsPart)
				if rerr == nil {
					if err := writeZipEntry(zw, info.sheetRelsPart, data); err != nil {
						return nil, err
					}
				}
			}
			if info.commentsPart != "" && zr.Has(info.commentsPart) {
				data, _ := zr.ReadAll(info.commentsPart)
				if err := writeZipEntry(zw, info.commentsPart, data); err != nil {
					return nil, err
				}
				out.commentsName = info.commentsPart
			}
			if info.vmlPart != "" && zr.Has(info.vmlPart) {
				data, _ := zr.ReadAll(info.vmlPart)
				if err := writeZipEntry(zw, info.vmlPart, data); err != nil {
					return nil, err
				}
				out.vmlName = info.vmlPart
			}
			for _, tp := range info.tableParts {
				if zr.Has(tp) {
					data, _ := zr.ReadAll(tp)
					if err := writeZipEntry(zw, tp, data); err != nil {
						return nil, err
					}
					out.tableNames = append(out.tableNames, tp)
				}
			}
			outputs[i] = out
			continue
		}

		// Modified or new: regenerate this sheet's parts.
		comments := sh.Comments()
		legacyDrawingRelID := ""
		if len(comments) > 0 {
			refs := sortedCommentRefs(comments)
			commentsBytes, err := ooxml.BuildComments(cfg.Backend, refs, comments)
			if err != nil {
				return nil, wrapPartErr(info.sheetPart, err)
			}
			commentsName := info.commentsPart
			if commentsName == "" {
				commentsName = commentsPartName(nextFreshCommentsNum)
				nextFreshCommentsNum++
			}
			vmlName := info.vmlPart
			if vmlName == "" {
				vmlName = vmlPartName(nextFreshVMLNum)
				nextFreshVMLNum++
			}
			vmlBytes := ooxml.BuildVML(i, refs)
			legacyDrawingRelID = "rId1"
			out.relsEntries = append(out.relsEntries,
				ooxml.Relationship{ID: "rId1", Type: relTypeVMLDrawing, Target: "../" + relTarget(vmlName)},
				ooxml.Relationship{ID: "rId2", Type: relTypeComments, Target: "../" + relTarget(commentsName)},
			)
			if err := writeZipEntry(zw, commentsName, commentsBytes); err != nil {
				return nil, err
			}
			if err := writeZipEntry(zw, vmlName, vmlBytes); err != nil {
				return nil, err
			}
			out.commentsName = commentsName
			out.vmlName = vmlName
		}

		for _, t := range sh.Tables() {
			tableBytes, err := ooxml.BuildTable(cfg.Backend, t)
			if err != nil {
				return nil, wrapPartErr(info.sheetPart, err)
			}
			tname := tablePartName(nextFreshTableNum)
			nextFreshTableNum++
			out.tableNames = append(out.tableNames, tname)
			out.relsEntries = append(out.relsEntries, ooxml.Relationship{
				ID:     "rIdTable" + strconv.Itoa(len(out.tableNames)),
				Type:   relTypeTable,
				Target: "../" + relTarget(tname),
			})
			if err := writeZipEntry(zw, tname, tableBytes); err != nil {
				return nil, err
			}
		}

		sstIndexFn := func(s string) (int, bool) { return 0, false }
		if sst != nil {
			sstIndexFn = sst.lookup
			for _, ref := range sortedRefs(sh) {
				cell, _ := sh.Cell(ref)
				switch {
				case cell.Value.Kind == xl.KindText:
					sst.addPlain(cell.Value.Text)
				case cell.Value.Kind == xl.KindRichText && cell.Value.Rich.IsPlain():
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
			return nil, wrapPartErr(info.sheetPart, err)
		}
		if err := writeZipEntry(zw, info.sheetPart, sheetBytes); err != nil {
			return nil, err
		}
		if len(out.relsEntries) > 0 {
			relsPart := info.sheetRelsPart
			if relsPart == "" {
				relsPart = sheetRelsPathFor(info.sheetPart)
			}
			relsBytes, err := ooxml.BuildRelationships(cfg.Backend, out.relsEntries)
			if err != nil {
				return nil, err
			}
			if err := writeZipEntry(zw, relsPart, relsBytes); err != nil {
				return nil, err
			}
		}
		outputs[i] = out
	}

	sheetRefs := make([]ooxml.SheetRef, len(sheets))
	wbRels := make([]ooxml.Relationship, 0, len(sheets)+2)
	nextRID := 1
	for i, sh := range sheets {
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
		wbRels = append(wbRels, ooxml.Relationship{ID: rid, Type: relTypeWorksheet, Target: relTarget(infos[i].sheetPart)})
	}
	stylesRID := "rId" + strconv.Itoa(nextRID)
	nextRID++
	wbRels = append(wbRels, ooxml.Relationship{ID: stylesRID, Type: relTypeStyles, Target: "styles.xml"})
	if useSST {
		sstRID := "rId" + strconv.Itoa(nextRID)
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

	wbBytes, err := ooxml.BuildWorkbook(cfg.Backend, ooxml.WorkbookBuildInput{
		Sheets:         sheetRefs,
		DefinedNames:   defined,
		SourceRootAttr: sc.WorkbookRootAttrs,
	})
	if err != nil {
		return nil, wrapPartErr("xl/workbook.xml", err)
	}
	wbRelsBytes, err := ooxml.BuildRelationships(cfg.Backend, wbRels)
	if err != nil {
		return nil, err
	}
	stylesBytes, err := ooxml.BuildStyles(cfg.Backend, idx, ooxml.StylesResidue{
		Dxfs:        sc.OriginalDxfs,
		TableStyles: sc.OriginalTableStyles,
		Colors:      sc.OriginalColors,
	})
	if err != nil {
		return nil, wrapPartErr("xl/styles.xml", err)
	}

	sheetNames := make([]string, len(sheets))
	var commentsNames, vmlNames, tableNames []string
	sheetPartNames := make([]string, len(sheets))
	for i, sh := range sheets {
		sheetNames[i] = sh.Name
		sheetPartNames[i] = "/" + infos[i].sheetPart
		if outputs[i].commentsName != "" {
			commentsNames = append(commentsNames, outputs[i].commentsName)
		}
		if outputs[i].vmlName != "" {
			vmlNames = append(vmlNames, outputs[i].vmlName)
		}
		tableNames = append(tableNames, outputs[i].tableNames...)
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

	const coreName = "docProps/core.xml"
	var coreBytes []byte
	if zr.Has(coreName) {
		coreBytes, err = zr.ReadAll(coreName)
		if err != nil {
			return nil, err
		}
	} else {
		coreBytes, err = buildCoreProperties(cfg.Backend)
		if err != nil {
			return nil, err
		}
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
	if err := writeZipEntry(zw, coreName, coreBytes); err != nil {
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

// relTarget strips the "xl/" prefix a part name carries so it can be used
// as a workbook-relative relationship Target.
func relTarget(partName string) string {
	const prefix = "xl/"
	if len(partName) > len(prefix) && partName[:len(prefix)] == prefix {
		return partName[len(prefix):]
	}
	return partName
}

// sheetRelsPathFor returns the .rels part for a worksheet part, used when
// a surviving sheet gains a sidecar (comments/table) it didn't originally
// have, so no original .rels part name was recorded for it.
func sheetRelsPathFor(partName string) string {
	return sheetRelsPartName(extractNumber(sheetNumberRe, partName))
}
