package xl

import "github.com/gosheetkit/xlcore/xlerr"

// SheetVisibility mirrors the three worksheet visibility states
// (spec.md §4.3.3).
type SheetVisibility string

const (
	VisibilityVisible    SheetVisibility = "visible"
	VisibilityHidden     SheetVisibility = "hidden"
	VisibilityVeryHidden SheetVisibility = "veryHidden"
)

// DefinedName is a workbook-scoped named range or constant.
type DefinedName struct {
	Name       string
	RefersTo   string
	SheetScope int // -1 for workbook scope
	Hidden     bool
}

// sheetEntry pairs a Sheet with the bookkeeping the workbook.xml parser
// and writer need: its original sheetId/relationship id and visibility.
type sheetEntry struct {
	sheet      *Sheet
	sheetID    int
	relID      string
	visibility SheetVisibility
}

// LoadedSheet is one sheet plus the bookkeeping the workbook.xml parser
// recovered for it: its original sheetId and r:id relationship, and its
// visibility state. The loader uses NewWorkbookFromLoad to reassemble a
// Workbook from these so that a surgical write can re-emit the same ids
// (spec.md §4.3.3).
type LoadedSheet struct {
	Sheet      *Sheet
	SheetID    int
	RelID      string
	Visibility SheetVisibility
}

// Workbook is an ordered sequence of sheets, optional SourceContext, and a
// set of defined names (spec.md §3). It is immutable: every mutating
// method returns a new Workbook with the modification tracker advanced.
type Workbook struct {
	entries      []sheetEntry
	definedNames []DefinedName
	source       *SourceContext
	nextSheetID  int
}

// NewWorkbook returns an empty, programmatically-constructed workbook (no
// SourceContext).
func NewWorkbook() *Workbook {
	return &Workbook{}
}

// NewWorkbookFromLoad reassembles a Workbook from sheets recovered by the
// workbook.xml/worksheet parsers, preserving each sheet's original
// sheetId/r:id/visibility. The caller attaches a SourceContext separately
// via WithSource. nextSheetID is seeded from the highest sheetId seen so a
// subsequently added sheet never collides with one loaded from the source.
func NewWorkbookFromLoad(sheets []LoadedSheet, definedNames []DefinedName) (*Workbook, error) {
	wb := &Workbook{}
	maxID := 0
	for _, ls := range sheets {
		if wb.indexOf(ls.Sheet.Name) >= 0 {
			return nil, xlerr.NewValidationError("duplicate sheet name %q", ls.Sheet.Name)
		}
		vis := ls.Visibility
		if vis == "" {
			vis = VisibilityVisible
		}
		wb.entries = append(wb.entries, sheetEntry{
			sheet:      ls.Sheet,
			sheetID:    ls.SheetID,
			relID:      ls.RelID,
			visibility: vis,
		})
		if ls.SheetID > maxID {
			maxID = ls.SheetID
		}
	}
	wb.definedNames = append([]DefinedName{}, definedNames...)
	wb.nextSheetID = maxID
	return wb, nil
}

// SheetID returns the workbook.xml sheetId recorded for the sheet at
// index i, or 0 if i is out of range.
func (wb *Workbook) SheetID(i int) int {
	if i < 0 || i >= len(wb.entries) {
		return 0
	}
	return wb.entries[i].sheetID
}

// RelID returns the xl/_rels/workbook.xml.rels relationship id recorded
// for the sheet at index i, or "" if it was never assigned one (a sheet
// added programmatically gets one only when the writer emits it).
func (wb *Workbook) RelID(i int) string {
	if i < 0 || i >= len(wb.entries) {
		return ""
	}
	return wb.entries[i].relID
}

func (wb *Workbook) clone() *Workbook {
	n := *wb
	n.entries = append([]sheetEntry{}, wb.entries...)
	n.definedNames = append([]DefinedName{}, wb.definedNames...)
	return &n
}

// Sheets returns the workbook's sheets in order.
func (wb *Workbook) Sheets() []*Sheet {
	out := make([]*Sheet, len(wb.entries))
	for i, e := range wb.entries {
		out[i] = e.sheet
	}
	return out
}

// SheetByName finds a sheet by name.
func (wb *Workbook) SheetByName(name string) (*Sheet, bool) {
	for _, e := range wb.entries {
		if e.sheet.Name == name {
			return e.sheet, true
		}
	}
	return nil, false
}

// SheetVisibility returns the visibility of the sheet at index i.
func (wb *Workbook) SheetVisibility(i int) SheetVisibility {
	if i < 0 || i >= len(wb.entries) {
		return VisibilityVisible
	}
	return wb.entries[i].visibility
}

// indexOf returns the index of the sheet named name, or -1.
func (wb *Workbook) indexOf(name string) int {
	for i, e := range wb.entries {
		if e.sheet.Name == name {
			return i
		}
	}
	return -1
}

// Put appends sheet, or replaces the existing sheet of the same name in
// place, marking modifiedMetadata.
func (wb *Workbook) Put(sheet *Sheet) (*Workbook, error) {
	n := wb.clone()
	if i := n.indexOf(sheet.Name); i >= 0 {
		n.entries[i].sheet = sheet
	} else {
		for _, e := range n.entries {
			if e.sheet.Name == sheet.Name {
				return nil, xlerr.NewValidationError("duplicate sheet name %q", sheet.Name)
			}
		}
		n.nextSheetID++
		n.entries = append(n.entries, sheetEntry{
			sheet:      sheet,
			sheetID:    n.nextSheetID,
			relID:      "",
			visibility: VisibilityVisible,
		})
	}
	n.markMetadataModified()
	return n, nil
}

// InsertAt inserts sheet at position idx (0-based), shifting later sheets
// right, marking modifiedMetadata.
func (wb *Workbook) InsertAt(idx int, sheet *Sheet) (*Workbook, error) {
	if wb.indexOf(sheet.Name) >= 0 {
		return nil, xlerr.NewValidationError("duplicate sheet name %q", sheet.Name)
	}
	if idx < 0 || idx > len(wb.entries) {
		return nil, xlerr.NewValidationError("insert index %d out of range", idx)
	}
	n := wb.clone()
	n.nextSheetID++
	e := sheetEntry{sheet: sheet, sheetID: n.nextSheetID, visibility: VisibilityVisible}
	tail := append([]sheetEntry{}, n.entries[idx:]...)
	n.entries = append(append(n.entries[:idx], e), tail...)
	n.markMetadataModified()
	return n, nil
}

// Remove deletes the sheet named name, marking modifiedMetadata and, when
// loaded from a source, recording the deletion in the tracker.
func (wb *Workbook) Remove(name string) (*Workbook, error) {
	i := wb.indexOf(name)
	if i < 0 {
		return nil, xlerr.NewValidationError("no sheet named %q", name)
	}
	n := wb.clone()
	n.entries = append(n.entries[:i], n.entries[i+1:]...)
	n.markMetadataModified()
	n.markSheetDeleted(i)
	return n, nil
}

// Update applies fn to the named sheet and stores the result. Update is the
// path the fluent builder layer uses for cell-level Sheet mutations (put,
// merge, withCellStyle, comments, tables, row/column properties), so it
// marks the sheet index as modified rather than touching
// modifiedMetadata (spec.md §4.5).
func (wb *Workbook) Update(name string, fn func(*Sheet) (*Sheet, error)) (*Workbook, error) {
	i := wb.indexOf(name)
	if i < 0 {
		return nil, xlerr.NewValidationError("no sheet named %q", name)
	}
	updated, err := fn(wb.entries[i].sheet)
	if err != nil {
		return nil, err
	}
	n := wb.clone()
	n.entries[i].sheet = updated
	n.markSheetModified(i)
	return n, nil
}

// DefinedNames returns the workbook's defined names.
func (wb *Workbook) DefinedNames() []DefinedName {
	out := make([]DefinedName, len(wb.definedNames))
	copy(out, wb.definedNames)
	return out
}

// WithDefinedName adds or replaces (by name+scope) a defined name.
func (wb *Workbook) WithDefinedName(d DefinedName) *Workbook {
	n := wb.clone()
	replaced := false
	for i, existing := range n.definedNames {
		if existing.Name == d.Name && existing.SheetScope == d.SheetScope {
			n.definedNames[i] = d
			replaced = true
		}
	}
	if !replaced {
		n.definedNames = append(n.definedNames, d)
	}
	n.markMetadataModified()
	return n
}

// Source returns the workbook's SourceContext, or nil for a
// programmatically constructed workbook.
func (wb *Workbook) Source() *SourceContext { return wb.source }

// WithSource attaches a SourceContext (used by the parser).
func (wb *Workbook) WithSource(sc *SourceContext) *Workbook {
	n := wb.clone()
	n.source = sc
	return n
}

func (wb *Workbook) markMetadataModified() {
	if wb.source == nil || wb.source.ModificationTracker == nil {
		return
	}
	sc := *wb.source
	sc.ModificationTracker = sc.ModificationTracker.WithModifiedMetadata()
	wb.source = &sc
}

func (wb *Workbook) markSheetModified(i int) {
	if wb.source == nil || wb.source.ModificationTracker == nil {
		return
	}
	sc := *wb.source
	sc.ModificationTracker = sc.ModificationTracker.WithModifiedSheet(i)
	wb.source = &sc
}

func (wb *Workbook) markSheetDeleted(i int) {
	if wb.source == nil || wb.source.ModificationTracker == nil {
		return
	}
	sc := *wb.source
	sc.ModificationTracker = sc.ModificationTracker.WithDeletedSheet(i)
	wb.source = &sc
}
