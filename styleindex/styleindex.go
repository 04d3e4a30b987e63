// Package styleindex builds the flat fonts/fills/borders/numFmts/cellXfs
// tables that styles.xml requires, deduplicating each sub-component by
// canonical key in O(n) (spec.md §4.4). It mirrors the dedup discipline
// xl.Sheet.addStyle already applies at the per-sheet level, lifted to the
// whole-workbook scope the writer needs.
package styleindex

import (
	"github.com/gosheetkit/xlcore/numfmt"
	"github.com/gosheetkit/xlcore/xl"
)

// Index is the flat, workbook-scoped style table built from the union of
// every sheet's local CellStyle registry.
type Index struct {
	Fonts   []xl.Font
	Fills   []xl.Fill
	Borders []xl.Border
	NumFmts []xl.NumFmtRef
	Xfs     []xl.CellStyle

	fontKeys   map[string]int
	fillKeys   map[string]int
	borderKeys map[string]int
	numFmtKeys map[string]int
	xfKeys     map[string]int

	nextCustomNumFmtID int
	dateNumFmts        map[int]bool // global numFmt id -> is a date/datetime format
}

// New returns an empty index. Fill slots 0 ("none") and 1 ("gray125") are
// seeded immediately since styles.xml must always emit both (spec.md
// §4.3.5).
func New() *Index {
	idx := &Index{
		fontKeys:           map[string]int{},
		fillKeys:           map[string]int{},
		borderKeys:         map[string]int{},
		numFmtKeys:         map[string]int{},
		xfKeys:             map[string]int{},
		nextCustomNumFmtID: 164,
		dateNumFmts:        map[int]bool{},
	}
	idx.addFill(xl.Fill{PatternType: "none"})
	idx.addFill(xl.Fill{PatternType: "gray125"})
	return idx
}

func (idx *Index) addFont(f xl.Font) int {
	key := f.CanonicalBytes(nil)
	if id, ok := idx.fontKeys[string(key)]; ok {
		return id
	}
	id := len(idx.Fonts)
	idx.Fonts = append(idx.Fonts, f)
	idx.fontKeys[string(key)] = id
	return id
}

func (idx *Index) addFill(f xl.Fill) int {
	key := f.CanonicalBytes(nil)
	if id, ok := idx.fillKeys[string(key)]; ok {
		return id
	}
	id := len(idx.Fills)
	idx.Fills = append(idx.Fills, f)
	idx.fillKeys[string(key)] = id
	return id
}

func (idx *Index) addBorder(b xl.Border) int {
	key := b.CanonicalBytes(nil)
	if id, ok := idx.borderKeys[string(key)]; ok {
		return id
	}
	id := len(idx.Borders)
	idx.Borders = append(idx.Borders, b)
	idx.borderKeys[string(key)] = id
	return id
}

// addNumFmt registers a custom number format, assigning the next free ID
// >= 164 when nf.ID is itself unset (0 means caller wants a fresh custom
// slot with only nf.Code populated).
func (idx *Index) addNumFmt(nf xl.NumFmtRef) int {
	if nf.ID != 0 && nf.ID < 164 {
		idx.dateNumFmts[nf.ID] = numfmt.IsDateFormat(nf.ID, "")
		return nf.ID // built-in, no table entry needed
	}
	if nf.Code == "" {
		return 0
	}
	key := nf.Code
	if id, ok := idx.numFmtKeys[key]; ok {
		return id
	}
	id := nf.ID
	for _, existing := range idx.NumFmts {
		if existing.ID == id {
			id = 0 // taken by a different code
			break
		}
	}
	if id == 0 {
		id = idx.nextCustomNumFmtID
	}
	if id >= idx.nextCustomNumFmtID {
		idx.nextCustomNumFmtID = id + 1
	}
	idx.NumFmts = append(idx.NumFmts, xl.NumFmtRef{ID: id, Code: nf.Code})
	idx.numFmtKeys[key] = id
	idx.dateNumFmts[id] = numfmt.IsDateFormat(id, nf.Code)
	return id
}

// IsDateNumFmt reports whether the numFmt registered at global id renders as
// a date or datetime format, per numfmt.IsDateFormat. Used by callers
// rendering or round-tripping xl.CellValue.DateTime against a regenerated
// style table.
func (idx *Index) IsDateNumFmt(id int) bool {
	if v, ok := idx.dateNumFmts[id]; ok {
		return v
	}
	return numfmt.IsDateFormat(id, "")
}

// addXf registers style's composite cellXf by canonical key, returning its
// global index. Sub-components are deduplicated independently first.
func (idx *Index) addXf(style xl.CellStyle) int {
	key := style.CanonicalKey()
	if id, ok := idx.xfKeys[key]; ok {
		return id
	}
	idx.addFont(style.Font)
	idx.addFill(style.Fill)
	idx.addBorder(style.Border)
	if style.NumFmt.ID >= 164 || style.NumFmt.Code != "" {
		idx.addNumFmt(style.NumFmt)
	}
	id := len(idx.Xfs)
	idx.Xfs = append(idx.Xfs, style)
	idx.xfKeys[key] = id
	return id
}

// FontID, FillID and BorderID look up the global index of an
// already-registered sub-component. A sub-component that was never
// registered yields 0.
func (idx *Index) FontID(f xl.Font) int     { return idx.fontKeys[string(f.CanonicalBytes(nil))] }
func (idx *Index) FillID(f xl.Fill) int     { return idx.fillKeys[string(f.CanonicalBytes(nil))] }
func (idx *Index) BorderID(b xl.Border) int { return idx.borderKeys[string(b.CanonicalBytes(nil))] }

// BuildFresh gathers every sheet's local style registry and builds a flat
// index from scratch, along with a per-sheet localStyleId -> globalStyleId
// remapping table (spec.md §4.4 "Fresh").
func BuildFresh(sheets []*xl.Sheet) (*Index, [][]int) {
	idx := New()
	remap := make([][]int, len(sheets))
	for si, sheet := range sheets {
		local := sheet.Styles()
		remap[si] = make([]int, len(local))
		for li, style := range local {
			remap[si][li] = idx.addXf(style)
		}
	}
	return idx, remap
}

// BuildSurgical starts from a preserved original cellXf table (as parsed
// from the source styles.xml) and appends only the styles introduced by
// modified sheets, at indices >= the original count. Unmodified sheets
// keep their original global style IDs unchanged (spec.md §4.4
// "Surgical").
func BuildSurgical(original []xl.CellStyle, sheets []*xl.Sheet, modified map[int]bool) (*Index, [][]int) {
	idx := New()
	for _, style := range original {
		idx.addXf(style)
	}
	remap := make([][]int, len(sheets))
	for si, sheet := range sheets {
		local := sheet.Styles()
		remap[si] = make([]int, len(local))
		if !modified[si] {
			// Unmodified sheets reference the original table 1:1 by
			// position; no remapping needed.
			for li := range local {
				remap[si][li] = li
			}
			continue
		}
		for li, style := range local {
			remap[si][li] = idx.addXf(style)
		}
	}
	return idx, remap
}
