package writer

import (
	"sort"

	"github.com/gosheetkit/xlcore/aref"
	"github.com/gosheetkit/xlcore/xl"
)

// analyzePlainStrings walks every sheet's cells in row-major order and
// returns the total count of string cells (KindText and plain KindRichText
// alike -- formatted rich text is always written inline, per
// ooxml.BuildWorksheet's writeCell, so it never enters the shared string
// table) plus the deduplicated list of distinct values in first-seen order.
func analyzePlainStrings(sheets []*xl.Sheet) (total int, unique []string) {
	seen := map[string]bool{}
	for _, sheet := range sheets {
		for _, ref := range sortedRefs(sheet) {
			cell, _ := sheet.Cell(ref)
			var s string
			switch cell.Value.Kind {
			case xl.KindText:
				s = cell.Value.Text
			case xl.KindRichText:
				if !cell.Value.Rich.IsPlain() {
					continue
				}
				s = cell.Value.Rich.ToPlainText()
			default:
				continue
			}
			total++
			if !seen[s] {
				seen[s] = true
				unique = append(unique, s)
			}
		}
	}
	return total, unique
}

// sortedRefs returns sheet's cell references in row-major order, matching
// ooxml.BuildWorksheet's own row/column iteration so a fresh build's
// shared-string insertion order is reproducible from one build to the next
// (spec.md §9's determinism requirement).
func sortedRefs(sheet *xl.Sheet) []string {
	cells := sheet.Cells()
	refs := make([]string, 0, len(cells))
	for ref := range cells {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, _ := aref.Parse(refs[i])
		b, _ := aref.Parse(refs[j])
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return refs
}

// sstCellRefCount returns the sst's count attribute: the number of cell
// references to the table, which is totalStringCells in the common case
// but never allowed to fall below uniqueCount (spec.md §4.3.6's invariant
// count >= uniqueCount) -- a surgical write can carry preserved <si>
// entries no longer referenced by any current cell, in which case
// uniqueCount alone exceeds the live total.
func sstCellRefCount(total, uniqueCount int) int {
	if total < uniqueCount {
		return uniqueCount
	}
	return total
}

// decideSST applies the SSTPolicy/Auto heuristic from spec.md §4.3.6:
// Auto turns shared strings on when totalStringCells > uniqueStringCount
// and totalStringCells > 10.
func decideSST(total, unique int, cfg Config) bool {
	if cfg.UseInlineStrings {
		return false
	}
	switch cfg.SSTPolicy {
	case SSTAlways:
		return true
	case SSTNever:
		return false
	default:
		return total > unique && total > 10
	}
}

// sstBuilder accumulates the shared-string table for a write. A fresh
// build starts empty; a surgical build seeds from the original table
// (newSSTBuilder(original)) so a verbatim-copied sheet's t="s" index
// references keep resolving to the same entries (spec.md §4.4 "Surgical",
// mirroring styleindex.BuildSurgical's append-only discipline).
type sstBuilder struct {
	entries []xl.RichText
	index   map[string]int // plain text -> first entry holding it
}

func newSSTBuilder(original []xl.RichText) *sstBuilder {
	b := &sstBuilder{index: map[string]int{}}
	for _, rt := range original {
		b.entries = append(b.entries, rt)
		if rt.IsPlain() {
			key := rt.ToPlainText()
			if _, exists := b.index[key]; !exists {
				b.index[key] = len(b.entries) - 1
			}
		}
	}
	return b
}

// addPlain registers s, reusing an existing entry when s already occurs
// (verbatim or newly added) as a plain string.
func (b *sstBuilder) addPlain(s string) int {
	if id, ok := b.index[s]; ok {
		return id
	}
	id := len(b.entries)
	b.entries = append(b.entries, xl.PlainText(s))
	b.index[s] = id
	return id
}

func (b *sstBuilder) lookup(s string) (int, bool) {
	id, ok := b.index[s]
	return id, ok
}

// sortedCommentRefs returns a sheet's comment anchors in row-major order,
// the same ordering vml.BuildVML uses to assign shape ids (spec.md §4.3.7).
func sortedCommentRefs(comments map[string]xl.Comment) []string {
	refs := make([]string, 0, len(comments))
	for ref := range comments {
		refs = append(refs, ref)
	}
	sort.Slice(refs, func(i, j int) bool {
		a, _ := aref.Parse(refs[i])
		b, _ := aref.Parse(refs[j])
		if a.Row != b.Row {
			return a.Row < b.Row
		}
		return a.Col < b.Col
	})
	return refs
}
