package xl

import (
	"github.com/gosheetkit/xlcore/aref"
	"github.com/gosheetkit/xlcore/xlerr"
)

// WorksheetMetadata preserves source-only worksheet blobs this engine does
// not itself manage, carried forward verbatim for surgical rewrites
// (spec.md §4.3.4): sheetPr, sheetViews (incl. pane), sheetFormatPr,
// conditionalFormatting, dataValidations, hyperlinks, printOptions,
// pageMargins, pageSetup, headerFooter, rowBreaks, colBreaks, tableParts.
// dimension and cols are NOT stored here -- both are recomputed from the
// live cell/column data on every regeneration (spec.md §4.3.4).
type WorksheetMetadata struct {
	SheetPr               *RawElement
	SheetViews            *RawElement
	SheetFormatPr         *RawElement
	ConditionalFormatting []RawElement
	DataValidations       *RawElement
	Hyperlinks            *RawElement
	PrintOptions          *RawElement
	PageMargins           *RawElement
	PageSetup             *RawElement
	HeaderFooter          *RawElement
	RowBreaks             *RawElement
	ColBreaks             *RawElement
}

// Sheet is one worksheet: an immutable value. Every mutating method
// returns a new *Sheet with copy-on-write maps, per spec.md §5's
// "immutable workbook, structural sharing" contract -- Go's builder
// variant of that discipline (spec.md §9).
type Sheet struct {
	Name string

	cells    map[string]Cell
	merges   []aref.CellRange
	rowProps map[int]RowProperties
	colProps map[int]ColumnProperties
	comments map[string]Comment
	tables   []TableSpec

	styles     []CellStyle
	styleKeys  map[string]int // canonical key -> local style id

	meta *WorksheetMetadata

	vmlRaw []byte // verbatim VML, carried for unmodified commented sheets
}

// NewSheet creates an empty sheet, validating its name per spec.md §3.
func NewSheet(name string) (*Sheet, error) {
	if err := aref.ValidateSheetName(name); err != nil {
		return nil, err
	}
	return &Sheet{Name: name}, nil
}

func (s *Sheet) clone() *Sheet {
	c := *s
	return &c
}

// Cell returns the cell at ref and whether it is present.
func (s *Sheet) Cell(ref string) (Cell, bool) {
	c, ok := s.cells[ref]
	return c, ok
}

// Cells returns a defensive copy of the address -> Cell map.
func (s *Sheet) Cells() map[string]Cell {
	out := make(map[string]Cell, len(s.cells))
	for k, v := range s.cells {
		out[k] = v
	}
	return out
}

// Put sets the value at ref, preserving any existing style reference, and
// returns the resulting sheet.
func (s *Sheet) Put(ref string, v CellValue) (*Sheet, error) {
	if _, err := aref.Parse(ref); err != nil {
		return nil, err
	}
	n := s.clone()
	n.cells = cloneCells(s.cells)
	cell := n.cells[ref]
	cell.Value = v
	if _, had := s.cells[ref]; !had {
		cell.StyleID = NoStyle
	}
	n.cells[ref] = cell
	return n, nil
}

// WithCellStyle applies style to the cell at ref (creating an empty cell
// there if none exists yet), deduplicating style against this sheet's
// local registry.
func (s *Sheet) WithCellStyle(ref string, style CellStyle) (*Sheet, error) {
	if _, err := aref.Parse(ref); err != nil {
		return nil, err
	}
	id, n := s.addStyle(style)
	n.cells = cloneCells(n.cells)
	cell := n.cells[ref]
	if _, had := s.cells[ref]; !had {
		cell.Value = Empty
	}
	cell.StyleID = id
	n.cells[ref] = cell
	return n, nil
}

// addStyle deduplicates style against the local registry by canonical key,
// returning its id and a sheet reflecting any append.
func (s *Sheet) addStyle(style CellStyle) (int, *Sheet) {
	key := style.CanonicalKey()
	if s.styleKeys != nil {
		if id, ok := s.styleKeys[key]; ok {
			return id, s
		}
	}
	n := s.clone()
	n.styles = append(append([]CellStyle{}, s.styles...), style)
	n.styleKeys = make(map[string]int, len(s.styleKeys)+1)
	for k, v := range s.styleKeys {
		n.styleKeys[k] = v
	}
	id := len(n.styles) - 1
	n.styleKeys[key] = id
	return id, n
}

// Styles returns the sheet's local style registry, indexed by StyleID.
func (s *Sheet) Styles() []CellStyle {
	out := make([]CellStyle, len(s.styles))
	copy(out, s.styles)
	return out
}

// StyleAt returns the style registered at id, or the zero CellStyle if id
// is NoStyle or out of range.
func (s *Sheet) StyleAt(id int) CellStyle {
	if id < 0 || id >= len(s.styles) {
		return CellStyle{}
	}
	return s.styles[id]
}

// Merge adds a merged range given as "A1:B2" notation, rejecting ranges
// under 2 cells or overlapping an existing merge.
func (s *Sheet) Merge(rangeRef string) (*Sheet, error) {
	rng, err := aref.ParseRange(rangeRef)
	if err != nil {
		return nil, err
	}
	if rng.Start == rng.End {
		return nil, xlerr.NewValidationError("merge range %q must span at least 2 cells", rangeRef)
	}
	for _, existing := range s.merges {
		if rng.Overlaps(existing) {
			return nil, xlerr.NewValidationError("merge range %q overlaps existing merge %q", rangeRef, existing.String())
		}
	}
	n := s.clone()
	n.merges = append(append([]aref.CellRange{}, s.merges...), rng)
	return n, nil
}

// Merges returns the sheet's merged ranges.
func (s *Sheet) Merges() []aref.CellRange {
	out := make([]aref.CellRange, len(s.merges))
	copy(out, s.merges)
	return out
}

// SetRowProperties replaces the preserved properties for row (1-based).
func (s *Sheet) SetRowProperties(row int, p RowProperties) *Sheet {
	n := s.clone()
	n.rowProps = cloneRowProps(s.rowProps)
	p.Present = true
	n.rowProps[row] = p
	return n
}

// RowProperties returns the properties recorded for row, if any.
func (s *Sheet) RowProperties(row int) (RowProperties, bool) {
	p, ok := s.rowProps[row]
	return p, ok
}

// RowNumbers returns every row number with recorded properties.
func (s *Sheet) RowNumbers() []int {
	out := make([]int, 0, len(s.rowProps))
	for k := range s.rowProps {
		out = append(out, k)
	}
	return out
}

// SetColumnProperties replaces the preserved properties for col (1-based).
func (s *Sheet) SetColumnProperties(col int, p ColumnProperties) *Sheet {
	n := s.clone()
	n.colProps = cloneColProps(s.colProps)
	n.colProps[col] = p
	return n
}

// ColumnProperties returns the properties recorded for col, if any.
func (s *Sheet) ColumnProperties(col int) (ColumnProperties, bool) {
	p, ok := s.colProps[col]
	return p, ok
}

// ColumnNumbers returns every column number with recorded properties.
func (s *Sheet) ColumnNumbers() []int {
	out := make([]int, 0, len(s.colProps))
	for k := range s.colProps {
		out = append(out, k)
	}
	return out
}

// Comment attaches or replaces the comment at ref.
func (s *Sheet) Comment(ref string, c Comment) *Sheet {
	n := s.clone()
	n.comments = cloneComments(s.comments)
	c.Ref = ref
	n.comments[ref] = c
	return n
}

// RemoveComment deletes the comment at ref, if any.
func (s *Sheet) RemoveComment(ref string) *Sheet {
	if _, ok := s.comments[ref]; !ok {
		return s
	}
	n := s.clone()
	n.comments = cloneComments(s.comments)
	delete(n.comments, ref)
	return n
}

// Comments returns a defensive copy of the address -> Comment map.
func (s *Sheet) Comments() map[string]Comment {
	out := make(map[string]Comment, len(s.comments))
	for k, v := range s.comments {
		out[k] = v
	}
	return out
}

// WithVMLRaw attaches the verbatim vmlDrawing part bytes this sheet's
// comments were parsed from, so a surgical write of an unmodified
// commented sheet can replay it byte-for-byte instead of regenerating it.
func (s *Sheet) WithVMLRaw(raw []byte) *Sheet {
	n := s.clone()
	n.vmlRaw = append([]byte{}, raw...)
	return n
}

// VMLRaw returns the verbatim vmlDrawing bytes set by WithVMLRaw, or nil
// if this sheet's comments (if any) have never been parsed from or
// written to a source VML part.
func (s *Sheet) VMLRaw() []byte {
	if s.vmlRaw == nil {
		return nil
	}
	out := make([]byte, len(s.vmlRaw))
	copy(out, s.vmlRaw)
	return out
}

// WithTable validates and adds/replaces (by name) a table definition.
func (s *Sheet) WithTable(t TableSpec) (*Sheet, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	n := s.clone()
	n.tables = nil
	replaced := false
	for _, existing := range s.tables {
		if existing.Name == t.Name {
			n.tables = append(n.tables, t)
			replaced = true
		} else {
			n.tables = append(n.tables, existing)
		}
	}
	if !replaced {
		n.tables = append(n.tables, t)
	}
	return n, nil
}

// RemoveTable deletes the table named name, if present.
func (s *Sheet) RemoveTable(name string) *Sheet {
	n := s.clone()
	n.tables = nil
	for _, t := range s.tables {
		if t.Name != name {
			n.tables = append(n.tables, t)
		}
	}
	return n
}

// Tables returns the sheet's table definitions.
func (s *Sheet) Tables() []TableSpec {
	out := make([]TableSpec, len(s.tables))
	copy(out, s.tables)
	return out
}

// Metadata returns the preserved source-only worksheet blob, if any.
func (s *Sheet) Metadata() *WorksheetMetadata { return s.meta }

// WithMetadata attaches a preserved worksheet-metadata blob (used by the
// parser when loading from a source package).
func (s *Sheet) WithMetadata(m *WorksheetMetadata) *Sheet {
	n := s.clone()
	n.meta = m
	return n
}

// Dimension returns the minimal bounding ARef range enclosing every
// non-empty cell, recomputed on demand per spec.md §4.3.4. ok is false for
// an empty sheet.
func (s *Sheet) Dimension() (rng aref.CellRange, ok bool) {
	first := true
	for key := range s.cells {
		a, err := aref.Parse(key)
		if err != nil {
			continue
		}
		if first {
			rng = aref.CellRange{Start: a, End: a}
			first = false
			continue
		}
		if a.Col < rng.Start.Col {
			rng.Start.Col = a.Col
		}
		if a.Row < rng.Start.Row {
			rng.Start.Row = a.Row
		}
		if a.Col > rng.End.Col {
			rng.End.Col = a.Col
		}
		if a.Row > rng.End.Row {
			rng.End.Row = a.Row
		}
	}
	return rng, !first
}

func cloneCells(m map[string]Cell) map[string]Cell {
	out := make(map[string]Cell, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneRowProps(m map[int]RowProperties) map[int]RowProperties {
	out := make(map[int]RowProperties, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneColProps(m map[int]ColumnProperties) map[int]ColumnProperties {
	out := make(map[int]ColumnProperties, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneComments(m map[string]Comment) map[string]Comment {
	out := make(map[string]Comment, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	return out
}
