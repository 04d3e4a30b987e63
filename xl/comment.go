package xl

// Comment is a cell-anchored note. Excel stores the author name as the
// first run of the comment's rich text (bold "Author: " prefix); on read
// that prefix is extracted into Author and stripped from Text, and on
// write it is re-prepended in the same form (spec.md §4.3.7).
type Comment struct {
	Ref      string // A1-style cell reference
	Author   string
	Text     RichText
	ShapeID  int
	GUID     string

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}
