package xl

// RowProperties carries the optional row-level attributes preserved from
// (or destined for) <row> (spec.md §4.3.4). A zero-value RowProperties with
// Present == true represents an empty row kept solely for its attributes.
type RowProperties struct {
	Present       bool
	Spans         string
	StyleID       int
	HasStyleID    bool
	CustomFormat  bool
	Height        float64
	CustomHeight  bool
	Hidden        bool
	OutlineLevel  int
	Collapsed     bool
	ThickBot      bool
	DyDescent     float64
	HasDyDescent  bool
}

// ColumnProperties carries the per-column properties parsed from (or
// destined for) <col> (spec.md §4.3.4).
type ColumnProperties struct {
	Width        float64
	CustomWidth  bool
	Hidden       bool
	OutlineLevel int
	Collapsed    bool
}
