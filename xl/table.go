package xl

import (
	"strings"

	"github.com/google/uuid"

	"github.com/gosheetkit/xlcore/aref"
	"github.com/gosheetkit/xlcore/xlerr"
)

// TableColumn is one column definition of a TableSpec.
type TableColumn struct {
	ID   int
	Name string
	UID  string

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}

// AutoFilterSpec is the (possibly empty) autoFilter child of a table.
type AutoFilterSpec struct {
	Ref string
	UID string
}

// TableStyleInfo is the tableStyleInfo child of a table.
type TableStyleInfo struct {
	Name              string
	ShowFirstColumn   bool
	ShowLastColumn    bool
	ShowRowStripes    bool
	ShowColumnStripes bool
}

// TableSpec is a structured-table definition (spec.md §4.3.8).
type TableSpec struct {
	ID              int
	Name            string
	DisplayName     string
	Ref             string
	HeaderRowCount  int
	TotalsRowCount  int
	TotalsRowShown  bool
	Columns         []TableColumn
	AutoFilter      *AutoFilterSpec
	StyleInfo       *TableStyleInfo
	TableUID        string
	AutoFilterUID   string

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}

// NewTableUID returns a fresh UID suitable for TableSpec.TableUID /
// AutoFilterUID / TableColumn.UID.
func NewTableUID() string {
	return "{" + strings.ToUpper(uuid.NewString()) + "}"
}

// Validate enforces the construction invariants from spec.md §4.3.8: name
// and displayName non-empty with no spaces, range at least 2 rows,
// column count matching range width, and unique column names.
func (t TableSpec) Validate() error {
	if t.Name == "" || strings.ContainsAny(t.Name, " ") {
		return xlerr.NewValidationError("table name %q must be non-empty and contain no spaces", t.Name)
	}
	if t.DisplayName == "" || strings.ContainsAny(t.DisplayName, " ") {
		return xlerr.NewValidationError("table display name %q must be non-empty and contain no spaces", t.DisplayName)
	}
	rng, err := aref.ParseRange(t.Ref)
	if err != nil {
		return xlerr.NewValidationError("table %q has invalid ref %q", t.Name, t.Ref)
	}
	if rng.End.Row-rng.Start.Row+1 < 2 {
		return xlerr.NewValidationError("table %q range must span at least 2 rows", t.Name)
	}
	width := rng.End.Col - rng.Start.Col + 1
	if len(t.Columns) != width {
		return xlerr.NewValidationError("table %q has %d columns but range width is %d", t.Name, len(t.Columns), width)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if seen[c.Name] {
			return xlerr.NewValidationError("table %q has duplicate column name %q", t.Name, c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}
