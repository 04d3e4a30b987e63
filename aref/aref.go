// Package aref provides the cell-addressing primitives the core consumes
// but does not own: ARef, CellRange, and SheetName validation. These are
// deliberately minimal -- the fluent construction ergonomics spec.md §1
// excludes from the core live one layer up, outside this module's concern.
package aref

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gosheetkit/xlcore/xlerr"
)

// ARef is a 1-based cell address, e.g. "C5".
type ARef struct {
	Col int // 1-based
	Row int // 1-based
}

// Parse parses A1-style notation into an ARef.
func Parse(s string) (ARef, error) {
	col, row, err := splitRef(s)
	if err != nil {
		return ARef{}, err
	}
	return ARef{Col: col, Row: row}, nil
}

// String formats the address back to A1 notation.
func (a ARef) String() string {
	return ColumnLetters(a.Col) + strconv.Itoa(a.Row)
}

// ColumnLetters converts a 1-based column number to Excel column letters.
func ColumnLetters(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

func splitRef(ref string) (col, row int, err error) {
	i := 0
	for i < len(ref) && unicode.IsLetter(rune(ref[i])) {
		i++
	}
	if i == 0 || i == len(ref) {
		return 0, 0, xlerr.NewValidationError("invalid cell reference %q", ref)
	}
	for _, ch := range strings.ToUpper(ref[:i]) {
		if ch < 'A' || ch > 'Z' {
			return 0, 0, xlerr.NewValidationError("invalid cell reference %q", ref)
		}
		col = col*26 + int(ch-'A') + 1
	}
	row, convErr := strconv.Atoi(ref[i:])
	if convErr != nil || row < 1 {
		return 0, 0, xlerr.NewValidationError("invalid cell reference %q", ref)
	}
	return col, row, nil
}

// CellRange is an inclusive rectangular range, e.g. "A1:C5".
type CellRange struct {
	Start, End ARef
}

// ParseRange parses "A1:C5"-style notation.
func ParseRange(s string) (CellRange, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return CellRange{}, xlerr.NewValidationError("invalid range %q", s)
	}
	start, err := Parse(parts[0])
	if err != nil {
		return CellRange{}, err
	}
	end, err := Parse(parts[1])
	if err != nil {
		return CellRange{}, err
	}
	return CellRange{Start: start, End: end}, nil
}

// String formats the range back to A1:A2 notation.
func (r CellRange) String() string {
	return r.Start.String() + ":" + r.End.String()
}

// Contains reports whether a falls within r (inclusive).
func (r CellRange) Contains(a ARef) bool {
	return a.Col >= r.Start.Col && a.Col <= r.End.Col &&
		a.Row >= r.Start.Row && a.Row <= r.End.Row
}

// Overlaps reports whether r and o share at least one cell.
func (r CellRange) Overlaps(o CellRange) bool {
	return !(r.End.Col < o.Start.Col || r.Start.Col > o.End.Col ||
		r.End.Row < o.Start.Row || r.Start.Row > o.End.Row)
}

const maxSheetNameLen = 31

// ValidateSheetName enforces spec.md §3: unique (caller's job), non-empty,
// <= 31 characters, and free of \ / ? * [ ] :
func ValidateSheetName(name string) error {
	if name == "" {
		return xlerr.NewValidationError("sheet name must not be empty")
	}
	if len([]rune(name)) > maxSheetNameLen {
		return xlerr.NewValidationError("sheet name %q exceeds %d characters", name, maxSheetNameLen)
	}
	if strings.ContainsAny(name, `\/?*[]:`) {
		return xlerr.NewValidationError("sheet name %q contains a reserved character", name)
	}
	return nil
}
