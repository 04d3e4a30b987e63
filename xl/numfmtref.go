package xl

import "fmt"

// NumFmtRef is a cell's number-format reference: either a built-in ID
// (< 164) or a custom ID (>= 164) paired with its format code. ID 0 is
// "General".
type NumFmtRef struct {
	ID   int
	Code string // only meaningful for custom (ID >= 164) formats
}

func (n NumFmtRef) IsDefault() bool { return n.ID == 0 && n.Code == "" }

func (n NumFmtRef) CanonicalBytes(b []byte) []byte {
	return fmt.Appendf(b, "numfmt{%d:%s}", n.ID, n.Code)
}
