package xl

import "fmt"

// UnderlineType mirrors ECMA-376's ST_UnderlineValues.
type UnderlineType string

const (
	UnderlineNone             UnderlineType = ""
	UnderlineSingle           UnderlineType = "single"
	UnderlineDouble           UnderlineType = "double"
	UnderlineSingleAccounting UnderlineType = "singleAccounting"
	UnderlineDoubleAccounting UnderlineType = "doubleAccounting"
)

// Font is one sub-component of CellStyle / TextRun formatting.
type Font struct {
	Name          string
	Size          float64
	Bold          bool
	Italic        bool
	Underline     UnderlineType
	Strikethrough bool
	Color         Color
	Family        int
	Charset       int

	OtherAttrs    map[string]string
	OtherChildren []RawElement
}

// IsDefault reports whether f carries no customization beyond Excel's
// built-in defaults.
func (f Font) IsDefault() bool {
	return f.Name == "" && f.Size == 0 && !f.Bold && !f.Italic &&
		f.Underline == UnderlineNone && !f.Strikethrough && f.Color.IsZero() &&
		f.Family == 0 && f.Charset == 0
}

// CanonicalBytes appends a stable encoding of f for style deduplication.
func (f Font) CanonicalBytes(b []byte) []byte {
	b = fmt.Appendf(b, "font{name:%s;size:%v;bold:%v;italic:%v;u:%s;strike:%v;family:%d;charset:%d;color:",
		f.Name, f.Size, f.Bold, f.Italic, f.Underline, f.Strikethrough, f.Family, f.Charset)
	b = f.Color.CanonicalBytes(b)
	b = append(b, '}')
	return b
}
