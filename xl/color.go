package xl

import "fmt"

// ColorKind tags which variant of Color is populated.
type ColorKind int

const (
	ColorNone ColorKind = iota
	ColorRGB
	ColorTheme
	ColorIndexed
)

// Color is the tagged union over ECMA-376's three color representations.
// On read, RGB takes precedence over Theme which takes precedence over
// Indexed when multiple attributes coexist on one <color> element
// (spec.md §3).
type Color struct {
	Kind    ColorKind
	ARGB    uint32  // valid when Kind == ColorRGB
	Theme   int     // valid when Kind == ColorTheme
	Tint    float64 // valid when Kind == ColorTheme
	Indexed int     // valid when Kind == ColorIndexed
}

// RGBColor builds an RGB-variant Color from a 32-bit ARGB value.
func RGBColor(argb uint32) Color { return Color{Kind: ColorRGB, ARGB: argb} }

// ThemeColor builds a theme-variant Color.
func ThemeColor(theme int, tint float64) Color {
	return Color{Kind: ColorTheme, Theme: theme, Tint: tint}
}

// IndexedColor builds an indexed-variant Color.
func IndexedColor(index int) Color { return Color{Kind: ColorIndexed, Indexed: index} }

// IsZero reports whether c carries no color information.
func (c Color) IsZero() bool { return c.Kind == ColorNone }

// CanonicalBytes appends a stable, unambiguous encoding of c used by
// CellStyle.CanonicalKey.
func (c Color) CanonicalBytes(b []byte) []byte {
	switch c.Kind {
	case ColorRGB:
		return fmt.Appendf(b, "rgb:%08x;", c.ARGB)
	case ColorTheme:
		return fmt.Appendf(b, "theme:%d:%v;", c.Theme, c.Tint)
	case ColorIndexed:
		return fmt.Appendf(b, "idx:%d;", c.Indexed)
	default:
		return append(b, "none;"...)
	}
}

// Resolve converts an indexed color to its RGB equivalent using the
// standard 64-entry Excel palette. Indices >= 64 resolve to no color, as
// does any non-indexed Color (it is returned unchanged).
func (c Color) Resolve() Color {
	if c.Kind != ColorIndexed {
		return c
	}
	if argb, ok := standardPalette[c.Indexed]; ok {
		return RGBColor(argb)
	}
	return Color{}
}

// standardPalette maps the 64 standard indexed-color entries to ARGB
// values, per ECMA-376's legacy color table.
var standardPalette = map[int]uint32{
	0:  0x00000000,
	1:  0x00FFFFFF,
	2:  0x00FF0000,
	3:  0x0000FF00,
	4:  0x000000FF,
	5:  0x00FFFF00,
	6:  0x00FF00FF,
	7:  0x0000FFFF,
	8:  0x00000000,
	9:  0x00FFFFFF,
	10: 0x00FF0000,
	11: 0x0000FF00,
	12: 0x000000FF,
	13: 0x00FFFF00,
	14: 0x00FF00FF,
	15: 0x0000FFFF,
	16: 0x00800000,
	17: 0x00008000,
	18: 0x00000080,
	19: 0x00808000,
	20: 0x00800080,
	21: 0x00008080,
	22: 0x00C0C0C0,
	23: 0x00808080,
	24: 0x009999FF,
	25: 0x00993366,
	26: 0x00FFFFCC,
	27: 0x00CCFFFF,
	28: 0x00660066,
	29: 0x00FF8080,
	30: 0x000066CC,
	31: 0x00CCCCFF,
	32: 0x00000080,
	33: 0x00FF00FF,
	34: 0x00FFFF00,
	35: 0x0000FFFF,
	36: 0x00800080,
	37: 0x00800000,
	38: 0x00008080,
	39: 0x000000FF,
	40: 0x0000CCFF,
	41: 0x00CCFFFF,
	42: 0x00CCFFCC,
	43: 0x00FFFF99,
	44: 0x0099CCFF,
	45: 0x00FF99CC,
	46: 0x00CC99FF,
	47: 0x00FFCC99,
	48: 0x003366FF,
	49: 0x0033CCCC,
	50: 0x0099CC00,
	51: 0x00FFCC00,
	52: 0x00FF9900,
	53: 0x00FF6600,
	54: 0x00666699,
	55: 0x00969696,
	56: 0x00003366,
	57: 0x00339966,
	58: 0x00003300,
	59: 0x00333300,
	60: 0x00993300,
	61: 0x00993366,
	62: 0x00333399,
	63: 0x00333333,
}
