// Package reader implements the counterpart to package writer: it opens an
// xlsx package, resolves every part's relationships, and reassembles a
// *xl.Workbook with its SourceContext populated so a later write can choose
// verbatim, hybrid, or full regeneration (spec.md §4.3, §4.6). Grounded on
// the teacher's xl/zfs.go Storage abstraction, generalized here to
// internal/zipio.Reader, and on its writer.go part-sequencing idiom run in
// reverse (part name -> domain value instead of domain value -> part name).
package reader

import "github.com/gosheetkit/xlcore/internal/zipio"

// Config bounds what Load will accept from a candidate package (spec.md
// §6's reader configuration defaults).
type Config struct {
	Limits zipio.Limits
}

// DefaultConfig mirrors zipio.DefaultLimits().
func DefaultConfig() Config {
	return Config{Limits: zipio.DefaultLimits()}
}
