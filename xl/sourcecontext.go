package xl

import (
	"encoding/xml"

	"github.com/gosheetkit/xlcore/internal/manifest"
	"github.com/gosheetkit/xlcore/modtrack"
)

// SourceContext is present only on a workbook acquired by parsing an
// existing package (spec.md §3). OriginalStyleIndex is kept as an opaque
// value (rather than a *styleindex.Index) so this package is not forced
// into an import cycle with styleindex, which itself builds its tables
// from xl.CellStyle values; the writer package, which imports both, does
// the type assertion.
type SourceContext struct {
	SourcePath          string
	SourceFingerprint   [32]byte
	PartManifest        *manifest.Manifest
	OriginalStyleIndex  any
	ModificationTracker *modtrack.Tracker

	// WorkbookRootAttrs holds the source xl/workbook.xml <workbook> element's
	// attributes (namespace declarations, xr:uid, and the like) so a
	// surgical or full-regeneration write can replay them verbatim instead
	// of emitting only the baseline set (spec.md §4.3.3, §9).
	WorkbookRootAttrs []xml.Attr

	// OriginalSharedStrings holds xl/sharedStrings.xml's <si> table exactly
	// as parsed. A surgical write seeds its shared-string builder from this
	// slice, appending only the new strings introduced by modified sheets,
	// so an unmodified sheet copied verbatim still resolves its t="s"
	// indices correctly (spec.md §4.3.6, §4.4).
	OriginalSharedStrings []RichText

	// OriginalSheetNames holds each sheet's name at load time, indexed by
	// its original manifest/workbook.xml position. The hybrid writer uses
	// this to relocate a surviving sheet by name after Remove/InsertAt have
	// shifted positions, since PartManifest.SheetIndex and
	// ModificationTracker both key off load-time position.
	OriginalSheetNames []string

	// OriginalDxfs, OriginalTableStyles and OriginalColors preserve
	// styles.xml's dxfs/tableStyles/colors blocks verbatim (this engine
	// does not model conditional-formatting differential styles or table
	// style catalogs structurally -- spec.md §4.3.5) so a hybrid write that
	// must regenerate styles.xml for an unrelated reason (a new sheet, a
	// new cell style) does not silently drop them.
	OriginalDxfs        *RawElement
	OriginalTableStyles *RawElement
	OriginalColors      *RawElement
}
