package writer

// Relationship type URIs this package wires up; parsing-side equivalents
// live in package reader (spec.md §4.3.2).
const (
	relTypeOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relTypeCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relTypeExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relTypeWorksheet      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/worksheet"
	relTypeStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relTypeSharedStrings  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/sharedStrings"
	relTypeComments       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/comments"
	relTypeVMLDrawing     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/vmlDrawing"
	relTypeTable          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/table"
)
