package model

// LayoutType classifies the overall column structure of a page.
type LayoutType int

const (
	// LayoutSingleColumn is a page with one reading stream
	LayoutSingleColumn LayoutType = iota
	// LayoutPossiblyMultiColumn has weak evidence of multiple columns
	LayoutPossiblyMultiColumn
	// LayoutMultiColumnText has strong evidence of multiple text columns
	LayoutMultiColumnText
	// LayoutMixedContent mixes column text with other structures
	LayoutMixedContent
)

// String returns a human-readable representation of the layout type.
func (lt LayoutType) String() string {
	switch lt {
	case LayoutSingleColumn:
		return "single_column"
	case LayoutPossiblyMultiColumn:
		return "possibly_multi_column"
	case LayoutMultiColumnText:
		return "multi_column_text"
	case LayoutMixedContent:
		return "mixed_content"
	default:
		return "unknown"
	}
}

// IsMultiColumn returns true for layout types that indicate more than one
// reading stream.
func (lt LayoutType) IsMultiColumn() bool {
	return lt == LayoutMultiColumnText || lt == LayoutMixedContent
}

// Column is a contiguous X-range of the page inferred to hold one reading
// stream. Columns are regenerated per page and never persisted.
type Column struct {
	// BBox is the column's bounding box
	BBox BBox

	// Index is the column's position (0-based, left to right)
	Index int

	// LineCount is the number of lines assigned to this column
	LineCount int
}

// RegionType classifies a spatial region of the page.
type RegionType int

const (
	// RegionText is plain prose content
	RegionText RegionType = iota
	// RegionTable is tabular content kept as raw rows
	RegionTable
	// RegionTableJSON is tabular content with a structured payload
	RegionTableJSON
	// RegionMixed contains both prose and tabular content
	RegionMixed
)

// String returns a human-readable representation of the region type.
func (rt RegionType) String() string {
	switch rt {
	case RegionText:
		return "text"
	case RegionTable:
		return "table"
	case RegionTableJSON:
		return "table_json"
	case RegionMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// LayoutRegion is a classified spatial region of a page.
type LayoutRegion struct {
	// Type is the region classification
	Type RegionType

	// BBox is the region's bounding box
	BBox BBox

	// Confidence is the detection confidence (0-1)
	Confidence float64

	// Lines are the lines belonging to this region
	Lines []Line

	// ReadingOrder is the region's position in the page reading sequence
	ReadingOrder int

	// ColumnIndex is the owning column (-1 if spanning)
	ColumnIndex int

	// Source tags where a table region came from ("ruled", "borderless",
	// "content"). Empty for text regions.
	Source string

	// Table is the structured payload for table regions (nil otherwise)
	Table *StructuredTable
}
