package model

// UnitType is the kind of a structured content unit.
type UnitType int

const (
	// UnitParagraph is running prose
	UnitParagraph UnitType = iota
	// UnitHeading is a section or document heading
	UnitHeading
	// UnitBullet is a bulleted or numbered list item
	UnitBullet
	// UnitTableHeader is the header row of a detected table
	UnitTableHeader
	// UnitTableRow is a data row of a detected table
	UnitTableRow
	// UnitTableJSON is a fully structured table payload
	UnitTableJSON
)

// String returns a human-readable representation of the unit type.
func (ut UnitType) String() string {
	switch ut {
	case UnitParagraph:
		return "paragraph"
	case UnitHeading:
		return "header"
	case UnitBullet:
		return "bullet"
	case UnitTableHeader:
		return "table_header"
	case UnitTableRow:
		return "table_row"
	case UnitTableJSON:
		return "table_json"
	default:
		return "unknown"
	}
}

// IsTabular returns true for unit types that belong to a table group.
func (ut UnitType) IsTabular() bool {
	switch ut {
	case UnitTableHeader, UnitTableRow, UnitTableJSON:
		return true
	default:
		return false
	}
}

// StructuredUnit is a typed, ordered content unit. It is the unit of chunk
// packing: the packer walks a page's unit sequence in reading order.
type StructuredUnit struct {
	// Type is the unit classification
	Type UnitType

	// Text is the unit's text content
	Text string

	// StartLine and EndLine are the source line range (page-local indices)
	StartLine int
	EndLine   int

	// ReadingOrder is the unit's position in the page reading sequence.
	// Indices form a strictly increasing sequence on a page.
	ReadingOrder int

	// BBox is the unit's bounding box (zero for non-positioned sources)
	BBox BBox

	// Page is the 1-indexed page number (0 for non-paged sources)
	Page int

	// ColumnIndex is the owning column (-1 if unknown or spanning)
	ColumnIndex int

	// Headings are up to a bounded window of nearest-preceding heading
	// texts, attached as retrieval context
	Headings []string

	// Numeric summarizes currency/number/date content found in the unit's
	// text (nil if none)
	Numeric *NumericMetadata

	// Table is the structured payload for table_json units (nil otherwise)
	Table *StructuredTable
}

// NumericMetadata summarizes typed numeric content extracted from text.
type NumericMetadata struct {
	// ValueCount is the number of numeric tokens found
	ValueCount int `json:"value_count"`

	// Currencies are the distinct ISO currency codes seen, in first-seen order
	Currencies []string `json:"currencies,omitempty"`

	// HasPercentage is true if any percentage token was found
	HasPercentage bool `json:"has_percentage,omitempty"`

	// HasDate is true if any date-shaped token was found
	HasDate bool `json:"has_date,omitempty"`

	// MinValue and MaxValue bound the numeric values found
	MinValue float64 `json:"min_value,omitempty"`
	MaxValue float64 `json:"max_value,omitempty"`
}

// Merge combines another metadata record into this one.
func (n *NumericMetadata) Merge(other *NumericMetadata) {
	if other == nil {
		return
	}
	if n.ValueCount == 0 {
		n.MinValue = other.MinValue
		n.MaxValue = other.MaxValue
	} else if other.ValueCount > 0 {
		if other.MinValue < n.MinValue {
			n.MinValue = other.MinValue
		}
		if other.MaxValue > n.MaxValue {
			n.MaxValue = other.MaxValue
		}
	}
	n.ValueCount += other.ValueCount
	n.HasPercentage = n.HasPercentage || other.HasPercentage
	n.HasDate = n.HasDate || other.HasDate
	for _, code := range other.Currencies {
		found := false
		for _, existing := range n.Currencies {
			if existing == code {
				found = true
				break
			}
		}
		if !found {
			n.Currencies = append(n.Currencies, code)
		}
	}
}

// HasFinancialData returns true if currency content was found.
func (n *NumericMetadata) HasFinancialData() bool {
	return n != nil && len(n.Currencies) > 0
}
