package model

import "strings"

// TextItem is one positioned text run with font metadata, the atomic unit
// of input. Items are produced by the upstream extractor and are never
// mutated by the engine.
type TextItem struct {
	// Text is the recognized text content of the run
	Text string

	// BBox is the item's bounding box in page space
	BBox BBox

	// FontName is the name of the font, if known
	FontName string

	// FontSize is the font size in page units
	FontSize float64
}

// IsEmpty returns true if the item has no visible text.
func (t TextItem) IsEmpty() bool {
	return strings.TrimSpace(t.Text) == ""
}

// IsSingleAlnum returns true if the item's trimmed text is exactly one
// letter or digit. Used to recognize character-over-segmented runs.
func (t TextItem) IsSingleAlnum() bool {
	trimmed := strings.TrimSpace(t.Text)
	if len(trimmed) != 1 {
		return false
	}
	c := trimmed[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Rect is a rectangle drawn on the page, typically a table cell border or
// a shaded region.
type Rect struct {
	BBox   BBox
	Filled bool
}

// Ruling is a straight line segment drawn on the page, typically a table
// grid line or a separator rule.
type Ruling struct {
	Start Point
	End   Point
	Width float64
}

// IsHorizontal returns true if the ruling is approximately horizontal.
func (r Ruling) IsHorizontal() bool {
	dy := r.End.Y - r.Start.Y
	if dy < 0 {
		dy = -dy
	}
	return dy <= 2.0
}

// IsVertical returns true if the ruling is approximately vertical.
func (r Ruling) IsVertical() bool {
	dx := r.End.X - r.Start.X
	if dx < 0 {
		dx = -dx
	}
	return dx <= 2.0
}

// Length returns the length of the ruling.
func (r Ruling) Length() float64 {
	return r.Start.Distance(r.End)
}

// BBox returns the bounding box covered by the ruling, with zero width or
// height for axis-aligned lines.
func (r Ruling) BoundingBox() BBox {
	return NewBBoxFromCorners(r.Start.X, r.Start.Y, r.End.X, r.End.Y)
}

// PageInput is the complete input for one page: positioned text items, the
// page bounding box, and optionally the vector graphics primitives drawn on
// the page. Pages are processed independently of each other.
type PageInput struct {
	// Number is the 1-indexed page number
	Number int

	// BBox is the page's pixel bounding box
	BBox BBox

	// Items are the positioned text runs on the page, in no particular order
	Items []TextItem

	// Rects are rectangles drawn on the page (optional)
	Rects []Rect

	// Rulings are line segments drawn on the page (optional)
	Rulings []Ruling
}

// HasPositions reports whether at least one item carries position data.
// An item with a degenerate zero-area box at a real coordinate still counts
// as positioned; only pages whose items have no box at all leave layout
// analysis unable to proceed.
func (p PageInput) HasPositions() bool {
	for _, item := range p.Items {
		if !item.BBox.IsZero() {
			return true
		}
	}
	return false
}
