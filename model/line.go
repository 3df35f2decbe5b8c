package model

import "strings"

// Line is a horizontally ordered group of TextItems sharing a Y-band.
// Lines are derived from one page's items and are never mutated after
// creation.
type Line struct {
	// Items are the text items that make up this line (sorted left to right)
	Items []TextItem

	// Text is the reconstructed text content of the line
	Text string

	// BBox is the bounding box of the line
	BBox BBox

	// Index is the line's position on the page (0-based, top to bottom)
	Index int

	// AverageFontSize is the average font size of items in this line
	AverageFontSize float64
}

// MinX returns the left edge of the line.
func (l Line) MinX() float64 {
	return l.BBox.Left()
}

// MaxX returns the right edge of the line.
func (l Line) MaxX() float64 {
	return l.BBox.Right()
}

// MeanY returns the vertical center of the line.
func (l Line) MeanY() float64 {
	return l.BBox.CenterY()
}

// WordCount returns an approximate word count for the line.
func (l Line) WordCount() int {
	if l.Text == "" {
		return 0
	}
	return len(strings.Fields(l.Text))
}

// IsEmpty returns true if the line has no text content.
func (l Line) IsEmpty() bool {
	return strings.TrimSpace(l.Text) == ""
}

// LinesBBox returns the bounding box covering all the given lines.
func LinesBBox(lines []Line) BBox {
	if len(lines) == 0 {
		return BBox{}
	}
	merged := lines[0].BBox
	for _, l := range lines[1:] {
		merged = merged.Union(l.BBox)
	}
	return merged
}
