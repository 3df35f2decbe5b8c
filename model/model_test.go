package model

import (
	"strings"
	"testing"
)

func TestBBox_Accessors(t *testing.T) {
	b := NewBBox(10, 20, 100, 50)

	if b.Left() != 10 {
		t.Errorf("Left: expected 10, got %f", b.Left())
	}
	if b.Right() != 110 {
		t.Errorf("Right: expected 110, got %f", b.Right())
	}
	if b.Top() != 20 {
		t.Errorf("Top: expected 20, got %f", b.Top())
	}
	if b.Bottom() != 70 {
		t.Errorf("Bottom: expected 70, got %f", b.Bottom())
	}
	if c := b.Center(); c.X != 60 || c.Y != 45 {
		t.Errorf("Center: expected (60,45), got (%f,%f)", c.X, c.Y)
	}
	if b.Area() != 5000 {
		t.Errorf("Area: expected 5000, got %f", b.Area())
	}
}

func TestBBox_FromCorners(t *testing.T) {
	// Corners in either order produce the same box
	a := NewBBoxFromCorners(110, 70, 10, 20)
	b := NewBBoxFromCorners(10, 20, 110, 70)

	if a != b {
		t.Errorf("Corner order should not matter: %+v vs %+v", a, b)
	}
	if a.Width != 100 || a.Height != 50 {
		t.Errorf("Expected 100x50, got %fx%f", a.Width, a.Height)
	}
}

func TestBBox_Intersection(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)
	b := NewBBox(50, 50, 100, 100)

	if !a.Intersects(b) {
		t.Fatal("Expected boxes to intersect")
	}

	inter := a.Intersection(b)
	if inter.X != 50 || inter.Y != 50 || inter.Width != 50 || inter.Height != 50 {
		t.Errorf("Unexpected intersection: %+v", inter)
	}

	c := NewBBox(200, 200, 10, 10)
	if a.Intersects(c) {
		t.Error("Disjoint boxes should not intersect")
	}
	if got := a.Intersection(c); !got.IsEmpty() {
		t.Errorf("Disjoint intersection should be empty, got %+v", got)
	}
}

func TestBBox_OverlapRatio(t *testing.T) {
	a := NewBBox(0, 0, 100, 100)
	b := NewBBox(0, 0, 50, 100)

	// b is fully inside a, so overlap ratio relative to the smaller box is 1
	if ratio := a.OverlapRatio(b); ratio != 1.0 {
		t.Errorf("Expected overlap ratio 1.0, got %f", ratio)
	}

	c := NewBBox(90, 0, 100, 100)
	ratio := a.OverlapRatio(c)
	if ratio <= 0 || ratio >= 0.2 {
		t.Errorf("Expected small positive overlap ratio, got %f", ratio)
	}
}

func TestBBox_HorizontalOverlapRatio(t *testing.T) {
	a := NewBBox(0, 0, 100, 10)
	b := NewBBox(95, 500, 50, 10) // Different Y band entirely

	ratio := a.HorizontalOverlapRatio(b)
	if ratio != 0.1 {
		t.Errorf("Expected horizontal overlap 0.1, got %f", ratio)
	}

	c := NewBBox(200, 0, 50, 10)
	if a.HorizontalOverlapRatio(c) != 0 {
		t.Error("Disjoint X ranges should have zero horizontal overlap")
	}
}

func TestMergeBBoxes(t *testing.T) {
	merged := MergeBBoxes([]BBox{
		NewBBox(10, 10, 20, 20),
		NewBBox(100, 5, 20, 20),
	})

	if merged.X != 10 || merged.Y != 5 || merged.Right() != 120 || merged.Bottom() != 30 {
		t.Errorf("Unexpected merged box: %+v", merged)
	}

	if got := MergeBBoxes(nil); !got.IsEmpty() {
		t.Errorf("Empty input should yield zero box, got %+v", got)
	}
}

func TestTextItem_IsSingleAlnum(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"a", true},
		{"Z", true},
		{"7", true},
		{" x ", true},
		{"ab", false},
		{".", false},
		{"", false},
	}

	for _, tt := range tests {
		item := TextItem{Text: tt.text}
		if got := item.IsSingleAlnum(); got != tt.want {
			t.Errorf("IsSingleAlnum(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestRuling_Orientation(t *testing.T) {
	h := Ruling{Start: Point{X: 0, Y: 100}, End: Point{X: 200, Y: 101}}
	if !h.IsHorizontal() || h.IsVertical() {
		t.Error("Expected horizontal ruling")
	}

	v := Ruling{Start: Point{X: 50, Y: 0}, End: Point{X: 51, Y: 300}}
	if !v.IsVertical() || v.IsHorizontal() {
		t.Error("Expected vertical ruling")
	}
}

func TestPageInput_HasPositions(t *testing.T) {
	page := PageInput{
		Items: []TextItem{{Text: "x"}}, // No bbox at all
	}
	if page.HasPositions() {
		t.Error("Items without any box should not count as positioned")
	}

	page.Items = []TextItem{{
		Text: "ghost",
		BBox: NewBBox(100, 200, 0, 0), // Placed, but zero-area
	}}
	if !page.HasPositions() {
		t.Error("A placed zero-area item still carries position data")
	}

	page.Items = append(page.Items, TextItem{
		Text: "y",
		BBox: NewBBox(0, 0, 10, 10),
	})
	if !page.HasPositions() {
		t.Error("Expected positioned input")
	}
}

func TestStructuredTable_Rendering(t *testing.T) {
	table := &StructuredTable{
		Headers: []string{"Item", "Cost"},
		Rows: [][]TypedCell{
			{
				{Type: CellText, Text: "Widget"},
				{Type: CellCurrency, Value: 9.99, Currency: "USD", Text: "$9.99"},
			},
			{
				{Type: CellText, Text: "A, B"},
				{Type: CellNumber, Value: 3, Text: "3"},
			},
		},
	}

	md := table.ToMarkdown()
	if !strings.Contains(md, "| Item | Cost |") {
		t.Errorf("Markdown missing header row: %q", md)
	}
	if !strings.Contains(md, "|---|---|") {
		t.Errorf("Markdown missing separator: %q", md)
	}

	csv := table.ToCSV()
	if !strings.Contains(csv, "\"A, B\"") {
		t.Errorf("CSV should quote fields containing commas: %q", csv)
	}

	txt := table.Text()
	if !strings.HasPrefix(txt, "Item\tCost\n") {
		t.Errorf("Text rendering missing header: %q", txt)
	}

	if cell := table.CellAt(0, 1); cell == nil || cell.Currency != "USD" {
		t.Error("CellAt(0,1) should return the currency cell")
	}
	if table.CellAt(5, 0) != nil {
		t.Error("Out-of-bounds CellAt should return nil")
	}
}

func TestNumericMetadata_Merge(t *testing.T) {
	a := &NumericMetadata{ValueCount: 2, MinValue: 1, MaxValue: 10, Currencies: []string{"USD"}}
	b := &NumericMetadata{ValueCount: 1, MinValue: -5, MaxValue: 3, Currencies: []string{"USD", "EUR"}, HasPercentage: true}

	a.Merge(b)

	if a.ValueCount != 3 {
		t.Errorf("Expected count 3, got %d", a.ValueCount)
	}
	if a.MinValue != -5 || a.MaxValue != 10 {
		t.Errorf("Expected range [-5,10], got [%f,%f]", a.MinValue, a.MaxValue)
	}
	if len(a.Currencies) != 2 {
		t.Errorf("Expected 2 distinct currencies, got %v", a.Currencies)
	}
	if !a.HasPercentage {
		t.Error("Expected percentage flag to carry over")
	}
	if !a.HasFinancialData() {
		t.Error("Expected financial data")
	}
}

func TestNewChunk_Statistics(t *testing.T) {
	chunk := NewChunk("hello world again", 3, ChunkMetadata{ChunkIndex: 7})

	if chunk.Metadata.CharCount != 17 {
		t.Errorf("Expected 17 chars, got %d", chunk.Metadata.CharCount)
	}
	if chunk.Metadata.WordCount != 3 {
		t.Errorf("Expected 3 words, got %d", chunk.Metadata.WordCount)
	}
	if chunk.PageNumber == nil || *chunk.PageNumber != 3 {
		t.Error("Expected page number 3")
	}

	nonPaged := NewChunk("text", 0, ChunkMetadata{})
	if nonPaged.PageNumber != nil {
		t.Error("Non-paged chunk should have nil page number")
	}
}

func TestChunk_TextWithContext(t *testing.T) {
	chunk := NewChunk("body", 1, ChunkMetadata{
		Headings: []string{"Report", "Revenue"},
	})

	withCtx := chunk.TextWithContext()
	if !strings.HasPrefix(withCtx, "[Revenue]") {
		t.Errorf("Expected nearest heading prefix, got %q", withCtx)
	}
	if chunk.HeadingPath() != "Report > Revenue" {
		t.Errorf("Unexpected heading path: %q", chunk.HeadingPath())
	}
}

func TestEnums_String(t *testing.T) {
	if LayoutMultiColumnText.String() != "multi_column_text" {
		t.Error("LayoutMultiColumnText string mismatch")
	}
	if UnitTableRow.String() != "table_row" {
		t.Error("UnitTableRow string mismatch")
	}
	if CellPercentage.String() != "percentage" {
		t.Error("CellPercentage string mismatch")
	}
	if RegionTableJSON.String() != "table_json" {
		t.Error("RegionTableJSON string mismatch")
	}
	if !UnitTableHeader.IsTabular() || UnitParagraph.IsTabular() {
		t.Error("IsTabular mismatch")
	}
	if !LayoutMixedContent.IsMultiColumn() || LayoutSingleColumn.IsMultiColumn() {
		t.Error("IsMultiColumn mismatch")
	}
}
