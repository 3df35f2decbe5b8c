package layout

import (
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/lamina/model"
)

func item(text string, x, y, w, h float64) model.TextItem {
	return model.TextItem{
		Text:     text,
		BBox:     model.NewBBox(x, y, w, h),
		FontSize: h,
	}
}

func testLine(index int, text string, x, y, w, h float64) model.Line {
	it := item(text, x, y, w, h)
	return model.Line{
		Items:           []model.TextItem{it},
		Text:            text,
		BBox:            it.BBox,
		Index:           index,
		AverageFontSize: h,
	}
}

func TestLineBuilderGroupsByYBand(t *testing.T) {
	items := []model.TextItem{
		item("world", 60, 0, 40, 10),
		item("hello", 0, 1, 40, 10),
		item("below", 0, 30, 40, 10),
	}

	lines := NewLineBuilder().Build(items)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "hello world" {
		t.Errorf("expected %q, got %q", "hello world", lines[0].Text)
	}
	if lines[1].Text != "below" {
		t.Errorf("expected %q, got %q", "below", lines[1].Text)
	}
	if lines[0].Index != 0 || lines[1].Index != 1 {
		t.Errorf("expected sequential indices, got %d and %d", lines[0].Index, lines[1].Index)
	}
}

func TestLineBuilderEmptyInput(t *testing.T) {
	if lines := NewLineBuilder().Build(nil); lines != nil {
		t.Errorf("expected nil for empty input, got %v", lines)
	}
	blank := []model.TextItem{item("   ", 0, 0, 10, 10)}
	if lines := NewLineBuilder().Build(blank); lines != nil {
		t.Errorf("expected nil for blank items, got %v", lines)
	}
}

func TestLineBuilderRejoinsOversegmentedItems(t *testing.T) {
	// Per-character items with tight spacing, as produced by some
	// extractors
	items := []model.TextItem{
		item("H", 0, 0, 8, 10),
		item("e", 9, 0, 8, 10),
		item("l", 18, 0, 8, 10),
		item("l", 27, 0, 8, 10),
		item("o", 36, 0, 8, 10),
	}

	lines := NewLineBuilder().Build(items)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Text != "Hello" {
		t.Errorf("expected rejoined %q, got %q", "Hello", lines[0].Text)
	}
}

func TestClassifierSingleColumn(t *testing.T) {
	var lines []model.Line
	for i := 0; i < 10; i++ {
		lines = append(lines, testLine(i, "a full width line of prose text", 50, float64(i*20), 450, 10))
	}

	result := NewClassifier().Classify(lines, model.NewBBox(0, 0, 600, 400))
	if result.Type != model.LayoutSingleColumn {
		t.Errorf("expected single_column, got %s", result.Type)
	}
	if len(result.Columns) != 1 {
		t.Errorf("expected one covering column, got %d", len(result.Columns))
	}
}

func TestClassifierTwoColumns(t *testing.T) {
	// Two aligned clusters of 8 lines separated by a wide gutter
	var lines []model.Line
	for i := 0; i < 8; i++ {
		lines = append(lines, testLine(i*2, "left column text", 50, float64(i*20), 200, 10))
		lines = append(lines, testLine(i*2+1, "right column text", 350, float64(i*20), 200, 10))
	}

	result := NewClassifier().Classify(lines, model.NewBBox(0, 0, 600, 400))
	if result.Type != model.LayoutMultiColumnText {
		t.Fatalf("expected multi_column_text, got %s (score %f)", result.Type, result.Evidence.Total())
	}
	if len(result.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(result.Columns))
	}
	if result.Columns[0].BBox.Left() >= result.Columns[1].BBox.Left() {
		t.Errorf("expected columns ordered left to right")
	}
	if result.Evidence.XCluster <= 0 || result.Evidence.WhitespaceGap <= 0 {
		t.Errorf("expected positive cluster and gap evidence, got %+v", result.Evidence)
	}
}

func TestClassifierEmptyPage(t *testing.T) {
	result := NewClassifier().Classify(nil, model.BBox{})
	if result.Type != model.LayoutSingleColumn {
		t.Errorf("expected single_column for empty page, got %s", result.Type)
	}
	if result.Confidence != 1.0 {
		t.Errorf("expected confidence 1.0, got %f", result.Confidence)
	}
}

func TestClassifyLine(t *testing.T) {
	tests := []struct {
		name string
		text string
		font float64
		want LineClass
	}{
		{"prose", "the quick brown fox jumps over the lazy dog near the river bank today", 10, ClassParagraphLine},
		{"all caps heading", "EXECUTIVE SUMMARY", 10, ClassHeadingLine},
		{"title cased heading", "Quarterly Revenue Overview", 10, ClassHeadingLine},
		{"large font heading", "results", 14, ClassHeadingLine},
		{"section number heading", "2.1 Operating Expenses", 10, ClassHeadingLine},
		{"bullet glyph", "• first point", 10, ClassBulletLine},
		{"dash bullet", "- second point", 10, ClassBulletLine},
		{"numbered bullet", "1. third point", 10, ClassBulletLine},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := testLine(0, tt.text, 0, 0, 100, tt.font)
			got := ClassifyLine(line, 10, DefaultUnitConfig())
			if got != tt.want {
				t.Errorf("ClassifyLine(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAssemblerReadingOrderStrictlyIncreasing(t *testing.T) {
	lines := []model.Line{
		testLine(0, "INTRODUCTION", 50, 0, 100, 10),
		testLine(1, "First paragraph line one continues here quietly", 50, 20, 400, 10),
		testLine(2, "and line two of the same paragraph", 50, 32, 400, 10),
		testLine(3, "• a bullet point", 50, 60, 200, 10),
	}

	units := NewAssembler().Assemble(1, lines, nil, nil, model.LayoutSingleColumn)
	if len(units) < 3 {
		t.Fatalf("expected at least 3 units, got %d", len(units))
	}
	for i, unit := range units {
		if unit.ReadingOrder != i {
			t.Errorf("unit %d has reading order %d", i, unit.ReadingOrder)
		}
		if unit.Page != 1 {
			t.Errorf("unit %d has page %d", i, unit.Page)
		}
	}
}

func TestAssemblerHeadingWindow(t *testing.T) {
	lines := []model.Line{
		testLine(0, "ANNUAL REPORT", 50, 0, 150, 10),
		testLine(1, "FINANCIALS", 50, 20, 120, 10),
		testLine(2, "REVENUE", 50, 40, 100, 10),
		testLine(3, "EXPENSES", 50, 60, 100, 10),
		testLine(4, "a paragraph discussing the figures shown above it", 50, 80, 400, 10),
	}

	units := NewAssembler().Assemble(0, lines, nil, nil, model.LayoutSingleColumn)
	last := units[len(units)-1]
	if last.Type != model.UnitParagraph {
		t.Fatalf("expected trailing paragraph, got %s", last.Type)
	}
	// Window is bounded at 3 nearest headings; the oldest falls out
	if len(last.Headings) != 3 {
		t.Fatalf("expected 3 context headings, got %d: %v", len(last.Headings), last.Headings)
	}
	want := []string{"FINANCIALS", "REVENUE", "EXPENSES"}
	for i, heading := range want {
		if last.Headings[i] != heading {
			t.Errorf("heading %d = %q, want %q", i, last.Headings[i], heading)
		}
	}
	// The first heading sees no context
	if len(units[0].Headings) != 0 {
		t.Errorf("expected no context on first unit, got %v", units[0].Headings)
	}
}

func TestAssemblerParagraphGrouping(t *testing.T) {
	lines := []model.Line{
		testLine(0, "first paragraph starts here and", 50, 0, 400, 10),
		testLine(1, "continues on the next line", 50, 12, 400, 10),
		testLine(2, "second paragraph after a wide gap", 50, 80, 400, 10),
	}

	units := NewAssembler().Assemble(0, lines, nil, nil, model.LayoutSingleColumn)
	if len(units) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(units))
	}
	if !strings.Contains(units[0].Text, "continues on the next line") {
		t.Errorf("expected merged paragraph, got %q", units[0].Text)
	}
	if units[0].StartLine != 0 || units[0].EndLine != 1 {
		t.Errorf("unexpected line range %d-%d", units[0].StartLine, units[0].EndLine)
	}
}

func TestAssemblerColumnarOrdering(t *testing.T) {
	columns := []model.Column{
		{BBox: model.NewBBox(50, 0, 200, 200), Index: 0, LineCount: 2},
		{BBox: model.NewBBox(350, 0, 200, 200), Index: 1, LineCount: 2},
	}
	lines := []model.Line{
		testLine(0, "left top paragraph text here", 50, 0, 180, 10),
		testLine(1, "right top paragraph text here", 350, 0, 180, 10),
		testLine(2, "left bottom paragraph text here", 50, 100, 180, 10),
		testLine(3, "right bottom paragraph text here", 350, 100, 180, 10),
	}

	units := NewAssembler().Assemble(0, lines, nil, columns, model.LayoutMultiColumnText)
	if len(units) != 4 {
		t.Fatalf("expected 4 units, got %d", len(units))
	}
	for i, unit := range units[:2] {
		if unit.ColumnIndex != 0 {
			t.Errorf("unit %d expected in column 0, got %d", i, unit.ColumnIndex)
		}
	}
	for i, unit := range units[2:] {
		if unit.ColumnIndex != 1 {
			t.Errorf("unit %d expected in column 1, got %d", i+2, unit.ColumnIndex)
		}
	}
}

func TestAssemblerAttachesNumericMetadata(t *testing.T) {
	lines := []model.Line{
		testLine(0, "revenue grew to $4.2 million, up 15% from last year", 50, 0, 400, 10),
	}

	units := NewAssembler().Assemble(0, lines, nil, nil, model.LayoutSingleColumn)
	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d", len(units))
	}
	meta := units[0].Numeric
	if meta == nil {
		t.Fatal("expected numeric metadata")
	}
	if !meta.HasFinancialData() {
		t.Errorf("expected financial data flag, got %+v", meta)
	}
	if !meta.HasPercentage {
		t.Errorf("expected percentage flag")
	}
}

func TestRuleBasedInferrerRequiresPositions(t *testing.T) {
	page := model.PageInput{
		Number: 1,
		Items:  []model.TextItem{{Text: "positionless"}},
	}

	_, err := NewRuleBasedInferrer().Infer(page)
	if !errors.Is(err, ErrNoPositions) {
		t.Fatalf("expected ErrNoPositions, got %v", err)
	}
}

func TestRuleBasedInferrerDegenerateBoxes(t *testing.T) {
	page := model.PageInput{
		Number: 1,
		Items: []model.TextItem{
			{Text: "ghost", BBox: model.NewBBox(100, 200, 0, 0)},
			{Text: "shade", BBox: model.NewBBox(100, 220, 0, 0)},
		},
	}

	result, err := NewRuleBasedInferrer().Infer(page)
	if err != nil {
		t.Fatalf("zero-area items should degrade, not fail: %v", err)
	}
	if len(result.Units) != 0 {
		t.Errorf("expected no units, got %d", len(result.Units))
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the skipped page")
	}
}

func TestRuleBasedInferrerEndToEnd(t *testing.T) {
	var items []model.TextItem
	items = append(items, item("OVERVIEW", 50, 0, 100, 10))
	items = append(items, item("The report covers the results of the last fiscal year.", 50, 20, 450, 10))

	page := model.PageInput{
		Number: 1,
		BBox:   model.NewBBox(0, 0, 600, 400),
		Items:  items,
	}

	result, err := NewRuleBasedInferrer().Infer(page)
	if err != nil {
		t.Fatalf("Infer returned error: %v", err)
	}
	if result.Layout != model.LayoutSingleColumn {
		t.Errorf("expected single_column, got %s", result.Layout)
	}
	if len(result.Units) != 2 {
		t.Fatalf("expected 2 units, got %d", len(result.Units))
	}
	if result.Units[0].Type != model.UnitHeading {
		t.Errorf("expected heading first, got %s", result.Units[0].Type)
	}
	if result.Units[1].Type != model.UnitParagraph {
		t.Errorf("expected paragraph second, got %s", result.Units[1].Type)
	}
	if len(result.Units[1].Headings) != 1 || result.Units[1].Headings[0] != "OVERVIEW" {
		t.Errorf("expected heading context, got %v", result.Units[1].Headings)
	}
}

func TestDensityInferrerTwoStreams(t *testing.T) {
	var items []model.TextItem
	for i := 0; i < 8; i++ {
		y := float64(i * 20)
		items = append(items,
			item("left", 50, y, 60, 10),
			item("column", 115, y, 60, 10),
			item("right", 350, y, 60, 10),
			item("column", 415, y, 60, 10),
		)
	}

	page := model.PageInput{
		Number: 1,
		BBox:   model.NewBBox(0, 0, 600, 400),
		Items:  items,
	}

	inferrer := NewDensityInferrer()
	result, err := inferrer.Infer(page)
	if err != nil {
		t.Fatalf("Infer returned error: %v", err)
	}
	if result.Layout != model.LayoutMultiColumnText {
		t.Errorf("expected multi_column_text, got %s", result.Layout)
	}
	if len(result.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(result.Columns))
	}
	if result.Confidence <= 0.5 {
		t.Errorf("expected strong stream separation, got %f", result.Confidence)
	}
}

func TestDensityInferrerSingleStream(t *testing.T) {
	var items []model.TextItem
	for i := 0; i < 8; i++ {
		items = append(items, item("a full width line of text", 50, float64(i*20), 450, 10))
	}

	page := model.PageInput{
		Number: 1,
		BBox:   model.NewBBox(0, 0, 600, 400),
		Items:  items,
	}

	result, err := NewDensityInferrer().Infer(page)
	if err != nil {
		t.Fatalf("Infer returned error: %v", err)
	}
	if result.Layout != model.LayoutSingleColumn {
		t.Errorf("expected single_column, got %s", result.Layout)
	}
}
