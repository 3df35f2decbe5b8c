package tables

import (
	"strings"
	"testing"

	"github.com/tsawler/lamina/model"
)

func makeItem(text string, x, y, w, h float64) model.TextItem {
	return model.TextItem{
		Text:     text,
		BBox:     model.NewBBox(x, y, w, h),
		FontSize: 10,
	}
}

func makeLine(index int, items ...model.TextItem) model.Line {
	texts := make([]string, len(items))
	bbox := items[0].BBox
	for i, item := range items {
		texts[i] = item.Text
		bbox = bbox.Union(item.BBox)
	}
	return model.Line{
		Items:           items,
		Text:            strings.Join(texts, " "),
		BBox:            bbox,
		Index:           index,
		AverageFontSize: 10,
	}
}

func horizontalRuling(y, x0, x1 float64) model.Ruling {
	return model.Ruling{
		Start: model.Point{X: x0, Y: y},
		End:   model.Point{X: x1, Y: y},
		Width: 1,
	}
}

func verticalRuling(x, y0, y1 float64) model.Ruling {
	return model.Ruling{
		Start: model.Point{X: x, Y: y0},
		End:   model.Point{X: x, Y: y1},
		Width: 1,
	}
}

func TestRuledDetectorFindsGrid(t *testing.T) {
	// 3 rows x 2 columns bounded by 4 horizontal and 3 vertical rulings.
	rulings := []model.Ruling{
		horizontalRuling(0, 0, 200),
		horizontalRuling(20, 0, 200),
		horizontalRuling(40, 0, 200),
		horizontalRuling(60, 0, 200),
		verticalRuling(0, 0, 60),
		verticalRuling(100, 0, 60),
		verticalRuling(200, 0, 60),
	}

	lines := []model.Line{
		makeLine(0, makeItem("Item", 10, 5, 40, 10), makeItem("Cost", 110, 5, 40, 10)),
		makeLine(1, makeItem("Widget", 10, 25, 40, 10), makeItem("5.00", 110, 25, 40, 10)),
		makeLine(2, makeItem("Gadget", 10, 45, 40, 10), makeItem("7.50", 110, 45, 40, 10)),
	}

	detector := NewRuledDetector()
	candidates, err := detector.Detect(Input{Lines: lines, Rulings: rulings})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}

	c := candidates[0]
	if c.Source != "ruled" {
		t.Errorf("expected source ruled, got %q", c.Source)
	}
	if len(c.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(c.Rows))
	}
	if c.Rows[0][0] != "Item" || c.Rows[0][1] != "Cost" {
		t.Errorf("unexpected first row: %v", c.Rows[0])
	}
	if c.Rows[2][0] != "Gadget" || c.Rows[2][1] != "7.50" {
		t.Errorf("unexpected last row: %v", c.Rows[2])
	}
	if c.Confidence < 0.5 {
		t.Errorf("expected confidence >= 0.5, got %f", c.Confidence)
	}
	if len(c.Lines) != 3 {
		t.Errorf("expected 3 covered lines, got %d", len(c.Lines))
	}
}

func TestRuledDetectorIgnoresSparseRulings(t *testing.T) {
	rulings := []model.Ruling{
		horizontalRuling(0, 0, 200),
		horizontalRuling(60, 0, 200),
	}
	lines := []model.Line{
		makeLine(0, makeItem("some", 10, 5, 40, 10)),
	}

	detector := NewRuledDetector()
	candidates, err := detector.Detect(Input{Lines: lines, Rulings: rulings})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates, got %d", len(candidates))
	}
}

func TestContentDetectorFindsNumericRows(t *testing.T) {
	lines := []model.Line{
		makeLine(0, makeItem("Revenue", 0, 0, 60, 10), makeItem("$1,234", 200, 0, 60, 10)),
		makeLine(1, makeItem("Costs", 0, 20, 60, 10), makeItem("$890", 200, 20, 60, 10)),
		makeLine(2, makeItem("Profit", 0, 40, 60, 10), makeItem("$344", 200, 40, 60, 10)),
	}

	detector := NewContentDetector()
	candidates, err := detector.Detect(Input{Lines: lines})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Source != "content" {
		t.Errorf("expected source content, got %q", c.Source)
	}
	if len(c.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(c.Rows))
	}
}

func TestContentDetectorRejectsNumberHeavyProse(t *testing.T) {
	prose := []string{
		"The revenue of the company increased by 15 percent over the course of the year to $4.2 million.",
		"The costs for the same period were reduced by 8 percent as a result of the restructuring plan.",
		"The profit is expected to grow by 20 percent in the next year according to the guidance.",
	}

	var lines []model.Line
	for i, text := range prose {
		lines = append(lines, makeLine(i, makeItem(text, 0, float64(i*20), 500, 10)))
	}

	detector := NewContentDetector()
	candidates, err := detector.Detect(Input{Lines: lines})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected prose to yield no candidates, got %d", len(candidates))
	}
}

func TestBorderlessDetectorAlignedColumns(t *testing.T) {
	lines := []model.Line{
		makeLine(0, makeItem("Region", 0, 0, 60, 10), makeItem("Sales", 200, 0, 60, 10)),
		makeLine(1, makeItem("North", 0, 20, 60, 10), makeItem("120", 200, 20, 60, 10)),
		makeLine(2, makeItem("South", 0, 40, 60, 10), makeItem("95", 200, 40, 60, 10)),
	}

	detector := NewBorderlessDetector()
	candidates, err := detector.Detect(Input{Lines: lines})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.Source != "borderless" {
		t.Errorf("expected source borderless, got %q", c.Source)
	}
	if len(c.Rows) != 3 {
		t.Errorf("expected 3 rows, got %d", len(c.Rows))
	}
}

func TestBorderlessDetectorRejectsMisalignedRows(t *testing.T) {
	lines := []model.Line{
		makeLine(0, makeItem("a", 0, 0, 30, 10), makeItem("b", 200, 0, 30, 10)),
		makeLine(1, makeItem("c", 60, 20, 30, 10), makeItem("d", 300, 20, 30, 10)),
		makeLine(2, makeItem("e", 120, 40, 30, 10), makeItem("f", 400, 40, 30, 10)),
	}

	detector := NewBorderlessDetector()
	candidates, err := detector.Detect(Input{Lines: lines})
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}
	if len(candidates) != 0 {
		t.Errorf("expected no candidates for misaligned rows, got %d", len(candidates))
	}
}

func TestMergeRuledPriority(t *testing.T) {
	bbox := model.NewBBox(0, 0, 200, 60)
	ruled := Candidate{BBox: bbox, Confidence: 0.6, Source: "ruled"}
	content := Candidate{BBox: bbox, Confidence: 0.9, Source: "content"}
	elsewhere := Candidate{BBox: model.NewBBox(0, 200, 200, 60), Confidence: 0.55, Source: "borderless"}

	merged := mergeCandidates([]Candidate{content, ruled, elsewhere}, DefaultConfig())
	if len(merged) != 2 {
		t.Fatalf("expected 2 candidates after merge, got %d", len(merged))
	}
	if merged[0].Source != "ruled" {
		t.Errorf("expected ruled candidate to win overlap, got %q", merged[0].Source)
	}
	if merged[1].Source != "borderless" {
		t.Errorf("expected non-overlapping borderless candidate kept, got %q", merged[1].Source)
	}
}

func TestStructurerInfersHeader(t *testing.T) {
	candidate := Candidate{
		Rows: [][]string{
			{"Item", "Cost"},
			{"Widget", "$5.00"},
			{"Gadget", "$7.50"},
		},
		Confidence: 0.8,
		Source:     "ruled",
	}

	table := NewStructurer().Structure(candidate)
	if table == nil {
		t.Fatal("expected a table")
	}
	if table.Headers[0] != "Item" || table.Headers[1] != "Cost" {
		t.Errorf("unexpected headers: %v", table.Headers)
	}
	if table.RowCount() != 2 {
		t.Fatalf("expected 2 data rows, got %d", table.RowCount())
	}
	if table.Rows[0][1].Type != model.CellCurrency {
		t.Errorf("expected currency cell, got %v", table.Rows[0][1].Type)
	}
	if table.Summary.ColumnTypes[1] != model.CellCurrency {
		t.Errorf("expected currency column, got %v", table.Summary.ColumnTypes[1])
	}
	if len(table.Summary.Currencies) != 1 || table.Summary.Currencies[0] != "USD" {
		t.Errorf("unexpected currencies: %v", table.Summary.Currencies)
	}
}

func TestStructurerSynthesizesHeaders(t *testing.T) {
	candidate := Candidate{
		Rows: [][]string{
			{"1", "2"},
			{"3", "4"},
		},
	}

	table := NewStructurer().Structure(candidate)
	if table == nil {
		t.Fatal("expected a table")
	}
	if table.Headers[0] != "col_1" || table.Headers[1] != "col_2" {
		t.Errorf("expected synthetic headers, got %v", table.Headers)
	}
	if table.RowCount() != 2 {
		t.Errorf("expected both rows kept as data, got %d", table.RowCount())
	}
}

func TestStructurerPadsRaggedRows(t *testing.T) {
	candidate := Candidate{
		Rows: [][]string{
			{"a", "b", "c"},
			{"d"},
		},
	}

	table := NewStructurer().Structure(candidate)
	if table == nil {
		t.Fatal("expected a table")
	}
	if table.ColCount() != 3 {
		t.Fatalf("expected 3 columns, got %d", table.ColCount())
	}
	for _, row := range table.Rows {
		if len(row) != 3 {
			t.Errorf("expected padded row of 3 cells, got %d", len(row))
		}
	}
}

func TestStructurerTiedColumnVoteIsStable(t *testing.T) {
	candidate := Candidate{
		Rows: [][]string{
			{"1"},
			{"alpha"},
			{"2"},
			{"beta"},
		},
	}

	// Two number cells against two text cells; the vote must land on the
	// same type every run
	for run := 0; run < 20; run++ {
		table := NewStructurer().Structure(candidate)
		if table == nil {
			t.Fatal("expected a table")
		}
		if table.Summary.ColumnTypes[0] != model.CellText {
			t.Fatalf("run %d: tied column resolved to %v, want text", run, table.Summary.ColumnTypes[0])
		}
	}
}

func TestPipelineAcceptanceFloor(t *testing.T) {
	pipeline := NewPipeline()
	candidate := Candidate{Confidence: 0.6, Source: "content"}

	if got := pipeline.accept([]Candidate{candidate}, model.LayoutSingleColumn); len(got) != 1 {
		t.Errorf("expected acceptance on single-column page, got %d", len(got))
	}
	if got := pipeline.accept([]Candidate{candidate}, model.LayoutMultiColumnText); len(got) != 0 {
		t.Errorf("expected raised floor to reject on multi-column page, got %d", len(got))
	}

	ruled := Candidate{Confidence: 0.6, Source: "ruled"}
	if got := pipeline.accept([]Candidate{ruled}, model.LayoutMultiColumnText); len(got) != 1 {
		t.Errorf("expected ruled candidate unaffected by raise, got %d", len(got))
	}
}

func TestPipelineProseResidual(t *testing.T) {
	lines := []model.Line{
		makeLine(0, makeItem("An introduction covering the scope of the report in plain prose.", 0, 0, 400, 10)),
		makeLine(1, makeItem("A second paragraph continuing the discussion with more detail.", 0, 20, 400, 10)),
	}

	result := NewPipeline().Run(Input{Lines: lines}, model.LayoutSingleColumn)
	if len(result.Regions) != 0 {
		t.Errorf("expected no table regions, got %d", len(result.Regions))
	}
	if len(result.Residual) != 2 {
		t.Errorf("expected all lines residual, got %d", len(result.Residual))
	}
}

func TestPipelineStructuresRuledTable(t *testing.T) {
	rulings := []model.Ruling{
		horizontalRuling(0, 0, 200),
		horizontalRuling(20, 0, 200),
		horizontalRuling(40, 0, 200),
		horizontalRuling(60, 0, 200),
		verticalRuling(0, 0, 60),
		verticalRuling(100, 0, 60),
		verticalRuling(200, 0, 60),
	}
	lines := []model.Line{
		makeLine(0, makeItem("Item", 10, 5, 40, 10), makeItem("Cost", 110, 5, 40, 10)),
		makeLine(1, makeItem("Widget", 10, 25, 40, 10), makeItem("$5.00", 110, 25, 40, 10)),
		makeLine(2, makeItem("Gadget", 10, 45, 40, 10), makeItem("$7.50", 110, 45, 40, 10)),
	}

	result := NewPipeline().Run(Input{Lines: lines, Rulings: rulings}, model.LayoutSingleColumn)
	if len(result.Regions) != 1 {
		t.Fatalf("expected 1 table region, got %d", len(result.Regions))
	}
	region := result.Regions[0]
	if region.Type != model.RegionTableJSON {
		t.Errorf("expected table_json region, got %v", region.Type)
	}
	if region.Table == nil {
		t.Fatal("expected structured table attached to region")
	}
	if region.Table.Summary.Source != "ruled" {
		t.Errorf("expected ruled provenance, got %q", region.Table.Summary.Source)
	}
	if len(result.Residual) != 0 {
		t.Errorf("expected no residual lines, got %d", len(result.Residual))
	}
}
