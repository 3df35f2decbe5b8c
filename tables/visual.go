package tables

import (
	"sort"
	"strings"

	"github.com/tsawler/lamina/model"
)

// RuledDetector finds tables from visible grid structure: page rectangles
// and ruled lines are clustered into horizontal and vertical grid
// boundaries, and regions whose boundaries intersect to form at least a
// 2x2 cell grid become candidates.
type RuledDetector struct {
	config Config
}

// NewRuledDetector creates a ruled-grid detector with default configuration.
func NewRuledDetector() *RuledDetector {
	return &RuledDetector{config: DefaultConfig()}
}

// Name returns the detector's identifier ("ruled").
func (d *RuledDetector) Name() string {
	return "ruled"
}

// Configure sets the detector configuration.
func (d *RuledDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// segment is one axis-aligned line extent extracted from a ruling or a
// rectangle edge.
type segment struct {
	pos   float64 // Y for horizontal segments, X for vertical
	start float64 // Extent start along the other axis
	end   float64 // Extent end along the other axis
}

// Detect finds ruled-grid table candidates.
func (d *RuledDetector) Detect(input Input) ([]Candidate, error) {
	horizontals, verticals := collectSegments(input.Rects, input.Rulings)
	if len(horizontals) < d.config.MinRows+1 || len(verticals) < d.config.MinCols+1 {
		return nil, nil
	}

	rowBounds := clusterSegments(horizontals, d.config.BoundaryClusterGap)
	colBounds := clusterSegments(verticals, d.config.BoundaryClusterGap)

	if len(rowBounds) < d.config.MinRows+1 || len(colBounds) < d.config.MinCols+1 {
		return nil, nil
	}

	gridBBox := model.NewBBoxFromCorners(
		colBounds[0].pos, rowBounds[0].pos,
		colBounds[len(colBounds)-1].pos, rowBounds[len(rowBounds)-1].pos,
	)

	// Each boundary must actually span most of the grid for the lines to
	// form intersecting cells rather than scattered rules
	coverage := boundaryCoverage(rowBounds, gridBBox.Left(), gridBBox.Right()) *
		boundaryCoverage(colBounds, gridBBox.Top(), gridBBox.Bottom())
	if coverage < 0.25 {
		return nil, nil
	}

	rows := d.extractCellRows(input.Lines, rowBounds, colBounds)
	if len(rows) < d.config.MinRows {
		return nil, nil
	}

	covered := linesWithin(input.Lines, gridBBox)

	candidate := Candidate{
		BBox:       gridBBox,
		Rows:       rows,
		Lines:      covered,
		Confidence: 0.5 + 0.5*coverage,
		Source:     "ruled",
	}

	return []Candidate{candidate}, nil
}

// collectSegments extracts horizontal and vertical segments from rects and
// rulings. Rectangle edges contribute one segment per side.
func collectSegments(rects []model.Rect, rulings []model.Ruling) (horizontals, verticals []segment) {
	for _, ruling := range rulings {
		switch {
		case ruling.IsHorizontal():
			y := (ruling.Start.Y + ruling.End.Y) / 2
			x0, x1 := ruling.Start.X, ruling.End.X
			if x0 > x1 {
				x0, x1 = x1, x0
			}
			horizontals = append(horizontals, segment{pos: y, start: x0, end: x1})
		case ruling.IsVertical():
			x := (ruling.Start.X + ruling.End.X) / 2
			y0, y1 := ruling.Start.Y, ruling.End.Y
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			verticals = append(verticals, segment{pos: x, start: y0, end: y1})
		}
	}

	for _, rect := range rects {
		b := rect.BBox
		// Thin rectangles are drawn lines, not cell borders
		if b.Height <= 2.0 && b.Width > 2.0 {
			horizontals = append(horizontals, segment{pos: b.CenterY(), start: b.Left(), end: b.Right()})
			continue
		}
		if b.Width <= 2.0 && b.Height > 2.0 {
			verticals = append(verticals, segment{pos: b.CenterX(), start: b.Top(), end: b.Bottom()})
			continue
		}
		horizontals = append(horizontals,
			segment{pos: b.Top(), start: b.Left(), end: b.Right()},
			segment{pos: b.Bottom(), start: b.Left(), end: b.Right()},
		)
		verticals = append(verticals,
			segment{pos: b.Left(), start: b.Top(), end: b.Bottom()},
			segment{pos: b.Right(), start: b.Top(), end: b.Bottom()},
		)
	}

	return horizontals, verticals
}

// clusterSegments merges segments whose positions fall within the cluster
// gap into single grid boundaries, sorted by position.
func clusterSegments(segments []segment, gap float64) []segment {
	if len(segments) == 0 {
		return nil
	}

	sorted := make([]segment, len(segments))
	copy(sorted, segments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].pos < sorted[j].pos
	})

	clustered := []segment{sorted[0]}
	for _, seg := range sorted[1:] {
		last := &clustered[len(clustered)-1]
		if seg.pos-last.pos <= gap {
			// Merge extents; keep the first position as the boundary
			if seg.start < last.start {
				last.start = seg.start
			}
			if seg.end > last.end {
				last.end = seg.end
			}
		} else {
			clustered = append(clustered, seg)
		}
	}

	return clustered
}

// boundaryCoverage returns the mean fraction of the span covered by the
// boundaries' extents.
func boundaryCoverage(bounds []segment, spanStart, spanEnd float64) float64 {
	span := spanEnd - spanStart
	if span <= 0 || len(bounds) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range bounds {
		extent := b.end - b.start
		if extent > span {
			extent = span
		}
		total += extent / span
	}
	return total / float64(len(bounds))
}

// extractCellRows slices the page's lines into the grid's cells and
// returns the cell texts row-major. Empty trailing rows are dropped.
func (d *RuledDetector) extractCellRows(lines []model.Line, rowBounds, colBounds []segment) [][]string {
	rowCount := len(rowBounds) - 1
	colCount := len(colBounds) - 1

	rows := make([][]strings.Builder, rowCount)
	for i := range rows {
		rows[i] = make([]strings.Builder, colCount)
	}

	for _, line := range lines {
		for _, item := range line.Items {
			center := item.BBox.Center()
			row := bucketIndex(rowBounds, center.Y)
			col := bucketIndex(colBounds, center.X)
			if row < 0 || col < 0 {
				continue
			}
			cell := &rows[row][col]
			if cell.Len() > 0 {
				cell.WriteString(" ")
			}
			cell.WriteString(item.Text)
		}
	}

	var result [][]string
	for _, row := range rows {
		texts := make([]string, colCount)
		empty := true
		for j := range row {
			texts[j] = strings.TrimSpace(row[j].String())
			if texts[j] != "" {
				empty = false
			}
		}
		if !empty {
			result = append(result, texts)
		}
	}

	return result
}

// bucketIndex finds which boundary interval contains the coordinate, or -1.
func bucketIndex(bounds []segment, coord float64) int {
	for i := 0; i < len(bounds)-1; i++ {
		if coord >= bounds[i].pos && coord < bounds[i+1].pos {
			return i
		}
	}
	return -1
}

// linesWithin returns the lines whose centers fall inside the bbox.
func linesWithin(lines []model.Line, bbox model.BBox) []model.Line {
	var covered []model.Line
	for _, line := range lines {
		if bbox.Contains(line.BBox.Center()) {
			covered = append(covered, line)
		}
	}
	return covered
}
