package tables

import (
	"sort"
	"strings"

	"github.com/tsawler/lamina/model"
)

// rowGroup is one table-row candidate: the lines sharing a Y band.
type rowGroup struct {
	lines []model.Line
	bbox  model.BBox
}

// groupRows groups lines into Y-proximity rows, in top-to-bottom order.
func groupRows(lines []model.Line, tolerance float64) []rowGroup {
	if len(lines) == 0 {
		return nil
	}

	sorted := make([]model.Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MeanY() < sorted[j].MeanY()
	})

	var rows []rowGroup
	current := rowGroup{lines: []model.Line{sorted[0]}, bbox: sorted[0].BBox}

	for _, line := range sorted[1:] {
		last := current.lines[len(current.lines)-1]
		if line.MeanY()-last.MeanY() <= tolerance {
			current.lines = append(current.lines, line)
			current.bbox = current.bbox.Union(line.BBox)
		} else {
			rows = append(rows, current)
			current = rowGroup{lines: []model.Line{line}, bbox: line.BBox}
		}
	}
	rows = append(rows, current)

	return rows
}

// cells splits the row's items into cell texts wherever the horizontal gap
// between neighboring items exceeds the cell-gap threshold.
func (r rowGroup) cells(cellGapFontScale float64) []string {
	var items []model.TextItem
	for _, line := range r.lines {
		items = append(items, line.Items...)
	}
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].BBox.Left() < items[j].BBox.Left()
	})

	var cells []string
	var sb strings.Builder
	sb.WriteString(items[0].Text)

	for i := 1; i < len(items); i++ {
		prev := items[i-1]
		item := items[i]
		gap := item.BBox.Left() - prev.BBox.Right()

		fontSize := item.FontSize
		if fontSize <= 0 {
			fontSize = item.BBox.Height
		}
		threshold := fontSize * cellGapFontScale
		if threshold < 6.0 {
			threshold = 6.0
		}

		if gap > threshold {
			cells = append(cells, strings.TrimSpace(sb.String()))
			sb.Reset()
		} else if gap > fontSize*0.2 {
			sb.WriteString(" ")
		}
		sb.WriteString(item.Text)
	}
	cells = append(cells, strings.TrimSpace(sb.String()))

	return cells
}

// cellStarts returns the left X coordinate of each cell in the row, used
// to check column alignment across rows.
func (r rowGroup) cellStarts(cellGapFontScale float64) []float64 {
	var items []model.TextItem
	for _, line := range r.lines {
		items = append(items, line.Items...)
	}
	if len(items) == 0 {
		return nil
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].BBox.Left() < items[j].BBox.Left()
	})

	starts := []float64{items[0].BBox.Left()}
	for i := 1; i < len(items); i++ {
		prev := items[i-1]
		item := items[i]
		gap := item.BBox.Left() - prev.BBox.Right()

		fontSize := item.FontSize
		if fontSize <= 0 {
			fontSize = item.BBox.Height
		}
		threshold := fontSize * cellGapFontScale
		if threshold < 6.0 {
			threshold = 6.0
		}

		if gap > threshold {
			starts = append(starts, item.BBox.Left())
		}
	}

	return starts
}

// text returns the row's combined text.
func (r rowGroup) text() string {
	texts := make([]string, len(r.lines))
	for i, line := range r.lines {
		texts[i] = line.Text
	}
	return strings.Join(texts, " ")
}
