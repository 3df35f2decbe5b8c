package tables

import (
	"strings"

	"github.com/tsawler/lamina/model"
)

// BorderlessDetector finds tables with no visible grid by looking for runs
// of rows whose cell start positions align across rows. It is the
// whitespace-driven counterpart to the ruled-grid pass and its results are
// tagged lower-confidence.
type BorderlessDetector struct {
	config Config
}

// NewBorderlessDetector creates a borderless detector with default
// configuration.
func NewBorderlessDetector() *BorderlessDetector {
	return &BorderlessDetector{config: DefaultConfig()}
}

// Name returns the detector's identifier ("borderless").
func (d *BorderlessDetector) Name() string {
	return "borderless"
}

// Configure sets the detector configuration.
func (d *BorderlessDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds borderless table candidates.
func (d *BorderlessDetector) Detect(input Input) ([]Candidate, error) {
	rows := groupRows(input.Lines, d.config.RowYTolerance)
	if len(rows) < d.config.MinRows {
		return nil, nil
	}

	var candidates []Candidate
	runStart := -1

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		run := rows[runStart:end]
		runStart = -1
		if len(run) < d.config.MinRows {
			return
		}
		if candidate, ok := d.buildCandidate(run); ok {
			candidates = append(candidates, candidate)
		}
	}

	for i := 0; i < len(rows); i++ {
		multiCell := len(rows[i].cellStarts(d.config.CellGapFontScale)) >= d.config.MinCols
		if !multiCell {
			flush(i)
			continue
		}
		// Side-by-side prose columns align too; a row that reads as
		// running text is not table data
		text := rows[i].text()
		if looksLikeProse(text, strings.Fields(text), d.config.MaxRowWords, d.config.ConnectorDensityLimit) {
			flush(i)
			continue
		}
		if runStart >= 0 && !d.rowsAlign(rows[runStart], rows[i]) {
			flush(i)
		}
		if runStart < 0 {
			runStart = i
		}
	}
	flush(len(rows))

	return candidates, nil
}

// rowsAlign checks whether two rows share enough cell start positions to
// belong to the same column structure.
func (d *BorderlessDetector) rowsAlign(a, b rowGroup) bool {
	startsA := a.cellStarts(d.config.CellGapFontScale)
	startsB := b.cellStarts(d.config.CellGapFontScale)
	if len(startsA) < d.config.MinCols || len(startsB) < d.config.MinCols {
		return false
	}

	const tolerance = 12.0
	matched := 0
	for _, xa := range startsA {
		for _, xb := range startsB {
			if abs(xa-xb) <= tolerance {
				matched++
				break
			}
		}
	}

	smaller := len(startsA)
	if len(startsB) < smaller {
		smaller = len(startsB)
	}
	return float64(matched)/float64(smaller) >= 0.6
}

// buildCandidate converts an aligned row run into a candidate.
func (d *BorderlessDetector) buildCandidate(run []rowGroup) (Candidate, bool) {
	var cellRows [][]string
	var covered []model.Line
	bbox := run[0].bbox
	alignmentTotal := 0.0

	for i, row := range run {
		cells := row.cells(d.config.CellGapFontScale)
		if len(cells) < d.config.MinCols {
			continue
		}
		cellRows = append(cellRows, cells)
		covered = append(covered, row.lines...)
		bbox = bbox.Union(row.bbox)
		if i > 0 {
			if d.rowsAlign(run[i-1], row) {
				alignmentTotal++
			}
		}
	}

	if len(cellRows) < d.config.MinRows {
		return Candidate{}, false
	}

	alignment := 1.0
	if len(run) > 1 {
		alignment = alignmentTotal / float64(len(run)-1)
	}

	return Candidate{
		BBox:       bbox,
		Rows:       cellRows,
		Lines:      covered,
		Confidence: 0.35 + 0.4*alignment,
		Source:     "borderless",
	}, true
}

// abs returns the absolute value of a float64.
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
