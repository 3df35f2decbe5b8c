package tables

import (
	"strings"
	"unicode"

	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/numeric"
)

// connectorWords are common prose connectors. A high density of these in a
// long row is strong evidence that the row is a sentence, not table data.
var connectorWords = map[string]bool{
	"the": true, "and": true, "of": true, "to": true, "in": true,
	"a": true, "is": true, "for": true, "with": true, "that": true,
	"as": true, "by": true, "on": true, "are": true, "was": true,
	"or": true, "which": true, "from": true, "has": true, "have": true,
}

// ContentDetector identifies tabular regions from content statistics alone:
// runs of rows dominated by numeric tokens, short tokens, currency markers,
// or percentages. It deliberately rejects rows that read like prose so that
// number-heavy paragraphs are not misclassified.
type ContentDetector struct {
	config Config
	parser *numeric.Parser
}

// NewContentDetector creates a content detector with default configuration.
func NewContentDetector() *ContentDetector {
	return &ContentDetector{
		config: DefaultConfig(),
		parser: numeric.NewParser(),
	}
}

// Name returns the detector's identifier ("content").
func (d *ContentDetector) Name() string {
	return "content"
}

// Configure sets the detector configuration.
func (d *ContentDetector) Configure(config Config) error {
	d.config = config
	return nil
}

// Detect finds content-statistics table candidates.
func (d *ContentDetector) Detect(input Input) ([]Candidate, error) {
	rows := groupRows(input.Lines, d.config.RowYTolerance)
	if len(rows) < d.config.MinRows {
		return nil, nil
	}

	scores := make([]float64, len(rows))
	for i, row := range rows {
		scores[i] = d.rowScore(row)
	}

	var candidates []Candidate
	runStart := -1

	flush := func(end int) {
		if runStart < 0 {
			return
		}
		start := runStart
		runStart = -1
		if end-start < d.config.MinRows {
			return
		}
		if candidate, ok := d.buildCandidate(rows[start:end], scores[start:end]); ok {
			candidates = append(candidates, candidate)
		}
	}

	for i := range rows {
		if scores[i] >= 0.4 {
			if runStart < 0 {
				runStart = i
			}
			continue
		}
		flush(i)
	}
	flush(len(rows))

	return candidates, nil
}

// rowScore rates how table-like a row is on a 0..1 scale. Prose-shaped rows
// score zero regardless of numeric content.
func (d *ContentDetector) rowScore(row rowGroup) float64 {
	text := row.text()
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0
	}

	if looksLikeProse(text, tokens, d.config.MaxRowWords, d.config.ConnectorDensityLimit) {
		return 0
	}

	numericCount := 0
	shortCount := 0
	hasCurrencyOrPercent := false
	for _, token := range tokens {
		result := d.parser.Parse(token)
		if result.IsNumeric() {
			numericCount++
			if result.Kind == numeric.KindCurrency || result.Kind == numeric.KindPercentage {
				hasCurrencyOrPercent = true
			}
		}
		if len([]rune(token)) <= 4 {
			shortCount++
		}
	}

	score := 0.0
	score += 0.5 * float64(numericCount) / float64(len(tokens))
	score += 0.3 * float64(shortCount) / float64(len(tokens))
	if hasCurrencyOrPercent {
		score += 0.2
	}
	if len(row.cellStarts(d.config.CellGapFontScale)) >= d.config.MinCols {
		score += 0.2
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// looksLikeProse reports whether a row reads as running text: longer than
// maxWords with a connector-word density above the limit, or ending in a
// complete sentence.
func looksLikeProse(text string, tokens []string, maxWords int, connectorLimit float64) bool {
	if len(tokens) <= maxWords {
		return false
	}

	connectors := 0
	for _, token := range tokens {
		cleaned := strings.ToLower(strings.TrimFunc(token, func(r rune) bool {
			return !unicode.IsLetter(r)
		}))
		if connectorWords[cleaned] {
			connectors++
		}
	}
	if float64(connectors)/float64(len(tokens)) > connectorLimit {
		return true
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	last := trimmed[len(trimmed)-1]
	return last == '.' || last == '!' || last == '?'
}

// buildCandidate converts a run of table-like rows into a candidate.
func (d *ContentDetector) buildCandidate(run []rowGroup, scores []float64) (Candidate, bool) {
	var cellRows [][]string
	var covered []model.Line
	bbox := run[0].bbox
	scoreTotal := 0.0
	qualifying := 0

	for i, row := range run {
		cells := row.cells(d.config.CellGapFontScale)
		if len(cells) < d.config.MinCols {
			cells = []string{row.text()}
		} else {
			qualifying++
		}
		cellRows = append(cellRows, cells)
		covered = append(covered, row.lines...)
		bbox = bbox.Union(row.bbox)
		scoreTotal += scores[i]
	}

	if qualifying < d.config.MinRows {
		return Candidate{}, false
	}

	meanScore := scoreTotal / float64(len(run))
	return Candidate{
		BBox:       bbox,
		Rows:       cellRows,
		Lines:      covered,
		Confidence: 0.3 + 0.5*meanScore,
		Source:     "content",
	}, true
}
