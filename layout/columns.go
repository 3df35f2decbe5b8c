package layout

import (
	"math"
	"sort"

	"github.com/tsawler/lamina/model"
)

// ClassifierConfig holds configuration for column and layout classification.
type ClassifierConfig struct {
	// ClusterGapFactor is the multiple of the median inter-line X gap at
	// which sorted X starts are split into separate clusters (default: 3.0)
	ClusterGapFactor float64

	// MinClusterMembers is the minimum number of lines an X cluster needs
	// to count as column evidence (default: 3)
	MinClusterMembers int

	// HistogramBuckets is the number of buckets in the horizontal
	// occupancy histogram used for whitespace-gap scanning (default: 60)
	HistogramBuckets int

	// GapWidthFloor normalizes whitespace gap widths into a confidence:
	// a gap this wide scores full confidence (default: 40.0 page units)
	GapWidthFloor float64

	// AlignmentTolerance buckets lines by near-equal left X (default: 10.0)
	AlignmentTolerance float64

	// YBandTolerance groups lines into the same Y band for reading-flow
	// analysis (default: 5.0)
	YBandTolerance float64

	// MultiColumnThreshold is the base evidence score required to call
	// multi_column_text (default: 55). The effective threshold tightens
	// as line count grows.
	MultiColumnThreshold float64

	// PossiblyThreshold is the base evidence score for
	// possibly_multi_column (default: 35)
	PossiblyThreshold float64

	// ColumnMergeOverlap merges columns whose X ranges overlap by more
	// than this fraction of the narrower column's width (default: 0.10)
	ColumnMergeOverlap float64
}

// DefaultClassifierConfig returns sensible default configuration.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		ClusterGapFactor:     3.0,
		MinClusterMembers:    3,
		HistogramBuckets:     60,
		GapWidthFloor:        40.0,
		AlignmentTolerance:   10.0,
		YBandTolerance:       5.0,
		MultiColumnThreshold: 55,
		PossiblyThreshold:    35,
		ColumnMergeOverlap:   0.10,
	}
}

// Evidence breaks down the contribution of each detection signal to the
// total layout score. Each contribution is capped.
type Evidence struct {
	// XCluster is the X-position density clustering contribution (0-35)
	XCluster float64

	// WhitespaceGap is the whitespace-gap scan contribution (0-25)
	WhitespaceGap float64

	// Alignment is the alignment-grouping contribution (0-20)
	Alignment float64

	// ReadingFlow is the reading-flow transition contribution (0-20)
	ReadingFlow float64
}

// Total returns the summed evidence score (0-100).
func (e Evidence) Total() float64 {
	return e.XCluster + e.WhitespaceGap + e.Alignment + e.ReadingFlow
}

// Signal contribution caps.
const (
	xClusterCap      = 35.0
	whitespaceGapCap = 25.0
	alignmentCap     = 20.0
	readingFlowCap   = 20.0
)

// ClassifierResult is the outcome of layout classification for one page.
type ClassifierResult struct {
	// Type is the classified layout
	Type model.LayoutType

	// Confidence is the normalized evidence score (0-1)
	Confidence float64

	// Evidence is the per-signal score breakdown
	Evidence Evidence

	// Columns are the validated, merged column boundaries. Single-column
	// pages report one column covering the content.
	Columns []model.Column
}

// Classifier scores multiple independent layout signals into a single
// confidence-weighted layout type. The evidence thresholds tighten as the
// page's line count grows: dense pages need stronger evidence before
// multi-column is called, which suppresses false positives from justified
// prose.
type Classifier struct {
	config ClassifierConfig
}

// NewClassifier creates a classifier with default configuration.
func NewClassifier() *Classifier {
	return &Classifier{config: DefaultClassifierConfig()}
}

// NewClassifierWithConfig creates a classifier with custom configuration.
func NewClassifierWithConfig(config ClassifierConfig) *Classifier {
	return &Classifier{config: config}
}

// Classify analyzes the page's lines and returns the layout type,
// confidence, and final column boundaries.
func (c *Classifier) Classify(lines []model.Line, pageBBox model.BBox) *ClassifierResult {
	if len(lines) == 0 {
		return &ClassifierResult{
			Type:       model.LayoutSingleColumn,
			Confidence: 1.0,
		}
	}

	clusters := c.clusterXStarts(lines)

	evidence := Evidence{
		XCluster:      c.xClusterEvidence(clusters),
		WhitespaceGap: c.whitespaceGapEvidence(lines, pageBBox),
		Alignment:     c.alignmentEvidence(lines),
		ReadingFlow:   c.readingFlowEvidence(lines),
	}

	score := evidence.Total()
	multiThreshold, possiblyThreshold := c.adaptiveThresholds(len(lines))

	columns := c.buildColumns(clusters, lines)

	var layoutType model.LayoutType
	switch {
	case score >= multiThreshold && len(columns) >= 2:
		layoutType = model.LayoutMultiColumnText
	case score >= multiThreshold:
		// Strong evidence but column boundaries did not validate:
		// column-like structure mixed with spanning content
		layoutType = model.LayoutMixedContent
	case score >= possiblyThreshold:
		layoutType = model.LayoutPossiblyMultiColumn
	default:
		layoutType = model.LayoutSingleColumn
	}

	if layoutType == model.LayoutSingleColumn || layoutType == model.LayoutPossiblyMultiColumn {
		columns = []model.Column{singleColumn(lines)}
	}

	return &ClassifierResult{
		Type:       layoutType,
		Confidence: math.Min(score/100.0, 1.0),
		Evidence:   evidence,
		Columns:    columns,
	}
}

// adaptiveThresholds returns the effective evidence thresholds for a page
// with the given line count.
func (c *Classifier) adaptiveThresholds(lineCount int) (multi, possibly float64) {
	multi = c.config.MultiColumnThreshold + math.Min(15, float64(lineCount)/8)
	possibly = c.config.PossiblyThreshold + math.Min(10, float64(lineCount)/12)
	return multi, possibly
}

// xCluster is a group of lines sharing a left X position.
type xCluster struct {
	minX    float64
	maxX    float64 // Rightmost extent of member lines
	members []model.Line
}

// clusterXStarts sorts line start Xs and splits on gaps exceeding a
// multiple of the median inter-line gap. Only clusters with enough members
// survive.
func (c *Classifier) clusterXStarts(lines []model.Line) []xCluster {
	sorted := make([]model.Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MinX() < sorted[j].MinX()
	})

	// Median gap between consecutive sorted X starts
	var gaps []float64
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].MinX() - sorted[i-1].MinX()
		if gap > 0.5 {
			gaps = append(gaps, gap)
		}
	}
	medianGap := median(gaps)
	if medianGap < 1.0 {
		medianGap = 1.0
	}
	splitGap := medianGap * c.config.ClusterGapFactor

	// On a page with perfectly aligned starts the only gap is the column
	// gutter itself, which inflates the median. A gap much wider than the
	// text's em size always splits.
	fonts := make([]float64, 0, len(sorted))
	for _, line := range sorted {
		if line.AverageFontSize > 0 {
			fonts = append(fonts, line.AverageFontSize)
		}
	}
	absoluteSplit := 3 * median(fonts)
	if absoluteSplit > 0 && absoluteSplit < splitGap {
		splitGap = absoluteSplit
	}

	var clusters []xCluster
	current := xCluster{
		minX:    sorted[0].MinX(),
		maxX:    sorted[0].MaxX(),
		members: []model.Line{sorted[0]},
	}

	for i := 1; i < len(sorted); i++ {
		line := sorted[i]
		prevX := current.members[len(current.members)-1].MinX()

		if line.MinX()-prevX > splitGap {
			clusters = append(clusters, current)
			current = xCluster{
				minX:    line.MinX(),
				maxX:    line.MaxX(),
				members: []model.Line{line},
			}
			continue
		}

		current.members = append(current.members, line)
		if line.MaxX() > current.maxX {
			current.maxX = line.MaxX()
		}
	}
	clusters = append(clusters, current)

	var kept []xCluster
	for _, cluster := range clusters {
		if len(cluster.members) >= c.config.MinClusterMembers {
			kept = append(kept, cluster)
		}
	}
	return kept
}

// xClusterEvidence scores the X-position clustering signal.
func (c *Classifier) xClusterEvidence(clusters []xCluster) float64 {
	if len(clusters) < 2 {
		return 0
	}
	// Two well-populated clusters score the cap; each extra cluster past
	// two adds nothing (three columns is not stronger evidence than two)
	smallest := len(clusters[0].members)
	for _, cluster := range clusters[1:] {
		if len(cluster.members) < smallest {
			smallest = len(cluster.members)
		}
	}
	score := xClusterCap * math.Min(1.0, float64(smallest)/5.0)
	return score
}

// whitespaceGapEvidence scans a coarse horizontal occupancy histogram for
// vertical whitespace channels.
func (c *Classifier) whitespaceGapEvidence(lines []model.Line, pageBBox model.BBox) float64 {
	if pageBBox.Width <= 0 {
		pageBBox = model.LinesBBox(lines)
	}
	if pageBBox.Width <= 0 {
		return 0
	}

	buckets := c.config.HistogramBuckets
	if buckets < 10 {
		buckets = 10
	}
	bucketWidth := pageBBox.Width / float64(buckets)
	occupancy := make([]int, buckets)

	for _, line := range lines {
		start := int((line.MinX() - pageBBox.X) / bucketWidth)
		end := int((line.MaxX() - pageBBox.X) / bucketWidth)
		for i := start; i <= end && i < buckets; i++ {
			if i >= 0 {
				occupancy[i]++
			}
		}
	}

	// Find the widest run of empty buckets strictly inside the content
	first, last := -1, -1
	for i, count := range occupancy {
		if count > 0 {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		return 0
	}

	bestRun := 0
	run := 0
	for i := first; i <= last; i++ {
		if occupancy[i] == 0 {
			run++
			if run > bestRun {
				bestRun = run
			}
		} else {
			run = 0
		}
	}

	gapWidth := float64(bestRun) * bucketWidth
	if gapWidth <= 0 {
		return 0
	}
	return whitespaceGapCap * math.Min(1.0, gapWidth/c.config.GapWidthFloor)
}

// alignmentEvidence buckets lines by near-equal left X and scores the
// presence of multiple well-populated alignment groups.
func (c *Classifier) alignmentEvidence(lines []model.Line) float64 {
	type bucket struct {
		x     float64
		count int
	}
	var buckets []bucket

	for _, line := range lines {
		found := false
		for i := range buckets {
			if abs(line.MinX()-buckets[i].x) <= c.config.AlignmentTolerance {
				buckets[i].count++
				found = true
				break
			}
		}
		if !found {
			buckets = append(buckets, bucket{x: line.MinX(), count: 1})
		}
	}

	populated := 0
	for _, b := range buckets {
		if b.count >= c.config.MinClusterMembers {
			populated++
		}
	}

	if populated < 2 {
		return 0
	}
	// Two populated alignment groups score the cap
	return alignmentCap
}

// readingFlowEvidence detects alternating left/right X transitions at
// near-equal Y, and counts same-Y bands whose members span disjoint X
// regions.
func (c *Classifier) readingFlowEvidence(lines []model.Line) float64 {
	bands := c.groupYBands(lines)

	disjointBands := 0
	alternations := 0

	for _, band := range bands {
		if len(band) < 2 {
			continue
		}
		sort.Slice(band, func(i, j int) bool {
			return band[i].MinX() < band[j].MinX()
		})

		disjoint := true
		for i := 1; i < len(band); i++ {
			if band[i].MinX() < band[i-1].MaxX() {
				disjoint = false
				break
			}
		}
		if disjoint {
			disjointBands++
			alternations += len(band) - 1
		}
	}

	if disjointBands == 0 {
		return 0
	}

	fraction := float64(disjointBands) / float64(len(bands))
	score := readingFlowCap * math.Min(1.0, fraction*2.0)
	if alternations < 2 {
		score *= 0.5
	}
	return score
}

// groupYBands groups lines into near-equal Y bands.
func (c *Classifier) groupYBands(lines []model.Line) [][]model.Line {
	sorted := make([]model.Line, len(lines))
	copy(sorted, lines)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].MeanY() < sorted[j].MeanY()
	})

	var bands [][]model.Line
	var current []model.Line

	for _, line := range sorted {
		if len(current) == 0 {
			current = []model.Line{line}
			continue
		}
		if abs(line.MeanY()-current[len(current)-1].MeanY()) <= c.config.YBandTolerance {
			current = append(current, line)
		} else {
			bands = append(bands, current)
			current = []model.Line{line}
		}
	}
	if len(current) > 0 {
		bands = append(bands, current)
	}

	return bands
}

// buildColumns converts X clusters into column boundaries, validates them
// against actual line membership, and merges overlapping columns.
func (c *Classifier) buildColumns(clusters []xCluster, lines []model.Line) []model.Column {
	if len(clusters) < 2 {
		return nil
	}

	sort.Slice(clusters, func(i, j int) bool {
		return clusters[i].minX < clusters[j].minX
	})

	columns := make([]model.Column, 0, len(clusters))
	for _, cluster := range clusters {
		bbox := model.LinesBBox(cluster.members)
		columns = append(columns, model.Column{BBox: bbox})
	}

	// Merge columns whose X ranges overlap by more than the configured
	// fraction of the narrower column's width
	merged := []model.Column{columns[0]}
	for _, col := range columns[1:] {
		last := &merged[len(merged)-1]
		if last.BBox.HorizontalOverlapRatio(col.BBox) > c.config.ColumnMergeOverlap {
			last.BBox = last.BBox.Union(col.BBox)
		} else {
			merged = append(merged, col)
		}
	}

	// Validate against actual membership
	var valid []model.Column
	for _, col := range merged {
		count := 0
		for _, line := range lines {
			if line.BBox.CenterX() >= col.BBox.Left() && line.BBox.CenterX() <= col.BBox.Right() {
				count++
			}
		}
		if count >= c.config.MinClusterMembers {
			col.LineCount = count
			valid = append(valid, col)
		}
	}

	for i := range valid {
		valid[i].Index = i
	}

	if len(valid) < 2 {
		return nil
	}
	return valid
}

// singleColumn builds the one-column layout covering all content.
func singleColumn(lines []model.Line) model.Column {
	return model.Column{
		BBox:      model.LinesBBox(lines),
		Index:     0,
		LineCount: len(lines),
	}
}

// ColumnForLine returns the index of the column owning the line's center,
// or -1 if the line spans columns or falls outside all of them.
func ColumnForLine(columns []model.Column, line model.Line) int {
	for _, col := range columns {
		if line.BBox.CenterX() >= col.BBox.Left() && line.BBox.CenterX() <= col.BBox.Right() {
			// A line much wider than the column is spanning content
			if line.BBox.Width > col.BBox.Width*1.25 {
				return -1
			}
			return col.Index
		}
	}
	return -1
}
