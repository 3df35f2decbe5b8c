package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/lamina/model"
)

// LineBuilderConfig holds configuration for line building.
type LineBuilderConfig struct {
	// YToleranceFloor is the minimum Y-distance tolerance for grouping
	// items into the same line, in page units (default: 3.0)
	YToleranceFloor float64

	// YToleranceFontScale scales the tolerance with the mean font size of
	// the items being compared (default: 0.5)
	YToleranceFontScale float64

	// SpaceGapFontScale determines the horizontal gap, as a fraction of
	// font size, above which an inter-word space is inserted (default: 0.25)
	SpaceGapFontScale float64

	// CharGapFontScale is the more permissive gap threshold used when both
	// neighboring tokens are single alphanumeric characters, so that
	// character-spaced runs are not split into separate words (default: 0.75)
	CharGapFontScale float64

	// OversegmentedRatio is the fraction of single-character tokens above
	// which a line is treated as character-over-segmented and rejoined by
	// proximity (default: 0.5)
	OversegmentedRatio float64

	// ColumnSplitFontScale splits a Y band into separate lines at
	// horizontal gaps exceeding this multiple of the font size, so that
	// side-by-side column text never merges into one line (default: 4.0)
	ColumnSplitFontScale float64

	// ColumnSplitFloor is the minimum gap width, in page units, for a
	// column split regardless of font size (default: 24.0)
	ColumnSplitFloor float64
}

// DefaultLineBuilderConfig returns sensible default configuration.
func DefaultLineBuilderConfig() LineBuilderConfig {
	return LineBuilderConfig{
		YToleranceFloor:      3.0,
		YToleranceFontScale:  0.5,
		SpaceGapFontScale:    0.25,
		CharGapFontScale:     0.75,
		OversegmentedRatio:   0.5,
		ColumnSplitFontScale: 4.0,
		ColumnSplitFloor:     24.0,
	}
}

// LineBuilder groups positioned text items into lines. It repairs
// character-level over-segmentation and infers inter-word spaces from gap
// geometry. Building is a pure function of the input item set: the result
// does not depend on the original item order.
type LineBuilder struct {
	config LineBuilderConfig
}

// NewLineBuilder creates a line builder with default configuration.
func NewLineBuilder() *LineBuilder {
	return &LineBuilder{config: DefaultLineBuilderConfig()}
}

// NewLineBuilderWithConfig creates a line builder with custom configuration.
func NewLineBuilderWithConfig(config LineBuilderConfig) *LineBuilder {
	return &LineBuilder{config: config}
}

// Build groups the page's text items into ordered lines. Empty input
// yields empty output, never an error. Items with degenerate bounding
// boxes are skipped.
func (b *LineBuilder) Build(items []model.TextItem) []model.Line {
	usable := make([]model.TextItem, 0, len(items))
	for _, item := range items {
		if item.IsEmpty() || !item.BBox.IsValid() {
			continue
		}
		usable = append(usable, item)
	}
	if len(usable) == 0 {
		return nil
	}

	// Sort by (Y, X) so grouping is independent of input order
	sort.SliceStable(usable, func(i, j int) bool {
		if usable[i].BBox.Y != usable[j].BBox.Y {
			return usable[i].BBox.Y < usable[j].BBox.Y
		}
		return usable[i].BBox.X < usable[j].BBox.X
	})

	groups := b.groupByYBand(usable)

	lines := make([]model.Line, 0, len(groups))
	for _, group := range groups {
		sort.SliceStable(group, func(a, c int) bool {
			return group[a].BBox.X < group[c].BBox.X
		})

		for _, segment := range b.splitAtColumnGaps(group) {
			line := model.Line{
				Items: segment,
				Index: len(lines),
				BBox:  itemsBBox(segment),
			}

			totalFont := 0.0
			for _, item := range segment {
				totalFont += item.FontSize
			}
			line.AverageFontSize = totalFont / float64(len(segment))

			line.Text = b.assembleText(segment)
			lines = append(lines, line)
		}
	}

	return lines
}

// splitAtColumnGaps splits an X-sorted Y band at gaps wide enough to be
// column gutters rather than word or cell spacing. Without this, text in
// side-by-side columns at equal Y would fuse into a single line.
func (b *LineBuilder) splitAtColumnGaps(items []model.TextItem) [][]model.TextItem {
	if len(items) < 2 {
		return [][]model.TextItem{items}
	}

	var segments [][]model.TextItem
	start := 0
	for i := 1; i < len(items); i++ {
		prev := items[i-1]
		item := items[i]

		fontSize := item.FontSize
		if prev.FontSize > fontSize {
			fontSize = prev.FontSize
		}
		if fontSize <= 0 {
			fontSize = item.BBox.Height
		}
		threshold := fontSize * b.config.ColumnSplitFontScale
		if threshold < b.config.ColumnSplitFloor {
			threshold = b.config.ColumnSplitFloor
		}

		if item.BBox.Left()-prev.BBox.Right() > threshold {
			segments = append(segments, items[start:i])
			start = i
		}
	}
	segments = append(segments, items[start:])

	return segments
}

// groupByYBand groups sorted items into Y-bands using an adaptive
// tolerance: at least the configured floor, scaled up with the mean font
// size of the items being compared.
func (b *LineBuilder) groupByYBand(items []model.TextItem) [][]model.TextItem {
	var groups [][]model.TextItem
	var current []model.TextItem
	var currentYSum float64

	for _, item := range items {
		if len(current) == 0 {
			current = []model.TextItem{item}
			currentYSum = item.BBox.CenterY()
			continue
		}

		meanY := currentYSum / float64(len(current))
		tolerance := b.yTolerance(current, item)

		if abs(item.BBox.CenterY()-meanY) <= tolerance {
			current = append(current, item)
			currentYSum += item.BBox.CenterY()
		} else {
			groups = append(groups, current)
			current = []model.TextItem{item}
			currentYSum = item.BBox.CenterY()
		}
	}

	if len(current) > 0 {
		groups = append(groups, current)
	}

	return groups
}

// yTolerance computes the adaptive Y tolerance for comparing an item
// against the running line.
func (b *LineBuilder) yTolerance(line []model.TextItem, item model.TextItem) float64 {
	totalFont := item.FontSize
	count := 1
	for _, existing := range line {
		totalFont += existing.FontSize
		count++
	}
	meanFont := totalFont / float64(count)

	tolerance := meanFont * b.config.YToleranceFontScale
	if tolerance < b.config.YToleranceFloor {
		tolerance = b.config.YToleranceFloor
	}
	return tolerance
}

// assembleText reconstructs line text left to right, inserting inter-word
// spaces only where the horizontal gap exceeds the adaptive threshold.
func (b *LineBuilder) assembleText(items []model.TextItem) string {
	if b.isOversegmented(items) {
		return b.rejoinByProximity(items)
	}

	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			prev := items[i-1]
			gap := item.BBox.Left() - prev.BBox.Right()

			fontSize := item.FontSize
			if prev.FontSize > fontSize {
				fontSize = prev.FontSize
			}
			if fontSize <= 0 {
				fontSize = item.BBox.Height
			}

			threshold := fontSize * b.config.SpaceGapFontScale
			if prev.IsSingleAlnum() && item.IsSingleAlnum() {
				// Character-spaced runs carry wide per-character gaps;
				// be more permissive before calling it a word break
				threshold = fontSize * b.config.CharGapFontScale
			}

			if gap > threshold {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(item.Text)
	}

	return sb.String()
}

// isOversegmented reports whether more than the configured fraction of the
// line's tokens are single alphanumeric characters.
func (b *LineBuilder) isOversegmented(items []model.TextItem) bool {
	if len(items) < 4 {
		return false
	}
	single := 0
	for _, item := range items {
		if item.IsSingleAlnum() {
			single++
		}
	}
	return float64(single)/float64(len(items)) > b.config.OversegmentedRatio
}

// rejoinByProximity reassembles a character-over-segmented line, joining
// characters directly and inserting spaces only at gaps clearly wider than
// the typical inter-character gap.
func (b *LineBuilder) rejoinByProximity(items []model.TextItem) string {
	// Measure the typical gap between consecutive items
	var gaps []float64
	for i := 1; i < len(items); i++ {
		gap := items[i].BBox.Left() - items[i-1].BBox.Right()
		if gap >= 0 {
			gaps = append(gaps, gap)
		}
	}

	typical := median(gaps)

	var sb strings.Builder
	for i, item := range items {
		if i > 0 {
			gap := item.BBox.Left() - items[i-1].BBox.Right()
			// A word break is a gap well above the typical
			// inter-character spacing
			if gap > typical*2.5 && gap > 1.0 {
				sb.WriteString(" ")
			}
		}
		sb.WriteString(strings.TrimSpace(item.Text))
	}

	return sb.String()
}

// itemsBBox calculates the bounding box of a set of items.
func itemsBBox(items []model.TextItem) model.BBox {
	if len(items) == 0 {
		return model.BBox{}
	}
	merged := items[0].BBox
	for _, item := range items[1:] {
		merged = merged.Union(item.BBox)
	}
	return merged
}

// median returns the median of a slice of values, 0 for empty input.
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[len(sorted)/2]
}

// abs returns the absolute value of a float64.
func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
