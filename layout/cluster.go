package layout

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/tables"
)

// DensityConfig controls the density-clustering inference strategy.
type DensityConfig struct {
	// BucketWidth is the width of each horizontal occupancy bucket
	BucketWidth float64

	// DensityFloorRatio is the fraction of the mean occupancy below which
	// a bucket counts as a valley between streams
	DensityFloorRatio float64

	// MinStreamWidth is the minimum width of a dense stream
	MinStreamWidth float64

	// MinStreamItems is the minimum number of items a stream must hold
	MinStreamItems int

	// Tables configures table detection
	Tables tables.Config

	// Assembler configures unit assembly
	Assembler AssemblerConfig
}

// DefaultDensityConfig returns default configuration.
func DefaultDensityConfig() DensityConfig {
	return DensityConfig{
		BucketWidth:       16.0,
		DensityFloorRatio: 0.2,
		MinStreamWidth:    40.0,
		MinStreamItems:    6,
		Tables:            tables.DefaultConfig(),
		Assembler:         DefaultAssemblerConfig(),
	}
}

// DensityInferrer is the alternate inference strategy: instead of scoring
// discrete layout signals, it projects item occupancy onto the horizontal
// axis and treats dense bands separated by empty valleys as reading
// streams. It trades the rule-based classifier's explainable evidence for
// robustness on pages with irregular column widths.
type DensityInferrer struct {
	config    DensityConfig
	lines     *LineBuilder
	tables    *tables.Pipeline
	assembler *Assembler
	logger    *slog.Logger
}

// NewDensityInferrer creates a density inferrer with default configuration.
func NewDensityInferrer() *DensityInferrer {
	return NewDensityInferrerWithConfig(DefaultDensityConfig())
}

// NewDensityInferrerWithConfig creates a density inferrer with the supplied
// configuration.
func NewDensityInferrerWithConfig(config DensityConfig) *DensityInferrer {
	return &DensityInferrer{
		config:    config,
		lines:     NewLineBuilder(),
		tables:    tables.NewPipelineWithConfig(config.Tables),
		assembler: NewAssemblerWithConfig(config.Assembler),
	}
}

// SetLogger attaches a structured logger. A nil logger disables logging.
func (d *DensityInferrer) SetLogger(logger *slog.Logger) {
	d.logger = logger
	d.tables.SetLogger(logger)
}

// Name returns "density".
func (d *DensityInferrer) Name() string {
	return "density"
}

// stream is one dense horizontal band of content.
type stream struct {
	left  float64
	right float64
	items int
}

// Infer runs density-based inference over one page.
func (d *DensityInferrer) Infer(page model.PageInput) (*InferenceResult, error) {
	if !page.HasPositions() {
		return nil, fmt.Errorf("page %d: %w", page.Number, ErrNoPositions)
	}

	lines := d.lines.Build(page.Items)
	if len(lines) == 0 {
		return &InferenceResult{
			Layout:     model.LayoutSingleColumn,
			Confidence: 1.0,
			Warnings:   []string{"no usable item geometry; page skipped"},
		}, nil
	}

	streams, separation := d.clusterStreams(page.Items)
	columns := d.streamColumns(streams, lines)

	layoutType := model.LayoutSingleColumn
	confidence := 1.0
	if len(columns) >= 2 {
		layoutType = model.LayoutMultiColumnText
		confidence = separation
	}

	tableResult := d.tables.Run(tables.Input{
		Lines:    lines,
		Rects:    page.Rects,
		Rulings:  page.Rulings,
		PageBBox: page.BBox,
	}, layoutType)

	units := d.assembler.Assemble(page.Number, tableResult.Residual, tableResult.Regions, columns, layoutType)

	var structured []*model.StructuredTable
	for _, region := range tableResult.Regions {
		if region.Table != nil {
			structured = append(structured, region.Table)
		}
	}

	if d.logger != nil {
		d.logger.Debug("page inferred",
			"page", page.Number,
			"strategy", d.Name(),
			"layout", layoutType.String(),
			"streams", len(streams),
			"units", len(units))
	}

	return &InferenceResult{
		Units:      units,
		Layout:     layoutType,
		Confidence: confidence,
		Columns:    columns,
		Tables:     structured,
		Warnings:   tableResult.Warnings,
	}, nil
}

// clusterStreams projects item occupancy onto the horizontal axis and
// splits it into dense streams at low-density valleys. The second return
// value is the separation quality: how empty the valleys are relative to
// the streams, in 0..1.
func (d *DensityInferrer) clusterStreams(items []model.TextItem) ([]stream, float64) {
	minX, maxX := 0.0, 0.0
	first := true
	for _, item := range items {
		if item.IsEmpty() || !item.BBox.IsValid() {
			continue
		}
		if first {
			minX, maxX = item.BBox.Left(), item.BBox.Right()
			first = false
			continue
		}
		if item.BBox.Left() < minX {
			minX = item.BBox.Left()
		}
		if item.BBox.Right() > maxX {
			maxX = item.BBox.Right()
		}
	}
	if first || maxX-minX < d.config.BucketWidth {
		return nil, 0
	}

	buckets := int((maxX-minX)/d.config.BucketWidth) + 1
	occupancy := make([]float64, buckets)
	counts := make([]int, buckets)

	for _, item := range items {
		if item.IsEmpty() || !item.BBox.IsValid() {
			continue
		}
		lo := int((item.BBox.Left() - minX) / d.config.BucketWidth)
		hi := int((item.BBox.Right() - minX) / d.config.BucketWidth)
		for b := lo; b <= hi && b < buckets; b++ {
			occupancy[b] += item.BBox.Height
		}
		center := int((item.BBox.CenterX() - minX) / d.config.BucketWidth)
		if center >= 0 && center < buckets {
			counts[center]++
		}
	}

	mean := 0.0
	for _, o := range occupancy {
		mean += o
	}
	mean /= float64(buckets)
	floor := mean * d.config.DensityFloorRatio

	var streams []stream
	inStream := false
	var current stream
	streamTotal, streamBuckets := 0.0, 0
	valleyTotal, valleyBuckets := 0.0, 0

	for b := 0; b < buckets; b++ {
		dense := occupancy[b] > floor
		bucketLeft := minX + float64(b)*d.config.BucketWidth

		if dense {
			if !inStream {
				current = stream{left: bucketLeft}
				inStream = true
			}
			current.right = bucketLeft + d.config.BucketWidth
			current.items += counts[b]
			streamTotal += occupancy[b]
			streamBuckets++
			continue
		}

		if inStream {
			streams = append(streams, current)
			inStream = false
		}
		valleyTotal += occupancy[b]
		valleyBuckets++
	}
	if inStream {
		streams = append(streams, current)
	}

	var kept []stream
	for _, s := range streams {
		if s.right-s.left >= d.config.MinStreamWidth && s.items >= d.config.MinStreamItems {
			kept = append(kept, s)
		}
	}

	separation := 1.0
	if streamBuckets > 0 && valleyBuckets > 0 {
		streamMean := streamTotal / float64(streamBuckets)
		valleyMean := valleyTotal / float64(valleyBuckets)
		if streamMean > 0 {
			separation = 1.0 - valleyMean/streamMean
			if separation < 0 {
				separation = 0
			}
		}
	}

	return kept, separation
}

// streamColumns converts streams into column regions sized from their
// member lines. Streams with fewer than two member lines are dropped; nil
// is returned unless at least two columns survive.
func (d *DensityInferrer) streamColumns(streams []stream, lines []model.Line) []model.Column {
	if len(streams) < 2 {
		return nil
	}

	sort.Slice(streams, func(i, j int) bool {
		return streams[i].left < streams[j].left
	})

	var columns []model.Column
	for _, s := range streams {
		var memberBBox model.BBox
		members := 0
		for _, line := range lines {
			cx := line.BBox.CenterX()
			if cx < s.left || cx > s.right {
				continue
			}
			if members == 0 {
				memberBBox = line.BBox
			} else {
				memberBBox = memberBBox.Union(line.BBox)
			}
			members++
		}
		if members < 2 {
			continue
		}
		columns = append(columns, model.Column{
			BBox:      memberBBox,
			Index:     len(columns),
			LineCount: members,
		})
	}

	if len(columns) < 2 {
		return nil
	}
	return columns
}
