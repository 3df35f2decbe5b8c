package lamina

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/tsawler/lamina/layout"
	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/rag"
	"github.com/tsawler/lamina/tables"
	"github.com/tsawler/lamina/textinput"
	"golang.org/x/sync/errgroup"
)

// ErrNoPositions is returned when positioned-layout processing is asked to
// run on items without position data. Use ChunkText or ChunkHTML for
// positionless sources.
var ErrNoPositions = layout.ErrNoPositions

// Engine is the top-level entry point: it turns document pages into
// retrieval-ready chunks. Pages are processed concurrently and results are
// reassembled in page order, so output is deterministic regardless of
// worker scheduling.
type Engine struct {
	config    Config
	inferrer  layout.Inferrer
	segmenter *textinput.Segmenter
	packer    *rag.Packer
}

// NewEngine creates an engine with default configuration.
func NewEngine() *Engine {
	engine, _ := NewEngineWithConfig(DefaultConfig())
	return engine
}

// NewEngineWithConfig creates an engine from explicit configuration.
func NewEngineWithConfig(config Config) (*Engine, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	chunkConfig := rag.ChunkConfig{
		TargetSize:        config.TargetChunkSize,
		MinSize:           config.MinChunkSize,
		OverlapMin:        config.OverlapMin,
		OverlapMax:        config.OverlapMax,
		TableCeilingRatio: config.TableCeilingRatio,
		RepeatTableHeader: config.RepeatTableHeader,
		MinChunksPerPage:  config.MinChunksPerPage,
		MaxChunksPerPage:  config.MaxChunksPerPage,
	}

	tableConfig := tables.DefaultConfig()
	tableConfig.MinConfidence = config.TableMinConfidence

	var inferrer layout.Inferrer
	switch config.Strategy {
	case StrategyDensity:
		densityConfig := layout.DefaultDensityConfig()
		densityConfig.Tables = tableConfig
		density := layout.NewDensityInferrerWithConfig(densityConfig)
		density.SetLogger(config.Logger)
		inferrer = density
	default:
		ruleConfig := layout.DefaultRuleBasedConfig()
		ruleConfig.Tables = tableConfig
		ruleConfig.Classifier.MultiColumnThreshold = config.MultiColumnThreshold
		ruleConfig.Classifier.PossiblyThreshold = config.PossiblyThreshold
		rules := layout.NewRuleBasedInferrerWithConfig(ruleConfig)
		rules.SetLogger(config.Logger)
		inferrer = rules
	}

	return &Engine{
		config:    config,
		inferrer:  inferrer,
		segmenter: textinput.NewSegmenter(),
		packer:    rag.NewPackerWithConfig(chunkConfig),
	}, nil
}

// Strategy returns the active layout inference strategy name.
func (e *Engine) Strategy() string {
	return e.inferrer.Name()
}

// pageResult holds one page's output before reassembly.
type pageResult struct {
	chunks   []*model.Chunk
	layout   model.LayoutType
	warnings []Warning
}

// ChunkPages processes positioned pages into chunks. Pages run
// concurrently up to the configured worker count; chunks come back in page
// order with document-wide sequential indices. A page whose items carry no
// positions fails the whole call with ErrNoPositions.
func (e *Engine) ChunkPages(ctx context.Context, pages []model.PageInput) ([]*model.Chunk, []Warning, error) {
	if len(pages) == 0 {
		return nil, nil, nil
	}

	results := make([]pageResult, len(pages))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.config.workerCount())

	for i, page := range pages {
		i, page := i, page
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, err := e.processPage(page)
			if err != nil {
				return err
			}
			results[i] = result
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, nil, err
	}

	var chunks []*model.Chunk
	var warnings []Warning
	for _, result := range results {
		chunks = append(chunks, result.chunks...)
		warnings = append(warnings, result.warnings...)
	}

	for i, chunk := range chunks {
		chunk.Metadata.ChunkIndex = i
	}

	sort.SliceStable(warnings, func(i, j int) bool {
		return warnings[i].Page < warnings[j].Page
	})

	if e.config.Logger != nil {
		stats := rag.ComputeStats(chunks)
		e.config.Logger.Info("document chunked",
			"pages", len(pages),
			"chunks", stats.Count,
			"mean_size", stats.MeanSize,
			"table_chunks", stats.TableChunks,
			"warnings", len(warnings))
	}

	return chunks, warnings, nil
}

// processPage runs inference and packing for a single page. Pages with no
// usable items produce no chunks and no error, only a warning.
func (e *Engine) processPage(page model.PageInput) (pageResult, error) {
	if len(page.Items) == 0 {
		return pageResult{
			layout: model.LayoutSingleColumn,
			warnings: []Warning{{
				Page:      page.Number,
				Component: "engine",
				Message:   "page has no text items",
			}},
		}, nil
	}

	inference, err := e.inferrer.Infer(page)
	if err != nil {
		return pageResult{}, fmt.Errorf("inferring page %d: %w", page.Number, err)
	}

	result := pageResult{
		chunks: e.packer.Pack(page.Number, inference.Units),
		layout: inference.Layout,
	}
	for _, message := range inference.Warnings {
		result.warnings = append(result.warnings, Warning{
			Page:      page.Number,
			Component: e.inferrer.Name(),
			Message:   message,
		})
	}
	return result, nil
}

// ChunkText processes positionless plain text into chunks.
func (e *Engine) ChunkText(text string) []*model.Chunk {
	units := e.segmenter.SegmentText(text)
	return e.packer.Pack(0, units)
}

// ChunkHTML parses HTML markup and processes it into chunks.
func (e *Engine) ChunkHTML(r io.Reader) ([]*model.Chunk, error) {
	units, err := e.segmenter.SegmentHTML(r)
	if err != nil {
		return nil, err
	}
	return e.packer.Pack(0, units), nil
}

// Export writes chunks to w in the named format ("jsonl", "json", "csv",
// or "tsv").
func (e *Engine) Export(w io.Writer, chunks []*model.Chunk, format string) error {
	parsed, err := rag.ParseExportFormat(format)
	if err != nil {
		return err
	}
	return rag.Export(w, chunks, parsed)
}
