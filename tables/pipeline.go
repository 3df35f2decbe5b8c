package tables

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/tsawler/lamina/model"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of a pipeline run: the accepted table regions,
// the lines not claimed by any table, and any warnings raised while
// detecting.
type Result struct {
	Regions  []model.LayoutRegion
	Residual []model.Line
	Warnings []string
}

// Pipeline runs every registered detector over a page, merges the candidates,
// and structures the survivors. Detection failures never propagate: a failed
// pass is recorded as a warning and the remaining passes carry on, so the
// worst case is a page with no tables.
type Pipeline struct {
	config     Config
	registry   *Registry
	structurer *Structurer
	logger     *slog.Logger
}

// NewPipeline creates a pipeline with the default detector set (ruled,
// borderless, content) and default configuration.
func NewPipeline() *Pipeline {
	return NewPipelineWithConfig(DefaultConfig())
}

// NewPipelineWithConfig creates a pipeline with the default detector set and
// the supplied configuration.
func NewPipelineWithConfig(config Config) *Pipeline {
	registry := NewRegistry()
	registry.Register(NewRuledDetector())
	registry.Register(NewBorderlessDetector())
	registry.Register(NewContentDetector())

	p := &Pipeline{
		config:     config,
		registry:   registry,
		structurer: NewStructurer(),
	}
	p.configureDetectors()
	return p
}

// SetLogger attaches a structured logger. A nil logger disables logging.
func (p *Pipeline) SetLogger(logger *slog.Logger) {
	p.logger = logger
}

// Registry exposes the pipeline's detector registry so callers can add or
// replace passes.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

func (p *Pipeline) configureDetectors() {
	for _, name := range p.registry.List() {
		if detector := p.registry.Get(name); detector != nil {
			_ = detector.Configure(p.config)
		}
	}
}

// Run executes all detection passes concurrently and returns the structured
// table regions plus the residual lines.
func (p *Pipeline) Run(input Input, layout model.LayoutType) Result {
	var (
		mu         sync.Mutex
		candidates []Candidate
		warnings   []string
	)

	var group errgroup.Group
	for _, name := range p.registry.List() {
		detector := p.registry.Get(name)
		if detector == nil {
			continue
		}
		group.Go(func() error {
			found, err := detector.Detect(input)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("table pass %q failed: %v", detector.Name(), err))
				return nil
			}
			candidates = append(candidates, found...)
			return nil
		})
	}
	_ = group.Wait()

	accepted := p.accept(candidates, layout)
	merged := mergeCandidates(accepted, p.config)

	if p.logger != nil {
		p.logger.Debug("table detection complete",
			"candidates", len(candidates),
			"accepted", len(merged),
			"layout", layout.String())
	}

	regions := make([]model.LayoutRegion, 0, len(merged))
	claimed := map[int]bool{}
	for _, candidate := range merged {
		table := p.structurer.Structure(candidate)
		if table == nil {
			warnings = append(warnings, fmt.Sprintf("table at %v produced no cells, dropped", candidate.BBox))
			continue
		}
		regions = append(regions, model.LayoutRegion{
			Type:       model.RegionTableJSON,
			BBox:       candidate.BBox,
			Confidence: candidate.Confidence,
			Lines:      candidate.Lines,
			Source:     candidate.Source,
			Table:      table,
		})
		for _, line := range candidate.Lines {
			claimed[line.Index] = true
		}
	}

	var residual []model.Line
	for _, line := range input.Lines {
		if !claimed[line.Index] {
			residual = append(residual, line)
		}
	}

	return Result{Regions: regions, Residual: residual, Warnings: warnings}
}

// accept applies the confidence floor. Content-pass candidates face a raised
// floor on multi-column pages, where column gutters masquerade as cell gaps.
func (p *Pipeline) accept(candidates []Candidate, layout model.LayoutType) []Candidate {
	var accepted []Candidate
	for _, candidate := range candidates {
		floor := p.config.MinConfidence
		if candidate.Source == "content" && layout == model.LayoutMultiColumnText {
			floor += p.config.MultiColumnRaise
		}
		if candidate.Confidence >= floor {
			accepted = append(accepted, candidate)
		}
	}
	return accepted
}
