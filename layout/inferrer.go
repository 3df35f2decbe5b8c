package layout

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/tables"
)

// ErrNoPositions is returned when layout inference is asked to run on a
// page whose items carry no position information. Positionless input has a
// dedicated text-only path and must not reach the geometric inferrers.
var ErrNoPositions = errors.New("layout: page items carry no positions")

// InferenceResult is the full outcome of layout inference for one page.
type InferenceResult struct {
	// Units are the page's structured units in reading order
	Units []model.StructuredUnit

	// Layout is the page-level layout classification
	Layout model.LayoutType

	// Confidence is the classifier's confidence in the layout type (0-1)
	Confidence float64

	// Evidence breaks the layout score into its signals (rule-based only)
	Evidence Evidence

	// Columns are the detected column regions, nil for single-column pages
	Columns []model.Column

	// Tables are the structured tables found on the page
	Tables []*model.StructuredTable

	// Warnings are non-fatal problems encountered during inference
	Warnings []string
}

// Inferrer turns a positioned page into structured units in reading order.
// Two implementations exist: RuleBasedInferrer, which composes the line
// builder, column classifier, and table pipeline, and DensityInferrer,
// which clusters item coordinates directly. Both honor the same contract so
// the engine can switch strategy from configuration.
type Inferrer interface {
	// Name returns the strategy identifier
	Name() string

	// Infer analyzes one page
	Infer(page model.PageInput) (*InferenceResult, error)
}

// RuleBasedConfig bundles the configuration of every stage the rule-based
// inferrer composes.
type RuleBasedConfig struct {
	// Line configures line reconstruction
	Line LineBuilderConfig

	// Classifier configures column classification
	Classifier ClassifierConfig

	// Tables configures table detection
	Tables tables.Config

	// Assembler configures unit assembly
	Assembler AssemblerConfig
}

// DefaultRuleBasedConfig returns default configuration for every stage.
func DefaultRuleBasedConfig() RuleBasedConfig {
	return RuleBasedConfig{
		Line:       DefaultLineBuilderConfig(),
		Classifier: DefaultClassifierConfig(),
		Tables:     tables.DefaultConfig(),
		Assembler:  DefaultAssemblerConfig(),
	}
}

// RuleBasedInferrer is the default inference strategy: reconstruct lines,
// classify the column layout, detect and structure tables, then assemble
// the remaining lines into ordered units.
type RuleBasedInferrer struct {
	lines      *LineBuilder
	classifier *Classifier
	tables     *tables.Pipeline
	assembler  *Assembler
	logger     *slog.Logger
}

// NewRuleBasedInferrer creates a rule-based inferrer with default
// configuration.
func NewRuleBasedInferrer() *RuleBasedInferrer {
	return NewRuleBasedInferrerWithConfig(DefaultRuleBasedConfig())
}

// NewRuleBasedInferrerWithConfig creates a rule-based inferrer with the
// supplied stage configuration.
func NewRuleBasedInferrerWithConfig(config RuleBasedConfig) *RuleBasedInferrer {
	return &RuleBasedInferrer{
		lines:      NewLineBuilderWithConfig(config.Line),
		classifier: NewClassifierWithConfig(config.Classifier),
		tables:     tables.NewPipelineWithConfig(config.Tables),
		assembler:  NewAssemblerWithConfig(config.Assembler),
	}
}

// SetLogger attaches a structured logger to the inferrer and its table
// pipeline. A nil logger disables logging.
func (r *RuleBasedInferrer) SetLogger(logger *slog.Logger) {
	r.logger = logger
	r.tables.SetLogger(logger)
}

// Name returns "rules".
func (r *RuleBasedInferrer) Name() string {
	return "rules"
}

// Infer runs the full rule-based pipeline over one page.
func (r *RuleBasedInferrer) Infer(page model.PageInput) (*InferenceResult, error) {
	if !page.HasPositions() {
		return nil, fmt.Errorf("page %d: %w", page.Number, ErrNoPositions)
	}

	lines := r.lines.Build(page.Items)
	if len(lines) == 0 {
		return &InferenceResult{
			Layout:     model.LayoutSingleColumn,
			Confidence: 1.0,
			Warnings:   []string{"no usable item geometry; page skipped"},
		}, nil
	}

	classification := r.classifier.Classify(lines, page.BBox)

	tableResult := r.tables.Run(tables.Input{
		Lines:    lines,
		Rects:    page.Rects,
		Rulings:  page.Rulings,
		PageBBox: page.BBox,
	}, classification.Type)

	units := r.assembler.Assemble(page.Number, tableResult.Residual, tableResult.Regions, classification.Columns, classification.Type)

	var structured []*model.StructuredTable
	for _, region := range tableResult.Regions {
		if region.Table != nil {
			structured = append(structured, region.Table)
		}
	}

	if r.logger != nil {
		r.logger.Debug("page inferred",
			"page", page.Number,
			"strategy", r.Name(),
			"layout", classification.Type.String(),
			"units", len(units),
			"tables", len(structured))
	}

	return &InferenceResult{
		Units:      units,
		Layout:     classification.Type,
		Confidence: classification.Confidence,
		Evidence:   classification.Evidence,
		Columns:    classification.Columns,
		Tables:     structured,
		Warnings:   tableResult.Warnings,
	}, nil
}
