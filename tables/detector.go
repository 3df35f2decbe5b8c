package tables

import (
	"github.com/tsawler/lamina/model"
)

// Input is the page evidence a detector works from.
type Input struct {
	// Lines are the page's reconstructed text lines
	Lines []model.Line

	// Rects are rectangles drawn on the page
	Rects []model.Rect

	// Rulings are line segments drawn on the page
	Rulings []model.Ruling

	// PageBBox is the page's bounding box
	PageBBox model.BBox
}

// Candidate is a table candidate produced by one detection pass.
type Candidate struct {
	// BBox is the candidate's bounding box
	BBox model.BBox

	// Rows are the raw cell texts, row-major
	Rows [][]string

	// Lines are the text lines covered by the candidate
	Lines []model.Line

	// Confidence is the pass's confidence in the candidate (0-1)
	Confidence float64

	// Source tags the pass: "ruled", "borderless", or "content"
	Source string
}

// Detector is the interface for table detection passes.
type Detector interface {
	// Detect finds table candidates in a page
	Detect(input Input) ([]Candidate, error)

	// Name returns the detector name
	Name() string

	// Configure sets detector parameters
	Configure(config Config) error
}

// Config holds detector configuration shared by all passes.
type Config struct {
	// MinRows is the minimum number of rows for a valid table
	MinRows int

	// MinCols is the minimum number of columns for a valid table
	MinCols int

	// MinConfidence is the base acceptance floor for candidates (0-1)
	MinConfidence float64

	// MultiColumnRaise is added to the acceptance floor for content-based
	// candidates when the page was classified multi_column_text, to avoid
	// misreading justified column prose as a table
	MultiColumnRaise float64

	// RowYTolerance groups lines into the same table row by Y proximity
	RowYTolerance float64

	// CellGapFontScale splits a line into cells where the gap between
	// items exceeds this multiple of the font size
	CellGapFontScale float64

	// BoundaryClusterGap clusters ruled-line coordinates within this
	// distance into one grid boundary
	BoundaryClusterGap float64

	// RuledPriorityFloor is the accuracy above which a ruled-grid result
	// suppresses overlapping borderless results
	RuledPriorityFloor float64

	// MaxRowWords is the word count above which narrative density is
	// checked for anti-table evidence
	MaxRowWords int

	// ConnectorDensityLimit rejects a row group as tabular when its
	// narrative connector density exceeds this fraction
	ConnectorDensityLimit float64
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	return Config{
		MinRows:               2,
		MinCols:               2,
		MinConfidence:         0.5,
		MultiColumnRaise:      0.2,
		RowYTolerance:         5.0,
		CellGapFontScale:      1.5,
		BoundaryClusterGap:    5.0,
		RuledPriorityFloor:    0.5,
		MaxRowWords:           12,
		ConnectorDensityLimit: 0.08,
	}
}

// Registry holds registered detectors by name.
type Registry struct {
	detectors map[string]Detector
	order     []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{detectors: make(map[string]Detector)}
}

// Register registers a detector. Registration order is preserved.
func (r *Registry) Register(detector Detector) {
	if _, exists := r.detectors[detector.Name()]; !exists {
		r.order = append(r.order, detector.Name())
	}
	r.detectors[detector.Name()] = detector
}

// Get retrieves a detector by name, or nil.
func (r *Registry) Get(name string) Detector {
	return r.detectors[name]
}

// List returns registered detector names in registration order.
func (r *Registry) List() []string {
	return append([]string(nil), r.order...)
}
