package textinput

import (
	"strings"

	"github.com/tsawler/lamina/layout"
	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/numeric"
)

// Segmenter converts positionless plain text into structured units. It is
// the entry path for sources with no geometry: headings, bullets, and
// paragraphs are recognized from text shape alone, and blank lines separate
// blocks.
type Segmenter struct {
	config layout.UnitConfig
	window int
	parser *numeric.Parser
}

// NewSegmenter creates a segmenter with default configuration.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		config: layout.DefaultUnitConfig(),
		window: 3,
		parser: numeric.NewParser(),
	}
}

// SegmentText splits plain text into ordered structured units. Page is
// recorded as 0 on every unit: plain text has no pages.
func (s *Segmenter) SegmentText(text string) []model.StructuredUnit {
	lines := strings.Split(text, "\n")

	var units []model.StructuredUnit
	var buffer []string
	bufferStart := 0

	flush := func(end int) {
		if len(buffer) == 0 {
			return
		}
		units = append(units, model.StructuredUnit{
			Type:        model.UnitParagraph,
			Text:        strings.Join(buffer, " "),
			StartLine:   bufferStart,
			EndLine:     end,
			ColumnIndex: -1,
		})
		buffer = nil
	}

	for i, raw := range lines {
		text := strings.TrimSpace(raw)
		if text == "" {
			flush(i - 1)
			continue
		}

		// Classification reuses the layout shape rules; with no font
		// data only the textual signals apply
		class := layout.ClassifyLine(model.Line{Text: text}, 0, s.config)

		switch class {
		case layout.ClassHeadingLine:
			flush(i - 1)
			units = append(units, model.StructuredUnit{
				Type:        model.UnitHeading,
				Text:        text,
				StartLine:   i,
				EndLine:     i,
				ColumnIndex: -1,
			})
		case layout.ClassBulletLine:
			flush(i - 1)
			units = append(units, model.StructuredUnit{
				Type:        model.UnitBullet,
				Text:        text,
				StartLine:   i,
				EndLine:     i,
				ColumnIndex: -1,
			})
		default:
			if len(buffer) == 0 {
				bufferStart = i
			}
			buffer = append(buffer, text)
		}
	}
	flush(len(lines) - 1)

	s.annotate(units)
	return units
}

// annotate assigns reading order, heading context, and numeric metadata.
func (s *Segmenter) annotate(units []model.StructuredUnit) {
	var headings []string
	for i := range units {
		unit := &units[i]
		unit.ReadingOrder = i

		if len(headings) > 0 {
			unit.Headings = append([]string(nil), headings...)
		}
		if unit.Type == model.UnitHeading {
			headings = append(headings, unit.Text)
			if len(headings) > s.window {
				headings = headings[len(headings)-s.window:]
			}
		}

		if unit.Type != model.UnitTableJSON {
			unit.Numeric = s.parser.ScanText(unit.Text)
		}
	}
}
