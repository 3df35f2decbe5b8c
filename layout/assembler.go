package layout

import (
	"sort"
	"strings"

	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/numeric"
)

// AssemblerConfig holds configuration for unit assembly.
type AssemblerConfig struct {
	// UnitConfig configures residual line classification
	UnitConfig UnitConfig

	// HeadingWindow is the maximum number of nearest-preceding headings
	// attached to a unit as context (default: 3)
	HeadingWindow int

	// YBandTolerance groups units into the same Y band for ordering
	// (default: 8.0)
	YBandTolerance float64

	// SpanningWidthRatio marks a unit as column-spanning when its width
	// exceeds this fraction of the content width (default: 0.7)
	SpanningWidthRatio float64
}

// DefaultAssemblerConfig returns sensible default configuration.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		UnitConfig:         DefaultUnitConfig(),
		HeadingWindow:      3,
		YBandTolerance:     8.0,
		SpanningWidthRatio: 0.7,
	}
}

// Assembler merges table regions and residual text lines into an ordered
// sequence of typed structural units in natural reading order. Heading
// context is threaded through the walk as an explicit bounded window, so
// downstream consumers see the nearest preceding headings on every unit.
type Assembler struct {
	config AssemblerConfig
	parser *numeric.Parser
}

// NewAssembler creates an assembler with default configuration.
func NewAssembler() *Assembler {
	return NewAssemblerWithConfig(DefaultAssemblerConfig())
}

// NewAssemblerWithConfig creates an assembler with custom configuration.
func NewAssemblerWithConfig(config AssemblerConfig) *Assembler {
	if config.HeadingWindow <= 0 {
		config.HeadingWindow = 3
	}
	return &Assembler{
		config: config,
		parser: numeric.NewParser(),
	}
}

// Assemble merges the page's table regions and residual lines into an
// ordered unit sequence. Reading-order indices form a strictly increasing
// sequence with no duplicates.
func (a *Assembler) Assemble(page int, residual []model.Line, regions []model.LayoutRegion, columns []model.Column, layoutType model.LayoutType) []model.StructuredUnit {
	var units []model.StructuredUnit

	units = append(units, a.textUnits(page, residual, columns)...)
	units = append(units, a.tableUnits(page, regions, columns)...)

	if len(units) == 0 {
		return nil
	}

	a.orderUnits(units, columns, layoutType)

	// Thread the heading window through the ordered walk and attach
	// numeric metadata
	var window []string
	for i := range units {
		unit := &units[i]

		if len(window) > 0 {
			unit.Headings = append([]string(nil), window...)
		}

		if unit.Type == model.UnitHeading {
			window = append(window, unit.Text)
			if len(window) > a.config.HeadingWindow {
				window = window[len(window)-a.config.HeadingWindow:]
			}
		}

		if unit.Type != model.UnitTableJSON {
			unit.Numeric = a.parser.ScanText(unit.Text)
		}
	}

	return units
}

// textUnits groups residual lines into heading, bullet, and paragraph
// units. Lines are grouped per column so side-by-side prose never merges
// into one paragraph.
func (a *Assembler) textUnits(page int, residual []model.Line, columns []model.Column) []model.StructuredUnit {
	if len(residual) == 0 {
		return nil
	}

	medianFont := medianFontSize(residual)
	gapLimit := medianLineGap(residual) * a.config.UnitConfig.ParagraphGapFactor
	if gapLimit <= 0 {
		gapLimit = 1e9
	}

	// Partition lines by owning column; spanning lines go to their own
	// group keyed by -1
	byColumn := make(map[int][]model.Line)
	for _, line := range residual {
		col := ColumnForLine(columns, line)
		byColumn[col] = append(byColumn[col], line)
	}

	var units []model.StructuredUnit

	for col, lines := range byColumn {
		sort.Slice(lines, func(i, j int) bool {
			return lines[i].BBox.Top() < lines[j].BBox.Top()
		})

		var buffer []model.Line
		var bufferClass LineClass

		flush := func() {
			if len(buffer) == 0 {
				return
			}
			units = append(units, a.makeTextUnit(page, buffer, bufferClass, col))
			buffer = nil
		}

		for _, line := range lines {
			class := ClassifyLine(line, medianFont, a.config.UnitConfig)

			switch class {
			case ClassHeadingLine, ClassBulletLine:
				// Headings and bullets start their own unit
				flush()
				buffer = []model.Line{line}
				bufferClass = class
				flush()
				continue
			}

			if len(buffer) == 0 {
				buffer = []model.Line{line}
				bufferClass = ClassParagraphLine
			} else {
				prev := buffer[len(buffer)-1]
				gap := line.BBox.Top() - prev.BBox.Bottom()
				if gap > gapLimit || endsWithSentencePunctuation(prev.Text) && gap > gapLimit/2 {
					flush()
					buffer = []model.Line{line}
					bufferClass = ClassParagraphLine
				} else {
					buffer = append(buffer, line)
				}
			}
		}
		flush()
	}

	return units
}

// makeTextUnit builds a StructuredUnit from grouped lines.
func (a *Assembler) makeTextUnit(page int, lines []model.Line, class LineClass, col int) model.StructuredUnit {
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = strings.TrimSpace(line.Text)
	}

	unitType := model.UnitParagraph
	switch class {
	case ClassHeadingLine:
		unitType = model.UnitHeading
	case ClassBulletLine:
		unitType = model.UnitBullet
	}

	return model.StructuredUnit{
		Type:        unitType,
		Text:        strings.Join(texts, " "),
		StartLine:   lines[0].Index,
		EndLine:     lines[len(lines)-1].Index,
		BBox:        model.LinesBBox(lines),
		Page:        page,
		ColumnIndex: col,
	}
}

// tableUnits converts table regions into table-header and table-row units.
// The header unit carries the structured payload for the whole group.
func (a *Assembler) tableUnits(page int, regions []model.LayoutRegion, columns []model.Column) []model.StructuredUnit {
	var units []model.StructuredUnit

	for _, region := range regions {
		if region.Table == nil {
			continue
		}
		table := region.Table
		col := -1
		for _, c := range columns {
			if c.BBox.HorizontalOverlapRatio(region.BBox) > 0.8 {
				col = c.Index
				break
			}
		}

		startLine, endLine := regionLineRange(region)

		header := model.StructuredUnit{
			Type:        model.UnitTableHeader,
			Text:        strings.Join(table.Headers, "\t"),
			StartLine:   startLine,
			EndLine:     startLine,
			BBox:        region.BBox,
			Page:        page,
			ColumnIndex: col,
			Table:       table,
		}
		units = append(units, header)

		rowCount := len(table.Rows)
		for r, row := range table.Rows {
			texts := make([]string, len(row))
			for j, cell := range row {
				texts[j] = cell.Text
			}
			rowLine := startLine
			if rowCount > 0 && endLine > startLine {
				rowLine = startLine + 1 + r*(endLine-startLine)/max(rowCount, 1)
			}
			units = append(units, model.StructuredUnit{
				Type:        model.UnitTableRow,
				Text:        strings.Join(texts, "\t"),
				StartLine:   rowLine,
				EndLine:     rowLine,
				BBox:        rowBBox(region.BBox, r+1, rowCount+1),
				Page:        page,
				ColumnIndex: col,
			})
		}
	}

	return units
}

// regionLineRange returns the line index range covered by a region.
func regionLineRange(region model.LayoutRegion) (start, end int) {
	if len(region.Lines) == 0 {
		return 0, 0
	}
	start = region.Lines[0].Index
	end = region.Lines[0].Index
	for _, line := range region.Lines[1:] {
		if line.Index < start {
			start = line.Index
		}
		if line.Index > end {
			end = line.Index
		}
	}
	return start, end
}

// rowBBox slices a region bbox into the approximate band for one row.
func rowBBox(region model.BBox, row, total int) model.BBox {
	if total <= 0 {
		return region
	}
	rowHeight := region.Height / float64(total)
	return model.BBox{
		X:      region.X,
		Y:      region.Y + rowHeight*float64(row),
		Width:  region.Width,
		Height: rowHeight,
	}
}

// orderUnits assigns reading-order indices. Single-column pages order by
// (Y band, X center). Multi-column pages read column by column within
// sections delimited by column-spanning units.
func (a *Assembler) orderUnits(units []model.StructuredUnit, columns []model.Column, layoutType model.LayoutType) {
	if layoutType.IsMultiColumn() && len(columns) >= 2 {
		a.orderColumnar(units, columns)
	} else {
		a.orderByBands(units)
	}

	for i := range units {
		units[i].ReadingOrder = i
	}
}

// orderByBands sorts units by (Y band, X center), which interleaves
// side-by-side content in visual order.
func (a *Assembler) orderByBands(units []model.StructuredUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		dy := units[i].BBox.Top() - units[j].BBox.Top()
		if abs(dy) > a.config.YBandTolerance {
			return dy < 0
		}
		return units[i].BBox.CenterX() < units[j].BBox.CenterX()
	})
}

// orderColumnar orders units in sections: a column-spanning unit closes
// the current section, and within a section columns are read left to
// right, each top to bottom.
func (a *Assembler) orderColumnar(units []model.StructuredUnit, columns []model.Column) {
	contentWidth := columns[0].BBox.Width
	for _, col := range columns[1:] {
		contentWidth += col.BBox.Width
	}

	spanning := func(u model.StructuredUnit) bool {
		return u.ColumnIndex < 0 || u.BBox.Width >= contentWidth*a.config.SpanningWidthRatio
	}

	// Sort by Y first to find section breaks in vertical order
	sort.SliceStable(units, func(i, j int) bool {
		return units[i].BBox.Top() < units[j].BBox.Top()
	})

	var ordered []model.StructuredUnit
	var section []model.StructuredUnit

	flushSection := func() {
		sort.SliceStable(section, func(i, j int) bool {
			if section[i].ColumnIndex != section[j].ColumnIndex {
				return section[i].ColumnIndex < section[j].ColumnIndex
			}
			return section[i].BBox.Top() < section[j].BBox.Top()
		})
		ordered = append(ordered, section...)
		section = nil
	}

	for _, unit := range units {
		if spanning(unit) {
			flushSection()
			ordered = append(ordered, unit)
			continue
		}
		section = append(section, unit)
	}
	flushSection()

	copy(units, ordered)
}
