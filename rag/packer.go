package rag

import (
	"strings"

	"github.com/tsawler/lamina/model"
)

// Packer assembles structured units into size-bounded, overlap-linked
// chunks. Prose units fill toward the target size and spill with a carried
// overlap; table groups are kept intact under a relaxed ceiling and split
// only at row boundaries when even the relaxed ceiling cannot hold them.
type Packer struct {
	config ChunkConfig
}

// NewPacker creates a packer with default configuration.
func NewPacker() *Packer {
	return NewPackerWithConfig(DefaultChunkConfig())
}

// NewPackerWithConfig creates a packer with custom configuration.
func NewPackerWithConfig(config ChunkConfig) *Packer {
	if config.TargetSize <= 0 {
		config.TargetSize = DefaultChunkConfig().TargetSize
	}
	return &Packer{config: config}
}

// Pack converts one page's ordered units into chunks. The page number is
// recorded on every chunk; pass 0 for non-paged sources.
func (p *Packer) Pack(page int, units []model.StructuredUnit) []*model.Chunk {
	if len(units) == 0 {
		return nil
	}

	state := &packState{packer: p, page: page}

	for i := 0; i < len(units); {
		if units[i].Type.IsTabular() {
			j := i
			for j < len(units) && units[j].Type.IsTabular() {
				j++
			}
			state.addTableGroup(units[i:j])
			i = j
			continue
		}
		state.addText(units[i])
		i++
	}

	state.finish()

	chunks := state.chunks
	if max := p.config.MaxChunksPerPage; max > 0 && len(chunks) > max {
		chunks = capChunks(chunks, max)
	}

	for i, chunk := range chunks {
		chunk.Metadata.ChunkIndex = i
	}
	return chunks
}

// capChunks folds chunks beyond the page limit into the last permitted one.
func capChunks(chunks []*model.Chunk, max int) []*model.Chunk {
	head := chunks[:max-1]
	tail := chunks[max-1:]

	var sb strings.Builder
	metadata := tail[0].Metadata
	var tables []*model.StructuredTable
	for i, chunk := range tail {
		if i > 0 {
			sb.WriteString("\n\n")
			mergeChunkMetadata(&metadata, chunk.Metadata)
		}
		sb.WriteString(chunk.Text)
		tables = append(tables, chunk.Tables...)
	}

	page := 0
	if tail[0].PageNumber != nil {
		page = *tail[0].PageNumber
	}
	merged := model.NewChunk(sb.String(), page, metadata)
	merged.Tables = tables
	return append(head, merged)
}

// packState is the packer's working state for one page.
type packState struct {
	packer  *Packer
	page    int
	chunks  []*model.Chunk
	pending []model.StructuredUnit
	carry   string // Overlap text carried from the previous chunk
}

func (s *packState) config() ChunkConfig {
	return s.packer.config
}

// pendingSize is the text length the pending units would render to,
// including the carried overlap.
func (s *packState) pendingSize() int {
	size := len(s.carry)
	for i, unit := range s.pending {
		if i > 0 || size > 0 {
			size += 2
		}
		size += len(unit.Text)
	}
	return size
}

// addText accumulates one prose unit, spilling the pending buffer when the
// target size is exceeded.
func (s *packState) addText(unit model.StructuredUnit) {
	target := s.config().TargetSize

	if len(unit.Text) > target {
		s.flush(false)
		s.splitOversized(unit)
		return
	}

	if len(s.pending) > 0 && s.pendingSize()+len(unit.Text)+2 > target {
		s.flush(true)
	}
	s.pending = append(s.pending, unit)
}

// addTableGroup accumulates a contiguous run of table units. The group is
// atomic under the relaxed ceiling; beyond it, the group splits at row
// boundaries.
func (s *packState) addTableGroup(group []model.StructuredUnit) {
	ceiling := s.config().tableCeiling()

	groupSize := 0
	for _, unit := range group {
		groupSize += len(unit.Text) + 1
	}

	if len(s.pending) > 0 && s.pendingSize()+groupSize > ceiling {
		s.flush(false)
	}

	if groupSize <= ceiling {
		s.pending = append(s.pending, group...)
		return
	}

	// The group alone exceeds even the relaxed ceiling: emit the pending
	// buffer, then split the group at row boundaries
	s.flush(false)
	s.splitTableGroup(group, ceiling)
}

// splitOversized splits a single unit larger than the target into
// consecutive overlapping chunks at natural text boundaries.
func (s *packState) splitOversized(unit model.StructuredUnit) {
	config := s.config()
	text := unit.Text

	for len(text) > 0 {
		cut := len(text)
		if cut > config.TargetSize {
			cut = breakBefore(text, config.TargetSize)
		}
		piece := strings.TrimSpace(text[:cut])
		if piece != "" {
			s.emit(piece, []model.StructuredUnit{unit})
		}
		if cut >= len(text) {
			break
		}
		overlap := overlapTail(piece, config.OverlapMin, config.OverlapMax)
		text = strings.TrimSpace(text[cut:])
		if overlap != "" {
			text = overlap + " " + text
		}
	}
}

// splitTableGroup splits a table run at row boundaries, repeating the
// header unit in every continuation piece when configured.
func (s *packState) splitTableGroup(group []model.StructuredUnit, ceiling int) {
	var header *model.StructuredUnit
	if group[0].Type == model.UnitTableHeader {
		header = &group[0]
	}

	var piece []model.StructuredUnit
	pieceSize := 0

	flushPiece := func() {
		if len(piece) == 0 {
			return
		}
		s.emit(renderUnits("", piece), piece)
		piece = nil
		pieceSize = 0
	}

	for i, unit := range group {
		unitSize := len(unit.Text) + 1
		if pieceSize+unitSize > ceiling && len(piece) > 0 {
			flushPiece()
			if header != nil && i > 0 && s.config().RepeatTableHeader {
				piece = []model.StructuredUnit{*header}
				pieceSize = len(header.Text) + 1
			}
		}
		piece = append(piece, unit)
		pieceSize += unitSize
	}
	flushPiece()
}

// flush emits the pending buffer as one chunk. When withOverlap is set, an
// overlap tail is carried into the next chunk.
func (s *packState) flush(withOverlap bool) {
	if len(s.pending) == 0 {
		return
	}

	text := renderUnits(s.carry, s.pending)
	s.emit(text, s.pending)

	s.carry = ""
	if withOverlap {
		s.carry = overlapTail(text, s.config().OverlapMin, s.config().OverlapMax)
	}
	s.pending = nil
}

// finish emits whatever remains. A trailing fragment below the minimum
// size joins the previous chunk instead of standing alone, unless it
// carries table content.
func (s *packState) finish() {
	if len(s.pending) == 0 {
		return
	}

	tabular := false
	for _, unit := range s.pending {
		if unit.Type.IsTabular() {
			tabular = true
			break
		}
	}

	if !tabular && s.pendingSize() < s.config().MinSize && len(s.chunks) > 0 &&
		len(s.chunks) >= s.config().MinChunksPerPage {
		s.mergeIntoLast()
		return
	}
	s.flush(false)
}

// mergeIntoLast appends the pending fragment to the previous chunk.
func (s *packState) mergeIntoLast() {
	last := s.chunks[len(s.chunks)-1]
	fragment := renderUnits("", s.pending)
	merged := last.Text + "\n\n" + fragment

	metadata := last.Metadata
	extendMetadata(&metadata, s.pending)

	page := 0
	if last.PageNumber != nil {
		page = *last.PageNumber
	}
	s.chunks[len(s.chunks)-1] = model.NewChunk(merged, page, metadata)
	s.chunks[len(s.chunks)-1].Tables = last.Tables
	s.pending = nil
	s.carry = ""
}

// emit builds and records one chunk from rendered text and its units.
func (s *packState) emit(text string, units []model.StructuredUnit) {
	metadata := buildMetadata(units)
	chunk := model.NewChunk(text, s.page, metadata)
	chunk.Tables = collectTables(units)
	s.chunks = append(s.chunks, chunk)
}

// renderUnits joins unit texts: table units stack line by line, prose units
// separate into paragraphs.
func renderUnits(carry string, units []model.StructuredUnit) string {
	var sb strings.Builder
	sb.WriteString(carry)

	for i, unit := range units {
		if sb.Len() > 0 {
			if i > 0 && units[i-1].Type.IsTabular() && unit.Type.IsTabular() {
				sb.WriteString("\n")
			} else {
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(unit.Text)
	}
	return sb.String()
}

// collectTables gathers the distinct structured tables the units carry.
func collectTables(units []model.StructuredUnit) []*model.StructuredTable {
	var tables []*model.StructuredTable
	seen := map[*model.StructuredTable]bool{}
	for _, unit := range units {
		if unit.Table != nil && !seen[unit.Table] {
			seen[unit.Table] = true
			tables = append(tables, unit.Table)
		}
	}
	return tables
}
