package rag

// ChunkConfig controls chunk sizing and overlap.
type ChunkConfig struct {
	// TargetSize is the preferred chunk size in characters (default: 1800)
	TargetSize int

	// MinSize is the size below which a trailing non-table chunk is
	// merged into its predecessor instead of emitted (default: 200)
	MinSize int

	// OverlapMin and OverlapMax bound the overlap carried between
	// consecutive chunks, in characters. The actual overlap lands inside
	// the band at a natural break, or is empty when no break fits
	// (defaults: 100, 300)
	OverlapMin int
	OverlapMax int

	// TableCeilingRatio relaxes the size ceiling for chunks that keep a
	// table group intact (default: 1.2)
	TableCeilingRatio float64

	// RepeatTableHeader repeats the table header row in every continuation
	// chunk when a table group must split at row boundaries (default: true)
	RepeatTableHeader bool

	// MinChunksPerPage and MaxChunksPerPage guard how many chunks one
	// page may produce. The minimum suppresses tail merging when a page
	// would otherwise fall below it; the maximum folds overflow chunks
	// into the last permitted one. Zero disables either guard.
	MinChunksPerPage int
	MaxChunksPerPage int
}

// DefaultChunkConfig returns sensible default configuration.
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		TargetSize:        1800,
		MinSize:           200,
		OverlapMin:        100,
		OverlapMax:        300,
		TableCeilingRatio: 1.2,
		RepeatTableHeader: true,
	}
}

// tableCeiling is the relaxed size limit for table-preserving chunks.
func (c ChunkConfig) tableCeiling() int {
	ratio := c.TableCeilingRatio
	if ratio < 1.0 {
		ratio = 1.0
	}
	return int(float64(c.TargetSize) * ratio)
}
