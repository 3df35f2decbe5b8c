package rag

import "github.com/tsawler/lamina/model"

// ChunkStats summarizes a chunk set for logging and tuning.
type ChunkStats struct {
	// Count is the number of chunks
	Count int

	// MinSize, MaxSize, and MeanSize describe the chunk sizes in
	// characters
	MinSize  int
	MaxSize  int
	MeanSize int

	// TotalChars, TotalWords, and TotalTokens aggregate size across the
	// set; tokens use the chunk estimates
	TotalChars  int
	TotalWords  int
	TotalTokens int

	// TableChunks counts chunks carrying table content
	TableChunks int

	// FinancialChunks counts chunks flagged with financial data
	FinancialChunks int

	// UnitTypes tallies how many chunks contain each semantic type
	UnitTypes map[string]int
}

// ComputeStats summarizes chunks.
func ComputeStats(chunks []*model.Chunk) ChunkStats {
	stats := ChunkStats{Count: len(chunks)}
	if len(chunks) == 0 {
		return stats
	}

	stats.MinSize = chunks[0].Metadata.CharCount
	stats.UnitTypes = make(map[string]int)
	for _, chunk := range chunks {
		size := chunk.Metadata.CharCount
		stats.TotalChars += size
		stats.TotalWords += chunk.Metadata.WordCount
		stats.TotalTokens += chunk.Metadata.EstimatedTokens
		if size < stats.MinSize {
			stats.MinSize = size
		}
		if size > stats.MaxSize {
			stats.MaxSize = size
		}
		if chunk.Metadata.HasTableContent {
			stats.TableChunks++
		}
		if chunk.Metadata.HasFinancialData {
			stats.FinancialChunks++
		}
		for _, st := range chunk.Metadata.SemanticTypes {
			stats.UnitTypes[st]++
		}
	}
	stats.MeanSize = stats.TotalChars / len(chunks)

	return stats
}
