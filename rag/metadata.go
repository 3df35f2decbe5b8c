package rag

import "github.com/tsawler/lamina/model"

// buildMetadata derives chunk metadata from the units it was packed from.
func buildMetadata(units []model.StructuredUnit) model.ChunkMetadata {
	metadata := model.ChunkMetadata{}
	if len(units) == 0 {
		return metadata
	}

	metadata.StartLine = units[0].StartLine
	metadata.EndLine = units[0].EndLine
	metadata.Headings = append([]string(nil), units[0].Headings...)

	extendMetadata(&metadata, units)
	return metadata
}

// extendMetadata folds additional units into existing metadata.
func extendMetadata(metadata *model.ChunkMetadata, units []model.StructuredUnit) {
	seen := map[string]bool{}
	for _, existing := range metadata.SemanticTypes {
		seen[existing] = true
	}

	columns := map[int]bool{}

	for _, unit := range units {
		if unit.StartLine < metadata.StartLine {
			metadata.StartLine = unit.StartLine
		}
		if unit.EndLine > metadata.EndLine {
			metadata.EndLine = unit.EndLine
		}

		name := unit.Type.String()
		if !seen[name] {
			seen[name] = true
			metadata.SemanticTypes = append(metadata.SemanticTypes, name)
		}

		if unit.Type.IsTabular() {
			metadata.HasTableContent = true
		}
		if unit.ColumnIndex >= 0 {
			columns[unit.ColumnIndex] = true
		}

		if unit.Numeric != nil {
			if metadata.Numeric == nil {
				metadata.Numeric = &model.NumericMetadata{}
			}
			metadata.Numeric.Merge(unit.Numeric)
		}
	}

	if len(columns) > 1 {
		metadata.SpansMultipleColumns = true
	}
	if metadata.Numeric != nil && metadata.Numeric.HasFinancialData() {
		metadata.HasFinancialData = true
	}
}

// mergeChunkMetadata folds one chunk's metadata into another's when two
// already-built chunks are combined.
func mergeChunkMetadata(dst *model.ChunkMetadata, src model.ChunkMetadata) {
	if src.StartLine < dst.StartLine {
		dst.StartLine = src.StartLine
	}
	if src.EndLine > dst.EndLine {
		dst.EndLine = src.EndLine
	}

	seen := map[string]bool{}
	for _, existing := range dst.SemanticTypes {
		seen[existing] = true
	}
	for _, name := range src.SemanticTypes {
		if !seen[name] {
			seen[name] = true
			dst.SemanticTypes = append(dst.SemanticTypes, name)
		}
	}

	dst.HasTableContent = dst.HasTableContent || src.HasTableContent
	dst.HasFinancialData = dst.HasFinancialData || src.HasFinancialData
	dst.SpansMultipleColumns = dst.SpansMultipleColumns || src.SpansMultipleColumns

	if src.Numeric != nil {
		if dst.Numeric == nil {
			dst.Numeric = &model.NumericMetadata{}
		}
		dst.Numeric.Merge(src.Numeric)
	}
}
