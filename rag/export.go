package rag

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/tsawler/lamina/model"
)

// ExportFormat selects the serialization format for chunk export.
type ExportFormat int

const (
	// FormatJSONL writes one JSON object per line
	FormatJSONL ExportFormat = iota
	// FormatJSON writes a single JSON array
	FormatJSON
	// FormatCSV writes comma-separated records with a header row
	FormatCSV
	// FormatTSV writes tab-separated records with a header row
	FormatTSV
)

// String returns the format name.
func (f ExportFormat) String() string {
	switch f {
	case FormatJSONL:
		return "jsonl"
	case FormatJSON:
		return "json"
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "unknown"
	}
}

// ParseExportFormat parses a format name.
func ParseExportFormat(name string) (ExportFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "jsonl":
		return FormatJSONL, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "tsv":
		return FormatTSV, nil
	default:
		return 0, fmt.Errorf("unknown export format %q", name)
	}
}

// Export writes chunks to w in the requested format. JSON formats carry the
// full chunk structure including structured tables; tabular formats flatten
// to one record per chunk.
func Export(w io.Writer, chunks []*model.Chunk, format ExportFormat) error {
	switch format {
	case FormatJSONL:
		return exportJSONL(w, chunks)
	case FormatJSON:
		return exportJSON(w, chunks)
	case FormatCSV:
		return exportSeparated(w, chunks, ',')
	case FormatTSV:
		return exportSeparated(w, chunks, '\t')
	default:
		return fmt.Errorf("unknown export format %d", format)
	}
}

func exportJSONL(w io.Writer, chunks []*model.Chunk) error {
	for _, chunk := range chunks {
		data, err := sonic.Marshal(chunk)
		if err != nil {
			return fmt.Errorf("marshaling chunk %d: %w", chunk.Metadata.ChunkIndex, err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

func exportJSON(w io.Writer, chunks []*model.Chunk) error {
	if chunks == nil {
		chunks = []*model.Chunk{}
	}
	data, err := sonic.Marshal(chunks)
	if err != nil {
		return fmt.Errorf("marshaling chunks: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// ExportRecord is a flattened, embedding-ready view of a chunk: heading
// context is folded into the text and metadata is reduced to scalar fields.
type ExportRecord struct {
	ChunkIndex       int      `json:"chunk_index"`
	PageNumber       *int     `json:"page_number"`
	Text             string   `json:"text"`
	Headings         []string `json:"headings,omitempty"`
	SemanticTypes    []string `json:"semantic_types,omitempty"`
	HasTableContent  bool     `json:"has_table_content"`
	HasFinancialData bool     `json:"has_financial_data"`
	CharCount        int      `json:"char_count"`
	WordCount        int      `json:"word_count"`
	EstimatedTokens  int      `json:"estimated_tokens"`
}

// NewExportRecord flattens a chunk for embedding ingestion. The record text
// carries the nearest heading as a context prefix.
func NewExportRecord(chunk *model.Chunk) ExportRecord {
	return ExportRecord{
		ChunkIndex:       chunk.Metadata.ChunkIndex,
		PageNumber:       chunk.PageNumber,
		Text:             chunk.TextWithContext(),
		Headings:         chunk.Metadata.Headings,
		SemanticTypes:    chunk.Metadata.SemanticTypes,
		HasTableContent:  chunk.Metadata.HasTableContent,
		HasFinancialData: chunk.Metadata.HasFinancialData,
		CharCount:        chunk.Metadata.CharCount,
		WordCount:        chunk.Metadata.WordCount,
		EstimatedTokens:  chunk.Metadata.EstimatedTokens,
	}
}

// ExportRecords writes chunks as flattened JSONL records, one per line.
func ExportRecords(w io.Writer, chunks []*model.Chunk) error {
	for _, chunk := range chunks {
		data, err := sonic.Marshal(NewExportRecord(chunk))
		if err != nil {
			return fmt.Errorf("marshaling record %d: %w", chunk.Metadata.ChunkIndex, err)
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}
	return nil
}

var separatedHeader = []string{
	"chunk_index", "page_number", "start_line", "end_line",
	"semantic_types", "headings", "has_table_content",
	"has_financial_data", "char_count", "word_count", "text",
}

func exportSeparated(w io.Writer, chunks []*model.Chunk, comma rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = comma

	if err := writer.Write(separatedHeader); err != nil {
		return err
	}

	for _, chunk := range chunks {
		page := ""
		if chunk.PageNumber != nil {
			page = strconv.Itoa(*chunk.PageNumber)
		}
		record := []string{
			strconv.Itoa(chunk.Metadata.ChunkIndex),
			page,
			strconv.Itoa(chunk.Metadata.StartLine),
			strconv.Itoa(chunk.Metadata.EndLine),
			strings.Join(chunk.Metadata.SemanticTypes, ";"),
			chunk.HeadingPath(),
			strconv.FormatBool(chunk.Metadata.HasTableContent),
			strconv.FormatBool(chunk.Metadata.HasFinancialData),
			strconv.Itoa(chunk.Metadata.CharCount),
			strconv.Itoa(chunk.Metadata.WordCount),
			chunk.Text,
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
