package model

import (
	"fmt"
	"strings"
	"unicode"
)

// ChunkMetadata contains contextual information about a chunk's place in the
// document and the content it carries.
type ChunkMetadata struct {
	// ChunkIndex is the position of this chunk in the output (0-indexed)
	ChunkIndex int `json:"chunk_index"`

	// StartLine and EndLine are the source line range covered by the chunk
	StartLine int `json:"start_line"`
	EndLine   int `json:"end_line"`

	// SemanticTypes lists the distinct unit types the chunk contains
	SemanticTypes []string `json:"semantic_types"`

	// HasTableContent is true if the chunk carries table rows
	HasTableContent bool `json:"has_table_content"`

	// HasFinancialData is true if currency content was found
	HasFinancialData bool `json:"has_financial_data"`

	// SpansMultipleColumns is true if the chunk's units came from more
	// than one column
	SpansMultipleColumns bool `json:"spans_multiple_columns,omitempty"`

	// Numeric aggregates numeric content across the chunk's units
	Numeric *NumericMetadata `json:"numeric_metadata,omitempty"`

	// Headings are the heading texts in scope for this chunk
	Headings []string `json:"table_context_headings,omitempty"`

	// CharCount is the number of bytes in the chunk text
	CharCount int `json:"char_count"`

	// WordCount is the number of words in the chunk text
	WordCount int `json:"word_count"`

	// EstimatedTokens is a rough token estimate (chars/4)
	EstimatedTokens int `json:"estimated_tokens"`
}

// Chunk is the final output unit: size-bounded, metadata-annotated text
// handed to the embedding collaborator. Chunks are immutable once emitted.
type Chunk struct {
	// Text is the chunk content
	Text string `json:"text"`

	// PageNumber is the 1-indexed page, nil for non-paged sources
	PageNumber *int `json:"page_number"`

	// Metadata carries the chunk's contextual information
	Metadata ChunkMetadata `json:"metadata"`

	// Tables are the structured tables whose rows appear in this chunk
	Tables []*StructuredTable `json:"structured_tables,omitempty"`
}

// NewChunk creates a chunk and fills in the derived text statistics.
func NewChunk(text string, page int, metadata ChunkMetadata) *Chunk {
	metadata.CharCount = len(text)
	metadata.WordCount = countWords(text)
	metadata.EstimatedTokens = len(text) / 4

	chunk := &Chunk{
		Text:     text,
		Metadata: metadata,
	}
	if page > 0 {
		p := page
		chunk.PageNumber = &p
	}
	return chunk
}

// TextWithContext returns the chunk text with its nearest heading prepended,
// for better retrieval.
func (c *Chunk) TextWithContext() string {
	if len(c.Metadata.Headings) == 0 {
		return c.Text
	}
	heading := c.Metadata.Headings[len(c.Metadata.Headings)-1]
	return fmt.Sprintf("[%s]\n\n%s", heading, c.Text)
}

// HeadingPath returns the heading context as a formatted string.
func (c *Chunk) HeadingPath() string {
	if len(c.Metadata.Headings) == 0 {
		return ""
	}
	return strings.Join(c.Metadata.Headings, " > ")
}

// countWords counts the number of words in text.
func countWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		if unicode.IsSpace(r) {
			inWord = false
		} else if !inWord {
			inWord = true
			words++
		}
	}
	return words
}
