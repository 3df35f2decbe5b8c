package model

import "strings"

// CellType classifies the typed value of a table cell.
type CellType int

const (
	// CellText is a cell with no recognized numeric or date content
	CellText CellType = iota
	// CellNumber is a plain numeric cell
	CellNumber
	// CellCurrency is a numeric cell with a currency symbol or code
	CellCurrency
	// CellPercentage is a numeric cell with a percent sign
	CellPercentage
	// CellDate is a date-shaped cell
	CellDate
	// CellEmpty is a cell with no content
	CellEmpty
)

// String returns a human-readable representation of the cell type.
func (ct CellType) String() string {
	switch ct {
	case CellText:
		return "text"
	case CellNumber:
		return "number"
	case CellCurrency:
		return "currency"
	case CellPercentage:
		return "percentage"
	case CellDate:
		return "date"
	case CellEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// IsNumeric returns true for cell types carrying a numeric value.
func (ct CellType) IsNumeric() bool {
	switch ct {
	case CellNumber, CellCurrency, CellPercentage:
		return true
	default:
		return false
	}
}

// TypedCell is one table cell with its parsed value.
type TypedCell struct {
	// Type is the cell classification
	Type CellType `json:"type"`

	// Value is the parsed numeric value (0 for non-numeric cells).
	// Negative amounts carry their sign here.
	Value float64 `json:"value"`

	// Currency is the ISO 4217 code for currency cells ("" otherwise)
	Currency string `json:"currency,omitempty"`

	// Negative is true if the token was parenthesized or carried a minus
	Negative bool `json:"negative,omitempty"`

	// Text is the original cell text, untouched
	Text string `json:"text"`
}

// TableSummary describes a structured table at a glance.
type TableSummary struct {
	// RowCount and ColCount are the table dimensions (data rows only)
	RowCount int `json:"row_count"`
	ColCount int `json:"col_count"`

	// ColumnTypes is the majority cell type per column
	ColumnTypes []CellType `json:"-"`

	// ColumnTypeNames mirrors ColumnTypes for serialization
	ColumnTypeNames []string `json:"column_types"`

	// NumericColumns are the 0-based indices of numeric-majority columns
	NumericColumns []int `json:"numeric_columns,omitempty"`

	// Currencies are the distinct ISO currency codes seen in the table
	Currencies []string `json:"currencies,omitempty"`

	// Source tags the extraction pass that produced the table
	// ("ruled", "borderless", "content")
	Source string `json:"source"`

	// Confidence is the detection confidence (0-1)
	Confidence float64 `json:"confidence"`
}

// StructuredTable is a fully typed table record: headers plus ordered row
// records plus a table-level summary.
type StructuredTable struct {
	// Headers are the column header texts (may be synthesized)
	Headers []string `json:"headers"`

	// Rows are the typed data rows, in table order
	Rows [][]TypedCell `json:"rows"`

	// Summary describes the table's shape and content
	Summary TableSummary `json:"summary"`
}

// RowCount returns the number of data rows.
func (t *StructuredTable) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the number of columns.
func (t *StructuredTable) ColCount() int {
	if len(t.Headers) > 0 {
		return len(t.Headers)
	}
	if len(t.Rows) > 0 {
		return len(t.Rows[0])
	}
	return 0
}

// CellAt returns the cell at the given row and column (0-indexed), or nil
// if out of bounds.
func (t *StructuredTable) CellAt(row, col int) *TypedCell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row]) {
		return nil
	}
	return &t.Rows[row][col]
}

// ToMarkdown renders the table as a markdown table.
func (t *StructuredTable) ToMarkdown() string {
	if t.ColCount() == 0 {
		return ""
	}

	var sb strings.Builder

	headers := t.Headers
	if len(headers) == 0 {
		headers = make([]string, t.ColCount())
	}

	for _, h := range headers {
		sb.WriteString("| ")
		sb.WriteString(strings.ReplaceAll(h, "\n", " "))
		sb.WriteString(" ")
	}
	sb.WriteString("|\n")

	for range headers {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	for _, row := range t.Rows {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text, "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// ToCSV renders the table as comma-separated values, header row first.
func (t *StructuredTable) ToCSV() string {
	var sb strings.Builder

	writeRow := func(fields []string) {
		for j, text := range fields {
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(fields)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}

	if len(t.Headers) > 0 {
		writeRow(t.Headers)
	}
	for _, row := range t.Rows {
		fields := make([]string, len(row))
		for j, cell := range row {
			fields[j] = cell.Text
		}
		writeRow(fields)
	}

	return sb.String()
}

// Text renders the table as tab-separated plain text, header row first.
// This is the representation embedded in chunk text.
func (t *StructuredTable) Text() string {
	var sb strings.Builder
	if len(t.Headers) > 0 {
		sb.WriteString(strings.Join(t.Headers, "\t"))
		sb.WriteString("\n")
	}
	for _, row := range t.Rows {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
