package tables

import (
	"fmt"
	"strings"

	"github.com/tsawler/lamina/model"
	"github.com/tsawler/lamina/numeric"
)

// Structurer converts raw candidate cell grids into typed StructuredTables:
// it infers whether the first row is a header, normalizes row widths, types
// every cell, and summarizes per-column types and currencies.
type Structurer struct {
	parser *numeric.Parser
}

// NewStructurer creates a structurer backed by a default numeric parser.
func NewStructurer() *Structurer {
	return &Structurer{parser: numeric.NewParser()}
}

// NewStructurerWithParser creates a structurer that uses the supplied parser.
func NewStructurerWithParser(parser *numeric.Parser) *Structurer {
	return &Structurer{parser: parser}
}

// Structure builds a StructuredTable from a candidate. It never fails:
// ambiguous cells degrade to typed text.
func (s *Structurer) Structure(candidate Candidate) *model.StructuredTable {
	cols := 0
	for _, row := range candidate.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	if cols == 0 {
		return nil
	}

	normalized := make([][]string, len(candidate.Rows))
	for i, row := range candidate.Rows {
		padded := make([]string, cols)
		copy(padded, row)
		normalized[i] = padded
	}

	headers, dataRows := s.splitHeader(normalized)

	typed := make([][]model.TypedCell, len(dataRows))
	for i, row := range dataRows {
		cells := make([]model.TypedCell, cols)
		for j, text := range row {
			cells[j] = s.parser.Cell(text)
		}
		typed[i] = cells
	}

	table := &model.StructuredTable{
		Headers: headers,
		Rows:    typed,
	}
	table.Summary = s.summarize(table, candidate)
	return table
}

// splitHeader decides whether the first row is a header. The first row must
// be clearly more textual than the body rows to qualify; otherwise synthetic
// col_n headers are used and every row is data.
func (s *Structurer) splitHeader(rows [][]string) ([]string, [][]string) {
	cols := len(rows[0])

	synthesize := func() ([]string, [][]string) {
		headers := make([]string, cols)
		for i := range headers {
			headers[i] = fmt.Sprintf("col_%d", i+1)
		}
		return headers, rows
	}

	if len(rows) < 2 {
		return synthesize()
	}

	firstTextRatio := s.textRatio(rows[0])
	bodyTextTotal := 0.0
	for _, row := range rows[1:] {
		bodyTextTotal += s.textRatio(row)
	}
	bodyTextRatio := bodyTextTotal / float64(len(rows)-1)

	if firstTextRatio < bodyTextRatio+0.25 {
		return synthesize()
	}

	headers := make([]string, cols)
	for i, cell := range rows[0] {
		text := strings.TrimSpace(cell)
		if text == "" {
			text = fmt.Sprintf("col_%d", i+1)
		}
		headers[i] = text
	}
	return headers, rows[1:]
}

// textRatio returns the fraction of non-empty cells in a row that parse as
// plain text.
func (s *Structurer) textRatio(row []string) float64 {
	nonEmpty := 0
	text := 0
	for _, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		nonEmpty++
		if s.parser.Parse(cell).Kind == numeric.KindText {
			text++
		}
	}
	if nonEmpty == 0 {
		return 0
	}
	return float64(text) / float64(nonEmpty)
}

// summarize computes the per-column majority types, currency set, and
// provenance for a structured table.
var cellVoteOrder = []model.CellType{
	model.CellText,
	model.CellNumber,
	model.CellCurrency,
	model.CellPercentage,
	model.CellDate,
}

func (s *Structurer) summarize(table *model.StructuredTable, candidate Candidate) model.TableSummary {
	cols := table.ColCount()
	columnTypes := make([]model.CellType, cols)
	columnTypeNames := make([]string, cols)
	var numericColumns []int
	currencySet := map[string]bool{}
	var currencies []string

	for col := 0; col < cols; col++ {
		counts := map[model.CellType]int{}
		for _, row := range table.Rows {
			cell := row[col]
			if cell.Type == model.CellEmpty {
				continue
			}
			counts[cell.Type]++
			if cell.Currency != "" && !currencySet[cell.Currency] {
				currencySet[cell.Currency] = true
				currencies = append(currencies, cell.Currency)
			}
		}

		// Fixed voting order keeps tied columns stable across runs,
		// resolving toward the earlier declared type
		majority := model.CellText
		best := 0
		for _, cellType := range cellVoteOrder {
			if count := counts[cellType]; count > best {
				best = count
				majority = cellType
			}
		}
		columnTypes[col] = majority
		columnTypeNames[col] = majority.String()
		if majority.IsNumeric() {
			numericColumns = append(numericColumns, col)
		}
	}

	return model.TableSummary{
		RowCount:        table.RowCount(),
		ColCount:        cols,
		ColumnTypes:     columnTypes,
		ColumnTypeNames: columnTypeNames,
		NumericColumns:  numericColumns,
		Currencies:      currencies,
		Source:          candidate.Source,
		Confidence:      candidate.Confidence,
	}
}
