package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tsawler/lamina/model"
)

func TestParse_PlainNumbers(t *testing.T) {
	p := NewParser()

	tests := []struct {
		token string
		value float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"-17", -17},
		{"0", 0},
	}

	for _, tt := range tests {
		result := p.Parse(tt.token)
		assert.Equal(t, KindNumber, result.Kind, "token %q", tt.token)
		assert.InDelta(t, tt.value, result.Value, 1e-9, "token %q", tt.token)
	}
}

func TestParse_LocaleDisambiguation(t *testing.T) {
	p := NewParser()

	tests := []struct {
		token string
		value float64
	}{
		// Strict US grouping
		{"1,234.50", 1234.50},
		{"12,345,678.9", 12345678.9},
		// Strict European grouping
		{"1.234,50", 1234.50},
		{"1.234.567", 1234567},
		// Single-comma decimal
		{"3,5", 3.5},
		// Repeated commas without a dot are grouping
		{"1,234,567", 1234567},
		// Bare European grouping without decimals
		{"1.234", 1234},
	}

	for _, tt := range tests {
		result := p.Parse(tt.token)
		assert.True(t, result.IsNumeric(), "token %q should be numeric", tt.token)
		assert.InDelta(t, tt.value, result.Value, 1e-9, "token %q", tt.token)
	}
}

func TestParse_ParentheticalCurrency(t *testing.T) {
	p := NewParser()

	result := p.Parse("$(1,234.50)")
	assert.Equal(t, KindCurrency, result.Kind)
	assert.InDelta(t, -1234.50, result.Value, 1e-9)
	assert.Equal(t, "USD", result.Currency)
	assert.True(t, result.IsNegative)
}

func TestParse_CurrencyMarkers(t *testing.T) {
	p := NewParser()

	tests := []struct {
		token    string
		currency string
		value    float64
	}{
		{"$100", "USD", 100},
		{"€1.234,50", "EUR", 1234.50},
		{"£99.99", "GBP", 99.99},
		{"100 USD", "USD", 100},
		{"EUR 250", "EUR", 250},
		{"¥5000", "JPY", 5000},
	}

	for _, tt := range tests {
		result := p.Parse(tt.token)
		assert.Equal(t, KindCurrency, result.Kind, "token %q", tt.token)
		assert.Equal(t, tt.currency, result.Currency, "token %q", tt.token)
		assert.InDelta(t, tt.value, result.Value, 1e-9, "token %q", tt.token)
	}
}

func TestParse_InvalidISOCodeIsText(t *testing.T) {
	p := NewParser()

	result := p.Parse("XQZ 100")
	assert.Equal(t, KindText, result.Kind)
	assert.Empty(t, result.Currency)
}

func TestParse_Magnitudes(t *testing.T) {
	p := NewParser()

	tests := []struct {
		token string
		value float64
		raw   float64
	}{
		{"2.5k", 2500, 2.5},
		{"3M", 3e6, 3},
		{"1.2b", 1.2e9, 1.2},
		{"4 million", 4e6, 4},
		{"10 thousand", 10000, 10},
	}

	for _, tt := range tests {
		result := p.Parse(tt.token)
		assert.True(t, result.IsNumeric(), "token %q", tt.token)
		assert.InDelta(t, tt.value, result.Value, 1e-3, "token %q", tt.token)
		assert.InDelta(t, tt.raw, result.RawValue, 1e-9, "raw for %q", tt.token)
	}

	// A word merely ending in a magnitude letter is not a number
	assert.Equal(t, KindText, p.Parse("risk").Kind)
}

func TestParse_Percentages(t *testing.T) {
	p := NewParser()

	result := p.Parse("12.5%")
	assert.Equal(t, KindPercentage, result.Kind)
	assert.InDelta(t, 12.5, result.Value, 1e-9)
	assert.True(t, result.IsPercentage)

	negative := p.Parse("(3,2%)")
	assert.Equal(t, KindPercentage, negative.Kind)
	assert.InDelta(t, -3.2, negative.Value, 1e-9)
}

func TestParse_Dates(t *testing.T) {
	p := NewParser()

	dates := []string{
		"12/31/2024",
		"31-12-2024",
		"2024-12-31",
		"1.2.2024",
		"Jan 5, 2024",
		"January 5 2024",
		"5 Jan 2024",
		"December 2024",
	}

	for _, token := range dates {
		assert.Equal(t, KindDate, p.Parse(token).Kind, "token %q", token)
	}

	// Shape check only, no calendar validation
	assert.Equal(t, KindDate, p.Parse("99/99/9999").Kind)
}

func TestParse_TextAndEmpty(t *testing.T) {
	p := NewParser()

	assert.Equal(t, KindEmpty, p.Parse("").Kind)
	assert.Equal(t, KindEmpty, p.Parse("   ").Kind)
	assert.Equal(t, KindText, p.Parse("revenue").Kind)
	assert.Equal(t, KindText, p.Parse("n/a").Kind)

	// Markers without a numeric core degrade to text with no flags set
	result := p.Parse("(abc)")
	assert.Equal(t, KindText, result.Kind)
	assert.False(t, result.IsNegative)
}

func TestCell_Typing(t *testing.T) {
	p := NewParser()

	tests := []struct {
		token string
		want  model.CellType
	}{
		{"$1,000", model.CellCurrency},
		{"42", model.CellNumber},
		{"8.5%", model.CellPercentage},
		{"2024-01-15", model.CellDate},
		{"total", model.CellText},
		{"", model.CellEmpty},
	}

	for _, tt := range tests {
		cell := p.Cell(tt.token)
		assert.Equal(t, tt.want, cell.Type, "token %q", tt.token)
		assert.Equal(t, tt.token, cell.Text, "original text preserved for %q", tt.token)
	}
}

func TestScanText(t *testing.T) {
	p := NewParser()

	meta := p.ScanText("Revenue grew to $1.2M (up 15%) by 12/31/2024, from $900k.")
	assert.NotNil(t, meta)
	assert.Equal(t, 3, meta.ValueCount)
	assert.Equal(t, []string{"USD"}, meta.Currencies)
	assert.True(t, meta.HasPercentage)
	assert.True(t, meta.HasDate)
	assert.InDelta(t, 1.2e6, meta.MaxValue, 1e-3)

	assert.Nil(t, p.ScanText("no numbers here at all"))
	assert.Nil(t, p.ScanText(""))
}
