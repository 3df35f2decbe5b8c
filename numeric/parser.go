package numeric

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"

	"github.com/tsawler/lamina/model"
)

// Kind classifies the result of parsing a token.
type Kind int

const (
	// KindEmpty is a blank token
	KindEmpty Kind = iota
	// KindText is a token with no recognized numeric or date content
	KindText
	// KindNumber is a plain numeric token
	KindNumber
	// KindCurrency is a numeric token with a currency symbol or code
	KindCurrency
	// KindPercentage is a numeric token with a percent sign
	KindPercentage
	// KindDate is a date-shaped token
	KindDate
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindCurrency:
		return "currency"
	case KindPercentage:
		return "percentage"
	case KindDate:
		return "date"
	default:
		return "unknown"
	}
}

// Result is the typed outcome of parsing one token.
type Result struct {
	// Kind is the token classification
	Kind Kind

	// Value is the parsed numeric value after sign and magnitude are
	// applied (0 for non-numeric kinds)
	Value float64

	// RawValue is the parsed value before the magnitude multiplier and
	// sign were applied
	RawValue float64

	// Currency is the ISO 4217 code when a currency marker was found
	Currency string

	// IsPercentage is true if the token carried a percent sign
	IsPercentage bool

	// IsNegative is true if the token was parenthesized or carried a minus
	IsNegative bool

	// Text is the original token, untouched
	Text string
}

// IsNumeric returns true for kinds carrying a numeric value.
func (r Result) IsNumeric() bool {
	switch r.Kind {
	case KindNumber, KindCurrency, KindPercentage:
		return true
	default:
		return false
	}
}

// Config holds parser configuration.
type Config struct {
	// ExtraSymbols maps additional currency symbols to ISO codes, merged
	// over the built-in symbol table
	ExtraSymbols map[string]string

	// DisableMagnitudes turns off k/m/b and spelled-out multiplier suffixes
	DisableMagnitudes bool
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{}
}

// Parser parses text tokens into typed numeric, currency, percentage, or
// date values. Numeric cores are parsed with locale disambiguation: strict
// European and US digit-grouping patterns are tried first, then
// single-separator heuristics, then separators are stripped outright as a
// last resort. A token that cannot be confidently resolved is classified
// as text rather than guessed.
type Parser struct {
	config  Config
	symbols map[string]string
}

// NewParser creates a parser with default configuration.
func NewParser() *Parser {
	return NewParserWithConfig(DefaultConfig())
}

// NewParserWithConfig creates a parser with custom configuration.
func NewParserWithConfig(config Config) *Parser {
	symbols := map[string]string{
		"$":   "USD",
		"US$": "USD",
		"C$":  "CAD",
		"A$":  "AUD",
		"€":   "EUR",
		"£":   "GBP",
		"¥":   "JPY",
		"₹":   "INR",
		"₩":   "KRW",
		"₽":   "RUB",
		"R$":  "BRL",
		"CHF": "CHF",
	}
	for sym, code := range config.ExtraSymbols {
		symbols[sym] = code
	}
	return &Parser{config: config, symbols: symbols}
}

// Strict digit-grouping patterns. The European pattern uses '.' to group
// thousands and ',' as the decimal mark; the US pattern is the reverse.
var (
	euGroupedPattern = regexp.MustCompile(`^\d{1,3}(?:\.\d{3})+(?:,\d+)?$`)
	usGroupedPattern = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	isoCodePattern   = regexp.MustCompile(`^[A-Z]{3}$`)
)

// Magnitude suffixes applied as multipliers after the numeric core is parsed.
var magnitudeSuffixes = []struct {
	suffix     string
	multiplier float64
}{
	{"thousand", 1e3},
	{"million", 1e6},
	{"billion", 1e9},
	{"bn", 1e9},
	{"k", 1e3},
	{"m", 1e6},
	{"b", 1e9},
}

// Parse parses a single token into a typed result. It never returns an
// error: unparseable content is classified as text, blank content as empty.
func (p *Parser) Parse(token string) Result {
	result := Result{Text: token}

	s := strings.TrimSpace(token)
	if s == "" {
		result.Kind = KindEmpty
		return result
	}

	if isDateShaped(s) {
		result.Kind = KindDate
		return result
	}

	// Peel markers off the edges: currency symbols/codes, parentheses,
	// leading minus, trailing percent. Order is not fixed in real input
	// ("$(1,234.50)", "(1,234.50) USD"), so peel until stable.
	for {
		before := s

		s = strings.TrimSpace(s)

		if code, rest, ok := p.stripCurrency(s); ok {
			result.Currency = code
			s = rest
			continue
		}

		if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") && len(s) > 2 {
			result.IsNegative = true
			s = s[1 : len(s)-1]
			continue
		}

		if strings.HasPrefix(s, "-") {
			result.IsNegative = true
			s = s[1:]
			continue
		}

		if strings.HasSuffix(s, "%") {
			result.IsPercentage = true
			s = strings.TrimSuffix(s, "%")
			continue
		}

		if s == before {
			break
		}
	}

	multiplier := 1.0
	if !p.config.DisableMagnitudes {
		s, multiplier = stripMagnitude(s)
	}

	value, ok := parseNumericCore(strings.TrimSpace(s))
	if !ok {
		result.Kind = KindText
		result.Currency = ""
		result.IsPercentage = false
		result.IsNegative = false
		return result
	}

	result.RawValue = value
	result.Value = value * multiplier
	if result.IsNegative {
		result.Value = -result.Value
	}

	switch {
	case result.Currency != "":
		result.Kind = KindCurrency
	case result.IsPercentage:
		result.Kind = KindPercentage
	default:
		result.Kind = KindNumber
	}

	return result
}

// stripCurrency removes a currency symbol or ISO code from either edge of
// the token and returns the corresponding ISO code.
func (p *Parser) stripCurrency(s string) (code, rest string, ok bool) {
	// Longer symbols first so "US$" wins over "$"
	for _, sym := range []string{"US$", "C$", "A$", "R$"} {
		if strings.HasPrefix(s, sym) {
			return p.symbols[sym], s[len(sym):], true
		}
	}
	for sym, symCode := range p.symbols {
		if strings.HasPrefix(s, sym) {
			return symCode, strings.TrimPrefix(s, sym), true
		}
		if strings.HasSuffix(s, sym) && len(s) > len(sym) {
			return symCode, strings.TrimSuffix(s, sym), true
		}
	}

	// Space-separated ISO code at either edge, validated against the
	// registered unit table
	fields := strings.Fields(s)
	if len(fields) >= 2 {
		if c, valid := validISOCode(fields[0]); valid {
			return c, strings.Join(fields[1:], " "), true
		}
		if c, valid := validISOCode(fields[len(fields)-1]); valid {
			return c, strings.Join(fields[:len(fields)-1], " "), true
		}
	}

	return "", s, false
}

// validISOCode checks whether the token is a known ISO 4217 currency code.
func validISOCode(s string) (string, bool) {
	if !isoCodePattern.MatchString(s) {
		return "", false
	}
	unit, err := currency.ParseISO(s)
	if err != nil {
		return "", false
	}
	return unit.String(), true
}

// stripMagnitude removes a trailing magnitude suffix and returns the
// multiplier it implies.
func stripMagnitude(s string) (string, float64) {
	lower := strings.ToLower(strings.TrimSpace(s))
	for _, m := range magnitudeSuffixes {
		if !strings.HasSuffix(lower, m.suffix) {
			continue
		}
		head := strings.TrimSpace(s[:len(lower)-len(m.suffix)])
		if head == "" {
			continue
		}
		// The remainder must end in a digit: "risk" is not "ris" + k
		if c := head[len(head)-1]; c < '0' || c > '9' {
			continue
		}
		return head, m.multiplier
	}
	return s, 1.0
}

// parseNumericCore parses a bare numeric string with locale disambiguation.
func parseNumericCore(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}

	// Strict European grouping: 1.234.567,89
	if euGroupedPattern.MatchString(s) {
		normalized := strings.ReplaceAll(s, ".", "")
		normalized = strings.ReplaceAll(normalized, ",", ".")
		return parseFloat(normalized)
	}

	// Strict US grouping: 1,234,567.89
	if usGroupedPattern.MatchString(s) {
		normalized := strings.ReplaceAll(s, ",", "")
		return parseFloat(normalized)
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")

	switch {
	case hasComma && !hasDot:
		// Comma is the decimal mark when it is the only separator and
		// appears once; repeated commas are grouping
		if strings.Count(s, ",") == 1 {
			return parseFloat(strings.ReplaceAll(s, ",", "."))
		}
		return parseFloat(strings.ReplaceAll(s, ",", ""))

	case hasDot && !hasComma:
		if strings.Count(s, ".") == 1 {
			return parseFloat(s)
		}
		return parseFloat(strings.ReplaceAll(s, ".", ""))

	case hasComma && hasDot:
		// Mixed separators that matched neither strict pattern: the
		// rightmost separator is taken as the decimal mark
		lastComma := strings.LastIndex(s, ",")
		lastDot := strings.LastIndex(s, ".")
		if lastComma > lastDot {
			normalized := strings.ReplaceAll(s, ".", "")
			normalized = strings.ReplaceAll(normalized, ",", ".")
			return parseFloat(normalized)
		}
		return parseFloat(strings.ReplaceAll(s, ",", ""))
	}

	return parseFloat(s)
}

// parseFloat wraps strconv.ParseFloat, stripping any residual separators as
// a last resort before giving up.
func parseFloat(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, true
	}

	stripped := strings.Map(func(r rune) rune {
		if r == ',' || r == ' ' {
			return -1
		}
		return r
	}, s)
	if stripped == s {
		return 0, false
	}
	v, err = strconv.ParseFloat(stripped, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Cell parses a token into a typed table cell.
func (p *Parser) Cell(token string) model.TypedCell {
	result := p.Parse(token)

	cell := model.TypedCell{
		Text:     token,
		Value:    result.Value,
		Currency: result.Currency,
		Negative: result.IsNegative,
	}

	switch result.Kind {
	case KindEmpty:
		cell.Type = model.CellEmpty
	case KindDate:
		cell.Type = model.CellDate
	case KindCurrency:
		cell.Type = model.CellCurrency
	case KindPercentage:
		cell.Type = model.CellPercentage
	case KindNumber:
		cell.Type = model.CellNumber
	default:
		cell.Type = model.CellText
	}

	return cell
}

// ScanText tokenizes free text and aggregates numeric metadata over it.
// Returns nil when no numeric or date content is found.
func (p *Parser) ScanText(text string) *model.NumericMetadata {
	var meta model.NumericMetadata
	found := false

	for _, token := range strings.Fields(text) {
		token = trimTokenPunctuation(token)
		result := p.Parse(token)

		switch {
		case result.IsNumeric():
			if !found || result.Value < meta.MinValue {
				meta.MinValue = result.Value
			}
			if !found || result.Value > meta.MaxValue {
				meta.MaxValue = result.Value
			}
			meta.ValueCount++
			found = true

			if result.Currency != "" {
				addCurrency(&meta, result.Currency)
			}
			if result.IsPercentage {
				meta.HasPercentage = true
			}

		case result.Kind == KindDate:
			meta.HasDate = true
			found = true
		}
	}

	if !found {
		return nil
	}
	return &meta
}

// trimTokenPunctuation strips sentence punctuation and unbalanced
// parentheses that cling to tokens pulled out of running prose.
func trimTokenPunctuation(token string) string {
	token = strings.Trim(token, ",;:")
	token = strings.TrimRight(token, ".")
	if strings.Count(token, "(") != strings.Count(token, ")") {
		token = strings.Trim(token, "()")
	}
	return token
}

// addCurrency appends a currency code if not already present.
func addCurrency(meta *model.NumericMetadata, code string) {
	for _, existing := range meta.Currencies {
		if existing == code {
			return
		}
	}
	meta.Currencies = append(meta.Currencies, code)
}
