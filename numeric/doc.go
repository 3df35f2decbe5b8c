// Package numeric parses text tokens into typed values: numbers, currency
// amounts, percentages, and date-shaped strings. It resolves the ambiguity
// between European and US digit grouping ("1.234,50" vs "1,234.50"),
// handles parenthetical negatives and magnitude suffixes ("2.5k",
// "3 million"), and validates currency codes against ISO 4217.
//
// The parser never errors: content it cannot confidently resolve is
// classified as text rather than guessed.
package numeric
