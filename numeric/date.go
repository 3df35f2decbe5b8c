package numeric

import "regexp"

// Date-shape patterns used purely for cell typing. No calendar validation
// is performed: "99/99/9999" types as a date.
var datePatterns = []*regexp.Regexp{
	// Numeric with slash, dash, or dot separators: 12/31/2024, 31-12-24, 1.2.2024
	regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`),
	regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{2,4}$`),
	regexp.MustCompile(`^\d{1,2}\.\d{1,2}\.\d{2,4}$`),

	// ISO: 2024-12-31
	regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`),

	// Month-name variants: Jan 5, 2024 / January 5 2024 / 5 Jan 2024
	regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{2,4}$`),
	regexp.MustCompile(`(?i)^\d{1,2}\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{2,4}$`),

	// Month and year only: Jan 2024 / December 2024
	regexp.MustCompile(`(?i)^(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}$`),
}

// isDateShaped reports whether a token matches one of the common date
// shapes.
func isDateShaped(s string) bool {
	for _, pattern := range datePatterns {
		if pattern.MatchString(s) {
			return true
		}
	}
	return false
}
