package lamina

import (
	"fmt"
	"strings"
)

// Warning is a non-fatal problem encountered while processing. Warnings
// never stop processing: the affected page degrades (a missed table, a
// skipped malformed item) and the rest of the document proceeds.
type Warning struct {
	// Page is the 1-indexed page the warning arose on, 0 for non-paged
	// sources
	Page int

	// Component names the processing stage that raised the warning
	Component string

	// Message describes the problem
	Message string
}

// String formats the warning for display.
func (w Warning) String() string {
	if w.Page > 0 {
		return fmt.Sprintf("page %d [%s]: %s", w.Page, w.Component, w.Message)
	}
	return fmt.Sprintf("[%s]: %s", w.Component, w.Message)
}

// FormatWarnings formats a warning list as one semicolon-separated string.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}
