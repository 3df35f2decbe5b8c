package layout

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/tsawler/lamina/model"
)

// UnitConfig holds configuration for classifying residual lines into
// headings, bullets, and paragraphs.
type UnitConfig struct {
	// MaxHeadingWords is the maximum word count for a heading candidate
	// (default: 12)
	MaxHeadingWords int

	// HeadingFontRatio marks a line as a heading when its font size
	// exceeds the page's median font by this ratio (default: 1.15)
	HeadingFontRatio float64

	// ParagraphGapFactor ends a paragraph when the Y gap to the next line
	// exceeds this multiple of the median line gap (default: 1.8)
	ParagraphGapFactor float64
}

// DefaultUnitConfig returns sensible default configuration.
func DefaultUnitConfig() UnitConfig {
	return UnitConfig{
		MaxHeadingWords:    12,
		HeadingFontRatio:   1.15,
		ParagraphGapFactor: 1.8,
	}
}

// Bullet and numbering prefixes recognized at the start of a line.
var bulletPattern = regexp.MustCompile(`^\s*([•◦▪●○‣·*]|[-–—]\s|\d{1,3}[.)]\s|[a-z][.)]\s|[ivxIVX]{1,5}[.)]\s)`)

// Section-number heading prefixes: "3.", "3.2", "3.2.1 Title".
var sectionNumberPattern = regexp.MustCompile(`^\d{1,2}(\.\d{1,2}){0,3}\.?\s+\S`)

// LineClass is the classification of one residual line.
type LineClass int

const (
	// ClassParagraphLine is a plain prose line
	ClassParagraphLine LineClass = iota
	// ClassHeadingLine is a heading line
	ClassHeadingLine
	// ClassBulletLine starts a list item
	ClassBulletLine
)

// ClassifyLine classifies a single line against the page's median font
// size. Headings are short, title-cased, numbered/section-like, or set in
// a noticeably larger font. Bullets carry a recognized bullet or numbering
// glyph prefix.
func ClassifyLine(line model.Line, medianFont float64, config UnitConfig) LineClass {
	text := strings.TrimSpace(line.Text)
	if text == "" {
		return ClassParagraphLine
	}

	if bulletPattern.MatchString(text) && !sectionNumberPattern.MatchString(text) {
		return ClassBulletLine
	}

	words := strings.Fields(text)
	if len(words) <= config.MaxHeadingWords {
		if sectionNumberPattern.MatchString(text) {
			return ClassHeadingLine
		}
		if medianFont > 0 && line.AverageFontSize >= medianFont*config.HeadingFontRatio {
			return ClassHeadingLine
		}
		if isTitleCased(words) && !endsWithSentencePunctuation(text) {
			return ClassHeadingLine
		}
		if isAllCaps(text) && len(words) >= 1 {
			return ClassHeadingLine
		}
	}

	return ClassParagraphLine
}

// isTitleCased reports whether most significant words start with an
// uppercase letter.
func isTitleCased(words []string) bool {
	if len(words) == 0 {
		return false
	}
	capitalized := 0
	significant := 0
	for _, word := range words {
		runes := []rune(word)
		if len(runes) == 0 || !unicode.IsLetter(runes[0]) {
			continue
		}
		// Short function words are allowed in lowercase
		if len(runes) <= 3 && significant > 0 {
			continue
		}
		significant++
		if unicode.IsUpper(runes[0]) {
			capitalized++
		}
	}
	return significant >= 1 && capitalized == significant
}

// isAllCaps reports whether the text's letters are all uppercase.
func isAllCaps(text string) bool {
	letters := 0
	for _, r := range text {
		if unicode.IsLetter(r) {
			letters++
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return letters >= 2
}

// endsWithSentencePunctuation reports a trailing '.', '!', '?', ';' or ':'.
func endsWithSentencePunctuation(text string) bool {
	trimmed := strings.TrimRight(text, " \t")
	if trimmed == "" {
		return false
	}
	switch trimmed[len(trimmed)-1] {
	case '.', '!', '?', ';', ':':
		return true
	}
	return false
}

// medianFontSize returns the median average font size across lines.
func medianFontSize(lines []model.Line) float64 {
	if len(lines) == 0 {
		return 0
	}
	sizes := make([]float64, 0, len(lines))
	for _, line := range lines {
		if line.AverageFontSize > 0 {
			sizes = append(sizes, line.AverageFontSize)
		}
	}
	return median(sizes)
}

// medianLineGap returns the median vertical gap between consecutive lines.
func medianLineGap(lines []model.Line) float64 {
	var gaps []float64
	for i := 1; i < len(lines); i++ {
		gap := lines[i].BBox.Top() - lines[i-1].BBox.Bottom()
		if gap > 0 {
			gaps = append(gaps, gap)
		}
	}
	return median(gaps)
}
