package rag

import (
	"strings"
	"unicode"
)

// breakBefore finds the best position to cut text at or before limit,
// preferring sentence ends, then clause punctuation, then line breaks, then
// word boundaries. It returns limit itself when no boundary exists in the
// searchable window, so a cut always happens.
func breakBefore(text string, limit int) int {
	if limit >= len(text) {
		return len(text)
	}
	if limit <= 0 {
		return 0
	}

	// Don't search the whole text: a boundary more than half the window
	// back defeats the size target
	floor := limit / 2

	window := text[:limit]
	if pos := lastSentenceEnd(window, floor); pos > 0 {
		return pos
	}
	if pos := lastAny(window, floor, ",;:"); pos > 0 {
		return pos + 1
	}
	if pos := strings.LastIndexByte(window, '\n'); pos > floor {
		return pos + 1
	}
	if pos := lastSpace(window, floor); pos > 0 {
		return pos + 1
	}
	return limit
}

// lastSentenceEnd finds the end of the last complete sentence in window at
// or after floor, returning the position just past the punctuation.
func lastSentenceEnd(window string, floor int) int {
	for i := len(window) - 1; i > floor; i-- {
		c := window[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		// Sentence ends are followed by space or end of window
		if i+1 < len(window) && !unicode.IsSpace(rune(window[i+1])) {
			continue
		}
		return i + 1
	}
	return 0
}

// lastAny finds the last occurrence of any byte in set at or after floor.
func lastAny(window string, floor int, set string) int {
	if pos := strings.LastIndexAny(window, set); pos > floor {
		return pos
	}
	return 0
}

// lastSpace finds the last whitespace byte at or after floor.
func lastSpace(window string, floor int) int {
	for i := len(window) - 1; i > floor; i-- {
		if unicode.IsSpace(rune(window[i])) {
			return i
		}
	}
	return 0
}

// overlapTail returns the text carried from one chunk into the next. The
// tail length lands inside [minLen, maxLen] and starts at a word boundary;
// when the text is too short or no boundary fits the band, the overlap is
// empty rather than mid-word.
func overlapTail(text string, minLen, maxLen int) string {
	if minLen <= 0 || maxLen < minLen || len(text) <= minLen {
		return ""
	}
	if maxLen > len(text) {
		maxLen = len(text)
	}

	// Search the band, longest first, for a boundary to start the tail at
	start := len(text) - maxLen
	end := len(text) - minLen
	for i := start; i <= end && i < len(text); i++ {
		if i == 0 || unicode.IsSpace(rune(text[i-1])) {
			// Trimming can shorten a whitespace-led tail below the
			// band; such a boundary does not count
			tail := strings.TrimSpace(text[i:])
			if len(tail) < minLen {
				continue
			}
			return tail
		}
	}
	return ""
}
