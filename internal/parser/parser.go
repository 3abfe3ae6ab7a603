// Package parser derives display metadata from plain-text note content.
package parser

import (
	"strings"
	"unicode/utf8"
)

// maxTitleRunes caps the derived title length.
const maxTitleRunes = 80

// Result holds the output of parsing a note.
type Result struct {
	Title string
	Lines int
	Words int
	Bytes int
}

// Parse extracts a title and simple counts from raw note bytes.
func Parse(data []byte) *Result {
	text := string(data)
	return &Result{
		Title: deriveTitle(text),
		Lines: countLines(text),
		Words: len(strings.Fields(text)),
		Bytes: len(data),
	}
}

// deriveTitle returns the first non-blank line, trimmed and truncated.
func deriveTitle(text string) string {
	for line := range strings.Lines(text) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxTitleRunes {
			r := []rune(line)
			return string(r[:maxTitleRunes-1]) + "…"
		}
		return line
	}
	return ""
}

// countLines counts lines the way an editor shows them: a trailing newline
// does not open a new line, and empty content has none.
func countLines(text string) int {
	if text == "" {
		return 0
	}
	n := strings.Count(text, "\n")
	if !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}
